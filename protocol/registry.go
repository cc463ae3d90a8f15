package protocol

import "fmt"

// MessageType enumerates the GatewayOperation.type values the registry
// knows how to route to a concrete body. Requests and their paired
// responses/notifications are grouped together. Values match the
// bridge's real GatewayOperation.OperationType enum.
type MessageType uint32

const (
	TypeSetAddressRequest MessageType = 1

	TypeRegisterAppRequest  MessageType = 2
	TypeStartSessionRequest MessageType = 3
	TypeCloseSessionRequest MessageType = 4

	TypeListRegisteredAppsRequest MessageType = 5
	TypeDeregisterAppRequest      MessageType = 6
	TypeChangePinRequest          MessageType = 7

	TypeGetRemoteAccessIDRequest MessageType = 8
	TypeSetRemoteAccessIDRequest MessageType = 9

	TypeGetSupportIDRequest MessageType = 10
	TypeSetSupportIDRequest MessageType = 11

	TypeGetWebIDRequest MessageType = 12
	TypeSetWebIDRequest MessageType = 13

	TypeSetPushIDRequest MessageType = 14
	TypeDebugRequest     MessageType = 15
	TypeUpgradeRequest   MessageType = 16

	TypeSetDeviceSettingsRequest MessageType = 17
	TypeVersionRequest           MessageType = 18

	TypeSetAddressConfirm    MessageType = 0x33
	TypeRegisterAppConfirm   MessageType = 0x34
	TypeStartSessionResponse MessageType = 0x35
	TypeCloseSessionConfirm  MessageType = 0x36

	TypeListRegisteredAppsConfirm MessageType = 0x37
	TypeDeregisterAppConfirm      MessageType = 0x38
	TypeChangePinConfirm          MessageType = 0x39

	TypeGetRemoteAccessIDConfirm MessageType = 0x3a
	TypeSetRemoteAccessIDConfirm MessageType = 0x3b

	TypeGetSupportIDConfirm MessageType = 0x3c
	TypeSetSupportIDConfirm MessageType = 0x3d

	TypeGetWebIDConfirm MessageType = 0x3e
	TypeSetWebIDConfirm MessageType = 0x3f

	TypeSetPushIDConfirm MessageType = 0x40
	TypeDebugConfirm     MessageType = 0x41
	TypeUpgradeConfirm   MessageType = 0x42

	TypeSetDeviceSettingsConfirm MessageType = 0x43
	TypeVersionConfirm           MessageType = 0x44

	TypeGatewayNotification MessageType = 0x64
	TypeKeepAlive           MessageType = 0x65
	TypeFactoryReset        MessageType = 0x66

	TypeCnTimeRequest        MessageType = 0x1e
	TypeCnTimeConfirm        MessageType = 0x1f
	TypeCnNodeNotification   MessageType = 0x20
	TypeRmiRequest           MessageType = 0x21
	TypeRmiResponse          MessageType = 0x22
	TypeRmiAsyncRequest      MessageType = 0x23
	TypeRmiAsyncConfirm      MessageType = 0x24
	TypeRmiAsyncResponse     MessageType = 0x25
	TypeRpdoRequest          MessageType = 0x26
	TypeRpdoConfirm          MessageType = 0x27
	TypeCnRpdoNotification   MessageType = 0x28
	TypeCnAlarmNotification  MessageType = 0x29
	TypeCnNodeRequest        MessageType = 0x2a

	TypeCnFupReadRegisterRequest MessageType = 0x46
	TypeCnFupReadRegisterConfirm MessageType = 0x47
	TypeCnFupProgramBeginRequest MessageType = 0x48
	TypeCnFupProgramBeginConfirm MessageType = 0x49
	TypeCnFupProgramRequest      MessageType = 0x4a
	TypeCnFupProgramConfirm      MessageType = 0x4b
	TypeCnFupProgramEndRequest   MessageType = 0x4c
	TypeCnFupProgramEndConfirm   MessageType = 0x4d
	TypeCnFupReadRequest         MessageType = 0x4e
	TypeCnFupReadConfirm         MessageType = 0x4f
	TypeCnFupResetRequest        MessageType = 0x50
	TypeCnFupResetConfirm        MessageType = 0x51
	TypeCnWhoAmIRequest          MessageType = 0x52
	TypeCnWhoAmIConfirm          MessageType = 0x53

	TypeWiFiSettingsRequest    MessageType = 0x78
	TypeWiFiSettingsConfirm    MessageType = 0x79
	TypeWiFiNetworksRequest    MessageType = 0x7a
	TypeWiFiNetworksConfirm    MessageType = 0x7b
	TypeWiFiJoinNetworkRequest MessageType = 0x7c
	TypeWiFiJoinNetworkConfirm MessageType = 0x7d
)

// bodyKind distinguishes how a registered body's content is shaped, for the
// purpose of the generic Decode/Encode dispatchers below. Command types
// that carry only src/dst addressing and rely entirely on the
// GatewayOperation header are registered as bodyKindEmpty; the others
// carry a protobuf body and are registered as bodyKindTyped. Only some of
// the typed ones (rmi request/response, notifications, ...) are modeled
// with a concrete struct in messages.go.
type bodyKind int

const (
	bodyKindEmpty bodyKind = iota
	bodyKindTyped
)

// registryEntry is one row of the type table: the message kind's human
// name (for logging) and whether it carries a typed body.
type registryEntry struct {
	name string
	kind bodyKind
}

// registry maps every MessageType the bridge protocol defines to its
// registry entry. Types not modeled with a concrete Go struct in
// messages.go still round-trip: their body travels as an opaque byte slice
// (see Opaque in messages.go).
var registry = map[MessageType]registryEntry{
	TypeSetAddressRequest:         {"SetAddressRequest", bodyKindTyped},
	TypeSetAddressConfirm:         {"SetAddressConfirm", bodyKindEmpty},
	TypeRegisterAppRequest:        {"RegisterAppRequest", bodyKindTyped},
	TypeRegisterAppConfirm:        {"RegisterAppConfirm", bodyKindEmpty},
	TypeStartSessionRequest:       {"StartSessionRequest", bodyKindTyped},
	TypeStartSessionResponse:      {"StartSessionConfirm", bodyKindTyped},
	TypeCloseSessionRequest:       {"CloseSessionRequest", bodyKindEmpty},
	TypeCloseSessionConfirm:       {"CloseSessionConfirm", bodyKindEmpty},
	TypeListRegisteredAppsRequest: {"ListRegisteredAppsRequest", bodyKindEmpty},
	TypeListRegisteredAppsConfirm: {"ListRegisteredAppsConfirm", bodyKindTyped},
	TypeDeregisterAppRequest:      {"DeregisterAppRequest", bodyKindTyped},
	TypeDeregisterAppConfirm:      {"DeregisterAppConfirm", bodyKindEmpty},
	TypeChangePinRequest:          {"ChangePinRequest", bodyKindTyped},
	TypeChangePinConfirm:          {"ChangePinConfirm", bodyKindEmpty},
	TypeGetRemoteAccessIDRequest:  {"GetRemoteAccessIdRequest", bodyKindEmpty},
	TypeGetRemoteAccessIDConfirm:  {"GetRemoteAccessIdConfirm", bodyKindTyped},
	TypeSetRemoteAccessIDRequest:  {"SetRemoteAccessIdRequest", bodyKindTyped},
	TypeSetRemoteAccessIDConfirm:  {"SetRemoteAccessIdConfirm", bodyKindEmpty},
	TypeGetSupportIDRequest:       {"GetSupportIdRequest", bodyKindEmpty},
	TypeGetSupportIDConfirm:       {"GetSupportIdConfirm", bodyKindTyped},
	TypeSetSupportIDRequest:       {"SetSupportIdRequest", bodyKindTyped},
	TypeSetSupportIDConfirm:       {"SetSupportIdConfirm", bodyKindEmpty},
	TypeGetWebIDRequest:           {"GetWebIdRequest", bodyKindEmpty},
	TypeGetWebIDConfirm:           {"GetWebIdConfirm", bodyKindTyped},
	TypeSetWebIDRequest:           {"SetWebIdRequest", bodyKindTyped},
	TypeSetWebIDConfirm:           {"SetWebIdConfirm", bodyKindEmpty},
	TypeSetPushIDRequest:          {"SetPushIdRequest", bodyKindTyped},
	TypeSetPushIDConfirm:          {"SetPushIdConfirm", bodyKindEmpty},
	TypeDebugRequest:              {"DebugRequest", bodyKindTyped},
	TypeDebugConfirm:              {"DebugConfirm", bodyKindTyped},
	TypeUpgradeRequest:            {"UpgradeRequest", bodyKindTyped},
	TypeUpgradeConfirm:            {"UpgradeConfirm", bodyKindEmpty},
	TypeSetDeviceSettingsRequest:  {"SetDeviceSettingsRequest", bodyKindTyped},
	TypeSetDeviceSettingsConfirm:  {"SetDeviceSettingsConfirm", bodyKindEmpty},
	TypeVersionRequest:            {"VersionRequest", bodyKindEmpty},
	TypeVersionConfirm:            {"VersionConfirm", bodyKindTyped},
	TypeGatewayNotification:       {"GatewayNotification", bodyKindTyped},
	TypeKeepAlive:                 {"KeepAlive", bodyKindEmpty},
	TypeFactoryReset:              {"FactoryReset", bodyKindTyped},
	TypeCnTimeRequest:             {"CnTimeRequest", bodyKindEmpty},
	TypeCnTimeConfirm:             {"CnTimeConfirm", bodyKindTyped},
	TypeCnNodeNotification:        {"CnNodeNotification", bodyKindTyped},
	TypeCnNodeRequest:             {"CnNodeRequest", bodyKindEmpty},
	TypeRmiRequest:                {"CnRmiRequest", bodyKindTyped},
	TypeRmiResponse:               {"CnRmiResponse", bodyKindTyped},
	TypeRmiAsyncRequest:           {"CnRmiAsyncRequest", bodyKindTyped},
	TypeRmiAsyncConfirm:           {"CnRmiAsyncConfirm", bodyKindEmpty},
	TypeRmiAsyncResponse:          {"CnRmiAsyncResponse", bodyKindTyped},
	TypeRpdoRequest:               {"CnRpdoRequest", bodyKindTyped},
	TypeRpdoConfirm:               {"CnRpdoConfirm", bodyKindEmpty},
	TypeCnRpdoNotification:        {"CnRpdoNotification", bodyKindTyped},
	TypeCnAlarmNotification:       {"CnAlarmNotification", bodyKindTyped},
	TypeCnFupReadRegisterRequest:  {"CnFupReadRegisterRequest", bodyKindTyped},
	TypeCnFupReadRegisterConfirm:  {"CnFupReadRegisterConfirm", bodyKindTyped},
	TypeCnFupProgramBeginRequest:  {"CnFupProgramBeginRequest", bodyKindTyped},
	TypeCnFupProgramBeginConfirm:  {"CnFupProgramBeginConfirm", bodyKindEmpty},
	TypeCnFupProgramRequest:       {"CnFupProgramRequest", bodyKindTyped},
	TypeCnFupProgramConfirm:       {"CnFupProgramConfirm", bodyKindEmpty},
	TypeCnFupProgramEndRequest:    {"CnFupProgramEndRequest", bodyKindEmpty},
	TypeCnFupProgramEndConfirm:    {"CnFupProgramEndConfirm", bodyKindEmpty},
	TypeCnFupReadRequest:          {"CnFupReadRequest", bodyKindTyped},
	TypeCnFupReadConfirm:          {"CnFupReadConfirm", bodyKindTyped},
	TypeCnFupResetRequest:         {"CnFupResetRequest", bodyKindTyped},
	TypeCnFupResetConfirm:         {"CnFupResetConfirm", bodyKindEmpty},
	TypeCnWhoAmIRequest:           {"CnWhoAmIRequest", bodyKindTyped},
	TypeCnWhoAmIConfirm:           {"CnWhoAmIConfirm", bodyKindEmpty},
	TypeWiFiSettingsRequest:       {"WiFiSettingsRequest", bodyKindEmpty},
	TypeWiFiSettingsConfirm:       {"WiFiSettingsConfirm", bodyKindTyped},
	TypeWiFiNetworksRequest:       {"WiFiNetworksRequest", bodyKindTyped},
	TypeWiFiNetworksConfirm:       {"WiFiNetworksConfirm", bodyKindTyped},
	TypeWiFiJoinNetworkRequest:    {"WiFiJoinNetworkRequest", bodyKindTyped},
	TypeWiFiJoinNetworkConfirm:    {"WiFiJoinNetworkConfirm", bodyKindEmpty},
}

// NameOf returns the registered human name for t, or a placeholder for an
// unrecognized type so logging never panics on an unknown bridge message.
func NameOf(t MessageType) string {
	if e, ok := registry[t]; ok {
		return e.name
	}
	return fmt.Sprintf("UnknownType(%d)", uint32(t))
}

// HasTypedBody reports whether t is registered as carrying a protobuf
// body (bodyKindTyped). Such a type does not necessarily have a concrete
// struct in messages.go; DecodeBody returns those bodies as Opaque.
func HasTypedBody(t MessageType) bool {
	e, ok := registry[t]
	return ok && e.kind == bodyKindTyped
}
