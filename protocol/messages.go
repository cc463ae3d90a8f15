package protocol

import "fmt"

// Opaque carries the raw body bytes for a registered type that has no
// concrete Go struct here — it still round-trips through Envelope.Body
// untouched.
type Opaque struct{ Raw []byte }

// StartSessionRequest asks the bridge to start a session, optionally
// taking over another app's existing session.
type StartSessionRequest struct {
	TakeOver *bool
}

func (m StartSessionRequest) Encode() []byte {
	w := &fieldWriter{}
	if m.TakeOver != nil {
		v := uint64(0)
		if *m.TakeOver {
			v = 1
		}
		w.varintField(1, v)
	}
	return w.bytes()
}

func DecodeStartSessionRequest(buf []byte) (StartSessionRequest, error) {
	fields, err := parseFields(buf)
	if err != nil {
		return StartSessionRequest{}, err
	}
	var m StartSessionRequest
	for _, f := range fields {
		if f.num == 1 {
			v := f.varint != 0
			m.TakeOver = &v
		}
	}
	return m, nil
}

// RegisteredApp is one entry of ListRegisteredAppsConfirm.
type RegisteredApp struct {
	UUID       Identity
	DeviceName string
}

// RegisterAppRequest registers this application's identity with the
// bridge under a 4-digit pin.
type RegisterAppRequest struct {
	UUID       Identity
	DeviceName string
	Pin        uint32
}

func (m RegisterAppRequest) Encode() []byte {
	w := &fieldWriter{}
	w.bytesField(1, m.UUID[:])
	w.stringField(2, m.DeviceName)
	w.varintField(3, uint64(m.Pin))
	return w.bytes()
}

func DecodeRegisterAppRequest(buf []byte) (RegisterAppRequest, error) {
	fields, err := parseFields(buf)
	if err != nil {
		return RegisterAppRequest{}, err
	}
	var m RegisterAppRequest
	for _, f := range fields {
		switch f.num {
		case 1:
			copy(m.UUID[:], f.payload)
		case 2:
			m.DeviceName = string(f.payload)
		case 3:
			m.Pin = uint32(f.varint)
		}
	}
	return m, nil
}

// DeregisterAppRequest removes a previously registered app's identity.
type DeregisterAppRequest struct {
	UUID Identity
}

func (m DeregisterAppRequest) Encode() []byte {
	w := &fieldWriter{}
	w.bytesField(1, m.UUID[:])
	return w.bytes()
}

// ListRegisteredAppsConfirm lists every app currently registered with the
// bridge.
type ListRegisteredAppsConfirm struct {
	Apps []RegisteredApp
}

// Encode renders m as a repeated field of {uuid, device_name} entries.
func (m ListRegisteredAppsConfirm) Encode() []byte {
	w := &fieldWriter{}
	for _, app := range m.Apps {
		entry := &fieldWriter{}
		entry.bytesField(1, app.UUID[:])
		entry.stringField(2, app.DeviceName)
		w.bytesField(1, entry.bytes())
	}
	return w.bytes()
}

// DecodeListRegisteredAppsConfirm parses a repeated field of
// length-delimited {uuid, device_name} entries (field 1, repeated).
func DecodeListRegisteredAppsConfirm(buf []byte) (ListRegisteredAppsConfirm, error) {
	fields, err := parseFields(buf)
	if err != nil {
		return ListRegisteredAppsConfirm{}, err
	}
	var m ListRegisteredAppsConfirm
	for _, f := range fields {
		if f.num != 1 {
			continue
		}
		entryFields, err := parseFields(f.payload)
		if err != nil {
			return ListRegisteredAppsConfirm{}, fmt.Errorf("protocol: registered app entry: %w", err)
		}
		var app RegisteredApp
		for _, ef := range entryFields {
			switch ef.num {
			case 1:
				copy(app.UUID[:], ef.payload)
			case 2:
				app.DeviceName = string(ef.payload)
			}
		}
		m.Apps = append(m.Apps, app)
	}
	return m, nil
}

// VersionConfirm reports the bridge's gateway and ComfoNet firmware
// versions and serial number.
type VersionConfirm struct {
	GatewayVersion  uint32
	SerialNumber    string
	ComfoNetVersion uint32
}

func DecodeVersionConfirm(buf []byte) (VersionConfirm, error) {
	fields, err := parseFields(buf)
	if err != nil {
		return VersionConfirm{}, err
	}
	var m VersionConfirm
	for _, f := range fields {
		switch f.num {
		case 1:
			m.GatewayVersion = uint32(f.varint)
		case 2:
			m.SerialNumber = string(f.payload)
		case 3:
			m.ComfoNetVersion = uint32(f.varint)
		}
	}
	return m, nil
}

// TimeConfirm reports the bridge's current time as a unix timestamp.
type TimeConfirm struct {
	CurrentTime uint32
}

func DecodeTimeConfirm(buf []byte) (TimeConfirm, error) {
	fields, err := parseFields(buf)
	if err != nil {
		return TimeConfirm{}, err
	}
	var m TimeConfirm
	for _, f := range fields {
		if f.num == 1 {
			m.CurrentTime = uint32(f.varint)
		}
	}
	return m, nil
}

// RmiRequest carries a raw RMI byte payload addressed to a node, the
// envelope for every GET/SET/ENABLE operation in package rmi.
type RmiRequest struct {
	NodeID  uint32
	Message []byte
}

func (m RmiRequest) Encode() []byte {
	w := &fieldWriter{}
	w.varintField(1, uint64(m.NodeID))
	w.bytesField(2, m.Message)
	return w.bytes()
}

func DecodeRmiRequest(buf []byte) (RmiRequest, error) {
	fields, err := parseFields(buf)
	if err != nil {
		return RmiRequest{}, err
	}
	var m RmiRequest
	for _, f := range fields {
		switch f.num {
		case 1:
			m.NodeID = uint32(f.varint)
		case 2:
			m.Message = f.payload
		}
	}
	return m, nil
}

// RmiResponse carries the raw RMI byte payload a GET/SET/ENABLE call
// returned.
type RmiResponse struct {
	Message []byte
}

func (m RmiResponse) Encode() []byte {
	w := &fieldWriter{}
	w.bytesField(1, m.Message)
	return w.bytes()
}

func DecodeRmiResponse(buf []byte) (RmiResponse, error) {
	fields, err := parseFields(buf)
	if err != nil {
		return RmiResponse{}, err
	}
	var m RmiResponse
	for _, f := range fields {
		if f.num == 1 {
			m.Message = f.payload
		}
	}
	return m, nil
}

// RpdoRequest subscribes to (or, with Timeout==0, unsubscribes from) a
// process data object.
type RpdoRequest struct {
	Pdid    uint32
	PdoType uint32
	Zone    uint32
	Timeout uint32
}

func (m RpdoRequest) Encode() []byte {
	w := &fieldWriter{}
	w.varintField(1, uint64(m.Pdid))
	w.varintField(2, uint64(m.Zone))
	w.varintField(3, uint64(m.PdoType))
	w.varintField(4, uint64(m.Timeout))
	return w.bytes()
}

func DecodeRpdoRequest(buf []byte) (RpdoRequest, error) {
	fields, err := parseFields(buf)
	if err != nil {
		return RpdoRequest{}, err
	}
	var m RpdoRequest
	for _, f := range fields {
		switch f.num {
		case 1:
			m.Pdid = uint32(f.varint)
		case 2:
			m.Zone = uint32(f.varint)
		case 3:
			m.PdoType = uint32(f.varint)
		case 4:
			m.Timeout = uint32(f.varint)
		}
	}
	return m, nil
}

// CnRpdoNotification delivers one subscribed PDO's latest value.
type CnRpdoNotification struct {
	Pdid uint32
	Data []byte
}

func DecodeCnRpdoNotification(buf []byte) (CnRpdoNotification, error) {
	fields, err := parseFields(buf)
	if err != nil {
		return CnRpdoNotification{}, err
	}
	var m CnRpdoNotification
	for _, f := range fields {
		switch f.num {
		case 1:
			m.Pdid = uint32(f.varint)
		case 2:
			m.Data = f.payload
		}
	}
	return m, nil
}

// CnAlarmNotification delivers a node's current error bitmap along with the
// firmware version needed to pick the right bit table.
type CnAlarmNotification struct {
	NodeID           uint32
	SwProgramVersion uint32
	ErrorData        []byte
}

func DecodeCnAlarmNotification(buf []byte) (CnAlarmNotification, error) {
	fields, err := parseFields(buf)
	if err != nil {
		return CnAlarmNotification{}, err
	}
	var m CnAlarmNotification
	for _, f := range fields {
		switch f.num {
		case 5:
			m.SwProgramVersion = uint32(f.varint)
		case 6:
			m.ErrorData = f.payload
		case 8:
			m.NodeID = uint32(f.varint)
		}
	}
	return m, nil
}

// CnNodeNotification reports a node coming online/offline; gocomfoconnect
// logs it but takes no action, matching the original's no-op handling.
type CnNodeNotification struct {
	NodeID uint32
}

// GatewayNotification is a gateway-originated status update; logged, no
// action taken.
type GatewayNotification struct {
	Raw []byte
}

// DecodeBody decodes buf as the type t names, returning an Opaque when t
// is registered but has no concrete struct here, and an error when t is
// not in the registry at all. Callers that need a specific type should
// type-assert the result.
func DecodeBody(t MessageType, buf []byte) (any, error) {
	switch t {
	case TypeStartSessionRequest:
		return DecodeStartSessionRequest(buf)
	case TypeRegisterAppRequest:
		return DecodeRegisterAppRequest(buf)
	case TypeListRegisteredAppsConfirm:
		return DecodeListRegisteredAppsConfirm(buf)
	case TypeVersionConfirm:
		return DecodeVersionConfirm(buf)
	case TypeCnTimeConfirm:
		return DecodeTimeConfirm(buf)
	case TypeRmiRequest:
		return DecodeRmiRequest(buf)
	case TypeRmiResponse:
		return DecodeRmiResponse(buf)
	case TypeRpdoRequest:
		return DecodeRpdoRequest(buf)
	case TypeCnRpdoNotification:
		return DecodeCnRpdoNotification(buf)
	case TypeCnAlarmNotification:
		return DecodeCnAlarmNotification(buf)
	default:
		if _, ok := registry[t]; !ok {
			return nil, fmt.Errorf("protocol: no decoder registered for %s", NameOf(t))
		}
		return Opaque{Raw: buf}, nil
	}
}
