package rmi

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/sfo2001/gocomfoconnect/util"
)

// EncodeGet builds the RMI payload for a single-property GET request:
// verb(0x01), unit, subunit, selector(0x10), property id.
func EncodeGet(unit Unit, subunit Subunit, propertyID byte) []byte {
	return []byte{VerbGetSingle, byte(unit), byte(subunit), 0x10, propertyID}
}

// EncodeGetMultiple builds the RMI payload for a multi-property GET
// request: verb(0x02), unit, subunit, 0x01, 0x10|len(ids), ids...
func EncodeGetMultiple(unit Unit, subunit Subunit, propertyIDs ...byte) []byte {
	buf := []byte{VerbGetMultiple, byte(unit), byte(subunit), 0x01, 0x10 | byte(len(propertyIDs))}
	return append(buf, propertyIDs...)
}

// EncodeSetProperty builds the RMI payload for a generic typed-property
// SET (verb 0x03): unit, subunit, property id, value bytes.
func EncodeSetProperty(unit Unit, subunit Subunit, propertyID byte, value []byte) []byte {
	buf := []byte{VerbSetProperty, byte(unit), byte(subunit), propertyID}
	return append(buf, value...)
}

// EncodeClearErrors builds the RMI payload for clearing the error log:
// verb(0x82), error unit, subunit 01.
func EncodeClearErrors() []byte {
	return []byte{VerbClearErrors, byte(UnitError), byte(Subunit01)}
}

// EncodeGetScheduleMode builds the RMI payload for a schedule-mode GET
// (verb 0x83): unit, subunit, selector. This is the family S3 ("get bypass
// = AUTO") exercises: EncodeGetScheduleMode(UnitSchedule, Subunit02,
// SelectorCurrentValue) == []byte{0x83, 0x15, 0x02, 0x01}.
func EncodeGetScheduleMode(unit Unit, subunit Subunit, selector byte) []byte {
	return []byte{VerbGetScheduleMode, byte(unit), byte(subunit), selector}
}

// EncodeSetScheduleMode builds the typed SET payload: verb(0x84), unit,
// subunit, selector, four zero bytes, a little-endian i32 timeout, and the
// value byte. timeout=-1 means "until explicitly cleared"; positive values
// are seconds before automatic revert.
func EncodeSetScheduleMode(unit Unit, subunit Subunit, selector byte, timeout int32, value byte) []byte {
	buf := []byte{VerbSetScheduleMode, byte(unit), byte(subunit), selector, 0x00, 0x00, 0x00, 0x00}
	var tb [4]byte
	binary.LittleEndian.PutUint32(tb[:], uint32(timeout))
	buf = append(buf, tb[:]...)
	buf = append(buf, value)
	return buf
}

// EncodeEnableScheduleMode builds the RMI payload that returns a setting
// to automatic (schedule-driven) control: verb(0x85), unit, subunit,
// selector.
func EncodeEnableScheduleMode(unit Unit, subunit Subunit, selector byte) []byte {
	return []byte{VerbEnableScheduleMode, byte(unit), byte(subunit), selector}
}

// DecodeScheduleModeByte applies the GET-mode response decoding rule: the
// current selector is the response's first byte for length-1 replies, or
// its last byte otherwise. The source is inconsistent about this rule
// across subunits and no contradicting literal capture is available here,
// so it is applied uniformly; see DESIGN.md for the Open Question decision.
func DecodeScheduleModeByte(payload []byte) (byte, error) {
	if len(payload) == 0 {
		return 0, fmt.Errorf("rmi: empty schedule-mode response")
	}
	if len(payload) == 1 {
		return payload[0], nil
	}
	return payload[len(payload)-1], nil
}

// DecodeMode interprets a schedule-mode response for the "mode" operation.
func DecodeMode(payload []byte) (VentilationMode, error) {
	b, err := DecodeScheduleModeByte(payload)
	if err != nil {
		return 0, err
	}
	switch b {
	case 0:
		return ModeAuto, nil
	case 1:
		return ModeManual, nil
	default:
		return 0, fmt.Errorf("rmi: invalid mode value 0x%02x", b)
	}
}

// DecodeSpeed interprets a schedule-mode response for the "speed"
// operation.
func DecodeSpeed(payload []byte) (VentilationSpeed, error) {
	b, err := DecodeScheduleModeByte(payload)
	if err != nil {
		return 0, err
	}
	if b > byte(SpeedHigh) {
		return 0, fmt.Errorf("rmi: invalid speed value 0x%02x", b)
	}
	return VentilationSpeed(b), nil
}

// DecodeBypass interprets a schedule-mode response for the "bypass"
// operation.
func DecodeBypass(payload []byte) (BypassMode, error) {
	b, err := DecodeScheduleModeByte(payload)
	if err != nil {
		return 0, err
	}
	if b > byte(BypassClosed) {
		return 0, fmt.Errorf("rmi: invalid bypass value 0x%02x", b)
	}
	return BypassMode(b), nil
}

// DecodeTemperatureProfile interprets a schedule-mode response for the
// "temperature profile" operation.
func DecodeTemperatureProfile(payload []byte) (VentilationTemperatureProfile, error) {
	b, err := DecodeScheduleModeByte(payload)
	if err != nil {
		return 0, err
	}
	if b > byte(ProfileWarm) {
		return 0, fmt.Errorf("rmi: invalid temperature profile value 0x%02x", b)
	}
	return VentilationTemperatureProfile(b), nil
}

// DecodeComfoCool interprets a schedule-mode response for the "comfocool"
// operation, per the OFF=0x00/AUTO=0x01 resolution of the spec's Open
// Question.
func DecodeComfoCool(payload []byte) (ComfoCoolMode, error) {
	b, err := DecodeScheduleModeByte(payload)
	if err != nil {
		return 0, err
	}
	switch ComfoCoolMode(b) {
	case ComfoCoolOff, ComfoCoolAuto:
		return ComfoCoolMode(b), nil
	default:
		return 0, fmt.Errorf("rmi: invalid comfocool value 0x%02x", b)
	}
}

// DecodeSensorVentMode interprets a single-property GET response for any
// of the three sensor-driven ventilation settings, which share one
// three-state enum. The value byte is picked with the same rule as
// DecodeScheduleModeByte.
func DecodeSensorVentMode(payload []byte) (SensorVentMode, error) {
	b, err := DecodeScheduleModeByte(payload)
	if err != nil {
		return 0, err
	}
	if b > byte(SensorVentOn) {
		return 0, fmt.Errorf("rmi: invalid sensor vent mode value 0x%02x", b)
	}
	return SensorVentMode(b), nil
}

// BalanceFromSubunits maps the joint (subunit06, subunit07) active/auto
// state returned by two separate GET-schedule-mode requests to a single
// VentilationBalance: both auto is BALANCE, exactly one active selects
// that direction alone, and the remaining combination is invalid.
func BalanceFromSubunits(subunit06Active, subunit07Active bool) (VentilationBalance, error) {
	switch {
	case !subunit06Active && !subunit07Active:
		return BalanceBalance, nil
	case subunit06Active && !subunit07Active:
		return BalanceSupplyOnly, nil
	case !subunit06Active && subunit07Active:
		return BalanceExhaustOnly, nil
	default:
		return 0, fmt.Errorf("rmi: invalid balance state (both subunits active)")
	}
}

// DecodeBoolToggle interprets a boost/away GET response: active if the
// first response byte equals 1.
func DecodeBoolToggle(payload []byte) (bool, error) {
	if len(payload) == 0 {
		return false, fmt.Errorf("rmi: empty toggle response")
	}
	return payload[0] == 1, nil
}

// DecodeProperty interprets the trailing value bytes of a generic GET
// response according to t: strings are UTF-8 trimmed of trailing NULs,
// signed/unsigned integers are little-endian, bool is the first byte
// compared to 1, anything else is returned raw.
func DecodeProperty(t PdoType, payload []byte) (any, error) {
	switch t {
	case TypeCnString:
		return string(bytes.TrimRight(payload, "\x00")), nil
	case TypeCnInt8, TypeCnInt16, TypeCnInt64:
		return util.DecodeSignedLE(payload), nil
	case TypeCnUint8, TypeCnUint16, TypeCnUint32:
		return util.DecodeUnsignedLE(payload), nil
	case TypeCnBool:
		if len(payload) == 0 {
			return false, fmt.Errorf("rmi: empty bool response")
		}
		return payload[0] == 1, nil
	default:
		return payload, nil
	}
}

// EncodeProperty renders v as a wire payload of the width t implies:
// BOOL -> 1 byte {0,1}; unsigned U8/U16/U32 -> 1/2/4 LE bytes; signed
// I8/I16/I64 -> 1/2/8 LE two's-complement bytes. Other types (strings,
// time, version) are not supported via this path, matching the source.
func EncodeProperty(t PdoType, v any) ([]byte, error) {
	switch t {
	case TypeCnBool:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("rmi: EncodeProperty(BOOL): want bool, got %T", v)
		}
		if b {
			return []byte{1}, nil
		}
		return []byte{0}, nil
	case TypeCnUint8, TypeCnInt8:
		return encodeIntWidth(v, 1)
	case TypeCnUint16, TypeCnInt16:
		return encodeIntWidth(v, 2)
	case TypeCnUint32:
		return encodeIntWidth(v, 4)
	case TypeCnInt64:
		return encodeIntWidth(v, 8)
	default:
		return nil, fmt.Errorf("rmi: property type %v not settable via the typed-property path", t)
	}
}

func encodeIntWidth(v any, width int) ([]byte, error) {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int32:
		n = int64(x)
	case int64:
		n = x
	case uint32:
		n = int64(x)
	default:
		return nil, fmt.Errorf("rmi: EncodeProperty: unsupported value type %T", v)
	}
	return util.EncodePDOValue(n, width), nil
}
