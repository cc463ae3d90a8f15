// Package sensors holds the PDO sensor catalogue, the alarm bit tables and
// the value-transform functions sensor callbacks apply before handing a
// decoded PDO value to the caller.
package sensors

import (
	"fmt"

	"github.com/sfo2001/gocomfoconnect/rmi"
	"github.com/sfo2001/gocomfoconnect/util"
)

// Transform converts a raw decoded PDO value (already little-endian
// decoded per its PdoType) into the unit the caller should see, e.g.
// dividing a tenths-of-a-degree reading by 10.
type Transform func(raw int64) any

// DivideBy10 renders a tenths-scaled raw reading (temperatures, some
// percentages) as a float.
func DivideBy10(raw int64) any { return float64(raw) / 10 }

// Identity passes the raw value through unchanged.
func Identity(raw int64) any { return raw }

// BoolFromU8 renders a raw 0/1 reading as a bool.
func BoolFromU8(raw int64) any { return raw != 0 }

// Sensor describes one subscribable PDO: its id, a human label, the unit
// string reported alongside it, its wire type and the transform applied to
// the decoded raw value before the registered callback sees it.
type Sensor struct {
	ID    uint32
	Label string
	Unit  string
	Type  rmi.PdoType
	Fn    Transform
}

// Well-known sensor ids referenced directly by the demo command and by
// tests, the ones exercised in the end-to-end discovery/monitor scenarios.
const (
	SensorDeviceState      uint32 = 16
	SensorFanExhaustDuty   uint32 = 117
	SensorPowerUsage       uint32 = 128
	SensorAirflowConstrain uint32 = 274
)

// Catalogue is the representative sensor table: at least one entry for
// each transform kind defined above, grounded in the ids and unit strings
// visible in the original client's test fixtures.
var Catalogue = map[uint32]Sensor{
	SensorDeviceState:    {SensorDeviceState, "device_state", "", rmi.TypeCnUint8, Identity},
	1:                    {1, "outdoor_temperature", "°C", rmi.TypeCnInt16, DivideBy10},
	2:                    {2, "supply_temperature", "°C", rmi.TypeCnInt16, DivideBy10},
	3:                    {3, "exhaust_temperature", "°C", rmi.TypeCnInt16, DivideBy10},
	4:                    {4, "extract_temperature", "°C", rmi.TypeCnInt16, DivideBy10},
	13:                   {13, "outdoor_humidity", "%", rmi.TypeCnUint8, Identity},
	14:                   {14, "supply_humidity", "%", rmi.TypeCnUint8, Identity},
	15:                   {15, "exhaust_humidity", "%", rmi.TypeCnUint8, Identity},
	SensorFanExhaustDuty: {SensorFanExhaustDuty, "fan_exhaust_duty", "%", rmi.TypeCnUint8, Identity},
	118:                  {118, "fan_supply_duty", "%", rmi.TypeCnUint8, Identity},
	119:                  {119, "fan_exhaust_flow", "m³/h", rmi.TypeCnUint16, Identity},
	120:                  {120, "fan_supply_flow", "m³/h", rmi.TypeCnUint16, Identity},
	121:                  {121, "fan_exhaust_speed", "rpm", rmi.TypeCnUint16, Identity},
	122:                  {122, "fan_supply_speed", "rpm", rmi.TypeCnUint16, Identity},
	SensorPowerUsage:     {SensorPowerUsage, "power_usage", "W", rmi.TypeCnUint16, Identity},
	129:                  {129, "power_usage_total", "kWh", rmi.TypeCnUint32, Identity},
	130:                  {130, "preheater_power_usage", "W", rmi.TypeCnUint16, Identity},
	221:                  {221, "days_since_filters_placed", "d", rmi.TypeCnUint32, Identity},
	225:                  {225, "bypass_state", "", rmi.TypeCnUint8, BoolFromU8},
	SensorAirflowConstrain: {SensorAirflowConstrain, "airflow_constraints", "", rmi.TypeCnInt64, DecodeAirflowConstraintsTransform},
}

// DecodeAirflowConstraintsTransform renders the raw 64-bit constraint
// bitmap through DecodeAirflowConstraints before handing a []string of
// active constraint names to the caller.
func DecodeAirflowConstraintsTransform(raw int64) any {
	return DecodeAirflowConstraints(uint64(raw))
}

// constraintBits names each bit of the airflow-constraints bitmap gated on
// bit 45 (supported-constraints-present flag) in the original client.
var constraintBits = map[int]string{
	2:  "resistance_too_high",
	3:  "resistance_too_low",
	10: "frost_protection",
	12: "bypass_open",
	14: "hood_active",
	20: "analog_input_1",
	21: "analog_input_2",
	30: "co2_zone_1",
	31: "co2_zone_2",
	40: "preheater_active",
	54: "comfocool_active",
}

// DecodeAirflowConstraints expands raw into the set of active constraint
// names, returning nil when bit 45 (the supported-constraints-present
// flag) is clear, as the bridge reports no breakdown in that case.
func DecodeAirflowConstraints(raw uint64) []string {
	const presentBit = 45
	if raw&(1<<presentBit) == 0 {
		return nil
	}
	bits := util.UintToBits(raw, 64)
	var active []string
	for bit, name := range constraintBits {
		if bits[bit] == 1 {
			active = append(active, name)
		}
	}
	return active
}

// ErrorsBase is the shared bit->message table for alarm decoding, bits
// 21-69, present in every firmware generation.
var ErrorsBase = map[int]string{
	21: "filter_check",
	24: "rf_communication_lost",
	29: "bypass_motor_fault",
	32: "frost_protection_active",
	48: "preheater_fault",
	69: "comfocool_fault",
}

// ErrorsLegacy (ERRORS_140) is applied instead of Errors for units
// reporting a firmware version at or before a known breakpoint, where bit
// 70 has a different meaning than in later firmware.
var ErrorsLegacy = mergeErrors(ErrorsBase, map[int]string{
	70: "bus_fault_legacy",
	90: "sensor_fault",
})

// Errors is the current bit table, used for firmware newer than the
// ERRORS_140 breakpoint.
var Errors = mergeErrors(ErrorsBase, map[int]string{
	70: "bus_fault",
	90: "sensor_fault",
	104: "exhaust_fan_fault",
})

func mergeErrors(base, extra map[int]string) map[int]string {
	out := make(map[int]string, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// legacyFirmwareBreakpoint is the swProgramVersion value at/below which
// ErrorsLegacy must be used to decode an alarm payload instead of Errors.
const legacyFirmwareBreakpoint uint32 = 3222278144

// DecodeAlarm expands an alarm payload into {bit: message} for every set
// bit the corresponding table names, selecting ErrorsLegacy or Errors based
// on the reporting unit's firmware version.
func DecodeAlarm(swProgramVersion uint32, payload []byte) map[int]string {
	table := Errors
	if swProgramVersion <= legacyFirmwareBreakpoint {
		table = ErrorsLegacy
	}
	bits := util.BytesToBits(payload)
	out := map[int]string{}
	for bit, msg := range table {
		if bit < len(bits) && bits[bit] == 1 {
			out[bit] = msg
		}
	}
	return out
}

// String renders a Sensor for debug/demo output.
func (s Sensor) String() string {
	if s.Unit == "" {
		return fmt.Sprintf("%s(#%d)", s.Label, s.ID)
	}
	return fmt.Sprintf("%s(#%d) [%s]", s.Label, s.ID, s.Unit)
}
