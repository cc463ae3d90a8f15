// Package rmi implements the byte-level Remote Method Invocation encoding
// the bridge uses to GET, SET and ENABLE node properties, and the PDO id /
// unit / subunit constants those encodings are built from.
package rmi

// PdoType identifies the wire width and signedness of a property or PDO
// value, mirroring the bridge's own PdoType enum.
type PdoType int

const (
	TypeCnUint8  PdoType = 0x01
	TypeCnUint16 PdoType = 0x02
	TypeCnUint32 PdoType = 0x03
	TypeCnInt8   PdoType = 0x05
	TypeCnInt16  PdoType = 0x06
	TypeCnInt64  PdoType = 0x08
	TypeCnString PdoType = 0x09
	TypeCnBool   PdoType = 0x00
)

// Unit identifies the addressed logical device function.
type Unit byte

const (
	UnitNode               Unit = 0x01
	UnitError              Unit = 0x03
	UnitSchedule           Unit = 0x15
	UnitTempHumControl     Unit = 0x1D
	UnitVentilationConfig  Unit = 0x1E
	UnitNodeConfiguration  Unit = 0x20
)

// Subunit, under UnitSchedule, selects one of eight schedulable channels.
type Subunit byte

const (
	Subunit01 Subunit = 0x01 // speed
	Subunit02 Subunit = 0x02 // bypass
	Subunit03 Subunit = 0x03 // temperature profile
	Subunit04 Subunit = 0x04
	Subunit05 Subunit = 0x05 // ComfoCool
	Subunit06 Subunit = 0x06 // balance: supply
	Subunit07 Subunit = 0x07 // balance: exhaust
	Subunit08 Subunit = 0x08 // mode
)

// RMI verb bytes, the first byte of every RMI request payload.
const (
	VerbGetSingle          byte = 0x01
	VerbGetMultiple        byte = 0x02
	VerbSetProperty        byte = 0x03
	VerbClearErrors        byte = 0x82
	VerbGetScheduleMode    byte = 0x83
	VerbSetScheduleMode    byte = 0x84
	VerbEnableScheduleMode byte = 0x85
)

// Selector bytes used with the schedule-mode verbs (0x83/0x84/0x85).
const (
	SelectorCurrentValue byte = 0x01
	SelectorBoost        byte = 0x06
	SelectorAway         byte = 0x0B
)

// DefaultToggleTimeout is the timeout, in seconds, applied to boost/away
// activations when the caller doesn't specify one.
const DefaultToggleTimeout = 3600

// VentilationMode selects whether the unit follows its own schedule or a
// manually forced setting.
type VentilationMode int

const (
	ModeAuto VentilationMode = iota
	ModeManual
)

// VentilationSpeed is the coarse fan-speed setting exposed to users.
type VentilationSpeed int

const (
	SpeedAway VentilationSpeed = iota
	SpeedLow
	SpeedMedium
	SpeedHigh
)

// BypassMode is the bypass damper state/override.
type BypassMode int

const (
	BypassAuto BypassMode = iota
	BypassOpen
	BypassClosed
)

// VentilationTemperatureProfile selects the comfort curve the bypass and
// ComfoCool logic evaluates against.
type VentilationTemperatureProfile int

const (
	ProfileNormal VentilationTemperatureProfile = iota
	ProfileCool
	ProfileWarm
)

// ComfoCoolMode resolves the spec's Open Question: two mutually
// inconsistent variants exist in the source (OFF=0,AUTO=1 vs AUTO=0,OFF=1);
// the wire-observed mapping is OFF=0x00, AUTO=0x01 — honor that one and
// reject the legacy reverse.
type ComfoCoolMode int

const (
	ComfoCoolOff  ComfoCoolMode = 0x00
	ComfoCoolAuto ComfoCoolMode = 0x01
)

// SensorVentMode is the three-state mode shared by the sensor-driven
// ventilation settings (temperature-passive, humidity-comfort,
// humidity-protection).
type SensorVentMode int

const (
	SensorVentOff SensorVentMode = iota
	SensorVentAuto
	SensorVentOn
)

// VentilationBalance describes which direction (supply/exhaust) is active.
type VentilationBalance int

const (
	BalanceBalance VentilationBalance = iota
	BalanceSupplyOnly
	BalanceExhaustOnly
)

// AirflowSpeed indexes the per-speed airflow (m3/h) property table;
// property id = 3 + speed.
type AirflowSpeed int

const (
	AirflowAway AirflowSpeed = iota
	AirflowLow
	AirflowMedium
	AirflowHigh
)

// AirflowPropertyID returns the UnitVentilationConfig/Subunit01 property id
// for s, per "property id = 3 + speed_enum_value".
func AirflowPropertyID(s AirflowSpeed) byte { return byte(3 + int(s)) }

// Named property ids the client exposes as first-class accessors, under
// UnitNode/Subunit01 unless noted.
const (
	PropertySerialNumber         = 0x01
	PropertyFirmwareVersion      = 0x02
	PropertyModel                = 0x03
	PropertyArticleNumber        = 0x04
	PropertyCountry              = 0x05
	PropertyDeviceName           = 0x06
	PropertyMaintainerPassword   = 0x07
	PropertySensorVentTempPassiv = 0x30
	PropertySensorVentHumComfort = 0x31
	PropertySensorVentHumProtect = 0x32
)
