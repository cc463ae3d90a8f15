package rmi

import (
	"reflect"
	"testing"
)

func TestEncodeGet(t *testing.T) {
	got := EncodeGet(UnitSchedule, Subunit01, 0x01)
	want := []byte{0x01, byte(UnitSchedule), byte(Subunit01), 0x10, 0x01}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("EncodeGet() = %#v, want %#v", got, want)
	}
}

// TestEncodeSetScheduleMode_SpeedHigh pins the literal capture from S2:
// "Set speed HIGH" writes 84 15 01 01 00 00 00 00 01 00 00 00 03.
func TestEncodeSetScheduleMode_SpeedHigh(t *testing.T) {
	got := EncodeSetScheduleMode(UnitSchedule, Subunit01, SelectorCurrentValue, 1, byte(SpeedHigh))
	want := []byte{0x84, 0x15, 0x01, 0x01, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x03}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("EncodeSetScheduleMode() = % x, want % x", got, want)
	}
}

// TestEncodeGetScheduleMode_BypassAuto pins the literal capture from S3:
// "Get bypass = AUTO" request is 83 15 02 01.
func TestEncodeGetScheduleMode_BypassAuto(t *testing.T) {
	got := EncodeGetScheduleMode(UnitSchedule, Subunit02, SelectorCurrentValue)
	want := []byte{0x83, 0x15, 0x02, 0x01}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("EncodeGetScheduleMode() = % x, want % x", got, want)
	}

	bypass, err := DecodeBypass([]byte{0x00})
	if err != nil {
		t.Fatal(err)
	}
	if bypass != BypassAuto {
		t.Errorf("DecodeBypass(0x00) = %v, want BypassAuto", bypass)
	}
}

func TestDecodeProperty(t *testing.T) {
	v, err := DecodeProperty(TypeCnString, []byte("hello\x00\x00"))
	if err != nil {
		t.Fatal(err)
	}
	if v != "hello" {
		t.Errorf("DecodeProperty(string) = %q, want %q", v, "hello")
	}

	n, err := DecodeProperty(TypeCnInt8, []byte{0xFF})
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(-1) {
		t.Errorf("DecodeProperty(int8) = %v, want -1", n)
	}
}

func TestBalanceFromSubunits(t *testing.T) {
	cases := []struct {
		s06, s07 bool
		want     VentilationBalance
	}{
		{false, false, BalanceBalance},
		{true, false, BalanceSupplyOnly},
		{false, true, BalanceExhaustOnly},
	}
	for _, c := range cases {
		got, err := BalanceFromSubunits(c.s06, c.s07)
		if err != nil {
			t.Fatalf("BalanceFromSubunits(%v,%v): %v", c.s06, c.s07, err)
		}
		if got != c.want {
			t.Errorf("BalanceFromSubunits(%v,%v) = %v, want %v", c.s06, c.s07, got, c.want)
		}
	}
	if _, err := BalanceFromSubunits(true, true); err == nil {
		t.Error("BalanceFromSubunits(true,true) should be invalid")
	}
}

func TestDecodeComfoCool_RejectsOutOfRange(t *testing.T) {
	if _, err := DecodeComfoCool([]byte{0x02}); err == nil {
		t.Error("DecodeComfoCool(0x02) should be invalid")
	}
	mode, err := DecodeComfoCool([]byte{0x00})
	if err != nil || mode != ComfoCoolOff {
		t.Errorf("DecodeComfoCool(0x00) = %v, %v; want ComfoCoolOff, nil", mode, err)
	}
}

func TestAirflowPropertyID(t *testing.T) {
	if got := AirflowPropertyID(AirflowHigh); got != 6 {
		t.Errorf("AirflowPropertyID(AirflowHigh) = %d, want 6", got)
	}
}
