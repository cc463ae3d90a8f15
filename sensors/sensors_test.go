package sensors

import "testing"

func TestDecodeAirflowConstraints_AbsentFlag(t *testing.T) {
	if got := DecodeAirflowConstraints(0); got != nil {
		t.Errorf("DecodeAirflowConstraints(0) = %v, want nil", got)
	}
}

func TestDecodeAirflowConstraints_Present(t *testing.T) {
	raw := uint64(1<<45) | uint64(1<<10) // present flag + frost_protection
	got := DecodeAirflowConstraints(raw)
	found := false
	for _, name := range got {
		if name == "frost_protection" {
			found = true
		}
	}
	if !found {
		t.Errorf("DecodeAirflowConstraints(%x) = %v, want frost_protection present", raw, got)
	}
}

func TestDecodeAlarm_SelectsLegacyTable(t *testing.T) {
	payload := make([]byte, 16)
	payload[8] = 1 << (70 % 8) // bit 70 set

	legacy := DecodeAlarm(legacyFirmwareBreakpoint, payload)
	if _, ok := legacy[70]; !ok {
		t.Errorf("legacy alarm decode missing bit 70: %v", legacy)
	}

	current := DecodeAlarm(legacyFirmwareBreakpoint+1, payload)
	if _, ok := current[70]; !ok {
		t.Errorf("current alarm decode missing bit 70: %v", current)
	}
	if current[70] == legacy[70] {
		t.Errorf("expected legacy/current bit 70 messages to differ, both = %q", current[70])
	}
}

func TestCatalogueHasKnownIDs(t *testing.T) {
	for _, id := range []uint32{SensorDeviceState, SensorFanExhaustDuty, SensorPowerUsage, SensorAirflowConstrain} {
		if _, ok := Catalogue[id]; !ok {
			t.Errorf("Catalogue missing sensor id %d", id)
		}
	}
}
