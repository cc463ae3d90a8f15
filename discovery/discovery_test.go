package discovery

import (
	"testing"

	"github.com/sfo2001/gocomfoconnect/protocol"
)

// encodeDiscoveryOperation builds a minimal DiscoveryOperation reply for
// tests: a single searchGatewayResponse (field 2) nested message with
// ipaddress (field 1) and uuid (field 2).
func encodeDiscoveryOperation(ip string, uuid protocol.Identity) []byte {
	inner := append([]byte{0x0A, byte(len(ip))}, []byte(ip)...)
	inner = append(inner, 0x12, byte(len(uuid)))
	inner = append(inner, uuid[:]...)

	outer := append([]byte{0x12, byte(len(inner))}, inner...)
	return outer
}

func TestParseDiscoveryResponse(t *testing.T) {
	uuid := protocol.Identity{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f}
	data := encodeDiscoveryOperation("192.168.1.100", uuid)

	bridge, ok := parseDiscoveryResponse(data, "192.168.1.100")
	if !ok {
		t.Fatal("expected a parsed bridge")
	}
	if bridge.Host != "192.168.1.100" {
		t.Errorf("Host = %q, want 192.168.1.100", bridge.Host)
	}
	if bridge.UUID != uuid {
		t.Errorf("UUID = %x, want %x", bridge.UUID, uuid)
	}
}

func TestParseDiscoveryResponse_FallsBackToSourceIP(t *testing.T) {
	uuid := protocol.Identity{}
	data := encodeDiscoveryOperation("", uuid)

	bridge, ok := parseDiscoveryResponse(data, "10.0.0.5")
	if !ok {
		t.Fatal("expected a parsed bridge")
	}
	if bridge.Host != "10.0.0.5" {
		t.Errorf("Host = %q, want 10.0.0.5 (fallback)", bridge.Host)
	}
}

func TestParseDiscoveryResponse_RejectsGarbage(t *testing.T) {
	if _, ok := parseDiscoveryResponse([]byte{0xFF, 0xFF, 0xFF}, "1.2.3.4"); ok {
		t.Error("expected garbage payload to fail parsing")
	}
}

func TestProbeBytes(t *testing.T) {
	if len(probe) != 2 || probe[0] != 0x0A || probe[1] != 0x00 {
		t.Errorf("probe = % x, want 0a 00", probe)
	}
}
