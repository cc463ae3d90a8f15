package protocol

import "testing"

func TestRmiRequestRoundTrip(t *testing.T) {
	req := RmiRequest{NodeID: 1, Message: []byte{0x01, 0x15, 0x02, 0x01, 0x10}}
	decoded, err := DecodeRmiRequest(req.Encode())
	if err != nil {
		t.Fatalf("DecodeRmiRequest: %v", err)
	}
	if decoded.NodeID != 1 {
		t.Errorf("NodeID = %d, want 1", decoded.NodeID)
	}
	if string(decoded.Message) != string(req.Message) {
		t.Errorf("Message = %v, want %v", decoded.Message, req.Message)
	}
}

func TestRpdoRequestRoundTrip(t *testing.T) {
	req := RpdoRequest{Pdid: 16, PdoType: 1, Zone: 1, Timeout: 0}
	decoded, err := DecodeRpdoRequest(req.Encode())
	if err != nil {
		t.Fatalf("DecodeRpdoRequest: %v", err)
	}
	if decoded.Pdid != 16 || decoded.Timeout != 0 {
		t.Errorf("decoded = %+v, want Pdid=16 Timeout=0", decoded)
	}
}

func TestDecodeBody_UnknownTypeReturnsOpaque(t *testing.T) {
	got, err := DecodeBody(TypeCloseSessionRequest, []byte{0x01, 0x02})
	if err != nil {
		t.Fatalf("DecodeBody: %v", err)
	}
	opaque, ok := got.(Opaque)
	if !ok {
		t.Fatalf("got %T, want Opaque", got)
	}
	if len(opaque.Raw) != 2 {
		t.Errorf("Raw = %v, want length 2", opaque.Raw)
	}
}

func TestListRegisteredAppsConfirmRoundTrip(t *testing.T) {
	confirm := ListRegisteredAppsConfirm{Apps: []RegisteredApp{
		{UUID: Identity{0x01}, DeviceName: "phone"},
		{UUID: Identity{0x02}, DeviceName: "tablet"},
	}}
	decoded, err := DecodeListRegisteredAppsConfirm(confirm.Encode())
	if err != nil {
		t.Fatalf("DecodeListRegisteredAppsConfirm: %v", err)
	}
	if len(decoded.Apps) != 2 || decoded.Apps[0].DeviceName != "phone" || decoded.Apps[1].DeviceName != "tablet" {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestNameOf_UnknownType(t *testing.T) {
	name := NameOf(MessageType(9999))
	if name == "" {
		t.Error("NameOf should never return empty")
	}
}
