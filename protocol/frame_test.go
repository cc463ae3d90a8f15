package protocol

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	src := uuid.New()
	dst := uuid.New()
	header := GatewayOperation{Type: uint32(TypeStartSessionRequest), Reference: refOf(1)}
	body := StartSessionRequest{TakeOver: boolOf(true)}.Encode()

	env := Envelope{Src: src, Dst: dst, Cmd: header.Encode(), Body: body}
	encoded := env.Encode()

	got, err := DecodeEnvelope(encoded)
	if err != nil {
		t.Fatalf("DecodeEnvelope: %v", err)
	}
	if got.Src != src || got.Dst != dst {
		t.Errorf("src/dst mismatch: got %v/%v, want %v/%v", got.Src, got.Dst, src, dst)
	}

	gotHeader, err := DecodeHeader(got.Cmd)
	if err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}
	if gotHeader.Type != header.Type || *gotHeader.Reference != 1 {
		t.Errorf("header mismatch: %+v", gotHeader)
	}

	gotBody, err := DecodeStartSessionRequest(got.Body)
	if err != nil {
		t.Fatalf("DecodeStartSessionRequest: %v", err)
	}
	if gotBody.TakeOver == nil || !*gotBody.TakeOver {
		t.Errorf("TakeOver mismatch: %+v", gotBody)
	}
}

func TestReadEnvelopeFromReader(t *testing.T) {
	src := uuid.New()
	dst := uuid.New()
	header := GatewayOperation{Type: uint32(TypeCloseSessionRequest)}
	env := Envelope{Src: src, Dst: dst, Cmd: header.Encode()}
	buf := bytes.NewReader(env.Encode())

	got, err := ReadEnvelope(buf)
	if err != nil {
		t.Fatalf("ReadEnvelope: %v", err)
	}
	if got.Src != src {
		t.Errorf("Src = %v, want %v", got.Src, src)
	}
}

func TestDecodeEnvelope_RejectsBadLength(t *testing.T) {
	env := Envelope{Cmd: GatewayOperation{Type: 1}.Encode()}
	buf := env.Encode()
	buf[0] = 0xFF // corrupt the length prefix
	if _, err := DecodeEnvelope(buf); err == nil {
		t.Fatal("expected error on corrupted length prefix")
	}
}

func refOf(v uint32) *uint32 { return &v }
func boolOf(v bool) *bool    { return &v }
