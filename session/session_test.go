package session

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sfo2001/gocomfoconnect/cerrors"
	"github.com/sfo2001/gocomfoconnect/logger"
	"github.com/sfo2001/gocomfoconnect/protocol"
)

// newTestSession wires a Session directly to one end of an in-memory pipe,
// so tests can drive the bridge side without a real socket.
func newTestSession(t *testing.T, opts ...Option) (*Session, net.Conn) {
	t.Helper()
	client, server := net.Pipe()
	s := &Session{
		conn:       client,
		localUUID:  uuid.New(),
		bridgeUUID: uuid.New(),
		logger:     logger.Nop(),
		reference:  1,
		bus:        newEventBus(),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.readLoop()
	t.Cleanup(func() { s.Disconnect() })
	return s, server
}

// replyOK reads one request off server and writes back a reply carrying
// typ/body and the same reference, with result OK.
func replyOK(t *testing.T, server net.Conn, typ protocol.MessageType, body []byte) {
	t.Helper()
	env, err := protocol.ReadEnvelope(server)
	if err != nil {
		t.Fatalf("server read: %v", err)
	}
	reqHeader, err := protocol.DecodeHeader(env.Cmd)
	if err != nil {
		t.Fatalf("server decode header: %v", err)
	}
	ok := protocol.ResultOK
	respHeader := protocol.GatewayOperation{Type: uint32(typ), Result: &ok, Reference: reqHeader.Reference}
	respEnv := protocol.Envelope{Src: env.Dst, Dst: env.Src, Cmd: respHeader.Encode(), Body: body}
	if _, err := server.Write(respEnv.Encode()); err != nil {
		t.Fatalf("server write: %v", err)
	}
}

func TestStartSession_Success(t *testing.T) {
	s, server := newTestSession(t)
	defer server.Close()

	done := make(chan error, 1)
	go func() {
		done <- s.StartSession(context.Background(), true)
	}()

	replyOK(t, server, protocol.TypeStartSessionResponse, nil)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("StartSession: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("StartSession did not return")
	}
}

func TestDeregisterApp_SelfRejectedSynchronously(t *testing.T) {
	s, server := newTestSession(t)
	defer server.Close()

	err := s.DeregisterApp(context.Background(), s.localUUID)
	if !errors.Is(err, cerrors.ErrSelfDeregistration) {
		t.Fatalf("got %v, want ErrSelfDeregistration", err)
	}
	if s.reference != 1 {
		t.Errorf("reference advanced to %d, want unchanged at 1", s.reference)
	}
}

func TestReferenceAdvancesOnlyAfterSend(t *testing.T) {
	s, server := newTestSession(t)
	defer server.Close()

	done := make(chan error, 1)
	go func() { done <- s.CloseSession(context.Background()) }()

	env, err := protocol.ReadEnvelope(server)
	if err != nil {
		t.Fatalf("server read: %v", err)
	}
	header, err := protocol.DecodeHeader(env.Cmd)
	if err != nil {
		t.Fatalf("decode header: %v", err)
	}
	if *header.Reference != 1 {
		t.Errorf("reference in first request = %d, want 1", *header.Reference)
	}
	<-done
	if s.reference != 2 {
		t.Errorf("reference after send = %d, want 2", s.reference)
	}
}

func TestErrorResponse_FailsWaiter(t *testing.T) {
	s, server := newTestSession(t)
	defer server.Close()

	done := make(chan error, 1)
	go func() { done <- s.StartSession(context.Background(), false) }()

	env, err := protocol.ReadEnvelope(server)
	if err != nil {
		t.Fatalf("server read: %v", err)
	}
	reqHeader, _ := protocol.DecodeHeader(env.Cmd)
	notAllowed := protocol.ResultNotAllowed
	respHeader := protocol.GatewayOperation{Type: uint32(protocol.TypeStartSessionResponse), Result: &notAllowed, Reference: reqHeader.Reference}
	respEnv := protocol.Envelope{Src: env.Dst, Dst: env.Src, Cmd: respHeader.Encode()}
	server.Write(respEnv.Encode())

	err = <-done
	var protoErr *cerrors.ProtocolError
	if !errors.As(err, &protoErr) || protoErr.Code != protocol.ResultNotAllowed {
		t.Fatalf("got %v, want ProtocolError{NOT_ALLOWED}", err)
	}
}

func TestDisconnect_DrainsPendingWaiters(t *testing.T) {
	s, server := newTestSession(t)

	done := make(chan error, 1)
	go func() { done <- s.StartSession(context.Background(), true) }()

	// Let the request land before tearing the connection down.
	if _, err := protocol.ReadEnvelope(server); err != nil {
		t.Fatalf("server read: %v", err)
	}
	server.Close()

	select {
	case err := <-done:
		if !errors.Is(err, cerrors.ErrNotConnected) {
			t.Fatalf("got %v, want ErrNotConnected", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("StartSession did not unblock after disconnect")
	}
}

func TestListRegisteredApps(t *testing.T) {
	s, server := newTestSession(t)
	defer server.Close()

	done := make(chan struct {
		apps []protocol.RegisteredApp
		err  error
	}, 1)
	go func() {
		apps, err := s.ListRegisteredApps(context.Background())
		done <- struct {
			apps []protocol.RegisteredApp
			err  error
		}{apps, err}
	}()

	confirm := protocol.ListRegisteredAppsConfirm{Apps: []protocol.RegisteredApp{{UUID: s.localUUID, DeviceName: "test-app"}}}
	replyOK(t, server, protocol.TypeListRegisteredAppsConfirm, confirm.Encode())

	select {
	case r := <-done:
		if r.err != nil {
			t.Fatalf("ListRegisteredApps: %v", r.err)
		}
		if len(r.apps) != 1 || r.apps[0].DeviceName != "test-app" {
			t.Errorf("got %+v", r.apps)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("ListRegisteredApps did not return")
	}
}

func TestSensorCallback_DeliversDecodedValue(t *testing.T) {
	var gotPdid uint32
	var gotRaw int64
	sensorCh := make(chan struct{})
	s, server := newTestSession(t, WithSensorCallback(func(pdid uint32, raw int64) {
		gotPdid, gotRaw = pdid, raw
		close(sensorCh)
	}))
	defer server.Close()

	note := protocol.CnRpdoNotification{Pdid: 16, Data: []byte{0xFF}} // -1 signed
	header := protocol.GatewayOperation{Type: uint32(protocol.TypeCnRpdoNotification)}
	env := protocol.Envelope{Src: s.bridgeUUID, Dst: s.localUUID, Cmd: header.Encode(), Body: encodeRpdoNotification(note)}
	if _, err := server.Write(env.Encode()); err != nil {
		t.Fatalf("server write: %v", err)
	}

	select {
	case <-sensorCh:
	case <-time.After(2 * time.Second):
		t.Fatal("sensor callback not invoked")
	}
	if gotPdid != 16 || gotRaw != -1 {
		t.Errorf("got pdid=%d raw=%d, want 16,-1", gotPdid, gotRaw)
	}
}

// encodeRpdoNotification is a tiny local encoder mirroring what the bridge
// would send for a CnRpdoNotification (fields 1=pdid varint, 2=data bytes),
// independent of protocol's own (unexported) field writer.
func encodeRpdoNotification(n protocol.CnRpdoNotification) []byte {
	// field 1, varint
	buf := []byte{0x08, byte(n.Pdid)}
	// field 2, length-delimited
	buf = append(buf, 0x12, byte(len(n.Data)))
	buf = append(buf, n.Data...)
	return buf
}
