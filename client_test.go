package comfoconnect

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sfo2001/gocomfoconnect/logger"
	"github.com/sfo2001/gocomfoconnect/protocol"
	"github.com/sfo2001/gocomfoconnect/rmi"
	"github.com/sfo2001/gocomfoconnect/sensors"
	"github.com/sfo2001/gocomfoconnect/session"
)

// directTestClient builds a Client wired straight to one end of an
// in-memory pipe, its session already "connected" — bypassing Connect's
// real dial and the supervisor loop entirely, so tests can drive the
// bridge side directly. Mirrors session_test.go's newTestSession.
func directTestClient(t *testing.T) (*Client, net.Conn) {
	t.Helper()
	c := &Client{
		localUUID:  uuid.New(),
		bridgeUUID: uuid.New(),
		deviceName: "test",
		holdWindow: defaultHoldWindow,
		logger:     logger.Nop(),
		registry:   make(map[uint32]sensors.Sensor),
		lastRaw:    make(map[uint32]int64),
		connected:  make(chan error, 1),
		done:       make(chan struct{}),
	}

	sess, server := session.NewForTest(c.localUUID, c.bridgeUUID)
	c.sess = sess

	t.Cleanup(func() { c.Disconnect() })
	return c, server
}

func TestSetBalanceMode_Balance_EnablesBothSubunits(t *testing.T) {
	c, server := directTestClient(t)
	defer server.Close()

	done := make(chan error, 1)
	go func() { done <- c.SetBalanceMode(context.Background(), rmi.BalanceBalance) }()

	replyRmiOK(t, server)
	replyRmiOK(t, server)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("SetBalanceMode: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("SetBalanceMode did not return")
	}
}

// replyRmiOK answers one pending RmiRequest with an empty, OK response.
func replyRmiOK(t *testing.T, server net.Conn) {
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
	resp := protocol.RmiResponse{Message: nil}
	respHeader := protocol.GatewayOperation{Type: uint32(protocol.TypeRmiResponse), Result: &ok, Reference: reqHeader.Reference}
	respEnv := protocol.Envelope{Src: env.Dst, Dst: env.Src, Cmd: respHeader.Encode(), Body: resp.Encode()}
	if _, err := server.Write(respEnv.Encode()); err != nil {
		t.Fatalf("server write: %v", err)
	}
}

func TestSensorHold_SuppressesThenFlushes(t *testing.T) {
	c, server := directTestClient(t)
	defer server.Close()

	var got []int64
	gotCh := make(chan struct{}, 1)
	c.onSensor = func(spec sensors.Sensor, value any) {
		got = append(got, value.(int64))
		select {
		case gotCh <- struct{}{}:
		default:
		}
	}
	c.registry[16] = sensors.Sensor{ID: 16, Label: "device_state", Type: rmi.TypeCnUint8, Fn: sensors.Identity}

	c.mu.Lock()
	c.holding = true
	c.mu.Unlock()

	c.handleSensor(16, 42)
	select {
	case <-gotCh:
		t.Fatal("sensor callback fired during hold window")
	case <-time.After(50 * time.Millisecond):
	}

	c.mu.Lock()
	c.holding = false
	cached := c.lastRaw[16]
	spec := c.registry[16]
	c.mu.Unlock()
	c.dispatchSensor(spec, cached)

	select {
	case <-gotCh:
	case <-time.After(2 * time.Second):
		t.Fatal("sensor callback never fired after hold cleared")
	}
	if len(got) != 1 || got[0] != 42 {
		t.Errorf("got %v, want [42]", got)
	}
}

func TestRegisterSensor_SubscribesWhenConnected(t *testing.T) {
	c, server := directTestClient(t)
	defer server.Close()

	done := make(chan error, 1)
	spec := sensors.Sensor{ID: 274, Label: "airflow_constraints", Type: rmi.TypeCnInt64}
	go func() { done <- c.RegisterSensor(context.Background(), spec) }()

	env, err := protocol.ReadEnvelope(server)
	if err != nil {
		t.Fatalf("server read: %v", err)
	}
	reqHeader, _ := protocol.DecodeHeader(env.Cmd)
	req, err := protocol.DecodeRpdoRequest(env.Body)
	if err != nil {
		t.Fatalf("decode rpdo request: %v", err)
	}
	if req.Pdid != 274 {
		t.Errorf("Pdid = %d, want 274", req.Pdid)
	}
	ok := protocol.ResultOK
	respHeader := protocol.GatewayOperation{Type: uint32(protocol.TypeRpdoRequest), Result: &ok, Reference: reqHeader.Reference}
	respEnv := protocol.Envelope{Src: env.Dst, Dst: env.Src, Cmd: respHeader.Encode()}
	if _, err := server.Write(respEnv.Encode()); err != nil {
		t.Fatalf("server write: %v", err)
	}

	if err := <-done; err != nil {
		t.Fatalf("RegisterSensor: %v", err)
	}
	if _, ok := c.registry[274]; !ok {
		t.Error("sensor not present in registry after RegisterSensor")
	}
}

func TestGetProperty_DecodesString(t *testing.T) {
	c, server := directTestClient(t)
	defer server.Close()

	type result struct {
		v   string
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := c.SerialNumber(context.Background())
		done <- result{v, err}
	}()

	env, err := protocol.ReadEnvelope(server)
	if err != nil {
		t.Fatalf("server read: %v", err)
	}
	reqHeader, _ := protocol.DecodeHeader(env.Cmd)
	rmiReq, err := protocol.DecodeRmiRequest(env.Body)
	if err != nil {
		t.Fatalf("decode rmi request: %v", err)
	}
	if rmiReq.Message[0] != rmi.VerbGetSingle {
		t.Errorf("verb = 0x%02x, want GET single", rmiReq.Message[0])
	}
	resp := protocol.RmiResponse{Message: []byte("SN12345\x00\x00")}
	ok := protocol.ResultOK
	respHeader := protocol.GatewayOperation{Type: uint32(protocol.TypeRmiResponse), Result: &ok, Reference: reqHeader.Reference}
	respEnv := protocol.Envelope{Src: env.Dst, Dst: env.Src, Cmd: respHeader.Encode(), Body: resp.Encode()}
	if _, err := server.Write(respEnv.Encode()); err != nil {
		t.Fatalf("server write: %v", err)
	}

	select {
	case r := <-done:
		if r.err != nil {
			t.Fatalf("SerialNumber: %v", r.err)
		}
		if r.v != "SN12345" {
			t.Errorf("SerialNumber = %q, want SN12345", r.v)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("SerialNumber did not return")
	}
}

func TestCurrentSession_NotConnected(t *testing.T) {
	c := &Client{
		logger:   logger.Nop(),
		registry: map[uint32]sensors.Sensor{},
		lastRaw:  map[uint32]int64{},
		done:     make(chan struct{}),
	}
	if _, err := c.currentSession(); err == nil {
		t.Fatal("expected ErrNotConnected with no session set")
	}
}
