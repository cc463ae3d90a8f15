// Package session owns the TCP connection to a bridge: the reference
// counter, the reply-correlating event bus, the read loop, and the ten
// public request primitives layered on top of them. It has no opinion
// about ventilation semantics — that's package rmi and the root client.
package session

import (
	"context"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/sfo2001/gocomfoconnect/cerrors"
	"github.com/sfo2001/gocomfoconnect/logger"
	"github.com/sfo2001/gocomfoconnect/protocol"
	"github.com/sfo2001/gocomfoconnect/sensors"
	"github.com/sfo2001/gocomfoconnect/util"
)

// Port is the TCP port the bridge listens on for sessions (and, over UDP,
// for discovery probes).
const Port = 56747

const (
	connectTimeout = 5 * time.Second
	replyTimeout   = 5 * time.Second
)

// SensorCallback receives one subscribed PDO's newly decoded value.
type SensorCallback func(pdid uint32, raw int64)

// AlarmCallback receives a node's decoded alarm bitmap, bit position to
// message text.
type AlarmCallback func(nodeID uint32, errs map[int]string)

// Option configures a Session at construction time.
type Option func(*Session)

// WithLogger overrides the default no-op logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithSensorCallback registers the callback the read loop delivers PDO
// notifications to.
func WithSensorCallback(fn SensorCallback) Option {
	return func(s *Session) { s.onSensor = fn }
}

// WithAlarmCallback registers the callback the read loop delivers alarm
// notifications to.
func WithAlarmCallback(fn AlarmCallback) Option {
	return func(s *Session) { s.onAlarm = fn }
}

// Session is one live connection to a bridge.
type Session struct {
	conn       net.Conn
	localUUID  protocol.Identity
	bridgeUUID protocol.Identity

	logger   logger.Logger
	onSensor SensorCallback
	onAlarm  AlarmCallback

	writeMu   sync.Mutex
	reference uint32
	bus       *eventBus

	closeOnce sync.Once
	done      chan struct{}
}

// Connect opens a TCP session to host, within a 5s bound, and starts the
// read loop. The caller still must call StartSession before issuing any
// other request.
func Connect(ctx context.Context, host string, localUUID, bridgeUUID protocol.Identity, opts ...Option) (*Session, error) {
	dialCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(dialCtx, "tcp", fmt.Sprintf("%s:%d", host, Port))
	if err != nil {
		if dialCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			return nil, fmt.Errorf("session: dial %s: %w: %v", host, cerrors.ErrTimeout, err)
		}
		return nil, fmt.Errorf("session: dial %s: %w", host, err)
	}

	s := &Session{
		conn:       conn,
		localUUID:  localUUID,
		bridgeUUID: bridgeUUID,
		logger:     logger.Nop(),
		reference:  1,
		bus:        newEventBus(),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	go s.readLoop()
	return s, nil
}

// Disconnect cancels the read loop, closes the socket and drains every
// pending waiter with ErrNotConnected. Safe to call more than once.
func (s *Session) Disconnect() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.conn.Close()
		s.bus.drainAll(cerrors.ErrNotConnected)
	})
}

// Done returns a channel closed once this session has been torn down,
// letting a caller (the connection supervisor) wait for disconnection
// without polling IsConnected.
func (s *Session) Done() <-chan struct{} { return s.done }

// IsConnected reports whether the read loop is still running.
func (s *Session) IsConnected() bool {
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// send assigns the current reference, optionally registers a waiter,
// writes the framed request, advances the reference, and — if a reply was
// requested — awaits it for up to 5s.
func (s *Session) send(ctx context.Context, typ protocol.MessageType, body []byte, expectReply bool) (any, error) {
	if !s.IsConnected() {
		return nil, cerrors.ErrNotConnected
	}

	s.writeMu.Lock()
	ref := s.reference
	var waiter chan result
	if expectReply {
		waiter = s.bus.addListener(ref)
	}

	header := protocol.GatewayOperation{Type: uint32(typ), Reference: &ref}
	env := protocol.Envelope{Src: s.localUUID, Dst: s.bridgeUUID, Cmd: header.Encode(), Body: body}
	_, writeErr := s.conn.Write(env.Encode())
	if writeErr == nil {
		s.reference++
	}
	s.writeMu.Unlock()

	if writeErr != nil {
		if expectReply {
			s.bus.removeListener(ref, waiter)
		}
		return nil, fmt.Errorf("session: write %s: %w", protocol.NameOf(typ), writeErr)
	}
	if !expectReply {
		return nil, nil
	}

	select {
	case r := <-waiter:
		return r.body, r.err
	case <-time.After(replyTimeout):
		s.bus.removeListener(ref, waiter)
		s.Disconnect()
		return nil, cerrors.ErrTimeout
	case <-ctx.Done():
		s.bus.removeListener(ref, waiter)
		return nil, ctx.Err()
	case <-s.done:
		return nil, cerrors.ErrNotConnected
	}
}

// StartSession claims the bridge session; takeOver evicts another client
// currently holding it.
func (s *Session) StartSession(ctx context.Context, takeOver bool) error {
	body := protocol.StartSessionRequest{TakeOver: &takeOver}.Encode()
	_, err := s.send(ctx, protocol.TypeStartSessionRequest, body, true)
	return err
}

// CloseSession asks the bridge to end the session gracefully; no reply is
// expected.
func (s *Session) CloseSession(ctx context.Context) error {
	_, err := s.send(ctx, protocol.TypeCloseSessionRequest, nil, false)
	return err
}

// ListRegisteredApps enumerates every app currently registered with the
// bridge.
func (s *Session) ListRegisteredApps(ctx context.Context) ([]protocol.RegisteredApp, error) {
	body, err := s.send(ctx, protocol.TypeListRegisteredAppsRequest, nil, true)
	if err != nil {
		return nil, err
	}
	confirm, ok := body.(protocol.ListRegisteredAppsConfirm)
	if !ok {
		return nil, fmt.Errorf("session: unexpected body type %T for ListRegisteredApps", body)
	}
	return confirm.Apps, nil
}

// RegisterApp enrolls uuid with the bridge under the given name and PIN. Fails with a NOT_ALLOWED protocol error on a wrong PIN.
func (s *Session) RegisterApp(ctx context.Context, uuid protocol.Identity, deviceName string, pin uint32) error {
	body := protocol.RegisterAppRequest{UUID: uuid, DeviceName: deviceName, Pin: pin}.Encode()
	_, err := s.send(ctx, protocol.TypeRegisterAppRequest, body, true)
	return err
}

// DeregisterApp removes uuid's registration. Fails synchronously, without
// writing any bytes, if uuid equals this session's own local uuid.
func (s *Session) DeregisterApp(ctx context.Context, uuid protocol.Identity) error {
	if uuid == s.localUUID {
		return cerrors.ErrSelfDeregistration
	}
	body := protocol.DeregisterAppRequest{UUID: uuid}.Encode()
	_, err := s.send(ctx, protocol.TypeDeregisterAppRequest, body, true)
	return err
}

// RmiRequest wraps an opaque RMI byte payload to the given node and
// returns the response payload bytes.
func (s *Session) RmiRequest(ctx context.Context, message []byte, nodeID uint32) ([]byte, error) {
	body := protocol.RmiRequest{NodeID: nodeID, Message: message}.Encode()
	resp, err := s.send(ctx, protocol.TypeRmiRequest, body, true)
	if err != nil {
		return nil, err
	}
	rmiResp, ok := resp.(protocol.RmiResponse)
	if !ok {
		return nil, fmt.Errorf("session: unexpected body type %T for RmiRequest", resp)
	}
	return rmiResp.Message, nil
}

// RpdoRequest subscribes to (timeout > 0, or the sentinel "no timeout"
// value) or unsubscribes from (timeout == 0) a PDO.
func (s *Session) RpdoRequest(ctx context.Context, pdid, pdoType, zone, timeout uint32) error {
	body := protocol.RpdoRequest{Pdid: pdid, PdoType: pdoType, Zone: zone, Timeout: timeout}.Encode()
	_, err := s.send(ctx, protocol.TypeRpdoRequest, body, true)
	return err
}

// Keepalive sends a liveness ping; no reply is expected.
func (s *Session) Keepalive(ctx context.Context) error {
	_, err := s.send(ctx, protocol.TypeKeepAlive, nil, false)
	return err
}

// Version retrieves the bridge's gateway/ComfoNet firmware versions.
func (s *Session) Version(ctx context.Context) (protocol.VersionConfirm, error) {
	body, err := s.send(ctx, protocol.TypeVersionRequest, nil, true)
	if err != nil {
		return protocol.VersionConfirm{}, err
	}
	v, ok := body.(protocol.VersionConfirm)
	if !ok {
		return protocol.VersionConfirm{}, fmt.Errorf("session: unexpected body type %T for Version", body)
	}
	return v, nil
}

// Time retrieves the bridge's current time as a unix timestamp.
func (s *Session) Time(ctx context.Context) (uint32, error) {
	body, err := s.send(ctx, protocol.TypeCnTimeRequest, nil, true)
	if err != nil {
		return 0, err
	}
	v, ok := body.(protocol.TimeConfirm)
	if !ok {
		return 0, fmt.Errorf("session: unexpected body type %T for Time", body)
	}
	return v.CurrentTime, nil
}

// readLoop reads one framed message at a time and dispatches it. It runs
// until the connection is closed or a read fails, at which point it tears
// the session down and drains every pending waiter.
func (s *Session) readLoop() {
	defer s.Disconnect()
	for {
		env, err := protocol.ReadEnvelope(s.conn)
		if err != nil {
			if err != io.EOF {
				s.logger.Warn("session: read loop exiting: %v", err)
			}
			return
		}
		header, err := protocol.DecodeHeader(env.Cmd)
		if err != nil {
			s.logger.Warn("%v", cerrors.Decode("malformed header: %v", err))
			continue
		}
		s.dispatch(protocol.MessageType(header.Type), header, env.Body)
	}
}

func (s *Session) dispatch(typ protocol.MessageType, header protocol.GatewayOperation, body []byte) {
	switch typ {
	case protocol.TypeCnRpdoNotification:
		note, err := protocol.DecodeCnRpdoNotification(body)
		if err != nil {
			s.logger.Warn("%v", cerrors.Decode("CnRpdoNotification: %v", err))
			return
		}
		if s.onSensor != nil {
			s.onSensor(note.Pdid, util.DecodeSignedLE(note.Data))
		}
	case protocol.TypeCnAlarmNotification:
		alarm, err := protocol.DecodeCnAlarmNotification(body)
		if err != nil {
			s.logger.Warn("%v", cerrors.Decode("CnAlarmNotification: %v", err))
			return
		}
		if s.onAlarm != nil {
			s.onAlarm(alarm.NodeID, sensors.DecodeAlarm(alarm.SwProgramVersion, alarm.ErrorData))
		}
	case protocol.TypeCloseSessionRequest:
		s.logger.Info("session: bridge requested close")
	case protocol.TypeGatewayNotification, protocol.TypeCnNodeNotification:
		s.logger.Debug("session: notification %s", protocol.NameOf(typ))
	default:
		if header.Reference == nil {
			s.logger.Warn("session: unhandled message type %s", protocol.NameOf(typ))
			return
		}
		if header.Result != nil && *header.Result != protocol.ResultOK {
			desc := ""
			if header.ResultDescription != nil {
				desc = *header.ResultDescription
			}
			s.bus.emit(*header.Reference, result{err: cerrors.ForResult(*header.Result, desc, header)})
			return
		}
		decoded, err := protocol.DecodeBody(typ, body)
		if err != nil {
			s.logger.Warn("%v", cerrors.Decode("%s: %v", protocol.NameOf(typ), err))
			return
		}
		s.bus.emit(*header.Reference, result{body: decoded})
	}
}
