// Package comfoconnect is a client for Zehnder's ComfoConnect LAN C bridge
// protocol: discovery, session management, and the ventilation unit's
// RMI-addressed properties, wrapped behind a reconnecting Client.
package comfoconnect

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"

	"github.com/sfo2001/gocomfoconnect/cerrors"
	"github.com/sfo2001/gocomfoconnect/logger"
	"github.com/sfo2001/gocomfoconnect/protocol"
	"github.com/sfo2001/gocomfoconnect/rmi"
	"github.com/sfo2001/gocomfoconnect/sensors"
	"github.com/sfo2001/gocomfoconnect/session"
	"github.com/sfo2001/gocomfoconnect/util"
)

// defaultNodeID is the node RMI requests address when the caller doesn't
// override it; the ventilation unit itself.
const defaultNodeID = 1

// defaultHoldWindow is how long sensor callbacks are suppressed after a
// (re)connect, per the supervisor's startup hold.
const defaultHoldWindow = 2 * time.Second

// reconnectBackoff is how long the supervisor sleeps between a failed
// connect/start_session attempt and the next one.
const reconnectBackoff = 5 * time.Second

// SensorCallback receives a subscribed sensor's newly decoded value, after
// its Transform (if any) has been applied.
type SensorCallback func(spec sensors.Sensor, value any)

// AlarmCallback receives a node's decoded alarm bitmap.
type AlarmCallback func(nodeID uint32, errs map[int]string)

// Option configures a Client at construction time.
type Option func(*Client)

// WithLogger overrides the default no-op logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithPIN sets the registration PIN used by RegisterApp-on-demand flows.
// Connect itself does not register; call Client.RegisterApp explicitly.
func WithPIN(pin uint32) Option {
	return func(c *Client) { c.pin = pin }
}

// WithDeviceName overrides the device name this client presents when
// registering.
func WithDeviceName(name string) Option {
	return func(c *Client) { c.deviceName = name }
}

// WithHoldWindow overrides the default 2s sensor-hold window.
func WithHoldWindow(d time.Duration) Option {
	return func(c *Client) { c.holdWindow = d }
}

// WithSensorCallback registers the callback invoked for every subscribed
// sensor's decoded value, outside the hold window.
func WithSensorCallback(fn SensorCallback) Option {
	return func(c *Client) { c.onSensor = fn }
}

// WithAlarmCallback registers the callback invoked for decoded alarm
// notifications.
func WithAlarmCallback(fn AlarmCallback) Option {
	return func(c *Client) { c.onAlarm = fn }
}

// Client is a reconnecting connection to one bridge: it owns a connection
// supervisor goroutine that cycles Connecting -> SessionStarting ->
// SubscribingSensors -> Holding -> Reading -> Backoff, re-subscribing every
// registered sensor on each reconnect, plus the ventilation domain API
// layered on top of the current session's RmiRequest.
type Client struct {
	host       string
	localUUID  protocol.Identity
	bridgeUUID protocol.Identity
	deviceName string
	pin        uint32
	holdWindow time.Duration

	logger   logger.Logger
	onSensor SensorCallback
	onAlarm  AlarmCallback

	mu       sync.Mutex
	sess     *session.Session
	registry map[uint32]sensors.Sensor
	lastRaw  map[uint32]int64
	holding  bool

	connectedOnce sync.Once
	connected     chan error

	done      chan struct{}
	closeOnce sync.Once
}

// Connect dials host, runs start_session, and launches the supervisor.
// It blocks until the first session is established or fails fatally
// (NOT_ALLOWED), at which point it returns the corresponding error.
// bridgeUUID is the bridge's own 16-byte identity, typically the UUID a
// prior discovery.Discover call returned.
func Connect(ctx context.Context, host string, bridgeUUID protocol.Identity, opts ...Option) (*Client, error) {
	c := &Client{
		host:       host,
		localUUID:  uuid.New(),
		bridgeUUID: bridgeUUID,
		deviceName: "gocomfoconnect",
		holdWindow: defaultHoldWindow,
		logger:     logger.Nop(),
		registry:   make(map[uint32]sensors.Sensor),
		lastRaw:    make(map[uint32]int64),
		connected:  make(chan error, 1),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	go c.run(ctx)

	select {
	case err := <-c.connected:
		if err != nil {
			return nil, err
		}
		return c, nil
	case <-ctx.Done():
		c.Disconnect()
		return nil, ctx.Err()
	}
}

// Disconnect tears the supervisor and its current session down. Safe to
// call more than once.
func (c *Client) Disconnect() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.mu.Lock()
		sess := c.sess
		c.mu.Unlock()
		if sess != nil {
			sess.Disconnect()
		}
	})
}

// IsConnected reports whether a session is currently established.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess != nil
}

// run is the supervisor loop: Connecting -> SessionStarting ->
// SubscribingSensors -> Holding -> Reading -> Backoff, restarting on any
// transport error except a fatal NOT_ALLOWED from start_session.
func (c *Client) run(ctx context.Context) {
	for {
		select {
		case <-c.done:
			return
		default:
		}

		sess, err := session.Connect(ctx, c.host, c.localUUID, c.bridgeUUID,
			session.WithLogger(c.logger),
			session.WithSensorCallback(c.handleSensor),
			session.WithAlarmCallback(func(nodeID uint32, errs map[int]string) {
				if c.onAlarm != nil {
					c.onAlarm(nodeID, errs)
				}
			}),
		)
		if err != nil {
			c.logger.Warn("comfoconnect: connect: %v, retrying in %s", err, reconnectBackoff)
			if !c.backoff() {
				return
			}
			continue
		}

		if err := sess.StartSession(ctx, true); err != nil {
			sess.Disconnect()
			var protoErr *cerrors.ProtocolError
			if errors.As(err, &protoErr) && protoErr.Code == protocol.ResultNotAllowed {
				c.signalConnected(protoErr)
				return
			}
			c.logger.Warn("comfoconnect: start_session: %v, retrying in %s", err, reconnectBackoff)
			if !c.backoff() {
				return
			}
			continue
		}

		c.mu.Lock()
		c.sess = sess
		c.holding = true
		c.mu.Unlock()

		c.resubscribeAll(ctx, sess)
		c.startHoldTimer(sess)
		c.signalConnected(nil)

		<-sess.Done()
		c.mu.Lock()
		c.sess = nil
		c.mu.Unlock()

		select {
		case <-c.done:
			return
		default:
		}
	}
}

func (c *Client) signalConnected(err error) {
	c.connectedOnce.Do(func() { c.connected <- err })
}

// backoff sleeps reconnectBackoff, returning false if Disconnect fired
// first so the caller can exit instead of reconnecting.
func (c *Client) backoff() bool {
	select {
	case <-time.After(reconnectBackoff):
		return true
	case <-c.done:
		return false
	}
}

// resubscribeAll re-arms every registered sensor's RPDO subscription,
// sorted by pdid for deterministic wire ordering across reconnects.
func (c *Client) resubscribeAll(ctx context.Context, sess *session.Session) {
	c.mu.Lock()
	pdids := make([]uint32, 0, len(c.registry))
	for pdid := range c.registry {
		pdids = append(pdids, pdid)
	}
	c.mu.Unlock()
	slices.Sort(pdids)

	for _, pdid := range pdids {
		c.mu.Lock()
		spec, ok := c.registry[pdid]
		c.mu.Unlock()
		if !ok {
			continue
		}
		if err := sess.RpdoRequest(ctx, pdid, uint32(spec.Type), 1, math.MaxUint32); err != nil {
			c.logger.Warn("comfoconnect: re-subscribe pdid %d: %v", pdid, err)
		}
	}
}

// startHoldTimer arms the sensor-hold window: after it expires, the hold
// flag clears and every cached PDO value is flushed through the normal
// callback path once.
func (c *Client) startHoldTimer(sess *session.Session) {
	hold := c.holdWindow
	if hold <= 0 {
		hold = defaultHoldWindow
	}
	time.AfterFunc(hold, func() {
		c.mu.Lock()
		if c.sess != sess {
			c.mu.Unlock()
			return
		}
		c.holding = false
		cached := make(map[uint32]int64, len(c.lastRaw))
		for pdid, raw := range c.lastRaw {
			cached[pdid] = raw
		}
		c.mu.Unlock()

		for pdid, raw := range cached {
			c.mu.Lock()
			spec, ok := c.registry[pdid]
			c.mu.Unlock()
			if ok {
				c.dispatchSensor(spec, raw)
			}
		}
	})
}

// handleSensor is the session-level callback: it always updates the raw
// cache, but only dispatches to the user callback outside the hold window
// and for a pdid still in the registry.
func (c *Client) handleSensor(pdid uint32, raw int64) {
	c.mu.Lock()
	c.lastRaw[pdid] = raw
	holding := c.holding
	spec, known := c.registry[pdid]
	c.mu.Unlock()

	if holding || !known {
		return
	}
	c.dispatchSensor(spec, raw)
}

func (c *Client) dispatchSensor(spec sensors.Sensor, raw int64) {
	if c.onSensor == nil {
		return
	}
	var value any = raw
	if spec.Fn != nil {
		value = spec.Fn(raw)
	}
	c.onSensor(spec, value)
}

// RegisterSensor adds spec to the registry and, if currently connected,
// immediately issues its RPDO subscription. The registration survives
// reconnects regardless of connectivity at call time.
func (c *Client) RegisterSensor(ctx context.Context, spec sensors.Sensor) error {
	c.mu.Lock()
	c.registry[spec.ID] = spec
	sess := c.sess
	c.mu.Unlock()

	if sess == nil {
		return nil
	}
	return sess.RpdoRequest(ctx, spec.ID, uint32(spec.Type), 1, math.MaxUint32)
}

// DeregisterSensor removes pdid from the registry and, if connected,
// unsubscribes it (timeout=0).
func (c *Client) DeregisterSensor(ctx context.Context, pdid uint32) error {
	c.mu.Lock()
	delete(c.registry, pdid)
	delete(c.lastRaw, pdid)
	sess := c.sess
	c.mu.Unlock()

	if sess == nil {
		return nil
	}
	return sess.RpdoRequest(ctx, pdid, 0, 1, 0)
}

func (c *Client) currentSession() (*session.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil {
		return nil, cerrors.ErrNotConnected
	}
	return c.sess, nil
}

func (c *Client) getScheduleMode(ctx context.Context, subunit rmi.Subunit, selector byte) ([]byte, error) {
	sess, err := c.currentSession()
	if err != nil {
		return nil, err
	}
	return sess.RmiRequest(ctx, rmi.EncodeGetScheduleMode(rmi.UnitSchedule, subunit, selector), defaultNodeID)
}

func (c *Client) setScheduleValue(ctx context.Context, subunit rmi.Subunit, selector byte, timeout int32, value byte) error {
	sess, err := c.currentSession()
	if err != nil {
		return err
	}
	_, err = sess.RmiRequest(ctx, rmi.EncodeSetScheduleMode(rmi.UnitSchedule, subunit, selector, timeout, value), defaultNodeID)
	return err
}

func (c *Client) enableScheduleMode(ctx context.Context, subunit rmi.Subunit, selector byte) error {
	sess, err := c.currentSession()
	if err != nil {
		return err
	}
	_, err = sess.RmiRequest(ctx, rmi.EncodeEnableScheduleMode(rmi.UnitSchedule, subunit, selector), defaultNodeID)
	return err
}

// Mode returns whether the unit follows its own schedule or a manually
// forced setting.
func (c *Client) Mode(ctx context.Context) (rmi.VentilationMode, error) {
	payload, err := c.getScheduleMode(ctx, rmi.Subunit08, rmi.SelectorCurrentValue)
	if err != nil {
		return 0, err
	}
	return rmi.DecodeMode(payload)
}

// SetMode forces auto/manual mode.
func (c *Client) SetMode(ctx context.Context, mode rmi.VentilationMode) error {
	return c.setScheduleValue(ctx, rmi.Subunit08, rmi.SelectorCurrentValue, 1, byte(mode))
}

// Speed returns the current fan-speed setting.
func (c *Client) Speed(ctx context.Context) (rmi.VentilationSpeed, error) {
	payload, err := c.getScheduleMode(ctx, rmi.Subunit01, rmi.SelectorCurrentValue)
	if err != nil {
		return 0, err
	}
	return rmi.DecodeSpeed(payload)
}

// SetSpeed forces a fan speed.
func (c *Client) SetSpeed(ctx context.Context, speed rmi.VentilationSpeed) error {
	return c.setScheduleValue(ctx, rmi.Subunit01, rmi.SelectorCurrentValue, 1, byte(speed))
}

// Bypass returns the bypass damper's current state/override.
func (c *Client) Bypass(ctx context.Context) (rmi.BypassMode, error) {
	payload, err := c.getScheduleMode(ctx, rmi.Subunit02, rmi.SelectorCurrentValue)
	if err != nil {
		return 0, err
	}
	return rmi.DecodeBypass(payload)
}

// SetBypass forces the bypass damper open/closed, or returns it to auto.
func (c *Client) SetBypass(ctx context.Context, mode rmi.BypassMode) error {
	return c.setScheduleValue(ctx, rmi.Subunit02, rmi.SelectorCurrentValue, 1, byte(mode))
}

// TemperatureProfile returns the comfort curve the bypass/ComfoCool logic
// evaluates against.
func (c *Client) TemperatureProfile(ctx context.Context) (rmi.VentilationTemperatureProfile, error) {
	payload, err := c.getScheduleMode(ctx, rmi.Subunit03, rmi.SelectorCurrentValue)
	if err != nil {
		return 0, err
	}
	return rmi.DecodeTemperatureProfile(payload)
}

// SetTemperatureProfile sets the comfort curve.
func (c *Client) SetTemperatureProfile(ctx context.Context, profile rmi.VentilationTemperatureProfile) error {
	return c.setScheduleValue(ctx, rmi.Subunit03, rmi.SelectorCurrentValue, 1, byte(profile))
}

// ComfoCoolMode returns the ComfoCool unit's current mode.
func (c *Client) ComfoCoolMode(ctx context.Context) (rmi.ComfoCoolMode, error) {
	payload, err := c.getScheduleMode(ctx, rmi.Subunit05, rmi.SelectorCurrentValue)
	if err != nil {
		return 0, err
	}
	return rmi.DecodeComfoCool(payload)
}

// SetComfoCoolMode sets the ComfoCool unit's mode.
func (c *Client) SetComfoCoolMode(ctx context.Context, mode rmi.ComfoCoolMode) error {
	return c.setScheduleValue(ctx, rmi.Subunit05, rmi.SelectorCurrentValue, 1, byte(mode))
}

func (c *Client) subunitActive(ctx context.Context, subunit rmi.Subunit) (bool, error) {
	payload, err := c.getScheduleMode(ctx, subunit, rmi.SelectorCurrentValue)
	if err != nil {
		return false, err
	}
	b, err := rmi.DecodeScheduleModeByte(payload)
	if err != nil {
		return false, err
	}
	return b == 1, nil
}

// BalanceMode returns which direction (supply/exhaust), if any, is
// currently favored, derived from the joint state of subunits 6 and 7.
func (c *Client) BalanceMode(ctx context.Context) (rmi.VentilationBalance, error) {
	supplyActive, err := c.subunitActive(ctx, rmi.Subunit06)
	if err != nil {
		return 0, err
	}
	exhaustActive, err := c.subunitActive(ctx, rmi.Subunit07)
	if err != nil {
		return 0, err
	}
	return rmi.BalanceFromSubunits(supplyActive, exhaustActive)
}

// SetBalanceMode sets the supply/exhaust balance: enables (returns to
// auto) the subunit(s) not in play, and, for a directional mode, sets the
// active subunit to 0x01.
func (c *Client) SetBalanceMode(ctx context.Context, mode rmi.VentilationBalance) error {
	switch mode {
	case rmi.BalanceBalance:
		if err := c.enableScheduleMode(ctx, rmi.Subunit06, rmi.SelectorCurrentValue); err != nil {
			return err
		}
		return c.enableScheduleMode(ctx, rmi.Subunit07, rmi.SelectorCurrentValue)
	case rmi.BalanceSupplyOnly:
		if err := c.enableScheduleMode(ctx, rmi.Subunit07, rmi.SelectorCurrentValue); err != nil {
			return err
		}
		return c.setScheduleValue(ctx, rmi.Subunit06, rmi.SelectorCurrentValue, 1, 0x01)
	case rmi.BalanceExhaustOnly:
		if err := c.enableScheduleMode(ctx, rmi.Subunit06, rmi.SelectorCurrentValue); err != nil {
			return err
		}
		return c.setScheduleValue(ctx, rmi.Subunit07, rmi.SelectorCurrentValue, 1, 0x01)
	default:
		return fmt.Errorf("comfoconnect: invalid balance mode %v", mode)
	}
}

// Boost reports whether the temporary high-speed boost is active.
func (c *Client) Boost(ctx context.Context) (bool, error) {
	payload, err := c.getScheduleMode(ctx, rmi.Subunit01, rmi.SelectorBoost)
	if err != nil {
		return false, err
	}
	return rmi.DecodeBoolToggle(payload)
}

// SetBoost activates boost for timeoutSeconds (rmi.DefaultToggleTimeout if
// the caller has no preference), or deactivates it and returns to auto.
func (c *Client) SetBoost(ctx context.Context, active bool, timeoutSeconds int32) error {
	if !active {
		return c.enableScheduleMode(ctx, rmi.Subunit01, rmi.SelectorBoost)
	}
	return c.setScheduleValue(ctx, rmi.Subunit01, rmi.SelectorBoost, timeoutSeconds, 0x03)
}

// Away reports whether the away (reduced ventilation) override is active.
func (c *Client) Away(ctx context.Context) (bool, error) {
	payload, err := c.getScheduleMode(ctx, rmi.Subunit01, rmi.SelectorAway)
	if err != nil {
		return false, err
	}
	return rmi.DecodeBoolToggle(payload)
}

// SetAway activates away mode for timeoutSeconds, or deactivates it and
// returns to auto.
func (c *Client) SetAway(ctx context.Context, active bool, timeoutSeconds int32) error {
	if !active {
		return c.enableScheduleMode(ctx, rmi.Subunit01, rmi.SelectorAway)
	}
	return c.setScheduleValue(ctx, rmi.Subunit01, rmi.SelectorAway, timeoutSeconds, 0x00)
}

// FlowForSpeed returns the configured airflow, in m³/h, for the given
// speed preset.
func (c *Client) FlowForSpeed(ctx context.Context, speed rmi.AirflowSpeed) (uint64, error) {
	v, err := c.GetProperty(ctx, rmi.UnitVentilationConfig, rmi.Subunit01, rmi.AirflowPropertyID(speed), rmi.TypeCnUint16)
	if err != nil {
		return 0, err
	}
	flow, ok := v.(uint64)
	if !ok {
		return 0, fmt.Errorf("comfoconnect: unexpected airflow value type %T", v)
	}
	return flow, nil
}

// SetFlowForSpeed sets the configured airflow, in m³/h, for speed.
func (c *Client) SetFlowForSpeed(ctx context.Context, speed rmi.AirflowSpeed, flow uint16) error {
	return c.SetPropertyTyped(ctx, rmi.UnitVentilationConfig, rmi.Subunit01, rmi.AirflowPropertyID(speed), rmi.TypeCnUint16, int(flow))
}

// ClearErrors clears the unit's stored error log.
func (c *Client) ClearErrors(ctx context.Context) error {
	sess, err := c.currentSession()
	if err != nil {
		return err
	}
	_, err = sess.RmiRequest(ctx, rmi.EncodeClearErrors(), defaultNodeID)
	return err
}

// Version retrieves the bridge's gateway/ComfoNet firmware versions.
func (c *Client) Version(ctx context.Context) (protocol.VersionConfirm, error) {
	sess, err := c.currentSession()
	if err != nil {
		return protocol.VersionConfirm{}, err
	}
	return sess.Version(ctx)
}

// Time retrieves the bridge's current time as a unix timestamp.
func (c *Client) Time(ctx context.Context) (uint32, error) {
	sess, err := c.currentSession()
	if err != nil {
		return 0, err
	}
	return sess.Time(ctx)
}

// GetProperty issues a generic single-property GET and decodes the result
// per t.
func (c *Client) GetProperty(ctx context.Context, unit rmi.Unit, subunit rmi.Subunit, propertyID byte, t rmi.PdoType) (any, error) {
	sess, err := c.currentSession()
	if err != nil {
		return nil, err
	}
	resp, err := sess.RmiRequest(ctx, rmi.EncodeGet(unit, subunit, propertyID), defaultNodeID)
	if err != nil {
		return nil, err
	}
	return rmi.DecodeProperty(t, resp)
}

// GetProperties issues a multi-property GET, returning the raw response
// payload for the caller to split per its own property layout.
func (c *Client) GetProperties(ctx context.Context, unit rmi.Unit, subunit rmi.Subunit, propertyIDs ...byte) ([]byte, error) {
	sess, err := c.currentSession()
	if err != nil {
		return nil, err
	}
	return sess.RmiRequest(ctx, rmi.EncodeGetMultiple(unit, subunit, propertyIDs...), defaultNodeID)
}

// SetProperty issues a generic SET with pre-encoded value bytes.
func (c *Client) SetProperty(ctx context.Context, unit rmi.Unit, subunit rmi.Subunit, propertyID byte, value []byte) error {
	sess, err := c.currentSession()
	if err != nil {
		return err
	}
	_, err = sess.RmiRequest(ctx, rmi.EncodeSetProperty(unit, subunit, propertyID, value), defaultNodeID)
	return err
}

// SetPropertyTyped encodes v per t and issues the SET.
func (c *Client) SetPropertyTyped(ctx context.Context, unit rmi.Unit, subunit rmi.Subunit, propertyID byte, t rmi.PdoType, v any) error {
	encoded, err := rmi.EncodeProperty(t, v)
	if err != nil {
		return err
	}
	return c.SetProperty(ctx, unit, subunit, propertyID, encoded)
}

func (c *Client) stringProperty(ctx context.Context, propertyID byte) (string, error) {
	v, err := c.GetProperty(ctx, rmi.UnitNode, rmi.Subunit01, propertyID, rmi.TypeCnString)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("comfoconnect: unexpected property value type %T", v)
	}
	return s, nil
}

// SerialNumber returns the unit's serial number.
func (c *Client) SerialNumber(ctx context.Context) (string, error) {
	return c.stringProperty(ctx, rmi.PropertySerialNumber)
}

// Model returns the unit's model name.
func (c *Client) Model(ctx context.Context) (string, error) {
	return c.stringProperty(ctx, rmi.PropertyModel)
}

// ArticleNumber returns the unit's article number.
func (c *Client) ArticleNumber(ctx context.Context) (string, error) {
	return c.stringProperty(ctx, rmi.PropertyArticleNumber)
}

// Country returns the unit's configured country.
func (c *Client) Country(ctx context.Context) (string, error) {
	return c.stringProperty(ctx, rmi.PropertyCountry)
}

// DeviceName returns the unit's configured device name.
func (c *Client) DeviceName(ctx context.Context) (string, error) {
	return c.stringProperty(ctx, rmi.PropertyDeviceName)
}

// FirmwareVersion returns the unit's firmware version, decoded from its
// packed 32-bit form.
func (c *Client) FirmwareVersion(ctx context.Context) (string, error) {
	v, err := c.GetProperty(ctx, rmi.UnitNode, rmi.Subunit01, rmi.PropertyFirmwareVersion, rmi.TypeCnUint32)
	if err != nil {
		return "", err
	}
	raw, ok := v.(uint64)
	if !ok {
		return "", fmt.Errorf("comfoconnect: unexpected firmware version value type %T", v)
	}
	return util.DecodeVersion(uint32(raw)), nil
}

func (c *Client) sensorVentMode(ctx context.Context, propertyID byte) (rmi.SensorVentMode, error) {
	sess, err := c.currentSession()
	if err != nil {
		return 0, err
	}
	resp, err := sess.RmiRequest(ctx, rmi.EncodeGet(rmi.UnitNode, rmi.Subunit01, propertyID), defaultNodeID)
	if err != nil {
		return 0, err
	}
	return rmi.DecodeSensorVentMode(resp)
}

func (c *Client) setSensorVentMode(ctx context.Context, propertyID byte, mode rmi.SensorVentMode) error {
	return c.SetPropertyTyped(ctx, rmi.UnitNode, rmi.Subunit01, propertyID, rmi.TypeCnUint8, int(mode))
}

// SensorVentTemperaturePassive returns the temperature-passive
// sensor-driven ventilation mode.
func (c *Client) SensorVentTemperaturePassive(ctx context.Context) (rmi.SensorVentMode, error) {
	return c.sensorVentMode(ctx, rmi.PropertySensorVentTempPassiv)
}

// SetSensorVentTemperaturePassive sets the temperature-passive
// sensor-driven ventilation mode.
func (c *Client) SetSensorVentTemperaturePassive(ctx context.Context, mode rmi.SensorVentMode) error {
	return c.setSensorVentMode(ctx, rmi.PropertySensorVentTempPassiv, mode)
}

// SensorVentHumidityComfort returns the humidity-comfort sensor-driven
// ventilation mode.
func (c *Client) SensorVentHumidityComfort(ctx context.Context) (rmi.SensorVentMode, error) {
	return c.sensorVentMode(ctx, rmi.PropertySensorVentHumComfort)
}

// SetSensorVentHumidityComfort sets the humidity-comfort sensor-driven
// ventilation mode.
func (c *Client) SetSensorVentHumidityComfort(ctx context.Context, mode rmi.SensorVentMode) error {
	return c.setSensorVentMode(ctx, rmi.PropertySensorVentHumComfort, mode)
}

// SensorVentHumidityProtection returns the humidity-protection
// sensor-driven ventilation mode.
func (c *Client) SensorVentHumidityProtection(ctx context.Context) (rmi.SensorVentMode, error) {
	return c.sensorVentMode(ctx, rmi.PropertySensorVentHumProtect)
}

// SetSensorVentHumidityProtection sets the humidity-protection
// sensor-driven ventilation mode.
func (c *Client) SetSensorVentHumidityProtection(ctx context.Context, mode rmi.SensorVentMode) error {
	return c.setSensorVentMode(ctx, rmi.PropertySensorVentHumProtect, mode)
}

// RegisterApp enrolls this client's local UUID with the bridge, using the
// device name and PIN supplied via WithDeviceName/WithPIN.
func (c *Client) RegisterApp(ctx context.Context) error {
	sess, err := c.currentSession()
	if err != nil {
		return err
	}
	return sess.RegisterApp(ctx, c.localUUID, c.deviceName, c.pin)
}
