// Package discovery implements the UDP broadcast/unicast probe that
// precedes a TCP session: a two-byte probe sent to port 56747, collecting
// DiscoveryOperation-style gateway-announce replies.
package discovery

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/sfo2001/gocomfoconnect/cerrors"
	"github.com/sfo2001/gocomfoconnect/logger"
	"github.com/sfo2001/gocomfoconnect/protocol"
)

// Port is the UDP port bridges listen for discovery probes on.
const Port = 56747

// probe is the exact two-byte payload the bridge recognizes as a
// discovery request.
var probe = []byte{0x0A, 0x00}

// DefaultTimeout is how long a broadcast discovery waits for replies when
// the caller doesn't specify one.
const DefaultTimeout = 1 * time.Second

// Bridge describes one bridge that answered a discovery probe.
type Bridge struct {
	Host string
	UUID protocol.Identity
}

// Option configures a Discover call.
type Option func(*options)

type options struct {
	target  string
	timeout time.Duration
	logger  logger.Logger
}

// WithTarget restricts discovery to a single host, sent unicast; the scan
// returns as soon as that host replies instead of waiting out the full
// timeout.
func WithTarget(host string) Option {
	return func(o *options) { o.target = host }
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithLogger overrides the default no-op logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Discover sends the discovery probe and collects replies until ctx is
// canceled, the timeout elapses, or (with WithTarget) the first reply
// arrives. It fails with cerrors.ErrBridgeNotFound if nothing replies.
func Discover(ctx context.Context, opts ...Option) ([]Bridge, error) {
	o := &options{timeout: DefaultTimeout, logger: logger.Nop()}
	for _, opt := range opts {
		opt(o)
	}

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{Port: 0})
	if err != nil {
		return nil, fmt.Errorf("discovery: listen: %w", err)
	}
	defer conn.Close()

	dest := &net.UDPAddr{IP: net.IPv4bcast, Port: Port}
	if o.target != "" {
		ip := net.ParseIP(o.target)
		if ip == nil {
			resolved, err := net.ResolveIPAddr("ip4", o.target)
			if err != nil {
				return nil, fmt.Errorf("discovery: resolve target %s: %w", o.target, err)
			}
			ip = resolved.IP
		}
		dest = &net.UDPAddr{IP: ip, Port: Port}
	} else if bcast := broadcastAddress(o.logger); bcast != nil {
		dest = &net.UDPAddr{IP: bcast, Port: Port}
	}

	if _, err := conn.WriteToUDP(probe, dest); err != nil {
		return nil, fmt.Errorf("discovery: send probe: %w", err)
	}

	deadline := time.Now().Add(o.timeout)
	conn.SetReadDeadline(deadline)

	var found []Bridge
	buf := make([]byte, 2048)
	for {
		select {
		case <-ctx.Done():
			return finish(found)
		default:
		}

		n, addr, err := conn.ReadFromUDP(buf)
		if err != nil {
			// Timeout or closed: deliver whatever we have.
			return finish(found)
		}
		data := buf[:n]
		if len(data) == len(probe) && data[0] == probe[0] && data[1] == probe[1] {
			// Our own probe, echoed back on the broadcast domain.
			continue
		}
		bridge, ok := parseDiscoveryResponse(data, addr.IP.String())
		if !ok {
			o.logger.Debug("discovery: unrecognized reply from %s (%d bytes)", addr, n)
			continue
		}
		found = append(found, bridge)
		if o.target != "" {
			return finish(found)
		}
	}
}

func finish(found []Bridge) ([]Bridge, error) {
	if len(found) == 0 {
		return nil, cerrors.ErrBridgeNotFound
	}
	return found, nil
}

// parseDiscoveryResponse decodes a DiscoveryOperation reply whose
// searchGatewayResponse field (number 2 on the top-level operation, field
// 1=ip string/2=uuid bytes within it) is present. host falls back to the
// UDP source address's own IP if the payload's ipaddress field is empty.
func parseDiscoveryResponse(data []byte, sourceIP string) (Bridge, bool) {
	env, err := decodeDiscoveryOperation(data)
	if err != nil {
		return Bridge{}, false
	}
	host := env.ipAddress
	if host == "" {
		host = sourceIP
	}
	return Bridge{Host: host, UUID: env.uuid}, true
}

type discoveryResponse struct {
	ipAddress string
	uuid      protocol.Identity
}

// decodeDiscoveryOperation hand-decodes the DiscoveryOperation protobuf
// message: a single searchGatewayResponse field (number 2, a nested
// message carrying ipaddress(1)/uuid(2)).
func decodeDiscoveryOperation(buf []byte) (discoveryResponse, error) {
	fields, err := protocol.ParseRawFields(buf)
	if err != nil {
		return discoveryResponse{}, err
	}
	for _, f := range fields {
		if f.Num != 2 || f.Payload == nil {
			continue
		}
		inner, err := protocol.ParseRawFields(f.Payload)
		if err != nil {
			continue
		}
		var resp discoveryResponse
		for _, inf := range inner {
			switch inf.Num {
			case 1:
				resp.ipAddress = string(inf.Payload)
			case 2:
				copy(resp.uuid[:], inf.Payload)
			}
		}
		return resp, nil
	}
	return discoveryResponse{}, fmt.Errorf("discovery: no searchGatewayResponse field present")
}

// broadcastAddress returns the directed broadcast address of the first
// interface that is up, broadcast-capable, not loopback and has an IPv4
// address, falling back to the limited broadcast address 255.255.255.255
// when no such interface is found or the interfaces cannot be listed. The
// routing table is not consulted, so on a multi-homed host the chosen
// interface need not be the one carrying the default route.
func broadcastAddress(log logger.Logger) net.IP {
	ifaces, err := net.Interfaces()
	if err != nil {
		log.Debug("discovery: list interfaces: %v, falling back to limited broadcast", err)
		return net.IPv4bcast
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagBroadcast == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			ipNet, ok := a.(*net.IPNet)
			if !ok || ipNet.IP.To4() == nil {
				continue
			}
			bcast := make(net.IP, 4)
			ip4 := ipNet.IP.To4()
			mask := ipNet.Mask
			for i := range bcast {
				bcast[i] = ip4[i] | ^mask[i]
			}
			return bcast
		}
	}
	log.Debug("discovery: no usable broadcast interface found, falling back to limited broadcast")
	return net.IPv4bcast
}
