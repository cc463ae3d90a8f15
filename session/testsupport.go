package session

import (
	"net"

	"github.com/sfo2001/gocomfoconnect/logger"
	"github.com/sfo2001/gocomfoconnect/protocol"
)

// NewForTest wires a Session to one end of an in-memory net.Pipe and starts
// its read loop, without dialing a real socket or running start_session.
// It exists for other packages' tests (the root client's tests, which
// bypass the supervisor) that need a live Session to drive without a
// bridge.
func NewForTest(localUUID, bridgeUUID protocol.Identity) (*Session, net.Conn) {
	client, server := net.Pipe()
	s := &Session{
		conn:       client,
		localUUID:  localUUID,
		bridgeUUID: bridgeUUID,
		logger:     logger.Nop(),
		reference:  1,
		bus:        newEventBus(),
		done:       make(chan struct{}),
	}
	go s.readLoop()
	return s, server
}
