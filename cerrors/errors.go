// Package cerrors defines the typed error kinds gocomfoconnect raises: the
// nine protocol result codes plus the client-local failure conditions.
package cerrors

import (
	"errors"
	"fmt"

	"github.com/sfo2001/gocomfoconnect/protocol"
)

// Sentinel errors for client-local conditions. Use errors.Is to test for
// them; a protocol result code is reported instead as a *ProtocolError,
// which does not wrap any of these and is matched with errors.As.
var (
	// ErrNotConnected is raised when a request is issued against a closed
	// or never-opened session.
	ErrNotConnected = errors.New("comfoconnect: not connected")

	// ErrTimeout is raised when a request awaits longer than 5s or the
	// connect handshake exceeds 5s.
	ErrTimeout = errors.New("comfoconnect: timeout")

	// ErrBridgeNotFound is raised by the discovery wrapper when the probe
	// yields no bridges.
	ErrBridgeNotFound = errors.New("comfoconnect: bridge not found")

	// ErrSelfDeregistration is raised synchronously when the caller
	// attempts to deregister its own uuid.
	ErrSelfDeregistration = errors.New("comfoconnect: cannot deregister own uuid")

	// ErrInvalidValue is raised locally when a response byte does not map
	// to any enum member for its context.
	ErrInvalidValue = errors.New("comfoconnect: invalid value")

	// ErrDecode is raised internally on malformed frames; the read loop
	// logs and swallows it so the session survives one bad packet.
	ErrDecode = errors.New("comfoconnect: decode error")
)

// ProtocolError wraps one of the eight non-OK protocol result codes,
// carrying the originating GatewayOperation for diagnosis.
type ProtocolError struct {
	Code        protocol.ResultCode
	Description string
	Op          protocol.GatewayOperation
}

func (e *ProtocolError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("comfoconnect: %s: %s", e.Code, e.Description)
	}
	return fmt.Sprintf("comfoconnect: %s", e.Code)
}

// ForResult builds the typed error for a non-OK result code, or nil for
// ResultOK.
func ForResult(code protocol.ResultCode, description string, op protocol.GatewayOperation) error {
	if code == protocol.ResultOK {
		return nil
	}
	return &ProtocolError{Code: code, Description: description, Op: op}
}

// Invalid wraps ErrInvalidValue with context, e.g. the unmapped byte and
// the operation it was read for.
func Invalid(format string, v ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidValue, fmt.Sprintf(format, v...))
}

// Decode wraps ErrDecode with context.
func Decode(format string, v ...any) error {
	return fmt.Errorf("%w: %s", ErrDecode, fmt.Sprintf(format, v...))
}
