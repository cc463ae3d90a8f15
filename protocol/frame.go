package protocol

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// Identity is the 16-byte src/dst address every framed message carries —
// the local application's uuid or the bridge's own uuid.
type Identity = uuid.UUID

// Envelope is one framed wire message: addressing plus an encoded
// GatewayOperation header and its (already-encoded) body.
type Envelope struct {
	Src     Identity
	Dst     Identity
	Cmd     []byte // encoded GatewayOperation
	Body    []byte // encoded body message, may be empty
}

// headerFixedLen is the byte count of everything in a frame besides the
// variable-length cmd and body: 16 (src) + 16 (dst) + 2 (cmd_len).
const headerFixedLen = 16 + 16 + 2

// Encode renders e as msg_len(4,BE) + src(16) + dst(16) + cmd_len(2,BE) +
// cmd + body, where msg_len counts everything after itself.
func (e Envelope) Encode() []byte {
	msgLen := headerFixedLen + len(e.Cmd) + len(e.Body)
	buf := make([]byte, 4+msgLen)
	binary.BigEndian.PutUint32(buf[0:4], uint32(msgLen))
	copy(buf[4:20], e.Src[:])
	copy(buf[20:36], e.Dst[:])
	binary.BigEndian.PutUint16(buf[36:38], uint16(len(e.Cmd)))
	copy(buf[38:38+len(e.Cmd)], e.Cmd)
	copy(buf[38+len(e.Cmd):], e.Body)
	return buf
}

// ReadEnvelope reads one complete framed message from r: a 4-byte
// big-endian length prefix followed by exactly that many bytes.
func ReadEnvelope(r io.Reader) (Envelope, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return Envelope{}, fmt.Errorf("protocol: read length prefix: %w", err)
	}
	msgLen := binary.BigEndian.Uint32(lenBuf[:])
	if msgLen < headerFixedLen {
		return Envelope{}, fmt.Errorf("protocol: message length %d shorter than fixed header", msgLen)
	}
	body := make([]byte, msgLen)
	if _, err := io.ReadFull(r, body); err != nil {
		return Envelope{}, fmt.Errorf("protocol: read message body: %w", err)
	}
	return decodeEnvelopeBody(body)
}

func decodeEnvelopeBody(buf []byte) (Envelope, error) {
	if len(buf) < headerFixedLen {
		return Envelope{}, fmt.Errorf("protocol: truncated frame")
	}
	var e Envelope
	copy(e.Src[:], buf[0:16])
	copy(e.Dst[:], buf[16:32])
	cmdLen := binary.BigEndian.Uint16(buf[32:34])
	rest := buf[34:]
	if int(cmdLen) > len(rest) {
		return Envelope{}, fmt.Errorf("protocol: cmd_len %d exceeds remaining frame", cmdLen)
	}
	e.Cmd = rest[:cmdLen]
	e.Body = rest[cmdLen:]
	return e, nil
}

// DecodeEnvelope parses a complete frame (including its 4-byte length
// prefix) out of an in-memory buffer.
func DecodeEnvelope(buf []byte) (Envelope, error) {
	if len(buf) < 4 {
		return Envelope{}, fmt.Errorf("protocol: frame shorter than length prefix")
	}
	msgLen := binary.BigEndian.Uint32(buf[0:4])
	if int(msgLen) != len(buf)-4 {
		return Envelope{}, fmt.Errorf("protocol: declared length %d does not match buffer", msgLen)
	}
	return decodeEnvelopeBody(buf[4:])
}
