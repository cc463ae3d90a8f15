// Package protocol implements the bridge's framed wire protocol: the
// length-prefixed envelope, the GatewayOperation command header, and the
// typed message bodies selected by its type registry.
//
// The header and bodies are protobuf-encoded on the wire, but there is no
// generated Go package for the schema. Rather than depend on a general
// protobuf runtime for a fixed, small field set, this package hand-rolls
// the wire format directly — varint tags/lengths, length-delimited bytes,
// fixed32/64 — the same way the teacher's ber package hand-rolls ASN.1
// BER tag/length/value encoding instead of reaching for an ASN.1 library.
package protocol

import (
	"encoding/binary"
	"fmt"
)

// wireType mirrors the protobuf wire types this package needs.
type wireType byte

const (
	wireVarint wireType = 0
	wireFixed64 wireType = 1
	wireBytes   wireType = 2
	wireFixed32 wireType = 5
)

// fieldWriter accumulates protobuf-encoded fields into buf.
type fieldWriter struct {
	buf []byte
}

func (w *fieldWriter) tag(fieldNum int, wt wireType) {
	w.varint(uint64(fieldNum)<<3 | uint64(wt))
}

func (w *fieldWriter) varint(v uint64) {
	for v >= 0x80 {
		w.buf = append(w.buf, byte(v)|0x80)
		v >>= 7
	}
	w.buf = append(w.buf, byte(v))
}

func (w *fieldWriter) varintField(fieldNum int, v uint64) {
	w.tag(fieldNum, wireVarint)
	w.varint(v)
}

func (w *fieldWriter) bytesField(fieldNum int, b []byte) {
	w.tag(fieldNum, wireBytes)
	w.varint(uint64(len(b)))
	w.buf = append(w.buf, b...)
}

func (w *fieldWriter) stringField(fieldNum int, s string) {
	w.bytesField(fieldNum, []byte(s))
}

func (w *fieldWriter) fixed32Field(fieldNum int, v uint32) {
	w.tag(fieldNum, wireFixed32)
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *fieldWriter) bytes() []byte { return w.buf }

// field is one decoded protobuf field: its number, wire type and raw
// payload (the varint value for wireVarint/wireFixed32/wireFixed64, or the
// length-delimited slice for wireBytes).
type field struct {
	num     int
	wt      wireType
	varint  uint64
	payload []byte
}

// RawField is the exported form of field, for packages outside protocol
// that need to pick apart a message this package has no concrete struct
// for (discovery's DiscoveryOperation, which is a UDP-only message distinct
// from the GatewayOperation family).
type RawField struct {
	Num     int
	Varint  uint64
	Payload []byte
}

// ParseRawFields decodes buf's top-level protobuf fields for a caller that
// has no concrete struct to decode into.
func ParseRawFields(buf []byte) ([]RawField, error) {
	fields, err := parseFields(buf)
	if err != nil {
		return nil, err
	}
	out := make([]RawField, len(fields))
	for i, f := range fields {
		out[i] = RawField{Num: f.num, Varint: f.varint, Payload: f.payload}
	}
	return out, nil
}

// parseFields decodes buf into its top-level protobuf fields. Unknown
// field numbers are kept, not discarded, so callers can ignore fields they
// don't model without losing round-trip fidelity.
func parseFields(buf []byte) ([]field, error) {
	var fields []field
	for len(buf) > 0 {
		tag, n := decodeVarint(buf)
		if n == 0 {
			return nil, fmt.Errorf("protocol: truncated field tag")
		}
		buf = buf[n:]
		fieldNum := int(tag >> 3)
		wt := wireType(tag & 0x7)

		switch wt {
		case wireVarint:
			v, n := decodeVarint(buf)
			if n == 0 {
				return nil, fmt.Errorf("protocol: truncated varint field %d", fieldNum)
			}
			fields = append(fields, field{num: fieldNum, wt: wt, varint: v})
			buf = buf[n:]
		case wireFixed32:
			if len(buf) < 4 {
				return nil, fmt.Errorf("protocol: truncated fixed32 field %d", fieldNum)
			}
			fields = append(fields, field{num: fieldNum, wt: wt, varint: uint64(binary.LittleEndian.Uint32(buf))})
			buf = buf[4:]
		case wireFixed64:
			if len(buf) < 8 {
				return nil, fmt.Errorf("protocol: truncated fixed64 field %d", fieldNum)
			}
			fields = append(fields, field{num: fieldNum, wt: wt, varint: binary.LittleEndian.Uint64(buf)})
			buf = buf[8:]
		case wireBytes:
			l, n := decodeVarint(buf)
			if n == 0 {
				return nil, fmt.Errorf("protocol: truncated length field %d", fieldNum)
			}
			buf = buf[n:]
			if uint64(len(buf)) < l {
				return nil, fmt.Errorf("protocol: truncated bytes field %d", fieldNum)
			}
			fields = append(fields, field{num: fieldNum, wt: wt, payload: buf[:l]})
			buf = buf[l:]
		default:
			return nil, fmt.Errorf("protocol: unsupported wire type %d on field %d", wt, fieldNum)
		}
	}
	return fields, nil
}

func decodeVarint(buf []byte) (uint64, int) {
	var v uint64
	var shift uint
	for i, b := range buf {
		if i >= 10 {
			return 0, 0
		}
		v |= uint64(b&0x7F) << shift
		if b&0x80 == 0 {
			return v, i + 1
		}
		shift += 7
	}
	return 0, 0
}
