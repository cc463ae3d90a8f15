// Package util collects small byte/bit helpers shared by the rmi and
// sensors packages: bitmap expansion, the PDO<->CAN id transform, and the
// packed firmware version format the bridge reports.
package util

import "fmt"

// BytesToBits expands b into a slice of bit values, LSB of b[0] first,
// matching the original bytearray_to_bits helper used to decode alarm and
// airflow-constraint bitmaps.
func BytesToBits(b []byte) []int {
	bits := make([]int, 0, len(b)*8)
	for _, byt := range b {
		for i := 0; i < 8; i++ {
			bits = append(bits, int((byt>>uint(i))&1))
		}
	}
	return bits
}

// UintToBits expands the low n bits of v, LSB first.
func UintToBits(v uint64, n int) []int {
	bits := make([]int, n)
	for i := 0; i < n; i++ {
		bits[i] = int((v >> uint(i)) & 1)
	}
	return bits
}

// CANIDOffset is added to the node id to form the low bits of the 29-bit
// CAN arbitration id the bridge uses internally for CnRpdoNotification
// routing.
const CANIDOffset = 0x40

// PDOShift is the bit position of the PDO id inside a CAN id: the low
// PDOShift bits hold the offset node id, the PDO id sits above them.
const PDOShift = 14

// PDOToCAN packs (pdid, nodeID) into the CAN id the bridge expects on the
// wire for an RPDO subscription request.
func PDOToCAN(pdid, nodeID uint32) uint32 {
	return (pdid << PDOShift) | (nodeID + CANIDOffset)
}

// CANToPDO unpacks a CAN id back into (pdid, nodeID).
func CANToPDO(canID uint32) (pdid, nodeID uint32) {
	nodeID = (canID & (1<<PDOShift - 1)) - CANIDOffset
	pdid = canID >> PDOShift
	return
}

// DecodeVersion unpacks a 32-bit packed firmware version into a string of
// the form "<U|D|P|R><major>.<minor>.<patch>", e.g. "R1.2.15". Bits
// 30-31 select the release kind, 20-29 the major version, 10-19 the minor
// version and 0-9 the patch.
func DecodeVersion(packed uint32) string {
	kinds := []byte{'U', 'D', 'P', 'R'}
	kind := kinds[(packed>>30)&0x3]
	major := (packed >> 20) & 0x3FF
	minor := (packed >> 10) & 0x3FF
	patch := packed & 0x3FF
	return fmt.Sprintf("%c%d.%d.%d", kind, major, minor, patch)
}

// EncodePDOValue encodes v as a little-endian payload of the given byte
// width, for use in PDO/property SET requests where the wire width is
// fixed by the property's PdoType rather than inferred from v's Go type.
func EncodePDOValue(v int64, width int) []byte {
	out := make([]byte, width)
	u := uint64(v)
	for i := 0; i < width; i++ {
		out[i] = byte(u >> uint(8*i))
	}
	return out
}

// DecodeSignedLE decodes a little-endian two's-complement integer of
// arbitrary width (1, 2, 4 or 8 bytes), as used for signed sensor and
// property values (PdoType I8/I16/I64).
func DecodeSignedLE(b []byte) int64 {
	var u uint64
	for i := len(b) - 1; i >= 0; i-- {
		u = (u << 8) | uint64(b[i])
	}
	bits := uint(len(b) * 8)
	if bits < 64 && u&(1<<(bits-1)) != 0 {
		u |= ^uint64(0) << bits
	}
	return int64(u)
}

// DecodeUnsignedLE decodes a little-endian unsigned integer of arbitrary
// width (1, 2 or 4 bytes), as used for PdoType U8/U16/U32.
func DecodeUnsignedLE(b []byte) uint64 {
	var u uint64
	for i := len(b) - 1; i >= 0; i-- {
		u = (u << 8) | uint64(b[i])
	}
	return u
}
