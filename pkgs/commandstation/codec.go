package commandstation

import (
	"encoding/binary"
	"strconv"
	"strings"
)

// putU16LE appends a little-endian uint16 to buf.
func putU16LE(buf []byte, v uint16) []byte {
	tmp := make([]byte, 2)
	binary.LittleEndian.PutUint16(tmp, v)
	return append(buf, tmp...)
}

// putU32LE appends a little-endian uint32 to buf.
func putU32LE(buf []byte, v uint32) []byte {
	tmp := make([]byte, 4)
	binary.LittleEndian.PutUint32(tmp, v)
	return append(buf, tmp...)
}

func u16LE(b []byte) uint16 { return binary.LittleEndian.Uint16(b) }
func u32LE(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }
func u16BE(b []byte) uint16 { return binary.BigEndian.Uint16(b) }

// xorSum returns the XOR of every byte in b, 0 for an empty slice.
func xorSum(b []byte) byte {
	var x byte
	for _, v := range b {
		x ^= v
	}
	return x
}

// decodeBCDVersion decodes data as a sequence of BCD-nibble bytes into a
// dotted version string, e.g. []byte{0x01, 0x33} -> "1.33".
//
// When littleEndian is true, data is walked from its last byte to its
// first (this is how the station's HWINFO firmware field is stored: the
// most-significant version component is the last byte on the wire). Zero
// bytes are dropped wherever they occur, not just as leading zeros of the
// whole sequence; this mirrors the original decode_bcd_version and means a
// version with an all-zero trailing component simply omits it.
func decodeBCDVersion(data []byte, littleEndian bool) string {
	n := len(data)
	fragments := make([]string, 0, n)
	for i := 0; i < n; i++ {
		var v byte
		if littleEndian {
			v = data[n-i-1]
		} else {
			v = data[i]
		}
		if v == 0 {
			continue
		}
		value := int(v&0x0f) + int(v>>4)*10
		fragments = append(fragments, strconv.Itoa(value))
	}
	return strings.Join(fragments, ".")
}
