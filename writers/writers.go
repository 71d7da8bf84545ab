package writers

// Functions for writing fields into a fully loaded save file, in place.
// Writes are clipped to the buffer; the buffer is never grown.

import (
	"encoding/binary"

	"golang.org/x/text/encoding/charmap"
)

// Substitute is written for characters that have no Windows-1252 encoding.
const Substitute = '?'

// clip returns the part of [offset, offset+size) that is inside b.
func clip(b []byte, offset int, size int) []byte {
	if offset < 0 || size <= 0 || offset >= len(b) {
		return nil
	}
	end := offset + size
	if end > len(b) {
		end = len(b)
	}
	return b[offset:end]
}

// Uint16 writes a little-endian uint16 at offset.
func Uint16(b []byte, offset int, v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	copy(clip(b, offset, 2), tmp[:])
}

// Int32 writes a little-endian signed 32-bit integer at offset.
func Int32(b []byte, offset int, v int32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], uint32(v))
	copy(clip(b, offset, 4), tmp[:])
}

// Fill sets size bytes at offset to value.
func Fill(b []byte, offset int, size int, value byte) {
	region := clip(b, offset, size)
	for i := range region {
		region[i] = value
	}
}

// Encode converts a string to Windows-1252, one byte per character.
func Encode(str string) []byte {
	out := make([]byte, 0, len(str))
	for _, r := range str {
		c, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			c = Substitute
		}
		out = append(out, c)
	}
	return out
}

// StringPadded writes a variable-length string into a fixed-length field.
// Unneeded bytes are padded out with 0s.  A string that doesn't fit is cut off at length bytes, with no terminator,
// and nobody is told about it.
func StringPadded(b []byte, offset int, str string, length int) {
	field := clip(b, offset, length)
	encoded := Encode(str)
	n := copy(field, encoded)
	for i := n; i < len(field); i++ {
		field[i] = 0
	}
}
