package readers

// Readers for fields at fixed offsets in a fully loaded save file.
//
// None of these fail.  A field that runs off the end of the buffer reads as
// its zero value, because a short file is a header problem and the header
// check is the place that reports it.

import (
	"bytes"
	"encoding/binary"

	"golang.org/x/text/encoding/charmap"
)

func in_range(b []byte, offset int, size int) bool {
	return offset >= 0 && size >= 0 && offset+size <= len(b)
}

// Uint16 reads a little-endian uint16 at offset.
func Uint16(b []byte, offset int) uint16 {
	if !in_range(b, offset, 2) {
		return 0
	}
	return binary.LittleEndian.Uint16(b[offset:])
}

// Int32 reads a little-endian signed 32-bit integer at offset.
func Int32(b []byte, offset int) int32 {
	if !in_range(b, offset, 4) {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(b[offset:]))
}

// Matches reports whether the bytes at offset are exactly want.
func Matches(b []byte, offset int, want []byte) bool {
	if !in_range(b, offset, len(want)) {
		return false
	}
	return bytes.Equal(b[offset:offset+len(want)], want)
}

// AllZero reports whether size bytes at offset are all 0.
// A region that is not entirely inside the buffer is not all zero.
func AllZero(b []byte, offset int, size int) bool {
	if !in_range(b, offset, size) {
		return false
	}
	for _, c := range b[offset : offset+size] {
		if c != 0 {
			return false
		}
	}
	return true
}

// CString reads a Windows-1252 string starting at offset and running up to the first NUL or the end of the buffer.
// Note that the end of the *buffer* is the limit, not the end of whatever fixed-length field the string sits in.
// Undecodable bytes come back as replacement characters; reading never fails.
func CString(b []byte, offset int) string {
	if offset < 0 || offset >= len(b) {
		return ""
	}
	raw := b[offset:]
	if end := bytes.IndexByte(raw, 0); end >= 0 {
		raw = raw[:end]
	}
	if len(raw) == 0 {
		return ""
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		// The 1252 decoder maps all 256 byte values, so this shouldn't happen.  Degrade byte-by-byte anyway.
		out := make([]rune, 0, len(raw))
		for _, c := range raw {
			out = append(out, charmap.Windows1252.DecodeByte(c))
		}
		return string(out)
	}
	return string(decoded)
}
