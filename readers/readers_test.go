package readers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInts(t *testing.T) {
	b := []byte{0x34, 0x12, 0xFF, 0xFF, 0xFF, 0xFF}
	assert.Equal(t, uint16(0x1234), Uint16(b, 0))
	assert.Equal(t, int32(-1), Int32(b, 2))
	assert.Equal(t, int32(-0xCC), Int32([]byte{0x34, 0xFF, 0xFF, 0xFF}, 0))

	// Off the end reads as zero
	assert.Equal(t, uint16(0), Uint16(b, 5))
	assert.Equal(t, int32(0), Int32(b, 3))
	assert.Equal(t, uint16(0), Uint16(b, -1))
}

func TestMatches(t *testing.T) {
	b := []byte("20CM and more")
	assert.True(t, Matches(b, 0, []byte("20CM")))
	assert.False(t, Matches(b, 1, []byte("20CM")))
	assert.False(t, Matches(b[:3], 0, []byte("20CM")))
}

func TestAllZero(t *testing.T) {
	b := make([]byte, 20)
	assert.True(t, AllZero(b, 0, 16))
	assert.True(t, AllZero(b, 4, 16))
	assert.False(t, AllZero(b, 5, 16), "runs off the end")
	b[15] = 1
	assert.False(t, AllZero(b, 0, 16))
	assert.True(t, AllZero(b, 16, 4))
}

func TestCString(t *testing.T) {
	assert.Equal(t, "abc", CString([]byte("xxabc\x00def"), 2))
	assert.Equal(t, "def", CString([]byte("abc\x00def"), 4), "no NUL: read to the end of the buffer")
	assert.Equal(t, "", CString([]byte("abc\x00"), 3))
	assert.Equal(t, "", CString([]byte("abc"), 3))
	assert.Equal(t, "", CString([]byte("abc"), -2))
	assert.Equal(t, "café €5", CString([]byte{'c', 'a', 'f', 0xE9, ' ', 0x80, '5'}, 0))
}
