// Package savefile models an NFSU2 profile save as two in-memory buffers:
// the file as it was loaded, which is never touched, and a working copy that
// every mutation goes to.
//
// Nothing in here does I/O, and nothing in here returns an error.  A bad header
// is a status (Validate), a bad slot index is a no-op, and a name that is too long
// is cut short.  It's up to the caller to not show a broken file's fields to anyone.
package savefile

import (
	"bytes"
	"encoding/gob"

	"nfsu2edit/readers"
	"nfsu2edit/types"
	"nfsu2edit/writers"
)

// Image is one loaded save file.
// An Image belongs to a single editing session; it has no locking.
type Image struct {
	layout   types.Layout
	length   int // length of the file at load time
	original []byte
	working  []byte
}

// Load wraps raw file bytes using the NFSU2 layout.  See New.
func Load(raw []byte) *Image {
	return New(raw, types.NFSU2)
}

// New wraps raw file bytes.
// raw is copied twice, so the caller keeps ownership of it and the two buffers never alias.
// Nothing is validated here; call Validate.
func New(raw []byte, layout types.Layout) *Image {
	return &Image{
		layout:   layout,
		length:   len(raw),
		original: bytes.Clone(nonNil(raw)),
		working:  bytes.Clone(nonNil(raw)),
	}
}

func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}

// Blank makes a zero-filled file of the given length with a correct header, which is mostly useful for tests.
func Blank(length int, layout types.Layout) []byte {
	b := make([]byte, length)
	copy(b, layout.Magic[:])
	writers.Uint16(b, layout.SizeCheckOffset, uint16(length&0xFFFF))
	return b
}

func (img *Image) Layout() types.Layout {
	return img.layout
}

// Len is the file length recorded at load time.
func (img *Image) Len() int {
	return img.length
}

// Validate checks the magic and the size check (low 16 bits of the file length).
func (img *Image) Validate() bool {
	if !readers.Matches(img.working, 0, img.layout.Magic[:]) {
		return false
	}
	if len(img.working) < img.layout.SizeCheckOffset+2 {
		return false
	}
	return int(readers.Uint16(img.working, img.layout.SizeCheckOffset)) == img.length&0xFFFF
}

// ProfileName decodes the profile name.  An empty string means the first byte is a NUL.
func (img *Image) ProfileName() string {
	return readers.CString(img.working, img.layout.NameOffset)
}

// SetProfileName writes name into the name field, truncating silently at the field width.
func (img *Image) SetProfileName(name string) {
	img.SetProfileNameN(name, img.layout.NameLength)
}

// SetProfileNameN writes up to maxLen bytes of name and zero-fills whatever is left of maxLen.
// An empty name is written as given (i.e. the name is cleared); skipping that is the caller's business.
func (img *Image) SetProfileNameN(name string, maxLen int) {
	writers.StringPadded(img.working, img.layout.NameOffset, name, maxLen)
}

func (img *Image) Currency() int32 {
	return readers.Int32(img.working, img.layout.MoneyOffset)
}

// SetCurrency writes v as given.  Zero and negative amounts are not refused.
func (img *Image) SetCurrency(v int32) {
	writers.Int32(img.working, img.layout.MoneyOffset, v)
}

// Snapshot returns a copy of the working buffer, for saving.
func (img *Image) Snapshot() []byte {
	return bytes.Clone(img.working)
}

// Original returns a copy of the file as loaded, for backups.
func (img *Image) Original() []byte {
	return bytes.Clone(img.original)
}

// Modified reports whether the working copy differs from the original.
func (img *Image) Modified() bool {
	return !bytes.Equal(img.original, img.working)
}

// Slots returns a view of the vehicle slots in the working buffer.
// The view holds no state of its own, so it never goes stale.
func (img *Image) Slots() *Slots {
	return &Slots{img: img}
}

// gob can't see unexported fields, hence the shadow struct.
type stashed struct {
	Layout   types.Layout
	Length   int
	Original []byte
	Working  []byte
}

func (img *Image) GobEncode() ([]byte, error) {
	buf := bytes.Buffer{}
	err := gob.NewEncoder(&buf).Encode(stashed{img.layout, img.length, img.original, img.working})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (img *Image) GobDecode(data []byte) error {
	s := stashed{}
	err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s)
	if err != nil {
		return err
	}
	img.layout = s.Layout
	img.length = s.Length
	img.original = nonNil(s.Original)
	img.working = nonNil(s.Working)
	return nil
}
