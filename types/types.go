package types

import "fmt"

// Layout describes where everything lives in a save file.
// All multi-byte integers in the file are little-endian.
type Layout struct {
	Magic [4]byte

	SizeCheckOffset int // uint16, low 16 bits of the file length
	MoneyOffset     int // int32
	NameOffset      int
	NameLength      int

	SlotBase   int
	SlotStride int
	SlotCount  int

	// Offsets below are relative to the start of a slot.
	SlotHeaderLength int
	PerfOffset       int
	PerfLength       int

	// Fill bytes for the performance block.
	// MaxFill is a single byte value written over every stat, not a per-stat maximum.
	ZeroFill byte
	MaxFill  byte
}

// NFSU2 is the layout of a Need for Speed Underground 2 profile save.
var NFSU2 = Layout{
	Magic: [4]byte{0x32, 0x30, 0x43, 0x4D},

	SizeCheckOffset: 0x4,
	MoneyOffset:     0xA16A,
	NameOffset:      0xD225,
	NameLength:      32,

	SlotBase:   0x5AEC,
	SlotStride: 0x7F2,
	SlotCount:  5,

	SlotHeaderLength: 16,
	PerfOffset:       0x94,
	PerfLength:       0x44,

	ZeroFill: 0,
	MaxFill:  1,
}

// SlotStart returns the offset of the first byte of slot i.
// No range check: callers decide what an out-of-range slot means.
func (l Layout) SlotStart(i int) int {
	return l.SlotBase + i*l.SlotStride
}

// SlotEnd returns the offset one past the last byte of slot i.
func (l Layout) SlotEnd(i int) int {
	return l.SlotStart(i + 1)
}

// MinLength is the smallest file that contains every known field.
func (l Layout) MinLength() int {
	end := l.NameOffset + l.NameLength
	for _, e := range []int{l.MoneyOffset + 4, l.SlotEnd(l.SlotCount - 1), l.SizeCheckOffset + 2} {
		if e > end {
			end = e
		}
	}
	return end
}

// Check catches layouts that can't possibly describe a file, which mostly means bad ini overrides.
func (l Layout) Check() error {
	switch {
	case l.SlotCount <= 0:
		return fmt.Errorf("slot count must be positive (got %v)", l.SlotCount)
	case l.SlotHeaderLength < 2:
		// UsedCount looks at the first 2 bytes of each header
		return fmt.Errorf("slot header must be at least 2 bytes (got %v)", l.SlotHeaderLength)
	case l.SlotHeaderLength > l.SlotStride:
		return fmt.Errorf("slot header (%v bytes) does not fit in a slot (%v bytes)", l.SlotHeaderLength, l.SlotStride)
	case l.PerfOffset < 0 || l.PerfLength < 0 || l.PerfOffset+l.PerfLength > l.SlotStride:
		return fmt.Errorf("performance block x%x+x%x does not fit in a slot (%v bytes)", l.PerfOffset, l.PerfLength, l.SlotStride)
	case l.NameLength <= 0:
		return fmt.Errorf("name length must be positive (got %v)", l.NameLength)
	case l.SizeCheckOffset < 0 || l.MoneyOffset < 0 || l.NameOffset < 0 || l.SlotBase < 0:
		return fmt.Errorf("negative offset in layout")
	}
	return nil
}

// PerfMode is what to do with a slot's performance block.
type PerfMode int

const (
	PerfNone PerfMode = iota
	PerfZero
	PerfMax
)

func (m PerfMode) String() string {
	switch m {
	case PerfNone:
		return "No effect"
	case PerfZero:
		return "Nill out"
	case PerfMax:
		return "Max out"
	}
	return fmt.Sprintf("PerfMode(%d)", int(m))
}

// SlotClass is derived from the buffer every time it is asked for; nothing stores it.
type SlotClass int

const (
	SlotEmpty SlotClass = iota
	SlotLockedEmpty
	SlotInUse
)

func (c SlotClass) String() string {
	switch c {
	case SlotEmpty:
		return "empty"
	case SlotLockedEmpty:
		return "locked/empty"
	case SlotInUse:
		return "IN USE"
	}
	return fmt.Sprintf("SlotClass(%d)", int(c))
}
