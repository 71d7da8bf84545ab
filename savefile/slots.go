package savefile

import (
	"bytes"

	"nfsu2edit/readers"
	"nfsu2edit/types"
	"nfsu2edit/writers"
)

// Slots is a view of the vehicle slots of an Image.
// Every answer is worked out from the image's working buffer at the time of asking.
type Slots struct {
	img *Image
}

// Count is the number of slots in the layout, used or not.
func (s *Slots) Count() int {
	return s.img.layout.SlotCount
}

func (s *Slots) in_range(i int) bool {
	return i >= 0 && i < s.img.layout.SlotCount
}

// UsedCount counts slots whose first 2 bytes (as a little-endian uint16) are nonzero.
// Every slot is looked at, so the used slots need not be contiguous: with slot 0 zero and
// slot 3 nonzero the count is 1, and it's slot 0 that counts as in use (see Classify).
func (s *Slots) UsedCount() int {
	l := s.img.layout
	count := 0
	for i := range l.SlotCount {
		if readers.Uint16(s.img.working, l.SlotStart(i)) != 0 {
			count++
		}
	}
	return count
}

// IsLocked reports whether every byte of slot i's header is zero.
// It doesn't care whether the slot is in use.  Out-of-range slots are not locked.
func (s *Slots) IsLocked(i int) bool {
	if !s.in_range(i) {
		return false
	}
	return readers.AllZero(s.img.working, s.img.layout.SlotStart(i), s.img.layout.SlotHeaderLength)
}

// Classify decides what slot i is.  "In use" goes by index against UsedCount, not by the slot's own bytes.
// Out-of-range slots are SlotEmpty.
func (s *Slots) Classify(i int) types.SlotClass {
	if !s.in_range(i) {
		return types.SlotEmpty
	}
	if i < s.UsedCount() {
		return types.SlotInUse
	}
	if s.IsLocked(i) {
		return types.SlotLockedEmpty
	}
	return types.SlotEmpty
}

// Header returns a copy of slot i's header, or nil for an out-of-range slot.
func (s *Slots) Header(i int) []byte {
	if !s.in_range(i) {
		return nil
	}
	return s.region(s.img.layout.SlotStart(i), s.img.layout.SlotHeaderLength)
}

// Performance returns a copy of slot i's performance block, or nil for an out-of-range slot.
func (s *Slots) Performance(i int) []byte {
	if !s.in_range(i) {
		return nil
	}
	return s.region(s.img.layout.SlotStart(i)+s.img.layout.PerfOffset, s.img.layout.PerfLength)
}

func (s *Slots) region(offset int, size int) []byte {
	b := s.img.working
	if offset >= len(b) {
		return []byte{}
	}
	end := min(offset+size, len(b))
	return bytes.Clone(b[offset:end])
}

// SetPerformance overwrites every byte of slot i's performance block with the fill byte for mode.
// PerfMax writes MaxFill (1) everywhere, which may or may not be the best value for every stat in there.
// PerfNone and out-of-range slots leave the buffer alone.
func (s *Slots) SetPerformance(i int, mode types.PerfMode) {
	if !s.in_range(i) {
		return
	}
	l := s.img.layout
	fill := byte(0)
	switch mode {
	case types.PerfZero:
		fill = l.ZeroFill
	case types.PerfMax:
		fill = l.MaxFill
	default:
		return
	}
	writers.Fill(s.img.working, l.SlotStart(i)+l.PerfOffset, l.PerfLength, fill)
}

// Unlock copies slot 0's header over slot i's header, then zeroes the rest of slot i.
// Slot 0 is the only template there is.  Unlocking slot 0 itself is allowed and wipes everything after its header.
// Whether the slot then counts as used depends entirely on slot 0's first 2 bytes.
func (s *Slots) Unlock(i int) {
	if !s.in_range(i) {
		return
	}
	l := s.img.layout
	template := make([]byte, l.SlotHeaderLength)
	copy(template, s.img.working[min(l.SlotStart(0), len(s.img.working)):])

	target := l.SlotStart(i)
	region := s.img.working[min(target, len(s.img.working)):]
	copy(region[:min(len(region), l.SlotHeaderLength)], template)
	writers.Fill(s.img.working, target+l.SlotHeaderLength, l.SlotStride-l.SlotHeaderLength, 0)
}
