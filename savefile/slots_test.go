package savefile

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nfsu2edit/types"
)

var lay = types.NFSU2

// scribble fills a whole slot with a recognisable, nonzero pattern
func scribble(raw []byte, slot int, seed byte) {
	start := lay.SlotStart(slot)
	for i := range lay.SlotStride {
		raw[start+i] = seed + byte(i%7) + 1
	}
}

func TestUsedCount_NonContiguous(t *testing.T) {
	raw := Blank(test_length, lay)
	raw[lay.SlotStart(3)] = 0x01
	img := Load(raw)
	s := img.Slots()

	assert.Equal(t, 1, s.UsedCount())
	assert.Equal(t, types.SlotInUse, s.Classify(0), "in use goes by index, not by the slot's own bytes")
	assert.NotEqual(t, types.SlotInUse, s.Classify(3))
	assert.Equal(t, types.SlotEmpty, s.Classify(3), "slot 3 has a nonzero header so it isn't locked")
	assert.Equal(t, types.SlotLockedEmpty, s.Classify(1))
}

func TestUsedCount_OnlyFirstTwoBytes(t *testing.T) {
	raw := Blank(test_length, lay)
	// bytes 2..15 of each header don't count
	for i := range lay.SlotCount {
		raw[lay.SlotStart(i)+2] = 0xFF
	}
	assert.Equal(t, 0, Load(raw).Slots().UsedCount())

	// high byte of the uint16 does
	raw[lay.SlotStart(4)+1] = 0x01
	raw[lay.SlotStart(2)] = 0x01
	assert.Equal(t, 2, Load(raw).Slots().UsedCount())
}

func TestIsLocked_EachHeaderByte(t *testing.T) {
	for slot := range lay.SlotCount {
		raw := Blank(test_length, lay)
		require.True(t, Load(raw).Slots().IsLocked(slot))

		for b := range lay.SlotHeaderLength {
			raw := Blank(test_length, lay)
			raw[lay.SlotStart(slot)+b] = 0x80
			assert.False(t, Load(raw).Slots().IsLocked(slot), "slot %v byte %v", slot, b)
		}

		// Byte 16 is not part of the header
		raw[lay.SlotStart(slot)+lay.SlotHeaderLength] = 0x80
		assert.True(t, Load(raw).Slots().IsLocked(slot))
	}
}

func TestOutOfRangeSlots(t *testing.T) {
	raw := Blank(test_length, lay)
	scribble(raw, 0, 0x10)
	img := Load(raw)
	s := img.Slots()

	for _, i := range []int{-1, 5, 7, 100} {
		assert.False(t, s.IsLocked(i))
		assert.Equal(t, types.SlotEmpty, s.Classify(i))
		assert.Nil(t, s.Header(i))
		assert.Nil(t, s.Performance(i))
		s.SetPerformance(i, types.PerfMax)
		s.SetPerformance(i, types.PerfZero)
		s.Unlock(i)
	}
	assert.Equal(t, raw, img.Snapshot(), "out-of-range slot operations must not touch the buffer")
}

func TestSetPerformance(t *testing.T) {
	raw := Blank(test_length, lay)
	for i := range lay.SlotCount {
		scribble(raw, i, byte(i*16))
	}

	for slot := range lay.SlotCount {
		img := Load(raw)
		s := img.Slots()
		perf_start := lay.SlotStart(slot) + lay.PerfOffset

		s.SetPerformance(slot, types.PerfNone)
		assert.Equal(t, raw, img.Snapshot(), "PerfNone writes nothing")

		s.SetPerformance(slot, types.PerfMax)
		assert.Equal(t, bytes.Repeat([]byte{1}, 0x44), s.Performance(slot))

		s.SetPerformance(slot, types.PerfZero)
		assert.Equal(t, make([]byte, 0x44), s.Performance(slot))

		// Only the block changed
		want := bytes.Clone(raw)
		copy(want[perf_start:perf_start+0x44], make([]byte, 0x44))
		if diff := cmp.Diff(want, img.Snapshot()); diff != "" {
			t.Errorf("slot %v: unexpected change outside the performance block (-want +got):\n%s", slot, diff)
		}
	}
}

func TestUnlock(t *testing.T) {
	raw := Blank(test_length, lay)
	for i := range lay.SlotCount {
		scribble(raw, i, byte(i*16))
	}
	// Locked slot 2 (header zero, body junk)
	copy(raw[lay.SlotStart(2):], make([]byte, lay.SlotHeaderLength))

	for k := 1; k < lay.SlotCount; k++ {
		img := Load(raw)
		s := img.Slots()
		template := s.Header(0)

		s.Unlock(k)

		got := img.Snapshot()
		start := lay.SlotStart(k)
		assert.Equal(t, template, got[start:start+16], "slot %v header", k)
		assert.Equal(t, make([]byte, lay.SlotStride-16), got[start+16:start+lay.SlotStride], "slot %v body", k)

		// Everything else is as it was
		want := bytes.Clone(raw)
		copy(want[start:lay.SlotEnd(k)], got[start:lay.SlotEnd(k)])
		assert.Equal(t, want, got, "unlock of slot %v leaked outside the slot", k)
	}
}

func TestUnlock_SlotZeroWipesItsBody(t *testing.T) {
	raw := Blank(test_length, lay)
	scribble(raw, 0, 0x20)
	img := Load(raw)
	s := img.Slots()
	header := s.Header(0)

	s.Unlock(0)

	got := img.Snapshot()
	start := lay.SlotStart(0)
	assert.Equal(t, header, got[start:start+16])
	assert.Equal(t, make([]byte, lay.SlotStride-16), got[start+16:lay.SlotEnd(0)])
}

func TestUnlock_FollowsSlotZero(t *testing.T) {
	// Slot 0 header nonzero in the first two bytes: unlocked slots count
	raw := Blank(test_length, lay)
	raw[lay.SlotStart(0)] = 0x07
	img := Load(raw)
	s := img.Slots()
	require.Equal(t, 1, s.UsedCount())
	require.Equal(t, types.SlotLockedEmpty, s.Classify(1))

	s.Unlock(1)
	assert.Equal(t, 2, s.UsedCount())
	assert.Equal(t, types.SlotInUse, s.Classify(1))

	// Slot 0 header zero in the first two bytes: the unlocked slot is merely empty
	raw = Blank(test_length, lay)
	raw[lay.SlotStart(0)+5] = 0x07
	img = Load(raw)
	s = img.Slots()
	s.Unlock(3)
	assert.Equal(t, 0, s.UsedCount())
	assert.Equal(t, types.SlotEmpty, s.Classify(3))
}

func TestEndToEnd(t *testing.T) {
	raw := Blank(test_length, lay)
	copy(raw[lay.MoneyOffset:], []byte{0x88, 0x13, 0, 0}) // 5000
	copy(raw[lay.NameOffset:], "PLAYER")
	copy(raw[lay.SlotStart(0):], []byte{0x01, 0x00, 0xAB, 0xCD})

	img := Load(raw)
	require.True(t, img.Validate())
	assert.Equal(t, "PLAYER", img.ProfileName())
	assert.Equal(t, int32(5000), img.Currency())

	s := img.Slots()
	assert.Equal(t, 1, s.UsedCount())
	assert.Equal(t, types.SlotInUse, s.Classify(0))
	for i := 1; i < 5; i++ {
		assert.Equal(t, types.SlotLockedEmpty, s.Classify(i), "slot %v", i)
	}

	img.SetCurrency(99999)
	assert.Equal(t, int32(99999), img.Currency())

	slot0 := s.Header(0)
	s.Unlock(2)
	got := img.Snapshot()
	start := lay.SlotStart(2)
	assert.Equal(t, slot0, got[start:start+16])
	assert.Equal(t, make([]byte, lay.SlotStride-16), got[start+16:start+lay.SlotStride])

	assert.Equal(t, raw, img.Original())
	assert.True(t, img.Validate(), "edits don't touch the header")
}
