// Package report turns a loaded save into something a person can read.
package report

import (
	"fmt"
	"slices"

	"nfsu2edit/savefile"
	"nfsu2edit/tables"
	"nfsu2edit/types"
)

// EmptyName is shown in place of a profile name whose first byte is NUL.
const EmptyName = "(empty)"

type Slot struct {
	Index  int
	Class  types.SlotClass
	Locked bool
}

// Summary is everything the editor shows about a file.
// For an invalid file only Valid and Length are filled in.
type Summary struct {
	Valid     bool
	Length    int
	Name      string
	Currency  int32
	UsedSlots int
	Slots     []Slot
}

func Build(img *savefile.Image) Summary {
	out := Summary{Valid: img.Validate(), Length: img.Len()}
	if !out.Valid {
		return out
	}

	out.Name = img.ProfileName()
	out.Currency = img.Currency()

	slots := img.Slots()
	out.UsedSlots = slots.UsedCount()
	for i := range slots.Count() {
		out.Slots = append(out.Slots, Slot{i, slots.Classify(i), slots.IsLocked(i)})
	}
	return out
}

// DisplayName is the profile name, or EmptyName.
func (s Summary) DisplayName() string {
	if s.Name == "" {
		return EmptyName
	}
	return s.Name
}

func (s Summary) Header() string {
	if s.Valid {
		return "OK"
	}
	return "Invalid"
}

// OneLine is used by the watcher.
func (s Summary) OneLine() string {
	if !s.Valid {
		return fmt.Sprintf("header %v (%v bytes)", s.Header(), s.Length)
	}
	return fmt.Sprintf("%v: $%v, %v/%v cars", s.DisplayName(), s.Currency, s.UsedSlots, len(s.Slots))
}

// Lines is the full dump, with offsets (in hex, the way every hex editor shows them).
func (s Summary) Lines(l types.Layout) []string {
	out := []string{
		fmt.Sprintf("File size: %v bytes", s.Length),
		fmt.Sprintf("0x0-0x%X: Header %v", l.SizeCheckOffset+1, s.Header()),
	}
	if !s.Valid {
		return out
	}

	out = append(out, fmt.Sprintf("0x%X-0x%X: Profile: %v", l.NameOffset, l.NameOffset+l.NameLength-1, s.DisplayName()))
	out = append(out, fmt.Sprintf("0x%X-0x%X: Money: %v", l.MoneyOffset, l.MoneyOffset+3, s.Currency))
	out = append(out, fmt.Sprintf("Cars in use: %v", s.UsedSlots))
	for _, slot := range s.Slots {
		out = append(out, fmt.Sprintf("   0x%X-0x%X: %v: %v", l.SlotStart(slot.Index), l.SlotEnd(slot.Index)-1, tables.SlotName(slot.Index), slot.Class))
	}
	return out
}

// Equal reports whether two summaries would print the same.
func (s Summary) Equal(o Summary) bool {
	return s.Valid == o.Valid && s.Length == o.Length && s.Name == o.Name && s.Currency == o.Currency &&
		s.UsedSlots == o.UsedSlots && slices.Equal(s.Slots, o.Slots)
}
