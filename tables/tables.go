package tables

// Names for things, as shown to (and typed by) users.

import (
	"fmt"

	"nfsu2edit/types"
)

// MoneyNoChange is the money value that means "leave it alone", same as the original editor's form default.
const MoneyNoChange = -1

// PerfModes are the display names of the performance choices.
var PerfModes = map[types.PerfMode]string{
	types.PerfNone: types.PerfNone.String(),
	types.PerfZero: types.PerfZero.String(),
	types.PerfMax:  types.PerfMax.String(),
}

// PerfAliases are short names that are matched exactly (case-insensitively) before any fuzzy matching happens.
// 0/1/2 are the values the original editor's drop-down used.
var PerfAliases = map[string]types.PerfMode{
	"none": types.PerfNone,
	"keep": types.PerfNone,
	"2":    types.PerfNone,

	"zero": types.PerfZero,
	"nil":  types.PerfZero,
	"nill": types.PerfZero,
	"min":  types.PerfZero,
	"0":    types.PerfZero,

	"max": types.PerfMax,
	"1":   types.PerfMax,
}

// SlotName is the user-facing name of slot i.  Users count from 1.
func SlotName(i int) string {
	return fmt.Sprintf("Car %d", i+1)
}

// SlotNames maps slot index to SlotName for every slot in the layout.
func SlotNames(l types.Layout) map[int]string {
	out := map[int]string{}
	for i := range l.SlotCount {
		out[i] = SlotName(i)
	}
	return out
}
