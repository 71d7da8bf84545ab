package main

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"nfsu2edit/report"
	"nfsu2edit/savefile"
	"nfsu2edit/tables"
	"nfsu2edit/types"
)

var (
	ErrHeaderInvalid = errors.New("save file header is invalid (wrong magic or size check)")
	ErrNotGettable   = errors.New("not gettable")
	ErrNotSettable   = errors.New("not settable")
	ErrSlotInUse     = errors.New("car slot is in use")
	ErrSlotNotInUse  = errors.New("car slot is not in use")
	ErrSlotNotLocked = errors.New("car slot is not locked")
)

// editor applies user requests to a session.  It is the only thing that talks to the savefile package on the user's behalf,
// so it's where the "what is a user allowed to do" rules live; the savefile package itself refuses nothing.
type editor struct {
	session *Session
	force   bool // skip the safety rules (but never the savefile package)
	log     zerolog.Logger
}

// ettable is a thing that can be get-ted and maybe set-ted
type ettable struct {
	desc string
	get  func(e *editor, arg string) (string, error)
	set  func(e *editor, to string) (string, error) // nil means read-only
}

var ettables = map[string]*ettable{
	"name":  {"profile name", (*editor).get_name, (*editor).set_name},
	"money": {"cash", (*editor).get_money, (*editor).set_money},
	"slots": {"number of cars in use", (*editor).get_slots, nil},
	"car":   {"state of one car slot, e.g. \"get car 2\"", (*editor).get_car, nil},
	"perf":  {"performance of a car, e.g. \"set perf 1:max\"", (*editor).get_perf, (*editor).set_perf},
}

func list_ettables(settable bool) string {
	names := []string{}
	for k, g := range ettables {
		if !settable || g.set != nil {
			names = append(names, k)
		}
	}
	slices.Sort(names)
	out := ""
	for _, k := range names {
		out += fmt.Sprintf("   %-6v %v\n", k, ettables[k].desc)
	}
	return out
}

func lookup_ettable(what string, settable bool) (string, *ettable, error) {
	names := map[string]string{}
	for k, g := range ettables {
		if !settable || g.set != nil {
			names[k] = k
		}
	}
	key, _, err := fuzzy_reverse_lookup(names, what, "field")
	if err != nil {
		sentinel := ErrNotGettable
		if settable {
			sentinel = ErrNotSettable
		}
		return "", nil, fmt.Errorf("%w: %v. Options are:\n%v", sentinel, err, strings.TrimRight(list_ettables(settable), "\n"))
	}
	return key, ettables[key], nil
}

func (e *editor) img() *savefile.Image {
	return e.session.Image
}

// valid refuses to show or change anything in a file with a bad header.
func (e *editor) valid() error {
	if !e.img().Validate() {
		return fmt.Errorf("%w: %v", ErrHeaderInvalid, e.session.Filename)
	}
	return nil
}

func (e *editor) summary() report.Summary {
	return report.Build(e.img())
}

func (e *editor) get(what string, arg string) (string, error) {
	if err := e.valid(); err != nil {
		return "", err
	}
	_, g, err := lookup_ettable(what, false)
	if err != nil {
		return "", err
	}
	return g.get(e, arg)
}

func (e *editor) set(what string, to string) (string, error) {
	if err := e.valid(); err != nil {
		return "", err
	}
	_, g, err := lookup_ettable(what, true)
	if err != nil {
		return "", err
	}
	return g.set(e, to)
}

func (e *editor) get_name(string) (string, error) {
	return e.summary().DisplayName(), nil
}

// set_name leaves the name alone when given nothing, rather than clearing it.
func (e *editor) set_name(to string) (string, error) {
	to = strings.TrimSpace(to)
	if to == "" {
		return "Name not changed", nil
	}
	e.img().SetProfileName(to)

	got := e.img().ProfileName()
	if got != to {
		e.log.Warn().Str("wanted", to).Str("written", got).Msg("name shortened or re-encoded to fit")
	}
	return "Name set to " + got, nil
}

func (e *editor) get_money(string) (string, error) {
	return strconv.Itoa(int(e.img().Currency())), nil
}

// set_money only applies positive amounts, and MoneyNoChange means exactly that.  --force allows anything that fits in 32 bits.
func (e *editor) set_money(to string) (string, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(to), 10, 32)
	if err != nil {
		return "", fmt.Errorf("money must be a whole number between %v and %v: %w", int32(-1<<31), int32(1<<31-1), err)
	}
	if n == tables.MoneyNoChange && !e.force {
		return "Money not changed", nil
	}
	if n <= 0 && !e.force {
		return fmt.Sprintf("Money not changed (%v is not a positive amount; use --force to write it anyway)", n), nil
	}
	e.img().SetCurrency(int32(n))
	return fmt.Sprintf("Money set to %v", e.img().Currency()), nil
}

func (e *editor) get_slots(string) (string, error) {
	s := e.summary()
	out := fmt.Sprintf("%v in use", s.UsedSlots)
	for _, slot := range s.Slots {
		out += fmt.Sprintf("\n%v: %v", tables.SlotName(slot.Index), slot.Class)
	}
	return out, nil
}

// parse_slot turns "2", "car2", "Car 2" etc. into a slot index.
func (e *editor) parse_slot(arg string) (int, error) {
	l := e.img().Layout()
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return 0, fmt.Errorf("which car?  1 to %v", l.SlotCount)
	}
	num := strings.TrimSpace(strings.TrimPrefix(strings.ToLower(arg), "car"))
	if n, err := strconv.Atoi(num); err == nil {
		if n < 1 || n > l.SlotCount {
			return 0, fmt.Errorf("there is no car %v (cars are 1 to %v)", n, l.SlotCount)
		}
		return n - 1, nil
	}
	i, _, err := fuzzy_reverse_lookup(tables.SlotNames(l), arg, "car")
	return i, err
}

func (e *editor) get_car(arg string) (string, error) {
	i, err := e.parse_slot(arg)
	if err != nil {
		return "", err
	}
	slots := e.img().Slots()
	return fmt.Sprintf("%v: %v\nheader: % X", tables.SlotName(i), slots.Classify(i), slots.Header(i)), nil
}

func (e *editor) get_perf(arg string) (string, error) {
	i, err := e.parse_slot(arg)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%v performance: % X", tables.SlotName(i), e.img().Slots().Performance(i)), nil
}

// parse_mode does exact aliases ("max", "0") first, then fuzzy-matches the display names ("Nill out").
func parse_mode(arg string) (types.PerfMode, string, error) {
	if m, ok := tables.PerfAliases[strings.ToLower(strings.TrimSpace(arg))]; ok {
		return m, tables.PerfModes[m], nil
	}
	return fuzzy_reverse_lookup(tables.PerfModes, arg, "performance")
}

// set_perf expects "car:mode".  Only cars in use can be changed.
func (e *editor) set_perf(to string) (string, error) {
	car, mode_str, ok := strings.Cut(to, ":")
	if !ok {
		modes := slices.Sorted(maps.Values(tables.PerfModes))
		return "", fmt.Errorf("expected \"car:mode\", e.g. \"1:max\".  Modes are: %v", strings.Join(modes, ", "))
	}
	i, err := e.parse_slot(car)
	if err != nil {
		return "", err
	}
	mode, matched, err := parse_mode(mode_str)
	if err != nil {
		return "", err
	}

	slots := e.img().Slots()
	if slots.Classify(i) != types.SlotInUse && !e.force {
		return "", fmt.Errorf("%w: %v is %v", ErrSlotNotInUse, tables.SlotName(i), slots.Classify(i))
	}
	slots.SetPerformance(i, mode)
	return fmt.Sprintf("%v: %v", tables.SlotName(i), matched), nil
}

// unlock only unlocks slots that are locked and not in use, unless forced.
func (e *editor) unlock(arg string) (string, error) {
	if err := e.valid(); err != nil {
		return "", err
	}
	i, err := e.parse_slot(arg)
	if err != nil {
		return "", err
	}

	slots := e.img().Slots()
	class := slots.Classify(i)
	if !e.force {
		if class == types.SlotInUse {
			return "", fmt.Errorf("%w: %v", ErrSlotInUse, tables.SlotName(i))
		}
		if !slots.IsLocked(i) {
			return "", fmt.Errorf("%w: %v", ErrSlotNotLocked, tables.SlotName(i))
		}
	}
	if i == 0 {
		e.log.Warn().Msg("unlocking car 1 wipes everything in it except the header")
	}

	slots.Unlock(i)
	e.log.Debug().Int("slot", i).Stringer("was", class).Stringer("now", slots.Classify(i)).Msg("unlocked")
	return fmt.Sprintf("%v unlocked!  (now %v)", tables.SlotName(i), slots.Classify(i)), nil
}

func (e *editor) dump() ([]string, error) {
	lines := e.summary().Lines(e.img().Layout())
	if !e.img().Validate() {
		return lines, fmt.Errorf("%w: %v", ErrHeaderInvalid, e.session.Filename)
	}
	return lines, nil
}
