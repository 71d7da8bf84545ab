package utils

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"

	"nfsu2edit/types"
)

// ConfigFile is looked for in the working directory unless --config says otherwise.
const ConfigFile = "nfsu2edit.ini"

type Config struct {
	Dir      string // where save files live
	Backup   bool   // write <file>.bak from the original bytes before saving
	LogLevel string
	Stash    string // session data between commands

	WatchSuffix string // only watch files ending in this; empty means all files

	Layout types.Layout
}

func DefaultConfig() Config {
	wd, _ := os.Getwd()
	return Config{
		Dir:      wd,
		Backup:   true,
		LogLevel: "warn",
		Stash:    "nfsu2edit.tmp",
		Layout:   types.NFSU2,
	}
}

// LoadConfig reads an ini file over the defaults.  A missing file is not an error; a broken one is.
//
// Example:
//
//	dir = C:\Users\me\Documents\NFS Underground 2
//	backup = true
//	log_level = debug
//
//	[layout]
//	money_offset = 0xA16A
//
//	[watch]
//	suffix =
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	file, err := ini.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("reading %v: %w", path, err)
	}

	// Classic read of values, default section can be represented as empty string
	sec := file.Section("")
	if dir := sec.Key("dir").String(); dir != "" {
		cfg.Dir = dir
	}
	if sec.HasKey("backup") {
		b, err := sec.Key("backup").Bool()
		if err != nil {
			return cfg, fmt.Errorf("%v: backup: %w", path, err)
		}
		cfg.Backup = b
	}
	cfg.LogLevel = sec.Key("log_level").MustString(cfg.LogLevel)
	cfg.Stash = sec.Key("stash").MustString(cfg.Stash)

	cfg.WatchSuffix = file.Section("watch").Key("suffix").String()

	cfg.Layout, err = layout_overrides(file.Section("layout"), cfg.Layout)
	if err != nil {
		return cfg, fmt.Errorf("%v: %w", path, err)
	}

	return cfg, nil
}

// layout_overrides applies the [layout] section to a base layout.
// Numbers may be written in any base Go understands (0x.., 0o.., plain decimal).
func layout_overrides(sec *ini.Section, l types.Layout) (types.Layout, error) {
	ints := map[string]*int{
		"size_check_offset":  &l.SizeCheckOffset,
		"money_offset":       &l.MoneyOffset,
		"name_offset":        &l.NameOffset,
		"name_length":        &l.NameLength,
		"slot_base":          &l.SlotBase,
		"slot_stride":        &l.SlotStride,
		"slot_count":         &l.SlotCount,
		"slot_header_length": &l.SlotHeaderLength,
		"perf_offset":        &l.PerfOffset,
		"perf_length":        &l.PerfLength,
	}
	for k, target := range ints {
		if !sec.HasKey(k) {
			continue
		}
		n, err := strconv.ParseInt(strings.TrimSpace(sec.Key(k).String()), 0, 64)
		if err != nil {
			return l, fmt.Errorf("layout %v: %w", k, err)
		}
		*target = int(n)
	}

	for k, target := range map[string]*byte{"zero_fill": &l.ZeroFill, "max_fill": &l.MaxFill} {
		if !sec.HasKey(k) {
			continue
		}
		n, err := strconv.ParseUint(strings.TrimSpace(sec.Key(k).String()), 0, 8)
		if err != nil {
			return l, fmt.Errorf("layout %v: %w", k, err)
		}
		*target = byte(n)
	}

	if sec.HasKey("magic") {
		// e.g. "32 30 43 4D"
		fields := strings.Fields(sec.Key("magic").String())
		if len(fields) != len(l.Magic) {
			return l, fmt.Errorf("layout magic: expected %v hex bytes, got %v", len(l.Magic), len(fields))
		}
		for i, f := range fields {
			n, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(f), "0x"), 16, 8)
			if err != nil {
				return l, fmt.Errorf("layout magic: %w", err)
			}
			l.Magic[i] = byte(n)
		}
	}

	return l, l.Check()
}
