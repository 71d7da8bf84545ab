package main

// savefile reader/editor for Need for Speed Underground 2
//
// example usage:
//
// nfsu2edit load PLAYER/PLAYER
// nfsu2edit dump
// nfsu2edit set name Razor
// nfsu2edit set money 2000000
// nfsu2edit set perf 1:max
// nfsu2edit unlock 3
// nfsu2edit save
//
// or all of the above in one go with "nfsu2edit shell PLAYER/PLAYER".
//
// The save directory comes from --dir, then nfsu2edit.ini, then the working directory.

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"nfsu2edit/report"
	"nfsu2edit/savefile"
	"nfsu2edit/utils"
	"nfsu2edit/watch"
)

type app struct {
	cfg   utils.Config
	log   zerolog.Logger
	force bool
	out   io.Writer
}

func main() {
	err := main2(os.Args[1:], os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main2(args []string, stdout io.Writer, stderr io.Writer) error {
	fs := flag.NewFlagSet("nfsu2edit", flag.ContinueOnError)
	// Flags go before the command, so that "set money -1" means what it says
	fs.SetInterspersed(false)
	fs.SetOutput(stderr)
	dir := fs.String("dir", "", "save file directory (default: \"dir\" from the config file, then the working directory)")
	config := fs.String("config", utils.ConfigFile, "config file")
	level := fs.String("log-level", "", "diagnostics level: debug, info, warn, error")
	force := fs.Bool("force", false, "skip the editor's safety rules (e.g. unlock a car that isn't locked)")
	no_backup := fs.Bool("no-backup", false, "don't write <file>.bak when saving")

	err := fs.Parse(args)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	cfg, err := utils.LoadConfig(*config)
	if err != nil {
		return err
	}
	if *dir != "" {
		cfg.Dir = *dir
	}
	if *level != "" {
		cfg.LogLevel = *level
	}
	if *no_backup {
		cfg.Backup = false
	}

	a := &app{cfg: cfg, log: utils.NewLogger(cfg.LogLevel, stderr), force: *force, out: stdout}

	rest := fs.Args()
	if len(rest) == 0 {
		a.println("No args detected - falling back to \"help\", since you clearly need it...")
		rest = []string{"help"}
	}
	return a.run(rest[0], rest[1:])
}

func (a *app) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *app) editor(s *Session) *editor {
	return &editor{session: s, force: a.force, log: a.log}
}

// path resolves a save file name against the save directory
func (a *app) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(a.cfg.Dir, name)
}

func help_text() []string {
	out := []string{
		"Need for Speed Underground 2 Save File Editor",
		"",
		"Usage: nfsu2edit [flags] command [args]",
		"",
		"Commands:",
		"help: display this text",
		"load (filename): load a file from the save directory",
		"dump: list all available info",
		"get (what) [car]: display current status of something",
		"set (what) (to): set something",
		"unlock (car): unlock a locked, empty car slot",
		"save: save the file (the original goes to <file>.bak first)",
		"backup [filename]: write the file as it was when loaded",
		"shell (filename): load a file and edit it interactively",
		"watch: report on save files as they are written",
		"",
		"Things that can be get-ted are:",
		strings.TrimRight(list_ettables(false), "\n"),
		"",
		"Things that can be set-ted are:",
		strings.TrimRight(list_ettables(true), "\n"),
		"",
		"Notes:",
		"   Money -1 means \"no change\", and only positive amounts are written.",
		"   Performance modes are \"No effect\", \"Nill out\" and \"Max out\" (or none/zero/max).",
		"   Only cars in use can have their performance changed.",
		"   It is usually not necessary to type the full name of something",
		"e.g. \"nill\" will be recognized as \"Nill out\".",
	}
	return out
}

func (a *app) run(cmd string, args []string) error {
	switch cmd {
	case "help":
		for _, ht := range help_text() {
			a.println(ht)
		}
		return nil

	case "load":
		if len(args) < 1 {
			return errors.New("Load what?  Filename expected.")
		}
		s, err := a.load(a.path(args[0]))
		if err != nil {
			return err
		}
		// Stash even a broken file; "backup" still works on it
		err = stash(a.cfg.Stash, s)
		if err != nil {
			return err
		}
		if !s.Image.Validate() {
			return fmt.Errorf("%w: %v", ErrHeaderInvalid, s.Filename)
		}
		return nil

	case "dump":
		s, err := retrieve(a.cfg.Stash)
		if err != nil {
			return err
		}
		return a.dump(s)

	case "get":
		if len(args) < 1 {
			return errors.New("Get what?  Gettables are:\n" + list_ettables(false))
		}
		s, err := retrieve(a.cfg.Stash)
		if err != nil {
			return err
		}
		str, err := a.editor(s).get(args[0], strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		a.println(str)
		return nil

	case "set":
		if len(args) < 1 {
			return errors.New("Set what?  Settables are:\n" + list_ettables(true))
		}
		if len(args) < 2 {
			return fmt.Errorf("Set %v to what?", args[0])
		}
		s, err := retrieve(a.cfg.Stash)
		if err != nil {
			return err
		}
		msg, err := a.editor(s).set(args[0], strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		a.println(msg)
		return stash(a.cfg.Stash, s)

	case "unlock":
		if len(args) < 1 {
			return errors.New("Unlock which car?")
		}
		s, err := retrieve(a.cfg.Stash)
		if err != nil {
			return err
		}
		msg, err := a.editor(s).unlock(args[0])
		if err != nil {
			return err
		}
		a.println(msg)
		return stash(a.cfg.Stash, s)

	case "save":
		s, err := retrieve(a.cfg.Stash)
		if err != nil {
			return err
		}
		err = a.save(s)
		if err != nil {
			return err
		}
		err = os.Remove(a.cfg.Stash)
		if err != nil {
			return err
		}
		a.println("Temporary data cleaned up")
		return nil

	case "backup":
		s, err := retrieve(a.cfg.Stash)
		if err != nil {
			return err
		}
		target := ""
		if len(args) > 0 {
			target = a.path(args[0])
		}
		return a.backup(s, target)

	case "shell":
		if len(args) < 1 {
			return errors.New("Edit what?  Filename expected.")
		}
		s, err := a.load(a.path(args[0]))
		if err != nil {
			return err
		}
		return a.shell(s)

	case "watch":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return a.watch(ctx)
	}

	return fmt.Errorf("unknown command %q (try \"help\")", cmd)
}

func (a *app) load(filename string) (*Session, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	s := &Session{Filename: filename, Image: savefile.New(raw, a.cfg.Layout)}

	if len(raw) < a.cfg.Layout.MinLength() {
		a.log.Warn().Str("file", filename).Int("bytes", len(raw)).Int("expected_at_least", a.cfg.Layout.MinLength()).Msg("file is too short for some fields")
	}

	summary := report.Build(s.Image)
	a.log.Debug().Str("file", filename).Int("bytes", len(raw)).Bool("valid", summary.Valid).Msg("loaded")
	a.println(fmt.Sprintf("%v - %v bytes", filename, len(raw)))
	a.println("Header:", summary.Header())
	if summary.Valid {
		a.println(fmt.Sprintf("Profile: %v   Money: %v   Cars in use: %v", summary.DisplayName(), summary.Currency, summary.UsedSlots))
	}
	return s, nil
}

func (a *app) dump(s *Session) error {
	lines, err := a.editor(s).dump()
	for _, l := range lines {
		a.println(l)
	}
	return err
}

// save backs up the file as originally loaded (if configured to), then writes the working copy over it.
func (a *app) save(s *Session) error {
	if !s.Image.Validate() {
		return fmt.Errorf("%w: not saving %v", ErrHeaderInvalid, s.Filename)
	}
	if !s.Image.Modified() {
		a.log.Info().Str("file", s.Filename).Msg("nothing changed, saving anyway")
	}

	// Since this is a "powerful" (i.e. capable of completely trashing savefiles) tool, a backup is a good idea
	if a.cfg.Backup {
		err := a.backup(s, "")
		if err != nil {
			return err
		}
	}

	err := atomic.WriteFile(s.Filename, bytes.NewReader(s.Image.Snapshot()))
	if err != nil {
		return err
	}
	a.println("New file written to", s.Filename)
	return nil
}

// backup writes the original bytes to target, or next to the save as <file>.bak.
func (a *app) backup(s *Session, target string) error {
	if target == "" {
		target = s.Filename + ".bak"
	}
	err := atomic.WriteFile(target, bytes.NewReader(s.Image.Original()))
	if err != nil {
		return err
	}
	a.println("Original written to", target)
	return nil
}

func (a *app) watch(ctx context.Context) error {
	w := watch.New(a.cfg.Dir, watch.Options{
		Layout: a.cfg.Layout,
		Suffix: a.cfg.WatchSuffix,
		Ignore: []string{filepath.Base(a.cfg.Stash)},
		Settle: time.Second,
		Log:    a.log,
	})
	events := make(chan watch.Event, 8)
	err := w.Start(events)
	if err != nil {
		return err
	}
	defer w.Stop()

	a.println("Watching...", a.cfg.Dir)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if ev.Err != nil {
				a.println(ev.Filename+":", ev.Err)
				continue
			}
			a.println(ev.Filename+":", ev.Summary.OneLine())
		}
	}
}
