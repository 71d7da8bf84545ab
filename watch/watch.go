// Package watch keeps an eye on the save directory and reports what the game (or anything else) writes there.
package watch

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"nfsu2edit/report"
	"nfsu2edit/savefile"
	"nfsu2edit/types"
)

// Event is sent for every written file whose summary has changed since the last one seen for it.
type Event struct {
	Filename string
	Summary  report.Summary
	Err      error // the file couldn't be read; Summary is empty
}

type Options struct {
	Layout types.Layout

	// Suffix restricts watching to file names ending in it.  NFSU2 profile saves have no extension, so the default is everything.
	Suffix string

	// Ignore lists file names (not paths) never to report, e.g. our own stash file.
	// Backups (".bak") are always ignored.
	Ignore []string

	// Settle is how long to wait after a write before reading, to let the game finish with the file.
	Settle time.Duration

	Log zerolog.Logger
}

type Watcher interface {
	Start(events chan<- Event) error
	Stop()
}

func New(dir string, opts Options) Watcher {
	return &dir_watcher{dir: dir, opts: opts, last: map[string]report.Summary{}}
}

type dir_watcher struct {
	dir     string
	opts    Options
	watcher *fsnotify.Watcher

	// only touched by the event goroutine
	last map[string]report.Summary
}

func (dw *dir_watcher) Start(events chan<- Event) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	dw.watcher = watcher

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if !dw.wanted(event.Name) {
					dw.opts.Log.Debug().Str("file", event.Name).Msg("ignored")
					continue
				}
				if dw.opts.Settle > 0 {
					time.Sleep(dw.opts.Settle)
				}
				if ev, changed := dw.handle_file(event.Name); changed {
					events <- ev
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				dw.opts.Log.Warn().Err(err).Str("dir", dw.dir).Msg("watcher error")
			}
		}
	}()

	err = dw.watcher.Add(dw.dir)
	if err != nil {
		dw.watcher.Close()
	}

	return err
}

func (dw *dir_watcher) Stop() {
	if dw.watcher != nil {
		dw.watcher.Close()
	}
}

func (dw *dir_watcher) wanted(name string) bool {
	base := filepath.Base(name)
	if strings.HasSuffix(base, ".bak") {
		return false
	}
	for _, ig := range dw.opts.Ignore {
		if base == ig {
			return false
		}
	}
	return strings.HasSuffix(base, dw.opts.Suffix)
}

// handle_file loads one file and works out whether it's worth reporting.
func (dw *dir_watcher) handle_file(name string) (Event, bool) {
	raw, err := os.ReadFile(name)
	if err != nil {
		dw.opts.Log.Debug().Err(err).Str("file", name).Msg("read failed")
		return Event{Filename: name, Err: err}, true
	}

	summary := report.Build(savefile.New(raw, dw.opts.Layout))
	if prev, seen := dw.last[name]; seen && prev.Equal(summary) {
		return Event{}, false
	}
	dw.last[name] = summary

	if !summary.Valid {
		dw.opts.Log.Warn().Str("file", name).Int("bytes", len(raw)).Msg("header invalid")
	}
	return Event{Filename: name, Summary: summary}, true
}
