package main

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"os"

	"github.com/natefinch/atomic"

	"nfsu2edit/savefile"
)

var ErrNoSession = errors.New("no file loaded (try \"load\" first)")

// Session is what survives between commands: which file, and both copies of it.
type Session struct {
	Filename string
	Image    *savefile.Image
}

// stash saves the session so the next command can pick it up.
func stash(path string, s *Session) error {
	buf := bytes.Buffer{}
	err := gob.NewEncoder(&buf).Encode(s)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	return atomic.WriteFile(path, &buf)
}

func retrieve(path string) (*Session, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s := Session{}
	err = gob.NewDecoder(f).Decode(&s)
	if err != nil {
		return nil, fmt.Errorf("reading session from %v: %w", path, err)
	}
	if s.Image == nil {
		return nil, ErrNoSession
	}
	return &s, nil
}
