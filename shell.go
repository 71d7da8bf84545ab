package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"nfsu2edit/savefile"
)

var shell_commands = []string{"help", "dump", "get", "set", "unlock", "save", "backup", "revert", "quit"}

func history_file() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".nfsu2edit_history")
}

// shell edits one session interactively.  Nothing is stashed; "save" writes the file and that's that.
func (a *app) shell(s *Session) error {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(shell_completer)

	if f, err := os.Open(history_file()); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if path := history_file(); path != "" {
			if f, err := os.Create(path); err == nil {
				line.WriteHistory(f)
				f.Close()
			}
		}
	}()

	a.println("Type 'help' for commands.")
	for {
		input, err := line.Prompt("nfsu2> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				a.println()
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		quit, err := a.shell_command(s, strings.Fields(input))
		if err != nil {
			a.println(err)
		}
		if quit {
			return nil
		}
	}
}

// shell_command runs one shell line.  Errors are for the user to read, they don't end the shell.
func (a *app) shell_command(s *Session, words []string) (bool, error) {
	cmd, args := strings.ToLower(words[0]), words[1:]
	e := a.editor(s)

	switch cmd {
	case "quit", "exit", "q":
		if s.Image.Modified() {
			a.println("Unsaved changes discarded")
		}
		return true, nil

	case "help", "?":
		a.println("Commands: " + strings.Join(shell_commands, ", "))
		a.println("get/set take the same arguments as on the command line:")
		a.println(strings.TrimRight(list_ettables(false), "\n"))
		return false, nil

	case "dump":
		return false, a.dump(s)

	case "get":
		if len(args) < 1 {
			return false, errors.New("Get what?")
		}
		str, err := e.get(args[0], strings.Join(args[1:], " "))
		if err == nil {
			a.println(str)
		}
		return false, err

	case "set":
		if len(args) < 2 {
			return false, errors.New("Set what to what?")
		}
		msg, err := e.set(args[0], strings.Join(args[1:], " "))
		if err == nil {
			a.println(msg)
		}
		return false, err

	case "unlock":
		if len(args) < 1 {
			return false, errors.New("Unlock which car?")
		}
		msg, err := e.unlock(args[0])
		if err == nil {
			a.println(msg)
		}
		return false, err

	case "save":
		return false, a.save(s)

	case "backup":
		target := ""
		if len(args) > 0 {
			target = a.path(args[0])
		}
		return false, a.backup(s, target)

	case "revert":
		// Back to the file as loaded
		s.Image = savefile.New(s.Image.Original(), s.Image.Layout())
		a.println("All changes discarded")
		return false, nil
	}

	return false, fmt.Errorf("unknown command: %v (type 'help' for commands)", cmd)
}

func shell_completer(line string) []string {
	out := []string{}
	for _, c := range shell_commands {
		if strings.HasPrefix(c, strings.ToLower(line)) {
			out = append(out, c)
		}
	}
	return out
}
