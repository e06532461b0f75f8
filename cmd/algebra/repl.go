package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
)

const (
	historyFile = ".algebra_history"
	prompt      = "> "
)

const helpText = `Enter an expression to evaluate it, or an equation to solve it.
Commands:
  :set name=value  Define a variable
  :help            Show this help
  :quit            Exit
`

// repl reads items interactively until EOF or :quit. It returns the exit
// status.
func repl(r *runner) int {
	histPath := historyFile
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Println("algebra (" + r.cfg.Mode + " mode). Ctrl+D or :quit exits; :help for help.")
	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return 0
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ln.AppendHistory(line)
		if strings.HasPrefix(line, ":") {
			if command(r, line) {
				return 0
			}
			continue
		}
		out, err := r.interactive(line)
		if err != nil {
			fmt.Println(err)
			continue
		}
		fmt.Println(out)
	}
}

// command runs a REPL command. It returns true if the REPL should exit.
func command(r *runner, line string) bool {
	cmd, arg, _ := strings.Cut(line, " ")
	switch strings.ToLower(cmd) {
	case ":quit", ":q":
		return true
	case ":help":
		fmt.Print(helpText)
	case ":set":
		if err := r.given(arg); err != nil {
			fmt.Println(err)
		}
	default:
		fmt.Printf("unknown command %s\n", cmd)
	}
	return false
}
