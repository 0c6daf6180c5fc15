package main

import (
	"io"
	"os"
	"time"

	"github.com/pkg/browser"
	"golang.org/x/term"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, terminal detection and the file opener.
type Environment struct {
	Now    func() time.Time
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// StdinIsTerminal reports whether Stdin is interactive. Piped input is
	// read only when it is not.
	StdinIsTerminal func() bool

	// OpenFile opens a written file in the default application.
	OpenFile func(path string) error
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:             time.Now,
		Stdin:           os.Stdin,
		Stdout:          os.Stdout,
		Stderr:          os.Stderr,
		StdinIsTerminal: func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
		OpenFile:        browser.OpenFile,
	}
}
