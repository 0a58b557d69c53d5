package common

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/olekukonko/ts"
)

// TerminalWidth returns the width of the terminal, 0 when stdout is not one
func TerminalWidth() int {
	size, err := ts.GetSize()
	if err != nil {
		return 0
	}
	return size.Col()
}

// IsInteractive reports whether stdout is attached to a terminal
func IsInteractive() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
