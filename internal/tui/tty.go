package tui

import (
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether stdin and stdout are both terminals, which the
// full-screen wizard needs.
func IsTTY() bool {
	return isTerminal(os.Stdout) && isTerminal(os.Stdin)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
