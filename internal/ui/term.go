package ui

import (
	"io"

	"golang.org/x/term"
)

const defaultWidth = 80

// Terminal reports whether w is a terminal and, if so, its width in
// columns. Writers without a descriptor are never terminals.
func Terminal(w io.Writer) (tty bool, width int) {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false, defaultWidth
	}
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return false, defaultWidth
	}
	return true, termWidth(fd)
}

func termWidth(fd int) int {
	w, _, err := term.GetSize(fd)
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}
