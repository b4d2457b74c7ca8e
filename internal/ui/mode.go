package ui

import "fmt"

// Mode selects how transfer progress is drawn.
type Mode int

const (
	// ModeAuto draws a bar on a terminal and dots elsewhere.
	ModeAuto Mode = iota
	ModeBar
	ModeDots
	ModeNone
)

var modeNames = map[Mode]string{
	ModeAuto: "auto",
	ModeBar:  "bar",
	ModeDots: "dots",
	ModeNone: "none",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode parses a --progress value.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return ModeAuto, fmt.Errorf("invalid progress mode %q (want auto, bar, dots or none)", s)
}
