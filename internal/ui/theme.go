package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bamsammich/fastdd/internal/config"
)

// Theme is the palette used for the completion summary.
type Theme struct {
	Green  lipgloss.Color
	Red    lipgloss.Color
	Teal   lipgloss.Color
	Muted  lipgloss.Color
	Dim    lipgloss.Color
	Bright lipgloss.Color
}

// DefaultTheme returns the Catppuccin Mocha palette.
func DefaultTheme() Theme {
	return Theme{
		Green:  lipgloss.Color("#a6e3a1"),
		Red:    lipgloss.Color("#f38ba8"),
		Teal:   lipgloss.Color("#94e2d5"),
		Muted:  lipgloss.Color("#5a6278"),
		Dim:    lipgloss.Color("#3a4055"),
		Bright: lipgloss.Color("#cdd6f4"),
	}
}

// WithOverrides returns t with any colors set in tc replaced.
func (t Theme) WithOverrides(tc config.ThemeConfig) Theme {
	set := func(dst *lipgloss.Color, v *string) {
		if v != nil {
			*dst = lipgloss.Color(*v)
		}
	}
	set(&t.Green, tc.Green)
	set(&t.Red, tc.Red)
	set(&t.Teal, tc.Teal)
	set(&t.Muted, tc.Muted)
	set(&t.Dim, tc.Dim)
	set(&t.Bright, tc.Bright)
	return t
}
