package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Summary describes a finished transfer.
type Summary struct {
	Bytes   int64
	Elapsed time.Duration
	// Method is the copy strategy that ran, e.g. "splice".
	Method string
	Failed bool
}

// Rate returns the average throughput in bytes per second.
func (s Summary) Rate() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Bytes) / s.Elapsed.Seconds()
}

// SummaryLine formats the completion line:
// 1.0 MiB (1048576 bytes) copied in 0.002113 secs (473 MB/s)
func SummaryLine(s Summary) string {
	return fmt.Sprintf("%s (%d bytes) copied in %.6f secs (%s)",
		FormatBytes(s.Bytes), s.Bytes, s.Elapsed.Seconds(), FormatRate(s.Rate()))
}

// RenderSummary writes the completion line to w, colored when w is a
// terminal that supports it. The copy method is appended in a muted style.
func RenderSummary(w io.Writer, s Summary, theme Theme) error {
	r := lipgloss.NewRenderer(w)

	color := theme.Green
	if s.Failed {
		color = theme.Red
	}
	line := r.NewStyle().Foreground(color).Render(SummaryLine(s))
	if s.Method != "" {
		line += " " + r.NewStyle().Foreground(theme.Muted).Render("["+s.Method+"]")
	}
	_, err := fmt.Fprintln(w, line)
	return err
}
