package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/docker/go-units"

	"github.com/bamsammich/fastdd/internal/stats"
)

var rateAbbrs = []string{"B/s", "KiB/s", "MiB/s", "GiB/s", "TiB/s", "PiB/s"}

// FormatRate formats a bytes-per-second rate with binary units, e.g.
// "512 B/s" or "1.5 MiB/s".
func FormatRate(bytesPerSec float64) string {
	if bytesPerSec <= 0 {
		return "0 B/s"
	}
	return units.CustomSize("%.4g %s", bytesPerSec, 1024, rateAbbrs)
}

// FormatETA formats a remaining duration as a clock: "m:ss" below an hour,
// "h:mm:ss" above. Unknown or past durations render as "--".
func FormatETA(d time.Duration) string {
	if d <= 0 {
		return "--"
	}
	secs := int64(d.Round(time.Second) / time.Second)
	h, m, s := secs/3600, secs/60%60, secs%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatCount formats an integer with comma separators.
func FormatCount(n int64) string {
	digits := strconv.FormatInt(n, 10)
	sign := ""
	if n < 0 {
		sign, digits = "-", digits[1:]
	}
	var b strings.Builder
	b.WriteString(sign)
	for i, c := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}

// ProgressBar renders frac (clamped to [0,1]) as a bar width cells wide.
func ProgressBar(frac float64, width int) string {
	if width <= 0 {
		return ""
	}
	frac = min(max(frac, 0), 1)
	filled := int(frac * float64(width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// FormatBytes wraps stats.FormatBytes for UI use.
func FormatBytes(b int64) string {
	return stats.FormatBytes(b)
}
