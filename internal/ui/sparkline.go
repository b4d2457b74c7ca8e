package ui

import (
	"math"
	"strings"
)

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders the last width samples of data, scaled between the
// smallest and largest sample shown. Missing samples are left blank so a
// young transfer draws from the right. A flat non-zero window renders at
// full height; an idle one at the floor.
func Sparkline(data []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(data) > width {
		data = data[len(data)-width:]
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range data {
		lo, hi = min(lo, v), max(hi, v)
	}

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", width-len(data)))
	top := len(sparkLevels) - 1
	for _, v := range data {
		var level int
		switch {
		case hi <= 0:
			level = 0
		case hi == lo:
			level = top
		default:
			level = int(math.Round((v - lo) / (hi - lo) * float64(top)))
		}
		b.WriteRune(sparkLevels[level])
	}
	return b.String()
}
