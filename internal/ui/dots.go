package ui

import (
	"io"

	"github.com/bamsammich/fastdd/internal/stats"
)

// dotsReporter prints one dot per delivered chunk, wrapping at the
// terminal width, and ends the line with '#' on success or '!' on failure.
type dotsReporter struct {
	w       io.Writer
	stats   *stats.Collector
	dots    int
	maxDots int
}

func (p *dotsReporter) BytesTransferred(n int64) {
	p.stats.AddBytesCopied(n)
	p.dots++
	if p.dots >= p.maxDots {
		p.dots = 1
		io.WriteString(p.w, "\n") //nolint:errcheck // progress is best effort
	}
	io.WriteString(p.w, ".") //nolint:errcheck // progress is best effort
}

func (p *dotsReporter) Complete() { p.finish("#") }
func (p *dotsReporter) Error()    { p.finish("!") }
func (p *dotsReporter) Close()    {}

// finish overwrites the last dot with mark. With no dot on the line the
// mark is written as is so earlier stderr output is left alone.
func (p *dotsReporter) finish(mark string) {
	if p.dots > 0 {
		mark = "\b" + mark
	}
	io.WriteString(p.w, mark+"\n") //nolint:errcheck // progress is best effort
	p.dots = 0
}
