package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/bamsammich/fastdd/internal/stats"
)

const (
	ansiClearLine    = "\033[K"
	progressBarWidth = 20
	sparklineWidth   = 12
	redrawInterval   = 100 * time.Millisecond
)

// barReporter redraws a single status line in place on a terminal.
type barReporter struct {
	w     io.Writer
	stats *stats.Collector
	width int

	mu       sync.Mutex // serialises drawing between the ticker and finish
	stop     chan struct{}
	done     chan struct{}
	once     sync.Once
	finished bool
}

func newBarReporter(cfg Config) *barReporter {
	p := &barReporter{
		w:     cfg.Writer,
		stats: cfg.Stats,
		width: cfg.Width,
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *barReporter) run() {
	defer close(p.done)

	// Fire first tick quickly to seed the ring buffer with initial speed data,
	// then switch to 1s interval.
	secTicker := time.NewTicker(250 * time.Millisecond)
	defer secTicker.Stop()
	firstTickDone := false

	redrawTicker := time.NewTicker(redrawInterval)
	defer redrawTicker.Stop()

	for {
		select {
		case <-p.stop:
			return
		case <-redrawTicker.C:
			p.draw("")
		case <-secTicker.C:
			p.stats.Tick()
			if !firstTickDone {
				firstTickDone = true
				secTicker.Reset(time.Second)
			}
		}
	}
}

func (p *barReporter) BytesTransferred(n int64) { p.stats.AddBytesCopied(n) }

func (p *barReporter) Complete() { p.finish("✓") }
func (p *barReporter) Error()    { p.finish("✗") }

func (p *barReporter) Close() {
	p.once.Do(func() { close(p.stop) })
	<-p.done
}

func (p *barReporter) finish(mark string) {
	p.Close()
	p.draw(mark)
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.finished {
		p.finished = true
		io.WriteString(p.w, "\n") //nolint:errcheck // progress is best effort
	}
}

func (p *barReporter) draw(mark string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.finished {
		return
	}
	line := p.line(mark)
	fmt.Fprintf(p.w, "\r%s%s", line, ansiClearLine)
}

// line renders the status line. The sparkline is only added when it fits
// and the result is cut to the terminal width.
func (p *barReporter) line(mark string) string {
	snap := p.stats.Snapshot()
	speed := p.stats.RollingSpeed(5)
	if mark != "" && snap.Elapsed > 0 {
		speed = float64(snap.BytesCopied) / snap.Elapsed.Seconds()
	}

	var parts []string
	if mark != "" {
		parts = append(parts, mark)
	}
	frac := snap.Fraction()
	if frac >= 0 {
		parts = append(parts,
			ProgressBar(frac, progressBarWidth),
			fmt.Sprintf("%3.0f%%", frac*100),
			FormatBytes(snap.BytesCopied)+" / "+FormatBytes(snap.BytesTotal),
		)
	} else {
		parts = append(parts, FormatBytes(snap.BytesCopied))
	}
	parts = append(parts, FormatRate(speed))
	if frac >= 0 && mark == "" {
		parts = append(parts, "eta "+FormatETA(p.stats.ETA()))
	}

	line := strings.Join(parts, "  ")
	spark := Sparkline(p.stats.SparklineData(sparklineWidth), sparklineWidth)
	if utf8.RuneCountInString(line)+2+sparklineWidth < p.width {
		line += "  " + spark
	}
	if utf8.RuneCountInString(line) >= p.width {
		line = string([]rune(line)[:max(p.width-1, 0)])
	}
	return line
}
