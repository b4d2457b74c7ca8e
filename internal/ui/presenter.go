package ui

import (
	"io"

	"github.com/bamsammich/fastdd/internal/engine"
	"github.com/bamsammich/fastdd/internal/stats"
)

// Reporter draws the progress of one transfer. The engine drives it
// through engine.Progress; Close stops any background drawing and is safe
// to call more than once.
type Reporter interface {
	engine.Progress
	Close()
}

// Config configures a Reporter.
type Config struct {
	// Writer receives progress output; normally stderr.
	Writer io.Writer
	Stats  *stats.Collector
	Mode   Mode
	Quiet  bool
	IsTTY  bool
	// Width is the terminal width in columns.
	Width int
}

// NewReporter creates the appropriate reporter based on configuration.
//
//nolint:ireturn // callers only need the Reporter interface
func NewReporter(cfg Config) Reporter {
	if cfg.Stats == nil {
		cfg.Stats = stats.NewCollector()
	}
	if cfg.Width <= 0 {
		cfg.Width = defaultWidth
	}

	mode := cfg.Mode
	if mode == ModeAuto {
		mode = ModeDots
		if cfg.IsTTY {
			mode = ModeBar
		}
	}
	if cfg.Quiet || mode == ModeNone {
		return &quietReporter{stats: cfg.Stats}
	}
	if mode == ModeBar {
		return newBarReporter(cfg)
	}
	return &dotsReporter{w: cfg.Writer, stats: cfg.Stats, maxDots: cfg.Width}
}

// MultiProgress fans progress out to several sinks.
type MultiProgress []engine.Progress

func (m MultiProgress) BytesTransferred(n int64) {
	for _, p := range m {
		p.BytesTransferred(n)
	}
}

func (m MultiProgress) Complete() {
	for _, p := range m {
		p.Complete()
	}
}

func (m MultiProgress) Error() {
	for _, p := range m {
		p.Error()
	}
}
