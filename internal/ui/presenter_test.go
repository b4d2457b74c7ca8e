package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/fastdd/internal/stats"
)

func TestNewReporterSelection(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want any
	}{
		{"quiet wins", Config{Quiet: true, Mode: ModeBar, IsTTY: true}, &quietReporter{}},
		{"none", Config{Mode: ModeNone}, &quietReporter{}},
		{"auto on tty", Config{Mode: ModeAuto, IsTTY: true}, &barReporter{}},
		{"auto off tty", Config{Mode: ModeAuto}, &dotsReporter{}},
		{"forced dots", Config{Mode: ModeDots, IsTTY: true}, &dotsReporter{}},
		{"forced bar", Config{Mode: ModeBar}, &barReporter{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.Writer = &bytes.Buffer{}
			r := NewReporter(tt.cfg)
			defer r.Close()
			assert.IsType(t, tt.want, r)
		})
	}
}

func TestQuietReporterCounts(t *testing.T) {
	c := stats.NewCollector()
	var buf bytes.Buffer
	r := NewReporter(Config{Writer: &buf, Stats: c, Quiet: true})

	r.BytesTransferred(100)
	r.BytesTransferred(50)
	r.Complete()
	r.Close()

	assert.Equal(t, int64(150), c.Snapshot().BytesCopied)
	assert.Empty(t, buf.String())
}

type countingProgress struct {
	bytes     int64
	completed int
	errored   int
}

func (c *countingProgress) BytesTransferred(n int64) { c.bytes += n }
func (c *countingProgress) Complete()                { c.completed++ }
func (c *countingProgress) Error()                   { c.errored++ }

func TestMultiProgress(t *testing.T) {
	a, b := &countingProgress{}, &countingProgress{}
	m := MultiProgress{a, b}

	m.BytesTransferred(10)
	m.BytesTransferred(5)
	m.Complete()
	m.Error()

	for _, p := range []*countingProgress{a, b} {
		assert.Equal(t, int64(15), p.bytes)
		assert.Equal(t, 1, p.completed)
		assert.Equal(t, 1, p.errored)
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{ModeAuto, ModeBar, ModeDots, ModeNone} {
		got, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	_, err := ParseMode("fancy")
	assert.Error(t, err)
	assert.Equal(t, "Mode(9)", Mode(9).String())
}

func TestTerminalNonFile(t *testing.T) {
	tty, width := Terminal(&bytes.Buffer{})
	assert.False(t, tty)
	assert.Equal(t, 80, width)
}
