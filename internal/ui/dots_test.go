package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bamsammich/fastdd/internal/stats"
)

func TestDotsReporterComplete(t *testing.T) {
	var buf bytes.Buffer
	c := stats.NewCollector()
	r := NewReporter(Config{Writer: &buf, Stats: c, Mode: ModeDots, Width: 80})

	for range 3 {
		r.BytesTransferred(512)
	}
	r.Complete()

	assert.Equal(t, "...\b#\n", buf.String())
	assert.Equal(t, int64(1536), c.Snapshot().BytesCopied)
}

func TestDotsReporterError(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(Config{Writer: &buf, Mode: ModeDots})

	r.BytesTransferred(1)
	r.Error()

	assert.Equal(t, ".\b!\n", buf.String())
}

func TestDotsReporterWraps(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(Config{Writer: &buf, Mode: ModeDots, Width: 4})

	for range 7 {
		r.BytesTransferred(1)
	}

	// A new line starts once a line holds width-1 dots.
	assert.Equal(t, "...\n...\n.", buf.String())
}

func TestDotsReporterEmptyTransfer(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("earlier warning:")
	r := NewReporter(Config{Writer: &buf, Mode: ModeDots})

	r.Complete()

	assert.Equal(t, "earlier warning:#\n", buf.String())
}
