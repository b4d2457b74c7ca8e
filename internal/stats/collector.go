package stats

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/docker/go-units"
)

const ringSize = 60

// sample is the byte count delivered over one tick interval.
type sample struct {
	bytes int64
	dur   time.Duration
}

func (s sample) rate() float64 {
	if s.dur <= 0 {
		return 0
	}
	return float64(s.bytes) / s.dur.Seconds()
}

// Collector tracks transfer progress. The byte counters are atomic so the
// engine's writer can bump them without locking; the sample ring is only
// touched by the reporter through Tick and the readers below.
type Collector struct {
	bytesCopied atomic.Int64
	bytesTotal  atomic.Int64
	chunks      atomic.Int64
	start       time.Time
	now         func() time.Time

	mu        sync.Mutex
	ring      [ringSize]sample
	head      int // next slot to write
	filled    int
	lastBytes int64
	lastTick  time.Time
}

// NewCollector creates a Collector whose clock starts now.
func NewCollector() *Collector {
	return newCollectorAt(time.Now)
}

func newCollectorAt(now func() time.Time) *Collector {
	t := now()
	return &Collector{start: t, now: now, lastTick: t}
}

// SetTotal records the expected byte count; 0 means unknown.
func (c *Collector) SetTotal(bytes int64) { c.bytesTotal.Store(bytes) }

// AddBytesCopied records one delivered chunk of n bytes.
func (c *Collector) AddBytesCopied(n int64) {
	c.bytesCopied.Add(n)
	c.chunks.Add(1)
}

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	BytesCopied int64
	BytesTotal  int64
	Chunks      int64
	Elapsed     time.Duration
}

func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		BytesCopied: c.bytesCopied.Load(),
		BytesTotal:  c.bytesTotal.Load(),
		Chunks:      c.chunks.Load(),
		Elapsed:     c.Elapsed(),
	}
}

// Fraction returns progress in [0, 1], or -1 when the total is unknown.
func (s Snapshot) Fraction() float64 {
	if s.BytesTotal <= 0 {
		return -1
	}
	return min(float64(s.BytesCopied)/float64(s.BytesTotal), 1)
}

// Tick closes the current sampling interval. Intervals need not be equal:
// each sample keeps its own duration.
func (c *Collector) Tick() {
	cur := c.bytesCopied.Load()
	t := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.ring[c.head] = sample{bytes: cur - c.lastBytes, dur: t.Sub(c.lastTick)}
	c.lastBytes, c.lastTick = cur, t
	c.head = (c.head + 1) % ringSize
	if c.filled < ringSize {
		c.filled++
	}
}

// recent calls fn for up to n samples, newest first. c.mu must be held.
func (c *Collector) recent(n int, fn func(sample)) {
	for i := range min(n, c.filled) {
		fn(c.ring[(c.head-1-i+ringSize)%ringSize])
	}
}

// RollingSpeed returns bytes/sec over the last n samples.
func (c *Collector) RollingSpeed(n int) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total sample
	c.recent(n, func(s sample) {
		total.bytes += s.bytes
		total.dur += s.dur
	})
	return total.rate()
}

// SparklineData returns the rates of the last n samples, oldest first.
func (c *Collector) SparklineData(n int) []float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := min(n, c.filled)
	if count <= 0 {
		return nil
	}
	data := make([]float64, count)
	i := count - 1
	c.recent(count, func(s sample) {
		data[i] = s.rate()
		i--
	})
	return data
}

// ETA estimates the time left from the recent rate. It is 0 when the
// total is unknown, reached, or nothing has moved yet.
func (c *Collector) ETA() time.Duration {
	remaining := c.bytesTotal.Load() - c.bytesCopied.Load()
	if remaining <= 0 {
		return 0
	}
	speed := c.RollingSpeed(10)
	if speed <= 0 {
		return 0
	}
	return time.Duration(float64(remaining) / speed * float64(time.Second))
}

// Elapsed returns the time since the collector was created.
func (c *Collector) Elapsed() time.Duration {
	return c.now().Sub(c.start)
}

func (s Snapshot) String() string {
	return fmt.Sprintf("bytes=%d/%d chunks=%d elapsed=%s",
		s.BytesCopied, s.BytesTotal, s.Chunks, s.Elapsed.Round(time.Millisecond))
}

var binaryAbbrs = []string{"B", "KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}

// FormatBytes returns a human-readable byte count.
func FormatBytes(b int64) string {
	if b < 1024 {
		return fmt.Sprintf("%d B", b)
	}
	return units.CustomSize("%.1f %s", float64(b), 1024, binaryAbbrs)
}
