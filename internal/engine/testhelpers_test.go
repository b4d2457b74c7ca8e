package engine

import (
	"bytes"
	"crypto/rand"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"
)

// randomBytes returns n bytes of random payload.
func randomBytes(t *testing.T, n int) []byte {
	t.Helper()
	b := make([]byte, n)
	_, err := rand.Read(b)
	require.NoError(t, err)
	return b
}

// recordingWriter is an in-memory sink that remembers the size of every
// Write call. It hides bytes.Buffer's other methods so the engine treats it
// as a plain stream.
type recordingWriter struct {
	mu    sync.Mutex
	buf   bytes.Buffer
	sizes []int
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sizes = append(w.sizes, len(p))
	return w.buf.Write(p)
}

func (w *recordingWriter) Bytes() []byte {
	w.mu.Lock()
	defer w.mu.Unlock()
	return bytes.Clone(w.buf.Bytes())
}

func (w *recordingWriter) Sizes() []int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]int(nil), w.sizes...)
}

// streamReader wraps a reader so that only io.Reader is visible.
type streamReader struct {
	r io.Reader
}

func (s streamReader) Read(p []byte) (int, error) { return s.r.Read(p) }

// faultyReader yields limit bytes of data and then fails with err.
type faultyReader struct {
	limit int
	off   int
	err   error
	reads atomic.Int64
}

func (f *faultyReader) Read(p []byte) (int, error) {
	f.reads.Add(1)
	if f.off >= f.limit {
		return 0, f.err
	}
	n := min(len(p), f.limit-f.off)
	for i := range n {
		p[i] = byte(f.off + i)
	}
	f.off += n
	return n, nil
}

// endlessReader never reaches end of stream and counts its reads.
type endlessReader struct {
	reads atomic.Int64
}

func (e *endlessReader) Read(p []byte) (int, error) {
	e.reads.Add(1)
	for i := range p {
		p[i] = 'z'
	}
	return len(p), nil
}

// counterReader produces an increasing 32-bit little-endian counter stream
// in reads of irregular size.
type counterReader struct {
	next  uint32
	limit uint32
	pend  []byte
	step  int
}

func (c *counterReader) Read(p []byte) (int, error) {
	if len(c.pend) == 0 {
		if c.next >= c.limit {
			return 0, io.EOF
		}
		v := c.next
		c.next++
		c.pend = []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
	}
	c.step++
	n := copy(p[:min(len(p), 1+c.step%4)], c.pend)
	c.pend = c.pend[n:]
	return n, nil
}

// gatedWriter blocks every Write until a token is sent on gate.
type gatedWriter struct {
	gate   chan struct{}
	writes atomic.Int64
}

func (g *gatedWriter) Write(p []byte) (int, error) {
	<-g.gate
	g.writes.Add(1)
	return len(p), nil
}

// brokenWriter fails every write with EPIPE once fail is closed, and
// signals on failed the first time it does so.
type brokenWriter struct {
	fail   chan struct{}
	failed chan struct{}
	once   sync.Once
}

func (b *brokenWriter) Write(p []byte) (int, error) {
	select {
	case <-b.fail:
		b.once.Do(func() { close(b.failed) })
		return 0, syscall.EPIPE
	default:
		return len(p), nil
	}
}

// recProgress is a Progress that records what it was told.
type recProgress struct {
	mu        sync.Mutex
	bytes     int64
	calls     int
	completed int
	errored   int
}

func (r *recProgress) BytesTransferred(n int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bytes += n
	r.calls++
}

func (r *recProgress) Complete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completed++
}

func (r *recProgress) Error() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errored++
}

var errDisk = errors.New("simulated disk error")
