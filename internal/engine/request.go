package engine

import (
	"io"
	"time"

	"golang.org/x/time/rate"

	"github.com/bamsammich/fastdd/internal/platform"
)

const (
	// DefaultPoolSize is the number of buffers the buffered engine cycles.
	DefaultPoolSize = 128
	// DefaultChunkSize is the I/O size callers use when none is configured.
	DefaultChunkSize = 64 * 1024
)

// Progress receives transfer progress. Return values are not consulted,
// and implementations must not block for long: they run on the writing
// side of the transfer.
type Progress interface {
	// BytesTransferred reports n more bytes delivered to the destination.
	BytesTransferred(n int64)
	// Complete is called once after a successful transfer.
	Complete()
	// Error is called once after a transfer ends in a read or write fault.
	Error()
}

// Request describes one transfer. Endpoints are already open; pipe flags
// and sizes are already resolved by the caller.
type Request struct {
	Src io.Reader
	Dst io.Writer

	// SrcIsPipe and DstIsPipe mark endpoints without random access.
	SrcIsPipe bool
	DstIsPipe bool

	// Skip is the number of source bytes to pass over before copying.
	Skip int64
	// Seek is the destination offset of the first write.
	Seek int64
	// Total is the number of bytes to copy; 0 copies until end of stream.
	Total int64
	// ChunkSize is the size of each read, write or splice.
	ChunkSize int

	// PoolSize is the buffered engine's buffer count; 0 means DefaultPoolSize.
	PoolSize int
	// Progress, when set, is told about every delivered chunk.
	Progress Progress
	// Limiter, when set, paces writes to the destination.
	Limiter *rate.Limiter
	// NoZeroCopy forces the buffered engine even where splice is available.
	NoZeroCopy bool
}

func (r Request) poolSize() int {
	if r.PoolSize > 0 {
		return r.PoolSize
	}
	return DefaultPoolSize
}

func (r Request) progress() Progress {
	if r.Progress == nil {
		return nopProgress{}
	}
	return r.Progress
}

// nextChunk returns the size of the next I/O given how much of Total is
// still outstanding.
func (r Request) nextChunk(remaining int64) int {
	if r.Total > 0 && remaining < int64(r.ChunkSize) {
		return int(remaining)
	}
	return r.ChunkSize
}

// Accounting holds the counters of one transfer. BytesRead is only written
// by the reading side and BytesWritten only by the writing side.
type Accounting struct {
	BytesRead    int64
	BytesWritten int64
	Elapsed      time.Duration
	Method       platform.CopyMethod
}

// Rate returns the average write throughput in bytes per second.
func (a Accounting) Rate() float64 {
	if a.Elapsed <= 0 {
		return 0
	}
	return float64(a.BytesWritten) / a.Elapsed.Seconds()
}

type nopProgress struct{}

func (nopProgress) BytesTransferred(int64) {}
func (nopProgress) Complete()              {}
func (nopProgress) Error()                 {}
