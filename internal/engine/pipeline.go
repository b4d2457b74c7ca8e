package engine

import (
	"io"
	"sync"

	"github.com/bamsammich/fastdd/internal/platform"
)

// item travels through the filled queue. Exactly one of buf, end and err
// is set, and nothing follows an item with end or err.
type item struct {
	buf *Buffer
	end bool
	err *Fault
}

// pipeline overlaps reading and writing: a spawned goroutine reads into
// pool buffers and the calling goroutine writes them out in order.
type pipeline struct {
	src  io.Reader
	dst  io.Writer
	req  Request
	prog Progress

	pool   *BufferPool
	filled *BoundedQueue[item]

	// stop is closed by the writer after a write fault.
	stop chan struct{}
}

func copyBuffered(acct *Accounting, req Request) error {
	acct.Method = platform.ReadWrite

	dst, err := positionSink(req.Dst, req.Seek)
	if err != nil {
		return err
	}
	src, eof, err := positionSource(req.Src, req.Skip)
	if err != nil || eof {
		return err
	}
	if req.Limiter != nil {
		dst = newRateLimitedWriter(dst, req.Limiter)
	}

	size := req.poolSize()
	p := &pipeline{
		src:    src,
		dst:    dst,
		req:    req,
		prog:   req.progress(),
		pool:   NewBufferPool(size, req.ChunkSize),
		filled: NewBoundedQueue[item](size + 1),
		stop:   make(chan struct{}),
	}
	return p.run(acct)
}

func (p *pipeline) run(acct *Accounting) error {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.read(acct)
	}()
	err := p.write(acct)
	wg.Wait()
	return err
}

func (p *pipeline) read(acct *Accounting) {
	off := p.req.Skip
	remaining := p.req.Total
	for p.req.Total == 0 || remaining > 0 {
		buf, ok := p.pool.GetOr(p.stop)
		if !ok {
			break
		}
		want := p.req.nextChunk(remaining)
		n, err := platform.ReadFull(p.src, buf.data[:want])
		if err != nil {
			p.pool.Put(buf)
			p.filled.Enqueue(item{err: readFault(off+int64(n), err)})
			return
		}
		if n == 0 {
			p.pool.Put(buf)
			break
		}
		buf.n = n
		acct.BytesRead += int64(n)
		off += int64(n)
		remaining -= int64(n)
		p.filled.Enqueue(item{buf: buf})
		if n < want {
			break
		}
	}
	p.filled.Enqueue(item{end: true})
}

func (p *pipeline) write(acct *Accounting) error {
	var failed *Fault
	off := p.req.Seek
	for {
		it := p.filled.Dequeue()
		if it.err != nil {
			return it.err
		}
		if it.end {
			if failed != nil {
				return failed
			}
			return nil
		}
		if failed == nil {
			n, err := platform.WriteFull(p.dst, it.buf.Bytes())
			if err != nil {
				failed = writeFault(off+int64(n), err)
				close(p.stop)
			} else {
				acct.BytesWritten += int64(n)
				off += int64(n)
				p.prog.BytesTransferred(int64(n))
			}
		}
		p.pool.Put(it.buf)
	}
}
