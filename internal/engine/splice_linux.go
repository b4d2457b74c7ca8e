//go:build linux

package engine

import (
	"errors"
	"syscall"

	"github.com/bamsammich/fastdd/internal/platform"
)

// errSpliceUnsupported means the kernel refused the first splice before
// any data moved, so the buffered pipeline should take over.
var errSpliceUnsupported = errors.New("splice not supported for these descriptors")

type fder interface {
	Fd() uintptr
}

// spliceCopier moves data with splice(2). When neither endpoint is a pipe
// every chunk goes through an anonymous pipe in two hops.
type spliceCopier struct {
	req  Request
	prog Progress

	rfd, wfd   int
	roff, woff *int64 // nil uses the descriptor's own position

	// pr and pw are the staging pipe ends; both are -1 for single-hop.
	pr, pw int
}

func newSpliceCopier(req Request) (*spliceCopier, bool) {
	src, ok := req.Src.(fder)
	if !ok {
		return nil, false
	}
	dst, ok := req.Dst.(fder)
	if !ok {
		return nil, false
	}
	rfd, wfd := int(src.Fd()), int(dst.Fd())
	if !platform.SpliceCapable(rfd) || !platform.SpliceCapable(wfd) {
		return nil, false
	}
	// An append-mode target fails only on the second hop, after the source
	// has already given up a chunk, so it is routed to the pipeline here.
	if platform.IsAppend(wfd) {
		return nil, false
	}

	s := &spliceCopier{
		req:  req,
		prog: req.progress(),
		rfd:  rfd,
		wfd:  wfd,
		pr:   -1,
		pw:   -1,
	}
	if req.Skip > 0 {
		off := req.Skip
		s.roff = &off
	}
	if req.Seek > 0 {
		off := req.Seek
		s.woff = &off
	}
	if !platform.FdIsFIFO(rfd) && !platform.FdIsFIFO(wfd) {
		pr, pw, err := platform.Pipe()
		if err != nil {
			return nil, false
		}
		platform.SetPipeSize(pw, req.ChunkSize)
		s.pr, s.pw = pr, pw
	}
	return s, true
}

func (s *spliceCopier) close() {
	if s.pr >= 0 {
		platform.ClosePipe(s.pr, s.pw)
		s.pr, s.pw = -1, -1
	}
}

func (s *spliceCopier) run(acct *Accounting) error {
	acct.Method = platform.Splice
	in, out := s.req.Skip, s.req.Seek
	remaining := s.req.Total
	for s.req.Total == 0 || remaining > 0 {
		chunk := s.req.nextChunk(remaining)

		var (
			n   int
			err error
		)
		if s.pr >= 0 {
			n, err = s.viaPipe(acct, chunk, in, out)
		} else {
			n, err = s.direct(acct, chunk, in, out)
		}
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		in += int64(n)
		out += int64(n)
		remaining -= int64(n)
	}
	return nil
}

// direct moves one chunk in a single hop; at least one endpoint is a pipe.
func (s *spliceCopier) direct(acct *Accounting, chunk int, in, out int64) (int, error) {
	n, err := spliceRetry(s.rfd, s.roff, s.wfd, s.woff, chunk)
	if err != nil {
		if acct.BytesRead == 0 && platform.IsFallbackErr(err) {
			return 0, errSpliceUnsupported
		}
		if isWriteErrno(err) {
			return 0, writeFault(out, err)
		}
		return 0, readFault(in, err)
	}
	if n > 0 {
		acct.BytesRead += int64(n)
		acct.BytesWritten += int64(n)
		s.delivered(n)
	}
	return n, nil
}

// viaPipe moves one chunk from the source into the staging pipe and then
// drains the pipe into the destination.
func (s *spliceCopier) viaPipe(acct *Accounting, chunk int, in, out int64) (int, error) {
	n, err := spliceRetry(s.rfd, s.roff, s.pw, nil, chunk)
	if err != nil {
		if acct.BytesRead == 0 && platform.IsFallbackErr(err) {
			return 0, errSpliceUnsupported
		}
		return 0, readFault(in, err)
	}
	if n == 0 {
		return 0, nil
	}
	acct.BytesRead += int64(n)

	for left := n; left > 0; {
		m, err := spliceRetry(s.pr, nil, s.wfd, s.woff, left)
		if err != nil {
			return 0, writeFault(out+int64(n-left), err)
		}
		if m == 0 {
			return 0, writeFault(out+int64(n-left), syscall.EIO)
		}
		left -= m
		acct.BytesWritten += int64(m)
		s.delivered(m)
	}
	return n, nil
}

func (s *spliceCopier) delivered(n int) {
	throttle(s.req.Limiter, n)
	s.prog.BytesTransferred(int64(n))
}

func spliceRetry(rfd int, roff *int64, wfd int, woff *int64, n int) (int, error) {
	for {
		m, err := platform.SpliceFd(rfd, roff, wfd, woff, n)
		if err != nil && platform.IsTransient(err) {
			continue
		}
		return m, err
	}
}

// isWriteErrno reports whether a single-hop splice error belongs to the
// destination side.
func isWriteErrno(err error) bool {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return false
	}
	switch errno {
	case syscall.EPIPE, syscall.ENOSPC, syscall.EDQUOT, syscall.EFBIG, syscall.EROFS:
		return true
	}
	return false
}
