package platform

import (
	"errors"
	"io"
	"syscall"
)

// discardSize is the scratch buffer used to skip bytes on unseekable inputs.
const discardSize = 64 * 1024

// maxEmptyReads bounds how many (0, nil) reads are tolerated in a row before
// a reader is considered stuck.
const maxEmptyReads = 100

// IsTransient reports whether err is a condition that should simply be
// retried (interrupted call, would-block).
func IsTransient(err error) bool {
	return errors.Is(err, syscall.EINTR) || errors.Is(err, syscall.EAGAIN)
}

// ReadFull reads into buf until it is full, the reader reports end of
// stream, or a hard error occurs. A short count with a nil error means end
// of stream was reached.
func ReadFull(r io.Reader, buf []byte) (int, error) {
	var n, empty int
	for n < len(buf) {
		m, err := r.Read(buf[n:])
		n += m
		if err != nil {
			if errors.Is(err, io.EOF) {
				return n, nil
			}
			if IsTransient(err) {
				continue
			}
			return n, err
		}
		if m > 0 {
			empty = 0
			continue
		}
		empty++
		if empty >= maxEmptyReads {
			return n, io.ErrNoProgress
		}
	}
	return n, nil
}

// WriteFull writes all of buf, retrying partial writes and transient
// errors. It returns the number of bytes that reached w.
func WriteFull(w io.Writer, buf []byte) (int, error) {
	var n int
	for n < len(buf) {
		m, err := w.Write(buf[n:])
		n += m
		if err != nil {
			if IsTransient(err) {
				continue
			}
			return n, err
		}
		if m == 0 {
			return n, io.ErrShortWrite
		}
	}
	return n, nil
}

// Discard reads and drops n bytes from r. It is how skip is applied to
// inputs that cannot seek. A count below n with a nil error means r ended
// first.
func Discard(r io.Reader, n int64) (int64, error) {
	buf := make([]byte, min(n, discardSize))
	var done int64
	for done < n {
		want := min(n-done, int64(len(buf)))
		m, err := ReadFull(r, buf[:want])
		done += int64(m)
		if err != nil {
			return done, err
		}
		if int64(m) < want {
			break
		}
	}
	return done, nil
}
