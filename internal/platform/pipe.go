package platform

import (
	"errors"
	"io"
	"os"
	"syscall"
)

// IsPipe reports whether f has no random-access position (pipes, FIFOs,
// sockets). Unlike a raw lseek probe it leaves the file offset untouched.
func IsPipe(f *os.File) bool {
	_, err := f.Seek(0, io.SeekCurrent)
	return errors.Is(err, syscall.ESPIPE)
}

// IsFIFO reports whether f is a pipe or named FIFO.
func IsFIFO(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeNamedPipe != 0
}

// IsFallbackErr reports whether err means the kernel cannot serve a
// zero-copy request for these descriptors, so a buffered copy should be
// used instead.
func IsFallbackErr(err error) bool {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return false
	}
	switch errno {
	case syscall.ENOSYS, syscall.EXDEV, syscall.EINVAL, syscall.EOPNOTSUPP:
		return true
	}
	return false
}
