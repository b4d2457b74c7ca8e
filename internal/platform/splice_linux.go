//go:build linux

package platform

import (
	"golang.org/x/sys/unix"
)

const spliceFlags = unix.SPLICE_F_MOVE | unix.SPLICE_F_MORE

// SpliceFd moves up to n bytes from rfd to wfd inside the kernel. A nil
// offset pointer uses (and advances) the descriptor's own position; a
// non-nil one is used and advanced instead, leaving the descriptor alone.
func SpliceFd(rfd int, roff *int64, wfd int, woff *int64, n int) (int, error) {
	m, err := unix.Splice(rfd, roff, wfd, woff, n, spliceFlags)
	return int(m), err
}

// Pipe creates an anonymous close-on-exec pipe for two-hop splicing.
func Pipe() (r, w int, err error) {
	var p [2]int
	if err := unix.Pipe2(p[:], unix.O_CLOEXEC); err != nil {
		return -1, -1, err
	}
	return p[0], p[1], nil
}

// ClosePipe closes both ends of a pipe made by Pipe.
func ClosePipe(r, w int) {
	_ = unix.Close(r)
	_ = unix.Close(w)
}

// SetPipeSize asks the kernel to grow the pipe behind fd to hold size
// bytes. The kernel may round or refuse; the request is advisory.
func SetPipeSize(fd, size int) {
	//nolint:errcheck // pipe sizing is advisory; unprivileged limits apply
	unix.FcntlInt(uintptr(fd), unix.F_SETPIPE_SZ, size)
}

// FdIsFIFO reports whether fd refers to a pipe or FIFO.
func FdIsFIFO(fd int) bool {
	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return false
	}
	return st.Mode&unix.S_IFMT == unix.S_IFIFO
}

// SpliceCapable reports whether fd is a kind of file splice(2) can read
// from and write to: regular files, block devices, FIFOs and sockets.
// Character devices (terminals, /dev/zero on older kernels) are not.
func SpliceCapable(fd int) bool {
	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return false
	}
	switch st.Mode & unix.S_IFMT {
	case unix.S_IFREG, unix.S_IFBLK, unix.S_IFIFO, unix.S_IFSOCK:
		return true
	}
	return false
}

// IsAppend reports whether fd was opened with O_APPEND. splice(2) refuses
// append-mode targets with EINVAL.
func IsAppend(fd int) bool {
	fl, err := unix.FcntlInt(uintptr(fd), unix.F_GETFL, 0)
	if err != nil {
		return false
	}
	return fl&unix.O_APPEND != 0
}
