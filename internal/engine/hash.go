package engine

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// ErrVerifyMismatch is returned by VerifyRange when the two ranges differ.
var ErrVerifyMismatch = errors.New("verification failed: checksum mismatch")

// HashRange computes the BLAKE3 hash of n bytes of the file at path starting
// at off, returning the hex-encoded digest. n == 0 hashes to end of file.
func HashRange(path string, off, n int64) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = io.NewSectionReader(f, off, 1<<63-1-off)
	if n > 0 {
		r = io.NewSectionReader(f, off, n)
	}

	h := blake3.New()
	buf := make([]byte, 32*1024)
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}

	digest := h.Sum(nil)
	return hex.EncodeToString(digest), nil
}

// VerifyRange checks that n bytes of src at srcOff match n bytes of dst at
// dstOff. A short destination counts as a mismatch.
func VerifyRange(src string, srcOff int64, dst string, dstOff, n int64) error {
	if n == 0 {
		return nil
	}
	want, err := HashRange(src, srcOff, n)
	if err != nil {
		return err
	}
	got, err := HashRange(dst, dstOff, n)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("%s: %w (src=%s dst=%s)", dst, ErrVerifyMismatch, want[:16], got[:16])
	}
	return nil
}
