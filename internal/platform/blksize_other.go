//go:build !linux

package platform

import (
	"fmt"
	"io"
	"os"
)

// BlockDeviceSize returns the size in bytes of the device behind f by
// seeking to its end and restoring the previous position.
func BlockDeviceSize(f *os.File) (int64, error) {
	cur, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, fmt.Errorf("size %s: %w", f.Name(), err)
	}
	end, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("size %s: %w", f.Name(), err)
	}
	if _, err := f.Seek(cur, io.SeekStart); err != nil {
		return 0, fmt.Errorf("size %s: %w", f.Name(), err)
	}
	return end, nil
}
