package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bamsammich/fastdd/internal/platform"
	"github.com/bamsammich/fastdd/internal/ui"
)

func newDisksizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disksize DEVICE...",
		Short: "Print the size of block devices and files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, paths []string) error {
			var errs []error
			for _, p := range paths {
				if err := printSize(cmd.OutOrStdout(), p); err != nil {
					errs = append(errs, err)
				}
			}
			return errors.Join(errs...)
		},
	}
}

func printSize(w io.Writer, path string) error {
	size, err := deviceSize(path)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s: %s (%s bytes)\n", path, ui.FormatBytes(size), ui.FormatCount(size))
	return err
}

// deviceSize returns the capacity of a block device or the length of a
// regular file.
func deviceSize(path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("can't open %s: %w", path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("can't stat %s: %w", path, err)
	}
	m := fi.Mode()
	switch {
	case m.IsRegular():
		return fi.Size(), nil
	case m&os.ModeDevice != 0 && m&os.ModeCharDevice == 0:
		return platform.BlockDeviceSize(f)
	default:
		return 0, fmt.Errorf("%s is not a block device or regular file", path)
	}
}
