package engine

import (
	"errors"
	"io"
	"math"

	"github.com/bamsammich/fastdd/internal/platform"
)

var errNoPosition = errors.New("destination does not support seek")

// positionSource returns a reader that starts skip bytes into src. A
// ReaderAt gets a pread cursor so the descriptor's own offset is left
// alone; a Seeker is seeked; anything else is read and dropped. eof is true
// when src ended before skip bytes were passed.
func positionSource(src io.Reader, skip int64) (r io.Reader, eof bool, err error) {
	if skip == 0 {
		return src, false, nil
	}
	if ra, ok := src.(io.ReaderAt); ok {
		return io.NewSectionReader(ra, skip, math.MaxInt64-skip), false, nil
	}
	if s, ok := src.(io.Seeker); ok {
		if _, err := s.Seek(skip, io.SeekStart); err != nil {
			return nil, false, readFault(skip, err)
		}
		return src, false, nil
	}
	n, err := platform.Discard(src, skip)
	if err != nil {
		return nil, false, readFault(n, err)
	}
	return src, n < skip, nil
}

// positionSink returns a writer whose first write lands seek bytes into
// dst, preferring a pwrite cursor over moving dst's own offset.
func positionSink(dst io.Writer, seek int64) (io.Writer, error) {
	if seek == 0 {
		return dst, nil
	}
	if wa, ok := dst.(io.WriterAt); ok {
		return io.NewOffsetWriter(wa, seek), nil
	}
	if s, ok := dst.(io.Seeker); ok {
		if _, err := s.Seek(seek, io.SeekStart); err != nil {
			return nil, writeFault(seek, err)
		}
		return dst, nil
	}
	return nil, configFault(errNoPosition)
}
