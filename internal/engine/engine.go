// Package engine moves bytes from one descriptor to another. On Linux it
// uses splice(2) where the endpoints allow it and otherwise runs a
// two-goroutine pipeline over a fixed pool of buffers.
package engine

import (
	"errors"
	"time"

	"github.com/bamsammich/fastdd/internal/platform"
)

// Transfer copies req.Total bytes (or everything up to end of stream when
// Total is 0) from req.Src to req.Dst and records what happened in acct.
//
// A nil return is success. Any other return is a *Fault: ConfigFault
// before any I/O, ReadFault or WriteFault once bytes are moving. The
// request's Progress sees one BytesTransferred per delivered chunk and then
// exactly one Complete or Error, except for ConfigFault which reports
// nothing.
func Transfer(acct *Accounting, req Request) error {
	if err := validate(req); err != nil {
		return err
	}
	prog := req.progress()

	start := time.Now()
	err := run(acct, req)
	acct.Elapsed = time.Since(start)

	switch StatusOf(err) {
	case Success:
		prog.Complete()
	case ReadFault, WriteFault:
		prog.Error()
	}
	return err
}

func run(acct *Accounting, req Request) error {
	// Pipes cannot be positioned, so skip is consumed once here and the
	// engines below only ever see a zero skip for them.
	if req.SrcIsPipe && req.Skip > 0 {
		n, err := platform.Discard(req.Src, req.Skip)
		if err != nil {
			acct.Method = platform.ReadWrite
			return readFault(n, err)
		}
		if n < req.Skip {
			acct.Method = platform.ReadWrite
			return nil
		}
		req.Skip = 0
	}
	return transfer(acct, req)
}

func validate(req Request) error {
	switch {
	case req.Src == nil:
		return configFault(errors.New("no source"))
	case req.Dst == nil:
		return configFault(errors.New("no destination"))
	case req.DstIsPipe && req.Seek > 0:
		return configFault(ErrSeekOnPipe)
	case req.Skip < 0 || req.Seek < 0:
		return configFault(errors.New("negative offset"))
	case req.Total < 0:
		return configFault(errors.New("negative byte count"))
	case req.ChunkSize <= 0:
		return configFault(errors.New("chunk size must be positive"))
	case req.PoolSize < 0:
		return configFault(errors.New("negative pool size"))
	}
	return nil
}
