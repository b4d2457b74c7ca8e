package engine

import (
	"errors"
	"fmt"
)

// Status is the terminal outcome of a transfer.
type Status int

const (
	Success Status = iota
	ReadFault
	WriteFault
	ConfigFault
)

var statusNames = [...]string{
	Success:     "success",
	ReadFault:   "read fault",
	WriteFault:  "write fault",
	ConfigFault: "configuration fault",
}

func (s Status) String() string {
	if s >= 0 && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

// ErrSeekOnPipe rejects a seek on a destination that has no position.
var ErrSeekOnPipe = errors.New("cannot seek on output pipe")

// Fault is the error returned by Transfer. Err is the underlying cause,
// usually a syscall.Errno; Offset is the byte offset on the faulting side.
type Fault struct {
	Status Status
	Offset int64
	Err    error
}

func (f *Fault) Error() string {
	switch f.Status {
	case ReadFault:
		return fmt.Sprintf("read error at offset %d: %v", f.Offset, f.Err)
	case WriteFault:
		return fmt.Sprintf("write error at offset %d: %v", f.Offset, f.Err)
	default:
		return fmt.Sprintf("invalid transfer: %v", f.Err)
	}
}

func (f *Fault) Unwrap() error { return f.Err }

func readFault(off int64, err error) *Fault {
	return &Fault{Status: ReadFault, Offset: off, Err: err}
}

func writeFault(off int64, err error) *Fault {
	return &Fault{Status: WriteFault, Offset: off, Err: err}
}

func configFault(err error) *Fault {
	return &Fault{Status: ConfigFault, Err: err}
}

// StatusOf maps an error returned by Transfer to its Status. Errors that
// did not come from a transfer are treated as configuration problems.
func StatusOf(err error) Status {
	if err == nil {
		return Success
	}
	var f *Fault
	if errors.As(err, &f) {
		return f.Status
	}
	return ConfigFault
}
