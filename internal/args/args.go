// Package args parses dd-style key=value operands and turns them into an
// open, validated transfer plan.
package args

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"os"
	"strconv"
	"strings"

	"github.com/docker/go-units"
)

const (
	// DefaultBlockSize matches dd.
	DefaultBlockSize = 512
	// DefaultIOSize is the default chunk handed to each read, write or splice.
	DefaultIOSize = 64 * 1024
	// MaxIOSize bounds iosize so a pool of buffers stays allocatable.
	MaxIOSize = 1 << 30
)

// Args is a parsed set of operands. Skip and Seek are in blocks of BS;
// Count is in blocks and 0 means "until end of input".
type Args struct {
	InFile  string
	OutFile string

	BS     uint64
	Count  uint64
	Skip   uint64
	Seek   uint64
	IOSize uint64

	// IFlag and OFlag are open(2) flags.
	IFlag int
	OFlag int
}

// Defaults returns the operand values used when none are given: stdin to
// stdout, 512-byte blocks, 64 KiB I/O, and an output that is created if
// missing but never truncated.
func Defaults() Args {
	return Args{
		BS:     DefaultBlockSize,
		IOSize: DefaultIOSize,
		IFlag:  os.O_RDONLY,
		OFlag:  os.O_CREATE | os.O_WRONLY,
	}
}

type setter func(a *Args, v string) error

// operands maps each accepted key to the setter that stores its value.
var operands = map[string]setter{
	"if":     func(a *Args, v string) error { a.InFile = v; return nil },
	"of":     func(a *Args, v string) error { a.OutFile = v; return nil },
	"bs":     sizeOperand(func(a *Args) *uint64 { return &a.BS }),
	"count":  sizeOperand(func(a *Args) *uint64 { return &a.Count }),
	"iosize": sizeOperand(func(a *Args) *uint64 { return &a.IOSize }),
	"skip":   intOperand(func(a *Args) *uint64 { return &a.Skip }),
	"seek":   intOperand(func(a *Args) *uint64 { return &a.Seek }),
	"size": func(a *Args, v string) error {
		n, err := parseSize(v)
		if err != nil {
			return err
		}
		a.BS, a.Count = 1, n
		return nil
	},
	"iflag": func(a *Args, v string) error { return parseFlags(&a.IFlag, v) },
	"oflag": func(a *Args, v string) error { return parseFlags(&a.OFlag, v) },
}

// Keys returns the accepted operand names.
func Keys() []string {
	return []string{"if", "of", "bs", "count", "skip", "seek", "iosize", "size", "iflag", "oflag"}
}

func sizeOperand(field func(*Args) *uint64) setter {
	return func(a *Args, v string) error {
		n, err := parseSize(v)
		if err != nil {
			return err
		}
		*field(a) = n
		return nil
	}
}

func intOperand(field func(*Args) *uint64) setter {
	return func(a *Args, v string) error {
		n, err := strconv.ParseUint(v, 0, 64)
		if err != nil {
			return fmt.Errorf("%q is not an integer", v)
		}
		*field(a) = n
		return nil
	}
}

// parseSize accepts plain byte counts and binary suffixes (64k, 1M, 2GiB).
func parseSize(v string) (uint64, error) {
	n, err := units.RAMInBytes(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%q is not a size", v)
	}
	return uint64(n), nil
}

// Parse applies operands of the form key=value on top of base. Later
// operands override earlier ones.
func Parse(base Args, list []string) (Args, error) {
	a := base
	for _, op := range list {
		key, val, ok := strings.Cut(op, "=")
		if !ok {
			return Args{}, fmt.Errorf("missing '=' in argument %s", op)
		}
		set, found := operands[key]
		if !found {
			return Args{}, fmt.Errorf("invalid operand %s", key)
		}
		if err := set(&a, val); err != nil {
			return Args{}, fmt.Errorf("argument to %s: %w", key, err)
		}
	}

	// Output-only flags make no sense on the input.
	a.IFlag &^= os.O_EXCL | os.O_TRUNC | os.O_WRONLY | os.O_RDWR | os.O_CREATE

	if err := a.validate(); err != nil {
		return Args{}, err
	}
	return a, nil
}

var errOverflow = errors.New("value overflows a 64-bit byte count")

func (a Args) validate() error {
	if a.BS == 0 {
		return errors.New("blocksize can't be zero")
	}
	if a.IOSize == 0 || a.IOSize > MaxIOSize {
		return fmt.Errorf("iosize must be between 1 and %d", MaxIOSize)
	}
	for name, v := range map[string]uint64{"count": a.Count, "skip": a.Skip, "seek": a.Seek} {
		if _, err := mulBytes(v, a.BS); err != nil {
			return fmt.Errorf("%s=%d with bs=%d: %w", name, v, a.BS, err)
		}
	}
	return nil
}

// mulBytes returns blocks*bs as a non-negative int64.
func mulBytes(blocks, bs uint64) (int64, error) {
	hi, lo := bits.Mul64(blocks, bs)
	if hi != 0 || lo > math.MaxInt64 {
		return 0, errOverflow
	}
	return int64(lo), nil
}

// InBytes returns the byte count requested by count, 0 when unbounded.
func (a Args) InBytes() int64 {
	n, _ := mulBytes(a.Count, a.BS)
	return n
}

// SkipBytes returns the input offset in bytes.
func (a Args) SkipBytes() int64 {
	n, _ := mulBytes(a.Skip, a.BS)
	return n
}

// SeekBytes returns the output offset in bytes.
func (a Args) SeekBytes() int64 {
	n, _ := mulBytes(a.Seek, a.BS)
	return n
}
