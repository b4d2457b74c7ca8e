package args

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/bamsammich/fastdd/internal/engine"
	"github.com/bamsammich/fastdd/internal/platform"
)

const outputPerm = 0o600

// Endpoint is one opened side of a transfer.
type Endpoint struct {
	Name string
	File *os.File
	Mode fs.FileMode
	// Pipe is set for endpoints without a file position.
	Pipe bool
	// Size is the byte size of regular files and block devices, else 0.
	Size int64

	owned bool
}

// Sized reports whether Size describes the endpoint's capacity.
func (e Endpoint) Sized() bool {
	return e.Mode.IsRegular() || isBlockDevice(e.Mode)
}

// Regular reports whether the endpoint is a plain file on disk.
func (e Endpoint) Regular() bool { return e.Mode.IsRegular() }

// Plan is a validated transfer with both endpoints open.
type Plan struct {
	Args Args
	In   Endpoint
	Out  Endpoint

	Skip  int64
	Seek  int64
	Total int64
}

// Open opens the endpoints named by a, falling back to stdin and stdout
// when if/of are empty or "-", and checks the requested range against
// what the input can supply.
func Open(a Args, stdin, stdout *os.File) (*Plan, error) {
	in, err := openEndpoint(a.InFile, "<STDIN>", stdin, a.IFlag, 0)
	if err != nil {
		return nil, err
	}
	out, err := openEndpoint(a.OutFile, "<STDOUT>", stdout, a.OFlag, outputPerm)
	if err != nil {
		_ = in.close()
		return nil, err
	}

	p := &Plan{
		Args:  a,
		In:    in,
		Out:   out,
		Skip:  a.SkipBytes(),
		Seek:  a.SeekBytes(),
		Total: a.InBytes(),
	}
	if err := p.check(); err != nil {
		_ = p.Close()
		return nil, err
	}
	return p, nil
}

func (p *Plan) check() error {
	if p.Out.Pipe && p.Seek > 0 {
		return fmt.Errorf("%s: %w", p.Out.Name, engine.ErrSeekOnPipe)
	}
	if p.Total == 0 || p.In.Pipe || !p.In.Sized() {
		return nil
	}
	if p.Skip > p.In.Size {
		return fmt.Errorf("%s: %d input blocks skips past end of input", p.In.Name, p.Args.Skip)
	}
	if p.Total > p.In.Size-p.Skip {
		return fmt.Errorf("%s: input size %d is greater than available %d bytes",
			p.In.Name, p.Total, p.In.Size-p.Skip)
	}
	return nil
}

// Expected returns the number of bytes the transfer should move, or 0 when
// it cannot be known in advance.
func (p *Plan) Expected() int64 {
	if p.Total > 0 {
		return p.Total
	}
	if !p.In.Pipe && p.In.Sized() && p.In.Size > p.Skip {
		return p.In.Size - p.Skip
	}
	return 0
}

// Request returns the engine request for this plan. Callers fill in the
// optional engine knobs.
func (p *Plan) Request() engine.Request {
	return engine.Request{
		Src:       p.In.File,
		Dst:       p.Out.File,
		SrcIsPipe: p.In.Pipe,
		DstIsPipe: p.Out.Pipe,
		Skip:      p.Skip,
		Seek:      p.Seek,
		Total:     p.Total,
		ChunkSize: int(p.Args.IOSize),
	}
}

// Close closes the files Open opened. Standard streams are left alone.
func (p *Plan) Close() error {
	return errors.Join(p.In.close(), p.Out.close())
}

func (p *Plan) String() string {
	return fmt.Sprintf("if=%s%s of=%s%s size=%d iflag=%s oflag=%s (bs=%d count=%d iosize=%d)",
		p.In.Name, pipeTag(p.In.Pipe),
		p.Out.Name, pipeTag(p.Out.Pipe),
		p.Expected(), FlagString(p.Args.IFlag), FlagString(p.Args.OFlag),
		p.Args.BS, p.Args.Count, p.Args.IOSize)
}

func pipeTag(pipe bool) string {
	if pipe {
		return " (pipe)"
	}
	return ""
}

func openEndpoint(path, stdName string, std *os.File, flag int, perm fs.FileMode) (Endpoint, error) {
	ep := Endpoint{Name: path}
	if path == "" || path == "-" {
		if std == nil {
			return Endpoint{}, fmt.Errorf("%s is not available", stdName)
		}
		ep.Name = stdName
		ep.File = std
	} else {
		f, err := os.OpenFile(path, flag, perm)
		if err != nil {
			return Endpoint{}, fmt.Errorf("can't open %s: %w", path, err)
		}
		ep.File = f
		ep.owned = true
	}

	fi, err := ep.File.Stat()
	if err != nil {
		_ = ep.close()
		return Endpoint{}, fmt.Errorf("can't stat %s: %w", ep.Name, err)
	}
	ep.Mode = fi.Mode()
	if !acceptable(ep.Mode) {
		_ = ep.close()
		return Endpoint{}, fmt.Errorf("%s is not a file, device, socket or fifo", ep.Name)
	}

	switch {
	case ep.Mode.IsRegular():
		ep.Size = fi.Size()
	case isBlockDevice(ep.Mode):
		size, err := platform.BlockDeviceSize(ep.File)
		if err != nil {
			_ = ep.close()
			return Endpoint{}, fmt.Errorf("can't get size of %s: %w", ep.Name, err)
		}
		ep.Size = size
	}
	ep.Pipe = platform.IsPipe(ep.File)
	return ep, nil
}

func (e Endpoint) close() error {
	if !e.owned || e.File == nil {
		return nil
	}
	if err := e.File.Close(); err != nil {
		return fmt.Errorf("close %s: %w", e.Name, err)
	}
	return nil
}

func acceptable(m fs.FileMode) bool {
	if m.IsRegular() {
		return true
	}
	return m&(fs.ModeNamedPipe|fs.ModeDevice|fs.ModeCharDevice|fs.ModeSocket) != 0
}

func isBlockDevice(m fs.FileMode) bool {
	return m&fs.ModeDevice != 0 && m&fs.ModeCharDevice == 0
}
