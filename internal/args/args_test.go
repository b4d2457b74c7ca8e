package args

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	a := Defaults()
	assert.Equal(t, uint64(512), a.BS)
	assert.Equal(t, uint64(64*1024), a.IOSize)
	assert.Equal(t, os.O_CREATE|os.O_WRONLY, a.OFlag)
	assert.Equal(t, os.O_RDONLY, a.IFlag)
	assert.Empty(t, a.InFile)
	assert.Empty(t, a.OutFile)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		ops  []string
		want func(a *Args)
	}{
		{"empty", nil, func(*Args) {}},
		{"files", []string{"if=/tmp/in", "of=-"}, func(a *Args) {
			a.InFile, a.OutFile = "/tmp/in", "-"
		}},
		{"sizes with suffixes", []string{"bs=4k", "count=2M", "iosize=1MiB"}, func(a *Args) {
			a.BS, a.Count, a.IOSize = 4096, 2<<20, 1<<20
		}},
		{"integer skip and seek", []string{"skip=10", "seek=0x10"}, func(a *Args) {
			a.Skip, a.Seek = 10, 16
		}},
		{"size alias", []string{"bs=4k", "size=1000"}, func(a *Args) {
			a.BS, a.Count = 1, 1000
		}},
		{"later operand wins", []string{"bs=1k", "bs=2k"}, func(a *Args) {
			a.BS = 2048
		}},
		{"output flags", []string{"oflag=trunc,sync"}, func(a *Args) {
			a.OFlag |= os.O_TRUNC | os.O_SYNC
		}},
		{"nocreat", []string{"oflag=nocreat,notrunc"}, func(a *Args) {
			a.OFlag = os.O_WRONLY
		}},
		{"input strips output flags", []string{"iflag=trunc,excl"}, func(*Args) {}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(Defaults(), tt.ops)
			require.NoError(t, err)
			want := Defaults()
			tt.want(&want)
			assert.Equal(t, want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		ops  []string
		msg  string
	}{
		{"missing equals", []string{"bs"}, "missing '='"},
		{"unknown operand", []string{"cbs=10"}, "invalid operand cbs"},
		{"bad size", []string{"bs=lots"}, "not a size"},
		{"negative size", []string{"count=-1"}, "not a size"},
		{"skip takes integers", []string{"skip=4k"}, "not an integer"},
		{"zero block size", []string{"bs=0"}, "blocksize can't be zero"},
		{"zero iosize", []string{"iosize=0"}, "iosize must be"},
		{"unknown flag", []string{"oflag=fast"}, "unknown flag"},
		{"count overflow", []string{"bs=1G", "count=100G"}, "overflows"},
		{"seek overflow", []string{"bs=1M", "seek=0xffffffffffff"}, "overflows"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(Defaults(), tt.ops)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestParseExclWithoutCreat(t *testing.T) {
	a, err := Parse(Defaults(), []string{"oflag=nocreat,excl"})
	require.NoError(t, err)
	assert.Zero(t, a.OFlag&os.O_EXCL)

	a, err = Parse(Defaults(), []string{"oflag=excl"})
	require.NoError(t, err)
	assert.NotZero(t, a.OFlag&os.O_EXCL)
}

func TestByteConversions(t *testing.T) {
	a, err := Parse(Defaults(), []string{"bs=1k", "count=3", "skip=2", "seek=5"})
	require.NoError(t, err)
	assert.Equal(t, int64(3072), a.InBytes())
	assert.Equal(t, int64(2048), a.SkipBytes())
	assert.Equal(t, int64(5120), a.SeekBytes())
	assert.Zero(t, Defaults().InBytes())
}

func TestFlagString(t *testing.T) {
	assert.Equal(t, "rdonly", FlagString(os.O_RDONLY))
	assert.Equal(t, "wronly,creat", FlagString(os.O_CREATE|os.O_WRONLY))
	assert.Equal(t, "wronly,excl,creat,trunc", FlagString(os.O_WRONLY|os.O_CREATE|os.O_EXCL|os.O_TRUNC))
}

func TestKeysAreOperands(t *testing.T) {
	for _, k := range Keys() {
		assert.Contains(t, operands, k)
	}
	assert.Len(t, Keys(), len(operands))
}
