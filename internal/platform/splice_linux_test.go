//go:build linux

package platform

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpliceFileThroughPipe(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	data := []byte("AAAA_BBBB_CCCC")
	require.NoError(t, os.WriteFile(src, data, 0644))

	in, err := os.Open(src)
	require.NoError(t, err)
	defer in.Close()
	out, err := os.Create(dst)
	require.NoError(t, err)
	defer out.Close()

	pr, pw, err := Pipe()
	require.NoError(t, err)
	defer ClosePipe(pr, pw)
	SetPipeSize(pw, 1<<20)

	// Explicit cursors: the descriptors' own offsets must stay put.
	roff, woff := int64(5), int64(2)
	n, err := SpliceFd(int(in.Fd()), &roff, pw, nil, 4)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	m, err := SpliceFd(pr, nil, int(out.Fd()), &woff, n)
	require.NoError(t, err)
	require.Equal(t, 4, m)

	assert.Equal(t, int64(9), roff)
	assert.Equal(t, int64(6), woff)
	pos, err := in.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.Zero(t, pos)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, []byte("BBBB"), got[2:6])
}

func TestFdKinds(t *testing.T) {
	pr, pw, err := os.Pipe()
	require.NoError(t, err)
	defer pr.Close()
	defer pw.Close()
	assert.True(t, FdIsFIFO(int(pr.Fd())))
	assert.True(t, SpliceCapable(int(pr.Fd())))

	path := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(path, nil, 0644))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, FdIsFIFO(int(f.Fd())))
	assert.True(t, SpliceCapable(int(f.Fd())))

	null, err := os.Open(os.DevNull)
	require.NoError(t, err)
	defer null.Close()
	assert.False(t, SpliceCapable(int(null.Fd())))
}

func TestBlockDeviceSizeRegularFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0644))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	// BLKGETSIZE64 is only valid on block devices.
	_, err = BlockDeviceSize(f)
	assert.Error(t, err)
}

func TestPreallocateKeepsSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	_, err = f.Write([]byte("abc"))
	require.NoError(t, err)

	Preallocate(f, 0, 1<<20)
	Preallocate(f, 0, 0)

	fi, err := f.Stat()
	require.NoError(t, err)
	assert.Equal(t, int64(3), fi.Size())
}

func TestIsAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log")
	plain, err := os.Create(path)
	require.NoError(t, err)
	defer plain.Close()
	assert.False(t, IsAppend(int(plain.Fd())))

	app, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	require.NoError(t, err)
	defer app.Close()
	assert.True(t, IsAppend(int(app.Fd())))
}
