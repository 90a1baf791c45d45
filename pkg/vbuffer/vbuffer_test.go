package vbuffer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPWriteGrowAndPRead(t *testing.T) {
	b := New(nil)

	n, err := b.PWrite([]byte("hello"), 0, true)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, int64(5), b.Size())

	n, err = b.PWrite([]byte("world"), 10, true)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, int64(15), b.Size())

	out := make([]byte, 15)
	read, err := b.PRead(out, 0, true)
	require.NoError(t, err)
	assert.Equal(t, 15, read)
	assert.Equal(t, "hello\x00\x00\x00\x00\x00world", string(out))
}

func TestPWriteGrowOverlappingTailOverwritesInPlace(t *testing.T) {
	b := New(nil)

	n, err := b.PWrite([]byte("AAAAAAAAAA"), 0, true)
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	assert.Equal(t, int64(10), b.Size())

	data := make([]byte, 20)
	for i := range data {
		data[i] = 'X'
	}
	n, err = b.PWrite(data, 5, true)
	require.NoError(t, err)
	assert.Equal(t, 20, n)
	assert.Equal(t, int64(25), b.Size(), "overlapping tail bytes must be overwritten in place, not duplicated")

	out := make([]byte, 25)
	read, err := b.PRead(out, 0, true)
	require.NoError(t, err)
	assert.Equal(t, 25, read)
	assert.Equal(t, "AAAAA"+string(data), string(out))
}

func TestPWriteWithoutGrowFailsPastEnd(t *testing.T) {
	b := New(nil)
	_, err := b.PWrite([]byte("abc"), 0, true)
	require.NoError(t, err)

	_, err = b.PWrite([]byte("xyz"), 2, false)
	assert.Error(t, err)
}

func TestPReadRequireFullFailsShort(t *testing.T) {
	b := New(nil)
	_, err := b.PWrite([]byte("abc"), 0, true)
	require.NoError(t, err)

	out := make([]byte, 10)
	_, err = b.PRead(out, 0, true)
	assert.Error(t, err)

	n, err := b.PRead(out, 0, false)
	assert.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestPInsertShiftsContent(t *testing.T) {
	b := New(nil)
	_, err := b.PWrite([]byte("helloworld"), 0, true)
	require.NoError(t, err)

	err = b.PInsert([]byte(" big "), 5)
	require.NoError(t, err)

	out := make([]byte, int(b.Size()))
	_, err = b.PRead(out, 0, true)
	require.NoError(t, err)
	assert.Equal(t, "hello big world", string(out))
}

func TestPEraseRemovesContent(t *testing.T) {
	b := New(nil)
	_, err := b.PWrite([]byte("hello big world"), 0, true)
	require.NoError(t, err)

	removed, err := b.PErase(4, 5)
	require.NoError(t, err)
	assert.Equal(t, 4, removed)

	out := make([]byte, int(b.Size()))
	_, err = b.PRead(out, 0, true)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(out))
}

func TestPEraseClampsPastEnd(t *testing.T) {
	b := New(nil)
	_, err := b.PWrite([]byte("abc"), 0, true)
	require.NoError(t, err)

	removed, err := b.PErase(100, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Equal(t, int64(1), b.Size())
}

func TestAppendBlockNoCopy(t *testing.T) {
	page := &memBlock{data: []byte("0123456789")}
	b := New(nil)
	b.AppendBlock(page, 2, 5) // "23456"

	out := make([]byte, 5)
	_, err := b.PRead(out, 0, true)
	require.NoError(t, err)
	assert.Equal(t, "23456", string(out))

	_, err = b.PWrite([]byte("XX"), 0, false)
	require.NoError(t, err)
	assert.Equal(t, "01XX56789", string(page.data))
}

func TestSaveAndLoadFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "buffer.bin")

	b := New(nil)
	_, err := b.PWrite([]byte("persisted content"), 0, true)
	require.NoError(t, err)
	require.NoError(t, b.SaveFile(path))

	loaded := New(nil)
	require.NoError(t, loaded.LoadFile(path, true))
	assert.Equal(t, b.Size(), loaded.Size())

	out := make([]byte, int(loaded.Size()))
	_, err = loaded.PRead(out, 0, true)
	require.NoError(t, err)
	assert.Equal(t, "persisted content", string(out))
}

func TestLoadFileMissingNotRequired(t *testing.T) {
	b := New(nil)
	err := b.LoadFile(filepath.Join(t.TempDir(), "missing.bin"), false)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), b.Size())
}

func TestLoadFileMissingRequired(t *testing.T) {
	b := New(nil)
	err := b.LoadFile(filepath.Join(t.TempDir(), "missing.bin"), true)
	assert.Error(t, err)
}

func TestCompressedSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "buffer.zst")

	b := New(nil)
	b.EnableCompression(true)
	_, err := b.PWrite([]byte("compressed content, compressed content"), 0, true)
	require.NoError(t, err)
	require.NoError(t, b.SaveFile(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	loaded := New(nil)
	loaded.EnableCompression(true)
	require.NoError(t, loaded.LoadFile(path, true))

	out := make([]byte, int(loaded.Size()))
	_, err = loaded.PRead(out, 0, true)
	require.NoError(t, err)
	assert.Equal(t, "compressed content, compressed content", string(out))
}

type memBlock struct {
	data []byte
}

func (m *memBlock) Bytes() []byte { return m.data }
