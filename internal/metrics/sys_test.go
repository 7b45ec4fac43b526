package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSysHealth(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "likes.json"), make([]byte, 2048), 0644))

	h := GetSysHealth(dir)
	assert.Positive(t, h.Goroutines)
	assert.Positive(t, h.SysBytes)
	assert.GreaterOrEqual(t, h.Uptime.Seconds(), 0.0)
	assert.Equal(t, 1, h.DataFiles)
	assert.Equal(t, int64(2048), h.DataBytes)
	assert.Equal(t, "2.0 KiB in 1 file", h.DataSize())
}

func TestDirUsage(t *testing.T) {
	dir := t.TempDir()
	files, size := dirUsage(dir)
	assert.Equal(t, 0, files)
	assert.Equal(t, int64(0), size)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "kv"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a"), make([]byte, 100), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "kv", "b"), make([]byte, 50), 0644))
	files, size = dirUsage(dir)
	assert.Equal(t, 2, files)
	assert.Equal(t, int64(150), size)

	files, size = dirUsage(filepath.Join(dir, "missing"))
	assert.Equal(t, 0, files)
	assert.Equal(t, int64(0), size)
}

func TestSysHealthFormatting(t *testing.T) {
	h := SysHealth{HeapBytes: 100, SysBytes: 2048, DataFiles: 3, DataBytes: 0}
	assert.Equal(t, "100 B heap / 2.0 KiB reserved", h.Memory())
	assert.Equal(t, "0 B in 3 files", h.DataSize())
}
