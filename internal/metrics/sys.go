package metrics

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
)

var startedAt = time.Now()

// SysHealth is a point-in-time view of the process and its data directory.
type SysHealth struct {
	HeapBytes  uint64
	SysBytes   uint64
	NumGC      uint32
	Goroutines int
	Uptime     time.Duration
	DataFiles  int
	DataBytes  int64
}

// GetSysHealth samples the runtime and walks dataDir, which holds the
// database and the key/value store. An unreadable directory counts as empty.
func GetSysHealth(dataDir string) SysHealth {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	files, size := dirUsage(dataDir)
	return SysHealth{
		HeapBytes:  m.HeapAlloc,
		SysBytes:   m.Sys,
		NumGC:      m.NumGC,
		Goroutines: runtime.NumGoroutine(),
		Uptime:     time.Since(startedAt).Truncate(time.Second),
		DataFiles:  files,
		DataBytes:  size,
	}
}

// Memory renders heap and reserved memory, e.g. "3.2 MiB heap / 12 MiB reserved".
func (h SysHealth) Memory() string {
	return fmt.Sprintf("%s heap / %s reserved", humanize.IBytes(h.HeapBytes), humanize.IBytes(h.SysBytes))
}

// DataSize renders the data directory size, e.g. "2.0 KiB in 3 files".
func (h SysHealth) DataSize() string {
	noun := "files"
	if h.DataFiles == 1 {
		noun = "file"
	}
	return fmt.Sprintf("%s in %d %s", humanize.IBytes(uint64(h.DataBytes)), h.DataFiles, noun)
}

func dirUsage(dir string) (int, int64) {
	var files int
	var size int64
	_ = filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		files++
		size += info.Size()
		return nil
	})
	return files, size
}
