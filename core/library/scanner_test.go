package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFileOfSize(t *testing.T, path string, size int64) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(size))
	require.NoError(t, f.Close())
}

func TestEstimateDuration(t *testing.T) {
	tests := []struct {
		name string
		size int64
		ext  string
		want string
	}{
		{"mp3 2MB", 2000000, ".mp3", "2:05"},
		{"mp3 zero", 0, ".mp3", "0:00"},
		{"wav uses cd bitrate", 1411000 / 8 * 60, ".wav", "1:00"},
		{"flac", 1000000 / 8 * 90, ".flac", "1:30"},
		{"unknown ext falls back to 128k", 128000 / 8 * 10, ".ogg", "0:10"},
		{"case insensitive", 2000000, ".MP3", "2:05"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimateDuration(tt.size, tt.ext))
		})
	}
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	writeFileOfSize(t, filepath.Join(dir, "song1.mp3"), 2000000)
	writeFileOfSize(t, filepath.Join(dir, "song2.flac"), 1000)
	writeFileOfSize(t, filepath.Join(dir, "notes.txt"), 10)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0755))
	writeFileOfSize(t, filepath.Join(dir, "nested", "hidden.mp3"), 1000)

	tracks := Scan([]string{dir}, []string{".mp3", ".flac"})
	require.Len(t, tracks, 2, "非音频文件和子目录都应被跳过")

	byName := map[string]string{}
	for _, tr := range tracks {
		byName[tr.Filename] = tr.Duration
		assert.Equal(t, dir, tr.Dir)
		assert.True(t, filepath.IsAbs(tr.Path))
	}
	assert.Equal(t, "2:05", byName["song1.mp3"])

	for _, tr := range tracks {
		if tr.Filename == "song1.mp3" {
			assert.Equal(t, "song1", tr.Name)
			assert.Equal(t, ".mp3", tr.Ext)
			assert.Equal(t, int64(2000000), tr.Size)
		}
	}
}

func TestScanMissingDirSkippedSilently(t *testing.T) {
	tracks := Scan([]string{filepath.Join(t.TempDir(), "does-not-exist")}, []string{".mp3"})
	assert.Empty(t, tracks)
}

func TestLibraryRescanAndResolve(t *testing.T) {
	dir := t.TempDir()
	writeFileOfSize(t, filepath.Join(dir, "a.mp3"), 1000)

	lib := New([]string{dir}, []string{".mp3"})
	tracks := lib.Rescan()
	require.Len(t, tracks, 1)

	got, ok := lib.Resolve(tracks[0].Path)
	require.True(t, ok)
	assert.Equal(t, tracks[0], got)

	_, ok = lib.Resolve("/nonexistent/path.mp3")
	assert.False(t, ok)

	// 删除文件后重扫，曲目应消失
	require.NoError(t, os.Remove(filepath.Join(dir, "a.mp3")))
	assert.Empty(t, lib.Rescan())
}
