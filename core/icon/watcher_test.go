package icon

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"MeloFM/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 等待条件成立，文件事件的投递时机不可控，轮询比固定sleep稳。
func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	assert.Fail(t, msg)
}

func TestWatcherPicksUpDroppedFile(t *testing.T) {
	m, buttons := newTestManager(t)

	w, err := NewWatcher(m, 50*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(buttons, "play.png"), []byte("img"), 0644))

	eventually(t, func() bool {
		_, ok := m.Icons()[model.SlotPlay]
		return ok
	}, "拖入的图片应在去抖后被归类到槽位")
}

func TestWatcherPurgesDeletedFile(t *testing.T) {
	m, buttons := newTestManager(t)
	path := writeIcon(t, buttons, "pause.png")
	_, _, err := m.ScanAndAutoDetect()
	require.NoError(t, err)
	require.Contains(t, m.Icons(), model.SlotPause)

	w, err := NewWatcher(m, 50*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.Remove(path))

	eventually(t, func() bool {
		_, ok := m.Icons()[model.SlotPause]
		return !ok
	}, "删除背后文件后槽位应被清理")
}

func TestWatcherIgnoresNonImageFiles(t *testing.T) {
	m, buttons := newTestManager(t)

	w, err := NewWatcher(m, 50*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(buttons, "readme.txt"), []byte("x"), 0644))

	time.Sleep(300 * time.Millisecond)
	assert.Empty(t, m.Icons())
}
