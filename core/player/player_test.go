package player

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"MeloFM/core/playlist"
	"MeloFM/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock 可手动拨动的时钟。
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// flakyBackend 模拟状态查询会失败的音频后端。
type flakyBackend struct {
	status  BackendStatus
	fail    bool
	stopped bool
}

func (b *flakyBackend) Status() (BackendStatus, error) {
	if b.fail {
		return "", errors.New("backend unavailable")
	}
	return b.status, nil
}

func (b *flakyBackend) Play(track model.Track) error { return nil }
func (b *flakyBackend) Stop() error                  { b.stopped = true; return nil }

func newTestPlayer(t *testing.T, n int) (*Player, *playlist.Engine, *fakeClock) {
	t.Helper()
	tracks := make([]model.Track, 0, n)
	for i := 0; i < n; i++ {
		tracks = append(tracks, model.Track{
			Name:     fmt.Sprintf("track%d", i),
			Filename: fmt.Sprintf("track%d.mp3", i),
			Path:     fmt.Sprintf("/music/track%d.mp3", i),
			Duration: "2:05", // 125秒
		})
	}
	queue := playlist.NewEngine()
	queue.Load(tracks, "", playlist.CategoryAll)

	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	p := New(queue, nil)
	p.now = func() time.Time { return clock.now }
	return p, queue, clock
}

func TestPlayEmptyPlaylist(t *testing.T) {
	p, _, _ := newTestPlayer(t, 0)
	assert.ErrorIs(t, p.Play(-1), ErrEmptyPlaylist)
	assert.Equal(t, StateStopped, p.State())
}

func TestPlayExplicitIndex(t *testing.T) {
	p, queue, _ := newTestPlayer(t, 5)
	for i := 0; i < 5; i++ {
		require.NoError(t, p.Play(i))
		assert.Equal(t, i, queue.CurrentIndex())
	}
	// 越界下标收敛
	require.NoError(t, p.Play(99))
	assert.Equal(t, 4, queue.CurrentIndex())
}

func TestPlayWithUnresolvedIndex(t *testing.T) {
	p, queue, _ := newTestPlayer(t, 3)
	queue.ClearCurrent()
	// 洗牌丢失当前曲目后（下标-1），Play 不应崩溃
	require.NoError(t, p.Play(-1))
	assert.Equal(t, 0, queue.CurrentIndex())
	assert.Equal(t, StatePlaying, p.State())
}

func TestPauseToggleWhenStopped(t *testing.T) {
	p, _, _ := newTestPlayer(t, 3)
	assert.ErrorIs(t, p.PauseToggle(), ErrNotPlaying)
}

func TestPauseAccumulatesAdditively(t *testing.T) {
	p, _, clock := newTestPlayer(t, 1)
	require.NoError(t, p.Play(0))

	// 播10秒，暂停30秒，再播5秒，再暂停100秒，再播5秒
	clock.advance(10 * time.Second)
	require.NoError(t, p.PauseToggle())
	clock.advance(30 * time.Second)
	assert.Equal(t, 10*time.Second, p.Elapsed(), "暂停期间时钟停表")

	require.NoError(t, p.PauseToggle())
	clock.advance(5 * time.Second)
	require.NoError(t, p.PauseToggle())
	clock.advance(100 * time.Second)
	require.NoError(t, p.PauseToggle())
	clock.advance(5 * time.Second)

	// 已播时长只统计播放中的20秒，暂停多久都不影响
	assert.Equal(t, 20*time.Second, p.Elapsed())
}

func TestNextAtEndWithoutLoop(t *testing.T) {
	p, queue, _ := newTestPlayer(t, 3)
	require.NoError(t, p.Play(2))

	err := p.Next()
	assert.ErrorIs(t, err, ErrEndOfPlaylist)
	assert.Equal(t, 2, queue.CurrentIndex(), "失败时下标不变")
	assert.Equal(t, StatePlaying, p.State(), "失败时状态不变")
}

func TestNextAtEndWithLoopWraps(t *testing.T) {
	p, queue, _ := newTestPlayer(t, 3)
	queue.ToggleLoop()
	require.NoError(t, p.Play(2))
	require.NoError(t, p.Next())
	assert.Equal(t, 0, queue.CurrentIndex())
}

func TestNextResetsSessionTimer(t *testing.T) {
	p, _, clock := newTestPlayer(t, 3)
	require.NoError(t, p.Play(0))
	clock.advance(42 * time.Second)
	require.NoError(t, p.Next())
	assert.Equal(t, time.Duration(0), p.Elapsed())
}

func TestPreviousAlwaysWraps(t *testing.T) {
	p, queue, _ := newTestPlayer(t, 4)
	require.NoError(t, p.Play(0))
	require.NoError(t, p.Previous())
	assert.Equal(t, 3, queue.CurrentIndex())
	require.NoError(t, p.Previous())
	assert.Equal(t, 2, queue.CurrentIndex())
}

func TestStopClearsCurrentTrack(t *testing.T) {
	p, queue, _ := newTestPlayer(t, 3)
	require.NoError(t, p.Play(1))
	p.Stop()

	assert.Equal(t, StateStopped, p.State())
	assert.Equal(t, -1, queue.CurrentIndex())
	assert.Equal(t, time.Duration(0), p.Elapsed())
}

func TestStopNotifiesBackend(t *testing.T) {
	backend := &flakyBackend{status: BackendPlaying}
	queue := playlist.NewEngine()
	queue.Load([]model.Track{{Name: "t", Path: "/t.mp3", Duration: "1:00"}}, "", playlist.CategoryAll)
	p := New(queue, backend)
	require.NoError(t, p.Play(0))
	p.Stop()
	assert.True(t, backend.stopped)
}

func TestVolumeClamping(t *testing.T) {
	p, _, _ := newTestPlayer(t, 1)

	assert.Equal(t, 100, p.SetVolume(150))
	assert.Equal(t, 0, p.SetVolume(-10))
	assert.Equal(t, 10, p.VolumeUp())
	assert.Equal(t, 0, p.VolumeDown())
	assert.Equal(t, 0, p.VolumeDown())

	p.SetVolume(95)
	assert.Equal(t, 100, p.VolumeUp())
}

func TestProgressMonotonicAndClamped(t *testing.T) {
	p, _, clock := newTestPlayer(t, 1) // 125秒曲目
	require.NoError(t, p.Play(0))

	last := -1
	for i := 0; i < 10; i++ {
		clock.advance(20 * time.Second)
		prog := p.Progress()
		assert.GreaterOrEqual(t, prog.Percent, last, "进度单调不减")
		assert.LessOrEqual(t, prog.Percent, 100)
		last = prog.Percent
	}
	assert.Equal(t, 100, last, "超过总时长后封顶在100")
	assert.Equal(t, "2:05", p.Progress().Total)
}

func TestProgressWithoutBackend(t *testing.T) {
	p, _, clock := newTestPlayer(t, 1)
	require.NoError(t, p.Play(0))
	clock.advance(65 * time.Second)

	prog := p.Progress()
	assert.Equal(t, "1:05", prog.Elapsed)
	assert.Equal(t, 52, prog.Percent)
	assert.Len(t, []rune(prog.Bar), 20)
}

func TestStateLabelFallsBackOnBackendFailure(t *testing.T) {
	backend := &flakyBackend{status: BackendPaused}
	queue := playlist.NewEngine()
	queue.Load([]model.Track{{Name: "t", Path: "/t.mp3", Duration: "1:00"}}, "", playlist.CategoryAll)
	p := New(queue, backend)
	require.NoError(t, p.Play(0))

	// 后端正常时展示后端状态
	assert.Equal(t, "paused", p.StateLabel())

	// 后端查询失败时回退到逻辑状态
	backend.fail = true
	assert.Equal(t, "playing", p.StateLabel())
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"2:05", 125},
		{"0:00", 0},
		{"10:30", 630},
		{"garbage", 0},
		{"", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseDuration(tt.input), tt.input)
	}
}
