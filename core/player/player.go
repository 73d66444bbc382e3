package player

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"MeloFM/core/playlist"
	"MeloFM/logger"
	"MeloFM/model"
)

var (
	ErrEmptyPlaylist = errors.New("播放列表为空")
	ErrNotPlaying    = errors.New("当前没有播放")
	ErrEndOfPlaylist = errors.New("已经是最后一首")
)

// State 是播放器的逻辑状态。
type State int

const (
	StateStopped State = iota
	StatePlaying
	StatePaused
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "stopped"
	}
}

const (
	volumeStep  = 10
	progressLen = 20
)

// Player 是播放状态机。实际音频渲染交给可选的 Backend，
// 但逻辑状态和播放时长完全由这里的会话时钟负责：
//
//	elapsed = isPaused ? accumulated : now - startTime + accumulated
//
// 每次换曲目会重置会话（accumulated=0, startTime=now）。
type Player struct {
	mu          sync.Mutex
	queue       *playlist.Engine
	backend     Backend
	state       State
	volume      int
	startTime   time.Time
	accumulated time.Duration

	// now 可注入，测试用
	now func() time.Time
}

// New 创建播放器。backend 可以为 nil，此时只有逻辑时钟。
func New(queue *playlist.Engine, backend Backend) *Player {
	return &Player{
		queue:   queue,
		backend: backend,
		state:   StateStopped,
		volume:  50,
		now:     time.Now,
	}
}

// Play 从任意状态进入 Playing。index 为 -1 时沿用当前曲目，
// 显式下标越界时收敛。空播放列表返回 ErrEmptyPlaylist，状态不变。
func (p *Player) Play(index int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.queue.Len() == 0 {
		return ErrEmptyPlaylist
	}
	if index < 0 {
		// 洗牌后当前曲目可能已不在列表中（下标 -1），防御性回到 0
		index = p.queue.CurrentIndex()
		if index < 0 {
			index = 0
		}
	}
	p.queue.SetCurrent(index)
	p.resetSessionLocked()
	p.state = StatePlaying

	if track, ok := p.queue.Current(); ok {
		p.backendPlay(track)
		logger.Info("开始播放", logger.String("track", track.Name), logger.Int("index", p.queue.CurrentIndex()))
	}
	return nil
}

// PauseToggle 在 Playing/Paused 之间切换。
// 暂停时把本段已播时长折进累加器并停表，恢复时重新起表但不清累加器。
// Stopped 状态下返回 ErrNotPlaying。
func (p *Player) PauseToggle() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case StatePlaying:
		p.accumulated += p.now().Sub(p.startTime)
		p.state = StatePaused
	case StatePaused:
		p.startTime = p.now()
		p.state = StatePlaying
	default:
		return ErrNotPlaying
	}
	return nil
}

// Next 前进一首。到结尾时仅在 loop 开启时回绕到 0，
// 否则返回 ErrEndOfPlaylist 且下标和状态都不变。
func (p *Player) Next() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := p.queue.Len()
	if n == 0 {
		return ErrEmptyPlaylist
	}
	next := p.queue.CurrentIndex() + 1
	if next >= n {
		if !p.queue.Loop() {
			return ErrEndOfPlaylist
		}
		next = 0
	}
	p.queue.SetCurrent(next)
	p.resetSessionLocked()
	p.state = StatePlaying

	if track, ok := p.queue.Current(); ok {
		p.backendPlay(track)
	}
	return nil
}

// Previous 后退一首，在下标 0 时总是回绕到末尾，非空列表不会失败。
func (p *Player) Previous() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := p.queue.Len()
	if n == 0 {
		return ErrEmptyPlaylist
	}
	prev := p.queue.CurrentIndex() - 1
	if prev < 0 {
		prev = n - 1
	}
	p.queue.SetCurrent(prev)
	p.resetSessionLocked()
	p.state = StatePlaying

	if track, ok := p.queue.Current(); ok {
		p.backendPlay(track)
	}
	return nil
}

// Stop 从任意状态进入 Stopped 并清除当前曲目，
// 如果挂了音频后端则顺带要求它停止。
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.state = StateStopped
	p.accumulated = 0
	p.queue.ClearCurrent()

	if p.backend != nil {
		if err := p.backend.Stop(); err != nil {
			logger.Warn("音频后端停止失败", logger.ErrorField(err))
		}
	}
}

// State 返回逻辑状态。
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Volume 返回音量（0-100）。
func (p *Player) Volume() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetVolume 设置音量并收敛到 [0, 100]。
func (p *Player) SetVolume(v int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = clampVolume(v)
	return p.volume
}

// VolumeUp 音量 +10。
func (p *Player) VolumeUp() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = clampVolume(p.volume + volumeStep)
	return p.volume
}

// VolumeDown 音量 -10。
func (p *Player) VolumeDown() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = clampVolume(p.volume - volumeStep)
	return p.volume
}

func clampVolume(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Elapsed 返回当前曲目的已播时长，完全来自会话时钟。
func (p *Player) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.elapsedLocked()
}

func (p *Player) elapsedLocked() time.Duration {
	switch p.state {
	case StatePlaying:
		return p.now().Sub(p.startTime) + p.accumulated
	case StatePaused:
		return p.accumulated
	default:
		return 0
	}
}

// Progress 是展示层用的进度快照。
type Progress struct {
	Elapsed string `json:"elapsed"`
	Total   string `json:"total"`
	Percent int    `json:"percent"`
	Bar     string `json:"bar"`
}

// Progress 从会话时钟和曲目估算时长推导进度。
// 不查询音频后端，没挂后端时同样可用。
func (p *Player) Progress() Progress {
	p.mu.Lock()
	defer p.mu.Unlock()

	elapsed := int(p.elapsedLocked().Seconds())
	total := 0
	if track, ok := p.queue.Current(); ok {
		total = parseDuration(track.Duration)
	}

	percent := 0
	if total > 0 {
		percent = elapsed * 100 / total
	}
	if percent > 100 {
		percent = 100
	}
	if percent < 0 {
		percent = 0
	}

	filled := percent * progressLen / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("─", progressLen-filled)

	return Progress{
		Elapsed: formatSeconds(elapsed),
		Total:   formatSeconds(total),
		Percent: percent,
		Bar:     bar,
	}
}

// StateLabel 返回用于展示的状态标签。挂了音频后端时优先用
// 它的实时状态，查询失败回退到逻辑状态，绝不向上抛错。
func (p *Player) StateLabel() string {
	p.mu.Lock()
	backend := p.backend
	logical := p.state
	p.mu.Unlock()

	if backend != nil {
		if status, err := backend.Status(); err == nil {
			switch status {
			case BackendPlaying:
				return "playing"
			case BackendPaused:
				return "paused"
			case BackendIdle:
				return "stopped"
			}
		}
	}
	return logical.String()
}

// Snapshot 返回展示层需要的完整播放快照。
func (p *Player) Snapshot() map[string]interface{} {
	progress := p.Progress()

	p.mu.Lock()
	state := p.state.String()
	volume := p.volume
	p.mu.Unlock()

	snapshot := map[string]interface{}{
		"state":    state,
		"label":    p.StateLabel(),
		"volume":   volume,
		"loop":     p.queue.Loop(),
		"shuffle":  p.queue.Shuffle(),
		"index":    p.queue.CurrentIndex(),
		"length":   p.queue.Len(),
		"progress": progress,
	}
	if track, ok := p.queue.Current(); ok {
		snapshot["track"] = track
	}
	return snapshot
}

// resetSessionLocked 换曲目时重置会话时钟。
func (p *Player) resetSessionLocked() {
	p.startTime = p.now()
	p.accumulated = 0
}

// backendPlay 尽力通知音频后端，失败只记日志。
func (p *Player) backendPlay(track model.Track) {
	if p.backend == nil {
		return
	}
	if err := p.backend.Play(track); err != nil {
		logger.Warn("音频后端播放失败", logger.String("track", track.Name), logger.ErrorField(err))
	}
}

// parseDuration 把 "m:ss" 估算时长解析成秒数，解析失败按 0 处理。
func parseDuration(d string) int {
	parts := strings.SplitN(d, ":", 2)
	if len(parts) != 2 {
		return 0
	}
	minutes, err1 := strconv.Atoi(parts[0])
	seconds, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 0
	}
	return minutes*60 + seconds
}

func formatSeconds(s int) string {
	if s < 0 {
		s = 0
	}
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}
