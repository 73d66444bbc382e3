package playlist

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"MeloFM/logger"
	"MeloFM/model"
)

// Engine 持有当前播放列表、当前下标以及 loop/shuffle 标记。
//
// originalOrder 保存洗牌前的快照，关掉 shuffle 时按它精确还原。
// 不变式：列表非空时 0 <= current < len；洗牌后当前曲目按路径
// 重新定位，找不到时 current 为 -1，后续 Play 需要防御处理。
type Engine struct {
	mu            sync.RWMutex
	tracks        []model.Track
	originalOrder []model.Track
	current       int
	loop          bool
	shuffle       bool
	rng           *rand.Rand
}

// NewEngine 创建空的播放列表引擎。
func NewEngine() *Engine {
	return &Engine{
		current: -1,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Filter 对全量曲目应用分类过滤和搜索，纯函数。
// 搜索在分类过滤之后执行，对名称和文件名做大小写不敏感的子串匹配。
func Filter(all []model.Track, search string, cat Category) []model.Track {
	out := make([]model.Track, 0, len(all))
	query := strings.ToLower(strings.TrimSpace(search))
	for _, t := range all {
		if !Matches(cat, t.Filename) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(t.Name), query) &&
			!strings.Contains(strings.ToLower(t.Filename), query) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Load 用过滤结果替换当前播放列表。空结果是合法的空列表，不报错。
// 分类为 shuffle 时加载后立即洗牌一次。
func (e *Engine) Load(all []model.Track, search string, cat Category) []model.Track {
	filtered := Filter(all, search, cat)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.tracks = filtered
	e.originalOrder = make([]model.Track, len(filtered))
	copy(e.originalOrder, filtered)
	e.current = -1
	if len(filtered) > 0 {
		e.current = 0
	}

	e.shuffle = cat == CategoryShuffle
	if e.shuffle {
		e.shuffleLocked()
	}

	logger.Info("播放列表已加载",
		logger.String("category", string(cat)),
		logger.String("search", search),
		logger.Int("tracks", len(filtered)))
	return filtered
}

// Replace 用外部给定的曲目序列替换播放列表（自定义歌单加载）。
func (e *Engine) Replace(tracks []model.Track) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.tracks = make([]model.Track, len(tracks))
	copy(e.tracks, tracks)
	e.originalOrder = make([]model.Track, len(tracks))
	copy(e.originalOrder, tracks)
	e.current = -1
	if len(tracks) > 0 {
		e.current = 0
	}
	e.shuffle = false
}

// Tracks 返回当前播放列表的副本。
func (e *Engine) Tracks() []model.Track {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]model.Track, len(e.tracks))
	copy(out, e.tracks)
	return out
}

// Len 返回播放列表长度。
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.tracks)
}

// CurrentIndex 返回当前下标，未定位时为 -1。
func (e *Engine) CurrentIndex() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.current
}

// Current 返回当前曲目。
func (e *Engine) Current() (model.Track, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.current < 0 || e.current >= len(e.tracks) {
		return model.Track{}, false
	}
	return e.tracks[e.current], true
}

// SetCurrent 设置当前下标，越界值收敛到 [0, len-1]。
// 空列表时置为 -1。
func (e *Engine) SetCurrent(index int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.tracks) == 0 {
		e.current = -1
		return -1
	}
	if index < 0 {
		index = 0
	}
	if index >= len(e.tracks) {
		index = len(e.tracks) - 1
	}
	e.current = index
	return index
}

// ClearCurrent 清除当前曲目（停止播放时调用）。
func (e *Engine) ClearCurrent() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.current = -1
}

// Loop 返回循环标记。
func (e *Engine) Loop() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.loop
}

// ToggleLoop 翻转循环标记并返回新值。
func (e *Engine) ToggleLoop() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loop = !e.loop
	return e.loop
}

// Shuffle 返回洗牌标记。
func (e *Engine) Shuffle() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.shuffle
}

// ToggleShuffle 切换洗牌状态。开启时洗牌一次并保持当前曲目；
// 关闭时按 originalOrder 精确还原，同样按路径重新定位当前曲目。
func (e *Engine) ToggleShuffle(on bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if on == e.shuffle {
		return e.shuffle
	}
	e.shuffle = on
	if on {
		e.shuffleLocked()
	} else {
		restored := make([]model.Track, len(e.originalOrder))
		copy(restored, e.originalOrder)
		current := e.currentPathLocked()
		e.tracks = restored
		e.relocateLocked(current)
	}
	return e.shuffle
}

// shuffleLocked 做一次 Fisher-Yates 均匀洗牌，调用方持锁。
// 洗牌后按路径找回之前的当前曲目，保证播放连续性。
func (e *Engine) shuffleLocked() {
	current := e.currentPathLocked()
	for i := len(e.tracks) - 1; i > 0; i-- {
		j := e.rng.Intn(i + 1)
		e.tracks[i], e.tracks[j] = e.tracks[j], e.tracks[i]
	}
	e.relocateLocked(current)
}

func (e *Engine) currentPathLocked() string {
	if e.current < 0 || e.current >= len(e.tracks) {
		return ""
	}
	return e.tracks[e.current].Path
}

// relocateLocked 按路径重新定位当前曲目，找不到时置 -1。
func (e *Engine) relocateLocked(path string) {
	if path == "" {
		if len(e.tracks) > 0 {
			e.current = 0
		} else {
			e.current = -1
		}
		return
	}
	for i, t := range e.tracks {
		if t.Path == path {
			e.current = i
			return
		}
	}
	e.current = -1
}
