package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"MeloFM/core/utils"
	"MeloFM/logger"
	"MeloFM/model"
)

var (
	ErrPlaylistExists   = errors.New("歌单名称已存在")
	ErrPlaylistNotFound = errors.New("歌单不存在")
)

// PlaylistRepository 管理用户自定义歌单。
type PlaylistRepository interface {
	// Load 从配置文件加载全部歌单，按 resolve 重新解析每条路径，
	// 解析失败的路径被丢弃（记 Warn 日志）。
	Load(resolve func(path string) (model.Track, bool)) error
	// Create 创建空歌单，重名返回 ErrPlaylistExists。
	Create(name string) error
	// AddTracks 向歌单追加曲目，按路径去重，返回实际新增数量。
	// 歌单不存在返回 ErrPlaylistNotFound。
	AddTracks(name string, tracks []model.Track) (int, error)
	// Get 返回歌单的曲目副本。
	Get(name string) ([]model.Track, bool)
	// Names 返回全部歌单名，字典序。
	Names() []string
}

// jsonPlaylistRepository 把歌单序列化为 name -> []path 的JSON文件。
// 每次变更后立即持久化；json.Marshal 对 map 的键做排序，
// 配置文件天然是稳定键序，便于diff。
type jsonPlaylistRepository struct {
	mu    sync.Mutex
	path  string
	lists map[string][]model.Track
}

// NewJSONPlaylistRepository 创建文件存储的歌单仓库。
func NewJSONPlaylistRepository(path string) PlaylistRepository {
	return &jsonPlaylistRepository{
		path:  path,
		lists: make(map[string][]model.Track),
	}
}

func (r *jsonPlaylistRepository) Load(resolve func(path string) (model.Track, bool)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("读取歌单配置失败: %w", err)
	}

	var stored map[string][]string
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("解析歌单配置失败: %w", err)
	}

	r.lists = make(map[string][]model.Track, len(stored))
	for name, paths := range stored {
		tracks := make([]model.Track, 0, len(paths))
		for _, p := range paths {
			track, ok := resolve(p)
			if !ok {
				// 路径不再能解析时静默丢弃，只留日志可观测
				logger.Warn("歌单曲目已失效，跳过",
					logger.String("playlist", name),
					logger.String("path", p))
				continue
			}
			tracks = append(tracks, track)
		}
		r.lists[name] = tracks
	}

	logger.Info("自定义歌单加载完成", logger.Int("playlists", len(r.lists)))
	return nil
}

func (r *jsonPlaylistRepository) Create(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.lists[name]; exists {
		return ErrPlaylistExists
	}
	r.lists[name] = []model.Track{}
	return r.persistLocked()
}

func (r *jsonPlaylistRepository) AddTracks(name string, tracks []model.Track) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.lists[name]
	if !ok {
		return 0, ErrPlaylistNotFound
	}

	seen := make(map[string]bool, len(existing))
	for _, t := range existing {
		seen[t.Path] = true
	}

	added := 0
	for _, t := range tracks {
		if seen[t.Path] {
			continue
		}
		existing = append(existing, t)
		seen[t.Path] = true
		added++
	}
	r.lists[name] = existing

	if added > 0 {
		if err := r.persistLocked(); err != nil {
			return added, err
		}
	}
	return added, nil
}

func (r *jsonPlaylistRepository) Get(name string) ([]model.Track, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tracks, ok := r.lists[name]
	if !ok {
		return nil, false
	}
	out := make([]model.Track, len(tracks))
	copy(out, tracks)
	return out, true
}

func (r *jsonPlaylistRepository) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.lists))
	for name := range r.lists {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// persistLocked 序列化 name -> []path 并原子写盘，调用方持锁。
// 写失败时内存状态领先于磁盘，记日志后由下一次变更重试。
func (r *jsonPlaylistRepository) persistLocked() error {
	stored := make(map[string][]string, len(r.lists))
	for name, tracks := range r.lists {
		paths := make([]string, 0, len(tracks))
		for _, t := range tracks {
			paths = append(paths, t.Path)
		}
		stored[name] = paths
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化歌单失败: %w", err)
	}
	if err := utils.WriteFileAtomic(r.path, data); err != nil {
		logger.Error("歌单持久化失败", logger.ErrorField(err))
		return err
	}
	return nil
}
