package library

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"MeloFM/logger"
	"MeloFM/model"
)

// 按扩展名假定的码率（bit/s），用于从文件大小估算时长。
// 不做真实的音频解析，估算值只服务于进度展示。
var assumedBitrates = map[string]int64{
	".mp3":  128000,
	".wav":  1411000,
	".flac": 1000000,
}

const defaultBitrate int64 = 128000

// EstimateDuration 根据文件大小和扩展名估算时长，格式 "m:ss"。
func EstimateDuration(size int64, ext string) string {
	bitrate, ok := assumedBitrates[strings.ToLower(ext)]
	if !ok {
		bitrate = defaultBitrate
	}
	seconds := size * 8 / bitrate
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// Scan 非递归遍历每个目录，按扩展名过滤并生成曲目描述。
// 子目录作为独立分类目录显式扫描，不在这里递归发现。
// 不存在的目录静默跳过。
func Scan(dirs []string, exts []string) []model.Track {
	allowed := make(map[string]bool, len(exts))
	for _, e := range exts {
		allowed[strings.ToLower(e)] = true
	}

	var tracks []model.Track
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if !os.IsNotExist(err) {
				logger.Warn("读取音乐目录失败", logger.String("dir", dir), logger.ErrorField(err))
			}
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			ext := strings.ToLower(filepath.Ext(entry.Name()))
			if !allowed[ext] {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				logger.Warn("读取文件信息失败", logger.String("file", entry.Name()), logger.ErrorField(err))
				continue
			}
			path := filepath.Join(dir, entry.Name())
			if abs, err := filepath.Abs(path); err == nil {
				path = abs
			}
			tracks = append(tracks, model.Track{
				Name:     strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())),
				Filename: entry.Name(),
				Path:     path,
				Size:     info.Size(),
				Ext:      ext,
				Dir:      dir,
				Duration: EstimateDuration(info.Size(), ext),
			})
		}
	}
	return tracks
}

// EnsureDirs 创建缺失的目录，启动时调用。
func EnsureDirs(dirs []string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("创建目录失败 %s: %w", dir, err)
		}
	}
	return nil
}

// Library 持有最近一次扫描结果，供播放列表和自定义歌单复用。
type Library struct {
	mu     sync.RWMutex
	dirs   []string
	exts   []string
	tracks []model.Track
}

// New 创建音乐库。首次使用前调用 Rescan。
func New(dirs, exts []string) *Library {
	return &Library{dirs: dirs, exts: exts}
}

// Rescan 重新扫描全部目录并替换缓存结果。
func (l *Library) Rescan() []model.Track {
	tracks := Scan(l.dirs, l.exts)
	l.mu.Lock()
	l.tracks = tracks
	l.mu.Unlock()
	logger.Info("音乐库扫描完成", logger.Int("tracks", len(tracks)), logger.Int("dirs", len(l.dirs)))
	return tracks
}

// Tracks 返回最近一次扫描结果的副本。
func (l *Library) Tracks() []model.Track {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]model.Track, len(l.tracks))
	copy(out, l.tracks)
	return out
}

// Resolve 按路径查找曲目。
func (l *Library) Resolve(path string) (model.Track, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, t := range l.tracks {
		if t.Path == path {
			return t, true
		}
	}
	return model.Track{}, false
}
