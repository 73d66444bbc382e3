package icon

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"MeloFM/core/utils"
	"MeloFM/logger"
	"MeloFM/model"
)

var (
	ErrInvalidFileType = errors.New("不支持的文件类型")
	ErrFileTooLarge    = errors.New("文件超过大小限制")
	ErrUnknownSlot     = errors.New("未知的图标槽位")
)

// Manager 维护槽位到自定义图标的映射，并保证它和磁盘收敛：
// 映射里的每条记录都必须有对应的磁盘文件，加载和监听事件里
// 发现失效记录就清理并立即回写。
type Manager struct {
	mu      sync.Mutex
	cfgPath string
	dirs    []string // 被监听的图标目录
	maxSize int64
	icons   map[model.IconSlot]*model.CustomIcon
}

// NewManager 创建图标管理器。
func NewManager(cfgPath string, dirs []string, maxSize int64) *Manager {
	return &Manager{
		cfgPath: cfgPath,
		dirs:    dirs,
		maxSize: maxSize,
		icons:   make(map[model.IconSlot]*model.CustomIcon),
	}
}

// Dirs 返回被监听的目录。
func (m *Manager) Dirs() []string {
	return m.dirs
}

// Startup 启动时调用：确保目录存在，加载配置并清理失效记录，
// 然后立即回写清理后的结果（每次启动自愈）。
func (m *Manager) Startup() error {
	for _, dir := range m.dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("创建图标目录失败 %s: %w", dir, err)
		}
	}
	return m.Reload()
}

// Reload 从磁盘重新加载映射，清理失效记录并回写。
func (m *Manager) Reload() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.loadLocked(); err != nil {
		return err
	}
	return m.persistLocked()
}

// loadLocked 读配置文件并校验每条记录的磁盘文件，调用方持锁。
func (m *Manager) loadLocked() error {
	m.icons = make(map[model.IconSlot]*model.CustomIcon)

	data, err := os.ReadFile(m.cfgPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("读取图标配置失败: %w", err)
	}

	var stored map[model.IconSlot]*model.CustomIcon
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("解析图标配置失败: %w", err)
	}

	pruned := 0
	for slot, rec := range stored {
		if rec == nil || !model.IsValidSlot(string(slot)) {
			continue
		}
		if !utils.FileExists(rec.Path) {
			pruned++
			logger.Warn("图标文件已丢失，清理槽位",
				logger.String("slot", string(slot)),
				logger.String("path", rec.Path))
			continue
		}
		m.icons[slot] = rec
	}
	if pruned > 0 {
		logger.Info("图标配置自愈完成", logger.Int("pruned", pruned))
	}
	return nil
}

func (m *Manager) persistLocked() error {
	data, err := json.MarshalIndent(m.icons, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化图标配置失败: %w", err)
	}
	if err := utils.WriteFileAtomic(m.cfgPath, data); err != nil {
		logger.Error("图标配置持久化失败", logger.ErrorField(err))
		return err
	}
	return nil
}

// Icons 返回映射副本。
func (m *Manager) Icons() map[model.IconSlot]*model.CustomIcon {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[model.IconSlot]*model.CustomIcon, len(m.icons))
	for slot, rec := range m.icons {
		copied := *rec
		out[slot] = &copied
	}
	return out
}

// Status 按固定槽位顺序列出每个槽位的状态，给展示层用。
func (m *Manager) Status() []map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]map[string]interface{}, 0, len(model.AllSlots))
	for _, slot := range model.AllSlots {
		entry := map[string]interface{}{
			"slot":    string(slot),
			"default": model.DefaultSymbols[slot],
			"custom":  false,
		}
		if rec, ok := m.icons[slot]; ok {
			entry["custom"] = true
			entry["icon"] = rec
		}
		out = append(out, entry)
	}
	return out
}

// Upload 接收远程文件并写入某个槽位。校验MIME白名单和大小上限，
// 成功后以 slot_<时间戳><扩展名> 落盘并立即持久化映射。
// 返回写入的本地路径。
func (m *Manager) Upload(remoteURL, mimeType string, size int64, filename, slot, category string) (string, error) {
	if !model.IsValidSlot(slot) {
		return "", ErrUnknownSlot
	}
	if !IsAllowedMimeType(mimeType) {
		return "", ErrInvalidFileType
	}
	if size > m.maxSize {
		return "", ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !imageExtensions[ext] {
		return "", ErrInvalidFileType
	}

	destDir := m.dirForCategory(category)
	destName := fmt.Sprintf("%s_%d%s", slot, time.Now().UnixNano(), ext)
	destPath := filepath.Join(destDir, destName)

	if err := utils.DownloadFile(remoteURL, destPath); err != nil {
		return "", fmt.Errorf("获取远程文件失败: %w", err)
	}

	info, err := os.Stat(destPath)
	if err != nil {
		return "", fmt.Errorf("读取落盘文件失败: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.icons[model.IconSlot(slot)] = &model.CustomIcon{
		Path:       destPath,
		URL:        remoteURL,
		LocalURL:   "/" + filepath.ToSlash(destPath),
		Category:   filepath.Base(destDir),
		Animated:   IsAnimated(destName),
		Size:       info.Size(),
		UploadedAt: time.Now(),
	}
	if err := m.persistLocked(); err != nil {
		return destPath, err
	}

	logger.Info("图标上传成功",
		logger.String("slot", slot),
		logger.String("path", destPath),
		logger.Int64("size", info.Size()))
	return destPath, nil
}

// Remove 清除槽位上的自定义图标（不删磁盘文件）并持久化。
func (m *Manager) Remove(slot string) error {
	if !model.IsValidSlot(slot) {
		return ErrUnknownSlot
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.icons, model.IconSlot(slot))
	return m.persistLocked()
}

// Reset 清空全部自定义图标并持久化，所有槽位回到默认符号。
func (m *Manager) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.icons = make(map[model.IconSlot]*model.CustomIcon)
	return m.persistLocked()
}

// ReconcileFile 处理一条（去抖后的）文件事件。
// 文件还在磁盘上就按文件名分类并写入槽位（标记为自动识别），
// 不在了就找到指向它的槽位并清除。最后整体重载一次映射并回写，
// 即使有事件被漏掉或乱序，内存状态也会收敛。
func (m *Manager) ReconcileFile(dir, filename string) {
	if !IsImageFile(filename) {
		return
	}
	path := filepath.Join(dir, filename)

	m.mu.Lock()
	if utils.FileExists(path) {
		if slot, ok := ClassifyFilename(filename); ok {
			m.upsertAutoLocked(slot, path, dir)
		}
	} else {
		for slot, rec := range m.icons {
			if filepath.Base(rec.Path) == filename {
				delete(m.icons, slot)
				logger.Info("图标文件被移除，清除槽位", logger.String("slot", string(slot)))
			}
		}
	}
	if err := m.persistLocked(); err != nil {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	// 自愈：整体重载加回写，容忍漏事件
	if err := m.Reload(); err != nil {
		logger.Warn("图标映射自愈失败", logger.ErrorField(err))
	}
}

// ScanAndAutoDetect 手动触发的一轮批量对账：为监听目录里的每个
// 图片文件重新推导槽位，并清理磁盘文件已消失的槽位。
// 返回新增/更新和移除的数量。
func (m *Manager) ScanAndAutoDetect() (added, removed int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, dir := range m.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if !os.IsNotExist(err) {
				logger.Warn("读取图标目录失败", logger.String("dir", dir), logger.ErrorField(err))
			}
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !IsImageFile(entry.Name()) {
				continue
			}
			slot, ok := ClassifyFilename(entry.Name())
			if !ok {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			if existing, ok := m.icons[slot]; ok && existing.Path == path {
				continue
			}
			m.upsertAutoLocked(slot, path, dir)
			added++
		}
	}

	for slot, rec := range m.icons {
		if !utils.FileExists(rec.Path) {
			delete(m.icons, slot)
			removed++
		}
	}

	if err := m.persistLocked(); err != nil {
		return added, removed, err
	}
	logger.Info("图标批量对账完成", logger.Int("added", added), logger.Int("removed", removed))
	return added, removed, nil
}

// upsertAutoLocked 写入一条自动识别的记录，调用方持锁。
func (m *Manager) upsertAutoLocked(slot model.IconSlot, path, dir string) {
	var size int64
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}
	m.icons[slot] = &model.CustomIcon{
		Path:         path,
		LocalURL:     "/" + filepath.ToSlash(path),
		Category:     filepath.Base(dir),
		Animated:     IsAnimated(path),
		Size:         size,
		UploadedAt:   time.Now(),
		AutoDetected: true,
	}
}

// dirForCategory 把上传的分类名映射到监听目录，默认第一个目录。
func (m *Manager) dirForCategory(category string) string {
	for _, dir := range m.dirs {
		if filepath.Base(dir) == category {
			return dir
		}
	}
	return m.dirs[0]
}
