package icon

import (
	"fmt"
	"path/filepath"
	"time"

	"MeloFM/core/utils"
	"MeloFM/logger"

	"github.com/fsnotify/fsnotify"
)

// Watcher 监听图标目录并驱动去抖后的对账。
// 事件的过滤在通知回路里同步完成，对账本身走 Debouncer 的
// 计时器 goroutine，不会阻塞后续事件投递。
type Watcher struct {
	manager  *Manager
	fsw      *fsnotify.Watcher
	debounce *utils.Debouncer
	done     chan struct{}
}

// NewWatcher 创建目录监听器，quiet 是去抖静默期。
func NewWatcher(manager *Manager, quiet time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("创建文件监听失败: %w", err)
	}
	return &Watcher{
		manager:  manager,
		fsw:      fsw,
		debounce: utils.NewDebouncer(quiet),
		done:     make(chan struct{}),
	}, nil
}

// Start 订阅全部图标目录（非递归）并启动事件循环。
func (w *Watcher) Start() error {
	for _, dir := range w.manager.Dirs() {
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("监听目录失败 %s: %w", dir, err)
		}
		logger.Info("开始监听图标目录", logger.String("dir", dir))
	}
	go w.loop()
	return nil
}

// Stop 停止监听并取消未触发的对账。
func (w *Watcher) Stop() {
	close(w.done)
	w.debounce.Stop()
	w.fsw.Close()
}

// loop 消费原始事件。连续事件会把待执行的对账往后推，
// 静默一秒后才真正执行最后一条事件对应的对账。
func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			name := filepath.Base(event.Name)
			if !IsImageFile(name) {
				continue
			}
			dir := filepath.Dir(event.Name)
			logger.Debug("图标目录事件",
				logger.String("op", event.Op.String()),
				logger.String("file", name))
			w.debounce.Schedule(func() {
				w.manager.ReconcileFile(dir, name)
			})
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			// 监听错误只记日志，下一次事件或手动对账会重新收敛
			logger.Warn("文件监听错误", logger.ErrorField(err))
		case <-w.done:
			return
		}
	}
}
