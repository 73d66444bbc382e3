package utils

import (
	"sync"
	"time"
)

// Debouncer 把一串密集事件合并为静默期之后的一次执行。
// 单槽位：Schedule 新任务会取消还没触发的旧任务，不会叠加。
// 回调在计时器自己的 goroutine 里执行，不阻塞调度方。
type Debouncer struct {
	mu    sync.Mutex
	quiet time.Duration
	timer *time.Timer
}

// NewDebouncer 创建静默期为 quiet 的去抖器。
func NewDebouncer(quiet time.Duration) *Debouncer {
	return &Debouncer{quiet: quiet}
}

// Schedule 安排 fn 在静默期后执行，替换任何未触发的任务。
func (d *Debouncer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.quiet, fn)
}

// Stop 取消未触发的任务。
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
