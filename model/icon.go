package model

import "time"

// IconSlot 表示一个固定的图标槽位。槽位集合是封闭的：
// 没有自定义图标的槽位回退到内置默认符号。
type IconSlot string

const (
	SlotPlay       IconSlot = "play"
	SlotPause      IconSlot = "pause"
	SlotNext       IconSlot = "next"
	SlotPrevious   IconSlot = "previous"
	SlotVolumeUp   IconSlot = "volumeUp"
	SlotVolumeDown IconSlot = "volumeDown"
	SlotLoop       IconSlot = "loop"
	SlotShuffle    IconSlot = "shuffle"
	SlotStop       IconSlot = "stop"
	SlotRefresh    IconSlot = "refresh"
)

// AllSlots 按固定顺序列出全部槽位，持久化与展示都依赖这个顺序。
var AllSlots = []IconSlot{
	SlotPlay,
	SlotPause,
	SlotNext,
	SlotPrevious,
	SlotVolumeUp,
	SlotVolumeDown,
	SlotLoop,
	SlotShuffle,
	SlotStop,
	SlotRefresh,
}

// DefaultSymbols 是各槽位的内置默认符号。
var DefaultSymbols = map[IconSlot]string{
	SlotPlay:       "▶️",
	SlotPause:      "⏸️",
	SlotNext:       "⏭️",
	SlotPrevious:   "⏮️",
	SlotVolumeUp:   "🔊",
	SlotVolumeDown: "🔉",
	SlotLoop:       "🔁",
	SlotShuffle:    "🔀",
	SlotStop:       "⏹️",
	SlotRefresh:    "🔄",
}

// IsValidSlot 判断名字是否为已知槽位。
func IsValidSlot(name string) bool {
	for _, s := range AllSlots {
		if string(s) == name {
			return true
		}
	}
	return false
}

// CustomIcon 表示槽位上的自定义图标记录。
// 不变式：Path 指向的文件必须存在于磁盘上，否则记录会在
// 加载和监听事件中被清理。
type CustomIcon struct {
	Path         string    `json:"path"`                   // 本地文件绝对/相对路径
	URL          string    `json:"url,omitempty"`          // 远程/展示URL
	LocalURL     string    `json:"localUrl,omitempty"`     // 本地静态服务URL
	Category     string    `json:"category,omitempty"`     // buttons / backgrounds / animations
	Animated     bool      `json:"animated"`               // .gif 视为动图
	Size         int64     `json:"size"`                   // 文件字节数
	UploadedAt   time.Time `json:"uploadedAt"`             // 上传或识别时间
	AutoDetected bool      `json:"autoDetected,omitempty"` // 由文件名启发式自动识别
}
