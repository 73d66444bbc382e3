package player

import "MeloFM/model"

// BackendStatus 是外部音频后端上报的实时状态。
type BackendStatus string

const (
	BackendIdle    BackendStatus = "idle"
	BackendPlaying BackendStatus = "playing"
	BackendPaused  BackendStatus = "paused"
)

// Backend 抽象实际负责解码输出的音频协作方。
// 播放器只把它当成非阻塞的状态/指令面：查询失败时回退到
// 播放器自身的逻辑状态，指令失败只记日志，不影响状态机。
type Backend interface {
	// Status 返回后端实时状态，必须快速返回。
	Status() (BackendStatus, error)
	// Play 请求后端开始渲染指定曲目。
	Play(track model.Track) error
	// Stop 请求后端停止渲染。
	Stop() error
}
