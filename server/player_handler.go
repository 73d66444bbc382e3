package server

import (
	"errors"
	"net/http"

	"MeloFM/core/player"
)

// PlayerStatusHandler 返回当前播放快照，纯读无副作用。
func (h *APIHandler) PlayerStatusHandler(w http.ResponseWriter, r *http.Request) {
	respondOK(w, "ok", map[string]interface{}{
		"player": h.player.Snapshot(),
	})
}

// PlayHandler 开始播放，可带显式下标。
func (h *APIHandler) PlayHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index *int `json:"index"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondFail(w, http.StatusBadRequest, "请求体解析失败")
		return
	}

	index := -1
	if req.Index != nil {
		index = *req.Index
	}
	if err := h.player.Play(index); err != nil {
		respondFail(w, http.StatusOK, playerErrorMessage(err))
		return
	}
	respondOK(w, "开始播放", map[string]interface{}{
		"player": h.player.Snapshot(),
	})
}

// PauseHandler 在播放/暂停之间切换。
func (h *APIHandler) PauseHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.player.PauseToggle(); err != nil {
		respondFail(w, http.StatusOK, playerErrorMessage(err))
		return
	}
	respondOK(w, "已切换暂停状态", map[string]interface{}{
		"state": h.player.State().String(),
	})
}

// NextHandler 切到下一首。
func (h *APIHandler) NextHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.player.Next(); err != nil {
		respondFail(w, http.StatusOK, playerErrorMessage(err))
		return
	}
	respondOK(w, "已切换到下一首", map[string]interface{}{
		"player": h.player.Snapshot(),
	})
}

// PreviousHandler 切到上一首，下标 0 时回绕到末尾。
func (h *APIHandler) PreviousHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.player.Previous(); err != nil {
		respondFail(w, http.StatusOK, playerErrorMessage(err))
		return
	}
	respondOK(w, "已切换到上一首", map[string]interface{}{
		"player": h.player.Snapshot(),
	})
}

// StopHandler 停止播放。
func (h *APIHandler) StopHandler(w http.ResponseWriter, r *http.Request) {
	h.player.Stop()
	respondOK(w, "已停止播放", nil)
}

// VolumeHandler 设置音量或按方向步进。
func (h *APIHandler) VolumeHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Volume    *int   `json:"volume"`
		Direction string `json:"direction"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondFail(w, http.StatusBadRequest, "请求体解析失败")
		return
	}

	var volume int
	switch {
	case req.Volume != nil:
		volume = h.player.SetVolume(*req.Volume)
	case req.Direction == "up":
		volume = h.player.VolumeUp()
	case req.Direction == "down":
		volume = h.player.VolumeDown()
	default:
		respondFail(w, http.StatusBadRequest, "缺少 volume 或 direction 参数")
		return
	}
	respondOK(w, "音量已更新", map[string]interface{}{
		"volume": volume,
	})
}

// LoopHandler 翻转循环标记。
func (h *APIHandler) LoopHandler(w http.ResponseWriter, r *http.Request) {
	respondOK(w, "循环状态已更新", map[string]interface{}{
		"loop": h.queue.ToggleLoop(),
	})
}

// ShuffleHandler 切换洗牌状态。
func (h *APIHandler) ShuffleHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		On *bool `json:"on"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondFail(w, http.StatusBadRequest, "请求体解析失败")
		return
	}

	on := !h.queue.Shuffle()
	if req.On != nil {
		on = *req.On
	}
	respondOK(w, "洗牌状态已更新", map[string]interface{}{
		"shuffle": h.queue.ToggleShuffle(on),
		"index":   h.queue.CurrentIndex(),
	})
}

// playerErrorMessage 把状态机错误转成用户可读的短消息。
func playerErrorMessage(err error) string {
	switch {
	case errors.Is(err, player.ErrEmptyPlaylist):
		return "播放列表为空"
	case errors.Is(err, player.ErrNotPlaying):
		return "当前没有播放"
	case errors.Is(err, player.ErrEndOfPlaylist):
		return "已经是最后一首，开启循环后可回到开头"
	default:
		return err.Error()
	}
}
