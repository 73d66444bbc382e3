package server

import (
	"net/http"
	"time"

	"MeloFM/logger"

	"github.com/gorilla/websocket"
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const statusPushInterval = time.Second

// StatusWebSocketHandler 通过 WebSocket 周期性推送播放快照，
// 展示层可以实时刷新进度条而不用轮询。
func (h *APIHandler) StatusWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", logger.ErrorField(err))
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(statusPushInterval)
	defer ticker.Stop()

	// 读循环只为感知连接关闭
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ticker.C:
			if err := conn.WriteJSON(h.player.Snapshot()); err != nil {
				logger.Debug("websocket push failed", logger.ErrorField(err))
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
