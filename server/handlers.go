package server

import (
	"encoding/json"
	"net/http"

	"MeloFM/config"
	"MeloFM/core/icon"
	"MeloFM/core/library"
	"MeloFM/core/player"
	"MeloFM/core/playlist"
	"MeloFM/repository"
)

// APIHandler 处理所有API请求
type APIHandler struct {
	lib       *library.Library
	queue     *playlist.Engine
	player    *player.Player
	playlists repository.PlaylistRepository
	icons     *icon.Manager
	cfg       *config.Config
}

// NewAPIHandler 创建新的API处理器
func NewAPIHandler(
	lib *library.Library,
	queue *playlist.Engine,
	p *player.Player,
	playlists repository.PlaylistRepository,
	icons *icon.Manager,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		lib:       lib,
		queue:     queue,
		player:    p,
		playlists: playlists,
		icons:     icons,
		cfg:       cfg,
	}
}

// respondJSON 写入JSON响应。
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondOK 写入成功结果，extra 合并进响应体。
func respondOK(w http.ResponseWriter, message string, extra map[string]interface{}) {
	payload := map[string]interface{}{
		"success": true,
		"message": message,
	}
	for k, v := range extra {
		payload[k] = v
	}
	respondJSON(w, http.StatusOK, payload)
}

// respondFail 写入失败结果。命令接口不向外抛异常，
// 所有失败都转成 success=false 加短消息。
func respondFail(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

// decodeBody 解析请求体JSON，空请求体不算错误。
func decodeBody(r *http.Request, dst interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	return json.NewDecoder(r.Body).Decode(dst)
}
