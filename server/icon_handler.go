package server

import (
	"errors"
	"net/http"

	"MeloFM/core/icon"

	"github.com/gorilla/mux"
)

// IconsHandler 返回全部槽位状态，纯读无副作用。
func (h *APIHandler) IconsHandler(w http.ResponseWriter, r *http.Request) {
	respondOK(w, "ok", map[string]interface{}{
		"slots": h.icons.Status(),
	})
}

// UploadIconHandler 接收远程图标文件并写入槽位。
func (h *APIHandler) UploadIconHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL      string `json:"url"`
		MimeType string `json:"mimeType"`
		Size     int64  `json:"size"`
		Filename string `json:"filename"`
		Slot     string `json:"slot"`
		Category string `json:"category"`
	}
	if err := decodeBody(r, &req); err != nil || req.URL == "" || req.Slot == "" {
		respondFail(w, http.StatusBadRequest, "缺少 url 或 slot 参数")
		return
	}

	path, err := h.icons.Upload(req.URL, req.MimeType, req.Size, req.Filename, req.Slot, req.Category)
	if err != nil {
		respondFail(w, http.StatusOK, iconErrorMessage(err))
		return
	}
	respondOK(w, "图标上传成功", map[string]interface{}{
		"slot": req.Slot,
		"path": path,
	})
}

// RemoveIconHandler 清除槽位上的自定义图标。
func (h *APIHandler) RemoveIconHandler(w http.ResponseWriter, r *http.Request) {
	slot := mux.Vars(r)["slot"]
	if err := h.icons.Remove(slot); err != nil {
		respondFail(w, http.StatusOK, iconErrorMessage(err))
		return
	}
	respondOK(w, "图标已移除", map[string]interface{}{
		"slot": slot,
	})
}

// ResetIconsHandler 清空全部自定义图标。
func (h *APIHandler) ResetIconsHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.icons.Reset(); err != nil {
		respondFail(w, http.StatusInternalServerError, "重置图标失败")
		return
	}
	respondOK(w, "图标已全部重置", nil)
}

// RescanIconsHandler 手动触发一轮图标目录对账。
func (h *APIHandler) RescanIconsHandler(w http.ResponseWriter, r *http.Request) {
	added, removed, err := h.icons.ScanAndAutoDetect()
	if err != nil {
		respondFail(w, http.StatusInternalServerError, "图标对账失败")
		return
	}
	respondOK(w, "图标对账完成", map[string]interface{}{
		"added":   added,
		"removed": removed,
	})
}

// iconErrorMessage 把图标子系统错误转成用户可读的短消息。
func iconErrorMessage(err error) string {
	switch {
	case errors.Is(err, icon.ErrInvalidFileType):
		return "不支持的文件类型"
	case errors.Is(err, icon.ErrFileTooLarge):
		return "文件超过8MB大小限制"
	case errors.Is(err, icon.ErrUnknownSlot):
		return "未知的图标槽位"
	default:
		return err.Error()
	}
}
