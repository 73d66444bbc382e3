package server

import (
	"errors"
	"net/http"
	"strconv"

	"MeloFM/core/playlist"
	"MeloFM/model"
	"MeloFM/repository"

	"github.com/gorilla/mux"
)

const defaultPageSize = 10

// PlaylistHandler 分页返回当前播放列表。
func (h *APIHandler) PlaylistHandler(w http.ResponseWriter, r *http.Request) {
	tracks := h.queue.Tracks()

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if size < 1 {
		size = defaultPageSize
	}

	start := (page - 1) * size
	if start > len(tracks) {
		start = len(tracks)
	}
	end := start + size
	if end > len(tracks) {
		end = len(tracks)
	}

	respondOK(w, "ok", map[string]interface{}{
		"tracks": tracks[start:end],
		"page":   page,
		"total":  len(tracks),
		"index":  h.queue.CurrentIndex(),
	})
}

// LoadPlaylistHandler 按分类和搜索词重新加载当前播放列表。
func (h *APIHandler) LoadPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Search   string `json:"search"`
		Category string `json:"category"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondFail(w, http.StatusBadRequest, "请求体解析失败")
		return
	}

	cat := playlist.ParseCategory(req.Category)
	loaded := h.queue.Load(h.lib.Tracks(), req.Search, cat)
	respondOK(w, "播放列表已加载", map[string]interface{}{
		"category": string(cat),
		"count":    len(loaded),
	})
}

// CustomPlaylistsHandler 返回全部自定义歌单名。
func (h *APIHandler) CustomPlaylistsHandler(w http.ResponseWriter, r *http.Request) {
	respondOK(w, "ok", map[string]interface{}{
		"playlists": h.playlists.Names(),
	})
}

// CreatePlaylistHandler 创建自定义歌单，重名报错而不是覆盖。
func (h *APIHandler) CreatePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &req); err != nil || req.Name == "" {
		respondFail(w, http.StatusBadRequest, "缺少歌单名称")
		return
	}

	if err := h.playlists.Create(req.Name); err != nil {
		if errors.Is(err, repository.ErrPlaylistExists) {
			respondFail(w, http.StatusOK, "歌单名称已存在")
			return
		}
		respondFail(w, http.StatusInternalServerError, "创建歌单失败")
		return
	}
	respondOK(w, "歌单已创建", map[string]interface{}{
		"name": req.Name,
	})
}

// AddToPlaylistHandler 把曲目加进自定义歌单。
// 三种选择方式：搜索词（命中当前播放列表的全部曲目）、
// 显式下标、或当前正在播放的曲目。按路径去重，返回实际新增数。
func (h *APIHandler) AddToPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	var req struct {
		Search     string `json:"search"`
		Index      *int   `json:"index"`
		UseCurrent bool   `json:"useCurrent"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondFail(w, http.StatusBadRequest, "请求体解析失败")
		return
	}

	var selected []model.Track
	current := h.queue.Tracks()
	switch {
	case req.Search != "":
		selected = playlist.Filter(current, req.Search, playlist.CategoryAll)
	case req.Index != nil:
		if *req.Index >= 0 && *req.Index < len(current) {
			selected = []model.Track{current[*req.Index]}
		}
	case req.UseCurrent:
		if track, ok := h.queue.Current(); ok {
			selected = []model.Track{track}
		}
	}

	if len(selected) == 0 {
		respondFail(w, http.StatusOK, "没有匹配到任何曲目")
		return
	}

	added, err := h.playlists.AddTracks(name, selected)
	if err != nil {
		if errors.Is(err, repository.ErrPlaylistNotFound) {
			respondFail(w, http.StatusOK, "歌单不存在")
			return
		}
		respondFail(w, http.StatusInternalServerError, "添加曲目失败")
		return
	}
	respondOK(w, "曲目已添加", map[string]interface{}{
		"added": added,
	})
}

// LoadCustomPlaylistHandler 用自定义歌单替换当前播放列表。
// 未知歌单按空列表处理。
func (h *APIHandler) LoadCustomPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	tracks, ok := h.playlists.Get(name)
	if !ok {
		respondFail(w, http.StatusOK, "歌单不存在")
		return
	}
	h.queue.Replace(tracks)
	respondOK(w, "歌单已加载", map[string]interface{}{
		"name":  name,
		"count": len(tracks),
	})
}

// RescanHandler 重新扫描音乐库。
func (h *APIHandler) RescanHandler(w http.ResponseWriter, r *http.Request) {
	tracks := h.lib.Rescan()
	respondOK(w, "音乐库已重新扫描", map[string]interface{}{
		"count": len(tracks),
	})
}
