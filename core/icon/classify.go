package icon

import (
	"path/filepath"
	"strings"

	"MeloFM/model"
)

// 允许的图片扩展名。
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// 允许的上传MIME类型。
var allowedMimeTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

// IsImageFile 判断文件名是否带允许的图片扩展名。
func IsImageFile(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// IsAllowedMimeType 判断MIME类型是否在白名单内。
func IsAllowedMimeType(mime string) bool {
	return allowedMimeTypes[strings.ToLower(mime)]
}

// IsAnimated 判断文件是否按动图处理（仅 .gif）。
func IsAnimated(name string) bool {
	return strings.ToLower(filepath.Ext(name)) == ".gif"
}

// ClassifyFilename 按文件名启发式把图片归到某个槽位。纯函数。
// 先找槽位名本身的子串，再套模式规则：
// vol+down -> volumeDown，vol+up -> volumeUp，prev -> previous，skip -> next。
// 都不命中时返回 false，事件在分类意义上被忽略。
func ClassifyFilename(name string) (model.IconSlot, bool) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	lower := strings.ToLower(base)

	for _, slot := range model.AllSlots {
		if strings.Contains(lower, strings.ToLower(string(slot))) {
			return slot, true
		}
	}

	hasVol := strings.Contains(lower, "vol")
	switch {
	case hasVol && strings.Contains(lower, "down"):
		return model.SlotVolumeDown, true
	case hasVol && strings.Contains(lower, "up"):
		return model.SlotVolumeUp, true
	case strings.Contains(lower, "prev"):
		return model.SlotPrevious, true
	case strings.Contains(lower, "skip"):
		return model.SlotNext, true
	}
	return "", false
}
