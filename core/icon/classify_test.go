package icon

import (
	"testing"

	"MeloFM/model"

	"github.com/stretchr/testify/assert"
)

func TestClassifyFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     model.IconSlot
		matched  bool
	}{
		{"play.png", model.SlotPlay, true},
		{"my_pause_button.jpg", model.SlotPause, true},
		{"NEXT.gif", model.SlotNext, true},
		{"previous-icon.webp", model.SlotPrevious, true},
		{"volumeup.png", model.SlotVolumeUp, true},
		{"vol_up.png", model.SlotVolumeUp, true},
		{"vol-down.jpeg", model.SlotVolumeDown, true},
		{"prev.png", model.SlotPrevious, true},
		{"skip_track.png", model.SlotNext, true},
		{"loop.gif", model.SlotLoop, true},
		{"shuffle_2.png", model.SlotShuffle, true},
		{"stop.png", model.SlotStop, true},
		{"refresh.png", model.SlotRefresh, true},
		{"background.png", "", false},
		{"cat_photo.jpg", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			slot, ok := ClassifyFilename(tt.filename)
			assert.Equal(t, tt.matched, ok)
			if tt.matched {
				assert.Equal(t, tt.want, slot)
			}
		})
	}
}

func TestIsImageFile(t *testing.T) {
	assert.True(t, IsImageFile("a.png"))
	assert.True(t, IsImageFile("b.GIF"))
	assert.True(t, IsImageFile("c.webp"))
	assert.False(t, IsImageFile("d.txt"))
	assert.False(t, IsImageFile("noext"))
}

func TestIsAnimated(t *testing.T) {
	assert.True(t, IsAnimated("loop.gif"))
	assert.True(t, IsAnimated("LOOP.GIF"))
	assert.False(t, IsAnimated("loop.png"))
}

func TestIsAllowedMimeType(t *testing.T) {
	assert.True(t, IsAllowedMimeType("image/png"))
	assert.True(t, IsAllowedMimeType("image/GIF"))
	assert.False(t, IsAllowedMimeType("application/pdf"))
	assert.False(t, IsAllowedMimeType(""))
}
