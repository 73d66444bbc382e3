package model

// Track represents an audio file found in the music library.
// Tracks are immutable; identity is the absolute file path.
type Track struct {
	Name     string `json:"name"`     // Display name: filename without extension
	Filename string `json:"filename"` // Raw filename including extension
	Path     string `json:"path"`     // Absolute path, unique identifier
	Size     int64  `json:"size"`     // File size in bytes
	Ext      string `json:"ext"`      // Lowercase extension including the dot
	Dir      string `json:"dir"`      // Source directory the track was scanned from
	Duration string `json:"duration"` // Estimated duration, "m:ss"
}
