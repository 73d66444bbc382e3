package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config stores the application configuration.
// Paths default to a self-contained layout under the working directory.
type Config struct {
	ListenAddr string // HTTP control plane listen address

	MusicDir        string   // Base directory for the music library
	MusicSubDirs    []string // Category subdirectories scanned alongside MusicDir
	AudioExtensions []string // Allowed audio file extensions, lowercase with dot

	IconDir        string   // Base directory for custom icons
	IconSubDirs    []string // Fixed icon subdirectories: buttons, backgrounds, animations
	IconConfigPath string   // Persisted slot -> icon mapping
	MaxIconSize    int64    // Upload size ceiling in bytes

	PlaylistConfigPath string // Persisted custom playlists

	DebounceQuiet time.Duration // Quiet period for the icon watch loop

	// 日志配置
	LogLevel      string
	LogPath       string
	LogMaxSize    int
	LogMaxBackups int
	LogMaxAge     int
	LogCompress   bool
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvList gets a comma separated environment variable or returns a default.
func getEnvList(key string, fallback []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load() will not override existing env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env, relying on existing environment variables and defaults.")
	}

	musicDir := getEnv("MUSIC_DIR", "music")
	iconDir := getEnv("ICON_DIR", "icons")

	return &Config{
		ListenAddr: getEnv("LISTEN_ADDR", ":8080"),

		MusicDir:        musicDir,
		MusicSubDirs:    getEnvList("MUSIC_SUBDIRS", []string{"library", "downloads"}),
		AudioExtensions: getEnvList("AUDIO_EXTENSIONS", []string{".mp3", ".wav", ".flac"}),

		IconDir:        iconDir,
		IconSubDirs:    getEnvList("ICON_SUBDIRS", []string{"buttons", "backgrounds", "animations"}),
		IconConfigPath: getEnv("ICON_CONFIG", filepath.Join(iconDir, "icon-config.json")),
		MaxIconSize:    int64(getEnvInt("MAX_ICON_SIZE", 8*1024*1024)),

		PlaylistConfigPath: getEnv("PLAYLIST_CONFIG", "custom_playlists.json"),

		DebounceQuiet: time.Duration(getEnvInt("DEBOUNCE_QUIET_MS", 1000)) * time.Millisecond,

		// 日志默认写到 logs/melofm.log，按大小轮转
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogPath:       getEnv("LOG_PATH", filepath.Join("logs", "melofm.log")),
		LogMaxSize:    getEnvInt("LOG_MAX_SIZE", 100),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 3),
		LogMaxAge:     getEnvInt("LOG_MAX_AGE", 28),
		LogCompress:   getEnv("LOG_COMPRESS", "true") == "true",
	}
}

// MusicDirs returns the full list of scanned music directories:
// the base directory plus each configured category subdirectory.
func (c *Config) MusicDirs() []string {
	dirs := []string{c.MusicDir}
	for _, sub := range c.MusicSubDirs {
		dirs = append(dirs, filepath.Join(c.MusicDir, sub))
	}
	return dirs
}

// IconDirs returns the watched icon directories.
func (c *Config) IconDirs() []string {
	dirs := make([]string, 0, len(c.IconSubDirs))
	for _, sub := range c.IconSubDirs {
		dirs = append(dirs, filepath.Join(c.IconDir, sub))
	}
	return dirs
}
