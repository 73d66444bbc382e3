package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"MeloFM/config"
	"MeloFM/core/icon"
	"MeloFM/core/library"
	"MeloFM/core/player"
	"MeloFM/core/playlist"
	"MeloFM/logger"
	"MeloFM/repository"

	"github.com/gorilla/mux"
)

// Start initializes and starts the HTTP server.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
		Compress:   cfg.LogCompress,
	})

	// 启动时补齐缺失的目录
	if err := library.EnsureDirs(cfg.MusicDirs()); err != nil {
		logger.Fatal("创建音乐目录失败", logger.ErrorField(err))
	}

	// 扫描音乐库并用全量曲目初始化播放列表
	lib := library.New(cfg.MusicDirs(), cfg.AudioExtensions)
	lib.Rescan()

	queue := playlist.NewEngine()
	queue.Load(lib.Tracks(), "", playlist.CategoryAll)

	// 音频后端是可选协作方，这里不挂后端，逻辑时钟是唯一权威
	p := player.New(queue, nil)

	// 自定义歌单：启动时按最新扫描结果重新解析每条路径
	playlists := repository.NewJSONPlaylistRepository(cfg.PlaylistConfigPath)
	if err := playlists.Load(lib.Resolve); err != nil {
		logger.Error("加载自定义歌单失败", logger.ErrorField(err))
	}

	// 图标子系统：启动自愈 + 目录监听
	icons := icon.NewManager(cfg.IconConfigPath, cfg.IconDirs(), cfg.MaxIconSize)
	if err := icons.Startup(); err != nil {
		logger.Fatal("图标子系统启动失败", logger.ErrorField(err))
	}
	watcher, err := icon.NewWatcher(icons, cfg.DebounceQuiet)
	if err != nil {
		logger.Fatal("创建图标监听失败", logger.ErrorField(err))
	}
	if err := watcher.Start(); err != nil {
		logger.Fatal("启动图标监听失败", logger.ErrorField(err))
	}
	defer watcher.Stop()

	apiHandler := NewAPIHandler(lib, queue, p, playlists, icons, cfg)

	// 使用 gorilla/mux 创建路由器
	router := mux.NewRouter()

	// CORS 中间件
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	api := router.PathPrefix("/api").Subrouter()

	// 查询接口
	api.HandleFunc("/player/status", apiHandler.PlayerStatusHandler).Methods(http.MethodGet)
	api.HandleFunc("/playlist", apiHandler.PlaylistHandler).Methods(http.MethodGet)
	api.HandleFunc("/playlists", apiHandler.CustomPlaylistsHandler).Methods(http.MethodGet)
	api.HandleFunc("/icons", apiHandler.IconsHandler).Methods(http.MethodGet)
	api.HandleFunc("/ws/status", apiHandler.StatusWebSocketHandler)

	// 命令接口
	api.HandleFunc("/player/play", apiHandler.PlayHandler).Methods(http.MethodPost)
	api.HandleFunc("/player/pause", apiHandler.PauseHandler).Methods(http.MethodPost)
	api.HandleFunc("/player/next", apiHandler.NextHandler).Methods(http.MethodPost)
	api.HandleFunc("/player/previous", apiHandler.PreviousHandler).Methods(http.MethodPost)
	api.HandleFunc("/player/stop", apiHandler.StopHandler).Methods(http.MethodPost)
	api.HandleFunc("/player/volume", apiHandler.VolumeHandler).Methods(http.MethodPost)
	api.HandleFunc("/player/loop", apiHandler.LoopHandler).Methods(http.MethodPost)
	api.HandleFunc("/player/shuffle", apiHandler.ShuffleHandler).Methods(http.MethodPost)
	api.HandleFunc("/playlist/load", apiHandler.LoadPlaylistHandler).Methods(http.MethodPost)
	api.HandleFunc("/playlists", apiHandler.CreatePlaylistHandler).Methods(http.MethodPost)
	api.HandleFunc("/playlists/{name}/tracks", apiHandler.AddToPlaylistHandler).Methods(http.MethodPost)
	api.HandleFunc("/playlists/{name}/load", apiHandler.LoadCustomPlaylistHandler).Methods(http.MethodPost)
	api.HandleFunc("/icons/upload", apiHandler.UploadIconHandler).Methods(http.MethodPost)
	api.HandleFunc("/icons/{slot}", apiHandler.RemoveIconHandler).Methods(http.MethodDelete)
	api.HandleFunc("/icons/reset", apiHandler.ResetIconsHandler).Methods(http.MethodPost)
	api.HandleFunc("/icons/rescan", apiHandler.RescanIconsHandler).Methods(http.MethodPost)
	api.HandleFunc("/library/rescan", apiHandler.RescanHandler).Methods(http.MethodPost)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("MeloFM服务器启动", logger.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP服务器异常退出", logger.ErrorField(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("收到退出信号，开始关闭")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭失败", logger.ErrorField(err))
	}
	logger.Info("服务器已关闭")
}
