package cmd

import (
	"fmt"

	"MeloFM/config"
	"MeloFM/core/icon"
	"MeloFM/core/library"
	"MeloFM/logger"

	"github.com/spf13/cobra"
)

var scanIcons bool

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "扫描音乐库并打印曲目数量",
	Long:  `一次性扫描配置的音乐目录；加 --icons 时同时对图标目录做一轮自动识别`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		logger.InitLogger(logger.Config{
			Level:      logger.LogLevel(cfg.LogLevel),
			OutputPath: cfg.LogPath,
			MaxSize:    cfg.LogMaxSize,
			MaxBackups: cfg.LogMaxBackups,
			MaxAge:     cfg.LogMaxAge,
			Compress:   cfg.LogCompress,
		})

		lib := library.New(cfg.MusicDirs(), cfg.AudioExtensions)
		tracks := lib.Rescan()
		fmt.Printf("scanned %d tracks from %d directories\n", len(tracks), len(cfg.MusicDirs()))

		if scanIcons {
			mgr := icon.NewManager(cfg.IconConfigPath, cfg.IconDirs(), cfg.MaxIconSize)
			if err := mgr.Startup(); err != nil {
				fmt.Printf("icon startup failed: %v\n", err)
				return
			}
			added, removed, err := mgr.ScanAndAutoDetect()
			if err != nil {
				fmt.Printf("icon scan failed: %v\n", err)
				return
			}
			fmt.Printf("icon scan: %d added/updated, %d removed\n", added, removed)
		}
	},
}

func init() {
	scanCmd.Flags().BoolVar(&scanIcons, "icons", false, "同时扫描图标目录")
	rootCmd.AddCommand(scanCmd)
}
