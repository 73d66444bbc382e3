package cmd

import (
	"MeloFM/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "启动MeloFM服务器",
	Long:  `启动MeloFM播放器的HTTP控制服务，同时开启图标目录监听`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
