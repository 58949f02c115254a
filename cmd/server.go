package cmd

import (
	"musicstore/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "启动 musicstore 服务器",
	Long:  `初始化数据库表结构后启动 HTTP 服务器，提供用户与曲目的 API`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start(cfg)
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
