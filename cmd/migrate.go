package cmd

import (
	"context"
	"fmt"
	"time"

	"musicstore/db"
	"musicstore/logger"

	"github.com/spf13/cobra"
)

var migrateTimeout time.Duration

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "创建缺失的数据表",
	Long:  `连接数据库并创建 music_users 与 tracks 表（已存在的表不会被修改）`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
		defer cancel()

		gdb, err := db.ConnectGormDB(ctx, cfg)
		if err != nil {
			logger.Fatal("Failed to connect to database", logger.ErrorField(err))
		}
		defer db.Close(gdb)

		if err := db.EnsureSchema(ctx, gdb); err != nil {
			logger.Fatal("Failed to initialize database schema", logger.ErrorField(err))
		}

		fmt.Println("Schema is up to date.")
	},
}

func init() {
	migrateCmd.Flags().DurationVar(&migrateTimeout, "timeout", time.Minute, "overall timeout for the schema check")
	rootCmd.AddCommand(migrateCmd)
}
