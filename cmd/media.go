package cmd

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"musicstore/db"
	"musicstore/repository"
	"musicstore/storage"

	"github.com/spf13/cobra"
)

var (
	mediaCheckBucket bool
	mediaStat        bool
)

var mediaCmd = &cobra.Command{
	Use:   "media <track-id>",
	Short: "打印曲目媒体文件的预签名地址",
	Long:  `从数据库读取曲目，使用 MinIO 为其音频文件和封面生成预签名下载地址。`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		trackID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			log.Fatalf("无效的曲目ID %q: %v", args[0], err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		fmt.Printf("MinIO配置: %s, Bucket: %s\n", cfg.MinioEndpoint, cfg.MinioBucket)
		resolver, err := storage.NewMediaResolver(cfg)
		if err != nil {
			log.Fatalf("创建媒体解析器失败: %v", err)
		}

		if mediaCheckBucket {
			ok, err := resolver.BucketExists(ctx)
			if err != nil {
				log.Fatalf("无法连接到MinIO: %v", err)
			}
			if !ok {
				log.Fatalf("存储桶 %s 不存在", cfg.MinioBucket)
			}
			fmt.Println("存储桶检查通过")
		}

		gdb, err := db.ConnectGormDB(ctx, cfg)
		if err != nil {
			log.Fatalf("连接数据库失败: %v", err)
		}
		defer db.Close(gdb)

		track, err := repository.NewGormTrackRepository(gdb).GetByID(ctx, trackID)
		if err != nil {
			log.Fatalf("读取曲目失败: %v", err)
		}
		if track == nil {
			log.Fatalf("曲目 %d 不存在", trackID)
		}

		media, err := resolver.Resolve(ctx, track)
		if err != nil {
			log.Fatalf("生成预签名地址失败: %v", err)
		}

		fmt.Printf("\n%s - %s\n", track.Author, track.Title)
		if media.FileURL != "" {
			fmt.Printf("音频: %s\n", media.FileURL)
		} else {
			fmt.Println("音频: (无)")
		}
		if media.ImageURL != nil {
			fmt.Printf("封面: %s\n", *media.ImageURL)
		}

		if mediaStat {
			info, err := resolver.StatAudio(ctx, track)
			if err != nil {
				log.Fatalf("获取音频信息失败: %v", err)
			}
			if info == nil {
				fmt.Println("音频对象不存在")
				return
			}
			fmt.Printf("对象: %s, 大小: %d bytes, 类型: %s, 修改时间: %s\n",
				info.Key, info.Size, info.ContentType, info.LastModified.Format(time.RFC3339))
		}
	},
}

func init() {
	mediaCmd.Flags().BoolVar(&mediaStat, "stat", false, "显示音频对象的元数据")
	mediaCmd.Flags().BoolVar(&mediaCheckBucket, "check-bucket", false, "检查存储桶是否存在")
	rootCmd.AddCommand(mediaCmd)
}
