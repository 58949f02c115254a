package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"musicstore/config"
	"musicstore/logger"
	"musicstore/model"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrMediaDisabled 表示未配置 MinIO
var ErrMediaDisabled = errors.New("media storage is not configured")

// ObjectInfo 文件信息
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
	ContentType  string
}

// MediaResolver 把曲目的 filePath / imagePath 对象键转换为预签名下载地址
type MediaResolver struct {
	client *minio.Client
	bucket string
	expiry time.Duration
}

// NewMediaResolver 创建媒体地址解析器
// 未配置 MinIO 时返回 ErrMediaDisabled
func NewMediaResolver(cfg *config.Config) (*MediaResolver, error) {
	if !cfg.MediaEnabled() {
		return nil, ErrMediaDisabled
	}

	// Region 必须配置：预签名时不再向服务端查询 bucket 所在区域
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 MinIO 客户端失败: %w", err)
	}

	logger.Info("MinIO media resolver initialized",
		logger.String("endpoint", cfg.MinioEndpoint),
		logger.String("bucket", cfg.MinioBucket),
		logger.Duration("expiry", cfg.MediaURLExpiry),
	)

	return &MediaResolver{
		client: client,
		bucket: cfg.MinioBucket,
		expiry: cfg.MediaURLExpiry,
	}, nil
}

// Resolve 为曲目的音频与封面生成预签名地址，空路径会被跳过
func (m *MediaResolver) Resolve(ctx context.Context, track *model.Track) (*model.TrackMedia, error) {
	media := &model.TrackMedia{TrackID: track.ID}

	if key := objectKey(track.FilePath); key != "" {
		u, err := m.presign(ctx, key, "audio/mpeg")
		if err != nil {
			return nil, err
		}
		media.FileURL = u
	}

	if track.ImagePath != nil {
		if key := objectKey(*track.ImagePath); key != "" {
			u, err := m.presign(ctx, key, "image/jpeg")
			if err != nil {
				return nil, err
			}
			media.ImageURL = &u
		}
	}

	return media, nil
}

// BucketExists 检查配置的存储桶是否存在
func (m *MediaResolver) BucketExists(ctx context.Context) (bool, error) {
	ok, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return false, fmt.Errorf("检查存储桶失败: %w", err)
	}
	return ok, nil
}

// StatAudio 读取曲目音频对象的元数据
// filePath 为空或对象不存在时返回 nil
func (m *MediaResolver) StatAudio(ctx context.Context, track *model.Track) (*ObjectInfo, error) {
	key := objectKey(track.FilePath)
	if key == "" {
		return nil, nil
	}

	info, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, nil
		}
		return nil, fmt.Errorf("获取对象信息失败 %s: %w", key, err)
	}

	return &ObjectInfo{
		Key:          info.Key,
		Size:         info.Size,
		LastModified: info.LastModified,
		ContentType:  info.ContentType,
	}, nil
}

func (m *MediaResolver) presign(ctx context.Context, key, contentType string) (string, error) {
	params := url.Values{}
	params.Set("response-content-type", contentType)

	u, err := m.client.PresignedGetObject(ctx, m.bucket, key, m.expiry, params)
	if err != nil {
		return "", fmt.Errorf("生成预签名地址失败 %s: %w", key, err)
	}
	return u.String(), nil
}

// objectKey 去掉路径前导的 "/" 和 "static/" 前缀，得到存储桶内的对象键
func objectKey(path string) string {
	key := strings.TrimPrefix(strings.TrimSpace(path), "/")
	return strings.TrimPrefix(key, "static/")
}
