package server

import (
	"context"
	"net/http"

	"musicstore/logger"
	"musicstore/model"
	"musicstore/repository"
)

// MediaResolver 生成曲目媒体的下载地址
type MediaResolver interface {
	Resolve(ctx context.Context, track *model.Track) (*model.TrackMedia, error)
}

// APIHandler 处理所有API请求
type APIHandler struct {
	userRepo  repository.UserRepository
	trackRepo repository.TrackRepository
	media     MediaResolver
	ping      func(ctx context.Context) error
}

// NewAPIHandler 创建新的API处理器
// media 为 nil 时 /tracks/{id}/media 返回 503
func NewAPIHandler(
	userRepo repository.UserRepository,
	trackRepo repository.TrackRepository,
	media MediaResolver,
	ping func(ctx context.Context) error,
) *APIHandler {
	return &APIHandler{
		userRepo:  userRepo,
		trackRepo: trackRepo,
		media:     media,
		ping:      ping,
	}
}

// RootHandler greets.
func (h *APIHandler) RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("hi!"))
}

// HealthHandler 检查数据库连接
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if h.ping != nil {
		if err := h.ping(r.Context()); err != nil {
			logger.Warn("Health check failed", logger.ErrorField(err))
			writeMessage(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	writeMessage(w, http.StatusOK, "ok")
}
