package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"musicstore/config"
	"musicstore/db"
	"musicstore/logger"
	"musicstore/repository"
	"musicstore/storage"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const shutdownTimeout = 15 * time.Second

// NewRouter 注册所有路由与中间件
func NewRouter(h *APIHandler, metrics *Metrics) http.Handler {
	router := mux.NewRouter()
	router.Use(metrics.Middleware)

	router.HandleFunc("/", h.RootHandler).Methods(http.MethodGet)
	router.HandleFunc("/healthz", h.HealthHandler).Methods(http.MethodGet)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	// 用户相关的API端点
	router.HandleFunc("/users", h.CreateUserHandler).Methods(http.MethodPost)
	router.HandleFunc("/users", h.ListUsersHandler).Methods(http.MethodGet)
	router.HandleFunc("/users/find", h.FindUserHandler).Methods(http.MethodGet)
	router.HandleFunc("/users/{id}", h.GetUserHandler).Methods(http.MethodGet)
	router.HandleFunc("/users/{id}", h.UpdateUserHandler).Methods(http.MethodPut)
	router.HandleFunc("/users/{id}", h.DeleteUserHandler).Methods(http.MethodDelete)

	// 曲目相关的API端点
	router.HandleFunc("/tracks", h.ListTracksHandler).Methods(http.MethodGet)
	router.HandleFunc("/tracks", h.CreateTrackHandler).Methods(http.MethodPost)
	router.HandleFunc("/tracks/search", h.SearchTracksHandler).Methods(http.MethodGet)
	router.HandleFunc("/tracks/{id}", h.GetTrackHandler).Methods(http.MethodGet)
	router.HandleFunc("/tracks/{id}", h.UpdateTrackHandler).Methods(http.MethodPut)
	router.HandleFunc("/tracks/{id}", h.PatchTrackHandler).Methods(http.MethodPatch)
	router.HandleFunc("/tracks/{id}", h.DeleteTrackHandler).Methods(http.MethodDelete)
	router.HandleFunc("/tracks/{id}/media", h.TrackMediaHandler).Methods(http.MethodGet)

	// mux 只对匹配到的路由执行 Use 中间件，CORS 预检和请求ID需要包在外层
	return corsMiddleware(requestIDMiddleware(router))
}

// NewHandler wires the stores, the optional media resolver and a fresh metrics
// registry into a ready-to-serve handler.
func NewHandler(gdb *gorm.DB, media MediaResolver) (http.Handler, error) {
	metrics, err := NewMetrics(prometheus.NewRegistry())
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	h := NewAPIHandler(
		repository.NewGormUserRepository(gdb),
		repository.NewGormTrackRepository(gdb),
		media,
		func(ctx context.Context) error { return db.Ping(ctx, gdb) },
	)
	return NewRouter(h, metrics), nil
}

// Start initializes and starts the HTTP server.
// 启动失败时直接退出进程
func Start(cfg *config.Config) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := Run(ctx, cfg); err != nil {
		logger.Fatal("Server exited with error", logger.ErrorField(err))
	}
	logger.Info("Server stopped")
}

// Run 连接数据库、初始化表结构并提供 HTTP 服务，直到 ctx 被取消
func Run(ctx context.Context, cfg *config.Config) error {
	gdb, err := db.ConnectGormDB(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close(gdb)

	if err := db.EnsureSchema(ctx, gdb); err != nil {
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	var media MediaResolver
	resolver, err := storage.NewMediaResolver(cfg)
	switch {
	case err == nil:
		media = resolver
	case errors.Is(err, storage.ErrMediaDisabled):
		logger.Warn("MINIO_ENDPOINT not set, media URLs disabled")
	default:
		return err
	}

	handler, err := NewHandler(gdb, media)
	if err != nil {
		return err
	}

	// 设置服务器超时
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server listening", logger.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
