package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"yatube/internal/api"
	"yatube/internal/cache"
	"yatube/internal/events"
	"yatube/internal/repository"
	"yatube/internal/service"
	"yatube/internal/storage"
	"yatube/pkg/config"
	"yatube/pkg/db"
	"yatube/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// 初始化配置
	if err := config.Init(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg := config.GlobalConfig

	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.ProductionMode); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// 初始化数据库连接
	if err := db.InitDB(cfg.Database); err != nil {
		logger.L.Fatal("Failed to initialize database", zap.Error(err))
	}

	pageCache, err := cache.New(cfg.Cache)
	if err != nil {
		logger.L.Fatal("Failed to initialize cache", zap.Error(err))
	}
	if closer, ok := pageCache.(io.Closer); ok {
		defer closer.Close()
	}

	images, err := storage.New(cfg.Storage)
	if err != nil {
		logger.L.Fatal("Failed to initialize image storage", zap.Error(err))
	}

	publisher, err := events.New(cfg.Kafka)
	if err != nil {
		logger.L.Fatal("Failed to initialize event publisher", zap.Error(err))
	}
	defer publisher.Close()

	userRepo := repository.NewUserRepository()
	groupRepo := repository.NewGroupRepository()
	postRepo := repository.NewPostRepository()
	commentRepo := repository.NewCommentRepository()
	followRepo := repository.NewFollowRepository()

	gin.SetMode(cfg.Server.Mode)
	router := api.NewRouter(api.Dependencies{
		Config:   cfg,
		UserRepo: userRepo,
		Auth:     service.NewAuthService(userRepo),
		Feed:     service.NewFeedService(postRepo, groupRepo, userRepo, followRepo, commentRepo, pageCache, cfg.Pagination.PageSize),
		Posts:    service.NewPostService(postRepo, groupRepo, commentRepo, images, publisher, cfg.Storage.MaxImageSize),
		Follows:  service.NewFollowService(userRepo, followRepo, publisher),
		Groups:   service.NewGroupService(groupRepo),
		Images:   images,
	})

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.L.Info("Starting HTTP server", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.L.Fatal("HTTP server error", zap.Error(err))
		}
		logger.L.Info("Stopped serving new connections")
	}()

	<-sigChan

	shutdownCtx, shutdownRelease := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownRelease()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L.Error("HTTP shutdown error", zap.Error(err))
	}
	logger.L.Info("Server stopped")
}
