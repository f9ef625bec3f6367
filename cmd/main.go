package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	svix "github.com/svix/svix-webhooks/go"

	"github.com/filedrive/filedrive-server/internal/api/http/handler"
	"github.com/filedrive/filedrive-server/internal/api/http/httpctx"
	"github.com/filedrive/filedrive-server/internal/api/http/router"
	httpServer "github.com/filedrive/filedrive-server/internal/api/http/server"
	"github.com/filedrive/filedrive-server/internal/config"
	"github.com/filedrive/filedrive-server/internal/logger"
	"github.com/filedrive/filedrive-server/internal/repository/postgres"
	"github.com/filedrive/filedrive-server/internal/service"
	storage "github.com/filedrive/filedrive-server/internal/storage/minio"
	"github.com/filedrive/filedrive-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	fileRepo := postgres.NewFileRepository(db)
	favoriteRepo := postgres.NewFavoriteRepository(db)

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to create minio client", "error", err)
	}
	objectStore, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket, cfg.Storage.PresignTTL)
	if err != nil {
		logger.Fatal("failed to initialize object store", "error", err)
	}

	directoryService := service.NewDirectory(userRepo, logger)
	fileService := service.NewFile(fileRepo, favoriteRepo, userRepo, objectStore, logger, cfg.Trash.Retention)
	ingestService := service.NewIngest(directoryService, logger)
	sweeper := service.NewSweeper(fileRepo, objectStore, logger, cfg.Trash.SweepInterval)

	verifier, err := svix.NewWebhook(cfg.Webhook.SigningSecret)
	if err != nil {
		logger.Fatal("failed to initialize webhook verifier", "error", err)
	}

	tokenManager := token.NewJWT(cfg.Auth.JWTSecret)
	ctxMgr := httpctx.NewManager()

	filesHandler := handler.NewFiles(fileService, ctxMgr, logger)
	webhookHandler := handler.NewWebhook(ingestService, verifier, logger)
	authHandler := handler.NewAuth(tokenManager, verifier, logger)
	healthHandler := handler.NewHealth(db)

	r := router.New(filesHandler, webhookHandler, authHandler, healthHandler, tokenManager, ctxMgr, logger)

	var cert, key string
	if cfg.HTTP.EnableHTTPS {
		cert, key = cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName
	}
	srv := httpServer.New(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port), cert, key)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		sweeper.Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("Starting server on", "address", srv.Address())
		if err := srv.Start(); err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}()

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", srv.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
