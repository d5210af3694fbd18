package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-builder/adapters/media_storage"
	"github.com/khoahotran/portfolio-builder/internal/application/usecase/backup"
	"github.com/khoahotran/portfolio-builder/internal/config"
	"github.com/khoahotran/portfolio-builder/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}
	appLogger := logger.NewZapLogger(cfg.App.Env, "portfolio-builder-backup")
	defer func() { _ = appLogger.Sync() }()

	uploader, err := media_storage.NewCloudinaryAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize uploader", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	out, err := backup.NewBackupUseCase(cfg.DB.DSN, backup.PgDump, uploader, appLogger).Execute(ctx)
	if err != nil {
		appLogger.Fatal("Backup failed", err)
	}
	appLogger.Info("Backup done", zap.String("public_id", out.PublicID))
}
