package main

import (
	"errors"
	"flag"
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-builder/internal/config"
	"github.com/khoahotran/portfolio-builder/pkg/logger"
)

func main() {
	source := flag.String("source", "file://migrations", "migration source URL")
	steps := flag.Int("steps", 0, "apply N steps (negative rolls back); 0 means all the way in the chosen direction")
	flag.Parse()

	direction := flag.Arg(0)
	if direction == "" {
		direction = "up"
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}
	appLogger := logger.NewZapLogger(cfg.App.Env, "portfolio-builder-migrate")
	defer func() { _ = appLogger.Sync() }()

	if cfg.DB.DSN == "" {
		appLogger.Fatal("Database DSN is not configured", errors.New("db.dsn is empty"))
	}

	m, err := migrate.New(*source, cfg.DB.DSN)
	if err != nil {
		appLogger.Fatal("Cannot create migrate instance", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			appLogger.Error("Failed to close migrate instance", errors.Join(srcErr, dbErr))
		}
	}()

	switch {
	case *steps != 0:
		err = m.Steps(*steps)
	case direction == "up":
		err = m.Up()
	case direction == "down":
		err = m.Down()
	default:
		appLogger.Fatal("Unknown direction", errors.New("use up or down"), zap.String("direction", direction))
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		appLogger.Fatal("Migration failed", err, zap.String("direction", direction))
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		appLogger.Fatal("Cannot read schema version", err)
	}
	appLogger.Info("Migrations applied", zap.String("direction", direction), zap.Uint("version", version), zap.Bool("dirty", dirty))
}
