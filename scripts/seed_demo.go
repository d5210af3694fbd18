package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-builder/adapters/event"
	"github.com/khoahotran/portfolio-builder/adapters/persistence"
	authUC "github.com/khoahotran/portfolio-builder/internal/application/usecase/auth"
	profileUC "github.com/khoahotran/portfolio-builder/internal/application/usecase/profile"
	projectUC "github.com/khoahotran/portfolio-builder/internal/application/usecase/project"
	"github.com/khoahotran/portfolio-builder/internal/config"
	"github.com/khoahotran/portfolio-builder/pkg/apperror"
	"github.com/khoahotran/portfolio-builder/pkg/auth"
	"github.com/khoahotran/portfolio-builder/pkg/logger"
)

func main() {
	email := flag.String("email", "demo@example.com", "demo account email")
	password := flag.String("password", "demo1234", "demo account password")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}
	appLogger := logger.NewZapLogger(cfg.App.Env, "portfolio-builder-seed")
	defer func() { _ = appLogger.Sync() }()

	ctx := context.Background()
	pool, err := persistence.NewPostgresPool(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot connect DB", err)
	}
	defer pool.Close()

	profiles := persistence.NewPostgresProfileRepo(pool, appLogger, cfg.DB.QueryTimeout)
	projects := persistence.NewPostgresProjectRepo(pool, appLogger, cfg.DB.QueryTimeout)
	jwtSvc := auth.NewJWTService("seed-only", cfg.Auth.TokenLifespan)
	pub := event.NopPublisher{}

	registered, err := authUC.NewRegisterUseCase(profiles, jwtSvc, pub, cfg.Auth.BcryptCost, appLogger).Execute(ctx, authUC.RegisterInput{
		FullName: "Demo Developer",
		Email:    *email,
		Password: *password,
		Username: "demo",
	})
	if errors.Is(err, apperror.ErrConflict) {
		appLogger.Info("Demo account already exists, nothing to do", zap.String("email", *email))
		return
	}
	if err != nil {
		appLogger.Fatal("Cannot register demo account", err)
	}
	userID := registered.Profile.ID

	title, intro := "Full-stack Engineer", "I build small, sharp web products."
	skills := []string{"Go", "PostgreSQL", "Kafka", "React"}
	if _, err := profileUC.NewProfileUseCase(profiles, pub, appLogger).ExecuteUpdateProfile(ctx, profileUC.UpdateProfileInput{
		UserID: userID,
		Patch:  profileUC.ProfilePatch{Title: &title, Intro: &intro, Skills: &skills},
	}); err != nil {
		appLogger.Fatal("Cannot fill demo profile", err)
	}

	create := projectUC.NewCreateProjectUseCase(projects, pub, appLogger)
	for _, f := range []projectUC.ProjectFields{
		{Title: "Portfolio Builder", Description: "This very app.", TechStack: []string{"Go", "Gin"}},
		{Title: "Event Pipeline", Description: "Kafka consumers with at-least-once delivery.", TechStack: []string{"Go", "Kafka"}},
	} {
		if _, err := create.Execute(ctx, projectUC.CreateProjectInput{UserID: userID, Fields: f}); err != nil {
			appLogger.Fatal("Cannot create demo project", err, zap.String("title", f.Title))
		}
	}

	appLogger.Info("Seeded demo portfolio", zap.String("email", *email), zap.String("username", registered.Profile.Username))
}
