package auth

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-builder/internal/domain/profile"
	"github.com/khoahotran/portfolio-builder/pkg/apperror"
	"github.com/khoahotran/portfolio-builder/pkg/auth"
	"github.com/khoahotran/portfolio-builder/pkg/logger"
)

type LoginUseCase struct {
	profileRepo profile.Repository
	jwtSvc      *auth.JWTService
	logger      logger.Logger
}

func NewLoginUseCase(repo profile.Repository, jwtSvc *auth.JWTService, log logger.Logger) *LoginUseCase {
	return &LoginUseCase{
		profileRepo: repo,
		jwtSvc:      jwtSvc,
		logger:      log,
	}
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginOutput struct {
	Profile     *profile.Profile
	AccessToken string
}

var tracer = otel.Tracer("auth_usecase")

// Execute returns the same InvalidCredentials error for an unknown email and
// a wrong password.
func (uc *LoginUseCase) Execute(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	if input.Email == "" || input.Password == "" {
		return nil, apperror.NewInvalidCredentials()
	}

	p, err := uc.profileRepo.FindByEmail(ctx, profile.NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NewInvalidCredentials()
		}
		span.RecordError(err)
		return nil, err
	}

	if !auth.CheckPasswordHash(input.Password, p.PasswordHash) {
		return nil, apperror.NewInvalidCredentials()
	}

	token, err := uc.jwtSvc.GenerateToken(p.ID)
	if err != nil {
		uc.logger.Error("Failed to generate token", err, zap.String("user_id", p.ID.String()))
		err = apperror.NewInternal("failed to generate token", err)
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("user_id", p.ID.String()))
	return &LoginOutput{Profile: p, AccessToken: token}, nil
}
