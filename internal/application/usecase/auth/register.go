package auth

import (
	"context"
	"errors"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-builder/adapters/event"
	"github.com/khoahotran/portfolio-builder/internal/domain/profile"
	"github.com/khoahotran/portfolio-builder/pkg/apperror"
	"github.com/khoahotran/portfolio-builder/pkg/auth"
	"github.com/khoahotran/portfolio-builder/pkg/logger"
	"github.com/khoahotran/portfolio-builder/pkg/validation"
)

// MaxUsernameAttempts caps the random-suffix search before falling back to a
// timestamp suffix.
const MaxUsernameAttempts = 20

var errUsernameTaken = errors.New("username taken")

type RegisterUseCase struct {
	profileRepo profile.Repository
	jwtSvc      *auth.JWTService
	publisher   event.Publisher
	logger      logger.Logger
	bcryptCost  int

	now    func() time.Time
	suffix func() int
}

func NewRegisterUseCase(repo profile.Repository, jwtSvc *auth.JWTService, publisher event.Publisher, bcryptCost int, log logger.Logger) *RegisterUseCase {
	return &RegisterUseCase{
		profileRepo: repo,
		jwtSvc:      jwtSvc,
		publisher:   publisher,
		logger:      log,
		bcryptCost:  bcryptCost,
		now:         time.Now,
		suffix:      func() int { return 100 + rand.IntN(900) },
	}
}

type RegisterInput struct {
	FullName string
	Email    string
	Password string
	Username string
}

type RegisterOutput struct {
	Profile     *profile.Profile
	AccessToken string
}

func (uc *RegisterUseCase) Execute(ctx context.Context, input RegisterInput) (*RegisterOutput, error) {
	ctx, span := tracer.Start(ctx, "Register")
	defer span.End()

	email := profile.NormalizeEmail(input.Email)
	if err := validation.First(multierr.Combine(
		profile.ValidateFullName(input.FullName),
		profile.ValidateEmail(email),
		profile.ValidatePassword(input.Password),
	)); err != nil {
		return nil, err
	}

	taken, err := uc.profileRepo.EmailExists(ctx, email)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if taken {
		return nil, apperror.NewConflict("User", "email", email)
	}

	now := uc.now().UTC()
	p := profile.New(input.FullName, email, now)

	hash, err := auth.HashPasswordWithCost(input.Password, uc.bcryptCost)
	if err != nil {
		return nil, apperror.NewInternal("failed to hash password", err)
	}
	p.PasswordHash = hash

	if strings.TrimSpace(input.Username) != "" {
		p.Username = input.Username
		taken, err = uc.profileRepo.UsernameExists(ctx, p.Username)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		if taken {
			return nil, apperror.NewConflict("User", "username", p.Username)
		}
		err = uc.profileRepo.Create(ctx, p)
	} else {
		err = uc.createWithGeneratedUsername(ctx, p)
	}
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	token, err := uc.jwtSvc.GenerateToken(p.ID)
	if err != nil {
		uc.logger.Error("Failed to generate token", err, zap.String("user_id", p.ID.String()))
		return nil, apperror.NewInternal("failed to generate token", err)
	}

	span.SetAttributes(attribute.String("user_id", p.ID.String()), attribute.String("username", p.Username))
	uc.logger.Info("User registered", zap.String("user_id", p.ID.String()), zap.String("username", p.Username))

	go func() {
		err := uc.publisher.PublishProfileEvent(context.Background(), event.ProfileEventPayload{
			EventType: event.ProfileEventTypeRegistered,
			UserID:    p.ID,
			Username:  p.Username,
		})
		if err != nil {
			uc.logger.Error("Failed to publish 'registered' event", err, zap.String("user_id", p.ID.String()))
		}
	}()

	return &RegisterOutput{Profile: p, AccessToken: token}, nil
}

// createWithGeneratedUsername inserts p under a generated username. A
// username conflict on insert means another registration claimed the name
// after the check, so it picks again.
func (uc *RegisterUseCase) createWithGeneratedUsername(ctx context.Context, p *profile.Profile) error {
	for attempt := 1; ; attempt++ {
		username, err := uc.generateUsername(ctx, p.FullName)
		if err != nil {
			return err
		}
		p.Username = username

		err = uc.profileRepo.Create(ctx, p)
		if err == nil || attempt == MaxUsernameAttempts || !isUsernameConflict(err) {
			return err
		}
		uc.logger.Debug("Generated username claimed concurrently, picking another", zap.String("username", username))
	}
}

func isUsernameConflict(err error) bool {
	return errors.Is(err, apperror.ErrConflict) && apperror.From(err).Field == "username"
}

// generateUsername appends a random 3-digit suffix to the normalized name
// until it finds a free one. After MaxUsernameAttempts collisions it uses the
// current UnixNano instead.
func (uc *RegisterUseCase) generateUsername(ctx context.Context, fullName string) (string, error) {
	base := profile.UsernameBase(fullName)

	var username string
	backoff := retry.WithMaxRetries(MaxUsernameAttempts-1, retry.NewConstant(time.Microsecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		candidate := base + strconv.Itoa(uc.suffix())
		taken, err := uc.profileRepo.UsernameExists(ctx, candidate)
		if err != nil {
			return err
		}
		if taken {
			return retry.RetryableError(errUsernameTaken)
		}
		username = candidate
		return nil
	})

	switch {
	case err == nil:
		return username, nil
	case errors.Is(err, errUsernameTaken):
		fallback := base + strconv.FormatInt(uc.now().UnixNano(), 10)
		uc.logger.Warn("Username suffixes exhausted, using timestamp", zap.String("username", fallback))
		return fallback, nil
	default:
		return "", err
	}
}
