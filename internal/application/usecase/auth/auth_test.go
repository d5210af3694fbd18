package auth

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/khoahotran/portfolio-builder/adapters/event"
	"github.com/khoahotran/portfolio-builder/adapters/persistence"
	"github.com/khoahotran/portfolio-builder/internal/domain/profile"
	"github.com/khoahotran/portfolio-builder/pkg/apperror"
	pkgauth "github.com/khoahotran/portfolio-builder/pkg/auth"
	"github.com/khoahotran/portfolio-builder/pkg/logger"
)

type AuthUseCaseTestSuite struct {
	suite.Suite
	ctx      context.Context
	repo     profile.Repository
	jwtSvc   *pkgauth.JWTService
	register *RegisterUseCase
	login    *LoginUseCase
}

func (s *AuthUseCaseTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = persistence.NewMemoryStore().Profiles()
	s.jwtSvc = pkgauth.NewJWTService("test-secret", 7*24*time.Hour)
	log := logger.NewNopLogger()
	s.register = NewRegisterUseCase(s.repo, s.jwtSvc, event.NopPublisher{}, 4, log)
	s.login = NewLoginUseCase(s.repo, s.jwtSvc, log)
}

func (s *AuthUseCaseTestSuite) registerAda() *RegisterOutput {
	out, err := s.register.Execute(s.ctx, RegisterInput{
		FullName: "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "secret1",
	})
	s.Require().NoError(err)
	return out
}

func (s *AuthUseCaseTestSuite) fieldOf(err error) string {
	var appErr *apperror.AppError
	s.Require().True(errors.As(err, &appErr))
	return appErr.Field
}

func (s *AuthUseCaseTestSuite) TestRegisterGeneratesUsername() {
	out := s.registerAda()

	s.Regexp(`^adalovelace[1-9][0-9]{2}$`, out.Profile.Username)
	s.Equal("ada@example.com", out.Profile.Email)
	s.NotEmpty(out.Profile.PasswordHash)
	s.NotEqual("secret1", out.Profile.PasswordHash)
	s.True(pkgauth.CheckPasswordHash("secret1", out.Profile.PasswordHash))

	claims, err := s.jwtSvc.ValidateToken(out.AccessToken)
	s.Require().NoError(err)
	s.Equal(out.Profile.ID, claims.UserID)

	stored, err := s.repo.FindByID(s.ctx, out.Profile.ID)
	s.Require().NoError(err)
	s.Equal(out.Profile.Username, stored.Username)
	s.Equal(profile.DefaultSectionOrder(), stored.SectionOrder)
}

func (s *AuthUseCaseTestSuite) TestRegisterKeepsSuppliedUsername() {
	out, err := s.register.Execute(s.ctx, RegisterInput{
		FullName: "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "secret1",
		Username: "Countess_Ada",
	})
	s.Require().NoError(err)
	s.Equal("Countess_Ada", out.Profile.Username)

	_, err = s.register.Execute(s.ctx, RegisterInput{
		FullName: "Someone Else",
		Email:    "else@example.com",
		Password: "secret1",
		Username: "Countess_Ada",
	})
	s.True(errors.Is(err, apperror.ErrConflict))
	s.Equal("username", s.fieldOf(err))
}

func (s *AuthUseCaseTestSuite) TestRegisterDuplicateEmail() {
	s.registerAda()

	_, err := s.register.Execute(s.ctx, RegisterInput{
		FullName: "Ada Again",
		Email:    "  ADA@example.com ",
		Password: "secret2",
	})
	s.True(errors.Is(err, apperror.ErrConflict))
	s.Equal("email", s.fieldOf(err))
}

func (s *AuthUseCaseTestSuite) TestRegisterValidation() {
	cases := []struct {
		input RegisterInput
		field string
	}{
		{RegisterInput{FullName: " A ", Email: "a@example.com", Password: "secret1"}, "fullName"},
		{RegisterInput{FullName: "Ada", Email: "not-an-email", Password: "secret1"}, "email"},
		{RegisterInput{FullName: "Ada", Email: "a@example.com", Password: "12345"}, "password"},
	}
	for _, tc := range cases {
		_, err := s.register.Execute(s.ctx, tc.input)
		s.True(errors.Is(err, apperror.ErrInvalidInput), tc.field)
		s.Equal(tc.field, s.fieldOf(err))
	}
}

func (s *AuthUseCaseTestSuite) TestUsernameRetriesOnCollision() {
	taken := profile.New("Ada Lovelace", "first@example.com", time.Now())
	taken.Username = "adalovelace111"
	s.Require().NoError(s.repo.Create(s.ctx, taken))

	suffixes := []int{111, 111, 222}
	calls := 0
	s.register.suffix = func() int {
		n := suffixes[calls]
		calls++
		return n
	}

	out := s.registerAda()
	s.Equal("adalovelace222", out.Profile.Username)
	s.Equal(3, calls)
}

func (s *AuthUseCaseTestSuite) TestUsernameFallsBackToTimestamp() {
	taken := profile.New("Ada Lovelace", "first@example.com", time.Now())
	taken.Username = "adalovelace111"
	s.Require().NoError(s.repo.Create(s.ctx, taken))

	fixed := time.Date(2024, 5, 1, 12, 0, 0, 42, time.UTC)
	calls := 0
	s.register.suffix = func() int { calls++; return 111 }
	s.register.now = func() time.Time { return fixed }

	out := s.registerAda()
	s.Equal("adalovelace"+strconv.FormatInt(fixed.UnixNano(), 10), out.Profile.Username)
	s.Equal(MaxUsernameAttempts, calls)
}

// staleUsernameCheck reports every username as free, as a check that lost
// the race against a concurrent insert would.
type staleUsernameCheck struct {
	profile.Repository
}

func (staleUsernameCheck) UsernameExists(context.Context, string) (bool, error) {
	return false, nil
}

func (s *AuthUseCaseTestSuite) TestGeneratedUsernameRetriesOnInsertConflict() {
	taken := profile.New("Ada Lovelace", "first@example.com", time.Now())
	taken.Username = "adalovelace111"
	s.Require().NoError(s.repo.Create(s.ctx, taken))

	uc := NewRegisterUseCase(staleUsernameCheck{s.repo}, s.jwtSvc, event.NopPublisher{}, 4, logger.NewNopLogger())
	suffixes := []int{111, 222}
	calls := 0
	uc.suffix = func() int {
		n := suffixes[calls]
		calls++
		return n
	}

	out, err := uc.Execute(s.ctx, RegisterInput{FullName: "Ada Lovelace", Email: "ada@example.com", Password: "secret1"})
	s.Require().NoError(err)
	s.Equal("adalovelace222", out.Profile.Username)
	s.Equal(2, calls)

	stored, err := s.repo.FindByUsername(s.ctx, "adalovelace222")
	s.Require().NoError(err)
	s.Equal(out.Profile.ID, stored.ID)
}

func (s *AuthUseCaseTestSuite) TestSuppliedUsernameConflictOnInsertIsReported() {
	taken := profile.New("Ada Lovelace", "first@example.com", time.Now())
	taken.Username = "countess"
	s.Require().NoError(s.repo.Create(s.ctx, taken))

	uc := NewRegisterUseCase(staleUsernameCheck{s.repo}, s.jwtSvc, event.NopPublisher{}, 4, logger.NewNopLogger())
	_, err := uc.Execute(s.ctx, RegisterInput{FullName: "Ada Lovelace", Email: "ada@example.com", Password: "secret1", Username: "countess"})
	s.True(errors.Is(err, apperror.ErrConflict))
	s.Equal("username", s.fieldOf(err))
}

func (s *AuthUseCaseTestSuite) TestLogin() {
	registered := s.registerAda()

	out, err := s.login.Execute(s.ctx, LoginInput{Email: "ADA@example.com", Password: "secret1"})
	s.Require().NoError(err)
	s.Equal(registered.Profile.ID, out.Profile.ID)
	s.NotEmpty(out.AccessToken)

	_, wrongPassword := s.login.Execute(s.ctx, LoginInput{Email: "ada@example.com", Password: "nope123"})
	_, unknownEmail := s.login.Execute(s.ctx, LoginInput{Email: "nobody@example.com", Password: "secret1"})
	s.True(errors.Is(wrongPassword, apperror.ErrInvalidCredentials))
	s.True(errors.Is(unknownEmail, apperror.ErrInvalidCredentials))
	s.Equal(wrongPassword.Error(), unknownEmail.Error())
}

func TestAuthUseCaseTestSuite(t *testing.T) {
	suite.Run(t, new(AuthUseCaseTestSuite))
}
