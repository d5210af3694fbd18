package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/khoahotran/portfolio-builder/internal/domain/integration"
	"github.com/khoahotran/portfolio-builder/internal/domain/profile"
	"github.com/khoahotran/portfolio-builder/internal/domain/project"
	"github.com/khoahotran/portfolio-builder/pkg/apperror"
)

type MemoryStoreTestSuite struct {
	suite.Suite
	ctx      context.Context
	store    *MemoryStore
	profiles profile.Repository
	projects project.Repository
	owner    *profile.Profile
}

func (s *MemoryStoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewMemoryStore()
	s.profiles = s.store.Profiles()
	s.projects = s.store.Projects()

	s.owner = profile.New("Ada Lovelace", "ada@example.com", time.Now().UTC())
	s.owner.Username = "adalovelace123"
	s.owner.PasswordHash = "hash"
	s.Require().NoError(s.profiles.Create(s.ctx, s.owner))
}

func (s *MemoryStoreTestSuite) TestCreateRejectsDuplicates() {
	dupEmail := profile.New("Someone Else", "ada@example.com", time.Now())
	dupEmail.Username = "someone"
	err := s.profiles.Create(s.ctx, dupEmail)
	s.True(errors.Is(err, apperror.ErrConflict))

	dupUsername := profile.New("Ada Again", "other@example.com", time.Now())
	dupUsername.Username = "adalovelace123"
	err = s.profiles.Create(s.ctx, dupUsername)
	s.True(errors.Is(err, apperror.ErrConflict))
}

func (s *MemoryStoreTestSuite) TestUpdateSEOScoreTouchesOnlyScore() {
	seo := s.owner.SEO
	seo.MetaTitle = "Ada Lovelace | Programmer"
	s.Require().NoError(s.profiles.UpdateSEO(s.ctx, s.owner.ID, seo))

	s.Require().NoError(s.profiles.UpdateSEOScore(s.ctx, s.owner.ID, 42))

	got, err := s.profiles.FindByID(s.ctx, s.owner.ID)
	s.Require().NoError(err)
	s.Equal(42, got.SEO.SEOScore)
	s.Equal("Ada Lovelace | Programmer", got.SEO.MetaTitle)

	err = s.profiles.UpdateSEOScore(s.ctx, uuid.New(), 1)
	s.True(errors.Is(err, apperror.ErrNotFound))
}

func (s *MemoryStoreTestSuite) TestRecordsAreCopied() {
	got, err := s.profiles.FindByID(s.ctx, s.owner.ID)
	s.Require().NoError(err)
	got.Skills = append(got.Skills, "mutated")
	got.VisibleSections["hero"] = false

	again, err := s.profiles.FindByID(s.ctx, s.owner.ID)
	s.Require().NoError(err)
	s.Empty(again.Skills)
	s.True(again.VisibleSections.IsVisible("hero"))
}

func (s *MemoryStoreTestSuite) TestUpdateKeepsLayoutAndIdentity() {
	_, err := s.profiles.UpdateSectionOrder(s.ctx, s.owner.ID, []string{"contact", "hero"})
	s.Require().NoError(err)

	stale := *s.owner
	stale.Bio = "hello"
	stale.Email = "changed@example.com"
	s.Require().NoError(s.profiles.Update(s.ctx, &stale))

	got, err := s.profiles.FindByID(s.ctx, s.owner.ID)
	s.Require().NoError(err)
	s.Equal("hello", got.Bio)
	s.Equal("ada@example.com", got.Email)
	s.Equal([]string{"contact", "hero"}, got.SectionOrder)
}

func (s *MemoryStoreTestSuite) TestSectionVisibility() {
	v, err := s.profiles.SetSectionVisibility(s.ctx, s.owner.ID, "skills", false)
	s.Require().NoError(err)
	s.False(v.IsVisible("skills"))

	v, err = s.profiles.SetSectionVisibility(s.ctx, s.owner.ID, "skills", false)
	s.Require().NoError(err)
	s.False(v.IsVisible("skills"))
	s.Len(v, 9)

	_, err = s.profiles.SetSectionVisibility(s.ctx, uuid.New(), "skills", false)
	s.True(errors.Is(err, apperror.ErrNotFound))
}

func (s *MemoryStoreTestSuite) TestProjectsNewestFirstAndOwnerScoped() {
	now := time.Now().UTC()
	first := &project.Project{ID: uuid.New(), UserID: s.owner.ID, Title: "First", CreatedAt: now, UpdatedAt: now}
	second := &project.Project{ID: uuid.New(), UserID: s.owner.ID, Title: "Second", CreatedAt: now, UpdatedAt: now}
	s.Require().NoError(s.projects.Save(s.ctx, first))
	s.Require().NoError(s.projects.Save(s.ctx, second))

	list, err := s.projects.ListByUser(s.ctx, s.owner.ID)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("Second", list[0].Title)
	s.Equal("First", list[1].Title)

	stranger := uuid.New()
	err = s.projects.Delete(s.ctx, first.ID, stranger)
	s.True(errors.Is(err, apperror.ErrNotFound))
	_, err = s.projects.FindByID(s.ctx, first.ID, stranger)
	s.True(errors.Is(err, apperror.ErrNotFound))

	s.Require().NoError(s.projects.Delete(s.ctx, first.ID, s.owner.ID))
	list, err = s.projects.ListByUser(s.ctx, s.owner.ID)
	s.Require().NoError(err)
	s.Len(list, 1)
}

func TestMemoryStoreTestSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreTestSuite))
}

func TestMemoryIntegrationUpsert(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryStore().Integrations()
	userID := uuid.New()
	token := "tok"

	_, err := repo.Find(ctx, userID, integration.ProviderGitHub)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	require.NoError(t, repo.Upsert(ctx, &integration.Integration{UserID: userID, Provider: integration.ProviderGitHub, Connected: true, AccessToken: &token}))
	got, err := repo.Find(ctx, userID, integration.ProviderGitHub)
	require.NoError(t, err)
	assert.True(t, got.HasToken())

	got.Disconnect(time.Now())
	require.NoError(t, repo.Upsert(ctx, got))
	list, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].Connected)
	assert.Nil(t, list[0].AccessToken)
}

func TestMemoryRateCounterWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryRateCounter()
	c.now = func() time.Time { return now }

	n, left, err := c.Hit(context.Background(), "1.2.3.4", time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Equal(t, time.Minute, left)

	n, _, _ = c.Hit(context.Background(), "1.2.3.4", time.Minute)
	assert.EqualValues(t, 2, n)

	now = now.Add(time.Minute)
	n, _, _ = c.Hit(context.Background(), "1.2.3.4", time.Minute)
	assert.EqualValues(t, 1, n)
}
