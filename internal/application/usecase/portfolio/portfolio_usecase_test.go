package portfolio

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/khoahotran/portfolio-builder/adapters/persistence"
	"github.com/khoahotran/portfolio-builder/internal/domain/profile"
	"github.com/khoahotran/portfolio-builder/internal/domain/project"
	"github.com/khoahotran/portfolio-builder/pkg/apperror"
	"github.com/khoahotran/portfolio-builder/pkg/logger"
)

type PortfolioUseCaseTestSuite struct {
	suite.Suite
	ctx      context.Context
	profiles profile.Repository
	projects project.Repository
	uc       *PortfolioUseCase
	owner    *profile.Profile
}

func (s *PortfolioUseCaseTestSuite) SetupTest() {
	s.ctx = context.Background()
	store := persistence.NewMemoryStore()
	s.profiles = store.Profiles()
	s.projects = store.Projects()
	s.uc = NewPortfolioUseCase(s.profiles, s.projects, "https://folio.example.com/", logger.NewNopLogger())

	s.owner = profile.New("Ada Lovelace", "ada@example.com", time.Now().UTC())
	s.owner.Username = "ada"
	s.owner.PasswordHash = "hash"
	s.Require().NoError(s.profiles.Create(s.ctx, s.owner))
}

func (s *PortfolioUseCaseTestSuite) addProject(title string, createdAt time.Time) *project.Project {
	p := &project.Project{ID: uuid.New(), UserID: s.owner.ID, Title: title, CreatedAt: createdAt, UpdatedAt: createdAt}
	p.Normalize()
	s.Require().NoError(s.projects.Save(s.ctx, p))
	return p
}

func (s *PortfolioUseCaseTestSuite) TestAssembleDefaults() {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	older := s.addProject("Notes", base)
	newer := s.addProject("Engine", base.Add(time.Hour))

	out, err := s.uc.ExecuteAssemble(s.ctx, AssembleInput{Username: "ada"})
	s.Require().NoError(err)
	s.Equal(profile.DefaultSectionOrder(), out.Sections)
	s.Require().Len(out.Projects, 2)
	s.Equal(newer.ID, out.Projects[0].ID)
	s.Equal(older.ID, out.Projects[1].ID)
	s.Equal("ada@example.com", out.Profile.Email)
}

func (s *PortfolioUseCaseTestSuite) TestHiddenSectionIsExcluded() {
	_, err := s.profiles.SetSectionVisibility(s.ctx, s.owner.ID, profile.SectionSkills, false)
	s.Require().NoError(err)

	out, err := s.uc.ExecuteAssemble(s.ctx, AssembleInput{Username: "ada"})
	s.Require().NoError(err)
	s.NotContains(out.Sections, profile.SectionSkills)
	s.Len(out.Sections, len(profile.DefaultSectionOrder())-1)
}

func (s *PortfolioUseCaseTestSuite) TestSectionOrderRoundTrip() {
	order := []string{"contact", "hero", "legacy-widget", "skills"}
	_, err := s.profiles.UpdateSectionOrder(s.ctx, s.owner.ID, order)
	s.Require().NoError(err)

	out, err := s.uc.ExecuteAssemble(s.ctx, AssembleInput{Username: "ada"})
	s.Require().NoError(err)
	s.Equal([]string{"contact", "hero", "skills"}, out.Sections)
	s.Equal(order, out.Profile.SectionOrder)
}

func (s *PortfolioUseCaseTestSuite) TestMissingVisibilityKeyMeansVisible() {
	legacy := profile.New("Charles Babbage", "charles@example.com", time.Now().UTC())
	legacy.Username = "charles"
	legacy.PasswordHash = "hash"
	legacy.VisibleSections = profile.Visibility{profile.SectionHero: false}
	s.Require().NoError(s.profiles.Create(s.ctx, legacy))

	out, err := s.uc.ExecuteAssemble(s.ctx, AssembleInput{Username: "charles"})
	s.Require().NoError(err)
	s.NotContains(out.Sections, profile.SectionHero)
	s.Contains(out.Sections, profile.SectionContact)
	s.Len(out.Sections, len(profile.DefaultSectionOrder())-1)
}

func (s *PortfolioUseCaseTestSuite) TestUnknownUsername() {
	_, err := s.uc.ExecuteAssemble(s.ctx, AssembleInput{Username: "nobody"})
	s.True(errors.Is(err, apperror.ErrNotFound))

	_, err = s.uc.ExecuteFeed(s.ctx, FeedInput{Username: "nobody"})
	s.True(errors.Is(err, apperror.ErrNotFound))
}

func (s *PortfolioUseCaseTestSuite) TestFeed() {
	p := s.addProject("Engine", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	feed, err := s.uc.ExecuteFeed(s.ctx, FeedInput{Username: "ada"})
	s.Require().NoError(err)
	s.Equal("https://folio.example.com/portfolio/ada", feed.Link.Href)
	s.Require().Len(feed.Items, 1)
	s.Equal(p.ID.String(), feed.Items[0].Id)
	s.Equal(feed.Link.Href, feed.Items[0].Link.Href)

	rss, err := feed.ToRss()
	s.Require().NoError(err)
	s.True(strings.Contains(rss, "<title>Engine</title>"))

	_, err = s.profiles.SetSectionVisibility(s.ctx, s.owner.ID, profile.SectionProjects, false)
	s.Require().NoError(err)
	feed, err = s.uc.ExecuteFeed(s.ctx, FeedInput{Username: "ada"})
	s.Require().NoError(err)
	s.Empty(feed.Items)
}

func TestPortfolioUseCaseTestSuite(t *testing.T) {
	suite.Run(t, new(PortfolioUseCaseTestSuite))
}
