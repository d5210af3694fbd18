package project

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/khoahotran/portfolio-builder/adapters/event"
	"github.com/khoahotran/portfolio-builder/adapters/persistence"
	"github.com/khoahotran/portfolio-builder/internal/domain/project"
	"github.com/khoahotran/portfolio-builder/pkg/apperror"
	"github.com/khoahotran/portfolio-builder/pkg/logger"
)

type ProjectUseCaseTestSuite struct {
	suite.Suite
	ctx    context.Context
	repo   project.Repository
	create *CreateProjectUseCase
	update *UpdateProjectUseCase
	delete *DeleteProjectUseCase
	get    *GetProjectUseCase
	list   *ListProjectsUseCase
	owner  uuid.UUID
	clock  time.Time
}

func (s *ProjectUseCaseTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = persistence.NewMemoryStore().Projects()
	log := logger.NewNopLogger()
	s.create = NewCreateProjectUseCase(s.repo, event.NopPublisher{}, log)
	s.update = NewUpdateProjectUseCase(s.repo, event.NopPublisher{}, log)
	s.delete = NewDeleteProjectUseCase(s.repo, event.NopPublisher{}, log)
	s.get = NewGetProjectUseCase(s.repo)
	s.list = NewListProjectsUseCase(s.repo)
	s.owner = uuid.New()

	s.clock = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	tick := func() time.Time {
		s.clock = s.clock.Add(time.Minute)
		return s.clock
	}
	s.create.now = tick
	s.update.now = tick
}

func (s *ProjectUseCaseTestSuite) createProject(title string) *project.Project {
	out, err := s.create.Execute(s.ctx, CreateProjectInput{UserID: s.owner, Fields: ProjectFields{Title: title}})
	s.Require().NoError(err)
	return out.Project
}

func (s *ProjectUseCaseTestSuite) TestCreateDefaults() {
	p := s.createProject("  Analytical Engine  ")

	s.Equal("Analytical Engine", p.Title)
	s.NotNil(p.TechStack)
	s.Empty(p.TechStack)
	s.Equal(s.owner, p.UserID)
	s.Equal(p.CreatedAt, p.UpdatedAt)

	got, err := s.get.Execute(s.ctx, GetProjectInput{ProjectID: p.ID, UserID: s.owner})
	s.Require().NoError(err)
	s.Equal(p.Title, got.Project.Title)
}

func (s *ProjectUseCaseTestSuite) TestCreateRequiresTitle() {
	_, err := s.create.Execute(s.ctx, CreateProjectInput{UserID: s.owner, Fields: ProjectFields{Title: "   "}})
	s.True(errors.Is(err, apperror.ErrInvalidInput))
	s.Equal("title", apperror.From(err).Field)

	out, err := s.list.Execute(s.ctx, ListProjectsInput{UserID: s.owner})
	s.Require().NoError(err)
	s.Empty(out.Projects)
}

func (s *ProjectUseCaseTestSuite) TestListNewestFirst() {
	first := s.createProject("First")
	second := s.createProject("Second")
	third := s.createProject("Third")

	out, err := s.list.Execute(s.ctx, ListProjectsInput{UserID: s.owner})
	s.Require().NoError(err)
	s.Require().Len(out.Projects, 3)
	s.Equal([]uuid.UUID{third.ID, second.ID, first.ID},
		[]uuid.UUID{out.Projects[0].ID, out.Projects[1].ID, out.Projects[2].ID})

	other, err := s.list.Execute(s.ctx, ListProjectsInput{UserID: uuid.New()})
	s.Require().NoError(err)
	s.Empty(other.Projects)
}

func (s *ProjectUseCaseTestSuite) TestUpdateReplacesFields() {
	p := s.createProject("Engine")
	_, err := s.update.Execute(s.ctx, UpdateProjectInput{
		ProjectID: p.ID,
		UserID:    s.owner,
		Fields:    ProjectFields{Title: "Difference Engine", TechStack: []string{"brass"}, LiveLink: "https://example.com"},
	})
	s.Require().NoError(err)

	got, err := s.get.Execute(s.ctx, GetProjectInput{ProjectID: p.ID, UserID: s.owner})
	s.Require().NoError(err)
	s.Equal("Difference Engine", got.Project.Title)
	s.Equal([]string{"brass"}, got.Project.TechStack)
	s.Equal(p.CreatedAt, got.Project.CreatedAt)
	s.True(got.Project.UpdatedAt.After(p.UpdatedAt))

	_, err = s.update.Execute(s.ctx, UpdateProjectInput{ProjectID: p.ID, UserID: s.owner, Fields: ProjectFields{Title: "Engine"}})
	s.Require().NoError(err)
	got, err = s.get.Execute(s.ctx, GetProjectInput{ProjectID: p.ID, UserID: s.owner})
	s.Require().NoError(err)
	s.Empty(got.Project.TechStack)
	s.Empty(got.Project.LiveLink)
}

func (s *ProjectUseCaseTestSuite) TestOtherUsersProjectIsNotFound() {
	p := s.createProject("Engine")
	stranger := uuid.New()

	_, err := s.update.Execute(s.ctx, UpdateProjectInput{ProjectID: p.ID, UserID: stranger, Fields: ProjectFields{Title: "Mine now"}})
	s.True(errors.Is(err, apperror.ErrNotFound))

	err = s.delete.Execute(s.ctx, DeleteProjectInput{ProjectID: p.ID, UserID: stranger})
	s.True(errors.Is(err, apperror.ErrNotFound))

	got, err := s.get.Execute(s.ctx, GetProjectInput{ProjectID: p.ID, UserID: s.owner})
	s.Require().NoError(err)
	s.Equal("Engine", got.Project.Title)
}

func (s *ProjectUseCaseTestSuite) TestDelete() {
	p := s.createProject("Engine")
	s.Require().NoError(s.delete.Execute(s.ctx, DeleteProjectInput{ProjectID: p.ID, UserID: s.owner}))

	_, err := s.get.Execute(s.ctx, GetProjectInput{ProjectID: p.ID, UserID: s.owner})
	s.True(errors.Is(err, apperror.ErrNotFound))

	err = s.delete.Execute(s.ctx, DeleteProjectInput{ProjectID: p.ID, UserID: s.owner})
	s.True(errors.Is(err, apperror.ErrNotFound))
}

func TestProjectUseCaseTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectUseCaseTestSuite))
}
