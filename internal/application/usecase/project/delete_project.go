package project

import (
	"context"

	"github.com/google/uuid"

	"github.com/khoahotran/portfolio-builder/adapters/event"
	"github.com/khoahotran/portfolio-builder/internal/domain/project"
	"github.com/khoahotran/portfolio-builder/pkg/logger"
)

type DeleteProjectUseCase struct {
	projectRepo project.Repository
	publisher   event.Publisher
	logger      logger.Logger
}

func NewDeleteProjectUseCase(repo project.Repository, publisher event.Publisher, log logger.Logger) *DeleteProjectUseCase {
	return &DeleteProjectUseCase{projectRepo: repo, publisher: publisher, logger: log}
}

type DeleteProjectInput struct {
	ProjectID uuid.UUID
	UserID    uuid.UUID
}

func (uc *DeleteProjectUseCase) Execute(ctx context.Context, input DeleteProjectInput) error {
	if err := uc.projectRepo.Delete(ctx, input.ProjectID, input.UserID); err != nil {
		return err
	}
	publishProjectEvent(uc.publisher, uc.logger, event.ProjectEventTypeDeleted,
		&project.Project{ID: input.ProjectID, UserID: input.UserID})
	return nil
}
