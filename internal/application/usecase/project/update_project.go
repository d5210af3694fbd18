package project

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/portfolio-builder/adapters/event"
	"github.com/khoahotran/portfolio-builder/internal/domain/project"
	"github.com/khoahotran/portfolio-builder/pkg/logger"
)

type UpdateProjectUseCase struct {
	projectRepo project.Repository
	publisher   event.Publisher
	logger      logger.Logger
	now         func() time.Time
}

func NewUpdateProjectUseCase(repo project.Repository, publisher event.Publisher, log logger.Logger) *UpdateProjectUseCase {
	return &UpdateProjectUseCase{projectRepo: repo, publisher: publisher, logger: log, now: time.Now}
}

type UpdateProjectInput struct {
	ProjectID uuid.UUID
	UserID    uuid.UUID
	Fields    ProjectFields
}

type UpdateProjectOutput struct {
	Project *project.Project
}

// Execute replaces every editable field. A project owned by someone else is
// reported as not found.
func (uc *UpdateProjectUseCase) Execute(ctx context.Context, input UpdateProjectInput) (*UpdateProjectOutput, error) {
	ctx, span := tracer.Start(ctx, "UpdateProject")
	defer span.End()

	p := &project.Project{
		ID:        input.ProjectID,
		UserID:    input.UserID,
		UpdatedAt: uc.now().UTC(),
	}
	input.Fields.applyTo(p)

	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := uc.projectRepo.Update(ctx, p); err != nil {
		span.RecordError(err)
		return nil, err
	}

	publishProjectEvent(uc.publisher, uc.logger, event.ProjectEventTypeUpdated, p)
	return &UpdateProjectOutput{Project: p}, nil
}
