package project

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-builder/adapters/event"
	"github.com/khoahotran/portfolio-builder/internal/domain/project"
	"github.com/khoahotran/portfolio-builder/pkg/logger"
)

var tracer = otel.Tracer("project_usecase")

type CreateProjectUseCase struct {
	projectRepo project.Repository
	publisher   event.Publisher
	logger      logger.Logger
	now         func() time.Time
}

func NewCreateProjectUseCase(repo project.Repository, publisher event.Publisher, log logger.Logger) *CreateProjectUseCase {
	return &CreateProjectUseCase{
		projectRepo: repo,
		publisher:   publisher,
		logger:      log,
		now:         time.Now,
	}
}

// ProjectFields are the user-editable fields of a project.
type ProjectFields struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	TechStack   []string `json:"techStack"`
	GithubLink  string   `json:"githubLink"`
	LiveLink    string   `json:"liveLink"`
	ImageURL    string   `json:"imageUrl"`
}

func (f ProjectFields) applyTo(p *project.Project) {
	p.Title = f.Title
	p.Description = f.Description
	p.TechStack = f.TechStack
	p.GithubLink = f.GithubLink
	p.LiveLink = f.LiveLink
	p.ImageURL = f.ImageURL
	p.Normalize()
}

type CreateProjectInput struct {
	UserID uuid.UUID
	Fields ProjectFields
}

type CreateProjectOutput struct {
	Project *project.Project
}

func (uc *CreateProjectUseCase) Execute(ctx context.Context, input CreateProjectInput) (*CreateProjectOutput, error) {
	ctx, span := tracer.Start(ctx, "CreateProject")
	defer span.End()

	now := uc.now().UTC()
	newProject := &project.Project{
		ID:        uuid.New(),
		UserID:    input.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	input.Fields.applyTo(newProject)

	if err := newProject.Validate(); err != nil {
		return nil, err
	}

	if err := uc.projectRepo.Save(ctx, newProject); err != nil {
		span.RecordError(err)
		return nil, err
	}

	publishProjectEvent(uc.publisher, uc.logger, event.ProjectEventTypeCreated, newProject)
	return &CreateProjectOutput{Project: newProject}, nil
}

func publishProjectEvent(publisher event.Publisher, log logger.Logger, t event.EventType, p *project.Project) {
	payload := event.ProjectEventPayload{EventType: t, ProjectID: p.ID, UserID: p.UserID}
	go func() {
		if err := publisher.PublishProjectEvent(context.Background(), payload); err != nil {
			log.Error("Failed to publish project event", err,
				zap.String("project_id", payload.ProjectID.String()), zap.String("event_type", string(t)))
		}
	}()
}
