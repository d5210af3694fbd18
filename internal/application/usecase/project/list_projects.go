package project

import (
	"context"

	"github.com/google/uuid"

	"github.com/khoahotran/portfolio-builder/internal/domain/project"
)

type ListProjectsUseCase struct {
	projectRepo project.Repository
}

func NewListProjectsUseCase(repo project.Repository) *ListProjectsUseCase {
	return &ListProjectsUseCase{projectRepo: repo}
}

type ListProjectsInput struct {
	UserID uuid.UUID
}

type ListProjectsOutput struct {
	Projects []*project.Project
}

// Execute returns every project of the user, newest first.
func (uc *ListProjectsUseCase) Execute(ctx context.Context, input ListProjectsInput) (*ListProjectsOutput, error) {
	projects, err := uc.projectRepo.ListByUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	return &ListProjectsOutput{Projects: projects}, nil
}
