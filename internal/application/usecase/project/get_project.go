package project

import (
	"context"

	"github.com/google/uuid"

	"github.com/khoahotran/portfolio-builder/internal/domain/project"
)

type GetProjectUseCase struct {
	projectRepo project.Repository
}

func NewGetProjectUseCase(repo project.Repository) *GetProjectUseCase {
	return &GetProjectUseCase{projectRepo: repo}
}

type GetProjectInput struct {
	ProjectID uuid.UUID
	UserID    uuid.UUID
}

type GetProjectOutput struct {
	Project *project.Project
}

func (uc *GetProjectUseCase) Execute(ctx context.Context, input GetProjectInput) (*GetProjectOutput, error) {
	p, err := uc.projectRepo.FindByID(ctx, input.ProjectID, input.UserID)
	if err != nil {
		return nil, err
	}
	return &GetProjectOutput{Project: p}, nil
}
