package project

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/portfolio-builder/pkg/apperror"
)

type Project struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	TechStack   []string  `json:"techStack"`
	GithubLink  string    `json:"githubLink"`
	LiveLink    string    `json:"liveLink"`
	ImageURL    string    `json:"imageUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Normalize trims the title and makes techStack non-nil.
func (p *Project) Normalize() {
	p.Title = strings.TrimSpace(p.Title)
	if p.TechStack == nil {
		p.TechStack = []string{}
	}
}

func (p *Project) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return apperror.NewValidation("title", "Project title is required")
	}
	return nil
}

type Repository interface {
	Save(ctx context.Context, p *Project) error
	Update(ctx context.Context, p *Project) error
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*Project, error)
	// ListByUser returns every project of the user, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Project, error)
}
