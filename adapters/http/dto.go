package http

import (
	"time"

	integrationUC "github.com/khoahotran/portfolio-builder/internal/application/usecase/integration"
	projectUC "github.com/khoahotran/portfolio-builder/internal/application/usecase/project"
	"github.com/khoahotran/portfolio-builder/internal/domain/profile"
	"github.com/khoahotran/portfolio-builder/internal/domain/project"
)

// Auth DTOs

type registerRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Profiles are rendered straight from the domain record: its json tags
// already omit the password hash.
type AuthResponse struct {
	Message string           `json:"message,omitempty"`
	Token   string           `json:"token"`
	User    *profile.Profile `json:"user"`
}

// Portfolio DTOs

type sectionOrderRequest struct {
	SectionOrder []string `json:"sectionOrder"`
}

type sectionVisibilityRequest struct {
	Section string `json:"section"`
	Visible *bool  `json:"visible"`
}

type PortfolioResponse struct {
	Profile  *profile.Profile `json:"profile"`
	Projects []ProjectDTO     `json:"projects"`
	Sections []string         `json:"sections"`
}

// Project DTOs

type ProjectRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	TechStack   []string `json:"techStack"`
	GithubLink  string   `json:"githubLink"`
	LiveLink    string   `json:"liveLink"`
	ImageURL    string   `json:"imageUrl"`
}

func (r ProjectRequest) toFields() projectUC.ProjectFields {
	return projectUC.ProjectFields(r)
}

type ProjectDTO struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	TechStack   []string  `json:"techStack"`
	GithubLink  string    `json:"githubLink"`
	LiveLink    string    `json:"liveLink"`
	ImageURL    string    `json:"imageUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func ToProjectDTO(p *project.Project) ProjectDTO {
	return ProjectDTO{
		ID:          p.ID.String(),
		UserID:      p.UserID.String(),
		Title:       p.Title,
		Description: p.Description,
		TechStack:   p.TechStack,
		GithubLink:  p.GithubLink,
		LiveLink:    p.LiveLink,
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ToProjectDTOs(projects []*project.Project) []ProjectDTO {
	dtos := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		dtos[i] = ToProjectDTO(p)
	}
	return dtos
}

// Integration DTOs

type callbackRequest struct {
	Code string `json:"code"`
}

type IntegrationsResponse struct {
	Integrations []integrationUC.Status `json:"integrations"`
}
