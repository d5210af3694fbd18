package portfolio

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-builder/internal/domain/profile"
	"github.com/khoahotran/portfolio-builder/internal/domain/project"
	"github.com/khoahotran/portfolio-builder/pkg/logger"
)

var tracer = otel.Tracer("portfolio_usecase")

// PortfolioUseCase builds the read-only public view of a profile.
type PortfolioUseCase struct {
	profileRepo profile.Repository
	projectRepo project.Repository
	publicURL   string
	logger      logger.Logger
	now         func() time.Time
}

func NewPortfolioUseCase(profileRepo profile.Repository, projectRepo project.Repository, publicURL string, log logger.Logger) *PortfolioUseCase {
	return &PortfolioUseCase{
		profileRepo: profileRepo,
		projectRepo: projectRepo,
		publicURL:   strings.TrimRight(publicURL, "/"),
		logger:      log,
		now:         time.Now,
	}
}

type AssembleInput struct {
	Username string
}

type AssembleOutput struct {
	Profile  *profile.Profile
	Projects []*project.Project
	// Sections are the ids a template should draw, in display order.
	Sections []string
}

func (uc *PortfolioUseCase) ExecuteAssemble(ctx context.Context, input AssembleInput) (*AssembleOutput, error) {
	ctx, span := tracer.Start(ctx, "AssemblePortfolio")
	defer span.End()
	span.SetAttributes(attribute.String("username", input.Username))

	p, err := uc.profileRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}

	projects, err := uc.projectRepo.ListByUser(ctx, p.ID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	return &AssembleOutput{
		Profile:  p,
		Projects: projects,
		Sections: profile.RenderedSections(p.SectionOrder, p.VisibleSections),
	}, nil
}

type FeedInput struct {
	Username string
}

// ExecuteFeed lists the user's projects as a feed. A hidden projects section
// yields an empty channel rather than an error.
func (uc *PortfolioUseCase) ExecuteFeed(ctx context.Context, input FeedInput) (*feeds.Feed, error) {
	out, err := uc.ExecuteAssemble(ctx, AssembleInput(input))
	if err != nil {
		return nil, err
	}
	p := out.Profile

	portfolioURL := fmt.Sprintf("%s/portfolio/%s", uc.publicURL, p.Username)
	feed := &feeds.Feed{
		Title:       fmt.Sprintf("%s - Projects", p.FullName),
		Link:        &feeds.Link{Href: portfolioURL},
		Description: p.Intro,
		Author:      &feeds.Author{Name: p.FullName},
		Created:     uc.now(),
	}
	if p.Title != "" && feed.Description == "" {
		feed.Description = p.Title
	}

	if !p.VisibleSections.IsVisible(profile.SectionProjects) {
		return feed, nil
	}

	items := make([]*feeds.Item, 0, len(out.Projects))
	for _, pr := range out.Projects {
		link := pr.LiveLink
		if link == "" {
			link = pr.GithubLink
		}
		if link == "" {
			link = portfolioURL
		}
		items = append(items, &feeds.Item{
			Id:          pr.ID.String(),
			Title:       pr.Title,
			Link:        &feeds.Link{Href: link},
			Description: pr.Description,
			Created:     pr.CreatedAt,
			Updated:     pr.UpdatedAt,
		})
	}
	feed.Items = items

	uc.logger.Debug("Portfolio feed generated", zap.String("username", p.Username), zap.Int("item_count", len(items)))
	return feed, nil
}
