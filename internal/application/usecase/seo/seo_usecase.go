package seo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-builder/adapters/event"
	"github.com/khoahotran/portfolio-builder/internal/domain/profile"
	"github.com/khoahotran/portfolio-builder/pkg/logger"
	"github.com/khoahotran/portfolio-builder/pkg/validation"
)

var tracer = otel.Tracer("seo_usecase")

type SEOUseCase struct {
	profileRepo profile.Repository
	publisher   event.Publisher
	publicURL   string
	logger      logger.Logger
	now         func() time.Time
}

func NewSEOUseCase(repo profile.Repository, publisher event.Publisher, publicURL string, log logger.Logger) *SEOUseCase {
	return &SEOUseCase{
		profileRepo: repo,
		publisher:   publisher,
		publicURL:   strings.TrimRight(publicURL, "/"),
		logger:      log,
		now:         time.Now,
	}
}

type GetSEOInput struct {
	UserID uuid.UUID
}

type GetSEOOutput struct {
	SEOData profile.SEOData
}

func (uc *SEOUseCase) ExecuteGet(ctx context.Context, input GetSEOInput) (*GetSEOOutput, error) {
	p, err := uc.profileRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	return &GetSEOOutput{SEOData: p.SEO}, nil
}

type UpdateSEOInput struct {
	UserID  uuid.UUID
	SEOData profile.SEOData
}

// ExecuteUpdate replaces the SEO block. The client-supplied score is ignored
// and recomputed from the resulting profile.
func (uc *SEOUseCase) ExecuteUpdate(ctx context.Context, input UpdateSEOInput) (*GetSEOOutput, error) {
	ctx, span := tracer.Start(ctx, "UpdateSEO")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", input.UserID.String()))

	seo := input.SEOData
	seo.SEOScore = 0
	if err := validation.First(seo.Validate()); err != nil {
		return nil, err
	}

	p, err := uc.profileRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	seo.ApplyDefaults()
	seo.LastSEOUpdate = uc.now().UTC()
	p.SEO = seo
	p.SEO.SEOScore = profile.AnalyzeSEO(p).Score

	if err := uc.profileRepo.UpdateSEO(ctx, p.ID, p.SEO); err != nil {
		span.RecordError(err)
		return nil, err
	}

	payload := event.ProfileEventPayload{EventType: event.ProfileEventTypeSEOUpdated, UserID: p.ID, Username: p.Username}
	go func() {
		if err := uc.publisher.PublishProfileEvent(context.Background(), payload); err != nil {
			uc.logger.Error("Failed to publish profile event", err, zap.String("user_id", payload.UserID.String()))
		}
	}()

	return &GetSEOOutput{SEOData: p.SEO}, nil
}

type AnalyzeInput struct {
	UserID uuid.UUID
}

func (uc *SEOUseCase) ExecuteAnalyze(ctx context.Context, input AnalyzeInput) (*profile.SEOAnalysis, error) {
	p, err := uc.profileRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	a := profile.AnalyzeSEO(p)
	return &a, nil
}

type PreviewInput struct {
	Username string
}

// ExecutePreview renders the public meta tags of a portfolio.
func (uc *SEOUseCase) ExecutePreview(ctx context.Context, input PreviewInput) (*profile.SEOPreview, error) {
	p, err := uc.profileRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	preview := profile.BuildSEOPreview(p, uc.publicURL+"/portfolio/"+p.Username)
	return &preview, nil
}

type RecomputeOutput struct {
	Score   int
	Changed bool
}

// ExecuteRecompute refreshes the stored score after content changes. It
// writes only when the score moved and does not touch lastSeoUpdate.
func (uc *SEOUseCase) ExecuteRecompute(ctx context.Context, userID uuid.UUID) (*RecomputeOutput, error) {
	ctx, span := tracer.Start(ctx, "RecomputeSEOScore")
	defer span.End()

	p, err := uc.profileRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	score := profile.AnalyzeSEO(p).Score
	if score == p.SEO.SEOScore {
		return &RecomputeOutput{Score: score}, nil
	}

	if err := uc.profileRepo.UpdateSEOScore(ctx, p.ID, score); err != nil {
		span.RecordError(err)
		return nil, err
	}
	uc.logger.Info("SEO score recomputed", zap.String("user_id", userID.String()), zap.Int("score", score))
	return &RecomputeOutput{Score: score, Changed: true}, nil
}
