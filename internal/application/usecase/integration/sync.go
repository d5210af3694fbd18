package integration

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/khoahotran/portfolio-builder/adapters/event"
	"github.com/khoahotran/portfolio-builder/internal/application/service"
	"github.com/khoahotran/portfolio-builder/internal/domain/integration"
	"github.com/khoahotran/portfolio-builder/internal/domain/profile"
	"github.com/khoahotran/portfolio-builder/pkg/apperror"
)

const (
	topRepositoryCount = 3
	linkedInProfileURL = "https://www.linkedin.com/in/"
)

type SyncInput struct {
	UserID   uuid.UUID
	Provider string
}

type SyncOutput struct {
	LastSyncedAt time.Time
	// TopRepositories holds the most starred GitHub repositories. It is not
	// persisted.
	TopRepositories []service.GitHubRepo
}

// ExecuteSync pulls account data from the provider into the profile and
// stamps lastSyncedAt. Upstream failures leave both untouched.
func (uc *IntegrationUseCase) ExecuteSync(ctx context.Context, input SyncInput) (*SyncOutput, error) {
	ctx, span := tracer.Start(ctx, "SyncIntegration")
	defer span.End()
	span.SetAttributes(attribute.String("provider", input.Provider))

	row, err := uc.integrationRepo.Find(ctx, input.UserID, input.Provider)
	if err != nil && !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}
	if row == nil || !row.HasToken() {
		return nil, apperror.NewValidation("provider", "Not connected")
	}

	p, err := uc.profileRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	out := &SyncOutput{}
	changed := false
	switch input.Provider {
	case integration.ProviderGitHub:
		out.TopRepositories, changed, err = uc.syncGitHub(ctx, *row.AccessToken, p)
	case integration.ProviderLinkedIn:
		changed, err = uc.syncLinkedIn(ctx, *row.AccessToken, p)
	case integration.ProviderGoogleAnalytics:
		// Property linkage needs a configuration UI; nothing to pull yet.
	default:
		return nil, unsupported()
	}
	if err != nil {
		span.RecordError(err)
		uc.logger.Error("Integration sync failed", err, zap.String("user_id", input.UserID.String()), zap.String("provider", input.Provider))
		appErr := apperror.NewInternal(input.Provider+" sync failed", err)
		appErr.Message = "Sync failed"
		return nil, appErr
	}

	now := uc.now().UTC()
	if changed {
		p.UpdatedAt = now
		if err := uc.profileRepo.Update(ctx, p); err != nil {
			return nil, err
		}
	}

	row.LastSyncedAt = &now
	row.UpdatedAt = now
	if err := uc.integrationRepo.Upsert(ctx, row); err != nil {
		return nil, err
	}

	payload := event.ProfileEventPayload{EventType: event.ProfileEventTypeSynced, UserID: p.ID, Username: p.Username}
	go func() {
		if err := uc.publisher.PublishProfileEvent(context.Background(), payload); err != nil {
			uc.logger.Error("Failed to publish profile event", err, zap.String("user_id", payload.UserID.String()))
		}
	}()

	out.LastSyncedAt = now
	return out, nil
}

func (uc *IntegrationUseCase) syncGitHub(ctx context.Context, token string, p *profile.Profile) ([]service.GitHubRepo, bool, error) {
	var (
		user  *service.GitHubUser
		repos []service.GitHubRepo
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		user, err = uc.api.GitHubUser(gctx, token)
		return err
	})
	g.Go(func() (err error) {
		repos, err = uc.api.GitHubRepos(gctx, token)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, false, err
	}

	changed := false
	if user.HTMLURL != "" && p.SocialLinks.GitHub != user.HTMLURL {
		p.SocialLinks.GitHub = user.HTMLURL
		changed = true
	}
	if strings.TrimSpace(p.Intro) == "" && user.Bio != "" {
		p.Intro = user.Bio
		changed = true
	}

	sort.SliceStable(repos, func(i, j int) bool { return repos[i].Stars > repos[j].Stars })
	if len(repos) > topRepositoryCount {
		repos = repos[:topRepositoryCount]
	}
	return repos, changed, nil
}

func (uc *IntegrationUseCase) syncLinkedIn(ctx context.Context, token string, p *profile.Profile) (bool, error) {
	li, err := uc.api.LinkedInProfile(ctx, token)
	if err != nil {
		return false, err
	}

	changed := false
	if strings.TrimSpace(p.FullName) == "" {
		if name := strings.TrimSpace(li.FirstName + " " + li.LastName); name != "" {
			p.FullName = name
			changed = true
		}
	}
	if li.ID != "" {
		link := linkedInProfileURL + li.ID
		if p.SocialLinks.LinkedIn != link {
			p.SocialLinks.LinkedIn = link
			changed = true
		}
	}
	return changed, nil
}
