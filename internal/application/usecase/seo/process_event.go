package seo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-builder/adapters/event"
	"github.com/khoahotran/portfolio-builder/pkg/apperror"
	"github.com/khoahotran/portfolio-builder/pkg/metrics"
)

// ProcessEventUseCase keeps stored SEO scores in step with profile content.
// It runs in the worker, one message at a time.
type ProcessEventUseCase struct {
	seo *SEOUseCase
}

func NewProcessEventUseCase(seo *SEOUseCase) *ProcessEventUseCase {
	return &ProcessEventUseCase{seo: seo}
}

type ProcessEventInput struct {
	Topic string
	Value []byte
}

type ProcessEventOutput struct {
	EventType event.EventType
	Outcome   string
}

// Execute returns an error only for failures worth retrying. Anything else
// that leaves the score alone is reported as skipped.
func (uc *ProcessEventUseCase) Execute(ctx context.Context, input ProcessEventInput) (*ProcessEventOutput, error) {
	switch input.Topic {
	case event.TopicProjectEvents:
		var payload event.ProjectEventPayload
		if err := json.Unmarshal(input.Value, &payload); err != nil {
			uc.seo.logger.Warn("Malformed project event, skipping", zap.Error(err))
			return &ProcessEventOutput{Outcome: metrics.OutcomeSkipped}, nil
		}
		// Projects do not feed the SEO checklist.
		return &ProcessEventOutput{EventType: payload.EventType, Outcome: metrics.OutcomeSkipped}, nil

	case event.TopicProfileEvents:
		var payload event.ProfileEventPayload
		if err := json.Unmarshal(input.Value, &payload); err != nil {
			uc.seo.logger.Warn("Malformed profile event, skipping", zap.Error(err))
			return &ProcessEventOutput{Outcome: metrics.OutcomeSkipped}, nil
		}
		out := &ProcessEventOutput{EventType: payload.EventType, Outcome: metrics.OutcomeSkipped}

		switch payload.EventType {
		case event.ProfileEventTypeRegistered, event.ProfileEventTypeUpdated, event.ProfileEventTypeSynced:
		default:
			return out, nil
		}

		if _, err := uc.seo.ExecuteRecompute(ctx, payload.UserID); err != nil {
			if errors.Is(err, apperror.ErrNotFound) {
				uc.seo.logger.Warn("Profile gone, skipping event", zap.String("user_id", payload.UserID.String()))
				return out, nil
			}
			return nil, fmt.Errorf("recompute seo score for %s: %w", payload.UserID, err)
		}
		out.Outcome = metrics.OutcomeProcessed
		return out, nil
	}

	return &ProcessEventOutput{Outcome: metrics.OutcomeSkipped}, nil
}

// ExecuteWithRetry runs Execute until it succeeds or b stops, and then returns
// the last error.
func (uc *ProcessEventUseCase) ExecuteWithRetry(ctx context.Context, input ProcessEventInput, b retry.Backoff) (*ProcessEventOutput, error) {
	var out *ProcessEventOutput
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		var err error
		out, err = uc.Execute(ctx, input)
		if err != nil {
			uc.seo.logger.Warn("Event processing failed, retrying", zap.Error(err), zap.String("topic", input.Topic))
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// NewEventBackoff is the worker's retry schedule: exponential from 200ms,
// capped at 5s per wait, five retries.
func NewEventBackoff() retry.Backoff {
	return retry.WithMaxRetries(5, retry.WithCappedDuration(5*time.Second, retry.NewExponential(200*time.Millisecond)))
}
