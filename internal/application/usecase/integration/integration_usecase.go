package integration

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/khoahotran/portfolio-builder/adapters/event"
	"github.com/khoahotran/portfolio-builder/internal/application/service"
	"github.com/khoahotran/portfolio-builder/internal/domain/integration"
	"github.com/khoahotran/portfolio-builder/internal/domain/profile"
	"github.com/khoahotran/portfolio-builder/pkg/apperror"
	"github.com/khoahotran/portfolio-builder/pkg/logger"
)

var tracer = otel.Tracer("integration_usecase")

const connectState = "inapp"

type IntegrationUseCase struct {
	integrationRepo integration.Repository
	profileRepo     profile.Repository
	oauth           map[string]*oauth2.Config
	api             service.ProviderAPI
	publisher       event.Publisher
	logger          logger.Logger
	httpClient      *http.Client
	now             func() time.Time
}

func NewIntegrationUseCase(
	iRepo integration.Repository,
	pRepo profile.Repository,
	oauth map[string]*oauth2.Config,
	api service.ProviderAPI,
	publisher event.Publisher,
	log logger.Logger,
) *IntegrationUseCase {
	return &IntegrationUseCase{
		integrationRepo: iRepo,
		profileRepo:     pRepo,
		oauth:           oauth,
		api:             api,
		publisher:       publisher,
		logger:          log,
		now:             time.Now,
	}
}

func unsupported() error {
	return apperror.NewValidation("provider", "Unsupported provider")
}

// Status is a catalog entry merged with the user's connection row.
type Status struct {
	integration.Definition
	Connected    bool       `json:"connected"`
	LastSyncedAt *time.Time `json:"lastSyncedAt"`
}

type ListInput struct {
	UserID uuid.UUID
}

type ListOutput struct {
	Integrations []Status
}

func (uc *IntegrationUseCase) ExecuteList(ctx context.Context, input ListInput) (*ListOutput, error) {
	rows, err := uc.integrationRepo.ListByUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	byProvider := make(map[string]*integration.Integration, len(rows))
	for _, r := range rows {
		byProvider[r.Provider] = r
	}

	catalog := integration.Catalog()
	out := make([]Status, 0, len(catalog))
	for _, d := range catalog {
		s := Status{Definition: d}
		if r, ok := byProvider[d.ID]; ok {
			s.Connected = r.Connected
			s.LastSyncedAt = r.LastSyncedAt
		}
		out = append(out, s)
	}
	return &ListOutput{Integrations: out}, nil
}

type ConnectURLInput struct {
	Provider string
}

type ConnectURLOutput struct {
	AuthURL string
}

func (uc *IntegrationUseCase) ExecuteConnectURL(ctx context.Context, input ConnectURLInput) (*ConnectURLOutput, error) {
	cfg, ok := uc.oauth[input.Provider]
	if !ok {
		return nil, unsupported()
	}
	var opts []oauth2.AuthCodeOption
	if input.Provider == integration.ProviderGoogleAnalytics {
		opts = append(opts, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	}
	return &ConnectURLOutput{AuthURL: cfg.AuthCodeURL(connectState, opts...)}, nil
}

type ConnectInput struct {
	UserID   uuid.UUID
	Provider string
	Code     string
}

type ConnectOutput struct {
	Integration *integration.Integration
}

// ExecuteConnect completes the OAuth flow and stores the tokens.
func (uc *IntegrationUseCase) ExecuteConnect(ctx context.Context, input ConnectInput) (*ConnectOutput, error) {
	ctx, span := tracer.Start(ctx, "ConnectIntegration")
	defer span.End()
	span.SetAttributes(attribute.String("provider", input.Provider))

	cfg, ok := uc.oauth[input.Provider]
	if !ok {
		return nil, unsupported()
	}
	if input.Code == "" {
		return nil, apperror.NewValidation("code", "Authorization code is required")
	}

	if uc.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, uc.httpClient)
	}
	token, err := cfg.Exchange(ctx, input.Code)
	if err != nil {
		span.RecordError(err)
		uc.logger.Warn("OAuth code exchange failed", zap.String("provider", input.Provider), zap.Error(err))
		return nil, apperror.NewValidation("code", "Authorization failed")
	}

	row, err := uc.findOrNew(ctx, input.UserID, input.Provider)
	if err != nil {
		return nil, err
	}
	row.Connected = true
	row.AccessToken = &token.AccessToken
	row.RefreshToken = nil
	if token.RefreshToken != "" {
		row.RefreshToken = &token.RefreshToken
	}
	row.ExpiresAt = nil
	if !token.Expiry.IsZero() {
		expiry := token.Expiry.UTC()
		row.ExpiresAt = &expiry
	}
	row.UpdatedAt = uc.now().UTC()

	if err := uc.integrationRepo.Upsert(ctx, row); err != nil {
		return nil, err
	}
	uc.logger.Info("Integration connected", zap.String("user_id", input.UserID.String()), zap.String("provider", input.Provider))
	return &ConnectOutput{Integration: row}, nil
}

type DisconnectInput struct {
	UserID   uuid.UUID
	Provider string
}

// ExecuteDisconnect clears the credentials. Disconnecting a provider that
// was never connected still records a row.
func (uc *IntegrationUseCase) ExecuteDisconnect(ctx context.Context, input DisconnectInput) error {
	if !integration.IsKnownProvider(input.Provider) {
		return unsupported()
	}
	row, err := uc.findOrNew(ctx, input.UserID, input.Provider)
	if err != nil {
		return err
	}
	row.Disconnect(uc.now().UTC())
	return uc.integrationRepo.Upsert(ctx, row)
}

func (uc *IntegrationUseCase) findOrNew(ctx context.Context, userID uuid.UUID, provider string) (*integration.Integration, error) {
	row, err := uc.integrationRepo.Find(ctx, userID, provider)
	if err == nil {
		return row, nil
	}
	if errors.Is(err, apperror.ErrNotFound) {
		return &integration.Integration{UserID: userID, Provider: provider}, nil
	}
	return nil, err
}
