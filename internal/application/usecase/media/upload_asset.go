package media

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-builder/adapters/event"
	"github.com/khoahotran/portfolio-builder/internal/application/service"
	"github.com/khoahotran/portfolio-builder/internal/domain/profile"
	"github.com/khoahotran/portfolio-builder/pkg/apperror"
	"github.com/khoahotran/portfolio-builder/pkg/logger"
)

var tracer = otel.Tracer("media_usecase")

type AssetKind string

const (
	AssetAvatar AssetKind = "avatar"
	AssetResume AssetKind = "resume"
)

func (k AssetKind) accepts(contentType string) bool {
	switch k {
	case AssetAvatar:
		return strings.HasPrefix(contentType, "image/")
	case AssetResume:
		return contentType == "application/pdf"
	}
	return false
}

type UploadAssetUseCase struct {
	profileRepo profile.Repository
	uploader    service.Uploader
	publisher   event.Publisher
	logger      logger.Logger
	now         func() time.Time
}

// NewUploadAssetUseCase accepts a nil uploader; uploads then fail with
// StoreUnavailable.
func NewUploadAssetUseCase(repo profile.Repository, u service.Uploader, publisher event.Publisher, log logger.Logger) *UploadAssetUseCase {
	return &UploadAssetUseCase{
		profileRepo: repo,
		uploader:    u,
		publisher:   publisher,
		logger:      log,
		now:         time.Now,
	}
}

type UploadAssetInput struct {
	UserID      uuid.UUID
	Kind        AssetKind
	ContentType string
	File        io.Reader
}

type UploadAssetOutput struct {
	URL string
}

// Execute stores the file at users/<id>/<kind>, replacing the previous one,
// and points the matching profile field at it.
func (uc *UploadAssetUseCase) Execute(ctx context.Context, input UploadAssetInput) (*UploadAssetOutput, error) {
	ctx, span := tracer.Start(ctx, "UploadAsset")
	defer span.End()

	if input.Kind != AssetAvatar && input.Kind != AssetResume {
		return nil, apperror.NewValidation("kind", "Upload kind must be one of [avatar resume]")
	}
	if !input.Kind.accepts(input.ContentType) {
		return nil, apperror.NewValidation("file", fmt.Sprintf("Unsupported file type for %s", input.Kind))
	}
	if uc.uploader == nil {
		return nil, apperror.NewStoreUnavailable("uploader is not configured", nil)
	}

	p, err := uc.profileRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	folder := fmt.Sprintf("users/%s", input.UserID.String())
	url, err := uc.uploader.Upload(ctx, input.File, folder, string(input.Kind))
	if err != nil {
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to upload asset", err)
	}

	switch input.Kind {
	case AssetAvatar:
		p.ProfileImgURL = url
	case AssetResume:
		p.ResumeURL = url
	}
	p.UpdatedAt = uc.now().UTC()
	if err := uc.profileRepo.Update(ctx, p); err != nil {
		return nil, err
	}

	payload := event.ProfileEventPayload{EventType: event.ProfileEventTypeUpdated, UserID: p.ID, Username: p.Username}
	go func() {
		if err := uc.publisher.PublishProfileEvent(context.Background(), payload); err != nil {
			uc.logger.Error("Failed to publish profile event", err, zap.String("user_id", payload.UserID.String()))
		}
	}()

	uc.logger.Info("Asset uploaded", zap.String("user_id", p.ID.String()), zap.String("kind", string(input.Kind)))
	return &UploadAssetOutput{URL: url}, nil
}
