package profile

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
	"github.com/khoahotran/portfolio-builder/pkg/apperror"
	"github.com/khoahotran/portfolio-builder/pkg/logger"
	"github.com/khoahotran/portfolio-builder/pkg/validation"
)

var tracer = otel.Tracer("profile_usecase")

type ProfileUseCase struct {
	profileRepo profile.Repository
	publisher   event.Publisher
	logger      logger.Logger
	now         func() time.Time
}

func NewProfileUseCase(repo profile.Repository, publisher event.Publisher, log logger.Logger) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo: repo,
		publisher:   publisher,
		logger:      log,
		now:         time.Now,
	}
}

type GetProfileInput struct {
	UserID uuid.UUID
}

type GetProfileOutput struct {
	Profile *profile.Profile
}

func (uc *ProfileUseCase) ExecuteGetProfile(ctx context.Context, input GetProfileInput) (*GetProfileOutput, error) {
	p, err := uc.profileRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	return &GetProfileOutput{Profile: p}, nil
}

type GetPublicProfileInput struct {
	Username string
}

func (uc *ProfileUseCase) ExecuteGetPublicProfile(ctx context.Context, input GetPublicProfileInput) (*GetProfileOutput, error) {
	p, err := uc.profileRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	return &GetProfileOutput{Profile: p}, nil
}

// ProfilePatch lists every field a user may change on their own profile. A
// nil field is left untouched; a non-nil one overwrites, even when empty.
type ProfilePatch struct {
	FullName          *string                  `json:"fullName"`
	Title             *string                  `json:"title"`
	PhoneNumber       *string                  `json:"phoneNumber"`
	Location          *string                  `json:"location"`
	Intro             *string                  `json:"intro"`
	Bio               *string                  `json:"bio"`
	Skills            *[]string                `json:"skills"`
	AboutSections     *[]profile.AboutSection  `json:"aboutSections"`
	Availability      *profile.Availability    `json:"availability"`
	HourlyRate        *string                  `json:"hourlyRate"`
	PreferredWorkType *profile.WorkType        `json:"preferredWorkType"`
	Languages         *[]string                `json:"languages"`
	Timezone          *string                  `json:"timezone"`
	WorkExperience    *string                  `json:"workExperience"`
	SocialLinks       *profile.SocialLinks     `json:"socialLinks"`
	ProfileImgURL     *string                  `json:"profileImgUrl"`
	ResumeURL         *string                  `json:"resumeUrl"`
	ExperienceDetails *[]profile.Experience    `json:"experienceDetails"`
	Education         *[]profile.Education     `json:"education"`
	Testimonials      *[]profile.Testimonial   `json:"testimonials"`
	Certifications    *[]profile.Certification `json:"certifications"`
	SelectedTemplate  *string                  `json:"selectedTemplate"`
}

func set[T any](dst *T, src *T) bool {
	if src == nil {
		return false
	}
	*dst = *src
	return true
}

func setSlice[T any](dst *[]T, src *[]T) bool {
	if src == nil {
		return false
	}
	if *src == nil {
		*dst = []T{}
	} else {
		*dst = *src
	}
	return true
}

// Apply copies every present field onto p and reports whether anything was
// present.
func (patch ProfilePatch) Apply(p *profile.Profile) bool {
	if patch.FullName != nil {
		trimmed := strings.TrimSpace(*patch.FullName)
		patch.FullName = &trimmed
	}
	changed := false
	for _, applied := range []bool{
		set(&p.FullName, patch.FullName),
		set(&p.Title, patch.Title),
		set(&p.PhoneNumber, patch.PhoneNumber),
		set(&p.Location, patch.Location),
		set(&p.Intro, patch.Intro),
		set(&p.Bio, patch.Bio),
		setSlice(&p.Skills, patch.Skills),
		setSlice(&p.AboutSections, patch.AboutSections),
		set(&p.Availability, patch.Availability),
		set(&p.HourlyRate, patch.HourlyRate),
		set(&p.PreferredWorkType, patch.PreferredWorkType),
		setSlice(&p.Languages, patch.Languages),
		set(&p.Timezone, patch.Timezone),
		set(&p.WorkExperience, patch.WorkExperience),
		set(&p.SocialLinks, patch.SocialLinks),
		set(&p.ProfileImgURL, patch.ProfileImgURL),
		set(&p.ResumeURL, patch.ResumeURL),
		setSlice(&p.ExperienceDetails, patch.ExperienceDetails),
		setSlice(&p.Education, patch.Education),
		setSlice(&p.Testimonials, patch.Testimonials),
		setSlice(&p.Certifications, patch.Certifications),
		set(&p.SelectedTemplate, patch.SelectedTemplate),
	} {
		changed = changed || applied
	}
	return changed
}

type UpdateProfileInput struct {
	UserID uuid.UUID
	Patch  ProfilePatch
}

type UpdateProfileOutput struct {
	Profile *profile.Profile
}

func (uc *ProfileUseCase) ExecuteUpdateProfile(ctx context.Context, input UpdateProfileInput) (*UpdateProfileOutput, error) {
	ctx, span := tracer.Start(ctx, "UpdateProfile")
	defer span.End()
	span.SetAttributes(attribute.String("user_id", input.UserID.String()))

	p, err := uc.profileRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if !input.Patch.Apply(p) {
		return &UpdateProfileOutput{Profile: p}, nil
	}

	if err := validation.First(p.Validate()); err != nil {
		return nil, err
	}

	p.UpdatedAt = uc.now().UTC()
	if err := uc.profileRepo.Update(ctx, p); err != nil {
		span.RecordError(err)
		return nil, err
	}

	uc.publish(event.ProfileEventTypeUpdated, p)
	return &UpdateProfileOutput{Profile: p}, nil
}

type SetSectionOrderInput struct {
	UserID       uuid.UUID
	SectionOrder []string
}

type SetSectionOrderOutput struct {
	SectionOrder []string
}

// ExecuteSetSectionOrder replaces the order wholesale. Unknown ids are kept
// and simply never rendered.
func (uc *ProfileUseCase) ExecuteSetSectionOrder(ctx context.Context, input SetSectionOrderInput) (*SetSectionOrderOutput, error) {
	if input.SectionOrder == nil {
		return nil, apperror.NewValidation("sectionOrder", "Section order must be an array")
	}

	order, err := uc.profileRepo.UpdateSectionOrder(ctx, input.UserID, input.SectionOrder)
	if err != nil {
		return nil, err
	}

	uc.publish(event.ProfileEventTypeLayout, &profile.Profile{ID: input.UserID})
	return &SetSectionOrderOutput{SectionOrder: order}, nil
}

type SetSectionVisibilityInput struct {
	UserID  uuid.UUID
	Section string
	Visible *bool
}

type SetSectionVisibilityOutput struct {
	VisibleSections profile.Visibility
}

func (uc *ProfileUseCase) ExecuteSetSectionVisibility(ctx context.Context, input SetSectionVisibilityInput) (*SetSectionVisibilityOutput, error) {
	if strings.TrimSpace(input.Section) == "" {
		return nil, apperror.NewValidation("section", "Section is required")
	}
	if input.Visible == nil {
		return nil, apperror.NewValidation("visible", "Visible must be a boolean")
	}

	v, err := uc.profileRepo.SetSectionVisibility(ctx, input.UserID, input.Section, *input.Visible)
	if err != nil {
		return nil, err
	}

	uc.publish(event.ProfileEventTypeLayout, &profile.Profile{ID: input.UserID})
	return &SetSectionVisibilityOutput{VisibleSections: v}, nil
}

func (uc *ProfileUseCase) publish(t event.EventType, p *profile.Profile) {
	payload := event.ProfileEventPayload{EventType: t, UserID: p.ID, Username: p.Username}
	go func() {
		if err := uc.publisher.PublishProfileEvent(context.Background(), payload); err != nil {
			uc.logger.Error("Failed to publish profile event", err, zap.String("user_id", payload.UserID.String()), zap.String("event_type", string(t)))
		}
	}()
}
