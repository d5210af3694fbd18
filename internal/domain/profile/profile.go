package profile

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/khoahotran/portfolio-builder/pkg/apperror"
	"github.com/khoahotran/portfolio-builder/pkg/validation"
)

type Availability string

const (
	AvailabilityAvailable    Availability = "available"
	AvailabilityBusy         Availability = "busy"
	AvailabilityNotAvailable Availability = "not-available"
)

func (a Availability) IsValid() bool {
	switch a {
	case AvailabilityAvailable, AvailabilityBusy, AvailabilityNotAvailable:
		return true
	}
	return false
}

type WorkType string

const (
	WorkTypeRemote    WorkType = "remote"
	WorkTypeOnsite    WorkType = "onsite"
	WorkTypeHybrid    WorkType = "hybrid"
	WorkTypeFreelance WorkType = "freelance"
)

func (w WorkType) IsValid() bool {
	switch w {
	case WorkTypeRemote, WorkTypeOnsite, WorkTypeHybrid, WorkTypeFreelance:
		return true
	}
	return false
}

const (
	DefaultTemplate       = "minimal"
	DefaultWorkExperience = "Fresher"
	MinFullNameLength     = 2
	MinPasswordLength     = 6
)

type AboutSection struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Order       int    `json:"order"`
}

type Experience struct {
	CompanyName      string   `json:"companyName" validate:"required"`
	JobTitle         string   `json:"jobTitle" validate:"required"`
	Duration         string   `json:"duration" validate:"required"`
	Responsibilities string   `json:"responsibilities"`
	Skills           []string `json:"skills"`
}

type Education struct {
	Institution string `json:"institution" validate:"required"`
	Degree      string `json:"degree" validate:"required"`
	StartYear   string `json:"startYear"`
	EndYear     string `json:"endYear"`
}

type Testimonial struct {
	Name        string `json:"name"`
	Designation string `json:"designation"`
	Message     string `json:"message"`
	ImageURL    string `json:"imageUrl"`
}

type Certification struct {
	Title           string `json:"title"`
	Platform        string `json:"platform"`
	CertificateLink string `json:"certificateLink"`
}

type SocialLinks struct {
	GitHub    string `json:"github"`
	LinkedIn  string `json:"linkedin"`
	Twitter   string `json:"twitter"`
	Instagram string `json:"instagram"`
	Dribbble  string `json:"dribbble"`
	Behance   string `json:"behance"`
	Website   string `json:"website"`
}

// Profile is the user record: identity, presentation fields, ordered
// sub-collections and layout control.
type Profile struct {
	ID           uuid.UUID `json:"id"`
	FullName     string    `json:"fullName"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`

	Title             string       `json:"title"`
	Intro             string       `json:"intro"`
	Bio               string       `json:"bio"`
	Location          string       `json:"location"`
	PhoneNumber       string       `json:"phoneNumber"`
	Timezone          string       `json:"timezone"`
	Availability      Availability `json:"availability"`
	PreferredWorkType WorkType     `json:"preferredWorkType"`
	HourlyRate        string       `json:"hourlyRate"`
	WorkExperience    string       `json:"workExperience"`
	SelectedTemplate  string       `json:"selectedTemplate"`
	ProfileImgURL     string       `json:"profileImgUrl"`
	ResumeURL         string       `json:"resumeUrl"`

	Skills            []string        `json:"skills"`
	Languages         []string        `json:"languages"`
	AboutSections     []AboutSection  `json:"aboutSections"`
	ExperienceDetails []Experience    `json:"experienceDetails"`
	Education         []Education     `json:"education"`
	Testimonials      []Testimonial   `json:"testimonials"`
	Certifications    []Certification `json:"certifications"`
	SocialLinks       SocialLinks     `json:"socialLinks"`

	SectionOrder    []string   `json:"sectionOrder"`
	VisibleSections Visibility `json:"visibleSections"`

	SEO SEOData `json:"seoData"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// New returns a profile with every default applied. Username and password
// hash are filled in by the registration flow.
func New(fullName, email string, now time.Time) *Profile {
	return &Profile{
		ID:                uuid.New(),
		FullName:          strings.TrimSpace(fullName),
		Email:             NormalizeEmail(email),
		Availability:      AvailabilityAvailable,
		PreferredWorkType: WorkTypeRemote,
		WorkExperience:    DefaultWorkExperience,
		SelectedTemplate:  DefaultTemplate,
		Skills:            []string{},
		Languages:         []string{},
		AboutSections:     []AboutSection{},
		ExperienceDetails: []Experience{},
		Education:         []Education{},
		Testimonials:      []Testimonial{},
		Certifications:    []Certification{},
		SectionOrder:      DefaultSectionOrder(),
		VisibleSections:   DefaultVisibility(),
		SEO:               NewSEOData(now),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateFullName(fullName string) error {
	if utf8.RuneCountInString(strings.TrimSpace(fullName)) < MinFullNameLength {
		return apperror.NewValidation("fullName", "Full name must be at least 2 characters")
	}
	return nil
}

func ValidateEmail(email string) error {
	if err := validation.Var("email", email, "required,email"); err != nil {
		return apperror.NewValidation("email", "Please provide a valid email")
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return apperror.NewValidation("password", "Password must be at least 6 characters")
	}
	return nil
}

// Validate checks every constrained field and returns all failures as a
// multierr chain.
func (p *Profile) Validate() error {
	var err error
	err = multierr.Append(err, ValidateFullName(p.FullName))
	if !p.Availability.IsValid() {
		err = multierr.Append(err, apperror.NewValidation("availability", "must be one of [available busy not-available]"))
	}
	if !p.PreferredWorkType.IsValid() {
		err = multierr.Append(err, apperror.NewValidation("preferredWorkType", "must be one of [remote onsite hybrid freelance]"))
	}
	for i, e := range p.ExperienceDetails {
		err = multierr.Append(err, validation.Prefix(fmt.Sprintf("experienceDetails[%d]", i), validation.Struct(e)))
	}
	for i, e := range p.Education {
		err = multierr.Append(err, validation.Prefix(fmt.Sprintf("education[%d]", i), validation.Struct(e)))
	}
	err = multierr.Append(err, validation.Prefix("seoData", p.SEO.Validate()))
	return err
}

type Repository interface {
	Create(ctx context.Context, p *Profile) error
	Update(ctx context.Context, p *Profile) error
	FindByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	FindByEmail(ctx context.Context, email string) (*Profile, error)
	FindByUsername(ctx context.Context, username string) (*Profile, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	UpdateSectionOrder(ctx context.Context, id uuid.UUID, order []string) ([]string, error)
	SetSectionVisibility(ctx context.Context, id uuid.UUID, section string, visible bool) (Visibility, error)
	UpdateSEO(ctx context.Context, id uuid.UUID, seo SEOData) error
	// UpdateSEOScore writes only seoData.seoScore and leaves the rest of the
	// document as stored.
	UpdateSEOScore(ctx context.Context, id uuid.UUID, score int) error
}
