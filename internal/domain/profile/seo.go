package profile

import (
	"time"

	"go.uber.org/multierr"

	"github.com/khoahotran/portfolio-builder/pkg/apperror"
	"github.com/khoahotran/portfolio-builder/pkg/validation"
)

const (
	DefaultTwitterCard     = "summary_large_image"
	DefaultRobotsDirective = "index,follow"
	DefaultStructuredType  = "Person"
)

var robotsDirectives = map[string]struct{}{
	"index,follow":     {},
	"noindex,follow":   {},
	"index,nofollow":   {},
	"noindex,nofollow": {},
}

type StructuredData struct {
	Type       string   `json:"type"`
	JobTitle   string   `json:"jobTitle"`
	WorksFor   string   `json:"worksFor"`
	URL        string   `json:"url"`
	SameAs     []string `json:"sameAs"`
	KnowsAbout []string `json:"knowsAbout"`
	AlumniOf   []string `json:"alumniOf"`
	Award      []string `json:"award"`
}

type MetaTag struct {
	Name     string `json:"name"`
	Content  string `json:"content"`
	Property string `json:"property"`
}

type SEOData struct {
	MetaTitle          string         `json:"metaTitle" validate:"max=60"`
	MetaDescription    string         `json:"metaDescription" validate:"max=160"`
	Keywords           []string       `json:"keywords" validate:"dive,max=50"`
	OgTitle            string         `json:"ogTitle" validate:"max=60"`
	OgDescription      string         `json:"ogDescription" validate:"max=160"`
	OgImage            string         `json:"ogImage"`
	TwitterCard        string         `json:"twitterCard" validate:"omitempty,oneof=summary summary_large_image app player"`
	TwitterTitle       string         `json:"twitterTitle" validate:"max=70"`
	TwitterDescription string         `json:"twitterDescription" validate:"max=200"`
	TwitterImage       string         `json:"twitterImage"`
	CanonicalURL       string         `json:"canonicalUrl"`
	RobotsDirective    string         `json:"robotsDirective"`
	StructuredData     StructuredData `json:"structuredData"`
	CustomMetaTags     []MetaTag      `json:"customMetaTags"`
	SEOScore           int            `json:"seoScore" validate:"min=0,max=100"`
	LastSEOUpdate      time.Time      `json:"lastSeoUpdate"`
}

func NewSEOData(now time.Time) SEOData {
	return SEOData{
		Keywords:        []string{},
		TwitterCard:     DefaultTwitterCard,
		RobotsDirective: DefaultRobotsDirective,
		StructuredData:  StructuredData{Type: DefaultStructuredType},
		CustomMetaTags:  []MetaTag{},
		LastSEOUpdate:   now,
	}
}

func (s SEOData) Validate() error {
	err := validation.Struct(s)
	if s.RobotsDirective != "" {
		if _, ok := robotsDirectives[s.RobotsDirective]; !ok {
			err = multierr.Append(err, apperror.NewValidation("robotsDirective",
				"must be one of [index,follow noindex,follow index,nofollow noindex,nofollow]"))
		}
	}
	return err
}

// ApplyDefaults fills enum fields left empty by a client.
func (s *SEOData) ApplyDefaults() {
	if s.TwitterCard == "" {
		s.TwitterCard = DefaultTwitterCard
	}
	if s.RobotsDirective == "" {
		s.RobotsDirective = DefaultRobotsDirective
	}
	if s.StructuredData.Type == "" {
		s.StructuredData.Type = DefaultStructuredType
	}
	if s.Keywords == nil {
		s.Keywords = []string{}
	}
	if s.CustomMetaTags == nil {
		s.CustomMetaTags = []MetaTag{}
	}
}
