package profile

import (
	"strings"
	"unicode/utf8"
)

// SEOCheck is one weighted item of the analysis checklist.
type SEOCheck struct {
	ID         string `json:"id"`
	Weight     int    `json:"weight"`
	Passed     bool   `json:"passed"`
	Suggestion string `json:"suggestion,omitempty"`
}

type SEOAnalysis struct {
	Score       int        `json:"score"`
	Checks      []SEOCheck `json:"checks"`
	Suggestions []string   `json:"suggestions"`
}

type seoRule struct {
	id         string
	weight     int
	suggestion string
	pass       func(p *Profile) bool
}

func lengthBetween(s string, min, max int) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(s))
	return n >= min && n <= max
}

func notBlank(s string) bool { return strings.TrimSpace(s) != "" }

// Weights add up to 100.
var seoRules = []seoRule{
	{"meta-title", 15, "Write a meta title between 30 and 60 characters",
		func(p *Profile) bool { return lengthBetween(p.SEO.MetaTitle, 30, 60) }},
	{"meta-description", 15, "Write a meta description between 120 and 160 characters",
		func(p *Profile) bool { return lengthBetween(p.SEO.MetaDescription, 120, 160) }},
	{"keywords", 10, "Add at least 3 keywords",
		func(p *Profile) bool { return len(p.SEO.Keywords) >= 3 }},
	{"open-graph", 10, "Fill in the Open Graph title and description",
		func(p *Profile) bool { return notBlank(p.SEO.OgTitle) && notBlank(p.SEO.OgDescription) }},
	{"share-image", 10, "Set an Open Graph image for link previews",
		func(p *Profile) bool { return notBlank(p.SEO.OgImage) }},
	{"canonical-url", 5, "Set a canonical URL",
		func(p *Profile) bool { return notBlank(p.SEO.CanonicalURL) }},
	{"indexable", 10, "Allow search engines to index your portfolio",
		func(p *Profile) bool {
			return p.SEO.RobotsDirective == "" || strings.HasPrefix(p.SEO.RobotsDirective, "index,")
		}},
	{"structured-data", 5, "Add a job title to your structured data",
		func(p *Profile) bool { return notBlank(p.SEO.StructuredData.JobTitle) }},
	{"profile-image", 5, "Upload a profile image",
		func(p *Profile) bool { return notBlank(p.ProfileImgURL) }},
	{"intro", 10, "Write an intro or bio",
		func(p *Profile) bool { return notBlank(p.Intro) || notBlank(p.Bio) }},
	{"skills", 5, "List at least 3 skills",
		func(p *Profile) bool { return len(p.Skills) >= 3 }},
}

// AnalyzeSEO scores the profile against a fixed checklist. The result only
// depends on the profile content.
func AnalyzeSEO(p *Profile) SEOAnalysis {
	a := SEOAnalysis{
		Checks:      make([]SEOCheck, 0, len(seoRules)),
		Suggestions: []string{},
	}
	for _, r := range seoRules {
		c := SEOCheck{ID: r.id, Weight: r.weight, Passed: r.pass(p)}
		if c.Passed {
			a.Score += r.weight
		} else {
			c.Suggestion = r.suggestion
			a.Suggestions = append(a.Suggestions, r.suggestion)
		}
		a.Checks = append(a.Checks, c)
	}
	return a
}

// SEOPreview is what a search result or link card shows for a portfolio.
type SEOPreview struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	URL         string   `json:"url"`
	TwitterCard string   `json:"twitterCard"`
	Robots      string   `json:"robots"`
	Keywords    []string `json:"keywords"`
}

const previewDescriptionLimit = 160

// BuildSEOPreview resolves each tag from seoData first and falls back to
// the profile content.
func BuildSEOPreview(p *Profile, portfolioURL string) SEOPreview {
	s := p.SEO
	preview := SEOPreview{
		Title:       firstNonBlank(s.MetaTitle, s.OgTitle),
		Description: firstNonBlank(s.MetaDescription, s.OgDescription, p.Intro, p.Bio),
		Image:       firstNonBlank(s.OgImage, s.TwitterImage, p.ProfileImgURL),
		URL:         firstNonBlank(s.CanonicalURL, portfolioURL),
		TwitterCard: firstNonBlank(s.TwitterCard, DefaultTwitterCard),
		Robots:      firstNonBlank(s.RobotsDirective, DefaultRobotsDirective),
		Keywords:    s.Keywords,
	}
	if preview.Title == "" {
		preview.Title = p.FullName
		if p.Title != "" {
			preview.Title += " - " + p.Title
		}
	}
	if utf8.RuneCountInString(preview.Description) > previewDescriptionLimit {
		runes := []rune(preview.Description)
		preview.Description = string(runes[:previewDescriptionLimit-1]) + "…"
	}
	if preview.Keywords == nil {
		preview.Keywords = []string{}
	}
	return preview
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if notBlank(v) {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
