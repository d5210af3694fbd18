package profile

const (
	SectionHero           = "hero"
	SectionAbout          = "about"
	SectionSkills         = "skills"
	SectionProjects       = "projects"
	SectionEducation      = "education"
	SectionExperience     = "experience"
	SectionCertifications = "certifications"
	SectionTestimonials   = "testimonials"
	SectionContact        = "contact"
)

var defaultSectionOrder = [...]string{
	SectionHero,
	SectionAbout,
	SectionSkills,
	SectionProjects,
	SectionEducation,
	SectionExperience,
	SectionCertifications,
	SectionTestimonials,
	SectionContact,
}

// DefaultSectionOrder returns a fresh copy of the nine built-in section ids.
func DefaultSectionOrder() []string {
	out := make([]string, len(defaultSectionOrder))
	copy(out, defaultSectionOrder[:])
	return out
}

// IsKnownSection reports whether id belongs to the built-in vocabulary.
// Unknown ids may be stored but are never rendered.
func IsKnownSection(id string) bool {
	for _, s := range defaultSectionOrder {
		if s == id {
			return true
		}
	}
	return false
}

// Visibility maps a section id to whether it renders. A missing key means
// visible: profiles created before a section existed keep showing it.
type Visibility map[string]bool

func DefaultVisibility() Visibility {
	v := make(Visibility, len(defaultSectionOrder))
	for _, s := range defaultSectionOrder {
		v[s] = true
	}
	return v
}

// IsVisible is the single lookup for the default-true rule.
func IsVisible(v Visibility, id string) bool {
	visible, ok := v[id]
	if !ok {
		return true
	}
	return visible
}

func (v Visibility) IsVisible(id string) bool {
	return IsVisible(v, id)
}

// RenderedSections returns, in order, the ids that a template should draw.
func RenderedSections(order []string, v Visibility) []string {
	out := make([]string, 0, len(order))
	for _, id := range order {
		if IsKnownSection(id) && IsVisible(v, id) {
			out = append(out, id)
		}
	}
	return out
}
