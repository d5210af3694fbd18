package persistence

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/portfolio-builder/internal/domain/integration"
	"github.com/khoahotran/portfolio-builder/internal/domain/profile"
	"github.com/khoahotran/portfolio-builder/internal/domain/project"
	"github.com/khoahotran/portfolio-builder/pkg/apperror"
)

// MemoryStore keeps every aggregate in process memory. It backs
// db.driver=memory and the use case tests. Records are copied on the way in
// and out so callers never share state with the store.
type MemoryStore struct {
	mu           sync.RWMutex
	profiles     map[uuid.UUID]*profile.Profile
	projects     map[uuid.UUID]*project.Project
	integrations map[uuid.UUID]map[string]*integration.Integration
	projectSeq   map[uuid.UUID]int64
	seq          int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles:     make(map[uuid.UUID]*profile.Profile),
		projects:     make(map[uuid.UUID]*project.Project),
		integrations: make(map[uuid.UUID]map[string]*integration.Integration),
		projectSeq:   make(map[uuid.UUID]int64),
	}
}

func (s *MemoryStore) Profiles() profile.Repository         { return memoryProfileRepo{s} }
func (s *MemoryStore) Projects() project.Repository         { return memoryProjectRepo{s} }
func (s *MemoryStore) Integrations() integration.Repository { return memoryIntegrationRepo{s} }

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func cloneProfile(p *profile.Profile) *profile.Profile {
	c := *p
	c.Skills = cloneStrings(p.Skills)
	c.Languages = cloneStrings(p.Languages)
	c.AboutSections = cloneSlice(p.AboutSections)
	c.ExperienceDetails = make([]profile.Experience, len(p.ExperienceDetails))
	for i, e := range p.ExperienceDetails {
		e.Skills = cloneStrings(e.Skills)
		c.ExperienceDetails[i] = e
	}
	c.Education = cloneSlice(p.Education)
	c.Testimonials = cloneSlice(p.Testimonials)
	c.Certifications = cloneSlice(p.Certifications)
	c.SectionOrder = cloneStrings(p.SectionOrder)
	if p.VisibleSections != nil {
		c.VisibleSections = make(profile.Visibility, len(p.VisibleSections))
		for k, v := range p.VisibleSections {
			c.VisibleSections[k] = v
		}
	}
	c.SEO = cloneSEO(p.SEO)
	return &c
}

func cloneSEO(s profile.SEOData) profile.SEOData {
	c := s
	c.Keywords = cloneStrings(s.Keywords)
	c.CustomMetaTags = cloneSlice(s.CustomMetaTags)
	c.StructuredData.SameAs = cloneStrings(s.StructuredData.SameAs)
	c.StructuredData.KnowsAbout = cloneStrings(s.StructuredData.KnowsAbout)
	c.StructuredData.AlumniOf = cloneStrings(s.StructuredData.AlumniOf)
	c.StructuredData.Award = cloneStrings(s.StructuredData.Award)
	return c
}

type memoryProfileRepo struct{ s *MemoryStore }

func (r memoryProfileRepo) Create(ctx context.Context, p *profile.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.profiles {
		if existing.Email == p.Email {
			return apperror.NewConflict("User", "email", p.Email)
		}
		if existing.Username == p.Username {
			return apperror.NewConflict("User", "username", p.Username)
		}
	}
	r.s.profiles[p.ID] = cloneProfile(p)
	return nil
}

func (r memoryProfileRepo) Update(ctx context.Context, p *profile.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.profiles[p.ID]
	if !ok {
		return apperror.NewNotFound("User", p.ID.String())
	}
	next := cloneProfile(p)
	// Identity, layout and SEO are owned by their dedicated operations.
	next.Username = current.Username
	next.Email = current.Email
	next.PasswordHash = current.PasswordHash
	next.SectionOrder = current.SectionOrder
	next.VisibleSections = current.VisibleSections
	next.SEO = current.SEO
	next.CreatedAt = current.CreatedAt
	r.s.profiles[p.ID] = next
	return nil
}

func (r memoryProfileRepo) FindByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.profiles[id]
	if !ok {
		return nil, apperror.NewNotFound("User", id.String())
	}
	return cloneProfile(p), nil
}

func (r memoryProfileRepo) find(match func(*profile.Profile) bool, identifier string) (*profile.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.profiles {
		if match(p) {
			return cloneProfile(p), nil
		}
	}
	return nil, apperror.NewNotFound("User", identifier)
}

func (r memoryProfileRepo) FindByEmail(ctx context.Context, email string) (*profile.Profile, error) {
	return r.find(func(p *profile.Profile) bool { return p.Email == email }, email)
}

func (r memoryProfileRepo) FindByUsername(ctx context.Context, username string) (*profile.Profile, error) {
	return r.find(func(p *profile.Profile) bool { return p.Username == username }, username)
}

func (r memoryProfileRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	return err == nil, nil
}

func (r memoryProfileRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, username)
	return err == nil, nil
}

func (r memoryProfileRepo) UpdateSectionOrder(ctx context.Context, id uuid.UUID, order []string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.profiles[id]
	if !ok {
		return nil, apperror.NewNotFound("User", id.String())
	}
	p.SectionOrder = cloneStrings(order)
	if p.SectionOrder == nil {
		p.SectionOrder = []string{}
	}
	p.UpdatedAt = time.Now().UTC()
	return cloneStrings(p.SectionOrder), nil
}

func (r memoryProfileRepo) SetSectionVisibility(ctx context.Context, id uuid.UUID, section string, visible bool) (profile.Visibility, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.profiles[id]
	if !ok {
		return nil, apperror.NewNotFound("User", id.String())
	}
	if p.VisibleSections == nil {
		p.VisibleSections = profile.Visibility{}
	}
	p.VisibleSections[section] = visible
	p.UpdatedAt = time.Now().UTC()

	out := make(profile.Visibility, len(p.VisibleSections))
	for k, v := range p.VisibleSections {
		out[k] = v
	}
	return out, nil
}

func (r memoryProfileRepo) UpdateSEO(ctx context.Context, id uuid.UUID, seo profile.SEOData) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.profiles[id]
	if !ok {
		return apperror.NewNotFound("User", id.String())
	}
	p.SEO = cloneSEO(seo)
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (r memoryProfileRepo) UpdateSEOScore(ctx context.Context, id uuid.UUID, score int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.profiles[id]
	if !ok {
		return apperror.NewNotFound("User", id.String())
	}
	p.SEO.SEOScore = score
	return nil
}

// memoryProjectRepo orders by creation time and breaks ties with an
// insertion sequence so newest-first holds even within one clock tick.
type memoryProjectRepo struct{ s *MemoryStore }

func cloneProject(p *project.Project) *project.Project {
	c := *p
	c.TechStack = cloneStrings(p.TechStack)
	return &c
}

func (r memoryProjectRepo) Save(ctx context.Context, p *project.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.seq++
	r.s.projectSeq[p.ID] = r.s.seq
	r.s.projects[p.ID] = cloneProject(p)
	return nil
}

func (r memoryProjectRepo) Update(ctx context.Context, p *project.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.projects[p.ID]
	if !ok || current.UserID != p.UserID {
		return apperror.NewNotFound("Project", p.ID.String())
	}
	next := cloneProject(p)
	next.CreatedAt = current.CreatedAt
	p.CreatedAt = current.CreatedAt
	r.s.projects[p.ID] = next
	return nil
}

func (r memoryProjectRepo) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.projects[id]
	if !ok || current.UserID != userID {
		return apperror.NewNotFound("Project", id.String())
	}
	delete(r.s.projects, id)
	delete(r.s.projectSeq, id)
	return nil
}

func (r memoryProjectRepo) FindByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*project.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.projects[id]
	if !ok || p.UserID != userID {
		return nil, apperror.NewNotFound("Project", id.String())
	}
	return cloneProject(p), nil
}

func (r memoryProjectRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*project.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*project.Project, 0)
	for _, p := range r.s.projects {
		if p.UserID == userID {
			out = append(out, cloneProject(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return r.s.projectSeq[out[i].ID] > r.s.projectSeq[out[j].ID]
	})
	return out, nil
}

type memoryIntegrationRepo struct{ s *MemoryStore }

func cloneIntegration(i *integration.Integration) *integration.Integration {
	c := *i
	return &c
}

func (r memoryIntegrationRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*integration.Integration, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*integration.Integration, 0)
	for _, i := range r.s.integrations[userID] {
		out = append(out, cloneIntegration(i))
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Provider < out[b].Provider })
	return out, nil
}

func (r memoryIntegrationRepo) Find(ctx context.Context, userID uuid.UUID, provider string) (*integration.Integration, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	i, ok := r.s.integrations[userID][provider]
	if !ok {
		return nil, apperror.NewNotFound("Integration", provider)
	}
	return cloneIntegration(i), nil
}

func (r memoryIntegrationRepo) Upsert(ctx context.Context, i *integration.Integration) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	byProvider, ok := r.s.integrations[i.UserID]
	if !ok {
		byProvider = make(map[string]*integration.Integration)
		r.s.integrations[i.UserID] = byProvider
	}
	byProvider[i.Provider] = cloneIntegration(i)
	return nil
}
