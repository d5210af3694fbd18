package integration

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	ProviderGoogleAnalytics = "google-analytics"
	ProviderGitHub          = "github"
	ProviderLinkedIn        = "linkedin"
	ProviderDribbble        = "dribbble"
	ProviderBehance         = "behance"
	ProviderMedium          = "medium"
	ProviderFigma           = "figma"
	ProviderCodePen         = "codepen"
)

type Definition struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Category    string `json:"category"`
}

var catalog = []Definition{
	{ID: ProviderGoogleAnalytics, Name: "Google Analytics", Category: "analytics", Icon: "📊", Description: "Track portfolio visitors and engagement"},
	{ID: ProviderGitHub, Name: "GitHub", Category: "productivity", Icon: "🐙", Description: "Automatically sync your repositories"},
	{ID: ProviderLinkedIn, Name: "LinkedIn", Category: "social", Icon: "💼", Description: "Import experience and recommendations"},
	{ID: ProviderDribbble, Name: "Dribbble", Category: "design", Icon: "🏀", Description: "Showcase your design work"},
	{ID: ProviderBehance, Name: "Behance", Category: "design", Icon: "🎨", Description: "Display your creative projects"},
	{ID: ProviderMedium, Name: "Medium", Category: "productivity", Icon: "📝", Description: "Import your blog posts"},
	{ID: ProviderFigma, Name: "Figma", Category: "design", Icon: "🎯", Description: "Embed your design prototypes"},
	{ID: ProviderCodePen, Name: "CodePen", Category: "productivity", Icon: "✏️", Description: "Show your code experiments"},
}

// Catalog returns the supported providers in display order.
func Catalog() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}

func IsKnownProvider(id string) bool {
	for _, d := range catalog {
		if d.ID == id {
			return true
		}
	}
	return false
}

// Integration is a user's connection record with one provider. Tokens are
// never serialized.
type Integration struct {
	UserID       uuid.UUID  `json:"-"`
	Provider     string     `json:"provider"`
	Connected    bool       `json:"connected"`
	AccessToken  *string    `json:"-"`
	RefreshToken *string    `json:"-"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
	LastSyncedAt *time.Time `json:"lastSyncedAt,omitempty"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Disconnect clears credentials but keeps the row.
func (i *Integration) Disconnect(now time.Time) {
	i.Connected = false
	i.AccessToken = nil
	i.RefreshToken = nil
	i.ExpiresAt = nil
	i.UpdatedAt = now
}

func (i *Integration) HasToken() bool {
	return i.Connected && i.AccessToken != nil && *i.AccessToken != ""
}

type Repository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Integration, error)
	Find(ctx context.Context, userID uuid.UUID, provider string) (*Integration, error)
	Upsert(ctx context.Context, i *Integration) error
}
