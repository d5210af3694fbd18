package service

import "context"

type GitHubUser struct {
	Login   string
	Name    string
	Bio     string
	HTMLURL string
}

type GitHubRepo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	HTMLURL     string `json:"url"`
	Language    string `json:"language,omitempty"`
	Stars       int    `json:"stars"`
}

type LinkedInProfile struct {
	ID        string
	FirstName string
	LastName  string
}

// ProviderAPI reads the account data used by integration sync. Every call is
// authorized with the user's stored access token.
type ProviderAPI interface {
	GitHubUser(ctx context.Context, accessToken string) (*GitHubUser, error)
	GitHubRepos(ctx context.Context, accessToken string) ([]GitHubRepo, error)
	LinkedInProfile(ctx context.Context, accessToken string) (*LinkedInProfile, error)
}
