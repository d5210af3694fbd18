package integration

import (
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/khoahotran/portfolio-builder/internal/config"
	"github.com/khoahotran/portfolio-builder/internal/domain/integration"
)

const analyticsReadonlyScope = "https://www.googleapis.com/auth/analytics.readonly"

// OAuthConfigs returns the providers that support the connect flow. The
// other catalog entries are listed but cannot be connected.
func OAuthConfigs(cfg config.Config) map[string]*oauth2.Config {
	build := func(p config.OAuthProvider, endpoint oauth2.Endpoint, scopes ...string) *oauth2.Config {
		return &oauth2.Config{
			ClientID:     p.ClientID,
			ClientSecret: p.ClientSecret,
			RedirectURL:  p.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       scopes,
		}
	}
	return map[string]*oauth2.Config{
		integration.ProviderGitHub:          build(cfg.OAuth.GitHub, endpoints.GitHub, "read:user", "public_repo"),
		integration.ProviderLinkedIn:        build(cfg.OAuth.LinkedIn, endpoints.LinkedIn, "r_liteprofile"),
		integration.ProviderGoogleAnalytics: build(cfg.OAuth.Google, endpoints.Google, analyticsReadonlyScope),
	}
}
