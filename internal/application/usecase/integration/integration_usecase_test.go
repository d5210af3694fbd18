package integration

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/oauth2"

	"github.com/khoahotran/portfolio-builder/adapters/event"
	"github.com/khoahotran/portfolio-builder/adapters/persistence"
	"github.com/khoahotran/portfolio-builder/internal/application/service"
	"github.com/khoahotran/portfolio-builder/internal/config"
	"github.com/khoahotran/portfolio-builder/internal/domain/integration"
	"github.com/khoahotran/portfolio-builder/internal/domain/profile"
	"github.com/khoahotran/portfolio-builder/pkg/apperror"
	"github.com/khoahotran/portfolio-builder/pkg/logger"
)

type fakeProviderAPI struct {
	user     *service.GitHubUser
	repos    []service.GitHubRepo
	linkedIn *service.LinkedInProfile
	err      error
}

func (f *fakeProviderAPI) GitHubUser(context.Context, string) (*service.GitHubUser, error) {
	return f.user, f.err
}

func (f *fakeProviderAPI) GitHubRepos(context.Context, string) ([]service.GitHubRepo, error) {
	return f.repos, f.err
}

func (f *fakeProviderAPI) LinkedInProfile(context.Context, string) (*service.LinkedInProfile, error) {
	return f.linkedIn, f.err
}

type IntegrationUseCaseTestSuite struct {
	suite.Suite
	ctx          context.Context
	integrations integration.Repository
	profiles     profile.Repository
	api          *fakeProviderAPI
	uc           *IntegrationUseCase
	owner        *profile.Profile
	tokenServer  *httptest.Server
	fixed        time.Time
}

func (s *IntegrationUseCaseTestSuite) SetupTest() {
	s.ctx = context.Background()
	store := persistence.NewMemoryStore()
	s.integrations = store.Integrations()
	s.profiles = store.Profiles()
	s.api = &fakeProviderAPI{}

	s.tokenServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.PostForm.Get("code") != "good-code" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"bad_verification_code"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"gh-token","token_type":"bearer","refresh_token":"gh-refresh","expires_in":3600}`))
	}))

	cfg := config.Config{}
	cfg.OAuth.GitHub = config.OAuthProvider{ClientID: "client", ClientSecret: "secret", RedirectURL: "http://localhost/callback"}
	cfg.OAuth.Google = config.OAuthProvider{ClientID: "g-client"}
	oauth := OAuthConfigs(cfg)
	oauth[integration.ProviderGitHub].Endpoint = oauth2.Endpoint{
		AuthURL:  s.tokenServer.URL + "/authorize",
		TokenURL: s.tokenServer.URL + "/token",
	}

	s.uc = NewIntegrationUseCase(s.integrations, s.profiles, oauth, s.api, event.NopPublisher{}, logger.NewNopLogger())
	s.uc.httpClient = s.tokenServer.Client()
	s.fixed = time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)
	s.uc.now = func() time.Time { return s.fixed }

	s.owner = profile.New("Ada Lovelace", "ada@example.com", time.Now().UTC())
	s.owner.Username = "ada"
	s.owner.PasswordHash = "hash"
	s.Require().NoError(s.profiles.Create(s.ctx, s.owner))
}

func (s *IntegrationUseCaseTestSuite) TearDownTest() {
	s.tokenServer.Close()
}

func (s *IntegrationUseCaseTestSuite) connect(provider string) {
	token := provider + "-token"
	s.Require().NoError(s.integrations.Upsert(s.ctx, &integration.Integration{
		UserID:      s.owner.ID,
		Provider:    provider,
		Connected:   true,
		AccessToken: &token,
		UpdatedAt:   s.fixed,
	}))
}

func (s *IntegrationUseCaseTestSuite) TestListMergesCatalog() {
	s.connect(integration.ProviderGitHub)

	out, err := s.uc.ExecuteList(s.ctx, ListInput{UserID: s.owner.ID})
	s.Require().NoError(err)
	s.Require().Len(out.Integrations, len(integration.Catalog()))
	for _, st := range out.Integrations {
		s.Equal(st.ID == integration.ProviderGitHub, st.Connected, st.ID)
		s.Nil(st.LastSyncedAt)
	}
}

func (s *IntegrationUseCaseTestSuite) TestConnectURL() {
	out, err := s.uc.ExecuteConnectURL(s.ctx, ConnectURLInput{Provider: integration.ProviderGitHub})
	s.Require().NoError(err)
	u, err := url.Parse(out.AuthURL)
	s.Require().NoError(err)
	s.Equal("client", u.Query().Get("client_id"))
	s.Equal("read:user public_repo", u.Query().Get("scope"))
	s.Equal("inapp", u.Query().Get("state"))

	g, err := s.uc.ExecuteConnectURL(s.ctx, ConnectURLInput{Provider: integration.ProviderGoogleAnalytics})
	s.Require().NoError(err)
	gu, err := url.Parse(g.AuthURL)
	s.Require().NoError(err)
	s.Equal("offline", gu.Query().Get("access_type"))
	s.Equal("consent", gu.Query().Get("prompt"))

	_, err = s.uc.ExecuteConnectURL(s.ctx, ConnectURLInput{Provider: integration.ProviderDribbble})
	s.True(errors.Is(err, apperror.ErrInvalidInput))
	s.Equal("provider", apperror.From(err).Field)
}

func (s *IntegrationUseCaseTestSuite) TestConnectStoresTokens() {
	out, err := s.uc.ExecuteConnect(s.ctx, ConnectInput{UserID: s.owner.ID, Provider: integration.ProviderGitHub, Code: "good-code"})
	s.Require().NoError(err)
	s.True(out.Integration.Connected)

	row, err := s.integrations.Find(s.ctx, s.owner.ID, integration.ProviderGitHub)
	s.Require().NoError(err)
	s.Require().NotNil(row.AccessToken)
	s.Equal("gh-token", *row.AccessToken)
	s.Require().NotNil(row.RefreshToken)
	s.Equal("gh-refresh", *row.RefreshToken)
	s.NotNil(row.ExpiresAt)

	_, err = s.uc.ExecuteConnect(s.ctx, ConnectInput{UserID: s.owner.ID, Provider: integration.ProviderGitHub, Code: "bad"})
	s.Equal("code", apperror.From(err).Field)
}

func (s *IntegrationUseCaseTestSuite) TestDisconnect() {
	s.connect(integration.ProviderGitHub)
	s.Require().NoError(s.uc.ExecuteDisconnect(s.ctx, DisconnectInput{UserID: s.owner.ID, Provider: integration.ProviderGitHub}))

	row, err := s.integrations.Find(s.ctx, s.owner.ID, integration.ProviderGitHub)
	s.Require().NoError(err)
	s.False(row.Connected)
	s.Nil(row.AccessToken)

	s.Require().NoError(s.uc.ExecuteDisconnect(s.ctx, DisconnectInput{UserID: s.owner.ID, Provider: integration.ProviderMedium}))
	_, err = s.integrations.Find(s.ctx, s.owner.ID, integration.ProviderMedium)
	s.NoError(err)

	err = s.uc.ExecuteDisconnect(s.ctx, DisconnectInput{UserID: s.owner.ID, Provider: "myspace"})
	s.True(errors.Is(err, apperror.ErrInvalidInput))
}

func (s *IntegrationUseCaseTestSuite) TestSyncRequiresConnection() {
	_, err := s.uc.ExecuteSync(s.ctx, SyncInput{UserID: s.owner.ID, Provider: integration.ProviderGitHub})
	s.True(errors.Is(err, apperror.ErrInvalidInput))
	s.Contains(apperror.From(err).Message, "Not connected")
}

func (s *IntegrationUseCaseTestSuite) TestSyncGitHub() {
	s.connect(integration.ProviderGitHub)
	s.api.user = &service.GitHubUser{Login: "ada", Bio: "Engines and poetry", HTMLURL: "https://github.com/ada"}
	s.api.repos = []service.GitHubRepo{
		{Name: "a", Stars: 1}, {Name: "b", Stars: 9}, {Name: "c", Stars: 4}, {Name: "d", Stars: 6},
	}

	out, err := s.uc.ExecuteSync(s.ctx, SyncInput{UserID: s.owner.ID, Provider: integration.ProviderGitHub})
	s.Require().NoError(err)
	s.Equal(s.fixed, out.LastSyncedAt)
	s.Require().Len(out.TopRepositories, 3)
	s.Equal([]string{"b", "d", "c"}, []string{out.TopRepositories[0].Name, out.TopRepositories[1].Name, out.TopRepositories[2].Name})

	p, err := s.profiles.FindByID(s.ctx, s.owner.ID)
	s.Require().NoError(err)
	s.Equal("https://github.com/ada", p.SocialLinks.GitHub)
	s.Equal("Engines and poetry", p.Intro)

	row, err := s.integrations.Find(s.ctx, s.owner.ID, integration.ProviderGitHub)
	s.Require().NoError(err)
	s.Require().NotNil(row.LastSyncedAt)
	s.Equal(s.fixed, *row.LastSyncedAt)
}

func (s *IntegrationUseCaseTestSuite) TestSyncKeepsExistingIntro() {
	s.owner.Intro = "Countess"
	s.Require().NoError(s.profiles.Update(s.ctx, s.owner))
	s.connect(integration.ProviderGitHub)
	s.api.user = &service.GitHubUser{Bio: "Other", HTMLURL: "https://github.com/ada"}

	_, err := s.uc.ExecuteSync(s.ctx, SyncInput{UserID: s.owner.ID, Provider: integration.ProviderGitHub})
	s.Require().NoError(err)
	p, err := s.profiles.FindByID(s.ctx, s.owner.ID)
	s.Require().NoError(err)
	s.Equal("Countess", p.Intro)
}

func (s *IntegrationUseCaseTestSuite) TestSyncLinkedIn() {
	s.connect(integration.ProviderLinkedIn)
	s.api.linkedIn = &service.LinkedInProfile{ID: "ada-l", FirstName: "Augusta", LastName: "King"}

	_, err := s.uc.ExecuteSync(s.ctx, SyncInput{UserID: s.owner.ID, Provider: integration.ProviderLinkedIn})
	s.Require().NoError(err)

	p, err := s.profiles.FindByID(s.ctx, s.owner.ID)
	s.Require().NoError(err)
	s.Equal("https://www.linkedin.com/in/ada-l", p.SocialLinks.LinkedIn)
	s.Equal("Ada Lovelace", p.FullName)
}

func (s *IntegrationUseCaseTestSuite) TestSyncUpstreamFailure() {
	s.connect(integration.ProviderGitHub)
	s.api.err = errors.New("401 bad credentials")

	_, err := s.uc.ExecuteSync(s.ctx, SyncInput{UserID: s.owner.ID, Provider: integration.ProviderGitHub})
	s.True(errors.Is(err, apperror.ErrInternal))

	row, err := s.integrations.Find(s.ctx, s.owner.ID, integration.ProviderGitHub)
	s.Require().NoError(err)
	s.Nil(row.LastSyncedAt)
}

func (s *IntegrationUseCaseTestSuite) TestSyncGoogleAnalyticsStampsOnly() {
	s.connect(integration.ProviderGoogleAnalytics)
	out, err := s.uc.ExecuteSync(s.ctx, SyncInput{UserID: s.owner.ID, Provider: integration.ProviderGoogleAnalytics})
	s.Require().NoError(err)
	s.Equal(s.fixed, out.LastSyncedAt)
	s.Empty(out.TopRepositories)
}

func TestIntegrationUseCaseTestSuite(t *testing.T) {
	suite.Run(t, new(IntegrationUseCaseTestSuite))
}
