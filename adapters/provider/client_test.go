package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGitHubCalls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer gh-token", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/user":
			_, _ = w.Write([]byte(`{"login":"ada","bio":"Engines","html_url":"https://github.com/ada"}`))
		case "/user/repos":
			assert.Equal(t, "100", r.URL.Query().Get("per_page"))
			assert.Equal(t, "updated", r.URL.Query().Get("sort"))
			_, _ = w.Write([]byte(`[{"name":"engine","html_url":"https://github.com/ada/engine","language":"Go","stargazers_count":7}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(WithHTTPClient(srv.Client()), WithGitHubBaseURL(srv.URL+"/"))

	user, err := c.GitHubUser(context.Background(), "gh-token")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/ada", user.HTMLURL)
	assert.Equal(t, "Engines", user.Bio)

	repos, err := c.GitHubRepos(context.Background(), "gh-token")
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, 7, repos[0].Stars)
	assert.Equal(t, "Go", repos[0].Language)
}

func TestLinkedInProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"abc123","localizedFirstName":"Ada","localizedLastName":"Lovelace"}`))
	}))
	defer srv.Close()

	c := NewClient(WithLinkedInProfileURL(srv.URL))
	p, err := c.LinkedInProfile(context.Background(), "li-token")
	require.NoError(t, err)
	assert.Equal(t, "abc123", p.ID)
	assert.Equal(t, "Lovelace", p.LastName)
}

func TestUpstreamErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewClient(WithGitHubBaseURL(srv.URL)).GitHubUser(context.Background(), "expired")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}
