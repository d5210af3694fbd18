package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/khoahotran/portfolio-builder/internal/application/service"
)

const (
	defaultGitHubBaseURL            = "https://api.github.com"
	defaultLinkedInProfileURL       = "https://api.linkedin.com/v2/me"
	errorBodyReadLimit        int64 = 1024
)

type Client struct {
	httpClient         *http.Client
	githubBaseURL      string
	linkedInProfileURL string
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithGitHubBaseURL points GitHub calls at another host, e.g. GitHub Enterprise.
func WithGitHubBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(baseURL); trimmed != "" {
			c.githubBaseURL = strings.TrimRight(trimmed, "/")
		}
	}
}

func WithLinkedInProfileURL(profileURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(profileURL); trimmed != "" {
			c.linkedInProfileURL = trimmed
		}
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient:         &http.Client{Timeout: 10 * time.Second},
		githubBaseURL:      defaultGitHubBaseURL,
		linkedInProfileURL: defaultLinkedInProfileURL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

var _ service.ProviderAPI = (*Client)(nil)

func (c *Client) getJSON(ctx context.Context, url, accessToken string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return fmt.Errorf("GET %s: status %d: %s", url, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) GitHubUser(ctx context.Context, accessToken string) (*service.GitHubUser, error) {
	var body struct {
		Login   string `json:"login"`
		Name    string `json:"name"`
		Bio     string `json:"bio"`
		HTMLURL string `json:"html_url"`
	}
	if err := c.getJSON(ctx, c.githubBaseURL+"/user", accessToken, &body); err != nil {
		return nil, fmt.Errorf("github user: %w", err)
	}
	return &service.GitHubUser{Login: body.Login, Name: body.Name, Bio: body.Bio, HTMLURL: body.HTMLURL}, nil
}

func (c *Client) GitHubRepos(ctx context.Context, accessToken string) ([]service.GitHubRepo, error) {
	var body []struct {
		Name            string `json:"name"`
		Description     string `json:"description"`
		HTMLURL         string `json:"html_url"`
		Language        string `json:"language"`
		StargazersCount int    `json:"stargazers_count"`
	}
	url := c.githubBaseURL + "/user/repos?per_page=100&sort=updated"
	if err := c.getJSON(ctx, url, accessToken, &body); err != nil {
		return nil, fmt.Errorf("github repos: %w", err)
	}

	repos := make([]service.GitHubRepo, 0, len(body))
	for _, r := range body {
		repos = append(repos, service.GitHubRepo{
			Name:        r.Name,
			Description: r.Description,
			HTMLURL:     r.HTMLURL,
			Language:    r.Language,
			Stars:       r.StargazersCount,
		})
	}
	return repos, nil
}

func (c *Client) LinkedInProfile(ctx context.Context, accessToken string) (*service.LinkedInProfile, error) {
	var body struct {
		ID                 string `json:"id"`
		LocalizedFirstName string `json:"localizedFirstName"`
		LocalizedLastName  string `json:"localizedLastName"`
	}
	if err := c.getJSON(ctx, c.linkedInProfileURL, accessToken, &body); err != nil {
		return nil, fmt.Errorf("linkedin profile: %w", err)
	}
	return &service.LinkedInProfile{ID: body.ID, FirstName: body.LocalizedFirstName, LastName: body.LocalizedLastName}, nil
}
