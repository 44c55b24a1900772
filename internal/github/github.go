/*
Package github provides the GitHub REST client Bumper reads commit history with.
*/
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/oarkflow/bumper/internal/config"
	"github.com/oarkflow/bumper/internal/git"
)

// DefaultAPIURL is the public GitHub REST endpoint
const DefaultAPIURL = "https://api.github.com"

// TokenFromEnv returns the API token, if any. Commit history of public
// repositories is readable without one; a token only raises the rate limit.
func TokenFromEnv() string {
	if tok := strings.TrimSpace(os.Getenv("BUMPER_GITHUB_TOKEN")); tok != "" {
		return tok
	}
	return strings.TrimSpace(os.Getenv("GITHUB_TOKEN"))
}

// UserAgent returns the User-Agent sent with every request
func UserAgent(version string) string {
	return fmt.Sprintf("bumper/%s", version)
}

// Client lists commits of a single repository
type Client struct {
	owner     string
	repo      string
	apiURL    string
	perPage   int
	token     string
	userAgent string
	http      *http.Client
}

// NewClient creates a client for the configured repository
func NewClient(cfg config.GitHub, userAgent string) (*Client, error) {
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	apiURL := strings.TrimSuffix(cfg.APIURL, "/")
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = 50
	}

	return &Client{
		owner:     cfg.Owner,
		repo:      cfg.Repo,
		apiURL:    apiURL,
		perPage:   perPage,
		token:     TokenFromEnv(),
		userAgent: userAgent,
		http:      &http.Client{Timeout: timeout},
	}, nil
}

// commitResponse mirrors the fields of the list-commits payload we use
type commitResponse struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message string `json:"message"`
		Author  struct {
			Date time.Time `json:"date"`
		} `json:"author"`
	} `json:"commit"`
	// Author is null when the commit email matches no GitHub account
	Author *struct {
		Login string `json:"login"`
	} `json:"author"`
}

// errorResponse is the GitHub error payload
type errorResponse struct {
	Message string `json:"message"`
}

// ListCommits returns the most recent commits of the default branch,
// newest first
func (c *Client) ListCommits(ctx context.Context) ([]git.Commit, error) {
	u := fmt.Sprintf("%s/repos/%s/%s/commits?per_page=%d",
		c.apiURL, url.PathEscape(c.owner), url.PathEscape(c.repo), c.perPage)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	log.Debug("Fetching commits", "owner", c.owner, "repo", c.repo, "per_page", c.perPage)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr errorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("GitHub API error (%d): %s", resp.StatusCode, apiErr.Message)
		}
		return nil, fmt.Errorf("GitHub API error (%d)", resp.StatusCode)
	}

	var payload []commitResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	commits := make([]git.Commit, 0, len(payload))
	for _, p := range payload {
		commit := git.Commit{
			Hash:    p.SHA,
			Message: p.Commit.Message,
			Date:    p.Commit.Author.Date,
		}
		if p.Author != nil {
			commit.Author = p.Author.Login
		}
		commits = append(commits, commit)
	}

	log.Debug("Fetched commits", "count", len(commits))
	return commits, nil
}
