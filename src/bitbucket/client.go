package bitbucket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/stake-plus/commitaudit/src/webclient"
)

const (
	DefaultBaseURL = "https://api.bitbucket.org/2.0/repositories"
	defaultTimeout = 30 * time.Second
)

// Repo locates a repository and carries the token used to read it.
type Repo struct {
	Workspace string
	Slug      string
	Token     string
}

// Commit is one entry of a commits page.
type Commit struct {
	Hash    string `json:"hash"`
	Message string `json:"message"`
	Author  struct {
		Raw string `json:"raw"`
	} `json:"author"`
}

// CommitPage is a page of the commit history. Next is empty on the last page.
type CommitPage struct {
	Values []Commit `json:"values"`
	Next   string   `json:"next"`
}

// Client reads commit history and diffs from the Bitbucket 2.0 REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client rooted at baseURL (DefaultBaseURL when empty).
func NewClient(baseURL string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: webclient.NewDefault(timeout),
	}
}

// CommitsURL is the first page of the repository's commit history.
func (c *Client) CommitsURL(repo Repo) string {
	return fmt.Sprintf("%s/%s/%s/commits", c.baseURL, url.PathEscape(repo.Workspace), url.PathEscape(repo.Slug))
}

// DiffURL is the raw diff endpoint for a single commit.
func (c *Client) DiffURL(repo Repo, hash string) string {
	return fmt.Sprintf("%s/%s/%s/diff/%s", c.baseURL, url.PathEscape(repo.Workspace), url.PathEscape(repo.Slug), url.PathEscape(hash))
}

// FetchPage loads one commits page. A non-2xx status is reported through the
// returned status with an empty page; err is set only for transport or decode
// failures.
func (c *Client) FetchPage(ctx context.Context, pageURL, token string) (int, CommitPage, error) {
	status, body, err := webclient.GetBearer(ctx, c.httpClient, pageURL, token)
	if err != nil {
		return status, CommitPage{}, fmt.Errorf("bitbucket: fetch page: %w", err)
	}
	if !OK(status) {
		return status, CommitPage{}, nil
	}

	var page CommitPage
	if err := json.Unmarshal(body, &page); err != nil {
		return status, CommitPage{}, fmt.Errorf("bitbucket: decode page: %w", err)
	}
	return status, page, nil
}

// FetchDiff loads the raw diff text for hash.
func (c *Client) FetchDiff(ctx context.Context, repo Repo, hash string) (int, string, error) {
	status, body, err := webclient.GetBearer(ctx, c.httpClient, c.DiffURL(repo, hash), repo.Token)
	if err != nil {
		return status, "", fmt.Errorf("bitbucket: fetch diff %s: %w", hash, err)
	}
	if !OK(status) {
		return status, "", nil
	}
	return status, string(body), nil
}

func OK(status int) bool {
	return status >= 200 && status < 300
}
