// Package github is the source-control host adapter, consuming the GitHub
// REST API as an opaque JSON service.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/amartel/changelogd/internal/domain"
	"github.com/amartel/changelogd/internal/port"
)

const defaultBaseURL = "https://api.github.com"

// Client implements port.HostClient against the GitHub REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a host client. An empty baseURL targets api.github.com.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// repoResponse is the subset of GitHub repository metadata we consume.
type repoResponse struct {
	ID    int64 `json:"id"`
	Owner struct {
		Login string `json:"login"`
	} `json:"owner"`
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	Description   string `json:"description"`
	HTMLURL       string `json:"html_url"`
	DefaultBranch string `json:"default_branch"`
	Private       bool   `json:"private"`
}

func (r repoResponse) toHostRepo() port.HostRepo {
	return port.HostRepo{
		ID:            r.ID,
		Owner:         r.Owner.Login,
		Name:          r.Name,
		FullName:      r.FullName,
		Description:   r.Description,
		HTMLURL:       r.HTMLURL,
		DefaultBranch: r.DefaultBranch,
		Private:       r.Private,
	}
}

// commitResponse is the subset of GitHub commit metadata we consume.
type commitResponse struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message string `json:"message"`
		Author  struct {
			Date time.Time `json:"date"`
		} `json:"author"`
	} `json:"commit"`
	HTMLURL string `json:"html_url"`
}

// GetRepository fetches repository metadata by its host-assigned id.
func (c *Client) GetRepository(ctx context.Context, token string, hostID int64) (*port.HostRepo, error) {
	var repo repoResponse
	endpoint := fmt.Sprintf("%s/repositories/%d", c.baseURL, hostID)
	if err := c.getJSON(ctx, token, endpoint, &repo); err != nil {
		return nil, fmt.Errorf("get repository %d: %w", hostID, err)
	}
	hr := repo.toHostRepo()
	return &hr, nil
}

// ListCommits returns one page of commit history for a repository, most
// recent first as ordered by the host.
func (c *Client) ListCommits(ctx context.Context, token string, hostID int64, opts port.CommitListing) ([]domain.Commit, error) {
	q := url.Values{}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(opts.PerPage))
	}
	if opts.Since != nil {
		q.Set("since", opts.Since.UTC().Format(time.RFC3339))
	}
	if opts.Until != nil {
		q.Set("until", opts.Until.UTC().Format(time.RFC3339))
	}

	endpoint := fmt.Sprintf("%s/repositories/%d/commits", c.baseURL, hostID)
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	var raw []commitResponse
	if err := c.getJSON(ctx, token, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("list commits %d: %w", hostID, err)
	}

	commits := make([]domain.Commit, 0, len(raw))
	for _, r := range raw {
		commits = append(commits, domain.Commit{
			SHA:        r.SHA,
			Message:    r.Commit.Message,
			AuthorDate: r.Commit.Author.Date,
			URL:        r.HTMLURL,
		})
	}
	return commits, nil
}

// CountCommitPages requests page 1 with page size 1 and reads the page
// number of the Link header's rel="last" entry, which equals the total
// commit count. No Link header means exactly one page.
func (c *Client) CountCommitPages(ctx context.Context, token string, hostID int64) (int, error) {
	endpoint := fmt.Sprintf("%s/repositories/%d/commits?page=1&per_page=1", c.baseURL, hostID)

	resp, err := c.get(ctx, token, endpoint)
	if err != nil {
		return 0, fmt.Errorf("count commits %d: %w", hostID, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	last := lastPage(resp.Header.Get("Link"))
	return last, nil
}

// lastPage extracts the page number of the rel="last" link relation.
// Absence of such a relation means exactly one page exists.
func lastPage(linkHeader string) int {
	for _, part := range strings.Split(linkHeader, ",") {
		if !strings.Contains(part, `rel="last"`) {
			continue
		}
		start := strings.Index(part, "<")
		end := strings.Index(part, ">")
		if start < 0 || end < 0 || end <= start {
			continue
		}
		u, err := url.Parse(part[start+1 : end])
		if err != nil {
			continue
		}
		if n, err := strconv.Atoi(u.Query().Get("page")); err == nil && n > 0 {
			return n
		}
	}
	return 1
}

// ListUserRepos returns one page of the authenticated caller's repositories.
func (c *Client) ListUserRepos(ctx context.Context, token string, page, perPage int) ([]port.HostRepo, error) {
	endpoint := fmt.Sprintf("%s/user/repos?visibility=all&sort=updated&page=%d&per_page=%d", c.baseURL, page, perPage)

	var raw []repoResponse
	if err := c.getJSON(ctx, token, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("list user repos: %w", err)
	}

	repos := make([]port.HostRepo, 0, len(raw))
	for _, r := range raw {
		repos = append(repos, r.toHostRepo())
	}
	return repos, nil
}

// getJSON performs an authenticated GET and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, token, endpoint string, out interface{}) error {
	resp, err := c.get(ctx, token, endpoint)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// get performs an authenticated GET, mapping authentication rejections to
// port.ErrUnauthorized and any other non-2xx status to port.UpstreamError.
func (c *Client) get(ctx context.Context, token, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("host unreachable: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: host rejected token (%d)", port.ErrUnauthorized, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &port.UpstreamError{Status: resp.StatusCode, Body: string(body)}
	}

	return resp, nil
}
