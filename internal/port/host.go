package port

import (
	"context"
	"time"

	"github.com/amartel/changelogd/internal/domain"
)

// HostRepo is repository metadata as reported by the host.
type HostRepo struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Owner         string `json:"owner"`
	FullName      string `json:"full_name"`
	Description   string `json:"description"`
	HTMLURL       string `json:"html_url"`
	DefaultBranch string `json:"default_branch"`
	Private       bool   `json:"private"`
}

// CommitListing holds the optional filters for a commit history request.
// Since and Until are independent; pages are 1-indexed.
type CommitListing struct {
	Since   *time.Time
	Until   *time.Time
	Page    int
	PerPage int
}

// HostClient abstracts the source-control host's REST API. Every call takes
// the caller's bearer token; no retries are performed here.
type HostClient interface {
	// GetRepository fetches repository metadata by its host-assigned id.
	GetRepository(ctx context.Context, token string, hostID int64) (*HostRepo, error)

	// ListCommits returns one page of commit history, most recent first.
	ListCommits(ctx context.Context, token string, hostID int64, opts CommitListing) ([]domain.Commit, error)

	// CountCommitPages reports the number of single-commit pages the host
	// declares for a repository, which equals its total commit count.
	CountCommitPages(ctx context.Context, token string, hostID int64) (int, error)

	// ListUserRepos returns one page of the caller's repositories.
	ListUserRepos(ctx context.Context, token string, page, perPage int) ([]HostRepo, error)
}
