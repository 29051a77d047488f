package port

import (
	"context"

	"github.com/amartel/changelogd/internal/domain"
)

// Registry ensures a repository record exists before entries are attached
// to it. Records are created lazily on first generation, never on reads.
type Registry interface {
	// EnsureRepo creates the repository record for hostID if absent and
	// returns it. Owner and name must already be lower-cased by the caller;
	// an existing record is returned unchanged.
	EnsureRepo(ctx context.Context, hostID int64, owner, name string) (*domain.Repository, error)
}

// ChangelogStore is the append-only per-repository changelog history with
// point edit by entry id.
type ChangelogStore interface {
	// AppendEntry appends entry to the repository's history. Returns
	// ErrRepoNotFound when no repository record exists for hostID.
	AppendEntry(ctx context.Context, hostID int64, entry *domain.ChangelogEntry) error

	// ListByHostID returns the stored entries in insertion order. A missing
	// repository or empty history yields an empty slice, not an error.
	ListByHostID(ctx context.Context, hostID int64) ([]domain.ChangelogEntry, error)

	// ListByOwnerName is ListByHostID keyed by lower-cased owner and name.
	ListByOwnerName(ctx context.Context, owner, name string) ([]domain.ChangelogEntry, error)

	// FindEntryRepo locates the repository owning the entry with the given
	// id. Returns ErrEntryNotFound when no entry matches.
	FindEntryRepo(ctx context.Context, entryID string) (*domain.Repository, error)

	// UpdateEntryContent replaces the matching entry's markdown content,
	// leaving every other field untouched. Returns ErrEntryNotFound when no
	// entry matches.
	UpdateEntryContent(ctx context.Context, entryID, mdContent string) error
}
