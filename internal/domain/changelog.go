package domain

import "time"

// Repository is the aggregate root tracking one GitHub repository and its
// changelog history. HostID is the GitHub-assigned numeric id and the
// primary lookup key; owner and name are stored lower-cased.
type Repository struct {
	HostID    int64     `json:"host_id"    db:"host_id"`
	Owner     string    `json:"owner"      db:"owner"`
	Name      string    `json:"name"       db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ChangelogEntry is one versioned, user-facing changelog record. It is
// generated once and appended to its repository's history; MdContent is the
// only field that may change afterwards.
type ChangelogEntry struct {
	ID        string    `json:"id"         db:"id"`
	Timestamp time.Time `json:"timestamp"  db:"created_at"`
	Version   string    `json:"version"    db:"version"`
	Title     string    `json:"title,omitempty" db:"title"`
	MdContent string    `json:"md_content" db:"md_content"`
	Commits   []Commit  `json:"commits"    db:"commits"`
}

// DefaultVersion is used when a generation request carries no version label.
const DefaultVersion = "0.0.0"

// Commit is one revision record read from the host. It is kept inside the
// entry it generated for audit purposes, never persisted on its own.
type Commit struct {
	SHA        string    `json:"sha"`
	Message    string    `json:"message"`
	AuthorDate time.Time `json:"author_date"`
	URL        string    `json:"url"`
}
