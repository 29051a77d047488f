package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/amartel/changelogd/internal/domain"
	"github.com/amartel/changelogd/internal/port"
)

// PostgresStore handles all relational database operations: the repository
// registry, the per-repository changelog history, and audit logs.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection and returns a store instance.
func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use in transactions.
func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

// EnsureSchema creates the tables this service needs if they do not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS repos (
			host_id    BIGINT PRIMARY KEY,
			owner      TEXT NOT NULL,
			name       TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS changelog_entries (
			id           UUID PRIMARY KEY,
			repo_host_id BIGINT NOT NULL REFERENCES repos(host_id),
			seq          BIGSERIAL,
			created_at   TIMESTAMPTZ NOT NULL,
			version      TEXT NOT NULL,
			title        TEXT NOT NULL DEFAULT '',
			md_content   TEXT NOT NULL DEFAULT '',
			commits      JSONB NOT NULL DEFAULT '[]'
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_repo_seq ON changelog_entries (repo_host_id, seq)`,
		`CREATE TABLE IF NOT EXISTS audit_logs (
			id          BIGSERIAL PRIMARY KEY,
			user_id     TEXT NOT NULL,
			action      TEXT NOT NULL,
			resource    TEXT NOT NULL,
			resource_id TEXT NOT NULL,
			details     JSONB NOT NULL DEFAULT '{}',
			ip          TEXT NOT NULL DEFAULT '',
			user_agent  TEXT NOT NULL DEFAULT '',
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// --- Registry ---

// EnsureRepo creates the repository record for hostID if absent and returns
// it. Owner and name must already be lower-cased by the caller; an existing
// record keeps its stored owner and name.
func (s *PostgresStore) EnsureRepo(ctx context.Context, hostID int64, owner, name string) (*domain.Repository, error) {
	insert := `INSERT INTO repos (host_id, owner, name)
	           VALUES ($1, $2, $3)
	           ON CONFLICT (host_id) DO NOTHING`
	if _, err := s.db.ExecContext(ctx, insert, hostID, owner, name); err != nil {
		return nil, fmt.Errorf("ensure repo: %w", err)
	}

	var repo domain.Repository
	query := `SELECT host_id, owner, name, created_at FROM repos WHERE host_id = $1`
	err := s.db.QueryRowContext(ctx, query, hostID).Scan(
		&repo.HostID, &repo.Owner, &repo.Name, &repo.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("ensure repo: %w", err)
	}
	return &repo, nil
}

// --- Changelog history ---

// AppendEntry appends entry to the repository's history. The insert is
// guarded so a missing repository record reports port.ErrRepoNotFound
// instead of a constraint violation.
func (s *PostgresStore) AppendEntry(ctx context.Context, hostID int64, entry *domain.ChangelogEntry) error {
	commitsJSON, err := json.Marshal(entry.Commits)
	if err != nil {
		return fmt.Errorf("append entry: marshal commits: %w", err)
	}

	query := `INSERT INTO changelog_entries (id, repo_host_id, created_at, version, title, md_content, commits)
	          SELECT $1, $2, $3, $4, $5, $6, $7::jsonb
	          WHERE EXISTS (SELECT 1 FROM repos WHERE host_id = $2)`

	res, err := s.db.ExecContext(ctx, query,
		entry.ID, hostID, entry.Timestamp, entry.Version, entry.Title, entry.MdContent, string(commitsJSON),
	)
	if err != nil {
		return fmt.Errorf("append entry: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return port.ErrRepoNotFound
	}
	return nil
}

// ListByHostID returns the stored entries in insertion order. A missing
// repository or empty history yields an empty slice.
func (s *PostgresStore) ListByHostID(ctx context.Context, hostID int64) ([]domain.ChangelogEntry, error) {
	query := `SELECT id, created_at, version, title, md_content, commits
	          FROM changelog_entries WHERE repo_host_id = $1 ORDER BY seq`
	return s.listEntries(ctx, query, hostID)
}

// ListByOwnerName is ListByHostID keyed by lower-cased owner and name.
func (s *PostgresStore) ListByOwnerName(ctx context.Context, owner, name string) ([]domain.ChangelogEntry, error) {
	query := `SELECT e.id, e.created_at, e.version, e.title, e.md_content, e.commits
	          FROM changelog_entries e
	          JOIN repos r ON r.host_id = e.repo_host_id
	          WHERE r.owner = $1 AND r.name = $2
	          ORDER BY e.seq`
	return s.listEntries(ctx, query, owner, name)
}

func (s *PostgresStore) listEntries(ctx context.Context, query string, args ...interface{}) ([]domain.ChangelogEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.ChangelogEntry{}
	for rows.Next() {
		var e domain.ChangelogEntry
		var commitsJSON []byte
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Version, &e.Title, &e.MdContent, &commitsJSON); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if err := json.Unmarshal(commitsJSON, &e.Commits); err != nil {
			return nil, fmt.Errorf("decode entry commits: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// FindEntryRepo locates the repository owning the entry with the given id.
func (s *PostgresStore) FindEntryRepo(ctx context.Context, entryID string) (*domain.Repository, error) {
	query := `SELECT r.host_id, r.owner, r.name, r.created_at
	          FROM repos r
	          JOIN changelog_entries e ON e.repo_host_id = r.host_id
	          WHERE e.id = $1`

	var repo domain.Repository
	err := s.db.QueryRowContext(ctx, query, entryID).Scan(
		&repo.HostID, &repo.Owner, &repo.Name, &repo.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, port.ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find entry repo: %w", err)
	}
	return &repo, nil
}

// UpdateEntryContent replaces one entry's markdown content with a targeted
// single-field update, so concurrent edits and appends on the same
// repository cannot clobber each other.
func (s *PostgresStore) UpdateEntryContent(ctx context.Context, entryID, mdContent string) error {
	query := `UPDATE changelog_entries SET md_content = $1 WHERE id = $2`
	res, err := s.db.ExecContext(ctx, query, mdContent, entryID)
	if err != nil {
		return fmt.Errorf("update entry content: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return port.ErrEntryNotFound
	}
	return nil
}

// --- Audit Logs ---

// WriteAudit implements middleware.AuditWriter.
func (s *PostgresStore) WriteAudit(userID, action, resource, resourceID, details, ip, userAgent string) error {
	query := `INSERT INTO audit_logs (user_id, action, resource, resource_id, details, ip, user_agent)
	          VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7)`
	_, err := s.db.ExecContext(context.Background(), query,
		userID, action, resource, resourceID, details, ip, userAgent,
	)
	return err
}

// ListAuditLogs returns recent audit logs with optional filters.
func (s *PostgresStore) ListAuditLogs(ctx context.Context, limit int, action string) ([]domain.AuditLog, error) {
	query := `SELECT id, user_id, action, resource, resource_id, details, ip, user_agent, created_at
	          FROM audit_logs`
	args := []interface{}{}
	argIdx := 1

	if action != "" {
		query += fmt.Sprintf(" WHERE action = $%d", argIdx)
		args = append(args, action)
		argIdx++
	}

	query += " ORDER BY created_at DESC"

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	var logs []domain.AuditLog
	for rows.Next() {
		var l domain.AuditLog
		if err := rows.Scan(
			&l.ID, &l.UserID, &l.Action, &l.Resource, &l.ResourceID,
			&l.Details, &l.IP, &l.UserAgent, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, nil
}
