package service

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/amartel/changelogd/internal/domain"
	"github.com/amartel/changelogd/internal/port"
	"github.com/amartel/changelogd/internal/prompt"
	"github.com/amartel/changelogd/internal/sanitize"
	"github.com/google/uuid"
)

// ChangelogService orchestrates the generation pipeline: resolve the
// repository on the host, ensure its record, fetch the commit range,
// optionally diff it, generate markdown with the model, and append the
// resulting entry to the repository's history.
type ChangelogService struct {
	registry port.Registry
	store    port.ChangelogStore
	host     port.HostClient
	model    port.Completer
	diffs    port.DiffProvider
	basePath string // root of local working copies, laid out as owner/name
}

// NewChangelogService creates a new changelog service.
func NewChangelogService(registry port.Registry, store port.ChangelogStore, host port.HostClient, model port.Completer, diffs port.DiffProvider, basePath string) *ChangelogService {
	return &ChangelogService{
		registry: registry,
		store:    store,
		host:     host,
		model:    model,
		diffs:    diffs,
		basePath: basePath,
	}
}

// GenerateParams are the caller-supplied inputs for one generation.
type GenerateParams struct {
	HostID  int64
	Since   *time.Time
	Until   *time.Time
	Version string
	Title   string
	UseDiff bool
}

// Generate runs the full pipeline and returns the appended entry. The entry
// is only appended after the model call fully returns; no failure leaves a
// half-written entry behind.
func (s *ChangelogService) Generate(ctx context.Context, token string, p GenerateParams) (*domain.ChangelogEntry, error) {
	if p.HostID == 0 {
		return nil, fmt.Errorf("%w: repository id required", port.ErrInvalidInput)
	}

	hostRepo, err := s.host.GetRepository(ctx, token, p.HostID)
	if err != nil {
		return nil, err
	}
	owner := strings.ToLower(hostRepo.Owner)
	name := strings.ToLower(hostRepo.Name)

	if _, err := s.registry.EnsureRepo(ctx, p.HostID, owner, name); err != nil {
		return nil, err
	}

	commits, err := s.host.ListCommits(ctx, token, p.HostID, port.CommitListing{
		Since: p.Since,
		Until: p.Until,
	})
	if err != nil {
		return nil, err
	}
	slog.Info("fetched commit range", "host_id", p.HostID, "commits", len(commits))

	var diff string
	if p.UseDiff && len(commits) > 0 {
		repoPath := filepath.Join(s.basePath, owner, name)
		oldest := commits[len(commits)-1].SHA
		newest := commits[0].SHA
		diff, err = s.diffs.Diff(ctx, repoPath, hostRepo.DefaultBranch, oldest, newest)
		if err != nil {
			return nil, err
		}
	}

	entry, err := s.GenerateEntry(ctx, commits, diff, p.Version, p.Title)
	if err != nil {
		return nil, err
	}

	if err := s.store.AppendEntry(ctx, p.HostID, entry); err != nil {
		return nil, err
	}
	slog.Info("changelog entry appended",
		"host_id", p.HostID,
		"entry_id", entry.ID,
		"version", entry.Version,
		"model", s.model.ModelName(),
	)
	return entry, nil
}

// GenerateEntry builds the prompt, invokes the model, and returns a fresh
// entry without persisting it. An empty completion is not an error: the
// entry carries empty content and the caller surfaces that to the user.
func (s *ChangelogService) GenerateEntry(ctx context.Context, commits []domain.Commit, diff, version, title string) (*domain.ChangelogEntry, error) {
	if version == "" {
		version = domain.DefaultVersion
	}

	p := prompt.Build(commits, diff)
	content, err := s.model.Complete(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("generate changelog: %w", err)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		slog.Warn("model returned empty completion", "model", s.model.ModelName())
	}

	return &domain.ChangelogEntry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Version:   version,
		Title:     title,
		MdContent: content,
		Commits:   commits,
	}, nil
}

// List returns a repository's entries in insertion order, looked up by host
// id or by owner/name, with commit links stripped unless useLinks is set.
func (s *ChangelogService) List(ctx context.Context, hostID int64, owner, name string, useLinks bool) ([]domain.ChangelogEntry, error) {
	if hostID == 0 && (owner == "" || name == "") {
		return nil, fmt.Errorf("%w: repository id or owner and name required", port.ErrInvalidInput)
	}

	var entries []domain.ChangelogEntry
	var err error
	if hostID != 0 {
		entries, err = s.store.ListByHostID(ctx, hostID)
	} else {
		entries, err = s.store.ListByOwnerName(ctx, strings.ToLower(owner), strings.ToLower(name))
	}
	if err != nil {
		return nil, err
	}
	return sanitize.Apply(entries, useLinks), nil
}

// Edit replaces one entry's markdown content, located by entry id.
func (s *ChangelogService) Edit(ctx context.Context, entryID, mdContent string) error {
	if entryID == "" {
		return fmt.Errorf("%w: entry id required", port.ErrInvalidInput)
	}
	if mdContent == "" {
		return fmt.Errorf("%w: changelog content required", port.ErrInvalidInput)
	}

	repo, err := s.store.FindEntryRepo(ctx, entryID)
	if err != nil {
		return err
	}
	if err := s.store.UpdateEntryContent(ctx, entryID, mdContent); err != nil {
		return err
	}
	slog.Info("changelog entry edited", "entry_id", entryID, "host_id", repo.HostID)
	return nil
}
