// Package vcs computes diffs by shelling out to the git CLI against a local
// working copy.
package vcs

import (
	"context"
	"fmt"
	"os/exec"
	"sync"

	"github.com/amartel/changelogd/internal/port"
)

// GitProvider implements port.DiffProvider using the git CLI. Concurrent
// calls on the same working copy are serialized: sync mutates the checkout
// and two syncs in flight would corrupt it.
type GitProvider struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewGitProvider creates a new git-backed diff provider.
func NewGitProvider() *GitProvider {
	return &GitProvider{locks: make(map[string]*sync.Mutex)}
}

// Diff synchronizes repoPath to the remote state of branch and returns the
// unified diff for one ref (against the working tree) or two refs.
func (g *GitProvider) Diff(ctx context.Context, repoPath, branch string, refs ...string) (string, error) {
	if len(refs) == 0 || len(refs) > 2 {
		return "", fmt.Errorf("%w: diff takes one or two refs, got %d", port.ErrInvalidInput, len(refs))
	}

	lock := g.pathLock(repoPath)
	lock.Lock()
	defer lock.Unlock()

	if err := g.sync(ctx, repoPath, branch); err != nil {
		return "", err
	}

	args := append([]string{"-C", repoPath, "diff"}, refs...)
	cmd := exec.CommandContext(ctx, "git", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", &port.DiffError{Op: "git diff", Output: string(output), Err: err}
	}
	return string(output), nil
}

// sync brings the working copy up to date with the remote default branch.
// Must be called with the path lock held.
func (g *GitProvider) sync(ctx context.Context, repoPath, branch string) error {
	steps := [][]string{
		{"-C", repoPath, "fetch"},
		{"-C", repoPath, "checkout", branch},
		{"-C", repoPath, "pull", "--ff-only"},
	}
	for _, args := range steps {
		cmd := exec.CommandContext(ctx, "git", args...)
		if output, err := cmd.CombinedOutput(); err != nil {
			return &port.DiffError{Op: "git " + args[2], Output: string(output), Err: err}
		}
	}
	return nil
}

// pathLock returns the mutex guarding one working copy, creating it on
// first use.
func (g *GitProvider) pathLock(repoPath string) *sync.Mutex {
	g.mu.Lock()
	defer g.mu.Unlock()
	lock, ok := g.locks[repoPath]
	if !ok {
		lock = &sync.Mutex{}
		g.locks[repoPath] = lock
	}
	return lock
}
