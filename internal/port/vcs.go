package port

import "context"

// DiffProvider abstracts diff computation against a local working copy.
// Implementations synchronize the working copy before diffing and must
// serialize concurrent calls on the same copy.
type DiffProvider interface {
	// Diff synchronizes repoPath to the remote state of branch, then returns
	// the unified diff for one ref (ref against the working tree) or two
	// refs (ref against ref). Zero or three-plus refs is a caller error.
	Diff(ctx context.Context, repoPath, branch string, refs ...string) (string, error)
}
