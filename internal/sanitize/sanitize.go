// Package sanitize strips commit hyperlinks from generated changelog
// markdown before display.
package sanitize

import (
	"regexp"

	"github.com/amartel/changelogd/internal/domain"
)

// Commit-link patterns: a URL qualifies when it contains both "github" and
// "commit", case-insensitively.
var (
	mdCommitLink   = regexp.MustCompile(`(?i)\[([^\]]+)\]\((https?://[^\s]*github[^\s]*commit[^\s]*)\)`)
	parenCommitURL = regexp.MustCompile(`(?i)\((https?://[^\s]*github[^\s]*commit[^\s]*)\)`)
	bareCommitURL  = regexp.MustCompile(`(?i)https?://[^\s]*github[^\s]*commit[^\s]*`)
)

// Apply returns a copy of entries with commit links stripped from each
// entry's markdown. When keepLinks is true the content passes through
// unchanged. The input slice is never mutated.
func Apply(entries []domain.ChangelogEntry, keepLinks bool) []domain.ChangelogEntry {
	out := make([]domain.ChangelogEntry, len(entries))
	copy(out, entries)
	if keepLinks {
		return out
	}
	for i := range out {
		out[i].MdContent = Content(out[i].MdContent)
	}
	return out
}

// Content strips commit links from a single markdown string. Markdown links
// collapse to their text, then parenthesized and bare commit URLs are
// removed. All occurrences are transformed.
func Content(md string) string {
	md = mdCommitLink.ReplaceAllString(md, "${1}")
	md = parenCommitURL.ReplaceAllString(md, "")
	md = bareCommitURL.ReplaceAllString(md, "")
	return md
}
