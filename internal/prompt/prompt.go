// Package prompt turns a commit range into the model prompt for changelog
// generation.
package prompt

import (
	"strings"

	"github.com/amartel/changelogd/internal/domain"
)

// MaxDiffChars bounds how much diff text is included in a prompt. Diffs are
// hard-cut at this many characters from their start to respect the model's
// input limit.
const MaxDiffChars = 4000

const instruction = "Given the following commits, generate a friendly changelog in markdown " +
	"for users to know what has changed. You can use emojis. Do not mention code specific " +
	"changes like talking about loops or comments. You may link a change to its commit when " +
	"a commit URL is provided.\n\n"

const diffHeader = "\n\nThe following diff covers the same range:\n"

// Build produces the prompt for one generation: the instruction paragraph,
// one "- message" bullet per commit, and the diff (truncated to
// MaxDiffChars) when present. Pure and deterministic.
func Build(commits []domain.Commit, diff string) string {
	var b strings.Builder
	b.WriteString(instruction)
	for i, c := range commits {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(c.Message)
	}
	if diff != "" {
		if len(diff) > MaxDiffChars {
			diff = diff[:MaxDiffChars]
		}
		b.WriteString(diffHeader)
		b.WriteString(diff)
	}
	return b.String()
}
