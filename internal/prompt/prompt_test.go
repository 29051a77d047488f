package prompt

import (
	"strings"
	"testing"

	"github.com/amartel/changelogd/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildBullets(t *testing.T) {
	commits := []domain.Commit{
		{Message: "fix bug"},
		{Message: "add feature"},
	}

	got := Build(commits, "")

	assert.True(t, strings.HasPrefix(got, instruction))
	assert.Contains(t, got, "- fix bug\n- add feature")
	assert.NotContains(t, got, diffHeader)
}

func TestBuildShortDiffVerbatim(t *testing.T) {
	diff := "diff --git a/x b/x\n+added line\n"
	got := Build([]domain.Commit{{Message: "fix bug"}}, diff)

	require.True(t, strings.HasSuffix(got, diffHeader+diff))
}

func TestBuildTruncatesDiffToBudget(t *testing.T) {
	diff := strings.Repeat("x", MaxDiffChars+500)
	got := Build([]domain.Commit{{Message: "fix bug"}}, diff)

	idx := strings.Index(got, diffHeader)
	require.GreaterOrEqual(t, idx, 0)
	segment := got[idx+len(diffHeader):]
	assert.Len(t, segment, MaxDiffChars)
	assert.Equal(t, diff[:MaxDiffChars], segment)
}

func TestBuildDeterministic(t *testing.T) {
	commits := []domain.Commit{{Message: "fix bug"}, {Message: "tidy"}}
	assert.Equal(t, Build(commits, "d"), Build(commits, "d"))
}

func TestBuildNoCommits(t *testing.T) {
	got := Build(nil, "")
	assert.Equal(t, instruction, got)
}
