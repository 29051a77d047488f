package sanitize

import (
	"testing"

	"github.com/amartel/changelogd/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContent(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "markdown commit link collapses to text",
			in:   "See [fix](https://github.com/o/r/commit/abc) for details",
			want: "See fix for details",
		},
		{
			name: "parenthesized commit url removed",
			in:   "Fixed login (https://github.com/o/r/commit/abc123)",
			want: "Fixed login ",
		},
		{
			name: "bare commit url removed",
			in:   "Fixed login https://github.com/o/r/commit/abc123 for everyone",
			want: "Fixed login  for everyone",
		},
		{
			name: "all occurrences transformed",
			in: "- [a](https://github.com/o/r/commit/1)\n" +
				"- [b](https://github.com/o/r/commit/2)",
			want: "- a\n- b",
		},
		{
			name: "case insensitive match",
			in:   "See [fix](HTTPS://GitHub.com/o/r/COMMIT/abc) now",
			want: "See fix now",
		},
		{
			name: "non-commit links untouched",
			in:   "Read [the docs](https://example.com/docs) please",
			want: "Read [the docs](https://example.com/docs) please",
		},
		{
			name: "github link without commit untouched",
			in:   "See [repo](https://github.com/o/r) please",
			want: "See [repo](https://github.com/o/r) please",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Content(tt.in))
		})
	}
}

func TestContentIdempotent(t *testing.T) {
	in := "Mixed [fix](https://github.com/o/r/commit/1) and " +
		"(https://github.com/o/r/commit/2) and https://github.com/o/r/commit/3"
	once := Content(in)
	assert.Equal(t, once, Content(once))
}

func TestApplyStripsLinks(t *testing.T) {
	entries := []domain.ChangelogEntry{
		{ID: "a", MdContent: "See [fix](https://github.com/o/r/commit/abc) for details"},
		{ID: "b", MdContent: "No links here"},
	}

	got := Apply(entries, false)
	require.Len(t, got, 2)
	assert.Equal(t, "See fix for details", got[0].MdContent)
	assert.Equal(t, "No links here", got[1].MdContent)

	// input slice not mutated
	assert.Equal(t, "See [fix](https://github.com/o/r/commit/abc) for details", entries[0].MdContent)
}

func TestApplyKeepLinksIsIdentity(t *testing.T) {
	entries := []domain.ChangelogEntry{
		{ID: "a", MdContent: "See [fix](https://github.com/o/r/commit/abc) for details"},
	}

	got := Apply(entries, true)
	require.Len(t, got, 1)
	assert.Equal(t, entries[0].MdContent, got[0].MdContent)
}

func TestApplyEmpty(t *testing.T) {
	assert.Empty(t, Apply(nil, false))
	assert.Empty(t, Apply([]domain.ChangelogEntry{}, false))
}
