package provider

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordBoundaryPattern_EscapesRegexMeta(t *testing.T) {
	pattern := WordBoundaryPattern("a.c")
	assert.Equal(t, `\ma\.c\M`, pattern)
}

// Postgres \m and \M have no Go equivalent, so the semantics are checked
// with \b against the escaped core of the pattern.
func TestWordBoundaryPattern_MatchesWholeWordsOnly(t *testing.T) {
	pattern := WordBoundaryPattern("plumbing")
	core := pattern[2 : len(pattern)-2]
	re, err := regexp.Compile(`(?i)\b` + core + `\b`)
	require.NoError(t, err)

	assert.True(t, re.MatchString("plumbing and heating"))
	assert.True(t, re.MatchString("Emergency Plumbing"))
	assert.False(t, re.MatchString("unplumbingable"))
}
