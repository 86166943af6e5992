package findreplace_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickward/markpad/internal/findreplace"
)

func TestReplaceAll(t *testing.T) {
	t.Parallel()

	text := "a a a"
	set, err := findreplace.ComputeMatches(text, literal("a"))
	require.NoError(t, err)

	newText, count, err := findreplace.ReplaceAll(text, set, "bb")
	require.NoError(t, err)
	assert.Equal(t, "bb bb bb", newText)
	assert.Equal(t, 3, count)

	again, err := findreplace.ComputeMatches(newText, literal("a"))
	require.NoError(t, err)
	assert.True(t, again.IsEmpty())
}

func TestReplaceAll_MatchesSequentialReplaceAt(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text        string
		spec        findreplace.PatternSpec
		replacement string
	}{
		{"foo bar foo baz foo", literal("foo"), "quux"},
		{"foo bar foo baz foo", literal("foo"), ""},
		{"aaa b aa", findreplace.PatternSpec{Query: "a+", CaseSensitive: true, IsRegex: true}, "-"},
		{"Cat cat CAT", findreplace.PatternSpec{Query: "cat"}, "dog"},
	}

	for _, tc := range cases {
		set, err := findreplace.ComputeMatches(tc.text, tc.spec)
		require.NoError(t, err)

		bulk, count, err := findreplace.ReplaceAll(tc.text, set, tc.replacement)
		require.NoError(t, err)
		assert.Equal(t, set.Len(), count)

		sequential, remaining := tc.text, set
		for !remaining.IsEmpty() {
			sequential, remaining, err = findreplace.ReplaceAt(sequential, remaining, 0, tc.replacement)
			require.NoError(t, err)
		}
		assert.Equal(t, sequential, bulk)

		for _, r := range findreplace.ReplacedRanges(set, tc.replacement) {
			assert.Equal(t, tc.replacement, bulk[r.Start:r.End])
		}
	}
}

func TestReplaceAll_EmptySet(t *testing.T) {
	t.Parallel()

	newText, count, err := findreplace.ReplaceAll("unchanged", findreplace.MatchSet{}, "x")
	require.NoError(t, err)
	assert.Equal(t, "unchanged", newText)
	assert.Equal(t, 0, count)
}

func TestReplaceAll_Stale(t *testing.T) {
	t.Parallel()

	set, err := findreplace.ComputeMatches("a a", literal("a"))
	require.NoError(t, err)

	_, _, err = findreplace.ReplaceAll("a a a", set, "b")
	assert.ErrorIs(t, err, findreplace.ErrStaleMatchSet)
}
