package findreplace_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickward/markpad/internal/findreplace"
)

func TestReplaceAt_ShiftsLaterMatches(t *testing.T) {
	t.Parallel()

	text := "foo bar foo"
	set, err := findreplace.ComputeMatches(text, literal("foo"))
	require.NoError(t, err)
	require.Equal(t, 2, set.Len())
	originalStart := set.Matches[1].Start

	newText, newSet, err := findreplace.ReplaceAt(text, set, 0, "X")
	require.NoError(t, err)
	assert.Equal(t, "X bar foo", newText)
	require.Equal(t, 1, newSet.Len())
	assert.Equal(t, originalStart+len("X")-len("foo"), newSet.Matches[0].Start)
	assert.Equal(t, "foo", newSet.Matches[0].Text(newText))
	assert.Equal(t, len(newText), newSet.TextLen)
}

func TestReplaceAt_LeavesEarlierMatches(t *testing.T) {
	t.Parallel()

	text := "one two one two one"
	set, err := findreplace.ComputeMatches(text, literal("one"))
	require.NoError(t, err)

	newText, newSet, err := findreplace.ReplaceAt(text, set, 1, "three-three")
	require.NoError(t, err)
	assert.Equal(t, "one two three-three two one", newText)
	assert.Equal(t, set.Matches[0], newSet.Matches[0])
	for _, m := range newSet.Matches {
		assert.Equal(t, "one", m.Text(newText))
	}
}

func TestReplaceAt_SequenceKeepsInvariant(t *testing.T) {
	t.Parallel()

	text := "ab abab xab ab"
	set, err := findreplace.ComputeMatches(text, literal("ab"))
	require.NoError(t, err)

	replacements := []string{"", "LONGER", "z", "ab-ab"}
	for i := 0; !set.IsEmpty(); i++ {
		index := (i * 2) % set.Len()
		text, set, err = findreplace.ReplaceAt(text, set, index, replacements[i%len(replacements)])
		require.NoError(t, err)
		assert.Equal(t, len(text), set.TextLen)
		for _, m := range set.Matches {
			assert.Equal(t, "ab", m.Text(text))
		}
	}
}

func TestReplaceAt_Errors(t *testing.T) {
	t.Parallel()

	text := "foo foo"
	set, err := findreplace.ComputeMatches(text, literal("foo"))
	require.NoError(t, err)

	_, _, err = findreplace.ReplaceAt(text, set, 2, "x")
	assert.ErrorIs(t, err, findreplace.ErrIndexOutOfRange)

	_, _, err = findreplace.ReplaceAt(text, set, -1, "x")
	assert.ErrorIs(t, err, findreplace.ErrIndexOutOfRange)

	_, _, err = findreplace.ReplaceAt(text+" foo", set, 0, "x")
	assert.ErrorIs(t, err, findreplace.ErrStaleMatchSet)
}

func TestCursorAfterReplace(t *testing.T) {
	t.Parallel()

	text := "a a a"
	set, err := findreplace.ComputeMatches(text, literal("a"))
	require.NoError(t, err)

	// Replacing the middle match leaves the cursor on the next one.
	text, set, err = findreplace.ReplaceAt(text, set, 1, "b")
	require.NoError(t, err)
	cursor := findreplace.CursorAfterReplace(1, set)
	assert.Equal(t, findreplace.CursorState(1), cursor)
	m, ok, err := findreplace.Current(cursor, set)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 4, m.Start)

	// Replacing the last match wraps to the first.
	text, set, err = findreplace.ReplaceAt(text, set, 1, "b")
	require.NoError(t, err)
	assert.Equal(t, findreplace.CursorState(0), findreplace.CursorAfterReplace(1, set))

	// Replacing the only match leaves no cursor.
	text, set, err = findreplace.ReplaceAt(text, set, 0, "b")
	require.NoError(t, err)
	assert.Equal(t, "b b b", text)
	assert.True(t, findreplace.CursorAfterReplace(0, set).IsNone())
}
