package contentutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/patrickward/markpad/internal/contentutil"
)

func TestFindFrontmatter(t *testing.T) {
	t.Parallel()

	lines := contentutil.SplitLines("\n---\ntitle: Notes\n---\nbody")
	bounds := contentutil.FindFrontmatter(lines)
	assert.True(t, bounds.Found)
	assert.Equal(t, 1, bounds.Start)
	assert.Equal(t, 4, bounds.End)

	assert.False(t, contentutil.FindFrontmatter(contentutil.SplitLines("---\nno end")).Found)
	assert.False(t, contentutil.FindFrontmatter(nil).Found)
}

func TestFrontmatterValue(t *testing.T) {
	t.Parallel()

	content := "---\r\ntitle: Notes\r\nencrypted: yes\r\n---\r\nencrypted: no"
	v, ok := contentutil.FrontmatterValue(content, "encrypted")
	assert.True(t, ok)
	assert.Equal(t, "yes", v)

	_, ok = contentutil.FrontmatterValue(content, "author")
	assert.False(t, ok)
}

func TestTitleCase(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Meeting Notes", contentutil.TitleCase("meeting notes"))
}

func TestStats(t *testing.T) {
	t.Parallel()

	stats := contentutil.Stats("héllo wörld\nsecond line", 10)
	assert.Equal(t, 23, stats.Characters)
	assert.Equal(t, 4, stats.Words)
	assert.Equal(t, 2, stats.Lines)
	assert.True(t, stats.OverLimit())

	empty := contentutil.Stats("", 0)
	assert.Equal(t, 0, empty.Lines)
	assert.False(t, empty.OverLimit())
}
