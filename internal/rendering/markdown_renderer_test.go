package rendering_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrickward/markpad/internal/findreplace"
	"github.com/patrickward/markpad/internal/rendering"
)

func TestMarkdownRenderer_Render(t *testing.T) {
	t.Parallel()
	mr := rendering.NewMarkdownRenderer()

	out := mr.Render("---\ntitle: Meta Title\n---\n# Heading\n\n## One\n\ntext\n\n## Two\n")
	assert.Equal(t, "Meta Title", out.Title)
	assert.Equal(t, []string{"One", "Two"}, out.SectionHeaders)
	assert.Contains(t, string(out.HTML), "<h1")
	assert.NotContains(t, string(out.HTML), "title: Meta Title")
	assert.Equal(t, 0, out.Highlighted)
}

func TestMarkdownRenderer_TitleFromHeader(t *testing.T) {
	t.Parallel()
	mr := rendering.NewMarkdownRenderer()

	out := mr.Render("intro\n\n# The Header  \n\n```\n## not a section\n```\n")
	assert.Equal(t, "The Header", out.Title)
	assert.Empty(t, out.SectionHeaders)
}

func TestMarkdownRenderer_Sanitizes(t *testing.T) {
	t.Parallel()
	mr := rendering.NewMarkdownRenderer()

	out := mr.Render("hello <script>alert(1)</script>")
	assert.NotContains(t, string(out.HTML), "<script>")
	assert.Contains(t, string(out.HTML), "hello")
}

func TestMarkdownRenderer_RenderWithMatches(t *testing.T) {
	t.Parallel()
	mr := rendering.NewMarkdownRenderer()

	content := "Hello world, hello"
	set, err := findreplace.ComputeMatches(content, findreplace.PatternSpec{Query: "hello"})
	require.NoError(t, err)
	require.Equal(t, 2, set.Len())

	out := mr.RenderWithMatches(content, set, 1)
	html := string(out.HTML)
	assert.Equal(t, 2, out.Highlighted)
	assert.Equal(t, 2, strings.Count(html, "<mark"))
	assert.Contains(t, html, `id="search-match-1"`)
	assert.Contains(t, html, `search-target">hello</mark>`)
	assert.Contains(t, html, `search-highlight">Hello</mark>`)
}

func TestMarkdownRenderer_StaleMatchesIgnored(t *testing.T) {
	t.Parallel()
	mr := rendering.NewMarkdownRenderer()

	set, err := findreplace.ComputeMatches("hello", findreplace.PatternSpec{Query: "hello"})
	require.NoError(t, err)

	out := mr.RenderWithMatches("hello there", set, 0)
	assert.Equal(t, 0, out.Highlighted)
	assert.NotContains(t, string(out.HTML), "<mark")
}

func TestMarkdownRenderer_FrontmatterMatchesNotShown(t *testing.T) {
	t.Parallel()
	mr := rendering.NewMarkdownRenderer()

	content := "---\ntitle: hello\n---\nhello"
	set, err := findreplace.ComputeMatches(content, findreplace.PatternSpec{Query: "hello"})
	require.NoError(t, err)
	require.Equal(t, 2, set.Len())

	html := string(mr.RenderWithMatches(content, set, findreplace.NoCursor).HTML)
	assert.Equal(t, 1, strings.Count(html, "<mark"))
	assert.Contains(t, html, `id="search-match-2"`)
}

func TestStripMarkdownHeaders(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Title", rendering.StripMarkdownHeaders("  ## Title "))
}
