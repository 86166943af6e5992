package rendering

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/patrickward/markpad/internal/contentutil"
	"github.com/patrickward/markpad/internal/findreplace"
	"github.com/patrickward/markpad/internal/rendering/highlight"
)

type MarkdownRenderer struct {
	md        goldmark.Markdown
	sanitizer *bluemonday.Policy
}

type RenderedContent struct {
	Title          string         // The extracted title, if any.
	HTML           template.HTML  // The rendered HTML content.
	SectionHeaders []string       // List of section headers (H2).
	Metadata       map[string]any // Additional metadata extracted from front matter.
	Highlighted    int            // Number of matches passed to the highlighter.
}

// NewMarkdownRenderer creates a new MarkdownRenderer instance.
func NewMarkdownRenderer() *MarkdownRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.Linkify,
			extension.Table,
			extension.Strikethrough,
			extension.TaskList,
			extension.DefinitionList,
			highlight.Highlight,
			meta.Meta,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
			html.WithUnsafe(), // Allow raw HTML, but sanitize later
		),
	)

	return &MarkdownRenderer{
		md:        md,
		sanitizer: createSanitizerPolicy(),
	}
}

// Render renders the given Markdown content.
func (mr *MarkdownRenderer) Render(content string) RenderedContent {
	return mr.render(content, nil, findreplace.NoCursor)
}

// RenderWithMatches renders content with every match in set wrapped in a
// <mark>. The match under cursor also gets the search-target class. A set
// computed against different text is rendered without highlights.
func (mr *MarkdownRenderer) RenderWithMatches(content string, set findreplace.MatchSet, cursor findreplace.CursorState) RenderedContent {
	if set.TextLen != len(content) {
		return mr.render(content, nil, findreplace.NoCursor)
	}
	return mr.render(content, set.Matches, cursor)
}

func (mr *MarkdownRenderer) render(content string, matches []findreplace.Match, cursor findreplace.CursorState) RenderedContent {
	// Match offsets index content as given, so it is parsed unmodified.
	var buf bytes.Buffer
	ctx := parser.NewContext()
	if len(matches) > 0 {
		highlight.SetMatches(ctx, matches, int(cursor))
	}

	headers := sectionHeaders(content)
	if err := mr.md.Convert([]byte(content), &buf, parser.WithContext(ctx)); err != nil {
		return mr.renderError(ctx, content, headers, err)
	}

	metadata := meta.Get(ctx)

	return RenderedContent{
		Title:          renderedTitle(content, metadata),
		HTML:           template.HTML(mr.sanitizer.Sanitize(buf.String())),
		SectionHeaders: headers,
		Metadata:       metadata,
		Highlighted:    len(matches),
	}
}

// renderError renders an error message for the given content.
func (mr *MarkdownRenderer) renderError(ctx parser.Context, content string, headers []string, err error) RenderedContent {
	metadata := meta.Get(ctx)

	out := fmt.Sprintf("<div class=\"callout danger\">%s</div><pre>%s</pre>",
		template.HTMLEscapeString(err.Error()), template.HTMLEscapeString(content))

	return RenderedContent{
		Title:          renderedTitle(content, metadata),
		HTML:           template.HTML(out),
		SectionHeaders: headers,
		Metadata:       metadata,
	}
}

// createSanitizerPolicy creates a new sanitizer policy for HTML rendering.
func createSanitizerPolicy() *bluemonday.Policy {
	sanitizer := bluemonday.UGCPolicy()
	sanitizer.AllowAttrs("class", "id").OnElements("span", "div", "code", "pre", "p", "mark", "h1", "h2", "h3", "h4", "h5", "h6")
	sanitizer.AllowElements("mark")

	// Task list checkboxes
	sanitizer.AllowElements("input")
	sanitizer.AllowAttrs("type", "checked", "disabled").OnElements("input")
	return sanitizer
}

// renderedTitle decides the title to use. Priority:
// 1. A non-empty "title" in the frontmatter.
// 2. The first level one header in the body.
// 3. Otherwise, an empty string and the file name will be used as a fallback.
func renderedTitle(content string, metadata map[string]any) string {
	if metaTitle, ok := metadata["title"].(string); ok && strings.TrimSpace(metaTitle) != "" {
		return metaTitle
	}

	for _, line := range bodyLines(content) {
		if strings.HasPrefix(line, "# ") {
			return StripMarkdownHeaders(line)
		}
	}
	return ""
}

// sectionHeaders lists the text of every level two header outside code fences.
func sectionHeaders(content string) []string {
	var headers []string
	inFence := false
	for _, line := range bodyLines(content) {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			continue
		}
		if !inFence && strings.HasPrefix(line, "## ") {
			headers = append(headers, StripMarkdownHeaders(line))
		}
	}
	return headers
}

// bodyLines returns the lines of content after any frontmatter.
func bodyLines(content string) []string {
	lines := contentutil.SplitLines(content)
	if bounds := contentutil.FindFrontmatter(lines); bounds.Found {
		return lines[bounds.End:]
	}
	return lines
}

// StripMarkdownHeaders removes leading header markers (#, ##, ###, ####) and whitespace from a line
func StripMarkdownHeaders(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	trimmed = strings.TrimLeft(trimmed, "#")
	trimmed = strings.TrimLeft(trimmed, " \t")
	return strings.TrimRight(trimmed, " \t")
}
