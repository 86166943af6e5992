// Package highlight is a goldmark extension that wraps the text covered by
// search matches in <mark> elements. Matches are byte offsets into the
// markdown source, so the source must reach goldmark unmodified.
package highlight

import (
	"sort"
	"strconv"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/patrickward/markpad/internal/findreplace"
	"github.com/patrickward/markpad/internal/rendering/highlight/ast"
)

var matchesKey = parser.NewContextKey()

type matchState struct {
	matches []findreplace.Match
	current int
}

// SetMatches stores the matches to highlight in a parser context. current is
// the index of the match under the cursor, or -1.
func SetMatches(pc parser.Context, matches []findreplace.Match, current int) {
	pc.Set(matchesKey, matchState{matches: matches, current: current})
}

func matchesFrom(pc parser.Context) (matchState, bool) {
	val := pc.Get(matchesKey)
	if val == nil {
		return matchState{}, false
	}
	state, ok := val.(matchState)
	return state, ok && len(state.matches) > 0
}

type transformer struct{}

// Transform splits every text node that overlaps a match into plain text and
// Highlight pieces.
func (t *transformer) Transform(doc *gast.Document, _ text.Reader, pc parser.Context) {
	state, ok := matchesFrom(pc)
	if !ok {
		return
	}

	var texts []*gast.Text
	_ = gast.Walk(doc, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if !entering {
			return gast.WalkContinue, nil
		}
		switch n.Kind() {
		case gast.KindCodeSpan, gast.KindAutoLink, gast.KindRawHTML:
			return gast.WalkSkipChildren, nil
		}
		if node, ok := n.(*gast.Text); ok {
			texts = append(texts, node)
		}
		return gast.WalkContinue, nil
	})

	anchored := make(map[int]bool)
	for _, node := range texts {
		splitText(node, state, anchored)
	}
}

func splitText(node *gast.Text, state matchState, anchored map[int]bool) {
	seg := node.Segment
	matches := state.matches

	i := sort.Search(len(matches), func(i int) bool { return matches[i].End > seg.Start })
	if i == len(matches) || matches[i].Start >= seg.Stop {
		return
	}

	parent := node.Parent()
	if parent == nil {
		return
	}

	var last *gast.Text
	insertText := func(start, stop int) *gast.Text {
		piece := gast.NewTextSegment(text.NewSegment(start, stop))
		piece.SetRaw(node.IsRaw())
		return piece
	}

	pos := seg.Start
	for ; i < len(matches) && matches[i].Start < seg.Stop; i++ {
		start := max(matches[i].Start, seg.Start)
		end := min(matches[i].End, seg.Stop)

		if start > pos {
			last = insertText(pos, start)
			parent.InsertBefore(parent, node, last)
		}

		h := ast.NewHighlight(i, i == state.current, !anchored[i])
		anchored[i] = true
		last = insertText(start, end)
		h.AppendChild(h, last)
		parent.InsertBefore(parent, node, h)

		pos = end
	}

	// Line breaks belong outside the <mark>, so a trailing empty piece carries them.
	if pos < seg.Stop || node.SoftLineBreak() || node.HardLineBreak() {
		last = insertText(pos, seg.Stop)
		parent.InsertBefore(parent, node, last)
	}

	last.SetSoftLineBreak(node.SoftLineBreak())
	last.SetHardLineBreak(node.HardLineBreak())
	parent.RemoveChild(parent, node)
}

// HTMLRenderer is a renderer for the Highlight node.
type HTMLRenderer struct {
	html.Config
}

// NewHTMLRenderer creates a new HTMLRenderer.
func NewHTMLRenderer(opts ...html.Option) renderer.NodeRenderer {
	r := &HTMLRenderer{
		Config: html.NewConfig(),
	}
	for _, opt := range opts {
		opt.SetHTMLOption(&r.Config)
	}
	return r
}

func (r *HTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindHighlight, r.renderHighlight)
}

func (r *HTMLRenderer) renderHighlight(w util.BufWriter, _ []byte, node gast.Node, entering bool) (gast.WalkStatus, error) {
	if !entering {
		_, _ = w.WriteString("</mark>")
		return gast.WalkContinue, nil
	}

	n := node.(*ast.Highlight)

	class := "search-highlight"
	if n.Current {
		class += " search-target"
	}

	_, _ = w.WriteString("<mark")
	if n.Anchor {
		_, _ = w.WriteString(` id="` + AnchorID(n.Index) + `"`)
	}
	_, _ = w.WriteString(` class="` + class + `">`)

	return gast.WalkContinue, nil
}

// AnchorID is the element id of the first piece of match index.
func AnchorID(index int) string {
	return "search-match-" + strconv.Itoa(index+1)
}

type highlightExtension struct{}

// Highlight is the goldmark extension for search match highlighting.
var Highlight = &highlightExtension{}

func (e *highlightExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(&transformer{}, 999),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(NewHTMLRenderer(), 500),
	))
}
