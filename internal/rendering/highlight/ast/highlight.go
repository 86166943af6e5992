package ast

import (
	"strconv"

	gast "github.com/yuin/goldmark/ast"
)

// A Highlight struct represents a piece of text covered by a search match.
// One match may be split across several Highlight nodes when it crosses
// inline boundaries; only the first carries the anchor.
type Highlight struct {
	gast.BaseInline
	Index   int  // Zero-based index of the match in its match set
	Current bool // The match under the cursor
	Anchor  bool // First piece of the match
}

// Dump implements Node.Dump.
func (n *Highlight) Dump(source []byte, level int) {
	m := map[string]string{
		"Index":   strconv.Itoa(n.Index),
		"Current": strconv.FormatBool(n.Current),
		"Anchor":  strconv.FormatBool(n.Anchor),
	}
	gast.DumpHelper(n, source, level, m, nil)
}

// KindHighlight is a NodeKind of the Highlight node.
var KindHighlight = gast.NewNodeKind("Highlight")

// Kind implements Node.Kind.
func (n *Highlight) Kind() gast.NodeKind {
	return KindHighlight
}

// NewHighlight returns a new Highlight node.
func NewHighlight(index int, current, anchor bool) *Highlight {
	return &Highlight{
		Index:   index,
		Current: current,
		Anchor:  anchor,
	}
}
