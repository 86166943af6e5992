// Package findreplace locates pattern occurrences in a text buffer, keeps a
// cyclic cursor over them and replaces them one at a time or all at once.
//
// Offsets are byte offsets into the UTF-8 text. Every function in this package
// is a pure computation over the values it is given; Session bundles the values
// for callers that want a single state object.
package findreplace

import "fmt"

// PatternSpec describes what to search for. WholeWord is ignored when IsRegex
// is set, since the expression controls its own boundaries.
type PatternSpec struct {
	Query         string
	CaseSensitive bool
	WholeWord     bool
	IsRegex       bool
}

// IsEmpty reports whether the spec has no query. Empty specs never search.
func (p PatternSpec) IsEmpty() bool {
	return p.Query == ""
}

// Match is a half-open byte range [Start, End) with Start < End.
type Match struct {
	Start int
	End   int
}

// Len returns the length of the match in bytes.
func (m Match) Len() int {
	return m.End - m.Start
}

// Text returns the matched slice of text.
func (m Match) Text(text string) string {
	return text[m.Start:m.End]
}

func (m Match) shift(delta int) Match {
	return Match{Start: m.Start + delta, End: m.End + delta}
}

// MatchSet is the ordered, non-overlapping result of one search, along with the
// length of the text it describes.
type MatchSet struct {
	Matches []Match
	TextLen int
}

// Len returns the number of matches.
func (s MatchSet) Len() int {
	return len(s.Matches)
}

// IsEmpty reports whether the set has no matches.
func (s MatchSet) IsEmpty() bool {
	return len(s.Matches) == 0
}

// At returns the match at index i.
func (s MatchSet) At(i int) (Match, error) {
	if i < 0 || i >= len(s.Matches) {
		return Match{}, fmt.Errorf("%w: index %d of %d", ErrIndexOutOfRange, i, len(s.Matches))
	}
	return s.Matches[i], nil
}

// checkSnapshot verifies that the set was computed for a text of this length.
func (s MatchSet) checkSnapshot(text string) error {
	if s.TextLen != len(text) {
		return fmt.Errorf("%w: computed for %d bytes, text has %d", ErrStaleMatchSet, s.TextLen, len(text))
	}
	return nil
}
