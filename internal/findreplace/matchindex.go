package findreplace

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ComputeMatches returns every non-overlapping occurrence of spec in text, in
// ascending order. An empty query yields an empty set and no error. A regex
// query that does not compile returns an *InvalidPatternError.
func ComputeMatches(text string, spec PatternSpec) (MatchSet, error) {
	set := MatchSet{TextLen: len(text)}
	if spec.IsEmpty() {
		return set, nil
	}

	if spec.IsRegex {
		re, err := compileRegex(spec)
		if err != nil {
			return MatchSet{}, err
		}
		set.Matches = scanRegex(text, re)
		return set, nil
	}

	set.Matches = scanLiteral(text, spec)
	return set, nil
}

// ValidatePattern reports whether spec can be searched, without scanning any text.
func ValidatePattern(spec PatternSpec) error {
	if spec.IsEmpty() || !spec.IsRegex {
		return nil
	}
	_, err := compileRegex(spec)
	return err
}

// compileRegex compiles the query with RE2 syntax, prefixed with (?i) when
// the spec is case-insensitive.
func compileRegex(spec PatternSpec) (*regexp.Regexp, error) {
	pattern := spec.Query
	if !spec.CaseSensitive {
		pattern = "(?i)" + pattern
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &InvalidPatternError{Query: spec.Query, Err: err}
	}
	return re, nil
}

// scanRegex collects the leftmost-first, non-overlapping matches of re.
// Empty matches are dropped, as is any range that does not start and end on
// a rune boundary.
func scanRegex(text string, re *regexp.Regexp) []Match {
	var matches []Match
	for _, loc := range re.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		if start == end || !onRuneBoundary(text, start) || !onRuneBoundary(text, end) {
			continue
		}
		matches = append(matches, Match{Start: start, End: end})
	}
	return matches
}

func onRuneBoundary(text string, i int) bool {
	return i == len(text) || utf8.RuneStart(text[i])
}

type literalFinder func(text, query string, from int) (start, end int, ok bool)

func scanLiteral(text string, spec PatternSpec) []Match {
	var find literalFinder = indexExact
	if !spec.CaseSensitive {
		find = indexFold
	}

	var matches []Match
	for pos := 0; pos < len(text); {
		start, end, ok := find(text, spec.Query, pos)
		if !ok {
			break
		}

		if spec.WholeWord && !isWholeWord(text, start, end) {
			pos = nextRune(text, start)
			continue
		}

		matches = append(matches, Match{Start: start, End: end})
		pos = end
	}

	return matches
}

func indexExact(text, query string, from int) (int, int, bool) {
	i := strings.Index(text[from:], query)
	if i < 0 {
		return 0, 0, false
	}
	start := from + i
	return start, start + len(query), true
}

// indexFold finds query in text at or after from using Unicode simple case
// folding. The returned offsets are in text, whose encoded length may differ
// from the query's.
func indexFold(text, query string, from int) (int, int, bool) {
	for i := from; i < len(text); i = nextRune(text, i) {
		if end, ok := hasFoldPrefix(text, i, query); ok {
			return i, end, true
		}
	}
	return 0, 0, false
}

func hasFoldPrefix(text string, at int, query string) (int, bool) {
	i := at
	for _, qr := range query {
		if i >= len(text) {
			return 0, false
		}
		tr, size := utf8.DecodeRuneInString(text[i:])
		if !equalFoldRune(tr, qr) {
			return 0, false
		}
		i += size
	}
	return i, true
}

// equalFoldRune walks the SimpleFold orbit of a looking for b.
func equalFoldRune(a, b rune) bool {
	if a == b {
		return true
	}
	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}
	return false
}

// isWholeWord reports whether [start, end) is bounded by non-word runes or the
// edges of the text.
func isWholeWord(text string, start, end int) bool {
	if start > 0 {
		if r, _ := utf8.DecodeLastRuneInString(text[:start]); isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		if r, _ := utf8.DecodeRuneInString(text[end:]); isWordRune(r) {
			return false
		}
	}
	return true
}

// isWordRune matches letters, digits and underscore.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// nextRune returns the offset just past the rune starting at i.
func nextRune(text string, i int) int {
	if i >= len(text) {
		return i + 1
	}
	_, size := utf8.DecodeRuneInString(text[i:])
	return i + size
}
