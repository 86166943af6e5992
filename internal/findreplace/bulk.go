package findreplace

import "strings"

// ReplaceAll substitutes replacement for every match in one pass over the
// original text and returns the new text and the number of replacements.
// All positions in set refer to text as given; the output is built front to
// back, so each match lands offset by the growth of the replacements before it.
// An empty set returns text unchanged with a count of 0.
func ReplaceAll(text string, set MatchSet, replacement string) (string, int, error) {
	if set.IsEmpty() {
		return text, 0, nil
	}
	if err := set.checkSnapshot(text); err != nil {
		return text, 0, err
	}

	var b strings.Builder
	b.Grow(len(text) + set.Len()*len(replacement))

	last := 0
	for _, m := range set.Matches {
		b.WriteString(text[last:m.Start])
		b.WriteString(replacement)
		last = m.End
	}
	b.WriteString(text[last:])

	return b.String(), set.Len(), nil
}

// ReplacedRanges returns where each replacement sits in the output of
// ReplaceAll for the same set and replacement. The ranges are empty when
// replacement is.
func ReplacedRanges(set MatchSet, replacement string) []Match {
	ranges := make([]Match, 0, set.Len())

	offset := 0
	for _, m := range set.Matches {
		start := m.Start + offset
		ranges = append(ranges, Match{Start: start, End: start + len(replacement)})
		offset += len(replacement) - m.Len()
	}

	return ranges
}
