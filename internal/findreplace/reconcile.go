package findreplace

import "fmt"

// ReplaceAt splices replacement over the match at index and returns the new
// text together with a match set that is valid for it: the replaced match is
// removed and every later match is shifted by the change in length, so each
// surviving match still covers the same content it covered before.
func ReplaceAt(text string, set MatchSet, index int, replacement string) (string, MatchSet, error) {
	if err := set.checkSnapshot(text); err != nil {
		return text, set, err
	}
	if index < 0 || index >= set.Len() {
		return text, set, fmt.Errorf("%w: replace %d of %d", ErrIndexOutOfRange, index, set.Len())
	}

	target := set.Matches[index]
	delta := len(replacement) - target.Len()

	newText := text[:target.Start] + replacement + text[target.End:]

	remaining := make([]Match, 0, set.Len()-1)
	for i, m := range set.Matches {
		switch {
		case i == index:
			continue
		case m.Start >= target.End:
			remaining = append(remaining, m.shift(delta))
		default:
			remaining = append(remaining, m)
		}
	}

	return newText, MatchSet{Matches: remaining, TextLen: set.TextLen + delta}, nil
}

// CursorAfterReplace returns where the cursor belongs once the match at index
// has been replaced and removed. The same index now names the following match;
// past the end it wraps to the first, and an empty set has no cursor.
func CursorAfterReplace(index int, set MatchSet) CursorState {
	switch {
	case set.IsEmpty():
		return NoCursor
	case index < 0 || index >= set.Len():
		return 0
	default:
		return CursorState(index)
	}
}
