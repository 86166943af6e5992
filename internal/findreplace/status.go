package findreplace

import "fmt"

// StatusFound describes the size of a fresh match set.
func StatusFound(n int) string {
	switch n {
	case 0:
		return "No matches found"
	case 1:
		return "1 match found"
	default:
		return fmt.Sprintf("%d matches found", n)
	}
}

// StatusPosition renders the cursor as "current/total".
func StatusPosition(state CursorState, set MatchSet) string {
	return fmt.Sprintf("%d/%d", state.Position(), set.Len())
}

// StatusReplaced describes the outcome of a replacement.
func StatusReplaced(n int) string {
	if n == 1 {
		return "Replaced 1 match"
	}
	return fmt.Sprintf("Replaced %d matches", n)
}

// StatusInvalid renders a pattern error for display.
func StatusInvalid(err error) string {
	return "Invalid pattern: " + err.Error()
}
