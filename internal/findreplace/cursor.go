package findreplace

import "fmt"

// CursorState points at one match of a MatchSet, or at nothing.
type CursorState int

// NoCursor is the state of a cursor over an empty match set.
const NoCursor CursorState = -1

// IsNone reports whether the cursor points at nothing.
func (c CursorState) IsNone() bool {
	return c == NoCursor
}

// Position returns the 1-based position of the cursor, or 0 for NoCursor.
func (c CursorState) Position() int {
	if c.IsNone() {
		return 0
	}
	return int(c) + 1
}

func (c CursorState) check(set MatchSet) error {
	if c.IsNone() {
		return nil
	}
	if c < 0 || int(c) >= set.Len() {
		return fmt.Errorf("%w: cursor %d of %d", ErrIndexOutOfRange, int(c), set.Len())
	}
	return nil
}

// Next moves the cursor forward, wrapping from the last match to the first.
// A cursor over an empty set is always NoCursor.
func Next(state CursorState, set MatchSet) (CursorState, error) {
	n := set.Len()
	if n == 0 {
		return NoCursor, nil
	}
	if err := state.check(set); err != nil {
		return state, err
	}

	if state.IsNone() {
		return 0, nil
	}
	return CursorState((int(state) + 1) % n), nil
}

// Previous moves the cursor backward, wrapping from the first match (or from
// NoCursor) to the last.
func Previous(state CursorState, set MatchSet) (CursorState, error) {
	n := set.Len()
	if n == 0 {
		return NoCursor, nil
	}
	if err := state.check(set); err != nil {
		return state, err
	}

	if state.IsNone() || state == 0 {
		return CursorState(n - 1), nil
	}
	return state - 1, nil
}

// Current returns the match under the cursor. The boolean is false for NoCursor.
func Current(state CursorState, set MatchSet) (Match, bool, error) {
	if state.IsNone() {
		return Match{}, false, nil
	}
	if err := state.check(set); err != nil {
		return Match{}, false, err
	}
	return set.Matches[state], true, nil
}
