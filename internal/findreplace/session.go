package findreplace

// Session is the state of one active search over one text buffer: the text,
// the spec, its match set and the cursor. A Session is not safe for concurrent
// use.
type Session struct {
	text     string
	spec     PatternSpec
	matches  MatchSet
	cursor   CursorState
	replaced []Match
}

// NewSession starts a session over text with no search.
func NewSession(text string) *Session {
	return &Session{
		text:    text,
		matches: MatchSet{TextLen: len(text)},
		cursor:  NoCursor,
	}
}

// Text returns the current text buffer.
func (s *Session) Text() string { return s.text }

// Spec returns the spec of the last successful search.
func (s *Session) Spec() PatternSpec { return s.spec }

// Matches returns the current match set.
func (s *Session) Matches() MatchSet { return s.matches }

// Cursor returns the current cursor state.
func (s *Session) Cursor() CursorState { return s.cursor }

// LastReplaced returns the ranges written by the most recent ReplaceAll, in
// the current text. It is cleared by every other mutation.
func (s *Session) LastReplaced() []Match { return s.replaced }

// Search replaces the match set with the result of spec over the current text
// and puts the cursor on the first match. If spec is invalid the session is
// left untouched and the error returned.
func (s *Session) Search(spec PatternSpec) error {
	set, err := ComputeMatches(s.text, spec)
	if err != nil {
		return err
	}

	s.spec = spec
	s.reset(set)
	return nil
}

// SetText swaps in a text that changed outside the session. The match set is
// rebuilt from scratch with the current spec. On error the session is left
// untouched.
func (s *Session) SetText(text string) error {
	set, err := ComputeMatches(text, s.spec)
	if err != nil {
		return err
	}

	s.text = text
	s.reset(set)
	return nil
}

// Clear drops the search but keeps the text.
func (s *Session) Clear() {
	s.spec = PatternSpec{}
	s.reset(MatchSet{TextLen: len(s.text)})
}

func (s *Session) reset(set MatchSet) {
	s.matches = set
	s.replaced = nil
	s.cursor = NoCursor
	if !set.IsEmpty() {
		s.cursor = 0
	}
}

// Current returns the match under the cursor.
func (s *Session) Current() (Match, bool, error) {
	return Current(s.cursor, s.matches)
}

// Next advances the cursor.
func (s *Session) Next() error {
	state, err := Next(s.cursor, s.matches)
	if err != nil {
		return err
	}
	s.cursor = state
	return nil
}

// Previous moves the cursor back.
func (s *Session) Previous() error {
	state, err := Previous(s.cursor, s.matches)
	if err != nil {
		return err
	}
	s.cursor = state
	return nil
}

// Replace replaces the match under the cursor and leaves the cursor on the
// following match. It reports false when there is nothing under the cursor.
func (s *Session) Replace(replacement string) (bool, error) {
	if s.cursor.IsNone() {
		return false, nil
	}

	index := int(s.cursor)
	text, set, err := ReplaceAt(s.text, s.matches, index, replacement)
	if err != nil {
		return false, err
	}

	s.text = text
	s.matches = set
	s.replaced = nil
	s.cursor = CursorAfterReplace(index, set)
	return true, nil
}

// ReplaceAll replaces every match and then searches the new text again with
// the same spec. It returns the number of replacements made.
func (s *Session) ReplaceAll(replacement string) (int, error) {
	set := s.matches
	text, n, err := ReplaceAll(s.text, set, replacement)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}

	if err := s.SetText(text); err != nil {
		return 0, err
	}
	s.replaced = ReplacedRanges(set, replacement)
	return n, nil
}

// Status describes the session for display.
func (s *Session) Status() string {
	switch {
	case s.spec.IsEmpty():
		return ""
	case s.matches.IsEmpty():
		return StatusFound(0)
	default:
		return StatusPosition(s.cursor, s.matches)
	}
}
