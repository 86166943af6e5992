package findreplace

import "errors"

var (
	// ErrInvalidPattern is matched by every *InvalidPatternError.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrIndexOutOfRange reports a cursor or match index that does not address
	// the match set it was used with. It always indicates a stale index held by
	// the caller.
	ErrIndexOutOfRange = errors.New("match index out of range")

	// ErrStaleMatchSet reports a match set used against a text it was not
	// computed (or reconciled) for.
	ErrStaleMatchSet = errors.New("match set is stale for this text")
)

// InvalidPatternError is returned when a regular expression query fails to compile.
// Its message is the engine's syntax error and is suitable for display.
type InvalidPatternError struct {
	Query string
	Err   error
}

func (e *InvalidPatternError) Error() string {
	return e.Err.Error()
}

func (e *InvalidPatternError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrInvalidPattern) match.
func (e *InvalidPatternError) Is(target error) bool {
	return target == ErrInvalidPattern
}
