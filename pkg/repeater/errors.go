package repeater

import "fmt"

// FormatError reports that the expected structure of a source document
// could not be found. It aborts the run.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return "format error: " + e.Reason
}

// ParseError reports a single malformed row. Callers skip the row and
// continue.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error on line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
