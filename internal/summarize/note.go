package summarize

import "errors"

// ErrEmptyInput is returned when there is no text to summarize.
var ErrEmptyInput = errors.New("no text to summarize")

// StructuredNote is the ordered bullet-point result of summarization.
// It is immutable once produced.
type StructuredNote struct {
	Bullets  []string
	Degraded bool
	Provider string
}
