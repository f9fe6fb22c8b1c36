package query

import "errors"

// ErrInvalidInput is returned when the question is empty or whitespace
// only. It is the only error Process surfaces to the caller; every
// other failure degrades into a valid answer.
var ErrInvalidInput = errors.New("invalid input: question is empty")
