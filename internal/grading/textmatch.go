package grading

import (
	"errors"
	"strings"
)

// ErrResponseType indicates a response value whose Go type does not match the
// question's type. Hosts should treat this as a programming error, not as a
// wrong answer.
var ErrResponseType = errors.New("response type mismatch")

// normalize trims surrounding whitespace and case-folds. Interior whitespace
// and punctuation are significant.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
