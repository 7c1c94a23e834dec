package dispatch

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates the referenced webhook configuration does not exist
var ErrNotFound = errors.New("webhook not found")

/* ValidationError indicates missing or malformed caller input
 * Produced before any store or network side effect
 */
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
