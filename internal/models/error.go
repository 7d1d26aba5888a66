package models

import "errors"

// ErrOrderNotFound is returned when an order id does not resolve in the store.
var ErrOrderNotFound = errors.New("order not found")

// ValidationError rejects a malformed submission before any state is touched.
// Messages are user-facing and rendered verbatim by the waiter UI.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
