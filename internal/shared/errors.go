package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateUser indicates a username or email is already taken.
	ErrDuplicateUser = errors.New("user already exists")
	// ErrInvalidCredentials indicates login failure. Kept deliberately
	// generic so callers cannot distinguish an unknown identifier from a
	// wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports the first invalid signup field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AsValidationError unwraps err into a *ValidationError if possible.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
