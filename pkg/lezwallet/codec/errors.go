package codec

import "errors"

var (
	// ErrInvalidFormat reports text that is not well-formed hex.
	ErrInvalidFormat = errors.New("invalid hex format")

	// ErrInvalidLength reports hex that decodes to the wrong number of bytes.
	ErrInvalidLength = errors.New("invalid length")

	// ErrMalformedJSON reports JSON that is invalid or has the wrong shape.
	ErrMalformedJSON = errors.New("malformed json")
)

// Error attaches the offending field to a decode failure.
type Error struct {
	Field string
	Err   error
}

func (e *Error) Error() string {
	if e.Field == "" {
		return "codec: " + e.Err.Error()
	}
	return "codec: " + e.Field + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

func fieldError(field string, err error) error {
	return &Error{Field: field, Err: err}
}
