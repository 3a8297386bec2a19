package auth

import "errors"

// State validation errors
var (
	ErrMissingState   = errors.New("state is missing")
	ErrMalformedState = errors.New("state is malformed")
)
