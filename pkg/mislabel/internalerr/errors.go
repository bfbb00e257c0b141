package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUntrained     = errors.New("model untrained")
	ErrUnknownLabel  = errors.New("unrecognized label")
	ErrInvalidConfig = errors.New("invalid configuration")
)
