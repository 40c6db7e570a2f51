package domain

import "errors"

// Aggregate packages wrap these with fmt.Errorf("%w: ...").
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
)
