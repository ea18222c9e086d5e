package model

import "errors"

// Sentinel error kinds for this package.
var (
	ErrUnknownSource = errors.New("unknown reading source")
	ErrUnknownGender = errors.New("unknown gender")
	ErrUnknownAge    = errors.New("unknown age bucket")
)
