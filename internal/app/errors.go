package service

import "errors"

// Sentinel error kinds returned by the service.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrSeriesTooLong = errors.New("series exceeds max days")
	ErrEmptyHistory  = errors.New("history is empty")
)
