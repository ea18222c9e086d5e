package sample

import "errors"

var (
	// ErrInvalidDays is returned when fewer than one history day is requested.
	ErrInvalidDays = errors.New("days must be positive")
	// ErrUnknownProfile is returned for a profile outside Profiles.
	ErrUnknownProfile = errors.New("unknown profile")
)
