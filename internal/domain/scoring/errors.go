package scoring

import "errors"

// Sentinel error kinds for this package.
var (
	ErrNoWeights   = errors.New("no weights")
	ErrWeightRange = errors.New("weight out of range")
	ErrWeightSum   = errors.New("weights do not sum to 1")
)
