package repository

import "errors"

// Sentinel kinds for sample store errors.
var (
	ErrNoSamples    = errors.New("no samples recorded")
	ErrInvalidLimit = errors.New("invalid history limit")
)
