package repository

import "errors"

// Sentinel kinds for catalogue errors.
var (
	ErrNotFound      = errors.New("outfit not found")
	ErrInvalidLimit  = errors.New("invalid catalogue limit")
	ErrInvalidOutfit = errors.New("outfit has no garments")
)
