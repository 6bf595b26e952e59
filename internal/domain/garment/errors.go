package garment

import "errors"

// Sentinel error kinds for this package.
var (
	ErrUnknownCategory  = errors.New("unknown category")
	ErrInvalidFormality = errors.New("formality out of range")
	ErrMissingID        = errors.New("garment id is required")
	ErrNilGarment       = errors.New("garment is required")
)
