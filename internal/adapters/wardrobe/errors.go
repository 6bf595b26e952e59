package wardrobe

import "errors"

// Sentinel kinds for wardrobe errors.
var (
	ErrNotFound      = errors.New("garment not found")
	ErrNoSource      = errors.New("no wardrobe files found")
	ErrReadOnly      = errors.New("wardrobe source is read-only")
	ErrInvalidSource = errors.New("invalid wardrobe source")
)
