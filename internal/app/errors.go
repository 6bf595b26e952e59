package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted        = errors.New("service not started")
	ErrGarmentNotFound   = errors.New("garment not found")
	ErrDuplicateCategory = errors.New("more than one garment for a category")
	ErrEmptySelection    = errors.New("selection is empty")
	ErrInvalidOutfit     = errors.New("outfit is not valid")
	ErrReadOnly          = errors.New("wardrobe is read-only")
)
