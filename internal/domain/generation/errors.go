package generation

import "errors"

// Sentinel errors. Degenerate outcomes such as an empty pool are not errors.
var (
	ErrInvalidAnchor = errors.New("invalid anchor garment")
	ErrInvalidTarget = errors.New("invalid target category")
)
