package seed

import "errors"

// ErrInvalidConfig is returned for out-of-range generation settings.
var ErrInvalidConfig = errors.New("invalid seed config")
