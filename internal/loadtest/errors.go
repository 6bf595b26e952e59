package loadtest

import "errors"

// Error constants.
var (
	ErrUnhealthy    = errors.New("service is not healthy")
	ErrNoGarments   = errors.New("wardrobe is empty")
	ErrInconsistent = errors.New("inconsistent results")
	ErrStatus       = errors.New("unexpected status")
)
