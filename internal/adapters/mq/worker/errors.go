package worker

import "errors"

// Sentinel kinds for worker errors.
var (
	ErrStopped      = errors.New("worker stopped")
	ErrNoReceiver   = errors.New("request has no receiver")
	ErrComputePanic = errors.New("filter computation panicked")
)
