package config

import "errors"

// Sentinel errors. ErrInvalidConfig wraps every rejected value; ErrLoadConfig wraps
// failures reading the file or the CLOSET_ environment.
var (
	ErrInvalidConfig = errors.New("invalid closet config")
	ErrLoadConfig    = errors.New("loading closet config")
)
