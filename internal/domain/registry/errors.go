package registry

import "errors"

// Sentinel errors for the registry package.
var (
	ErrInvalidTable = errors.New("invalid static table")
	ErrInvalidGlob  = errors.New("invalid glob pattern")
)
