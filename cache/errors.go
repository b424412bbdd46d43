package cache

import "errors"

// Configuration errors.
var (
	// ErrInvalidMaxSize indicates a negative Settings.MaxSize.
	ErrInvalidMaxSize = errors.New("cache: max size must not be negative")

	// ErrInvalidTTL indicates a negative Settings.TTL.
	ErrInvalidTTL = errors.New("cache: ttl must not be negative")
)

// Runtime errors.
var (
	// ErrEmptyName is returned by calls to an operation bound without a name.
	ErrEmptyName = errors.New("cache: operation name is required")
)
