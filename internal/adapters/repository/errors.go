package repository

import "errors"

// Sentinel kinds for cache metadata errors.
var (
	ErrNotFound   = errors.New("cache entry not found")
	ErrInvalidKey = errors.New("invalid cache key")
)
