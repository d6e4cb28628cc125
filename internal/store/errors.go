package store

import "errors"

// Sentinel errors for write operations. Reads follow the (nil, nil)
// convention for missing rows; writes report what went wrong so the API
// layer can map it to a status code instead of silently doing nothing.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
)
