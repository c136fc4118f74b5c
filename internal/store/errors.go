package store

import "errors"

// ErrClosed is returned by every operation on a store that is not open
var ErrClosed = errors.New("store is not open")
