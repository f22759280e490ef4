package domain

import "errors"

// ErrCallNotFound is returned when a call SID cannot be found in the store.
var ErrCallNotFound = errors.New("call not found")
