package domain

import "errors"

// ErrNotFound is returned by every store when no document matches.
var ErrNotFound = errors.New("document not found")
