package repl

import "errors"

// Sentinel errors.
var (
	ErrOutOfBounds = errors.New("index out of range")
	ErrPrelude     = errors.New("evaluate prelude")
)
