package goals

import "errors"

// ErrValidation marks rejected user input (empty names, non-positive or
// non-numeric amounts, unknown priorities).
var ErrValidation = errors.New("validation error")

// ErrNotFound marks a goal lookup that matched nothing.
var ErrNotFound = errors.New("goal not found")
