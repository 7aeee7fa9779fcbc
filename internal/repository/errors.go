package repository

import "errors"

// ErrNotFound is returned when a referenced entity does not exist.
// Callers discriminate with errors.Is.
var ErrNotFound = errors.New("not found")
