package domain

import "errors"

// ErrNotFound is returned when a product does not exist or is not in the
// state the operation expects (e.g. restoring a product that is not trashed).
var ErrNotFound = errors.New("not found")
