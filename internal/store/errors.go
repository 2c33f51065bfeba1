package store

import "errors"

// ErrDuplicateUsername is returned when creating a user whose username
// already exists.
var ErrDuplicateUsername = errors.New("username already exists")
