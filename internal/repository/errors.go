// Package repository defines typed access to the document collections and
// the sentinel errors shared across repositories. Handlers translate these
// into HTTP responses: ErrNotFound becomes a 404 and ErrUserExists a
// friendly "user already exists" message.
package repository

import "errors"

// ErrNotFound is returned when the requested document does not exist.
var ErrNotFound = errors.New("not found")

// ErrUserExists is returned when creating a user whose email is taken.
var ErrUserExists = errors.New("user already exists")
