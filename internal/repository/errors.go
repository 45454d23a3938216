// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not the
// author of a post they attempt to mutate, while ErrSlugExists signals
// a uniqueness violation on the slug column.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts to mutate a post
// recorded under another author. Handlers should translate this into
// an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrEmailExists is returned when an insert or update would violate the
// unique email constraint. Handlers translate this into 409 at
// registration and 400 on profile update.
var ErrEmailExists = errors.New("email already exists")

// ErrSlugExists is returned when a post insert collides with an existing
// slug. With the timestamp disambiguator this is practically
// unreachable; handlers translate it into 409 rather than overwriting.
var ErrSlugExists = errors.New("slug already exists")
