package domain

import "errors"

// ErrNotFound is returned when an operation references an id that is absent
// from its collection, or when a store key holds no value.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails a business rule before anything
// is loaded (e.g. blank feedback message, rating out of range).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrUnauthorized is returned when a mutation is attempted with no active
// session, when credentials do not match, or when the acting user does not
// own the entity being changed.
// Handlers should map this to HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInvariant is returned when a domain rule blocks the mutation: duplicate
// email, event full, duplicate join, leaving an event never joined.
// Handlers should map this to HTTP 409 Conflict.
var ErrInvariant = errors.New("invariant violation")

// ErrStoreFailure is returned when the underlying key-value store call failed
// (I/O, serialization, timeout). The operation had no effect on the
// in-memory projection.
// Handlers should map this to HTTP 503.
var ErrStoreFailure = errors.New("store failure")
