// Package models defines the persistent entities and the error types
// shared by the storage layers. The sentinel values allow callers such
// as the CLI to distinguish between failure scenarios without parsing
// error strings: ErrConstraintViolation signals a uniqueness or
// foreign-key failure at the relational store, while ErrCorruptData
// signals an unparsable recipe document on disk.
package models

import "errors"

// ErrValidation is returned when an input value is malformed before it
// reaches a store, such as a review rating outside the 1-5 range.
var ErrValidation = errors.New("validation failed")

// ErrConstraintViolation is returned when the relational store rejects
// a write: duplicate username/email, unknown foreign key, or a
// non-positive ingredient quantity.
var ErrConstraintViolation = errors.New("constraint violation")

// ErrNotFound is returned when a requested user, recipe or document
// file does not exist.
var ErrNotFound = errors.New("not found")

// ErrCorruptData is returned when a recipe document exists but cannot
// be parsed as JSON.
var ErrCorruptData = errors.New("corrupt data")

// ErrIO is returned when a filesystem operation on the document store
// fails.
var ErrIO = errors.New("io failure")

// ErrMigration is returned when a schema migration step fails
// mid-application. The migration engine stops the chain and leaves the
// recorded revision at the last completed step.
var ErrMigration = errors.New("migration failed")
