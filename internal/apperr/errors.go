// Package apperr defines the error taxonomy shared across the sync
// engine. Callers classify failures with errors.Is.
package apperr

import "errors"

// Per-note parse failures. Non-fatal: the note is skipped and recorded
// as a warning.
var (
	ErrMissingFrontmatter = errors.New("missing frontmatter")
	ErrMalformedDate      = errors.New("malformed date")
	ErrMalformedTagField  = errors.New("malformed tag field")
)

// ErrDuplicateDate marks two notes claiming the same calendar date.
// Non-fatal: resolved deterministically, recorded as a warning.
var ErrDuplicateDate = errors.New("duplicate date")

// Store failures. Unreachable and QueryRejected are fatal during cursor
// resolution; Unreachable is fatal mid-write; WriteRejected is
// per-record and never fatal.
var (
	ErrStoreUnreachable = errors.New("store unreachable")
	ErrQueryRejected    = errors.New("query rejected")
	ErrWriteRejected    = errors.New("write rejected")
)
