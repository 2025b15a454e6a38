package things

import (
	"fmt"
	"strings"
)

// ValidationError reports a query parameter whose value is outside its
// recognized domain: an unknown enum value, a malformed offset string, or a
// malformed calendar date. It is always detected before any SQL touches
// storage.
type ValidationError struct {
	Parameter string
	Value     string
	Allowed   []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("unrecognized %s value: %q (valid %s values: %s)",
		e.Parameter, e.Value, e.Parameter, strings.Join(e.Allowed, ", "))
}

// NotFoundError reports a uuid-scoped lookup that matched zero rows.
// uuid lookups are expected to reference an existing entity, so an empty
// result is surfaced as an error rather than an empty list.
type NotFoundError struct {
	Kind string
	UUID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no such %s uuid found: %q", e.Kind, e.UUID)
}

// SchemaError reports a database whose schema version predates what this
// library supports. It is detected once, when the database handle is opened,
// and is fatal: the operator should use an older release of this tool
// against an old-format database.
type SchemaError struct {
	Version int
	Minimum int
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("database schema version %d is too old (minimum supported is %d); "+
		"use an older release of this tool to read old-format databases", e.Version, e.Minimum)
}

// DatabaseError wraps any lower-level failure opening or querying the
// database file (missing, locked, permission denied, corrupt). The database
// is externally managed, so these are never retried.
type DatabaseError struct {
	Path string
	Err  error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("things database %s: %v", e.Path, e.Err)
}

func (e *DatabaseError) Unwrap() error { return e.Err }
