// Package errors provides error handling for schemagen.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints and details for users
//   - Marks for classifying errors without string matching
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Classify a resolution failure
//	return errors.NewMissingReferenceError("#/components/schemas/Pet", "Pet not found")
//
//	// Check errors
//	if errors.Is(err, errors.ErrUnsupportedSchemaShape) {
//	    // the generation run cannot continue
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// AssertionFailedf reports a broken internal invariant.
var AssertionFailedf = crdb.AssertionFailedf

// Error taxonomy of a generation pass.
// Use these with errors.Is() for type-safe error checking.
var (
	// ErrUnsupportedSchemaShape is fatal: the schema cannot be lowered to any type
	ErrUnsupportedSchemaShape = New("unsupported schema shape")

	// ErrMissingReference is fatal: a $ref names a component that does not exist.
	// Errors carrying it are also marked as ErrUnsupportedSchemaShape.
	ErrMissingReference = New("missing reference")

	// ErrInvalidDefaultValue is non-fatal: the field is emitted without a default
	ErrInvalidDefaultValue = New("invalid default value")

	// ErrConstraintIncompatible is non-fatal: the constraint is dropped
	ErrConstraintIncompatible = New("constraint incompatible with schema shape")

	// ErrInvalidDocument indicates the input document could not be parsed into schema nodes
	ErrInvalidDocument = New("invalid document")

	// ErrInvalidConfig indicates a configuration value is out of range
	ErrInvalidConfig = New("invalid configuration")
)

// IsFatal reports whether err must abort the whole generation run.
func IsFatal(err error) bool {
	return err != nil && IsAny(err, ErrUnsupportedSchemaShape, ErrMissingReference, ErrInvalidDocument)
}

// NewUnsupportedShapeError creates a fatal shape error for the schema at path
func NewUnsupportedShapeError(path string, format string, args ...interface{}) error {
	err := Wrapf(ErrUnsupportedSchemaShape, format, args...)
	return WithDetailf(err, "schema path: %s", path)
}

// NewMissingReferenceError creates a fatal missing-reference error for ref.
// The result satisfies both Is(err, ErrMissingReference) and Is(err, ErrUnsupportedSchemaShape).
func NewMissingReferenceError(ref string, format string, args ...interface{}) error {
	err := Wrapf(ErrMissingReference, format, args...)
	err = Mark(err, ErrUnsupportedSchemaShape)
	err = WithDetailf(err, "reference: %s", ref)
	return WithHint(err, "define the target under components.schemas, definitions or $defs; remote references are not fetched")
}

// NewInvalidDocumentError creates a document parse error for the node at path
func NewInvalidDocumentError(path string, format string, args ...interface{}) error {
	err := Wrapf(ErrInvalidDocument, format, args...)
	return WithDetailf(err, "document path: %s", path)
}
