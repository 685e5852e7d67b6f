package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across schemagen.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Components
	FieldComponent = "component"
	FieldOperation = "operation"

	// Schema locations
	FieldSchema  = "schema"  // context name the schema resolves under
	FieldPath    = "path"    // JSON pointer of the schema node in the document
	FieldRef     = "ref"     // raw $ref value
	FieldVariant = "variant" // classifier variant
	FieldKind    = "kind"    // diagnostic kind

	// Errors
	FieldError = "error"

	// Counts
	FieldCount       = "count"
	FieldTypes       = "types"
	FieldDiagnostics = "diagnostics"

	// Files
	FieldFile    = "file"
	FieldVersion = "version"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	opts := typegen.Options{
//	    Logger: logger.ComponentLogger("typegen"),
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
//
// Example:
//
//	schemaLogger := logger.ChildLogger(base, logger.FieldSchema, "Pet")
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
