package typegen

import (
	"fmt"

	"github.com/teranos/schemagen/errors"
)

// DiagnosticKind names a non-fatal condition raised during a generation pass.
type DiagnosticKind string

const (
	// DiagInvalidDefault: the default literal does not fit the declared kind; the field has no default
	DiagInvalidDefault DiagnosticKind = "invalid_default_value"

	// DiagConstraintIncompatible: constraints on a shape that cannot carry them were dropped
	DiagConstraintIncompatible DiagnosticKind = "constraint_incompatible"

	// DiagNameCollision: a second schema wanted a registered name; the first entry was kept
	DiagNameCollision DiagnosticKind = "name_collision"

	// DiagUnsupportedMember: an allOf member without a record shape was skipped
	DiagUnsupportedMember DiagnosticKind = "unsupported_member"
)

// Diagnostic is a non-fatal condition. Schema is the context name the
// offending node was resolved under, Path its location in the document.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind" yaml:"kind"`
	Schema  string         `json:"schema" yaml:"schema"`
	Path    string         `json:"path" yaml:"path"`
	Message string         `json:"message" yaml:"message"`

	Err error `json:"-" yaml:"-"`
}

var (
	ErrNameCollision     = errors.New("type name collision")
	ErrUnsupportedMember = errors.New("unsupported allOf member")
)

var diagnosticSentinels = map[DiagnosticKind]error{
	DiagInvalidDefault:         errors.ErrInvalidDefaultValue,
	DiagConstraintIncompatible: errors.ErrConstraintIncompatible,
	DiagNameCollision:          ErrNameCollision,
	DiagUnsupportedMember:      ErrUnsupportedMember,
}

func newDiagnostic(kind DiagnosticKind, schemaName, path, format string, args ...interface{}) Diagnostic {
	err := errors.Wrapf(diagnosticSentinels[kind], format, args...)
	if path != "" {
		err = errors.WithDetailf(err, "schema path: %s", path)
	}
	return Diagnostic{
		Kind:    kind,
		Schema:  schemaName,
		Path:    path,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

func (d Diagnostic) key() string {
	return string(d.Kind) + "\x00" + d.Schema + "\x00" + d.Path
}
