package typegen

import (
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/schema"
)

// Expr is a default value rendered as literal text. Kind is the literal
// kind of the rendering, so an emitter never has to sniff Text.
type Expr struct {
	Kind schema.LiteralKind `json:"kind" yaml:"kind"`
	Text string             `json:"text" yaml:"text"`
}

// Field is one record field declaration.
type Field struct {
	Name        string         `json:"name" yaml:"name"`
	Type        *Descriptor    `json:"type" yaml:"type"`
	Optional    bool           `json:"optional" yaml:"optional"`
	Default     *Expr          `json:"default,omitempty" yaml:"default,omitempty"`
	Constraint  *ConstraintSet `json:"constraint,omitempty" yaml:"constraint,omitempty"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
}

// FieldSynthesizer builds field declarations for record properties.
type FieldSynthesizer struct {
	// HonorCallerNullable lets the caller-supplied nullability flag wrap
	// the type. Off by default: only the vendor overlay is consulted.
	HonorCallerNullable bool

	Constraints ConstraintSynthesizer
}

// Synthesize builds the field for property name of a container whose
// required set is required. resolved is the already resolved property type.
// Returned diagnostics carry the property path; the caller sets Schema.
func (f FieldSynthesizer) Synthesize(required map[string]bool, name string, prop *schema.Node, resolved *Descriptor, callerNullable bool) (Field, []Diagnostic) {
	field := Field{
		Name:        name,
		Type:        resolved,
		Optional:    !required[name],
		Description: prop.Description,
	}

	if prop.Nullable || (f.HonorCallerNullable && callerNullable) {
		field.Type = Nullable(resolved)
	}

	var diags []Diagnostic
	if prop.Default != nil {
		expr, err := DefaultExpr(prop.Type, *prop.Default)
		if err != nil {
			diags = append(diags, newDiagnostic(DiagInvalidDefault, name, prop.Path,
				"default for %q: %s", name, err.Error()))
		} else {
			field.Default = &expr
		}
	}

	if prop.Constraints.Any() && !Carries(prop) {
		diags = append(diags, newDiagnostic(DiagConstraintIncompatible, name, prop.Path,
			"constraints on %q dropped: %s cannot carry them", name, shapeName(prop)))
	}
	field.Constraint = f.Constraints.Synthesize(name, prop)

	return field, diags
}

func shapeName(n *schema.Node) string {
	switch {
	case n.HasRef():
		return "a reference"
	case n.HasComposition():
		return "a composition"
	case n.Type != schema.KindNone:
		return "type " + string(n.Type)
	}
	return "an untyped schema"
}

// DefaultExpr renders lit for a schema of the declared kind. The declared
// kind drives the rendering; an untyped schema uses the literal's own kind.
func DefaultExpr(declared schema.Kind, lit schema.Literal) (Expr, error) {
	if lit.Kind == schema.LiteralNull {
		return Expr{Kind: schema.LiteralNull, Text: "null"}, nil
	}

	switch declared {
	case schema.KindString:
		s, ok := lit.Scalar()
		if !ok {
			return Expr{}, errors.New(string(lit.Kind) + " literal for a string field")
		}
		return Expr{Kind: schema.LiteralString, Text: Quote(s)}, nil

	case schema.KindInteger:
		switch v := lit.Value.(type) {
		case int64:
			return Expr{Kind: schema.LiteralInteger, Text: strconv.FormatInt(v, 10)}, nil
		case float64:
			// int64 covers [-2^63, 2^63); larger magnitudes would wrap
			if v == math.Trunc(v) && v >= -(1<<63) && v < 1<<63 {
				return Expr{Kind: schema.LiteralInteger, Text: strconv.FormatInt(int64(v), 10)}, nil
			}
		case string:
			if i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
				return Expr{Kind: schema.LiteralInteger, Text: strconv.FormatInt(i, 10)}, nil
			}
		}
		return Expr{}, errors.New(literalText(lit) + " is not an integer")

	case schema.KindNumber:
		switch v := lit.Value.(type) {
		case int64:
			return Expr{Kind: schema.LiteralNumber, Text: strconv.FormatInt(v, 10)}, nil
		case float64:
			return Expr{Kind: schema.LiteralNumber, Text: strconv.FormatFloat(v, 'g', -1, 64)}, nil
		case string:
			if n, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return Expr{Kind: schema.LiteralNumber, Text: strconv.FormatFloat(n, 'g', -1, 64)}, nil
			}
		}
		return Expr{}, errors.New(literalText(lit) + " is not a number")

	case schema.KindBoolean:
		switch v := lit.Value.(type) {
		case bool:
			return Expr{Kind: schema.LiteralBoolean, Text: strconv.FormatBool(v)}, nil
		case string:
			if b, err := strconv.ParseBool(v); err == nil {
				return Expr{Kind: schema.LiteralBoolean, Text: strconv.FormatBool(b)}, nil
			}
		}
		return Expr{}, errors.New(literalText(lit) + " is not a boolean")

	case schema.KindArray:
		if lit.Kind != schema.LiteralArray {
			return Expr{}, errors.New(string(lit.Kind) + " literal for an array field")
		}
		return compositeExpr(lit)
	}

	// Untyped, object and reference schemas keep the literal's own kind
	switch lit.Kind {
	case schema.LiteralString:
		s, _ := lit.Scalar()
		return Expr{Kind: schema.LiteralString, Text: Quote(s)}, nil
	case schema.LiteralArray, schema.LiteralObject:
		return compositeExpr(lit)
	}
	s, _ := lit.Scalar()
	return Expr{Kind: lit.Kind, Text: s}, nil
}

func compositeExpr(lit schema.Literal) (Expr, error) {
	data, err := json.Marshal(lit.Interface())
	if err != nil {
		return Expr{}, errors.Wrapf(err, "cannot render %s literal", lit.Kind)
	}
	return Expr{Kind: lit.Kind, Text: string(data)}, nil
}

func literalText(lit schema.Literal) string {
	if s, ok := lit.Scalar(); ok {
		if lit.Kind == schema.LiteralString {
			return strconv.Quote(s)
		}
		return s
	}
	return string(lit.Kind) + " literal"
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`)

// Quote wraps s in double quotes with embedded quotes and control characters escaped.
func Quote(s string) string {
	return `"` + quoteEscaper.Replace(s) + `"`
}
