package typegen

import (
	"github.com/teranos/schemagen/schema"
)

// ConstraintKind names one validation bound.
type ConstraintKind string

const (
	ConstraintMinLength        ConstraintKind = "minLength"
	ConstraintMaxLength        ConstraintKind = "maxLength"
	ConstraintMinimum          ConstraintKind = "minimum"
	ConstraintMaximum          ConstraintKind = "maximum"
	ConstraintExclusiveMinimum ConstraintKind = "exclusiveMinimum"
	ConstraintExclusiveMaximum ConstraintKind = "exclusiveMaximum"
)

// Constraint is a single (kind, value) pair.
type Constraint struct {
	Kind  ConstraintKind `json:"kind" yaml:"kind"`
	Value float64        `json:"value" yaml:"value"`
}

// ConstraintSet is the validation metadata attached to one field. The
// annotation emitter decides the literal syntax; kinds and values are final here.
type ConstraintSet struct {
	Field       string       `json:"field" yaml:"field"`
	Constraints []Constraint `json:"constraints" yaml:"constraints"`
}

// Get returns the value for kind.
func (s *ConstraintSet) Get(kind ConstraintKind) (float64, bool) {
	if s == nil {
		return 0, false
	}
	for _, c := range s.Constraints {
		if c.Kind == kind {
			return c.Value, true
		}
	}
	return 0, false
}

// Suppression selects how composition keywords suppress constraints.
type Suppression string

const (
	// SuppressionAll suppresses only when oneOf, allOf and anyOf are all
	// present together with oneOf or anyOf. Real schemas almost never do this.
	SuppressionAll Suppression = "all"

	// SuppressionAny suppresses when any composition keyword is present.
	SuppressionAny Suppression = "any"
)

// ConstraintSynthesizer derives constraint sets from primitive and array schemas.
type ConstraintSynthesizer struct {
	Suppression Suppression
}

// Allowed reports whether constraints may be emitted for n at all. The
// nullable overlay always suppresses them.
func (c ConstraintSynthesizer) Allowed(n *schema.Node) bool {
	if n.Nullable {
		return false
	}
	oneOf, allOf, anyOf := len(n.OneOf) > 0, len(n.AllOf) > 0, len(n.AnyOf) > 0
	if c.Suppression == SuppressionAny {
		return !(oneOf || allOf || anyOf)
	}
	return !(oneOf && allOf && anyOf && (oneOf || anyOf))
}

// Carries reports whether n has a shape constraints can attach to.
func Carries(n *schema.Node) bool {
	if n.HasRef() {
		return false
	}
	switch n.Type {
	case schema.KindString, schema.KindNumber, schema.KindInteger, schema.KindArray:
		return true
	}
	return false
}

// Synthesize returns the constraint set for field, or nil when n cannot
// carry constraints, is suppressed, or declares none.
func (c ConstraintSynthesizer) Synthesize(field string, n *schema.Node) *ConstraintSet {
	if n == nil || !Carries(n) || !c.Allowed(n) {
		return nil
	}

	set := &ConstraintSet{Field: field}
	add := func(kind ConstraintKind, v float64) {
		set.Constraints = append(set.Constraints, Constraint{Kind: kind, Value: v})
	}
	lengths := func(min, max *int64) {
		if min != nil && *min != 0 {
			add(ConstraintMinLength, float64(*min))
		}
		if max != nil && *max != 0 {
			add(ConstraintMaxLength, float64(*max))
		}
	}

	cs := n.Constraints
	switch n.Type {
	case schema.KindString:
		lengths(cs.MinLength, cs.MaxLength)
	case schema.KindArray:
		// Item counts use the length constraint names
		lengths(cs.MinItems, cs.MaxItems)
	case schema.KindNumber, schema.KindInteger:
		// The exclusive form takes the value of minimum/maximum. A numeric
		// exclusive bound without minimum/maximum is not read.
		if cs.Minimum != nil {
			if cs.ExclusiveMinimum.Set {
				add(ConstraintExclusiveMinimum, *cs.Minimum)
			} else {
				add(ConstraintMinimum, *cs.Minimum)
			}
		}
		if cs.Maximum != nil {
			if cs.ExclusiveMaximum.Set {
				add(ConstraintExclusiveMaximum, *cs.Maximum)
			} else {
				add(ConstraintMaximum, *cs.Maximum)
			}
		}
	}

	if len(set.Constraints) == 0 {
		return nil
	}
	return set
}
