package typegen

import (
	"github.com/teranos/schemagen/schema"
)

// Variant is the TypeGeneratorFamily member selected for a schema node.
type Variant string

const (
	VariantReference Variant = "reference"
	VariantArray     Variant = "array"
	VariantPrimitive Variant = "primitive"
	VariantMerge     Variant = "merge"
	VariantUnion     Variant = "union"
	VariantRecord    Variant = "record"
	VariantMap       Variant = "map"
	VariantFreeForm  Variant = "free_form"
	VariantAny       Variant = "any"
)

// Precedence selects the classifier rule order.
type Precedence string

const (
	// PrecedenceLegacy checks Record before Map-like, which leaves the
	// Map-like rule unreachable: every object with additionalProperties
	// is already a Record.
	PrecedenceLegacy Precedence = "legacy"

	// PrecedenceMapFirst checks Map-like before Record, for objects that
	// declare additionalProperties and no properties.
	PrecedenceMapFirst Precedence = "map_first"
)

type rule struct {
	variant Variant
	match   func(n *schema.Node) bool
}

func isReference(n *schema.Node) bool   { return n.HasRef() }
func isArray(n *schema.Node) bool       { return n.Type == schema.KindArray }
func isPrimitive(n *schema.Node) bool   { return n.Type.IsPrimitive() }
func isComposition(n *schema.Node) bool { return n.HasComposition() }
func isRecord(n *schema.Node) bool      { return n.Type == schema.KindObject || n.HasProperties() }
func isMapLike(n *schema.Node) bool {
	return n.Type == schema.KindObject && n.AdditionalProperties.Present()
}
func isOpenMap(n *schema.Node) bool { return isMapLike(n) && !n.HasProperties() }
func isFreeForm(n *schema.Node) bool {
	return n.Type == schema.KindNone && n.Properties == nil && n.AdditionalProperties.Present()
}

// compositionVariant splits rule 4: allOf merges, oneOf/anyOf unite.
func compositionVariant(n *schema.Node) Variant {
	if len(n.AllOf) > 0 {
		return VariantMerge
	}
	return VariantUnion
}

var legacyRules = []rule{
	{VariantReference, isReference},
	{VariantArray, isArray},
	{VariantPrimitive, isPrimitive},
	{VariantUnion, isComposition},
	{VariantRecord, isRecord},
	{VariantMap, isMapLike},
	{VariantFreeForm, isFreeForm},
}

var mapFirstRules = []rule{
	{VariantReference, isReference},
	{VariantArray, isArray},
	{VariantPrimitive, isPrimitive},
	{VariantUnion, isComposition},
	{VariantMap, isOpenMap},
	{VariantRecord, isRecord},
	{VariantFreeForm, isFreeForm},
}

func rulesFor(p Precedence) []rule {
	if p == PrecedenceMapFirst {
		return mapFirstRules
	}
	return legacyRules
}

// Classify selects exactly one variant for n. Earlier rules win; a node
// matching none is Fallback-any, so classification is total.
func Classify(n *schema.Node, p Precedence) Variant {
	if n == nil {
		return VariantAny
	}
	for _, r := range rulesFor(p) {
		if !r.match(n) {
			continue
		}
		if r.variant == VariantUnion {
			return compositionVariant(n)
		}
		return r.variant
	}
	return VariantAny
}
