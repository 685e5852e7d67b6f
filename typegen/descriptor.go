package typegen

import (
	"strings"

	"github.com/teranos/schemagen/schema"
)

// DescriptorKind tags the shape of a resolved type.
type DescriptorKind string

const (
	// KindNamed points at a TypeRegistry entry
	KindNamed DescriptorKind = "named"

	// Inline shapes
	KindPrimitive DescriptorKind = "primitive"
	KindArray     DescriptorKind = "array"
	KindUnion     DescriptorKind = "union"
	KindMap       DescriptorKind = "map"
	KindAny       DescriptorKind = "any"
	KindNullable  DescriptorKind = "nullable"
)

// Descriptor is a resolved type: a NamedTypeRef into the registry or an
// inline shape. Descriptors are compared by pointer; the Resolver hands out
// the same pointer for the same (schema, context name) pair.
type Descriptor struct {
	Kind DescriptorKind `json:"kind" yaml:"kind"`

	// Named
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Primitive
	Primitive schema.Kind      `json:"primitive,omitempty" yaml:"primitive,omitempty"`
	Format    string           `json:"format,omitempty" yaml:"format,omitempty"`
	Enum      []schema.Literal `json:"enum,omitempty" yaml:"enum,omitempty"`

	// Array element, map value or nullable inner type
	Elem *Descriptor `json:"elem,omitempty" yaml:"elem,omitempty"`

	// Union members in declaration order
	Members []*Descriptor `json:"members,omitempty" yaml:"members,omitempty"`
}

var anyDescriptor = &Descriptor{Kind: KindAny}

// Any returns the shared any descriptor.
func Any() *Descriptor {
	return anyDescriptor
}

// Primitive returns an inline primitive. The format hint (float, double,
// int32, int64, date-time...) is carried as given.
func Primitive(kind schema.Kind, format string, enum []schema.Literal) *Descriptor {
	return &Descriptor{Kind: KindPrimitive, Primitive: kind, Format: strings.ToLower(format), Enum: enum}
}

// ArrayOf returns an inline array of elem.
func ArrayOf(elem *Descriptor) *Descriptor {
	return &Descriptor{Kind: KindArray, Elem: elem}
}

// MapOf returns an inline string-keyed map of value.
func MapOf(value *Descriptor) *Descriptor {
	return &Descriptor{Kind: KindMap, Elem: value}
}

// UnionOf returns an inline union over members, kept in the given order.
func UnionOf(members ...*Descriptor) *Descriptor {
	return &Descriptor{Kind: KindUnion, Members: members}
}

// Nullable wraps inner; wrapping an already nullable type is a no-op.
func Nullable(inner *Descriptor) *Descriptor {
	if inner != nil && inner.Kind == KindNullable {
		return inner
	}
	return &Descriptor{Kind: KindNullable, Elem: inner}
}

// IsNamed reports whether d is a NamedTypeRef.
func (d *Descriptor) IsNamed() bool {
	return d != nil && d.Kind == KindNamed
}

// String renders d for logs and diagnostics only. It is never parsed back.
func (d *Descriptor) String() string {
	if d == nil {
		return "<nil>"
	}
	switch d.Kind {
	case KindNamed:
		return d.Name
	case KindPrimitive:
		if d.Format != "" {
			return string(d.Primitive) + "(" + d.Format + ")"
		}
		return string(d.Primitive)
	case KindArray:
		return "array<" + d.Elem.String() + ">"
	case KindMap:
		return "map<string, " + d.Elem.String() + ">"
	case KindNullable:
		return "nullable<" + d.Elem.String() + ">"
	case KindUnion:
		parts := make([]string, len(d.Members))
		for i, m := range d.Members {
			parts[i] = m.String()
		}
		return "union<" + strings.Join(parts, ", ") + ">"
	default:
		return "any"
	}
}
