// Package schema holds the read-only schema graph a generation pass resolves.
//
// Nodes are built once by Parse and never mutated afterwards. Property and
// component order always follows the input document.
package schema

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind is the declared `type` of a schema node.
type Kind string

const (
	KindNone    Kind = ""
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindInteger Kind = "integer"
	KindBoolean Kind = "boolean"
	KindArray   Kind = "array"
	KindObject  Kind = "object"
	KindNull    Kind = "null"
)

// IsPrimitive reports whether k is one of string, number, integer or boolean.
func (k Kind) IsPrimitive() bool {
	switch k {
	case KindString, KindNumber, KindInteger, KindBoolean:
		return true
	}
	return false
}

// IsNumeric reports whether k is number or integer.
func (k Kind) IsNumeric() bool {
	return k == KindNumber || k == KindInteger
}

// Properties is an insertion-ordered property table.
type Properties = orderedmap.OrderedMap[string, *Node]

// NewProperties returns an empty property table.
func NewProperties() *Properties {
	return orderedmap.New[string, *Node]()
}

// AdditionalMode distinguishes the three forms of additionalProperties.
type AdditionalMode int

const (
	// AdditionalNone covers both an absent keyword and `additionalProperties: false`
	AdditionalNone AdditionalMode = iota
	AdditionalTrue
	AdditionalSchema
)

// Additional is the parsed additionalProperties keyword.
type Additional struct {
	Mode   AdditionalMode
	Schema *Node
}

// Present reports whether additionalProperties is `true` or a schema.
func (a Additional) Present() bool {
	return a.Mode != AdditionalNone
}

// Node is one schema in the document's type graph.
type Node struct {
	// Path is the JSON pointer of the node in its document, used in diagnostics
	Path string

	// Ref is the raw $ref value; RefName the component id it points at,
	// empty when the reference is not a local component reference
	Ref     string
	RefName string

	Type   Kind
	Format string

	Items *Node

	AllOf []*Node
	OneOf []*Node
	AnyOf []*Node

	// Properties is nil when the keyword is absent
	Properties           *Properties
	Required             []string
	AdditionalProperties Additional

	// Nullable is the vendor-extension overlay (x-nullable by default).
	// NullableKeyword is the standard `nullable: true` or a `type: [T, "null"]` pair.
	Nullable        bool
	NullableKeyword bool

	Default     *Literal
	Enum        []Literal
	Constraints Constraints
	Description string
}

// HasRef reports whether the node is a $ref.
func (n *Node) HasRef() bool {
	return n.Ref != ""
}

// HasComposition reports whether any of allOf, oneOf or anyOf is present.
func (n *Node) HasComposition() bool {
	return len(n.AllOf) > 0 || len(n.OneOf) > 0 || len(n.AnyOf) > 0
}

// HasProperties reports whether properties is present and non-empty.
func (n *Node) HasProperties() bool {
	return n.Properties != nil && n.Properties.Len() > 0
}

// IsRequired reports whether name is listed under required.
func (n *Node) IsRequired(name string) bool {
	for _, r := range n.Required {
		if r == name {
			return true
		}
	}
	return false
}

// RequiredSet returns required as a set.
func (n *Node) RequiredSet() map[string]bool {
	set := make(map[string]bool, len(n.Required))
	for _, r := range n.Required {
		set[r] = true
	}
	return set
}

// EachProperty calls fn for every property in declaration order.
func (n *Node) EachProperty(fn func(name string, prop *Node)) {
	if n.Properties == nil {
		return
	}
	for pair := n.Properties.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}
