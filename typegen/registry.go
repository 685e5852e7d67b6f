package typegen

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/teranos/schemagen/schema"
)

// BodyKind tags a registered declaration.
type BodyKind string

const (
	// BodyRecord is a struct-like declaration with fields
	BodyRecord BodyKind = "record"
	// BodyAlias names an inline descriptor, e.g. a component that is an array
	BodyAlias BodyKind = "alias"
)

// Body is the declaration registered under a name.
type Body struct {
	Kind        BodyKind    `json:"kind" yaml:"kind"`
	Fields      []Field     `json:"fields,omitempty" yaml:"fields,omitempty"`
	Target      *Descriptor `json:"target,omitempty" yaml:"target,omitempty"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
}

// Entry is one named type declaration.
type Entry struct {
	Name string `json:"name" yaml:"name"`
	Body Body   `json:"body" yaml:"body"`

	// Order is the first-seen position, starting at 0
	Order int `json:"order" yaml:"order"`

	// Origin is the path of the schema node the body was built from
	Origin string `json:"origin,omitempty" yaml:"origin,omitempty"`

	node *schema.Node
}

// Registry holds the named declarations of one generation pass: at most one
// entry per name, in first-seen order. It has a single writer, the active
// expansion, and is not safe for concurrent use.
type Registry struct {
	entries    *orderedmap.OrderedMap[string, *Entry]
	refs       map[string]*Descriptor
	inProgress map[string]bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries:    orderedmap.New[string, *Entry](),
		refs:       make(map[string]*Descriptor),
		inProgress: make(map[string]bool),
	}
}

// Ref returns the NamedTypeRef for name. The same pointer is returned for
// every call with the same name.
func (r *Registry) Ref(name string) *Descriptor {
	if d, ok := r.refs[name]; ok {
		return d
	}
	d := &Descriptor{Kind: KindNamed, Name: name}
	r.refs[name] = d
	return d
}

// Begin marks name as being expanded. References to it resolve to its
// NamedTypeRef without re-entering the expansion.
func (r *Registry) Begin(name string) {
	if _, done := r.entries.Get(name); !done {
		r.inProgress[name] = true
	}
}

// InProgress reports whether name is currently being expanded.
func (r *Registry) InProgress(name string) bool {
	return r.inProgress[name]
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.entries.Get(name)
	return ok
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (*Entry, bool) {
	return r.entries.Get(name)
}

// Register stores body under name and returns its NamedTypeRef. A second
// registration under the same name leaves the first entry unchanged; the
// returned entry is always the stored one and created reports which case applied.
func (r *Registry) Register(name string, body Body, origin *schema.Node) (ref *Descriptor, entry *Entry, created bool) {
	delete(r.inProgress, name)
	if existing, ok := r.entries.Get(name); ok {
		return r.Ref(name), existing, false
	}
	entry = &Entry{
		Name: name,
		Body: body,
		// Len before Set is the first-seen position
		Order: r.entries.Len(),
		node:  origin,
	}
	if origin != nil {
		entry.Origin = origin.Path
	}
	r.entries.Set(name, entry)
	return r.Ref(name), entry, true
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	return r.entries.Len()
}

// Dump returns copies of all entries in first-seen order.
func (r *Registry) Dump() []Entry {
	out := make([]Entry, 0, r.entries.Len())
	for pair := r.entries.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, *pair.Value)
	}
	return out
}
