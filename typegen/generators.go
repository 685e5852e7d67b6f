package typegen

import (
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/schema"
	"github.com/teranos/schemagen/typegen/util"
)

// typeGenerator expands one classified node. Nested schemas go back through
// Resolver.Resolve so classification and memoization apply at every level.
type typeGenerator interface {
	expand(r *Resolver, n *schema.Node, ctx string) (*Descriptor, error)
}

type (
	referenceGenerator struct{}
	arrayGenerator     struct{}
	primitiveGenerator struct{}
	mergeGenerator     struct{}
	unionGenerator     struct{}
	recordGenerator    struct{}
	mapGenerator       struct{}
	anyGenerator       struct{}
)

func generatorFor(v Variant) typeGenerator {
	switch v {
	case VariantReference:
		return referenceGenerator{}
	case VariantArray:
		return arrayGenerator{}
	case VariantPrimitive:
		return primitiveGenerator{}
	case VariantMerge:
		return mergeGenerator{}
	case VariantUnion:
		return unionGenerator{}
	case VariantRecord:
		return recordGenerator{}
	case VariantMap:
		return mapGenerator{}
	default:
		// Free-form and fallback both lower to any
		return anyGenerator{}
	}
}

func (referenceGenerator) expand(r *Resolver, n *schema.Node, _ string) (*Descriptor, error) {
	if n.RefName == "" {
		return nil, errors.WithDetailf(
			errors.NewMissingReferenceError(n.Ref, "%q is not a local component reference", n.Ref),
			"schema path: %s", n.Path)
	}
	target, ok := r.components.Get(n.RefName)
	if !ok {
		return nil, errors.WithDetailf(
			errors.NewMissingReferenceError(n.Ref, "component %q not found", n.RefName),
			"schema path: %s", n.Path)
	}
	return r.component(n.RefName, target)
}

func (arrayGenerator) expand(r *Resolver, n *schema.Node, ctx string) (*Descriptor, error) {
	if n.Items == nil {
		return ArrayOf(Any()), nil
	}

	itemCtx := ctx + r.opts.ArrayItemSuffix
	elem, err := r.Resolve(n.Items, itemCtx)
	if err != nil {
		return nil, err
	}

	// A nested array gets a name so the element type is addressable
	if elem.Kind == KindArray {
		elem = r.register(itemCtx, Body{Kind: BodyAlias, Target: elem, Description: n.Items.Description}, n.Items)
	}
	return ArrayOf(elem), nil
}

func (primitiveGenerator) expand(_ *Resolver, n *schema.Node, _ string) (*Descriptor, error) {
	return Primitive(n.Type, n.Format, n.Enum), nil
}

func (mapGenerator) expand(r *Resolver, n *schema.Node, ctx string) (*Descriptor, error) {
	if n.AdditionalProperties.Mode != schema.AdditionalSchema {
		return MapOf(Any()), nil
	}
	value, err := r.Resolve(n.AdditionalProperties.Schema, ctx+r.opts.MapValueSuffix)
	if err != nil {
		return nil, err
	}
	return MapOf(value), nil
}

func (anyGenerator) expand(*Resolver, *schema.Node, string) (*Descriptor, error) {
	return Any(), nil
}

func (unionGenerator) expand(r *Resolver, n *schema.Node, ctx string) (*Descriptor, error) {
	members := make([]*schema.Node, 0, len(n.OneOf)+len(n.AnyOf))
	members = append(members, n.OneOf...)
	members = append(members, n.AnyOf...)

	descs := make([]*Descriptor, 0, len(members))
	seen := make(map[*Descriptor]bool, len(members))
	for i, m := range members {
		memberCtx := ctx + r.opts.UnionMemberSuffix + strconv.Itoa(i+1)
		d, err := r.Resolve(m, memberCtx)
		if err != nil {
			return nil, err
		}
		if !d.IsNamed() {
			d = r.register(memberCtx, Body{Kind: BodyAlias, Target: d, Description: m.Description}, m)
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		descs = append(descs, d)
	}
	return UnionOf(descs...), nil
}

func (recordGenerator) expand(r *Resolver, n *schema.Node, ctx string) (*Descriptor, error) {
	if ctx == "" {
		return nil, errors.NewUnsupportedShapeError(n.Path, "record at %s has no name to register under", n.Path)
	}

	fields, err := r.fieldsOf(ctx, n.Properties, n.RequiredSet())
	if err != nil {
		return nil, err
	}
	return r.register(ctx, Body{Kind: BodyRecord, Fields: fields, Description: n.Description}, n), nil
}

// fieldsOf resolves every property in order and synthesizes its field.
// Optionality is decided by required, the set of the container being built.
func (r *Resolver) fieldsOf(ctx string, props *schema.Properties, required map[string]bool) ([]Field, error) {
	if props == nil {
		return []Field{}, nil
	}
	fields := make([]Field, 0, props.Len())
	for pair := props.Oldest(); pair != nil; pair = pair.Next() {
		name, prop := pair.Key, pair.Value
		t, err := r.Resolve(prop, util.JoinName(ctx, name))
		if err != nil {
			return nil, errors.Wrapf(err, "resolving %s.%s", ctx, name)
		}
		field, diags := r.fields.Synthesize(required, name, prop, t, prop.NullableKeyword)
		for _, d := range diags {
			d.Schema = ctx + "." + name
			r.report(d)
		}
		fields = append(fields, field)
	}
	return fields, nil
}

// merged accumulates the flattened shape of an allOf.
type merged struct {
	props    *schema.Properties
	required map[string]bool
	visited  map[*schema.Node]bool
	// $ref nodes on the path currently being followed
	chain map[*schema.Node]bool
}

func (mergeGenerator) expand(r *Resolver, n *schema.Node, ctx string) (*Descriptor, error) {
	if ctx == "" {
		return nil, errors.NewUnsupportedShapeError(n.Path, "allOf at %s has no name to register under", n.Path)
	}

	m := &merged{
		props:    orderedmap.New[string, *schema.Node](),
		required: make(map[string]bool),
		visited:  map[*schema.Node]bool{n: true},
		chain:    make(map[*schema.Node]bool),
	}
	for _, member := range n.AllOf {
		if err := r.fold(m, member, ctx); err != nil {
			return nil, err
		}
	}
	// Own keywords are folded after the members
	m.add(n)

	fields, err := r.fieldsOf(ctx, m.props, m.required)
	if err != nil {
		return nil, err
	}
	return r.register(ctx, Body{Kind: BodyRecord, Fields: fields, Description: n.Description}, n), nil
}

// fold flattens member into m. A $ref member is resolved first, so its
// component is registered, then its body is folded in. visited stops
// allOf chains that lead back to themselves; a $ref seen again on the
// path being followed is an alias cycle and is reported.
func (r *Resolver) fold(m *merged, member *schema.Node, ctx string) error {
	if member.HasRef() {
		if m.chain[member] {
			r.report(newDiagnostic(DiagUnsupportedMember, ctx, member.Path,
				"allOf member of %s leads back to %s through an alias cycle", ctx, member.RefName))
			return nil
		}
		if m.visited[member] {
			return nil
		}
		m.visited[member] = true
		m.chain[member] = true
		defer delete(m.chain, member)

		if _, err := r.Resolve(member, ctx); err != nil {
			return err
		}
		target, _ := r.components.Get(member.RefName)
		return r.fold(m, target, ctx)
	}

	if m.visited[member] {
		return nil
	}
	m.visited[member] = true

	for _, nested := range member.AllOf {
		if err := r.fold(m, nested, ctx); err != nil {
			return err
		}
	}

	if member.HasProperties() || member.Type == schema.KindObject || len(member.AllOf) > 0 || len(member.Required) > 0 {
		m.add(member)
		return nil
	}

	r.report(newDiagnostic(DiagUnsupportedMember, ctx, member.Path,
		"allOf member of %s has no properties to merge (%s)", ctx, Classify(member, r.opts.Precedence)))
	return nil
}

// add folds own properties and required names. A property declared again
// keeps its first position and takes the later schema.
func (m *merged) add(n *schema.Node) {
	n.EachProperty(func(name string, prop *schema.Node) {
		m.props.Set(name, prop)
	})
	for _, name := range n.Required {
		m.required[name] = true
	}
}
