// Package typegen lowers schema nodes into type descriptors.
//
// A Resolver is the context of one generation pass. It classifies each node,
// expands it with the matching generator, registers named declarations and
// collects non-fatal diagnostics. A pass is sequential: a Resolver must not
// be shared between goroutines.
package typegen

import (
	"go.uber.org/zap"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/logger"
	"github.com/teranos/schemagen/schema"
	"github.com/teranos/schemagen/typegen/util"
)

// Options configures a generation pass.
type Options struct {
	// Precedence selects the classifier rule order
	Precedence Precedence

	// HonorCallerNullable lets the standard nullable keyword wrap field types
	HonorCallerNullable bool

	// ConstraintSuppression selects how composition keywords suppress constraints
	ConstraintSuppression Suppression

	// Suffixes for synthetic names
	UnionMemberSuffix    string
	ArrayItemSuffix      string
	MapValueSuffix       string
	MessagePayloadSuffix string

	Logger *zap.SugaredLogger
}

// DefaultOptions returns the legacy-compatible defaults.
func DefaultOptions() Options {
	return Options{
		Precedence:            PrecedenceLegacy,
		ConstraintSuppression: SuppressionAll,
		UnionMemberSuffix:     "Option",
		ArrayItemSuffix:       "Item",
		MapValueSuffix:        "Value",
		MessagePayloadSuffix:  "Payload",
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Precedence == "" {
		o.Precedence = d.Precedence
	}
	if o.ConstraintSuppression == "" {
		o.ConstraintSuppression = d.ConstraintSuppression
	}
	if o.UnionMemberSuffix == "" {
		o.UnionMemberSuffix = d.UnionMemberSuffix
	}
	if o.ArrayItemSuffix == "" {
		o.ArrayItemSuffix = d.ArrayItemSuffix
	}
	if o.MapValueSuffix == "" {
		o.MapValueSuffix = d.MapValueSuffix
	}
	if o.MessagePayloadSuffix == "" {
		o.MessagePayloadSuffix = d.MessagePayloadSuffix
	}
	if o.Logger == nil {
		o.Logger = logger.ComponentLogger("typegen")
	}
	return o
}

type memoKey struct {
	node *schema.Node
	ctx  string
}

// Resolver is the generation context of one pass.
type Resolver struct {
	opts       Options
	components *schema.Table
	registry   *Registry
	fields     FieldSynthesizer

	memo        map[memoKey]*Descriptor
	diagnostics []Diagnostic
	seen        map[string]bool

	log *zap.SugaredLogger
}

// NewResolver creates a resolver over the component table. A nil table is
// treated as empty.
func NewResolver(components *schema.Table, opts Options) *Resolver {
	opts = opts.withDefaults()
	if components == nil {
		components = schema.NewTable()
	}
	return &Resolver{
		opts:       opts,
		components: components,
		registry:   NewRegistry(),
		fields: FieldSynthesizer{
			HonorCallerNullable: opts.HonorCallerNullable,
			Constraints:         ConstraintSynthesizer{Suppression: opts.ConstraintSuppression},
		},
		memo: make(map[memoKey]*Descriptor),
		seen: make(map[string]bool),
		log:  opts.Logger,
	}
}

// Resolve returns the descriptor for n under contextName. Resolving the same
// node under the same name again returns the identical descriptor.
// A node carrying the vendor nullable overlay resolves to a Nullable wrapper
// wherever it appears: property, array item, map value or payload.
// Errors are fatal for the whole pass.
func (r *Resolver) Resolve(n *schema.Node, contextName string) (*Descriptor, error) {
	if n == nil {
		return nil, errors.NewUnsupportedShapeError(contextName, "no schema to resolve for %s", contextName)
	}

	key := memoKey{node: n, ctx: contextName}
	if d, ok := r.memo[key]; ok {
		return d, nil
	}

	variant := Classify(n, r.opts.Precedence)
	r.log.Debugw("Resolving schema",
		logger.FieldSchema, contextName,
		logger.FieldPath, n.Path,
		logger.FieldVariant, variant)

	d, err := generatorFor(variant).expand(r, n, contextName)
	if err != nil {
		return nil, err
	}
	if n.Nullable {
		d = Nullable(d)
	}
	r.memo[key] = d
	return d, nil
}

// ResolveComponent resolves the named component. The result is always a
// NamedTypeRef backed by a registry entry.
func (r *Resolver) ResolveComponent(name string) (*Descriptor, error) {
	target, ok := r.components.Get(name)
	if !ok {
		return nil, errors.NewMissingReferenceError(name, "component %q not found", name)
	}
	d, err := r.component(name, target)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s", name)
	}
	return d, nil
}

// ResolvePayload answers the dispatch collaborator: the type of a message
// payload, resolved under the message name plus the payload suffix.
func (r *Resolver) ResolvePayload(message string, payload *schema.Node) (*Descriptor, error) {
	name := util.JoinName(util.ToPascalCase(message), r.opts.MessagePayloadSuffix)
	d, err := r.Resolve(payload, name)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving payload of message %s", message)
	}
	return d, nil
}

// Registry returns the registry of this pass.
func (r *Resolver) Registry() *Registry {
	return r.registry
}

// Diagnostics returns the non-fatal diagnostics raised so far, in order.
func (r *Resolver) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(r.diagnostics))
	copy(out, r.diagnostics)
	return out
}

// component returns the NamedTypeRef for a component, expanding its body
// on first visit. A component already registered or being expanded is not
// re-entered; this is what terminates reference cycles.
func (r *Resolver) component(name string, target *schema.Node) (*Descriptor, error) {
	if entry, ok := r.registry.Lookup(name); ok {
		if entry.node != target {
			r.collision(name, target)
		}
		return r.registry.Ref(name), nil
	}
	if r.registry.InProgress(name) {
		return r.registry.Ref(name), nil
	}

	r.registry.Begin(name)
	d, err := r.Resolve(target, name)
	if err != nil {
		return nil, err
	}

	// A component reference is always the bare named type; nullability of
	// the component body stays in its registered declaration.
	inner := d
	if d.Kind == KindNullable && d.Elem.IsNamed() {
		inner = d.Elem
	}

	if inner.IsNamed() && inner.Name == name {
		if !r.registry.Has(name) {
			// Only reachable through itself, e.g. A: {$ref: A}
			r.report(newDiagnostic(DiagUnsupportedMember, name, target.Path,
				"component %s only refers to itself", name))
			r.registry.Register(name, Body{Kind: BodyAlias, Target: Any(), Description: target.Description}, target)
		}
		return inner, nil
	}

	if target.HasRef() && inner.IsNamed() && r.aliasInProgress(inner.Name) {
		// A: {$ref: B}, B: {$ref: A}: B is reached again while A is open
		r.report(newDiagnostic(DiagUnsupportedMember, name, target.Path,
			"component %s is an alias cycle through %s", name, inner.Name))
		return r.register(name, Body{Kind: BodyAlias, Target: Any(), Description: target.Description}, target), nil
	}

	return r.register(name, Body{Kind: BodyAlias, Target: d, Description: target.Description}, target), nil
}

// aliasInProgress reports whether name is still being expanded and its
// schema is itself only a reference.
func (r *Resolver) aliasInProgress(name string) bool {
	if !r.registry.InProgress(name) || r.registry.Has(name) {
		return false
	}
	node, ok := r.components.Get(name)
	return ok && node.HasRef()
}

// register stores body under name and reports a collision when the name
// was already taken by a different schema.
func (r *Resolver) register(name string, body Body, origin *schema.Node) *Descriptor {
	ref, entry, created := r.registry.Register(name, body, origin)
	if created {
		r.log.Debugw("Registered type",
			logger.FieldSchema, name,
			logger.FieldKind, body.Kind,
			logger.FieldPath, entry.Origin)
	} else if entry.node != origin {
		r.collision(name, origin)
	}
	return ref
}

func (r *Resolver) collision(name string, origin *schema.Node) {
	entry, _ := r.registry.Lookup(name)
	r.report(newDiagnostic(DiagNameCollision, name, origin.Path,
		"type name %s is already declared by %s", name, entry.Origin))
}

// report records d once per (kind, schema, path) and logs it.
func (r *Resolver) report(d Diagnostic) {
	if r.seen[d.key()] {
		return
	}
	r.seen[d.key()] = true
	r.diagnostics = append(r.diagnostics, d)
	r.log.Warnw(d.Message,
		logger.FieldKind, d.Kind,
		logger.FieldSchema, d.Schema,
		logger.FieldPath, d.Path)
}
