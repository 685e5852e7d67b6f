package typegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/schema"
)

func parseDoc(t *testing.T, src string) *schema.Document {
	t.Helper()
	doc, err := schema.Parse([]byte(src), schema.ParseOptions{})
	require.NoError(t, err)
	return doc
}

func resolverFor(t *testing.T, src string, opts Options) *Resolver {
	t.Helper()
	return NewResolver(parseDoc(t, src).Components, opts)
}

func entry(t *testing.T, r *Resolver, name string) *Entry {
	t.Helper()
	e, ok := r.Registry().Lookup(name)
	require.True(t, ok, "%s is registered", name)
	return e
}

func fieldNamed(t *testing.T, e *Entry, name string) Field {
	t.Helper()
	for _, f := range e.Body.Fields {
		if f.Name == name {
			return f
		}
	}
	require.Failf(t, "missing field", "%s has no field %s", e.Name, name)
	return Field{}
}

func names(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

const petDoc = `
openapi: 3.0.3
components:
  schemas:
    Pet:
      type: object
      description: A pet
      required: [name]
      properties:
        name:
          type: string
          minLength: 3
          maxLength: 10
        age:
          type: integer
          format: int32
          minimum: 0
          exclusiveMinimum: true
        status:
          type: string
          enum: [available, sold]
          default: available
        tags:
          type: array
          items:
            type: object
            properties:
              label: {type: string}
        nickname:
          type: string
          x-nullable: true
          minLength: 2
        owner:
          $ref: '#/components/schemas/Owner'
    Owner:
      type: string
`

func TestResolve_Memoized(t *testing.T) {
	doc := parseDoc(t, petDoc)
	r := NewResolver(doc.Components, Options{})

	pet, _ := doc.Component("Pet")
	first, err := r.Resolve(pet, "Foo")
	require.NoError(t, err)
	second, err := r.Resolve(pet, "Foo")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, "Foo", first.Name)

	owner, _ := doc.Component("Owner")
	a, err := r.Resolve(owner, "Foo")
	require.NoError(t, err)
	b, err := r.Resolve(owner, "Foo")
	require.NoError(t, err)
	assert.Same(t, a, b, "inline descriptors are memoized too")

	c, err := r.Resolve(owner, "Bar")
	require.NoError(t, err)
	assert.NotSame(t, a, c, "memoization is per context name")

	x, err := r.ResolveComponent("Pet")
	require.NoError(t, err)
	y, err := r.ResolveComponent("Pet")
	require.NoError(t, err)
	assert.Same(t, x, y)
}

func TestResolve_Record(t *testing.T) {
	r := resolverFor(t, petDoc, Options{})

	d, err := r.ResolveComponent("Pet")
	require.NoError(t, err)
	assert.Equal(t, KindNamed, d.Kind)
	assert.Equal(t, "Pet", d.Name)

	pet := entry(t, r, "Pet")
	assert.Equal(t, BodyRecord, pet.Body.Kind)
	assert.Equal(t, "A pet", pet.Body.Description)
	assert.Equal(t, "#/components/schemas/Pet", pet.Origin)

	var fields []string
	for _, f := range pet.Body.Fields {
		fields = append(fields, f.Name)
	}
	assert.Equal(t, []string{"name", "age", "status", "tags", "nickname", "owner"}, fields, "declaration order")

	name := fieldNamed(t, pet, "name")
	assert.False(t, name.Optional)
	assert.Equal(t, schema.KindString, name.Type.Primitive)
	v, _ := name.Constraint.Get(ConstraintMaxLength)
	assert.Equal(t, 10.0, v)

	age := fieldNamed(t, pet, "age")
	assert.True(t, age.Optional)
	assert.Equal(t, "int32", age.Type.Format)
	assert.Equal(t, []Constraint{{ConstraintExclusiveMinimum, 0}}, age.Constraint.Constraints)

	status := fieldNamed(t, pet, "status")
	assert.Equal(t, []schema.Literal{schema.String("available"), schema.String("sold")}, status.Type.Enum)
	require.NotNil(t, status.Default)
	assert.Equal(t, `"available"`, status.Default.Text)

	tags := fieldNamed(t, pet, "tags")
	require.Equal(t, KindArray, tags.Type.Kind)
	assert.Equal(t, "PetTagsItem", tags.Type.Elem.Name)
	assert.True(t, r.Registry().Has("PetTagsItem"))

	nickname := fieldNamed(t, pet, "nickname")
	assert.Equal(t, KindNullable, nickname.Type.Kind)
	assert.Nil(t, nickname.Constraint)

	owner := fieldNamed(t, pet, "owner")
	assert.Same(t, r.Registry().Ref("Owner"), owner.Type)

	alias := entry(t, r, "Owner")
	assert.Equal(t, BodyAlias, alias.Body.Kind, "a primitive component is backed by an alias")
	assert.Equal(t, schema.KindString, alias.Body.Target.Primitive)

	assert.Equal(t, []string{"PetTagsItem", "Owner", "Pet"}, names(r.Registry().Dump()))
	assert.Empty(t, r.Diagnostics())
}

func TestResolve_MutualReferencesTerminate(t *testing.T) {
	src := `
components:
  schemas:
    A:
      type: object
      properties:
        b: {$ref: '#/components/schemas/B'}
    B:
      type: object
      properties:
        a: {$ref: '#/components/schemas/A'}
`
	res, err := Generate(parseDoc(t, src), Options{})
	require.NoError(t, err)

	require.Equal(t, []string{"B", "A"}, names(res.Types))
	a, _ := res.Entry("A")
	b, _ := res.Entry("B")
	assert.Equal(t, "B", a.Body.Fields[0].Type.Name)
	assert.Equal(t, "A", b.Body.Fields[0].Type.Name)
	assert.Same(t, a.Body.Fields[0].Type, res.Components[1].Type, "references share the component ref")
}

func TestResolve_SelfReference(t *testing.T) {
	src := `
components:
  schemas:
    Node:
      type: object
      properties:
        next: {$ref: '#/components/schemas/Node'}
        children:
          type: array
          items: {$ref: '#/components/schemas/Node'}
`
	r := resolverFor(t, src, Options{})
	d, err := r.ResolveComponent("Node")
	require.NoError(t, err)

	node := entry(t, r, "Node")
	assert.Same(t, d, fieldNamed(t, node, "next").Type)
	assert.Same(t, d, fieldNamed(t, node, "children").Type.Elem)
	assert.Equal(t, 1, r.Registry().Len())
}

func TestResolve_SelfAlias(t *testing.T) {
	src := `
components:
  schemas:
    Loop: {$ref: '#/components/schemas/Loop'}
`
	r := resolverFor(t, src, Options{})
	d, err := r.ResolveComponent("Loop")
	require.NoError(t, err)
	assert.Equal(t, "Loop", d.Name)

	loop := entry(t, r, "Loop")
	assert.Same(t, Any(), loop.Body.Target)
	require.Len(t, r.Diagnostics(), 1)
	assert.Equal(t, DiagUnsupportedMember, r.Diagnostics()[0].Kind)
}

func TestResolve_MissingReferenceIsFatal(t *testing.T) {
	tests := []struct {
		name string
		ref  string
	}{
		{"unknown component", "#/components/schemas/Ghost"},
		{"remote reference", "other.yaml#/components/schemas/Owner"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := `
components:
  schemas:
    Pet:
      type: object
      properties:
        owner: {$ref: '` + tt.ref + `'}
`
			_, err := Generate(parseDoc(t, src), Options{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrMissingReference))
			assert.True(t, errors.Is(err, errors.ErrUnsupportedSchemaShape))
			assert.True(t, errors.IsFatal(err))
			assert.Contains(t, err.Error(), "resolving Pet: resolving Pet.owner")
			assert.Contains(t, errors.FlattenDetails(err), "#/components/schemas/Pet/properties/owner")
		})
	}
}

func TestResolve_UnknownComponent(t *testing.T) {
	r := NewResolver(nil, Options{})
	_, err := r.ResolveComponent("Nope")
	assert.True(t, errors.Is(err, errors.ErrMissingReference))

	_, err = r.Resolve(nil, "Nope")
	assert.True(t, errors.Is(err, errors.ErrUnsupportedSchemaShape))
}

func TestResolve_RecordNeedsAName(t *testing.T) {
	r := NewResolver(nil, Options{})
	_, err := r.Resolve(&schema.Node{Type: schema.KindObject}, "")
	assert.True(t, errors.IsFatal(err))
}

func TestResolve_Arrays(t *testing.T) {
	src := `
components:
  schemas:
    Grid:
      type: array
      items:
        type: array
        items: {type: integer}
    Bag:
      type: array
`
	r := resolverFor(t, src, Options{})

	_, err := r.ResolveComponent("Grid")
	require.NoError(t, err)
	grid := entry(t, r, "Grid")
	require.Equal(t, KindArray, grid.Body.Target.Kind)
	assert.Equal(t, "GridItem", grid.Body.Target.Elem.Name, "nested arrays get an addressable element name")

	row := entry(t, r, "GridItem")
	assert.Equal(t, BodyAlias, row.Body.Kind)
	assert.Equal(t, "array<integer>", row.Body.Target.String())

	_, err = r.ResolveComponent("Bag")
	require.NoError(t, err)
	assert.Same(t, Any(), entry(t, r, "Bag").Body.Target.Elem, "array without items holds any")
}

func TestResolve_Union(t *testing.T) {
	src := `
components:
  schemas:
    Circle:
      type: object
      properties: {radius: {type: number}}
    Shape:
      oneOf:
        - $ref: '#/components/schemas/Circle'
        - type: string
        - $ref: '#/components/schemas/Circle'
        - type: object
          properties: {side: {type: number}}
`
	r := resolverFor(t, src, Options{})
	_, err := r.ResolveComponent("Shape")
	require.NoError(t, err)

	shape := entry(t, r, "Shape")
	union := shape.Body.Target
	require.Equal(t, KindUnion, union.Kind)

	var members []string
	for _, m := range union.Members {
		require.True(t, m.IsNamed())
		members = append(members, m.Name)
	}
	assert.Equal(t, []string{"Circle", "ShapeOption2", "ShapeOption4"}, members, "source order, duplicates dropped")

	assert.Equal(t, BodyAlias, entry(t, r, "ShapeOption2").Body.Kind)
	assert.Equal(t, BodyRecord, entry(t, r, "ShapeOption4").Body.Kind)
	assert.Equal(t, []string{"Circle", "ShapeOption2", "ShapeOption4", "Shape"}, names(r.Registry().Dump()))
}

func TestResolve_AnyOfUnion(t *testing.T) {
	src := `
components:
  schemas:
    Id:
      anyOf:
        - type: integer
        - type: string
          format: uuid
`
	r := resolverFor(t, src, Options{UnionMemberSuffix: "Variant"})
	_, err := r.ResolveComponent("Id")
	require.NoError(t, err)
	assert.Equal(t, "union<IdVariant1, IdVariant2>", entry(t, r, "Id").Body.Target.String())
	assert.Equal(t, "uuid", entry(t, r, "IdVariant2").Body.Target.Format)
}

const mergeDoc = `
components:
  schemas:
    Base:
      type: object
      required: [id]
      properties:
        id: {type: string}
        note: {type: string}
    Pet:
      allOf:
        - $ref: '#/components/schemas/Base'
        - type: object
          required: [name]
          properties:
            name: {type: string}
            id: {type: string, format: uuid}
      required: [note]
      properties:
        age: {type: integer}
`

func TestResolve_Merge(t *testing.T) {
	r := resolverFor(t, mergeDoc, Options{})
	d, err := r.ResolveComponent("Pet")
	require.NoError(t, err)
	assert.Equal(t, "Pet", d.Name)

	assert.Equal(t, []string{"Base", "Pet"}, names(r.Registry().Dump()), "a $ref member is resolved first")

	pet := entry(t, r, "Pet")
	require.Equal(t, BodyRecord, pet.Body.Kind)

	var fields []string
	for _, f := range pet.Body.Fields {
		fields = append(fields, f.Name)
	}
	assert.Equal(t, []string{"id", "note", "name", "age"}, fields)

	assert.False(t, fieldNamed(t, pet, "id").Optional)
	assert.Equal(t, "uuid", fieldNamed(t, pet, "id").Type.Format, "a later member redefines the property in place")
	assert.False(t, fieldNamed(t, pet, "name").Optional)
	assert.True(t, fieldNamed(t, pet, "age").Optional)
}

// An inherited property is optional or not by the merged record's own
// required set, not by the set of the schema it came from.
func TestResolve_MergeRequiredSetGoverns(t *testing.T) {
	r := resolverFor(t, mergeDoc, Options{})
	_, err := r.ResolveComponent("Pet")
	require.NoError(t, err)

	assert.True(t, fieldNamed(t, entry(t, r, "Base"), "note").Optional)
	assert.False(t, fieldNamed(t, entry(t, r, "Pet"), "note").Optional)
}

func TestResolve_MergeCycleTerminates(t *testing.T) {
	src := `
components:
  schemas:
    A:
      allOf:
        - $ref: '#/components/schemas/B'
        - properties: {a: {type: string}}
    B:
      allOf:
        - $ref: '#/components/schemas/A'
        - properties: {b: {type: integer}}
`
	res, err := Generate(parseDoc(t, src), Options{})
	require.NoError(t, err)

	a, ok := res.Entry("A")
	require.True(t, ok)
	b, ok := res.Entry("B")
	require.True(t, ok)
	assert.Len(t, a.Body.Fields, 2)
	assert.Len(t, b.Body.Fields, 2)
}

func TestResolve_MergeThroughSelfAliasTerminates(t *testing.T) {
	src := `
components:
  schemas:
    A:
      $ref: '#/components/schemas/A'
    B:
      allOf:
        - $ref: '#/components/schemas/A'
        - type: object
          properties: {x: {type: string}}
`
	res, err := Generate(parseDoc(t, src), Options{})
	require.NoError(t, err)

	b, ok := res.Entry("B")
	require.True(t, ok)
	require.Len(t, b.Body.Fields, 1)
	assert.Equal(t, "x", b.Body.Fields[0].Name)

	a, ok := res.Entry("A")
	require.True(t, ok)
	assert.Same(t, Any(), a.Body.Target)

	bySchema := make(map[string]Diagnostic)
	for _, d := range res.Diagnostics {
		assert.Equal(t, DiagUnsupportedMember, d.Kind)
		bySchema[d.Schema] = d
	}
	assert.Contains(t, bySchema, "A", "the self alias is reported")
	assert.Contains(t, bySchema, "B", "the merge that runs into it is reported")
}

func TestResolve_MutualAliasTerminates(t *testing.T) {
	src := `
components:
  schemas:
    A:
      $ref: '#/components/schemas/B'
    B:
      $ref: '#/components/schemas/A'
`
	r := resolverFor(t, src, Options{})
	d, err := r.ResolveComponent("A")
	require.NoError(t, err)
	assert.Equal(t, "A", d.Name)

	assert.Equal(t, []string{"B", "A"}, names(r.Registry().Dump()))
	assert.Same(t, Any(), entry(t, r, "B").Body.Target)
	assert.Equal(t, "B", entry(t, r, "A").Body.Target.Name)

	diags := r.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, DiagUnsupportedMember, diags[0].Kind)
	assert.Equal(t, "B", diags[0].Schema)
	assert.Equal(t, "#/components/schemas/B", diags[0].Path)
}

func TestResolve_MergeSkipsShapelessMembers(t *testing.T) {
	src := `
components:
  schemas:
    Odd:
      allOf:
        - type: string
        - properties: {x: {type: boolean}}
`
	r := resolverFor(t, src, Options{})
	_, err := r.ResolveComponent("Odd")
	require.NoError(t, err)
	assert.Len(t, entry(t, r, "Odd").Body.Fields, 1)

	diags := r.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, DiagUnsupportedMember, diags[0].Kind)
	assert.Equal(t, "Odd", diags[0].Schema)
	assert.Equal(t, "#/components/schemas/Odd/allOf/0", diags[0].Path)
}

func TestResolve_MapLike(t *testing.T) {
	src := `
components:
  schemas:
    Labels:
      type: object
      additionalProperties: {type: integer}
    Bag:
      type: object
      additionalProperties: true
`
	legacy := resolverFor(t, src, Options{})
	_, err := legacy.ResolveComponent("Labels")
	require.NoError(t, err)
	labels := entry(t, legacy, "Labels")
	assert.Equal(t, BodyRecord, labels.Body.Kind, "legacy order lowers it to an empty record")
	assert.Empty(t, labels.Body.Fields)

	mapFirst := resolverFor(t, src, Options{Precedence: PrecedenceMapFirst})
	_, err = mapFirst.ResolveComponent("Labels")
	require.NoError(t, err)
	assert.Equal(t, "map<string, integer>", entry(t, mapFirst, "Labels").Body.Target.String())

	_, err = mapFirst.ResolveComponent("Bag")
	require.NoError(t, err)
	assert.Same(t, Any(), entry(t, mapFirst, "Bag").Body.Target.Elem)
}

func TestResolve_FreeForm(t *testing.T) {
	r := NewResolver(nil, Options{})
	n := &schema.Node{AdditionalProperties: schema.Additional{Mode: schema.AdditionalSchema, Schema: &schema.Node{Type: schema.KindString}}}

	d, err := r.Resolve(n, "Anything")
	require.NoError(t, err)
	assert.Same(t, Any(), d)
	assert.Zero(t, r.Registry().Len(), "any needs no registration")
}

func TestResolve_NullableOverlayOutsideProperties(t *testing.T) {
	src := `
components:
  schemas:
    Tags:
      type: object
      properties:
        values:
          type: array
          items: {type: string, x-nullable: true}
`
	r := resolverFor(t, src, Options{})
	_, err := r.ResolveComponent("Tags")
	require.NoError(t, err)

	values := fieldNamed(t, entry(t, r, "Tags"), "values")
	require.Equal(t, KindArray, values.Type.Kind)
	assert.Equal(t, KindNullable, values.Type.Elem.Kind, "array items carry the overlay")
	assert.Equal(t, schema.KindString, values.Type.Elem.Elem.Primitive)

	payload, err := r.Resolve(&schema.Node{Type: schema.KindString, Nullable: true}, "Foo")
	require.NoError(t, err)
	assert.Equal(t, KindNullable, payload.Kind)

	again, err := r.Resolve(&schema.Node{Type: schema.KindString, Nullable: true}, "Foo")
	require.NoError(t, err)
	assert.Equal(t, KindNullable, again.Kind)
}

func TestResolve_NullableOverlayIgnoresCallerFlag(t *testing.T) {
	src := `
components:
  schemas:
    Note:
      type: object
      required: [body, title]
      properties:
        body: {type: string, x-nullable: true, maxLength: 5}
        title: {type: string, nullable: true}
        subtitle: {type: [string, "null"]}
`
	r := resolverFor(t, src, Options{})
	_, err := r.ResolveComponent("Note")
	require.NoError(t, err)
	note := entry(t, r, "Note")

	body := fieldNamed(t, note, "body")
	assert.Equal(t, KindNullable, body.Type.Kind)
	assert.False(t, body.Optional)
	assert.Nil(t, body.Constraint)

	assert.Equal(t, KindPrimitive, fieldNamed(t, note, "title").Type.Kind)
	assert.Equal(t, KindPrimitive, fieldNamed(t, note, "subtitle").Type.Kind)

	honoring := resolverFor(t, src, Options{HonorCallerNullable: true})
	_, err = honoring.ResolveComponent("Note")
	require.NoError(t, err)
	note = entry(t, honoring, "Note")
	assert.Equal(t, KindNullable, fieldNamed(t, note, "title").Type.Kind)
	assert.Equal(t, KindNullable, fieldNamed(t, note, "subtitle").Type.Kind)
}

func TestResolve_NameCollision(t *testing.T) {
	src := `
components:
  schemas:
    Pet:
      type: object
      properties:
        owner:
          type: object
          properties: {name: {type: string}}
        keeper: {$ref: '#/components/schemas/PetOwner'}
    PetOwner:
      type: object
      properties: {id: {type: integer}}
`
	res, err := Generate(parseDoc(t, src), Options{})
	require.NoError(t, err)

	owner, ok := res.Entry("PetOwner")
	require.True(t, ok)
	assert.Equal(t, "name", owner.Body.Fields[0].Name, "the first registration is kept")

	require.Len(t, res.Diagnostics, 1, "reported once")
	d := res.Diagnostics[0]
	assert.Equal(t, DiagNameCollision, d.Kind)
	assert.Equal(t, "PetOwner", d.Schema)
	assert.Equal(t, "#/components/schemas/PetOwner", d.Path)
	assert.True(t, errors.Is(d.Err, ErrNameCollision))
}

func TestResolve_DiagnosticsCarrySchemaAndPath(t *testing.T) {
	src := `
components:
  schemas:
    Pet:
      type: object
      properties:
        age: {type: integer, default: old}
        kind:
          oneOf: [{type: string}]
          minLength: 1
`
	r := resolverFor(t, src, Options{})
	_, err := r.ResolveComponent("Pet")
	require.NoError(t, err, "non-fatal conditions never abort")

	diags := r.Diagnostics()
	require.Len(t, diags, 2)
	assert.Equal(t, DiagInvalidDefault, diags[0].Kind)
	assert.Equal(t, "Pet.age", diags[0].Schema)
	assert.Equal(t, "#/components/schemas/Pet/properties/age", diags[0].Path)
	assert.Equal(t, DiagConstraintIncompatible, diags[1].Kind)
	assert.Equal(t, "Pet.kind", diags[1].Schema)

	assert.Nil(t, fieldNamed(t, entry(t, r, "Pet"), "age").Default)
}

func TestResolvePayload(t *testing.T) {
	src := `
asyncapi: 2.6.0
components:
  schemas:
    Pet:
      type: object
      properties: {name: {type: string}}
  messages:
    pet.created:
      payload: {$ref: '#/components/schemas/Pet'}
    pet-deleted:
      payload:
        type: object
        properties: {id: {type: string}}
`
	doc := parseDoc(t, src)
	r := NewResolver(doc.Components, Options{})

	created, _ := doc.Messages.Get("pet.created")
	d, err := r.ResolvePayload("pet.created", created)
	require.NoError(t, err)
	assert.Same(t, r.Registry().Ref("Pet"), d)

	deleted, _ := doc.Messages.Get("pet-deleted")
	d, err = r.ResolvePayload("pet-deleted", deleted)
	require.NoError(t, err)
	assert.Equal(t, "PetDeletedPayload", d.Name)

	again, err := r.ResolvePayload("pet-deleted", deleted)
	require.NoError(t, err)
	assert.Same(t, d, again)
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, PrecedenceLegacy, opts.Precedence)
	assert.Equal(t, SuppressionAll, opts.ConstraintSuppression)
	assert.False(t, opts.HonorCallerNullable)

	filled := Options{MapValueSuffix: "Entry"}.withDefaults()
	assert.Equal(t, "Entry", filled.MapValueSuffix)
	assert.Equal(t, "Item", filled.ArrayItemSuffix)
	assert.NotNil(t, filled.Logger)
}
