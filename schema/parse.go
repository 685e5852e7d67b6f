package schema

import (
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/teranos/schemagen/errors"
)

// Parse builds a Document from YAML or JSON bytes. Mapping order is taken
// from the yaml.Node tree, never from Go map iteration.
func Parse(data []byte, opts ParseOptions) (*Document, error) {
	if opts.NullableExtension == "" {
		opts.NullableExtension = DefaultNullableExtension
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(errors.Mark(err, errors.ErrInvalidDocument), "document is not valid YAML or JSON")
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, errors.NewInvalidDocumentError("#", "empty document")
	}
	top := deref(root.Content[0])
	if top.Kind != yaml.MappingNode {
		return nil, errors.NewInvalidDocumentError("#", "document root must be a mapping")
	}

	p := &parser{opts: opts}
	doc := &Document{
		Dialect:    DialectJSONSchema,
		Components: NewTable(),
		Messages:   NewTable(),
	}

	for _, dialect := range []Dialect{DialectOpenAPI, DialectAsyncAPI, DialectSwagger} {
		if v := lookup(top, string(dialect)); v != nil {
			doc.Dialect = dialect
			doc.VersionRaw = v.Value
			break
		}
	}
	doc.checkVersion()

	if components := lookup(top, "components"); components != nil {
		if err := p.collect(doc, lookup(components, "schemas"), "#/components/schemas"); err != nil {
			return nil, err
		}
		if err := p.collectMessages(doc, lookup(components, "messages")); err != nil {
			return nil, err
		}
	}
	if err := p.collect(doc, lookup(top, "definitions"), "#/definitions"); err != nil {
		return nil, err
	}
	if err := p.collect(doc, lookup(top, "$defs"), "#/$defs"); err != nil {
		return nil, err
	}

	return doc, nil
}

// ParseSchema parses a single standalone schema, e.g. an ad hoc payload.
func ParseSchema(data []byte, opts ParseOptions) (*Node, error) {
	if opts.NullableExtension == "" {
		opts.NullableExtension = DefaultNullableExtension
	}
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(errors.Mark(err, errors.ErrInvalidDocument), "schema is not valid YAML or JSON")
	}
	if len(root.Content) == 0 {
		return nil, errors.NewInvalidDocumentError("#", "empty schema")
	}
	p := &parser{opts: opts}
	return p.node(root.Content[0], "#")
}

// NewTable returns an empty ordered table.
func NewTable() *Table {
	return NewProperties()
}

type parser struct {
	opts ParseOptions
}

func (p *parser) collect(doc *Document, section *yaml.Node, base string) error {
	if section == nil {
		return nil
	}
	if section.Kind != yaml.MappingNode {
		return errors.NewInvalidDocumentError(base, "must be a mapping")
	}
	for i := 0; i+1 < len(section.Content); i += 2 {
		name := section.Content[i].Value
		path := pointer(base, name)
		n, err := p.node(section.Content[i+1], path)
		if err != nil {
			return err
		}
		if _, exists := doc.Components.Get(name); exists {
			doc.warnf("component %q at %s shadows an earlier definition and is ignored", name, path)
			continue
		}
		doc.Components.Set(name, n)
	}
	return nil
}

func (p *parser) collectMessages(doc *Document, section *yaml.Node) error {
	if section == nil {
		return nil
	}
	if section.Kind != yaml.MappingNode {
		return errors.NewInvalidDocumentError("#/components/messages", "must be a mapping")
	}
	for i := 0; i+1 < len(section.Content); i += 2 {
		name := section.Content[i].Value
		path := pointer("#/components/messages", name)
		msg := deref(section.Content[i+1])
		if msg.Kind != yaml.MappingNode {
			return errors.NewInvalidDocumentError(path, "message must be a mapping")
		}
		payload := lookup(msg, "payload")
		if payload == nil {
			doc.warnf("message %q has no inline payload and is skipped", name)
			continue
		}
		n, err := p.node(payload, pointer(path, "payload"))
		if err != nil {
			return err
		}
		doc.Messages.Set(name, n)
	}
	return nil
}

// node converts one schema mapping. Keywords not consumed by type or
// constraint synthesis are ignored.
func (p *parser) node(y *yaml.Node, path string) (*Node, error) {
	y = deref(y)
	if y.Kind == yaml.ScalarNode && y.ShortTag() == "!!bool" {
		// `true`/`false` schemas: true accepts anything
		return &Node{Path: path}, nil
	}
	if y.Kind != yaml.MappingNode {
		return nil, errors.NewInvalidDocumentError(path, "schema must be a mapping")
	}

	n := &Node{Path: path}
	for i := 0; i+1 < len(y.Content); i += 2 {
		key := y.Content[i].Value
		val := deref(y.Content[i+1])
		at := pointer(path, key)

		var err error
		switch key {
		case "$ref":
			n.Ref, err = scalarString(val, at)
			n.RefName, _ = RefToComponentName(n.Ref)
		case "type":
			err = p.typeKeyword(n, val, at)
		case "format":
			n.Format, err = scalarString(val, at)
		case "description":
			n.Description, err = scalarString(val, at)
		case "items":
			if val.Kind == yaml.SequenceNode {
				err = errors.NewInvalidDocumentError(at, "tuple items are not supported")
				break
			}
			n.Items, err = p.node(val, at)
		case "allOf":
			n.AllOf, err = p.nodes(val, at)
		case "oneOf":
			n.OneOf, err = p.nodes(val, at)
		case "anyOf":
			n.AnyOf, err = p.nodes(val, at)
		case "properties":
			n.Properties, err = p.properties(val, at)
		case "required":
			// Swagger parameters use a boolean here; it carries no schema meaning
			if val.Kind == yaml.SequenceNode {
				n.Required, err = stringList(val, at)
			}
		case "additionalProperties":
			n.AdditionalProperties, err = p.additional(val, at)
		case "nullable":
			n.NullableKeyword, err = scalarBool(val, at)
		case p.opts.NullableExtension:
			n.Nullable, err = scalarBool(val, at)
		case "default":
			var lit Literal
			lit, err = literalFromYAML(val, at)
			n.Default = &lit
		case "enum":
			n.Enum, err = literalList(val, at)
		case "minLength":
			n.Constraints.MinLength, err = scalarInt(val, at)
		case "maxLength":
			n.Constraints.MaxLength, err = scalarInt(val, at)
		case "minItems":
			n.Constraints.MinItems, err = scalarInt(val, at)
		case "maxItems":
			n.Constraints.MaxItems, err = scalarInt(val, at)
		case "minimum":
			n.Constraints.Minimum, err = scalarFloat(val, at)
		case "maximum":
			n.Constraints.Maximum, err = scalarFloat(val, at)
		case "exclusiveMinimum":
			n.Constraints.ExclusiveMinimum, err = exclusive(val, at)
		case "exclusiveMaximum":
			n.Constraints.ExclusiveMaximum, err = exclusive(val, at)
		}
		if err != nil {
			return nil, err
		}
	}
	return n, nil
}

func (p *parser) typeKeyword(n *Node, val *yaml.Node, at string) error {
	if val.Kind == yaml.ScalarNode {
		n.Type = Kind(val.Value)
		return nil
	}
	types, err := stringList(val, at)
	if err != nil {
		return err
	}
	// `type: [T, "null"]` is T plus the standard nullable flag; the first
	// non-null entry wins when several are listed
	for _, t := range types {
		if Kind(t) == KindNull {
			n.NullableKeyword = true
			continue
		}
		if n.Type == KindNone {
			n.Type = Kind(t)
		}
	}
	if n.Type == KindNone && n.NullableKeyword {
		n.Type = KindNull
	}
	return nil
}

func (p *parser) nodes(val *yaml.Node, at string) ([]*Node, error) {
	if val.Kind != yaml.SequenceNode {
		return nil, errors.NewInvalidDocumentError(at, "must be a list of schemas")
	}
	out := make([]*Node, 0, len(val.Content))
	for i, c := range val.Content {
		n, err := p.node(c, pointer(at, strconv.Itoa(i)))
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (p *parser) properties(val *yaml.Node, at string) (*Properties, error) {
	if val.Kind != yaml.MappingNode {
		return nil, errors.NewInvalidDocumentError(at, "properties must be a mapping")
	}
	props := NewProperties()
	for i := 0; i+1 < len(val.Content); i += 2 {
		name := val.Content[i].Value
		n, err := p.node(val.Content[i+1], pointer(at, name))
		if err != nil {
			return nil, err
		}
		props.Set(name, n)
	}
	return props, nil
}

func (p *parser) additional(val *yaml.Node, at string) (Additional, error) {
	if val.Kind == yaml.ScalarNode {
		b, err := scalarBool(val, at)
		if err != nil {
			return Additional{}, err
		}
		if b {
			return Additional{Mode: AdditionalTrue}, nil
		}
		return Additional{Mode: AdditionalNone}, nil
	}
	n, err := p.node(val, at)
	if err != nil {
		return Additional{}, err
	}
	return Additional{Mode: AdditionalSchema, Schema: n}, nil
}

func deref(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

// lookup returns the value for key in a mapping node, or nil.
func lookup(m *yaml.Node, key string) *yaml.Node {
	m = deref(m)
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return deref(m.Content[i+1])
		}
	}
	return nil
}

func scalarString(n *yaml.Node, at string) (string, error) {
	if n.Kind != yaml.ScalarNode {
		return "", errors.NewInvalidDocumentError(at, "must be a string")
	}
	return n.Value, nil
}

func scalarBool(n *yaml.Node, at string) (bool, error) {
	var b bool
	if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!bool" {
		return false, errors.NewInvalidDocumentError(at, "must be a boolean")
	}
	if err := n.Decode(&b); err != nil {
		return false, errors.NewInvalidDocumentError(at, "must be a boolean: %v", err)
	}
	return b, nil
}

func scalarInt(n *yaml.Node, at string) (*int64, error) {
	if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!int" {
		return nil, errors.NewInvalidDocumentError(at, "must be an integer")
	}
	i, err := strconv.ParseInt(n.Value, 0, 64)
	if err != nil {
		return nil, errors.NewInvalidDocumentError(at, "integer %q out of range", n.Value)
	}
	return &i, nil
}

func scalarFloat(n *yaml.Node, at string) (*float64, error) {
	if n.Kind != yaml.ScalarNode || (n.ShortTag() != "!!int" && n.ShortTag() != "!!float") {
		return nil, errors.NewInvalidDocumentError(at, "must be a number")
	}
	var f float64
	if err := n.Decode(&f); err != nil {
		return nil, errors.NewInvalidDocumentError(at, "must be a number: %v", err)
	}
	return &f, nil
}

func exclusive(n *yaml.Node, at string) (Exclusive, error) {
	if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!bool" {
		b, err := scalarBool(n, at)
		return Exclusive{Set: b}, err
	}
	f, err := scalarFloat(n, at)
	if err != nil {
		return Exclusive{}, err
	}
	return Exclusive{Set: true, Value: f}, nil
}

func stringList(n *yaml.Node, at string) ([]string, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, errors.NewInvalidDocumentError(at, "must be a list of strings")
	}
	out := make([]string, 0, len(n.Content))
	for i, c := range n.Content {
		s, err := scalarString(deref(c), pointer(at, strconv.Itoa(i)))
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func literalList(n *yaml.Node, at string) ([]Literal, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, errors.NewInvalidDocumentError(at, "must be a list")
	}
	out := make([]Literal, 0, len(n.Content))
	for i, c := range n.Content {
		lit, err := literalFromYAML(c, pointer(at, strconv.Itoa(i)))
		if err != nil {
			return nil, err
		}
		out = append(out, lit)
	}
	return out, nil
}
