package schema

import (
	"strconv"

	"github.com/goccy/go-json"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"

	"github.com/teranos/schemagen/errors"
)

// LiteralKind is the kind a literal was written with in the document.
type LiteralKind string

const (
	LiteralString  LiteralKind = "string"
	LiteralInteger LiteralKind = "integer"
	LiteralNumber  LiteralKind = "number"
	LiteralBoolean LiteralKind = "boolean"
	LiteralNull    LiteralKind = "null"
	LiteralArray   LiteralKind = "array"
	LiteralObject  LiteralKind = "object"
)

// Literal is a default or enum value typed once, at parse time, from the
// YAML node tag. Value holds string, int64, float64, bool, nil,
// []Literal or *orderedmap.OrderedMap[string, Literal].
type Literal struct {
	Kind  LiteralKind
	Value interface{}
}

// String builds a string literal.
func String(s string) Literal { return Literal{Kind: LiteralString, Value: s} }

// Integer builds an integer literal.
func Integer(i int64) Literal { return Literal{Kind: LiteralInteger, Value: i} }

// Number builds a floating point literal.
func Number(f float64) Literal { return Literal{Kind: LiteralNumber, Value: f} }

// Boolean builds a boolean literal.
func Boolean(b bool) Literal { return Literal{Kind: LiteralBoolean, Value: b} }

// Array builds an array literal.
func Array(items ...Literal) Literal { return Literal{Kind: LiteralArray, Value: items} }

// Interface converts the literal to plain Go values suitable for encoding.
// Objects keep their key order.
func (l Literal) Interface() interface{} {
	switch l.Kind {
	case LiteralArray:
		items, _ := l.Value.([]Literal)
		out := make([]interface{}, len(items))
		for i, item := range items {
			out[i] = item.Interface()
		}
		return out
	case LiteralObject:
		fields, _ := l.Value.(*orderedmap.OrderedMap[string, Literal])
		out := orderedmap.New[string, interface{}]()
		if fields != nil {
			for pair := fields.Oldest(); pair != nil; pair = pair.Next() {
				out.Set(pair.Key, pair.Value.Interface())
			}
		}
		return out
	default:
		return l.Value
	}
}

// MarshalJSON encodes the literal as its plain value.
func (l Literal) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Interface())
}

// MarshalYAML encodes the literal as its plain value.
func (l Literal) MarshalYAML() (interface{}, error) {
	return l.Interface(), nil
}

// Scalar renders a scalar literal without quoting. ok is false for arrays and objects.
func (l Literal) Scalar() (s string, ok bool) {
	switch v := l.Value.(type) {
	case string:
		return v, true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	case nil:
		return "null", l.Kind == LiteralNull
	}
	return "", false
}

// literalFromYAML types a YAML value by its resolved tag.
func literalFromYAML(n *yaml.Node, path string) (Literal, error) {
	n = deref(n)
	switch n.Kind {
	case yaml.SequenceNode:
		items := make([]Literal, 0, len(n.Content))
		for i, c := range n.Content {
			item, err := literalFromYAML(c, pointer(path, strconv.Itoa(i)))
			if err != nil {
				return Literal{}, err
			}
			items = append(items, item)
		}
		return Literal{Kind: LiteralArray, Value: items}, nil
	case yaml.MappingNode:
		fields := orderedmap.New[string, Literal]()
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			v, err := literalFromYAML(n.Content[i+1], pointer(path, key))
			if err != nil {
				return Literal{}, err
			}
			fields.Set(key, v)
		}
		return Literal{Kind: LiteralObject, Value: fields}, nil
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!str":
			return String(n.Value), nil
		case "!!int":
			i, err := strconv.ParseInt(n.Value, 0, 64)
			if err != nil {
				return Literal{}, errors.NewInvalidDocumentError(path, "integer literal %q out of range", n.Value)
			}
			return Integer(i), nil
		case "!!float":
			var f float64
			if err := n.Decode(&f); err != nil {
				return Literal{}, errors.NewInvalidDocumentError(path, "number literal %q: %v", n.Value, err)
			}
			return Number(f), nil
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err != nil {
				return Literal{}, errors.NewInvalidDocumentError(path, "boolean literal %q: %v", n.Value, err)
			}
			return Boolean(b), nil
		case "!!null":
			return Literal{Kind: LiteralNull}, nil
		}
		// Unknown tags (timestamps, binary) keep their source text
		return String(n.Value), nil
	}
	return Literal{}, errors.NewInvalidDocumentError(path, "unsupported literal node")
}
