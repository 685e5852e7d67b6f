package schema

import (
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/logger"
)

// Dialect names the top-level document format.
type Dialect string

const (
	DialectOpenAPI    Dialect = "openapi"
	DialectAsyncAPI   Dialect = "asyncapi"
	DialectSwagger    Dialect = "swagger"
	DialectJSONSchema Dialect = "jsonschema"
)

// supportedVersions are the document versions the loader understands.
// Documents outside them still load; a warning is recorded.
var supportedVersions = map[Dialect]string{
	DialectOpenAPI:  ">= 3.0.0, < 3.2.0",
	DialectAsyncAPI: ">= 2.0.0, < 4.0.0",
	DialectSwagger:  "~2.0",
}

// Table is an insertion-ordered name to node table.
type Table = orderedmap.OrderedMap[string, *Node]

// Document is a parsed interface-specification document.
type Document struct {
	Dialect    Dialect
	VersionRaw string
	Version    *semver.Version

	// Components holds components.schemas, definitions and $defs in document order
	Components *Table

	// Messages maps message names to their payload schema
	Messages *Table

	// Warnings are non-fatal loader findings
	Warnings []string
}

// Component returns the named component schema.
func (d *Document) Component(name string) (*Node, bool) {
	if d == nil || d.Components == nil {
		return nil, false
	}
	return d.Components.Get(name)
}

// ParseOptions configures how vendor extensions are read.
type ParseOptions struct {
	// NullableExtension is the vendor key read into Node.Nullable
	NullableExtension string
}

// DefaultNullableExtension is used when ParseOptions.NullableExtension is empty.
const DefaultNullableExtension = "x-nullable"

// Load reads and parses the document at path.
func Load(path string, opts ParseOptions) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read document %s", path)
	}
	doc, err := Parse(data, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse document %s", path)
	}
	return doc, nil
}

// checkVersion records the document version and warns when it falls outside
// the supported range for its dialect.
func (d *Document) checkVersion() {
	if d.VersionRaw == "" {
		return
	}
	v, err := semver.NewVersion(d.VersionRaw)
	if err != nil {
		d.warnf("unparseable %s version %q", d.Dialect, d.VersionRaw)
		return
	}
	d.Version = v

	constraint, ok := supportedVersions[d.Dialect]
	if !ok {
		return
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		d.warnf("bad version constraint %q: %v", constraint, err)
		return
	}
	if !c.Check(v) {
		d.warnf("%s version %s is outside the supported range %s", d.Dialect, v, constraint)
	}
}

func (d *Document) warnf(format string, args ...interface{}) {
	msg := errors.Newf(format, args...).Error()
	d.Warnings = append(d.Warnings, msg)
	logger.Warnw("Document warning", logger.FieldComponent, "schema", "message", msg)
}

// componentPrefixes are the local reference forms resolved against Components.
var componentPrefixes = []string{
	"#/components/schemas/",
	"#/definitions/",
	"#/$defs/",
}

// RefToComponentName extracts the component id from a local reference.
func RefToComponentName(ref string) (string, bool) {
	for _, prefix := range componentPrefixes {
		if strings.HasPrefix(ref, prefix) {
			raw := strings.TrimPrefix(ref, prefix)
			if raw == "" || strings.Contains(raw, "/") {
				return "", false
			}
			return unescapePointer(raw), true
		}
	}
	return "", false
}

func pointer(base, token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	token = strings.ReplaceAll(token, "/", "~1")
	return base + "/" + token
}

func unescapePointer(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	return strings.ReplaceAll(token, "~0", "~")
}
