package typegen

import (
	"bytes"
	"io"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/logger"
	"github.com/teranos/schemagen/schema"
)

// Binding is the descriptor a call site receives for a component or a
// message payload.
type Binding struct {
	Name string      `json:"name" yaml:"name"`
	Type *Descriptor `json:"type" yaml:"type"`
}

// Result is the outcome of one generation pass, handed read-only to emitters.
// This is language-agnostic: every emitter formats it differently.
type Result struct {
	// Dialect and Version describe the input document
	Dialect schema.Dialect `json:"dialect" yaml:"dialect"`
	Version string         `json:"version,omitempty" yaml:"version,omitempty"`

	// Types is the registry dump in first-seen order, the only order emitters may rely on
	Types []Entry `json:"types" yaml:"types"`

	// Components and Messages are in document order
	Components []Binding `json:"components" yaml:"components"`
	Messages   []Binding `json:"messages,omitempty" yaml:"messages,omitempty"`

	Diagnostics []Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`

	// Warnings are loader findings, e.g. an unsupported document version
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Generate resolves every component of doc in document order, then every
// message payload. The first fatal error aborts the pass.
func Generate(doc *schema.Document, opts Options) (*Result, error) {
	if doc == nil {
		return nil, errors.NewInvalidDocumentError("#", "no document")
	}

	r := NewResolver(doc.Components, opts)
	log := r.log

	res := &Result{
		Dialect:    doc.Dialect,
		Version:    doc.VersionRaw,
		Components: []Binding{},
		Warnings:   doc.Warnings,
	}

	if doc.Components != nil {
		for pair := doc.Components.Oldest(); pair != nil; pair = pair.Next() {
			d, err := r.ResolveComponent(pair.Key)
			if err != nil {
				return nil, err
			}
			res.Components = append(res.Components, Binding{Name: pair.Key, Type: d})
		}
	}

	if doc.Messages != nil {
		for pair := doc.Messages.Oldest(); pair != nil; pair = pair.Next() {
			d, err := r.ResolvePayload(pair.Key, pair.Value)
			if err != nil {
				return nil, err
			}
			res.Messages = append(res.Messages, Binding{Name: pair.Key, Type: d})
		}
	}

	res.Types = r.Registry().Dump()
	res.Diagnostics = r.Diagnostics()

	log.Infow("Generation complete",
		logger.FieldTypes, len(res.Types),
		logger.FieldCount, len(res.Components),
		logger.FieldDiagnostics, len(res.Diagnostics))
	return res, nil
}

// Format is an encoding of a Result.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Encode writes res to w in the given format.
func (res *Result) Encode(w io.Writer, format Format) error {
	switch format {
	case FormatJSON, "":
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to encode result as JSON")
		}
		data = append(data, '\n')
		_, err = w.Write(data)
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return errors.Wrap(err, "failed to encode result as YAML")
		}
		return enc.Close()
	}
	return errors.Newf("unknown output format %q", format)
}

// Marshal returns res encoded in the given format.
func (res *Result) Marshal(format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := res.Encode(&buf, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Entry returns the registry entry for name.
func (res *Result) Entry(name string) (Entry, bool) {
	for _, e := range res.Types {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}
