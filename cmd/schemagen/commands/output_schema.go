package commands

import (
	"fmt"
	"reflect"

	"github.com/goccy/go-json"
	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/teranos/schemagen/errors"
	"github.com/teranos/schemagen/schema"
	"github.com/teranos/schemagen/typegen"
)

// ResultSchemaID identifies the registry dump format
const ResultSchemaID = "https://github.com/teranos/schemagen/result.schema.json"

func newOutputSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "output-schema",
		Short: "Print the JSON Schema of the registry dump",
		Long: `Print a JSON Schema describing the output of 'schemagen resolve --format json',
so downstream emitters can validate their input.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := ResultSchema()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

// ResultSchema reflects typegen.Result into an indented JSON Schema
func ResultSchema() ([]byte, error) {
	literal := reflect.TypeOf(schema.Literal{})

	r := &jsonschema.Reflector{
		// Literals marshal as their plain value, any JSON type
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == literal {
				return &jsonschema.Schema{Description: "Literal value as written in the document"}
			}
			return nil
		},
	}

	s := r.Reflect(&typegen.Result{})
	s.ID = jsonschema.ID(ResultSchemaID)
	s.Title = "schemagen registry dump"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal output schema")
	}
	return data, nil
}
