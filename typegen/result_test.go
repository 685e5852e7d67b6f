package typegen

import (
	"bytes"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/teranos/schemagen/errors"
)

const eventsDoc = `
asyncapi: 2.6.0
components:
  schemas:
    Pet:
      type: object
      required: [name]
      properties:
        name: {type: string, minLength: 1}
        tags:
          type: array
          items: {type: string}
          default: [new]
  messages:
    PetCreated:
      payload: {$ref: '#/components/schemas/Pet'}
    Ping:
      summary: no payload
`

func TestGenerate(t *testing.T) {
	res, err := Generate(parseDoc(t, eventsDoc), Options{})
	require.NoError(t, err)

	assert.Equal(t, "2.6.0", res.Version)
	assert.Equal(t, []string{"Pet"}, names(res.Types))
	require.Len(t, res.Components, 1)
	assert.Equal(t, "Pet", res.Components[0].Name)
	require.Len(t, res.Messages, 1)
	assert.Same(t, res.Components[0].Type, res.Messages[0].Type, "a payload reference reuses the component type")
	assert.Len(t, res.Warnings, 1)

	pet, ok := res.Entry("Pet")
	require.True(t, ok)
	tags := pet.Body.Fields[1]
	require.NotNil(t, tags.Default)
	assert.Equal(t, `["new"]`, tags.Default.Text)

	_, ok = res.Entry("Missing")
	assert.False(t, ok)
}

func TestGenerate_NilDocument(t *testing.T) {
	_, err := Generate(nil, Options{})
	assert.True(t, errors.Is(err, errors.ErrInvalidDocument))
}

func TestResult_EncodeJSON(t *testing.T) {
	res, err := Generate(parseDoc(t, eventsDoc), Options{})
	require.NoError(t, err)

	data, err := res.Marshal(FormatJSON)
	require.NoError(t, err)

	var decoded struct {
		Types []struct {
			Name string `json:"name"`
			Body struct {
				Kind   string `json:"kind"`
				Fields []struct {
					Name     string `json:"name"`
					Optional bool   `json:"optional"`
					Type     struct {
						Kind      string `json:"kind"`
						Primitive string `json:"primitive"`
					} `json:"type"`
				} `json:"fields"`
			} `json:"body"`
		} `json:"types"`
		Messages []Binding `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))

	require.Len(t, decoded.Types, 1)
	pet := decoded.Types[0]
	assert.Equal(t, "Pet", pet.Name)
	assert.Equal(t, "record", pet.Body.Kind)
	require.Len(t, pet.Body.Fields, 2)
	assert.Equal(t, "name", pet.Body.Fields[0].Name)
	assert.False(t, pet.Body.Fields[0].Optional)
	assert.Equal(t, "string", pet.Body.Fields[0].Type.Primitive)
	assert.Equal(t, "Pet", decoded.Messages[0].Type.Name)

	assert.NotContains(t, string(data), `"Err"`, "diagnostic errors are not encoded")
}

func TestResult_EncodeYAML(t *testing.T) {
	res, err := Generate(parseDoc(t, eventsDoc), Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, res.Encode(&buf, FormatYAML))

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "asyncapi", decoded["dialect"])
	types, ok := decoded["types"].([]interface{})
	require.True(t, ok)
	assert.Len(t, types, 1)
}

func TestResult_EncodeUnknownFormat(t *testing.T) {
	res := &Result{}
	_, err := res.Marshal(Format("xml"))
	assert.Error(t, err)
}
