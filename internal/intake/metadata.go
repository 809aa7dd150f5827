package intake

import (
	"encoding/json"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"creative-approval-engine/internal/engine"
)

// MaxMetadataField caps the length of each metadata string.
const MaxMetadataField = 256

const metadataSchemaURL = "metadata.json"

// maxLength must match MaxMetadataField.
const metadataSchemaDoc = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "market":    {"type": ["string", "null"], "maxLength": 256},
    "placement": {"type": ["string", "null"], "maxLength": 256},
    "audience":  {"type": ["string", "null"], "maxLength": 256},
    "category":  {"type": ["string", "null"], "maxLength": 256}
  }
}`

var metadataSchema = mustCompileMetadataSchema()

func mustCompileMetadataSchema() *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(metadataSchemaDoc))
	if err != nil {
		panic(err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(metadataSchemaURL, doc); err != nil {
		panic(err)
	}
	return c.MustCompile(metadataSchemaURL)
}

// ParseMetadata validates raw against the strict metadata schema. An empty
// raw string means no metadata and yields nil. Unknown fields fail closed.
func ParseMetadata(raw string) (*engine.Metadata, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	inst, err := jsonschema.UnmarshalJSON(strings.NewReader(raw))
	if err != nil {
		return nil, invalidMetadata("not valid JSON", err)
	}
	if err := metadataSchema.Validate(inst); err != nil {
		return nil, invalidMetadata("does not match schema", err)
	}

	var m engine.Metadata
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, invalidMetadata("could not be decoded", err)
	}
	return &m, nil
}

func invalidMetadata(detail string, err error) *InputError {
	return newInputError(ErrInvalidMetadata.Kind, ErrInvalidMetadata.Message+": "+detail, err)
}
