// Package verdict turns a raw analysis-model response into a signed-off
// IntegrityCheckpoint. It never calls a model itself: everything here is a
// pure function of the text it is handed plus caller-supplied metadata.
package verdict

import (
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const responseSchemaURL = "https://mnemom.ai/aip/v1/analysis-response.schema.json"

// The schema checks structure and types only. Enum membership (verdict,
// category, severity, consultation_depth) is validated field-level in parse.go
// so each failure surfaces as its own typed error rather than a generic
// schema-path message.
const responseSchemaDoc = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["verdict", "concerns", "reasoning_summary", "conscience_context"],
  "properties": {
    "verdict": {"type": "string"},
    "concerns": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["category", "severity", "description", "evidence"],
        "properties": {
          "category": {"type": "string"},
          "severity": {"type": "string"},
          "description": {"type": "string"},
          "evidence": {"type": "string"},
          "relevant_card_field": {"type": ["string", "null"]},
          "relevant_conscience_value": {"type": ["string", "null"]}
        }
      }
    },
    "reasoning_summary": {"type": "string"},
    "conscience_context": {
      "type": "object",
      "required": ["values_checked", "conflicts", "supports", "considerations", "consultation_depth"],
      "properties": {
        "values_checked": {"type": "array", "items": {"type": "string"}},
        "conflicts": {"type": "array", "items": {"type": "string"}},
        "supports": {"type": "array", "items": {"type": "string"}},
        "considerations": {"type": "array", "items": {"type": "string"}},
        "consultation_depth": {"type": "string"}
      }
    }
  }
}`

var (
	schemaOnce    sync.Once
	compiledSchema *jsonschema.Schema
	schemaLoadErr error
)

func responseSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		if err := c.AddResource(responseSchemaURL, strings.NewReader(responseSchemaDoc)); err != nil {
			schemaLoadErr = err
			return
		}
		compiledSchema, schemaLoadErr = c.Compile(responseSchemaURL)
	})
	return compiledSchema, schemaLoadErr
}
