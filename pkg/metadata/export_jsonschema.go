// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// JSONSchemaDraft is the meta-schema URI emitted by MarshalJSONSchema.
const JSONSchemaDraft = "http://json-schema.org/draft-07/schema#"

// JSONSchema converts s into a JSON Schema (draft-07) object.
// Refinements without a Pattern have no JSON Schema equivalent and are omitted.
func JSONSchema(s Schema) map[string]any {
	switch n := s.(type) {
	case StringSchema:
		return stringJSONSchema(n)
	case NumberSchema:
		out := map[string]any{"type": "number"}
		if n.integer {
			out["type"] = "integer"
		}
		if n.min != nil {
			out["minimum"] = *n.min
		}
		if n.max != nil {
			out["maximum"] = *n.max
		}
		return out
	case ObjectSchema:
		props := make(map[string]any, len(n.fields))
		required := make([]string, 0, len(n.fields))
		for _, f := range n.fields {
			props[f.Name] = JSONSchema(f.Schema)
			if !f.Optional {
				required = append(required, f.Name)
			}
		}
		out := map[string]any{"type": "object", "properties": props}
		if len(required) > 0 {
			out["required"] = required
		}
		if n.strict {
			out["additionalProperties"] = false
		}
		return out
	case RecordSchema:
		out := map[string]any{"type": "object", "additionalProperties": JSONSchema(n.values)}
		if keys := stringJSONSchema(n.keys); len(keys) > 1 {
			out["propertyNames"] = keys
		}
		return out
	case ArraySchema:
		return map[string]any{"type": "array", "items": JSONSchema(n.elem)}
	default:
		return map[string]any{}
	}
}

func stringJSONSchema(s StringSchema) map[string]any {
	out := map[string]any{"type": "string"}
	if s.literal != nil {
		out["const"] = *s.literal
		return out
	}
	if s.minLen >= 0 {
		out["minLength"] = s.minLen
	}
	if s.maxLen >= 0 {
		out["maxLength"] = s.maxLen
	}
	if s.exactLen >= 0 {
		out["minLength"] = s.exactLen
		out["maxLength"] = s.exactLen
	}

	var extra []any
	for _, r := range s.refinements {
		switch {
		case r.Pattern == "":
		case out["pattern"] == nil:
			out["pattern"] = r.Pattern
		case out["pattern"] != r.Pattern:
			extra = append(extra, map[string]any{"pattern": r.Pattern})
		}
	}
	if len(extra) > 0 {
		out["allOf"] = extra
	}
	return out
}

// MarshalJSONSchema renders s as an indented, standalone JSON Schema document.
func MarshalJSONSchema(s Schema) ([]byte, error) {
	doc := JSONSchema(s)
	doc["$schema"] = JSONSchemaDraft

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode JSON schema: %w", err)
	}
	return buf.Bytes(), nil
}
