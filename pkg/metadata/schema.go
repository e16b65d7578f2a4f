// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

type (
	// Issue is a single schema violation. Path holds the property names and
	// array indices leading from the document root to the offending value;
	// it is empty for violations of the root value itself.
	Issue struct {
		Path    []string
		Message string
	}

	// Schema is a node of a structural schema. Schemas are immutable values
	// and safe for concurrent use.
	Schema interface {
		check(value any, path []string, issues *[]Issue)
	}

	// Refinement is a content check applied to a string after its type and
	// length checks. Pattern, when set, is the regular expression exported to
	// JSON Schema and CUE for the same constraint.
	Refinement struct {
		Pattern string
		Check   func(value string, sink ErrorSink)
	}

	// Field is a named property of an object schema.
	Field struct {
		Name     string
		Schema   Schema
		Optional bool
	}

	// StringSchema validates string values.
	StringSchema struct {
		minLen      int
		maxLen      int
		exactLen    int
		literal     *string
		refinements []Refinement
	}

	// NumberSchema validates numeric values.
	NumberSchema struct {
		integer bool
		min     *float64
		max     *float64
	}

	// ObjectSchema validates objects with a fixed set of known properties.
	ObjectSchema struct {
		fields []Field
		strict bool
	}

	// RecordSchema validates objects used as maps from string keys to values
	// of a single schema.
	RecordSchema struct {
		keys   StringSchema
		values Schema
	}

	// ArraySchema validates arrays whose elements all share one schema.
	ArraySchema struct {
		elem Schema
	}
)

// PathString returns the dot-joined path of the issue.
func (i Issue) PathString() string {
	return strings.Join(i.Path, ".")
}

// Check walks doc against s and returns every violation found.
// A nil result means the document conforms.
func Check(s Schema, doc any) []Issue {
	var issues []Issue
	s.check(doc, nil, &issues)
	return issues
}

// Required declares a property that must be present.
func Required(name string, s Schema) Field {
	return Field{Name: name, Schema: s}
}

// Optional declares a property that may be absent. A present property is
// still validated, so an explicit null is rejected.
func Optional(name string, s Schema) Field {
	return Field{Name: name, Schema: s, Optional: true}
}

// String returns an unconstrained string schema.
func String() StringSchema {
	return StringSchema{minLen: -1, maxLen: -1, exactLen: -1}
}

// Literal returns a schema accepting only the string v.
func Literal(v string) StringSchema {
	s := String()
	s.literal = &v
	return s
}

// Min requires at least n characters.
func (s StringSchema) Min(n int) StringSchema {
	s.minLen = n
	return s
}

// Max allows at most n characters.
func (s StringSchema) Max(n int) StringSchema {
	s.maxLen = n
	return s
}

// Length requires exactly n characters.
func (s StringSchema) Length(n int) StringSchema {
	s.exactLen = n
	return s
}

// Refine appends content refinements.
func (s StringSchema) Refine(r ...Refinement) StringSchema {
	s.refinements = append(slices.Clone(s.refinements), r...)
	return s
}

func (s StringSchema) check(value any, path []string, issues *[]Issue) {
	str, ok := value.(string)
	if !ok {
		addIssue(issues, path, typeMismatch("string", value))
		return
	}

	if s.literal != nil {
		if str != *s.literal {
			addIssue(issues, path, fmt.Sprintf("Invalid literal value, expected %q", *s.literal))
		}
		return
	}

	n := utf8.RuneCountInString(str)
	if s.minLen >= 0 && n < s.minLen {
		addIssue(issues, path, fmt.Sprintf("String must contain at least %d character(s)", s.minLen))
	}
	if s.maxLen >= 0 && n > s.maxLen {
		addIssue(issues, path, fmt.Sprintf("String must contain at most %d character(s)", s.maxLen))
	}
	if s.exactLen >= 0 && n != s.exactLen {
		addIssue(issues, path, fmt.Sprintf("String must contain exactly %d character(s)", s.exactLen))
	}

	for _, r := range s.refinements {
		r.Check(str, func(msg string) { addIssue(issues, path, msg) })
	}
}

// Number returns an unconstrained number schema.
func Number() NumberSchema {
	return NumberSchema{}
}

// Int rejects values with a fractional part.
func (s NumberSchema) Int() NumberSchema {
	s.integer = true
	return s
}

// Min sets an inclusive lower bound.
func (s NumberSchema) Min(v float64) NumberSchema {
	s.min = &v
	return s
}

// Max sets an inclusive upper bound.
func (s NumberSchema) Max(v float64) NumberSchema {
	s.max = &v
	return s
}

func (s NumberSchema) check(value any, path []string, issues *[]Issue) {
	f, ok := toFloat(value)
	if !ok {
		if n, isNumber := value.(json.Number); isNumber {
			addIssue(issues, path, "Number "+n.String()+" is out of range")
			return
		}
		addIssue(issues, path, typeMismatch("number", value))
		return
	}

	if s.integer && f != math.Trunc(f) {
		addIssue(issues, path, "Expected integer, received float")
	}
	if s.min != nil && f < *s.min {
		addIssue(issues, path, "Number must be greater than or equal to "+formatFloat(*s.min))
	}
	if s.max != nil && f > *s.max {
		addIssue(issues, path, "Number must be less than or equal to "+formatFloat(*s.max))
	}
}

// Object returns an object schema with the given properties. Unknown
// properties are allowed until Strict is called.
func Object(fields ...Field) ObjectSchema {
	return ObjectSchema{fields: slices.Clone(fields)}
}

// Strict returns a copy of the schema that rejects unknown properties.
func (s ObjectSchema) Strict() ObjectSchema {
	s.strict = true
	return s
}

// Extend returns a copy of the schema with fields added. A field whose name
// is already declared replaces the existing declaration in place.
func (s ObjectSchema) Extend(fields ...Field) ObjectSchema {
	out := slices.Clone(s.fields)
	for _, f := range fields {
		if i := slices.IndexFunc(out, func(e Field) bool { return e.Name == f.Name }); i >= 0 {
			out[i] = f
			continue
		}
		out = append(out, f)
	}
	s.fields = out
	return s
}

// Fields returns the declared properties in declaration order.
func (s ObjectSchema) Fields() []Field {
	return slices.Clone(s.fields)
}

// IsStrict reports whether unknown properties are rejected.
func (s ObjectSchema) IsStrict() bool {
	return s.strict
}

func (s ObjectSchema) check(value any, path []string, issues *[]Issue) {
	obj, ok := value.(map[string]any)
	if !ok {
		addIssue(issues, path, typeMismatch("object", value))
		return
	}

	for _, f := range s.fields {
		v, present := obj[f.Name]
		if !present {
			if !f.Optional {
				addIssue(issues, childPath(path, f.Name), "Required")
			}
			continue
		}
		f.Schema.check(v, childPath(path, f.Name), issues)
	}

	if !s.strict {
		return
	}

	var unknown []string
	for k := range obj {
		if !slices.ContainsFunc(s.fields, func(f Field) bool { return f.Name == k }) {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return
	}
	slices.Sort(unknown)
	addIssue(issues, path, "Unrecognized key(s) in object: '"+strings.Join(unknown, "', '")+"'")
}

// Record returns a schema for objects whose keys satisfy keys and whose
// values satisfy values.
func Record(keys StringSchema, values Schema) RecordSchema {
	return RecordSchema{keys: keys, values: values}
}

func (s RecordSchema) check(value any, path []string, issues *[]Issue) {
	obj, ok := value.(map[string]any)
	if !ok {
		addIssue(issues, path, typeMismatch("object", value))
		return
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		p := childPath(path, k)
		s.keys.check(k, p, issues)
		s.values.check(obj[k], p, issues)
	}
}

// Array returns a schema for arrays of elem.
func Array(elem Schema) ArraySchema {
	return ArraySchema{elem: elem}
}

func (s ArraySchema) check(value any, path []string, issues *[]Issue) {
	arr, ok := value.([]any)
	if !ok {
		addIssue(issues, path, typeMismatch("array", value))
		return
	}

	for i, v := range arr {
		s.elem.check(v, childPath(path, strconv.Itoa(i)), issues)
	}
}

func addIssue(issues *[]Issue, path []string, msg string) {
	*issues = append(*issues, Issue{Path: slices.Clone(path), Message: msg})
}

// childPath never aliases the parent's backing array, so sibling paths
// cannot overwrite each other.
func childPath(path []string, seg string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, seg)
}

func typeMismatch(expected string, value any) string {
	return fmt.Sprintf("Expected %s, received %s", expected, typeName(value))
}

// typeName names the dynamic type of a decoded document value.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case json.Number:
		return "number"
	}
	if _, ok := toFloat(v); ok {
		return "number"
	}
	return fmt.Sprintf("%T", v)
}

// toFloat converts any numeric value produced by the JSON, YAML, TOML or
// CUE decoders to float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n)
	case float32:
		return float64(n), !math.IsNaN(float64(n))
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case *big.Int:
		if n == nil {
			return 0, false
		}
		f, _ := new(big.Float).SetInt(n).Float64()
		return f, true
	case *big.Float:
		if n == nil {
			return 0, false
		}
		f, _ := n.Float64()
		return f, true
	}
	return 0, false
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
