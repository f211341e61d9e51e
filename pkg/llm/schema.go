package llm

import (
	"fmt"
	"math"
	"sort"

	"google.golang.org/genai"
)

type Type string

const (
	TypeObject  Type = "object"
	TypeArray   Type = "array"
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
)

// Schema is the provider-neutral description of an expected JSON payload.
// Each provider converts it to its own structured-output format.
type Schema struct {
	Type        Type
	Description string
	Enum        []string
	// Minimum and Maximum bound numeric values, inclusive.
	Minimum    *float64
	Maximum    *float64
	Items      *Schema
	Properties map[string]*Schema
	Required   []string
}

// Float returns a pointer to v, for Minimum and Maximum.
func Float(v float64) *float64 {
	return &v
}

// Validate checks a value decoded by encoding/json (map[string]any, []any,
// float64, string, bool) against the schema.
func (s *Schema) Validate(v any) error {
	return s.validate("$", v)
}

func (s *Schema) validate(path string, v any) error {
	switch s.Type {
	case TypeObject:
		obj, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("%s: expected object, got %s", path, describe(v))
		}
		for _, name := range s.Required {
			if _, present := obj[name]; !present {
				return fmt.Errorf("%s: missing required field %q", path, name)
			}
		}
		for _, name := range s.propertyNames() {
			val, present := obj[name]
			if !present || (val == nil && !s.requires(name)) {
				continue
			}
			if err := s.Properties[name].validate(path+"."+name, val); err != nil {
				return err
			}
		}
	case TypeArray:
		arr, ok := v.([]any)
		if !ok {
			return fmt.Errorf("%s: expected array, got %s", path, describe(v))
		}
		if s.Items != nil {
			for i, item := range arr {
				if err := s.Items.validate(fmt.Sprintf("%s[%d]", path, i), item); err != nil {
					return err
				}
			}
		}
	case TypeString:
		str, ok := v.(string)
		if !ok {
			return fmt.Errorf("%s: expected string, got %s", path, describe(v))
		}
		if len(s.Enum) > 0 && !contains(s.Enum, str) {
			return fmt.Errorf("%s: %q is not one of %v", path, str, s.Enum)
		}
	case TypeNumber:
		n, ok := v.(float64)
		if !ok {
			return fmt.Errorf("%s: expected number, got %s", path, describe(v))
		}
		return s.checkRange(path, n)
	case TypeInteger:
		n, ok := v.(float64)
		if !ok || n != math.Trunc(n) {
			return fmt.Errorf("%s: expected integer, got %s", path, describe(v))
		}
		return s.checkRange(path, n)
	case TypeBoolean:
		if _, ok := v.(bool); !ok {
			return fmt.Errorf("%s: expected boolean, got %s", path, describe(v))
		}
	}
	return nil
}

func (s *Schema) checkRange(path string, n float64) error {
	if s.Minimum != nil && n < *s.Minimum {
		return fmt.Errorf("%s: %v is below minimum %v", path, n, *s.Minimum)
	}
	if s.Maximum != nil && n > *s.Maximum {
		return fmt.Errorf("%s: %v is above maximum %v", path, n, *s.Maximum)
	}
	return nil
}

func (s *Schema) requires(name string) bool {
	return contains(s.Required, name)
}

// propertyNames returns property names sorted, so validation errors are stable.
func (s *Schema) propertyNames() []string {
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// JSONSchema renders the schema as a JSON-schema document, used by providers
// that accept raw JSON schema (OpenAI) or need it embedded in the prompt.
func (s *Schema) JSONSchema() map[string]any {
	out := map[string]any{"type": string(s.Type)}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if len(s.Enum) > 0 {
		out["enum"] = s.Enum
	}
	if s.Minimum != nil {
		out["minimum"] = *s.Minimum
	}
	if s.Maximum != nil {
		out["maximum"] = *s.Maximum
	}
	if s.Items != nil {
		out["items"] = s.Items.JSONSchema()
	}
	if len(s.Properties) > 0 {
		props := make(map[string]any, len(s.Properties))
		for name, prop := range s.Properties {
			props[name] = prop.JSONSchema()
		}
		out["properties"] = props
	}
	if len(s.Required) > 0 {
		out["required"] = s.Required
	}
	return out
}

// GenAI converts the schema to the Gemini response schema.
func (s *Schema) GenAI() *genai.Schema {
	out := &genai.Schema{
		Type:        genaiType(s.Type),
		Description: s.Description,
		Enum:        s.Enum,
		Required:    s.Required,
		Minimum:     s.Minimum,
		Maximum:     s.Maximum,
	}
	if s.Items != nil {
		out.Items = s.Items.GenAI()
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = prop.GenAI()
		}
		// Gemini emits fields in this order; keep required ones first.
		out.PropertyOrdering = append(append([]string{}, s.Required...), s.optional()...)
	}
	return out
}

func (s *Schema) optional() []string {
	var out []string
	for _, name := range s.propertyNames() {
		if !s.requires(name) {
			out = append(out, name)
		}
	}
	return out
}

func genaiType(t Type) genai.Type {
	switch t {
	case TypeObject:
		return genai.TypeObject
	case TypeArray:
		return genai.TypeArray
	case TypeString:
		return genai.TypeString
	case TypeNumber:
		return genai.TypeNumber
	case TypeInteger:
		return genai.TypeInteger
	case TypeBoolean:
		return genai.TypeBoolean
	default:
		return genai.TypeUnspecified
	}
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
