// Package validation validates the portal's JSON columns before they are persisted.
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const workExperiencesSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"properties": {
			"company": {"type": "string"},
			"position": {"type": "string"},
			"location": {"type": "string"},
			"start_date": {"type": "string"},
			"end_date": {"type": "string"},
			"description": {"type": "string"}
		},
		"required": ["company", "position"],
		"additionalProperties": false
	}
}`

const otherLanguagesSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"properties": {
			"language": {"type": "string"},
			"level": {
				"type": "string",
				"enum": ["none", "a1", "a2", "b1", "b2", "c1", "c2", "native"]
			}
		},
		"required": ["language", "level"],
		"additionalProperties": false
	}
}`

const translationsSchema = `{
	"type": "object",
	"patternProperties": {
		"^[a-z]{2}(-[a-z]{2})?$": {
			"type": "object",
			"properties": {
				"title": {"type": "string"},
				"description": {"type": "string"},
				"tasks": {"type": "string"},
				"requirements": {"type": "string"},
				"benefits": {"type": "string"}
			},
			"additionalProperties": false
		}
	},
	"additionalProperties": false
}`

var schemas = map[string]*gojsonschema.Schema{}

func init() {
	for name, raw := range map[string]string{
		"work_experiences": workExperiencesSchema,
		"other_languages":  otherLanguagesSchema,
		"translations":     translationsSchema,
	} {
		s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
		if err != nil {
			panic(fmt.Sprintf("invalid builtin schema %s: %v", name, err))
		}
		schemas[name] = s
	}
}

// ValidateColumn checks a raw JSON document against the named column schema.
func ValidateColumn(column string, raw []byte) error {
	schema, ok := schemas[column]
	if !ok {
		return fmt.Errorf("no schema registered for column %s", column)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("validate %s: %w", column, err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%s: %s", column, strings.Join(msgs, "; "))
}
