package model

import (
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const routeSchemaURL = "route.schema.json"

// routeSchema checks the structural shape of a dataset document only.
const routeSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["route"],
  "properties": {
    "title": {"type": "string"},
    "namespace": {"type": "string", "pattern": "^[^/]+$"},
    "milestone": {"type": "string"},
    "map": {"type": "string"},
    "markers": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["x", "y", "title"],
        "properties": {
          "x": {"type": "number"},
          "y": {"type": "number"},
          "title": {"type": "string"},
          "type": {"type": "string"}
        }
      }
    },
    "route": {"type": "array", "items": {"$ref": "#/definitions/part"}}
  },
  "definitions": {
    "part": {
      "type": "object",
      "required": ["id", "title", "legs"],
      "properties": {
        "id": {"type": "string", "minLength": 1},
        "title": {"type": "string"},
        "legs": {"type": "array", "items": {"$ref": "#/definitions/leg"}}
      }
    },
    "leg": {
      "type": "object",
      "required": ["title", "content"],
      "properties": {
        "id": {"type": "string"},
        "title": {"type": "string"},
        "content": {"type": "array", "items": {"$ref": "#/definitions/item"}}
      }
    },
    "item": {
      "type": "object",
      "required": ["type"],
      "properties": {
        "type": {"enum": ["step", "img", "note"]},
        "id": {"type": "string"},
        "text": {"type": "string"},
        "src": {"type": "string"}
      },
      "allOf": [
        {"if": {"properties": {"type": {"const": "step"}}}, "then": {"required": ["id", "text"], "properties": {"id": {"minLength": 1}}}},
        {"if": {"properties": {"type": {"const": "img"}}}, "then": {"required": ["src"]}},
        {"if": {"properties": {"type": {"const": "note"}}}, "then": {"required": ["text"]}}
      ]
    }
  }
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(routeSchemaURL, strings.NewReader(routeSchema)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		schema, schemaErr = c.Compile(routeSchemaURL)
	})
	return schema, schemaErr
}

func validateShape(doc any) error {
	sch, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		if ve, ok := err.(*jsonschema.ValidationError); ok {
			return fmt.Errorf("invalid route data: %s", firstLeafError(ve))
		}
		return fmt.Errorf("invalid route data: %w", err)
	}
	return nil
}

// firstLeafError digs out the most specific cause; the top-level message only says
// "doesn't validate with route.schema.json#".
func firstLeafError(ve *jsonschema.ValidationError) string {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	loc := ve.InstanceLocation
	if loc == "" {
		loc = "/"
	}
	return loc + ": " + ve.Message
}
