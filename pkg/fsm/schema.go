package fsm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// diagramSchema is the published structural schema for a diagram file
// (§6). States recursively nest a sub_fsm_data object matching this
// same schema, so the schema is self-referential via $ref.
const diagramSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "$id": "https://fsmcore/schema/diagram.json",
  "$ref": "#/definitions/fsmModel",
  "definitions": {
    "fsmModel": {
      "type": "object",
      "required": ["states", "transitions"],
      "properties": {
        "name": {"type": "string"},
        "states": {"type": "array", "items": {"$ref": "#/definitions/state"}},
        "transitions": {"type": "array", "items": {"$ref": "#/definitions/transition"}},
        "comments": {"type": "array", "items": {"$ref": "#/definitions/comment"}},
        "data_dictionary": {"type": "array", "items": {"$ref": "#/definitions/variable"}},
        "frames": {},
        "displays": {}
      }
    },
    "state": {
      "type": "object",
      "required": ["name"],
      "properties": {
        "name": {"type": "string"},
        "is_initial": {"type": "boolean"},
        "is_final": {"type": "boolean"},
        "entry_action": {"type": "string"},
        "during_action": {"type": "string"},
        "exit_action": {"type": "string"},
        "action_language": {"type": "string"},
        "is_superstate": {"type": "boolean"},
        "sub_fsm_data": {"$ref": "#/definitions/fsmModel"},
        "visual": {"type": "object"}
      }
    },
    "transition": {
      "type": "object",
      "required": ["source", "target"],
      "properties": {
        "source": {"type": "string"},
        "target": {"type": "string"},
        "event": {"type": "string"},
        "condition": {"type": "string"},
        "action": {"type": "string"},
        "action_language": {"type": "string"}
      }
    },
    "comment": {
      "type": "object",
      "properties": {
        "id": {"type": "string"},
        "text": {"type": "string"}
      }
    },
    "variable": {
      "type": "object",
      "required": ["name", "type"],
      "properties": {
        "name": {"type": "string"},
        "type": {"type": "string", "enum": ["int", "float", "bool", "string"]},
        "initial_value": {}
      }
    }
  }
}`

var compiledSchema *jsonschema.Schema

func init() {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("diagram.json", bytes.NewReader([]byte(diagramSchema))); err != nil {
		panic(fmt.Sprintf("fsmcore: invalid embedded diagram schema: %v", err))
	}
	compiledSchema = compiler.MustCompile("diagram.json")
}

// SchemaError reports a schema-invalid raw diagram: a required field
// missing or a type mismatch, located by a JSON-pointer-like path.
type SchemaError struct {
	Path    string
	Message string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidateSchema checks raw bytes against the published diagram schema
// (§6). It does not construct an IR; it only gates malformed input
// before lowering is attempted.
func ValidateSchema(raw []byte) error {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return &SchemaError{Path: "$", Message: err.Error()}
	}
	if err := compiledSchema.Validate(v); err != nil {
		if ve, ok := err.(*jsonschema.ValidationError); ok {
			path, msg := firstLeafError(ve)
			return &SchemaError{Path: path, Message: msg}
		}
		return &SchemaError{Path: "$", Message: err.Error()}
	}
	return nil
}

// firstLeafError descends jsonschema's cause tree along the first
// cause at each level down to a leaf (a more specific validation
// failure than the root), since that is almost always the one a human
// wants reported first.
func firstLeafError(ve *jsonschema.ValidationError) (path, message string) {
	cur := ve
	for len(cur.Causes) > 0 {
		cur = cur.Causes[0]
	}
	return cur.InstanceLocation, cur.Message
}
