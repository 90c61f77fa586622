package advisor

import (
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// editsSchema is the edit exchange schema. Field names are stable wire
// format shared with the generator.
const editsSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["kind", "targetSectionHeader", "suggestedSnippet"],
    "properties": {
      "id": {"type": "string"},
      "kind": {"enum": ["ReplaceSection", "AddItemToSection", "UpdateItemInSection", "AddNewSection"]},
      "targetSectionHeader": {"type": "string", "minLength": 1},
      "contextBefore": {"type": "string"},
      "contextAfter": {"type": "string"},
      "originalSnippet": {"type": "string"},
      "suggestedSnippet": {"type": "string", "minLength": 1},
      "description": {"type": "string"}
    },
    "if": {"properties": {"kind": {"const": "UpdateItemInSection"}}},
    "then": {"required": ["originalSnippet"]}
  }
}`

var (
	editsSchemaOnce     sync.Once
	editsSchemaCompiled *jsonschema.Schema
	editsSchemaErr      error
)

func compiledEditsSchema() (*jsonschema.Schema, error) {
	editsSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("edits.schema.json", strings.NewReader(editsSchema)); err != nil {
			editsSchemaErr = err
			return
		}
		editsSchemaCompiled, editsSchemaErr = compiler.Compile("edits.schema.json")
	})
	return editsSchemaCompiled, editsSchemaErr
}
