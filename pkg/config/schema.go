package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/invopop/jsonschema"
)

const schemaDraft = "https://json-schema.org/draft/2020-12/schema"

// JSONSchema returns a JSON schema describing the YAML configuration file,
// suitable for editor completion and validation.
func JSONSchema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
		FieldNameTag:               "yaml",
		Mapper:                     schemaMapper,
	}

	schema := reflector.Reflect(&Config{})
	schema.Version = schemaDraft
	schema.Title = "vfsmount Configuration"
	schema.Description = "Mount table, catalog and API server configuration for vfsmount"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to generate schema: %w", err)
	}
	return data, nil
}

var durationType = reflect.TypeOf(time.Duration(0))

// schemaMapper describes durations the way they are written in YAML ("10s").
func schemaMapper(t reflect.Type) *jsonschema.Schema {
	if t == durationType {
		return &jsonschema.Schema{
			Type:        "string",
			Description: "Go duration, e.g. 10s or 1m30s",
			Pattern:     `^([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$`,
		}
	}
	return nil
}
