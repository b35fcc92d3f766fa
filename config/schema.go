package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// GenerateSchema generates the JSON Schema for tabs configuration files.
// Extensions are not part of the schema; they are validated by their owners.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		ExpandedStruct:            true,
		FieldNameTag:              "yaml",
	}

	// Mirror of Config without the inline Extensions map.
	type BaseConfig struct {
		Version string                  `yaml:"version,omitempty" jsonschema:"description=Configuration version (e.g. '1.0')"`
		Tabsets map[string]TabsetConfig `yaml:"tabsets,omitempty" jsonschema:"description=Strips keyed by name"`
		Store   StoreConfig             `yaml:"store,omitempty" jsonschema:"description=Ephemeral drag store"`
	}

	schema := r.Reflect(&BaseConfig{})
	schema.Title = "Tabs Configuration"
	schema.Description = "Schema for tabs.yml properties."
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return json.MarshalIndent(schema, "", "  ")
}
