package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tabsetSchema = `{
  "type": "object",
  "properties": {
    "category": {"type": "string"},
    "vertical": {"type": "boolean"}
  },
  "required": ["category"],
  "additionalProperties": false
}`

func TestValidator(t *testing.T) {
	v, err := NewValidator("tabset.json", []byte(tabsetSchema))
	require.NoError(t, err)

	t.Run("valid struct", func(t *testing.T) {
		type tabset struct {
			Category string `json:"category"`
			Vertical bool   `json:"vertical"`
		}
		assert.NoError(t, v.Validate(tabset{Category: "c", Vertical: true}))
	})

	t.Run("missing required field", func(t *testing.T) {
		err := v.Validate(map[string]interface{}{"vertical": true})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "schema validation failed")
	})

	t.Run("unknown property", func(t *testing.T) {
		err := v.Validate(map[string]interface{}{"category": "c", "colour": "red"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "colour")
	})
}

func TestNewValidatorRejectsBrokenSchema(t *testing.T) {
	_, err := NewValidator("broken.json", []byte(`{"type": 12}`))
	assert.Error(t, err)
}
