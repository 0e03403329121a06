package llm

import "context"

// LLM is a text-generation backend. When schema is non-nil the provider is
// asked to constrain its answer to a JSON object matching it.
type LLM interface {
	Chat(ctx context.Context, prompt string, schema *Schema) (string, error)
	GetModel() string
}

// Schema is a provider-neutral subset of JSON Schema.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`

	// PropertyOrder keeps object fields in a stable order for providers that
	// honour it; it is not part of the JSON Schema output.
	PropertyOrder []string `json:"-"`
}

const (
	TypeObject = "object"
	TypeString = "string"
	TypeNumber = "number"
	TypeArray  = "array"
)

// strict returns a copy with additionalProperties=false on every object,
// as OpenAI strict structured outputs require.
func (s *Schema) strict() map[string]interface{} {
	if s == nil {
		return nil
	}
	out := map[string]interface{}{"type": s.Type}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if len(s.Enum) > 0 {
		out["enum"] = s.Enum
	}
	if s.Items != nil {
		out["items"] = s.Items.strict()
	}
	if s.Type == TypeObject {
		props := make(map[string]interface{}, len(s.Properties))
		for name, p := range s.Properties {
			props[name] = p.strict()
		}
		out["properties"] = props
		out["required"] = s.Required
		out["additionalProperties"] = false
	}
	return out
}
