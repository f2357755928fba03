package types

import "encoding/json"

// ToolSchema defines a tool's interface for model function calling.
// Parameters holds a serialized JSONSchema.
type ToolSchema struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters"`
}

// NewToolSchema builds a tool schema from a JSONSchema parameter descriptor.
func NewToolSchema(name, description string, params *JSONSchema) (ToolSchema, error) {
	raw, err := params.ToJSON()
	if err != nil {
		return ToolSchema{}, err
	}
	return ToolSchema{Name: name, Description: description, Parameters: raw}, nil
}
