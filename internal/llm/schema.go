package llm

import "github.com/google/generative-ai-go/genai"

// SchemaType names a JSON type in a ResponseSchema.
type SchemaType string

// Supported schema types.
const (
	TypeObject  SchemaType = "object"
	TypeString  SchemaType = "string"
	TypeNumber  SchemaType = "number"
	TypeInteger SchemaType = "integer"
	TypeBoolean SchemaType = "boolean"
	TypeArray   SchemaType = "array"
)

// ResponseSchema is a provider-neutral description of the JSON shape a model must return.
type ResponseSchema struct {
	Type        SchemaType
	Description string
	Enum        []string
	Items       *ResponseSchema
	Properties  map[string]*ResponseSchema
	Required    []string
}

// toGenaiSchema converts s into the Gemini SDK representation.
func toGenaiSchema(s *ResponseSchema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Type:        toGenaiType(s.Type),
		Description: s.Description,
		Enum:        s.Enum,
		Items:       toGenaiSchema(s.Items),
		Required:    s.Required,
	}
	if s.Type == TypeString && len(s.Enum) > 0 {
		out.Format = "enum"
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
	}
	return out
}

func toGenaiType(t SchemaType) genai.Type {
	switch t {
	case TypeObject:
		return genai.TypeObject
	case TypeString:
		return genai.TypeString
	case TypeNumber:
		return genai.TypeNumber
	case TypeInteger:
		return genai.TypeInteger
	case TypeBoolean:
		return genai.TypeBoolean
	case TypeArray:
		return genai.TypeArray
	default:
		return genai.TypeUnspecified
	}
}
