package extract

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// ModeInstruction is prepended to the system prompt when the caller requests
// json_object output. Models follow it imperfectly, which is why the
// extraction cascade exists at all.
const ModeInstruction = "CRITICAL: Respond with ONLY valid JSON. " +
	"No explanations, no markdown, no code blocks. " +
	"Start with [ or { and end with ] or }."

// SchemaInstruction builds a JSON-mode instruction that additionally pins the
// response to the JSON Schema reflected from v. Use this when the consumer
// unmarshals the extracted document into a known Go type.
func SchemaInstruction(v any) (string, error) {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}

	schema := reflector.Reflect(v)
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal schema: %w", err)
	}

	return schemaDirective(data), nil
}

// SchemaInstructionJSON builds the same instruction from a caller-supplied
// raw schema, as delivered on the wire by json_schema response formats. The
// schema is parsed so malformed input is rejected before it reaches a prompt.
func SchemaInstructionJSON(raw json.RawMessage) (string, error) {
	var schema jsonschema.Schema
	if err := json.Unmarshal(raw, &schema); err != nil {
		return "", fmt.Errorf("invalid json schema: %w", err)
	}

	data, err := json.MarshalIndent(&schema, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal schema: %w", err)
	}

	return schemaDirective(data), nil
}

func schemaDirective(data []byte) string {
	return ModeInstruction + "\n\nYour response MUST conform to this JSON Schema:\n" + string(data)
}
