package extract

import (
	"strings"
	"testing"
)

func TestSchemaInstruction(t *testing.T) {
	type weather struct {
		City    string  `json:"city" jsonschema:"required"`
		TempC   float64 `json:"temp_c"`
		Summary string  `json:"summary"`
	}

	got, err := SchemaInstruction(&weather{})
	if err != nil {
		t.Fatalf("SchemaInstruction: %v", err)
	}
	if !strings.HasPrefix(got, ModeInstruction) {
		t.Fatalf("instruction must start with the base JSON directive")
	}
	for _, field := range []string{"city", "temp_c", "summary"} {
		if !strings.Contains(got, field) {
			t.Fatalf("schema missing field %q:\n%s", field, got)
		}
	}
	if !strings.Contains(got, `"additionalProperties": false`) {
		t.Fatalf("schema must forbid additional properties:\n%s", got)
	}
}

func TestSchemaInstructionJSON(t *testing.T) {
	raw := []byte(`{
		"type": "object",
		"properties": {
			"city": {"type": "string"},
			"temp_c": {"type": "number"}
		},
		"required": ["city"]
	}`)

	got, err := SchemaInstructionJSON(raw)
	if err != nil {
		t.Fatalf("SchemaInstructionJSON: %v", err)
	}
	if !strings.HasPrefix(got, ModeInstruction) {
		t.Fatalf("instruction must start with the base JSON directive")
	}
	for _, field := range []string{"city", "temp_c"} {
		if !strings.Contains(got, field) {
			t.Fatalf("schema missing field %q:\n%s", field, got)
		}
	}
}

func TestSchemaInstructionJSON_Invalid(t *testing.T) {
	if _, err := SchemaInstructionJSON([]byte(`{not a schema`)); err == nil {
		t.Fatalf("SchemaInstructionJSON: want error for malformed schema")
	}
}
