package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

var testSchema = &Schema{
	Name: "test-verdict",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score": map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
			"label": map[string]any{"type": "string"},
		},
		"required":             []any{"score", "label"},
		"additionalProperties": false,
	},
}

func TestValidateResponseValid(t *testing.T) {
	raw := json.RawMessage(`{"score": 0.8, "label": "ok"}`)
	if err := validateResponse(testSchema, raw); err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}
}

func TestValidateResponseMissingField(t *testing.T) {
	raw := json.RawMessage(`{"score": 0.8}`)
	err := validateResponse(testSchema, raw)
	var inv *MalformedOutputError
	if !errors.As(err, &inv) {
		t.Fatalf("want MalformedOutputError, got %v", err)
	}
}

func TestValidateResponseMalformedJSON(t *testing.T) {
	raw := json.RawMessage(`{"score": `)
	err := validateResponse(testSchema, raw)
	var inv *MalformedOutputError
	if !errors.As(err, &inv) {
		t.Fatalf("want MalformedOutputError, got %v", err)
	}
}

func TestValidateResponseNilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`not even json`)); err != nil {
		t.Fatalf("nil schema must skip validation, got %v", err)
	}
}

func TestValidateResponseOutOfRange(t *testing.T) {
	raw := json.RawMessage(`{"score": 1.5, "label": "ok"}`)
	err := validateResponse(testSchema, raw)
	var inv *MalformedOutputError
	if !errors.As(err, &inv) {
		t.Fatalf("want MalformedOutputError for out-of-range score, got %v", err)
	}
}
