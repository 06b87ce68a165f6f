package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func TestStripFence(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain json", `{"a":1}`, `{"a":1}`},
		{"surrounding whitespace", "  \n{\"a\":1}\n ", `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"closing fence on same line", "```json\n{\"a\":1}```", `{"a":1}`},
		{"multi-line body", "```json\n{\n  \"a\": 1\n}\n```", "{\n  \"a\": 1\n}"},
		{"fence only", "```", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripFence(tt.raw); got != tt.want {
				t.Errorf("StripFence(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "none"},
		{fmt.Errorf("%w: boom", ErrService), "service"},
		{fmt.Errorf("%w: bad json", ErrMalformed), "malformed"},
		{SchemaError("intensity", "got %d", 11), "schema"},
		{fmt.Errorf("call: %w", context.DeadlineExceeded), "timeout"},
		{fmt.Errorf("%w: signal extraction: %w", ErrService, context.DeadlineExceeded), "timeout"},
		{fmt.Errorf("something else"), "unknown"},
	}

	for _, tt := range tests {
		if got := Kind(tt.err); got != tt.want {
			t.Errorf("Kind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

type sampleBundle struct {
	Mood  string `json:"mood" jsonschema:"enum=calm,enum=tense"`
	Level int    `json:"level" jsonschema:"minimum=1,maximum=10"`
}

func TestSchema_RendersEnumsAndRanges(t *testing.T) {
	out := Schema[sampleBundle]()

	var doc map[string]any
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("schema is not valid JSON: %v", err)
	}
	props, ok := doc["properties"].(map[string]any)
	if !ok {
		t.Fatalf("expected properties object, got %v", doc["properties"])
	}
	if _, ok := props["mood"]; !ok {
		t.Error("expected mood property")
	}
	if !strings.Contains(out, `"tense"`) {
		t.Errorf("expected enum values in schema, got %s", out)
	}
	if !strings.Contains(out, `"maximum": 10`) {
		t.Errorf("expected maximum in schema, got %s", out)
	}
}
