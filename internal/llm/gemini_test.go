package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.5-flash"},
		{"gemini-pro", "gemini-2.5-pro"},
		{"gemini-2.0-flash-lite", "gemini-2.0-flash-lite"},
	}
	for _, tt := range tests {
		if got := resolveModel(tt.input, geminiModels); got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildGeminiSchemaTutorReply(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"msg":  map[string]any{"type": "string", "description": "reply text"},
			"tone": map[string]any{"type": "string", "enum": []any{"hint", "explain"}},
			"refs": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "integer"},
			},
		},
		"required": []any{"msg"},
	}

	schema := buildGeminiSchema(def)

	if schema.Type != genai.TypeObject {
		t.Fatalf("type = %s, want OBJECT", schema.Type)
	}
	msg := schema.Properties["msg"]
	if msg == nil || msg.Type != genai.TypeString || msg.Description != "reply text" {
		t.Fatalf("msg property = %+v", msg)
	}
	if got := schema.Properties["tone"].Enum; len(got) != 2 || got[0] != "hint" {
		t.Errorf("tone enum = %v", got)
	}
	if refs := schema.Properties["refs"]; refs.Type != genai.TypeArray || refs.Items.Type != genai.TypeInteger {
		t.Errorf("refs = %+v", refs)
	}
	if len(schema.Required) != 1 || schema.Required[0] != "msg" {
		t.Errorf("required = %v", schema.Required)
	}
}

func TestBuildGeminiContentsRoles(t *testing.T) {
	contents := buildGeminiContents([]Message{
		{Role: RoleUser, Content: "why B?"},
		{Role: RoleAssistant, Content: "because"},
		{Role: RoleUser, Content: "and C?"},
	})
	want := []string{"user", "model", "user"}
	if len(contents) != len(want) {
		t.Fatalf("len = %d, want %d", len(contents), len(want))
	}
	for i, c := range contents {
		if c.Role != want[i] {
			t.Errorf("contents[%d].Role = %q, want %q", i, c.Role, want[i])
		}
	}
}

func TestGeminiGenerate(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "gemini-2.5-flash:generateContent") {
			http.NotFound(w, r)
			return
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"candidates": [{
				"content": {"role": "model", "parts": [{"text": "{\"msg\":\"Think about the units.\"}"}]},
				"finishReason": "STOP"
			}],
			"usageMetadata": {"promptTokenCount": 12, "candidatesTokenCount": 7, "totalTokenCount": 19},
			"modelVersion": "gemini-2.5-flash-001"
		}`)
	}))
	defer srv.Close()

	p, err := NewGeminiProvider(context.Background(), GeminiConfig{
		APIKey:  "test-key",
		Model:   "gemini-flash",
		BaseURL: srv.URL,
	})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	resp, err := p.Generate(context.Background(), Request{
		System:    "You are a tutor.",
		Messages:  []Message{{Role: RoleUser, Content: "why?"}},
		MaxTokens: 100,
		Schema: &Schema{
			Name: "gemini-test-reply",
			Definition: map[string]any{
				"type":       "object",
				"properties": map[string]any{"msg": map[string]any{"type": "string"}},
				"required":   []any{"msg"},
			},
		},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if string(resp.Content) != `{"msg":"Think about the units."}` {
		t.Errorf("content = %s", resp.Content)
	}
	if resp.Model != "gemini-2.5-flash-001" {
		t.Errorf("model = %q", resp.Model)
	}
	if resp.Usage.InputTokens != 12 || resp.Usage.OutputTokens != 7 || resp.Usage.TotalTokens != 19 {
		t.Errorf("usage = %+v", resp.Usage)
	}
	if _, ok := gotBody["systemInstruction"]; !ok {
		t.Error("request carried no system instruction")
	}
}

func TestNewGeminiProviderRequiresKey(t *testing.T) {
	if _, err := NewGeminiProvider(context.Background(), GeminiConfig{}); err == nil {
		t.Fatal("expected error without API key")
	}
}
