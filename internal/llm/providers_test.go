package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
)

var lessonTitleSchema = &Schema{
	Name: "test-title",
	Definition: map[string]any{
		"type":       "object",
		"properties": map[string]any{"title": map[string]any{"type": "string"}},
		"required":   []any{"title"},
	},
}

func jsonHandler(status int, body any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

func anthropicAt(t *testing.T, h http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	p, err := NewAnthropicProvider(BackendConfig{APIKey: "test", Model: "claude-haiku", BaseURL: srv.URL},
		option.WithMaxRetries(0))
	if err != nil {
		t.Fatalf("NewAnthropicProvider: %v", err)
	}
	return p
}

func anthropicMessage(text, stop string) map[string]any {
	return map[string]any{
		"id": "msg_1", "type": "message", "role": "assistant",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
	}
}

func TestAnthropicProvider(t *testing.T) {
	p := anthropicAt(t, jsonHandler(http.StatusOK, anthropicMessage(`{"title":"Articles"}`, "end_turn")))
	if p.Name() != ProviderAnthropic || p.ModelID() != "claude-haiku-4-5-20251001" {
		t.Errorf("Name/ModelID = %q/%q", p.Name(), p.ModelID())
	}

	req := UserPrompt("You write lessons.", "Articles")
	req.MaxTokens = 256
	req.Schema = lessonTitleSchema
	resp, err := p.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Usage.InputTokens != 50 || resp.Usage.TotalTokens != 80 || resp.StopReason != "end" {
		t.Errorf("resp = %+v", resp)
	}
	var out struct{ Title string }
	if err := resp.Decode(&out); err != nil || out.Title != "Articles" {
		t.Errorf("Decode = %+v, %v", out, err)
	}
}

func TestAnthropicProviderTruncatedStructuredOutput(t *testing.T) {
	p := anthropicAt(t, jsonHandler(http.StatusOK, anthropicMessage(`{"title":"Arti`, "max_tokens")))
	req := UserPrompt("", "Articles")
	req.MaxTokens = 8
	req.Schema = lessonTitleSchema

	_, err := p.Generate(context.Background(), req)
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("err = %T (%v), want *ErrMaxTokensExceeded", err, err)
	}
}

func TestAnthropicProviderErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"rate limit", http.StatusTooManyRequests, func(err error) bool {
			var rl *ErrRateLimit
			return errors.As(err, &rl)
		}},
		{"server error", http.StatusInternalServerError, func(err error) bool {
			var u *ErrProviderUnavailable
			return errors.As(err, &u)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := anthropicAt(t, jsonHandler(tt.status, map[string]any{
				"type":  "error",
				"error": map[string]any{"type": "api_error", "message": "nope"},
			}))
			req := UserPrompt("", "x")
			req.MaxTokens = 16
			_, err := p.Generate(context.Background(), req)
			if err == nil || !tt.check(err) {
				t.Fatalf("err = %T (%v)", err, err)
			}
		})
	}
}

func chatCompletion(content, finish string) map[string]any {
	return map[string]any{
		"id": "chatcmpl-1", "object": "chat.completion", "created": 1, "model": "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
	}
}

func openAIAt(t *testing.T, h http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	p, err := NewOpenAIProvider(BackendConfig{APIKey: "test", Model: "gpt-mini", BaseURL: srv.URL + "/v1"})
	if err != nil {
		t.Fatalf("NewOpenAIProvider: %v", err)
	}
	return p
}

func TestOpenAIProvider(t *testing.T) {
	var got struct {
		Messages       []map[string]any `json:"messages"`
		ResponseFormat map[string]any   `json:"response_format"`
	}
	p := openAIAt(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		jsonHandler(http.StatusOK, chatCompletion(`{"title":"Make vs do"}`, "stop"))(w, r)
	})
	if p.ModelID() != "gpt-4o-mini" {
		t.Errorf("ModelID = %q, want gpt-4o-mini", p.ModelID())
	}

	req := UserPrompt("You write lessons.", "make vs do")
	req.Schema = lessonTitleSchema
	resp, err := p.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if resp.Usage.InputTokens != 40 || resp.Usage.OutputTokens != 25 || resp.StopReason != "end" {
		t.Errorf("resp = %+v", resp)
	}
	if len(got.Messages) != 2 || got.Messages[0]["role"] != "system" {
		t.Errorf("messages sent = %+v", got.Messages)
	}
	if got.ResponseFormat["type"] != "json_schema" {
		t.Errorf("response_format = %+v", got.ResponseFormat)
	}
}

func TestOpenAIProviderSchemaViolation(t *testing.T) {
	p := openAIAt(t, jsonHandler(http.StatusOK, chatCompletion(`{"name":"x"}`, "stop")))
	req := UserPrompt("", "x")
	req.Schema = lessonTitleSchema
	_, err := p.Generate(context.Background(), req)
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("err = %T (%v), want *ErrInvalidResponse", err, err)
	}
}

func TestOpenAIProviderRateLimit(t *testing.T) {
	p := openAIAt(t, jsonHandler(http.StatusTooManyRequests, map[string]any{
		"error": map[string]any{"type": "tokens", "message": "slow down", "code": "rate_limit_exceeded"},
	}))
	_, err := p.Generate(context.Background(), UserPrompt("", "x"))
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("err = %T (%v), want *ErrRateLimit", err, err)
	}
}

func TestOpenRouterProvider(t *testing.T) {
	p, err := NewOpenRouterProvider(BackendConfig{APIKey: "sk-or", Model: "gpt-mini"})
	if err != nil {
		t.Fatalf("NewOpenRouterProvider: %v", err)
	}
	if p.Name() != ProviderOpenRouter {
		t.Errorf("Name = %q, want openrouter", p.Name())
	}
	if p.ModelID() != "gpt-mini" {
		t.Errorf("ModelID = %q, want the id passed through", p.ModelID())
	}
	if _, err := NewOpenRouterProvider(BackendConfig{Model: "x"}); err == nil {
		t.Error("expected error without API key")
	}
}

func TestGeminiSchema(t *testing.T) {
	s := geminiSchema(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":  map[string]any{"type": "string", "description": "short"},
			"level":  map[string]any{"type": "string", "enum": []any{"A1", "B2"}},
			"points": map[string]any{"type": "array", "items": map[string]any{"type": "integer"}},
			"odd":    map[string]any{"type": "null"},
		},
		"required": []any{"title"},
	})

	if s.Type != "OBJECT" || len(s.Properties) != 4 {
		t.Fatalf("schema = %+v", s)
	}
	if s.Properties["title"].Description != "short" {
		t.Errorf("description = %q", s.Properties["title"].Description)
	}
	if len(s.Properties["level"].Enum) != 2 {
		t.Errorf("enum = %v", s.Properties["level"].Enum)
	}
	if s.Properties["points"].Items.Type != "INTEGER" {
		t.Errorf("items type = %s", s.Properties["points"].Items.Type)
	}
	if s.Properties["odd"].Type != "STRING" {
		t.Errorf("unknown type maps to %s, want STRING", s.Properties["odd"].Type)
	}
	if len(s.Required) != 1 || s.Required[0] != "title" {
		t.Errorf("required = %v", s.Required)
	}
}

func TestResolveModel(t *testing.T) {
	tests := []struct {
		name    string
		aliases map[string]string
		want    string
	}{
		{"claude-haiku", anthropicAliases, "claude-haiku-4-5-20251001"},
		{"gemini-flash", geminiAliases, "gemini-2.5-flash"},
		{"gpt-mini", openaiAliases, "gpt-4o-mini"},
		{"custom-model-7", openaiAliases, "custom-model-7"},
	}
	for _, tt := range tests {
		if got := resolveModel(tt.name, tt.aliases); got != tt.want {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
