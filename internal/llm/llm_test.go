package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseLLMFlag(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantProv string
		wantMod  string
		wantErr  bool
	}{
		{"empty defaults to ollama", "", "ollama", "llama3.1", false},
		{"ollama model", "ollama/mistral", "ollama", "mistral", false},
		{"openai model", "openai/gpt-4o-mini", "openai", "gpt-4o-mini", false},
		{"unknown provider", "anthropic/claude-4", "", "", true},
		{"no slash", "llama3.1", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseLLMFlag(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Provider != tt.wantProv {
				t.Errorf("provider: got %q, want %q", cfg.Provider, tt.wantProv)
			}
			if cfg.Model != tt.wantMod {
				t.Errorf("model: got %q, want %q", cfg.Model, tt.wantMod)
			}
		})
	}
}

func TestNewProviderErrors(t *testing.T) {
	_, err := NewProvider(Config{Provider: "unknown"})
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}

	t.Setenv("OPENAI_API_KEY", "")
	_, err = NewProvider(Config{Provider: "openai"})
	if err == nil {
		t.Fatal("expected error for openai without API key")
	}

	// Ollama needs no key.
	p, err := NewProvider(Config{Provider: "ollama"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name() != "ollama/llama3.1" {
		t.Errorf("unexpected name: %q", p.Name())
	}
}

func TestOllamaProviderComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.Prompt != "test prompt" {
			t.Errorf("unexpected prompt: %q", req.Prompt)
		}
		if req.Stream {
			t.Error("stream should be disabled")
		}
		if req.Format != "json" {
			t.Errorf("format not forwarded: %q", req.Format)
		}

		json.NewEncoder(w).Encode(ollamaResponse{
			Response: `{"name": "John Smith"}`,
			Done:     true,
		})
	}))
	defer server.Close()

	p := &ollamaProvider{model: "llama3.1", baseURL: server.URL}
	result, err := p.Complete(context.Background(), "test prompt", CompletionOpts{
		MaxTokens:   500,
		Temperature: 0.1,
		Format:      "json",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != `{"name": "John Smith"}` {
		t.Errorf("unexpected result: %q", result)
	}
}

func TestOllamaProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"model not found"}`))
	}))
	defer server.Close()

	p := &ollamaProvider{model: "missing", baseURL: server.URL}
	_, err := p.Complete(context.Background(), "test", CompletionOpts{})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestOpenAIProviderComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("bad auth header: %q", r.Header.Get("Authorization"))
		}

		var req oaRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Model != "gpt-4o-mini" {
			t.Errorf("unexpected model: %q", req.Model)
		}
		if req.ResponseFormat == nil || req.ResponseFormat.Type != "json_object" {
			t.Error("json response format not requested")
		}

		resp := oaResponse{
			Choices: []struct {
				Message struct {
					Content string `json:"content"`
				} `json:"message"`
				FinishReason string `json:"finish_reason"`
			}{
				{
					Message: struct {
						Content string `json:"content"`
					}{Content: `{"name": "Jane Doe"}`},
					FinishReason: "stop",
				},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	p := &openaiProvider{apiKey: "test-key", model: "gpt-4o-mini", baseURL: server.URL}
	result, err := p.Complete(context.Background(), "test", CompletionOpts{Format: "json"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != `{"name": "Jane Doe"}` {
		t.Errorf("unexpected result: %q", result)
	}
}

func TestOpenAIProviderSystemPrompt(t *testing.T) {
	var gotMessages int
	var gotSystemRole bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req oaRequest
		json.NewDecoder(r.Body).Decode(&req)
		gotMessages = len(req.Messages)
		for _, m := range req.Messages {
			if m.Role == "system" {
				gotSystemRole = true
			}
		}
		resp := oaResponse{
			Choices: []struct {
				Message struct {
					Content string `json:"content"`
				} `json:"message"`
				FinishReason string `json:"finish_reason"`
			}{
				{Message: struct {
					Content string `json:"content"`
				}{Content: "ok"}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	p := &openaiProvider{apiKey: "test", model: "test", baseURL: server.URL}
	p.Complete(context.Background(), "hello", CompletionOpts{System: "be helpful"})
	if gotMessages != 2 {
		t.Errorf("expected 2 messages (system+user), got %d", gotMessages)
	}
	if !gotSystemRole {
		t.Error("system message not sent")
	}
}

func TestContextCancellation(t *testing.T) {
	serverDone := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(5 * time.Second):
		case <-serverDone:
		}
	}))
	defer func() {
		close(serverDone)
		server.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	p := &ollamaProvider{model: "test", baseURL: server.URL}
	_, err := p.Complete(ctx, "test", CompletionOpts{})
	if err == nil {
		t.Fatal("expected context cancellation error")
	}
}
