package embed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseEmbedFlag(t *testing.T) {
	tests := []struct {
		flag         string
		wantProvider string
		wantModel    string
		wantErr      bool
	}{
		{"ollama/nomic-embed-text", "ollama", "nomic-embed-text", false},
		{"openai/text-embedding-3-small", "openai", "text-embedding-3-small", false},
		{"ollama/org/some-model", "ollama", "org/some-model", false},
		{"", "", "", true},
		{"noslash", "", "", true},
		{"/model-only", "", "", true},
		{"ollama/", "", "", true},
		{"nope/model", "", "", true},
	}
	for _, tt := range tests {
		cfg, err := ParseEmbedFlag(tt.flag)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseEmbedFlag(%q): expected error", tt.flag)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseEmbedFlag(%q): %v", tt.flag, err)
			continue
		}
		if cfg.Provider != tt.wantProvider || cfg.Model != tt.wantModel {
			t.Errorf("ParseEmbedFlag(%q) = %s/%s, want %s/%s",
				tt.flag, cfg.Provider, cfg.Model, tt.wantProvider, tt.wantModel)
		}
		if cfg.MaxRetries != 3 || cfg.TimeoutSecs != 60 {
			t.Errorf("ParseEmbedFlag(%q) defaults wrong: %+v", tt.flag, cfg)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	valid := Config{Provider: "ollama", Model: "m", Endpoint: "http://x", MaxRetries: 3, TimeoutSecs: 60}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	noKey := valid
	noKey.Provider = "openai"
	if err := noKey.Validate(); err == nil {
		t.Error("openai without API key should be rejected")
	}

	badTimeout := valid
	badTimeout.TimeoutSecs = 0
	if err := badTimeout.Validate(); err == nil {
		t.Error("zero timeout should be rejected")
	}
}

func embedServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient(&Config{
		Provider: "ollama", Model: "test-model", Endpoint: srv.URL,
		MaxRetries: 2, TimeoutSecs: 5,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestEmbedBatch(t *testing.T) {
	c := embedServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("model = %q", req.Model)
		}
		resp := map[string]any{"data": []map[string]any{
			{"embedding": []float32{0, 1, 0}, "index": 1},
			{"embedding": []float32{1, 0, 0}, "index": 0},
		}}
		json.NewEncoder(w).Encode(resp)
	})

	got, err := c.EmbedBatch(context.Background(), []string{"alpha", "beta"})
	if err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	// Out-of-order data entries map back by index.
	if got[0][0] != 1 || got[1][1] != 1 {
		t.Errorf("embeddings misordered: %v", got)
	}
	if c.Dimensions() != 3 {
		t.Errorf("Dimensions = %d, want 3", c.Dimensions())
	}
}

func TestEmbedBatchSkipsEmptyInputs(t *testing.T) {
	c := embedServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req embedRequest
		json.NewDecoder(r.Body).Decode(&req)
		if len(req.Input) != 1 || req.Input[0] != "real" {
			t.Errorf("server saw inputs %v", req.Input)
		}
		resp := map[string]any{"data": []map[string]any{
			{"embedding": []float32{0.5}, "index": 0},
		}}
		json.NewEncoder(w).Encode(resp)
	})

	got, err := c.EmbedBatch(context.Background(), []string{"", "real", "  "})
	if err != nil {
		t.Fatalf("EmbedBatch: %v", err)
	}
	if got[0] != nil || got[2] != nil {
		t.Errorf("empty slots should be nil: %v", got)
	}
	if len(got[1]) != 1 {
		t.Errorf("real slot missing: %v", got)
	}
}

func TestEmbedRetriesThenSucceeds(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		resp := map[string]any{"data": []map[string]any{
			{"embedding": []float32{1, 2}, "index": 0},
		}}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c, err := NewClient(&Config{
		Provider: "ollama", Model: "m", Endpoint: srv.URL,
		MaxRetries: 2, TimeoutSecs: 5,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	vec, err := c.Embed(ctx, "hello")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(vec) != 2 || calls != 2 {
		t.Errorf("vec=%v calls=%d", vec, calls)
	}
}

func TestEmbedExhaustsRetries(t *testing.T) {
	c := embedServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	// Keep the test fast: no retries.
	c.config.MaxRetries = 0

	_, err := c.Embed(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestEmbedEmptyText(t *testing.T) {
	c := embedServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("server should not be called")
	})
	if _, err := c.Embed(context.Background(), "   "); err == nil {
		t.Error("expected error for empty text")
	}
}

func TestEmbedCountMismatch(t *testing.T) {
	c := embedServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{}})
	})
	c.config.MaxRetries = 0
	if _, err := c.Embed(context.Background(), "hello"); err == nil {
		t.Error("expected count mismatch error")
	}
}

func TestHTTPErrorString(t *testing.T) {
	e := &HTTPError{StatusCode: 429, Message: "slow down"}
	want := fmt.Sprintf("HTTP %d: %s", 429, "slow down")
	if e.Error() != want {
		t.Errorf("Error() = %q", e.Error())
	}
}
