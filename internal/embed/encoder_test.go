package embed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/tda234574534243/law-advisor/internal/model"
)

func testEncoder(t *testing.T, baseURL string) *OpenAIEncoder {
	t.Helper()
	enc, err := NewOpenAIEncoder(model.EmbeddingConfig{
		Enabled: true,
		Model:   "text-embedding-3-small",
		APIKey:  "test-key",
		BaseURL: baseURL,
		Timeout: 5,
	})
	if err != nil {
		t.Fatalf("NewOpenAIEncoder: %v", err)
	}
	return enc
}

func TestEncode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}

		// Out-of-order data entries must be reassembled by index.
		resp := openai.EmbeddingResponse{
			Object: "list",
			Model:  "text-embedding-3-small",
			Data: []openai.Embedding{
				{Index: 1, Embedding: []float32{0, 1}},
				{Index: 0, Embedding: []float32{1, 0}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	enc := testEncoder(t, server.URL)
	vectors, err := enc.Encode(context.Background(), []string{"đất đai", "nhà ở"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(vectors) != 2 {
		t.Fatalf("got %d vectors, want 2", len(vectors))
	}
	if vectors[0][0] != 1 || vectors[1][1] != 1 {
		t.Errorf("vectors out of input order: %v", vectors)
	}
}

func TestEncode_CountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := openai.EmbeddingResponse{
			Object: "list",
			Data:   []openai.Embedding{{Index: 0, Embedding: []float32{1}}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	enc := testEncoder(t, server.URL)
	if _, err := enc.Encode(context.Background(), []string{"a", "b"}); err == nil {
		t.Fatal("expected count mismatch error")
	}
}

func TestEncode_EmptyInput(t *testing.T) {
	enc := testEncoder(t, "http://127.0.0.1:0")
	vectors, err := enc.Encode(context.Background(), nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if vectors != nil {
		t.Errorf("vectors = %v, want nil", vectors)
	}
}

func TestNewOpenAIEncoder_RequiresKey(t *testing.T) {
	if _, err := NewOpenAIEncoder(model.EmbeddingConfig{Model: "m"}); err == nil {
		t.Fatal("expected missing-key error")
	}
}

func TestName(t *testing.T) {
	enc := testEncoder(t, "http://127.0.0.1:0")
	if enc.Name() != "text-embedding-3-small" {
		t.Errorf("Name = %q", enc.Name())
	}
}
