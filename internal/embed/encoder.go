// Package embed wraps the embedding model behind a small interface so the
// semantic retrieval tier can be disabled, mocked, or pointed at a
// compatible endpoint without touching the engine.
package embed

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/tda234574534243/law-advisor/internal/model"
)

// Encoder turns text into embedding vectors.
type Encoder interface {
	// Name returns the model identifier baked into index artifacts, so a
	// query is always encoded with the model that built the index.
	Name() string

	// Encode returns one vector per input text, in input order.
	Encode(ctx context.Context, texts []string) ([][]float32, error)
}

// OpenAIEncoder implements Encoder with the OpenAI embeddings API.
type OpenAIEncoder struct {
	client  *openai.Client
	modelID string
	timeout time.Duration
}

// NewOpenAIEncoder creates an encoder from config.
func NewOpenAIEncoder(cfg model.EmbeddingConfig) (*OpenAIEncoder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("embedding API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &OpenAIEncoder{
		client:  openai.NewClientWithConfig(clientConfig),
		modelID: cfg.Model,
		timeout: timeout,
	}, nil
}

// Name returns the embedding model identifier.
func (e *OpenAIEncoder) Name() string {
	return e.modelID
}

// Encode embeds a batch of texts.
func (e *OpenAIEncoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.modelID),
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: sent %d, got %d", len(texts), len(resp.Data))
	}

	vectors := make([][]float32, len(resp.Data))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(vectors) {
			return nil, fmt.Errorf("embedding index %d out of range", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}
	return vectors, nil
}
