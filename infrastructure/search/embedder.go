// Package search provides semantic retrieval over the corpus: a query is
// embedded with the same model that produced the stored vectors, then
// matched against the embedding table by cosine similarity.
package search

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ccdr-explorer/corpus/internal/config"
)

// Embedder turns query text into a vector comparable with stored
// embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// OpenAIEmbedder embeds queries through the OpenAI embeddings API.
type OpenAIEmbedder struct {
	client *openai.Client
	model  string
}

// NewOpenAIEmbedder creates an OpenAIEmbedder from the search
// configuration.
func NewOpenAIEmbedder(cfg config.SearchConfig) (*OpenAIEmbedder, error) {
	if cfg.APIKey() == "" {
		return nil, errors.New("openai api key is required")
	}
	return &OpenAIEmbedder{
		client: openai.NewClient(cfg.APIKey()),
		model:  cfg.Model(),
	}, nil
}

// Embed returns the embedding vector for text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("create embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("embedding response contained no data")
	}
	vec := make([]float64, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		vec[i] = float64(v)
	}
	return vec, nil
}
