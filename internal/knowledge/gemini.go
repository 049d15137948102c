package knowledge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiEmbedder implements Embedder using Google's Gemini embedding API.
type GeminiEmbedder struct {
	client  *genai.Client
	modelID string
}

// NewGeminiEmbedder creates a new Gemini embedding client.
func NewGeminiEmbedder(ctx context.Context, apiKey, modelID string) (*GeminiEmbedder, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("knowledge: gemini api key is required")
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = "text-embedding-004"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("knowledge: failed to create gemini client: %w", err)
	}

	return &GeminiEmbedder{client: client, modelID: modelID}, nil
}

// EmbedTexts embeds all texts in a single batch request.
func (e *GeminiEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	model := e.client.EmbeddingModel(e.modelID)
	batch := model.NewBatch()
	for _, text := range texts {
		batch.AddContent(genai.Text(text))
	}

	resp, err := model.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("knowledge: gemini embedding failed: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, errors.New("knowledge: gemini returned unexpected embedding count")
	}

	out := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		if emb == nil {
			return nil, errors.New("knowledge: gemini returned an empty embedding")
		}
		out[i] = emb.Values
	}
	return out, nil
}

// Close releases the underlying API client.
func (e *GeminiEmbedder) Close() error {
	return e.client.Close()
}
