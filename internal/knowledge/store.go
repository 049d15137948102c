package knowledge

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/clinique-avenir/voice-receptionist/pkg/logging"
)

const (
	// chunkSize and chunkOverlap control how documents are split before
	// embedding. Overlap keeps sentences that straddle a boundary
	// retrievable from both sides.
	chunkSize    = 500
	chunkOverlap = 50

	// defaultTopK bounds how many chunks feed a spoken answer. Voice
	// responses stay short, so two chunks are plenty.
	defaultTopK = 2
)

// French fallbacks spoken when retrieval cannot produce an answer.
const (
	embeddingUnavailableAnswer = "Je suis désolée, je n'ai pas accès aux informations en ce moment."
	noMatchAnswer              = "Je n'ai pas trouvé d'information pertinente. Pouvez-vous reformuler votre question ?"
)

// Embedder turns texts into vectors. Implemented by GeminiEmbedder in
// production and by fakes in tests.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Store keeps embedded knowledge chunks in memory and supports simple
// cosine retrieval. The corpus is small (one clinic document), so there
// is no need for an external vector database.
type Store struct {
	embedder Embedder
	logger   *logging.Logger

	mu   sync.RWMutex
	docs []document
}

type document struct {
	content   string
	embedding []float32
}

// NewStore creates an empty in-memory store.
func NewStore(embedder Embedder, logger *logging.Logger) *Store {
	if embedder == nil {
		panic("knowledge: embedder cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{embedder: embedder, logger: logger}
}

// AddDocument chunks, embeds and stores one document.
func (s *Store) AddDocument(ctx context.Context, content string) error {
	chunks := ChunkText(content, chunkSize, chunkOverlap)
	if len(chunks) == 0 {
		return nil
	}

	vectors, err := s.embedder.EmbedTexts(ctx, chunks)
	if err != nil {
		return fmt.Errorf("knowledge: embedding document: %w", err)
	}
	if len(vectors) != len(chunks) {
		return errors.New("knowledge: embedding response size mismatch")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, chunk := range chunks {
		s.docs = append(s.docs, document{content: chunk, embedding: vectors[i]})
	}
	return nil
}

// LoadFile reads a knowledge document from disk and ingests it.
func (s *Store) LoadFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("knowledge: reading %s: %w", path, err)
	}
	return s.AddDocument(ctx, string(data))
}

// Search returns the topK most similar chunks for the question.
func (s *Store) Search(ctx context.Context, question string, topK int) ([]string, error) {
	if topK <= 0 {
		topK = defaultTopK
	}

	vectors, err := s.embedder.EmbedTexts(ctx, []string{question})
	if err != nil {
		return nil, fmt.Errorf("knowledge: embedding question: %w", err)
	}
	if len(vectors) == 0 {
		return nil, nil
	}
	queryVec := vectors[0]

	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.docs) == 0 {
		return nil, nil
	}

	type scored struct {
		score   float64
		content string
	}
	results := make([]scored, 0, len(s.docs))
	for _, doc := range s.docs {
		results = append(results, scored{
			score:   cosineSimilarity(queryVec, doc.embedding),
			content: doc.content,
		})
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	limit := topK
	if len(results) < limit {
		limit = len(results)
	}
	out := make([]string, limit)
	for i := 0; i < limit; i++ {
		out[i] = results[i].content
	}
	return out, nil
}

// Answer retrieves context for the question and returns it as a spoken
// reply, falling back to an apology when nothing is retrievable.
func (s *Store) Answer(ctx context.Context, question string) string {
	chunks, err := s.Search(ctx, question, defaultTopK)
	if err != nil {
		s.logger.Warn("knowledge retrieval failed", "error", err)
		return embeddingUnavailableAnswer
	}
	if len(chunks) == 0 {
		return noMatchAnswer
	}
	return strings.Join(chunks, "\n\n")
}

// ChunkText splits text into overlapping rune windows. The last chunk is
// kept even when shorter than size.
func ChunkText(text string, size, overlap int) []string {
	if size <= 0 {
		return nil
	}
	if overlap >= size {
		overlap = size - 1
	}
	if overlap < 0 {
		overlap = 0
	}

	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return nil
	}

	var chunks []string
	step := size - overlap
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(runes) {
			break
		}
	}
	return chunks
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot float64
	var normA float64
	var normB float64
	for i := range a {
		dot += float64(a[i] * b[i])
		normA += float64(a[i] * a[i])
		normB += float64(b[i] * b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
