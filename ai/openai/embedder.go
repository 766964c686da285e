package openai

import (
	"context"
	"log/slog"

	"github.com/sjlee-dev/labmatch/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// Embedder implements ai.Embedder using OpenAI-compatible embedding APIs.
type Embedder struct {
	embedder embeddings.Embedder
	config   *ai.Config
	logger   *slog.Logger
}

var _ ai.Embedder = (*Embedder)(nil)

// newEmbedder is an internal constructor that returns the concrete type.
func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that
	// don't require authentication.
	client, err := openai.New(
		openai.WithBaseURL(config.EmbeddingHost),
		openai.WithToken("none"),
		openai.WithEmbeddingModel(config.EmbeddingModel),
	)
	if err != nil {
		return nil, err
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	return &Embedder{
		embedder: embedder,
		config:   config,
		logger:   slog.Default().With("component", "openai-embedder"),
	}, nil
}

// NewEmbedder creates a new embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// EmbedText generates a unit-length embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string, role ai.Role) ([]float32, error) {
	e.logger.Debug("generating embedding for single text", "length", len(text))

	vectors, err := e.embedder.EmbedDocuments(ctx, []string{e.config.Frame(text, role)})
	if err != nil {
		e.logger.Error("failed to generate embedding", "err", err)
		return nil, err
	}

	if len(vectors) == 0 {
		e.logger.Warn("embedder returned empty result")
		return []float32{}, nil
	}

	return ai.NormalizeVector(vectors[0]), nil
}

// EmbedTexts generates unit-length embeddings for multiple text strings
// in a batch. All texts are framed with the same role.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string, role ai.Role) ([][]float32, error) {
	e.logger.Debug("generating embeddings for texts", "count", len(texts))

	framed := make([]string, len(texts))
	for i, text := range texts {
		framed[i] = e.config.Frame(text, role)
	}

	vectors, err := e.embedder.EmbedDocuments(ctx, framed)
	if err != nil {
		e.logger.Error("failed to generate embeddings", "count", len(texts), "err", err)
		return nil, err
	}

	for i := range vectors {
		vectors[i] = ai.NormalizeVector(vectors[i])
	}
	return vectors, nil
}

// ModelIdentity returns the configured model name and version.
func (e *Embedder) ModelIdentity() (string, int) {
	return e.config.EmbeddingModel, e.config.EmbeddingVersion
}
