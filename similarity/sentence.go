package similarity

import (
	"context"
	"strings"

	"github.com/sjlee-dev/labmatch/ai"
	"github.com/sjlee-dev/labmatch/core"
)

// Default parameters for the sentence-level measures.
const (
	// DefaultKeywordOverlapWeight blends token overlap into the hybrid
	// sentence measure: (1-w)*cosine + w*jaccard.
	DefaultKeywordOverlapWeight = 0.3

	// DefaultPortfolioChunkSize bounds the character length of each
	// portfolio chunk before embedding, respecting word boundaries.
	DefaultPortfolioChunkSize = 512
)

// SentenceSimilarity scores two free-text fields by embedding cosine.
// The subject is framed as a query and the reference as a passage, so
// asymmetric encoder prefixes are applied correctly.
type SentenceSimilarity struct {
	embedder ai.Embedder
}

// NewSentenceSimilarity returns a cosine sentence measure.
func NewSentenceSimilarity(embedder ai.Embedder) (*SentenceSimilarity, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	return &SentenceSimilarity{embedder: embedder}, nil
}

// Calculate embeds both texts and returns the clamped cosine. Empty
// input on either side scores 0 with the "empty" tag.
func (s *SentenceSimilarity) Calculate(ctx context.Context, subject, reference string) (core.CriterionScore, error) {
	subject = strings.TrimSpace(subject)
	reference = strings.TrimSpace(reference)
	if subject == "" || reference == "" {
		return core.NewCriterionScore(0.0, core.MethodEmpty, nil)
	}

	cos, err := embedCosine(ctx, s.embedder, subject, reference)
	if err != nil {
		return core.CriterionScore{}, err
	}
	return core.NewCriterionScore(clampUnit(cos), "embedding_cosine", map[string]any{
		"cosine": cos,
	})
}

// SentenceWithKeyword blends embedding cosine with token-set overlap.
// Used for fields where shared terminology matters as much as semantic
// proximity (e.g. technical experience against a methods section).
type SentenceWithKeyword struct {
	embedder      ai.Embedder
	overlapWeight float64
}

// NewSentenceWithKeyword returns the hybrid measure with the given
// overlap weight; weights outside (0,1) fall back to the default.
func NewSentenceWithKeyword(embedder ai.Embedder, overlapWeight float64) (*SentenceWithKeyword, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if overlapWeight <= 0 || overlapWeight >= 1 {
		overlapWeight = DefaultKeywordOverlapWeight
	}
	return &SentenceWithKeyword{embedder: embedder, overlapWeight: overlapWeight}, nil
}

func (s *SentenceWithKeyword) Calculate(ctx context.Context, subject, reference string) (core.CriterionScore, error) {
	subject = strings.TrimSpace(subject)
	reference = strings.TrimSpace(reference)
	if subject == "" || reference == "" {
		return core.NewCriterionScore(0.0, core.MethodEmpty, nil)
	}

	cos, err := embedCosine(ctx, s.embedder, subject, reference)
	if err != nil {
		return core.CriterionScore{}, err
	}
	overlap := jaccard(tokenSet(subject), tokenSet(reference))
	score := (1-s.overlapWeight)*clampUnit(cos) + s.overlapWeight*overlap

	return core.NewCriterionScore(score, "embedding_with_overlap", map[string]any{
		"cosine":  cos,
		"overlap": overlap,
	})
}

// PortfolioSimilarity compares two long-form texts. Both sides are
// chunked at word boundaries, batch-embedded, and mean-pooled into one
// unit vector each before taking the cosine. Pooling both sides keeps a
// single dominant sentence in either text from standing in for the
// whole document.
type PortfolioSimilarity struct {
	embedder  ai.Embedder
	chunkSize int
}

// NewPortfolioSimilarity returns a chunked long-text measure.
// A non-positive chunk size falls back to the default.
func NewPortfolioSimilarity(embedder ai.Embedder, chunkSize int) (*PortfolioSimilarity, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if chunkSize <= 0 {
		chunkSize = DefaultPortfolioChunkSize
	}
	return &PortfolioSimilarity{embedder: embedder, chunkSize: chunkSize}, nil
}

func (p *PortfolioSimilarity) Calculate(ctx context.Context, subject, reference string) (core.CriterionScore, error) {
	subject = strings.TrimSpace(subject)
	reference = strings.TrimSpace(reference)
	if subject == "" || reference == "" {
		return core.NewCriterionScore(0.0, core.MethodEmpty, nil)
	}

	subjectChunks := chunkWords(subject, p.chunkSize)
	subjectVecs, err := p.embedder.EmbedTexts(ctx, subjectChunks, ai.RoleQuery)
	if err != nil {
		return core.CriterionScore{}, err
	}

	referenceChunks := chunkWords(reference, p.chunkSize)
	referenceVecs, err := p.embedder.EmbedTexts(ctx, referenceChunks, ai.RolePassage)
	if err != nil {
		return core.CriterionScore{}, err
	}

	cos := ai.Dot(ai.MeanPool(subjectVecs), ai.MeanPool(referenceVecs))
	return core.NewCriterionScore(clampUnit(cos), "chunked_mean_pool", map[string]any{
		"subject_chunks":   len(subjectChunks),
		"reference_chunks": len(referenceChunks),
		"cosine":           cos,
	})
}

// embedCosine embeds a query/passage pair and returns their cosine.
// Vectors from the embedder are unit-normalized, so the dot product is
// the cosine.
func embedCosine(ctx context.Context, embedder ai.Embedder, subject, reference string) (float64, error) {
	subjectVec, err := embedder.EmbedText(ctx, subject, ai.RoleQuery)
	if err != nil {
		return 0, err
	}
	referenceVec, err := embedder.EmbedText(ctx, reference, ai.RolePassage)
	if err != nil {
		return 0, err
	}
	return ai.Dot(subjectVec, referenceVec), nil
}
