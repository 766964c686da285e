package similarity

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sjlee-dev/labmatch/ai"
	"github.com/sjlee-dev/labmatch/ai/mock"
	"github.com/sjlee-dev/labmatch/core"
)

// axisEmbedder maps texts containing "vision" to one axis and
// everything else to an orthogonal one.
func axisEmbedder() *mock.MockEmbedder {
	vecFor := func(text string) []float32 {
		if strings.Contains(strings.ToLower(text), "vision") {
			return []float32{1, 0, 0}
		}
		return []float32{0, 1, 0}
	}
	m := mock.NewMockEmbedder()
	m.EmbedTextFunc = func(_ context.Context, text string, _ ai.Role) ([]float32, error) {
		return vecFor(text), nil
	}
	m.EmbedTextsFunc = func(_ context.Context, texts []string, _ ai.Role) ([][]float32, error) {
		vectors := make([][]float32, len(texts))
		for i, text := range texts {
			vectors[i] = vecFor(text)
		}
		return vectors, nil
	}
	return m
}

func TestSentenceSimilarity(t *testing.T) {
	ctx := context.Background()

	t.Run("requires embedder", func(t *testing.T) {
		_, err := NewSentenceSimilarity(nil)
		assert.ErrorIs(t, err, ErrEmbedderRequired)
	})

	t.Run("identical text", func(t *testing.T) {
		m, err := NewSentenceSimilarity(mock.NewMockEmbedder())
		require.NoError(t, err)

		got, err := m.Calculate(ctx, "computer vision research", "computer vision research")
		require.NoError(t, err)
		assert.Equal(t, "embedding_cosine", got.Method)
		assert.InDelta(t, 1.0, got.Score, 1e-3)
	})

	t.Run("orthogonal text", func(t *testing.T) {
		m, err := NewSentenceSimilarity(axisEmbedder())
		require.NoError(t, err)

		got, err := m.Calculate(ctx, "vision research", "macroeconomic policy")
		require.NoError(t, err)
		assert.Zero(t, got.Score)
	})

	t.Run("empty sides", func(t *testing.T) {
		m, err := NewSentenceSimilarity(mock.NewMockEmbedder())
		require.NoError(t, err)

		got, err := m.Calculate(ctx, "  ", "reference text")
		require.NoError(t, err)
		assert.Zero(t, got.Score)
		assert.Equal(t, core.MethodEmpty, got.Method)
	})
}

func TestSentenceWithKeyword(t *testing.T) {
	ctx := context.Background()

	t.Run("blends overlap into cosine", func(t *testing.T) {
		// Semantically identical by embedding, zero token overlap:
		// score = 0.7*1.0 + 0.3*0.0
		m, err := NewSentenceWithKeyword(axisEmbedder(), 0.3)
		require.NoError(t, err)

		got, err := m.Calculate(ctx, "vision models", "vision transformers")
		require.NoError(t, err)
		overlap := got.Details["overlap"].(float64)
		assert.InDelta(t, 1.0/3.0, overlap, 1e-9)
		assert.InDelta(t, 0.7+0.3*overlap, got.Score, 1e-6)
	})

	t.Run("identical text scores one", func(t *testing.T) {
		m, err := NewSentenceWithKeyword(mock.NewMockEmbedder(), 0.3)
		require.NoError(t, err)

		got, err := m.Calculate(ctx, "graph neural networks", "graph neural networks")
		require.NoError(t, err)
		assert.InDelta(t, 1.0, got.Score, 1e-3)
	})

	t.Run("invalid weight falls back to default", func(t *testing.T) {
		m, err := NewSentenceWithKeyword(mock.NewMockEmbedder(), 1.5)
		require.NoError(t, err)
		assert.Equal(t, DefaultKeywordOverlapWeight, m.overlapWeight)
	})
}

func TestPortfolioSimilarity(t *testing.T) {
	ctx := context.Background()

	t.Run("short portfolio is one chunk", func(t *testing.T) {
		m, err := NewPortfolioSimilarity(mock.NewMockEmbedder(), 512)
		require.NoError(t, err)

		got, err := m.Calculate(ctx, "built a vision pipeline", "built a vision pipeline")
		require.NoError(t, err)
		assert.Equal(t, 1, got.Details["subject_chunks"])
		assert.Equal(t, 1, got.Details["reference_chunks"])
		assert.InDelta(t, 1.0, got.Score, 1e-3)
	})

	t.Run("long portfolio splits on word boundaries", func(t *testing.T) {
		m, err := NewPortfolioSimilarity(mock.NewMockEmbedder(), 20)
		require.NoError(t, err)

		subject := "one two three four five six seven eight nine ten"
		got, err := m.Calculate(ctx, subject, "reference")
		require.NoError(t, err)
		assert.Greater(t, got.Details["subject_chunks"].(int), 1)
	})

	t.Run("long reference is pooled, not dominated by one chunk", func(t *testing.T) {
		m, err := NewPortfolioSimilarity(axisEmbedder(), 20)
		require.NoError(t, err)

		// First chunk matches the subject's axis, the second is
		// orthogonal; pooling both halves the cosine to sqrt(0.5).
		reference := "vision research lab macroeconomic policy"
		got, err := m.Calculate(ctx, "vision pipeline", reference)
		require.NoError(t, err)
		assert.Equal(t, 2, got.Details["reference_chunks"])
		assert.InDelta(t, math.Sqrt(0.5), got.Score, 1e-6)
	})

	t.Run("reference chunks stay within the size bound", func(t *testing.T) {
		var maxLen int
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextsFunc = func(_ context.Context, texts []string, _ ai.Role) ([][]float32, error) {
			vectors := make([][]float32, len(texts))
			for i, text := range texts {
				if len(text) > maxLen {
					maxLen = len(text)
				}
				vectors[i] = []float32{1, 0, 0}
			}
			return vectors, nil
		}
		m, err := NewPortfolioSimilarity(embedder, 24)
		require.NoError(t, err)

		reference := strings.Repeat("labword ", 40)
		_, err = m.Calculate(ctx, "short subject", reference)
		require.NoError(t, err)
		assert.LessOrEqual(t, maxLen, 24)
	})

	t.Run("zero chunk size falls back to default", func(t *testing.T) {
		m, err := NewPortfolioSimilarity(mock.NewMockEmbedder(), 0)
		require.NoError(t, err)
		assert.Equal(t, DefaultPortfolioChunkSize, m.chunkSize)
	})
}

func TestChunkWords(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		chunkSize int
		want      []string
	}{
		{"fits in one chunk", "short text", 512, []string{"short text"}},
		{"splits at boundary", "aaaa bbbb cccc", 9, []string{"aaaa bbbb", "cccc"}},
		{"oversized word gets own chunk", "aaaa bbbbbbbbbbbb cc", 8, []string{"aaaa", "bbbbbbbbbbbb", "cc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, chunkWords(tt.text, tt.chunkSize))
		})
	}
}
