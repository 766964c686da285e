package similarity

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sjlee-dev/labmatch/ai"
	"github.com/sjlee-dev/labmatch/ai/mock"
	"github.com/sjlee-dev/labmatch/core"
)

func TestMajorSimilarity(t *testing.T) {
	m := NewMajorSimilarity()
	ctx := context.Background()

	tests := []struct {
		name       string
		subject    string
		reference  string
		wantScore  float64
		wantMethod string
	}{
		{"exact match", "computer science", "computer science", 1.0, "exact_match"},
		{"exact match case insensitive", "Computer Science", "computer science", 1.0, "exact_match"},
		{"same discipline group", "computer science", "software engineering", 0.8, "same_group"},
		{"korean same group", "컴퓨터공학", "소프트웨어학과", 0.8, "same_group"},
		{"substring containment", "applied statistics", "statistics", 0.6, "substring"},
		{"engineering family", "mechanical engineering", "chemical engineering", 0.5, "engineering_family"},
		{"no relation", "economics", "mechanical engineering", 0.0, "no_match"},
		{"empty subject", "", "computer science", 0.0, core.MethodEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Calculate(ctx, tt.subject, tt.reference)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantScore, got.Score, 1e-9)
			assert.Equal(t, tt.wantMethod, got.Method)
		})
	}
}

func TestCertificationSimilarity(t *testing.T) {
	m := NewCertificationSimilarity()
	ctx := context.Background()

	t.Run("exact match with top tier", func(t *testing.T) {
		got, err := m.Calculate(ctx, "정보처리기사", "정보처리기사")
		require.NoError(t, err)
		assert.InDelta(t, 1.0, got.Score, 1e-9)
	})

	t.Run("industrial tier not shadowed by broader keyword", func(t *testing.T) {
		// 산업기사 contains 기사; the longer tier keyword must win.
		got, err := m.Calculate(ctx, "정보처리산업기사", "정보처리산업기사")
		require.NoError(t, err)
		assert.InDelta(t, 0.7, got.Score, 1e-9)
	})

	t.Run("substring match discounted", func(t *testing.T) {
		got, err := m.Calculate(ctx, "산업기사", "기사")
		require.NoError(t, err)
		// substring 0.7 x tier 0.7
		assert.InDelta(t, 0.49, got.Score, 1e-9)
	})

	t.Run("unknown tier gets default weight", func(t *testing.T) {
		got, err := m.Calculate(ctx, "scrum master", "scrum master")
		require.NoError(t, err)
		assert.InDelta(t, 0.3, got.Score, 1e-9)
	})

	t.Run("irrelevant extra certification dilutes the mean", func(t *testing.T) {
		got, err := m.Calculate(ctx, "정보처리기사, 용접기능장", "정보처리기사")
		require.NoError(t, err)
		assert.InDelta(t, 0.5, got.Score, 1e-9)
	})

	t.Run("one held certification covering one requested subject", func(t *testing.T) {
		got, err := m.Calculate(ctx, "정보처리기사", "정보처리기사, 용접기능장")
		require.NoError(t, err)
		assert.InDelta(t, 1.0, got.Score, 1e-9)
	})

	t.Run("empty sides", func(t *testing.T) {
		got, err := m.Calculate(ctx, "", "정보처리기사")
		require.NoError(t, err)
		assert.Zero(t, got.Score)
		assert.Equal(t, core.MethodEmpty, got.Method)
	})
}

func TestAwardSimilarity(t *testing.T) {
	m := NewAwardSimilarity()
	ctx := context.Background()

	t.Run("long descriptions use tfidf cosine", func(t *testing.T) {
		text := "best paper award at international computer vision conference"
		got, err := m.Calculate(ctx, text, text)
		require.NoError(t, err)
		assert.Equal(t, "tfidf_cosine", got.Method)
		assert.InDelta(t, 1.0, got.Score, 1e-6)
	})

	t.Run("unrelated long descriptions score near zero", func(t *testing.T) {
		got, err := m.Calculate(ctx,
			"grand prize in national robotics competition finals",
			"honorable mention for undergraduate poetry anthology")
		require.NoError(t, err)
		assert.Equal(t, "tfidf_cosine", got.Method)
		assert.Less(t, got.Score, 0.2)
	})

	t.Run("short descriptions fall back to token overlap", func(t *testing.T) {
		got, err := m.Calculate(ctx, "best paper", "best paper")
		require.NoError(t, err)
		assert.Equal(t, "token_overlap", got.Method)
		assert.InDelta(t, 1.0, got.Score, 1e-9)
	})

	t.Run("empty", func(t *testing.T) {
		got, err := m.Calculate(ctx, "", "best paper")
		require.NoError(t, err)
		assert.Equal(t, core.MethodEmpty, got.Method)
	})
}

func TestTechStackSimilarity(t *testing.T) {
	ctx := context.Background()

	t.Run("requires embedder", func(t *testing.T) {
		_, err := NewTechStackSimilarity(nil)
		assert.ErrorIs(t, err, ErrEmbedderRequired)
	})

	t.Run("identical stacks", func(t *testing.T) {
		m, err := NewTechStackSimilarity(mock.NewMockEmbedder())
		require.NoError(t, err)

		got, err := m.Calculate(ctx, "PyTorch, Docker, Kubernetes", "pytorch, docker, kubernetes")
		require.NoError(t, err)
		assert.InDelta(t, 1.0, got.Score, 1e-3)
	})

	t.Run("disjoint stacks with orthogonal embeddings", func(t *testing.T) {
		embedder := mock.NewMockEmbedder()
		embedder.EmbedTextsFunc = func(_ context.Context, texts []string, _ ai.Role) ([][]float32, error) {
			vectors := make([][]float32, len(texts))
			for i, text := range texts {
				if strings.Contains(text, "pytorch") {
					vectors[i] = []float32{1, 0, 0}
				} else {
					vectors[i] = []float32{0, 1, 0}
				}
			}
			return vectors, nil
		}
		m, err := NewTechStackSimilarity(embedder)
		require.NoError(t, err)

		got, err := m.Calculate(ctx, "pytorch", "excel")
		require.NoError(t, err)
		assert.InDelta(t, 0.0, got.Score, 1e-9)
	})

	t.Run("partial overlap dominated by jaccard term", func(t *testing.T) {
		m, err := NewTechStackSimilarity(mock.NewMockEmbedder())
		require.NoError(t, err)

		got, err := m.Calculate(ctx, "pytorch, docker", "pytorch, kubernetes")
		require.NoError(t, err)
		// jaccard = 1/3; embedding term adds at most 0.4 on top
		assert.Greater(t, got.Score, 0.6*1.0/3.0)
		assert.Less(t, got.Score, 1.0)
	})

	t.Run("empty list", func(t *testing.T) {
		m, err := NewTechStackSimilarity(mock.NewMockEmbedder())
		require.NoError(t, err)

		got, err := m.Calculate(ctx, " , ", "pytorch")
		require.NoError(t, err)
		assert.Equal(t, core.MethodEmpty, got.Method)
	})
}
