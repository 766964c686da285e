package ai_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sjlee-dev/labmatch/ai"
	"github.com/sjlee-dev/labmatch/ai/mock"
)

func TestCachedEmbedder_RequiresInner(t *testing.T) {
	_, err := ai.NewCachedEmbedder(nil)
	assert.ErrorIs(t, err, ai.ErrEmbedderRequired)
}

func TestCachedEmbedder_EmbedText_Caches(t *testing.T) {
	inner := mock.NewMockEmbedder()
	cached, err := ai.NewCachedEmbedder(inner)
	require.NoError(t, err)
	defer cached.Close()

	ctx := context.Background()

	first, err := cached.EmbedText(ctx, "computer vision", ai.RoleQuery)
	require.NoError(t, err)
	cached.Wait()

	second, err := cached.EmbedText(ctx, "computer vision", ai.RoleQuery)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.CallCount(), "second lookup must be served from cache")
}

func TestCachedEmbedder_KeyedByRole(t *testing.T) {
	inner := mock.NewMockEmbedder()
	cached, err := ai.NewCachedEmbedder(inner)
	require.NoError(t, err)
	defer cached.Close()

	ctx := context.Background()

	_, err = cached.EmbedText(ctx, "same text", ai.RoleQuery)
	require.NoError(t, err)
	cached.Wait()

	_, err = cached.EmbedText(ctx, "same text", ai.RolePassage)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.CallCount(), "roles must not share cache entries")
}

func TestCachedEmbedder_EmbedTexts_BatchesOnlyMisses(t *testing.T) {
	inner := mock.NewMockEmbedder()
	cached, err := ai.NewCachedEmbedder(inner)
	require.NoError(t, err)
	defer cached.Close()

	ctx := context.Background()

	warm, err := cached.EmbedText(ctx, "b", ai.RolePassage)
	require.NoError(t, err)
	cached.Wait()

	var missed []string
	inner.EmbedTextsFunc = func(_ context.Context, texts []string, _ ai.Role) ([][]float32, error) {
		missed = texts
		vectors := make([][]float32, len(texts))
		for i := range texts {
			vectors[i] = []float32{1, 0, 0}
		}
		return vectors, nil
	}

	vectors, err := cached.EmbedTexts(ctx, []string{"a", "b", "c"}, ai.RolePassage)
	require.NoError(t, err)
	require.Len(t, vectors, 3)

	assert.Equal(t, []string{"a", "c"}, missed, "cached entry must not be re-embedded")
	assert.Equal(t, warm, vectors[1], "cached vector must keep its slot")
	assert.Equal(t, []float32{1, 0, 0}, vectors[0])
	assert.Equal(t, []float32{1, 0, 0}, vectors[2])
}

func TestCachedEmbedder_ModelIdentity(t *testing.T) {
	inner := mock.NewMockEmbedder()
	cached, err := ai.NewCachedEmbedder(inner)
	require.NoError(t, err)
	defer cached.Close()

	model, version := cached.ModelIdentity()
	assert.Equal(t, "mock-embedder", model)
	assert.Equal(t, 1, version)
}
