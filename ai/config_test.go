package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Frame(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "query: find a lab", cfg.Frame("find a lab", RoleQuery))
	assert.Equal(t, "passage: lab profile", cfg.Frame("lab profile", RolePassage))
	assert.Equal(t, "raw", cfg.Frame("raw", Role(0)))
}

func TestConfig_Normalize(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
	}{
		{"adds v1 suffix", "http://localhost:11434", "http://localhost:11434/v1"},
		{"strips trailing slash", "http://localhost:11434/", "http://localhost:11434/v1"},
		{"keeps existing v1", "http://localhost:11434/v1", "http://localhost:11434/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig(WithHost(tt.host))
			cfg.Normalize()
			assert.Equal(t, tt.want, cfg.EmbeddingHost)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("default is valid", func(t *testing.T) {
		require.NoError(t, DefaultConfig().Validate())
	})

	t.Run("missing host", func(t *testing.T) {
		cfg := NewConfig(WithHost(""))
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing model", func(t *testing.T) {
		cfg := NewConfig(WithEmbeddingModel(""))
		assert.Error(t, cfg.Validate())
	})
}

func TestVectorHelpers(t *testing.T) {
	t.Run("normalize produces unit length", func(t *testing.T) {
		v := NormalizeVector([]float32{3, 4})
		assert.InDelta(t, 0.6, float64(v[0]), 1e-6)
		assert.InDelta(t, 0.8, float64(v[1]), 1e-6)
	})

	t.Run("normalize zero vector", func(t *testing.T) {
		v := NormalizeVector([]float32{0, 0, 0})
		assert.Equal(t, []float32{0, 0, 0}, v)
	})

	t.Run("dot of unit vectors is cosine", func(t *testing.T) {
		assert.InDelta(t, 1.0, Dot([]float32{1, 0}, []float32{1, 0}), 1e-6)
		assert.InDelta(t, 0.0, Dot([]float32{1, 0}, []float32{0, 1}), 1e-6)
	})

	t.Run("dot mismatched lengths", func(t *testing.T) {
		assert.Zero(t, Dot([]float32{1, 0}, []float32{1}))
	})

	t.Run("mean pool renormalizes", func(t *testing.T) {
		pooled := MeanPool([][]float32{{1, 0}, {0, 1}})
		norm := float64(pooled[0]*pooled[0] + pooled[1]*pooled[1])
		assert.InDelta(t, 1.0, norm, 1e-6)
	})

	t.Run("mean pool empty", func(t *testing.T) {
		assert.Nil(t, MeanPool(nil))
	})
}
