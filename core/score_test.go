package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCriterionScore(t *testing.T) {
	tests := []struct {
		name    string
		score   float64
		wantErr bool
	}{
		{"zero", 0.0, false},
		{"one", 1.0, false},
		{"midpoint", 0.5, false},
		{"negative", -0.01, true},
		{"above one", 1.01, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewCriterionScore(tt.score, "test_method", nil)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrScoreOutOfRange)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.score, got.Score)
			assert.Equal(t, "test_method", got.Method)
		})
	}
}

func TestNewCriterionScore_Details(t *testing.T) {
	got, err := NewCriterionScore(0.7, "embedding_cosine", map[string]any{"cosine": 0.7})
	require.NoError(t, err)
	assert.Equal(t, 0.7, got.Details["cosine"])
}
