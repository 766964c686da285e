package rerank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresets_AreValid(t *testing.T) {
	presets := []ScorerConfig{
		DefaultScorerConfig(),
		ResearchScorerConfig(),
		SkillScorerConfig(),
		AcademicScorerConfig(),
	}

	for _, preset := range presets {
		t.Run(preset.Name, func(t *testing.T) {
			assert.NoError(t, preset.Validate())
		})
	}
}

func TestScorerConfigByName(t *testing.T) {
	tests := []struct {
		name     string
		preset   string
		wantName string
		wantErr  bool
	}{
		{"default", "default", "default", false},
		{"empty resolves to default", "", "default", false},
		{"research", "research", "research", false},
		{"skill", "skill", "skill", false},
		{"academic", "academic", "academic", false},
		{"unknown", "balanced", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ScorerConfigByName(tt.preset)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidWeights)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, got.Name)
		})
	}
}

func TestScorerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ScorerConfig)
		wantErr bool
	}{
		{"default valid", func(*ScorerConfig) {}, false},
		{"within tolerance", func(c *ScorerConfig) {
			c.Tiers = TierWeights{Sentence: 0.6, Keyword: 0.3, Numeric: 0.105}
		}, false},
		{"tier weights off", func(c *ScorerConfig) {
			c.Tiers = TierWeights{Sentence: 0.7, Keyword: 0.3, Numeric: 0.2}
		}, true},
		{"sentence weights off", func(c *ScorerConfig) {
			c.Sentence.Interest = 0.9
		}, true},
		{"keyword weights off", func(c *ScorerConfig) {
			c.Keyword.Major = 0.0
		}, true},
		{"numeric weights off", func(c *ScorerConfig) {
			c.Numeric.GPA = 0.9
		}, true},
		{"overlap weight out of range", func(c *ScorerConfig) {
			c.KeywordOverlapWeight = 1.0
		}, true},
		{"chunk size zero", func(c *ScorerConfig) {
			c.PortfolioChunkSize = 0
		}, true},
		{"threshold out of range", func(c *ScorerConfig) {
			c.MinScoreThreshold = 1.5
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultScorerConfig()
			tt.mutate(&config)
			err := config.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidWeights)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSkillPresetWeights(t *testing.T) {
	config := SkillScorerConfig()
	assert.Equal(t, TierWeights{Sentence: 0.3, Keyword: 0.45, Numeric: 0.25}, config.Tiers)
	assert.Equal(t, KeywordWeights{Major: 0.25, Certification: 0.25, Award: 0.15, TechStack: 0.35}, config.Keyword)
}

func TestPresetEmphasis(t *testing.T) {
	assert.Greater(t, ResearchScorerConfig().Sentence.Interest,
		DefaultScorerConfig().Sentence.Interest)
	assert.Greater(t, SkillScorerConfig().Keyword.TechStack,
		DefaultScorerConfig().Keyword.TechStack)
	assert.Greater(t, AcademicScorerConfig().Numeric.GPA,
		DefaultScorerConfig().Numeric.GPA)
}
