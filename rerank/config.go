// Copyright 2025 Labmatch Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package rerank implements stage-2 reranking: multi-criteria scoring
// of shortlisted labs against a structured student profile under a
// validated weight configuration.
package rerank

import "fmt"

// Shared rerank parameters.
const (
	// DefaultMinScoreThreshold drops candidates whose final score falls
	// below this value.
	DefaultMinScoreThreshold = 0.3

	// DefaultRequiredLanguageScore and DefaultRequiredProficiency are
	// the requirement side of the numeric measures when a lab states no
	// explicit requirement.
	DefaultRequiredLanguageScore = "800"
	DefaultRequiredProficiency   = "intermediate"
)

// TierWeights distributes weight across the three scoring tiers.
type TierWeights struct {
	Sentence float64 `yaml:"sentence"`
	Keyword  float64 `yaml:"keyword"`
	Numeric  float64 `yaml:"numeric"`
}

// SentenceWeights distributes the sentence-tier weight across its four
// narrative fields.
type SentenceWeights struct {
	Interest   float64 `yaml:"interest"`
	Experience float64 `yaml:"experience"`
	Goal       float64 `yaml:"goal"`
	Portfolio  float64 `yaml:"portfolio"`
}

// KeywordWeights distributes the keyword-tier weight across its four
// categorical fields.
type KeywordWeights struct {
	Major         float64 `yaml:"major"`
	Certification float64 `yaml:"certification"`
	Award         float64 `yaml:"award"`
	TechStack     float64 `yaml:"tech_stack"`
}

// NumericWeights distributes the numeric-tier weight across its three
// fields.
type NumericWeights struct {
	Language    float64 `yaml:"language"`
	Proficiency float64 `yaml:"proficiency"`
	GPA         float64 `yaml:"gpa"`
}

// ScorerConfig is the full stage-2 weight tree plus the scorer's
// operating parameters. Every weight group must sum to 1.0 within
// tolerance; invalid configurations are rejected at construction, never
// silently renormalized.
type ScorerConfig struct {
	Name string `yaml:"name"`

	Tiers    TierWeights     `yaml:"tiers"`
	Sentence SentenceWeights `yaml:"sentence"`
	Keyword  KeywordWeights  `yaml:"keyword"`
	Numeric  NumericWeights  `yaml:"numeric"`

	// KeywordOverlapWeight blends token overlap into the experience
	// field's hybrid sentence measure.
	KeywordOverlapWeight float64 `yaml:"keyword_overlap_weight"`

	// PortfolioChunkSize bounds portfolio chunk length in characters.
	PortfolioChunkSize int `yaml:"portfolio_chunk_size"`

	// MinScoreThreshold drops candidates below this final score.
	MinScoreThreshold float64 `yaml:"min_score_threshold"`

	// Requirement side of the numeric measures.
	RequiredLanguageScore string `yaml:"required_language_score"`
	RequiredProficiency   string `yaml:"required_proficiency"`
	ExpectedGPA           string `yaml:"expected_gpa"`
}

// DefaultScorerConfig is the balanced preset: narrative fit dominates,
// with moderate keyword and light numeric influence.
func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{
		Name:  "default",
		Tiers: TierWeights{Sentence: 0.6, Keyword: 0.3, Numeric: 0.1},
		Sentence: SentenceWeights{
			Interest: 0.3, Experience: 0.25, Goal: 0.2, Portfolio: 0.25,
		},
		Keyword: KeywordWeights{
			Major: 0.35, Certification: 0.25, Award: 0.2, TechStack: 0.2,
		},
		Numeric: NumericWeights{
			Language: 0.3, Proficiency: 0.3, GPA: 0.4,
		},
		KeywordOverlapWeight:  0.3,
		PortfolioChunkSize:    512,
		MinScoreThreshold:     DefaultMinScoreThreshold,
		RequiredLanguageScore: DefaultRequiredLanguageScore,
		RequiredProficiency:   DefaultRequiredProficiency,
	}
}

// ResearchScorerConfig emphasizes research-interest alignment.
func ResearchScorerConfig() ScorerConfig {
	config := DefaultScorerConfig()
	config.Name = "research"
	config.Tiers = TierWeights{Sentence: 0.5, Keyword: 0.3, Numeric: 0.2}
	config.Sentence = SentenceWeights{
		Interest: 0.4, Experience: 0.2, Goal: 0.15, Portfolio: 0.25,
	}
	return config
}

// SkillScorerConfig emphasizes demonstrated skills and tooling.
func SkillScorerConfig() ScorerConfig {
	config := DefaultScorerConfig()
	config.Name = "skill"
	config.Tiers = TierWeights{Sentence: 0.3, Keyword: 0.45, Numeric: 0.25}
	config.Keyword = KeywordWeights{
		Major: 0.25, Certification: 0.25, Award: 0.15, TechStack: 0.35,
	}
	return config
}

// AcademicScorerConfig emphasizes academic standing.
func AcademicScorerConfig() ScorerConfig {
	config := DefaultScorerConfig()
	config.Name = "academic"
	config.Tiers = TierWeights{Sentence: 0.3, Keyword: 0.3, Numeric: 0.4}
	config.Numeric = NumericWeights{
		Language: 0.25, Proficiency: 0.25, GPA: 0.5,
	}
	return config
}

// ScorerConfigByName resolves a preset name. Unknown names are an
// error, not a silent fallback to the default.
func ScorerConfigByName(name string) (ScorerConfig, error) {
	switch name {
	case "", "default":
		return DefaultScorerConfig(), nil
	case "research":
		return ResearchScorerConfig(), nil
	case "skill":
		return SkillScorerConfig(), nil
	case "academic":
		return AcademicScorerConfig(), nil
	default:
		return ScorerConfig{}, fmt.Errorf("%w: unknown preset %q", ErrInvalidWeights, name)
	}
}

// weightTolerance bounds the acceptable deviation of each weight group
// sum from 1.0.
const weightTolerance = 0.01

// Validate checks every weight group sums to 1.0 within tolerance and
// that the operating parameters are usable.
func (c ScorerConfig) Validate() error {
	groups := []struct {
		name string
		sum  float64
	}{
		{"tiers", c.Tiers.Sentence + c.Tiers.Keyword + c.Tiers.Numeric},
		{"sentence", c.Sentence.Interest + c.Sentence.Experience + c.Sentence.Goal + c.Sentence.Portfolio},
		{"keyword", c.Keyword.Major + c.Keyword.Certification + c.Keyword.Award + c.Keyword.TechStack},
		{"numeric", c.Numeric.Language + c.Numeric.Proficiency + c.Numeric.GPA},
	}
	for _, group := range groups {
		if group.sum < 1.0-weightTolerance || group.sum > 1.0+weightTolerance {
			return fmt.Errorf("%w: %s weights sum to %v, want 1.0", ErrInvalidWeights, group.name, group.sum)
		}
	}
	if c.KeywordOverlapWeight < 0 || c.KeywordOverlapWeight >= 1 {
		return fmt.Errorf("%w: keyword overlap weight must be in [0,1), got %v", ErrInvalidWeights, c.KeywordOverlapWeight)
	}
	if c.PortfolioChunkSize < 1 {
		return fmt.Errorf("%w: portfolio chunk size must be >= 1, got %d", ErrInvalidWeights, c.PortfolioChunkSize)
	}
	if c.MinScoreThreshold < 0 || c.MinScoreThreshold > 1 {
		return fmt.Errorf("%w: min score threshold must be in [0,1], got %v", ErrInvalidWeights, c.MinScoreThreshold)
	}
	return nil
}
