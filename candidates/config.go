package candidates

import "fmt"

// Default fusion parameters. These are the operating points for the
// hybrid retrieval stage; all are overridable per Generator.
const (
	// DefaultSimilarityFloor cuts raw cosine scores below this value to
	// zero. Short-text dense embeddings cluster tightly, so only the
	// upper similarity band carries discriminative signal.
	DefaultSimilarityFloor = 0.70

	// DefaultKeywordWeight and DefaultSemanticWeight blend the lexical
	// and semantic signals into the combined score.
	DefaultKeywordWeight  = 0.5
	DefaultSemanticWeight = 0.5

	// DefaultDomainGate: a taxonomy score above this replaces a weaker
	// lexical score outright. A confident domain match should not be
	// diluted by a weak lexical signal.
	DefaultDomainGate = 0.3

	// DefaultNegativeOverride: candidates whose matched categories are
	// disjoint from the query's are dropped unless the combined score
	// reaches this value.
	DefaultNegativeOverride = 0.8

	// DefaultMinCombined drops candidates below this combined score.
	DefaultMinCombined = 0.05

	// DefaultTopK bounds the returned shortlist.
	DefaultTopK = 15
)

// Config holds the stage-1 fusion parameters.
type Config struct {
	SimilarityFloor  float64
	KeywordWeight    float64
	SemanticWeight   float64
	DomainGate       float64
	NegativeOverride float64
	MinCombined      float64
	TopK             int
}

// DefaultGeneratorConfig returns the default fusion parameters.
func DefaultGeneratorConfig() Config {
	return Config{
		SimilarityFloor:  DefaultSimilarityFloor,
		KeywordWeight:    DefaultKeywordWeight,
		SemanticWeight:   DefaultSemanticWeight,
		DomainGate:       DefaultDomainGate,
		NegativeOverride: DefaultNegativeOverride,
		MinCombined:      DefaultMinCombined,
		TopK:             DefaultTopK,
	}
}

// Validate checks that the configuration is usable. The fusion weights
// must sum to 1.0 within tolerance; they are never renormalized.
func (c Config) Validate() error {
	total := c.KeywordWeight + c.SemanticWeight
	if total < 0.99 || total > 1.01 {
		return fmt.Errorf("%w: keyword + semantic weights must sum to 1.0, got %v", ErrInvalidConfig, total)
	}
	if c.SimilarityFloor < 0 || c.SimilarityFloor >= 1 {
		return fmt.Errorf("%w: similarity floor must be in [0,1), got %v", ErrInvalidConfig, c.SimilarityFloor)
	}
	if c.TopK < 1 {
		return fmt.Errorf("%w: top-k must be >= 1, got %d", ErrInvalidConfig, c.TopK)
	}
	return nil
}
