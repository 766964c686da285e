package core

import "fmt"

// Method tags shared by several similarity measures. Measures may also
// report their own, more specific tags.
const (
	MethodInvalid        = "invalid"
	MethodNeutralDefault = "neutral_default"
	MethodEmpty          = "empty"
)

// CriterionScore is a single bounded similarity score together with the
// method that produced it and a detail map for explainability.
type CriterionScore struct {
	Score   float64
	Method  string
	Details map[string]any
}

// NewCriterionScore constructs a CriterionScore, enforcing the range
// invariant at construction. Out-of-range values are an error, never
// silently clamped.
func NewCriterionScore(score float64, method string, details map[string]any) (CriterionScore, error) {
	if score < 0.0 || score > 1.0 {
		return CriterionScore{}, fmt.Errorf("%w: got %v from %s", ErrScoreOutOfRange, score, method)
	}
	return CriterionScore{Score: score, Method: method, Details: details}, nil
}

// ValidateLabProfile validates a LabProfile according to domain rules.
//
// Validation rules:
//   - Name must not be empty
//
// NOT validated:
//   - Sections (any subset may be present)
//   - ID (0 is assigned from content on store insertion)
func ValidateLabProfile(lab *LabProfile) error {
	if lab == nil {
		return fmt.Errorf("%w: profile is nil", ErrInvalidLabProfile)
	}
	if lab.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidLabProfile, ErrEmptyLabName)
	}
	return nil
}
