package similarity

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/sjlee-dev/labmatch/core"
)

// opicGrades maps speaking-test grades onto the numeric scale shared
// with written test scores, so both kinds of input compare against the
// same requirement.
var opicGrades = map[string]float64{
	"AL":  990,
	"IH":  900,
	"IM3": 850,
	"IM2": 800,
	"IM1": 750,
	"IL":  700,
	"NH":  650,
	"NM":  600,
	"NL":  550,
}

// Language score decay parameters: scores at or above the requirement
// are a full match; below it, the ratio decays linearly to zero at
// languageRatioFloor of the requirement.
const (
	languageRatioFloor = 0.7
	languageDecayRange = 0.3
)

// LanguageScoreSimilarity compares a standardized language test score
// (numeric, e.g. "850", or a speaking grade, e.g. "IM2") against a
// required score. Unparseable input scores 0.0 with the "invalid" tag
// rather than erroring, so one bad field never aborts a full rerank.
type LanguageScoreSimilarity struct{}

// NewLanguageScoreSimilarity returns the language score measure.
func NewLanguageScoreSimilarity() *LanguageScoreSimilarity {
	return &LanguageScoreSimilarity{}
}

func (l *LanguageScoreSimilarity) Calculate(_ context.Context, subject, reference string) (core.CriterionScore, error) {
	subject = strings.TrimSpace(subject)
	reference = strings.TrimSpace(reference)
	if subject == "" || reference == "" {
		return core.NewCriterionScore(0.0, core.MethodEmpty, nil)
	}

	score, ok := parseLanguageScore(subject)
	if !ok {
		return core.NewCriterionScore(0.0, core.MethodInvalid, map[string]any{
			"raw": subject,
		})
	}
	required, ok := parseLanguageScore(reference)
	if !ok || required <= 0 {
		return core.NewCriterionScore(0.0, core.MethodInvalid, map[string]any{
			"raw": reference,
		})
	}

	if score >= required {
		return core.NewCriterionScore(1.0, "above_requirement", map[string]any{
			"score": score, "required": required,
		})
	}

	ratio := score / required
	if ratio < languageRatioFloor {
		return core.NewCriterionScore(0.0, "below_floor", map[string]any{
			"score": score, "required": required, "ratio": ratio,
		})
	}
	value := (ratio - languageRatioFloor) / languageDecayRange
	return core.NewCriterionScore(value, "linear_decay", map[string]any{
		"score": score, "required": required, "ratio": ratio,
	})
}

func parseLanguageScore(raw string) (float64, bool) {
	if value, err := strconv.ParseFloat(raw, 64); err == nil {
		return value, true
	}
	if value, ok := opicGrades[strings.ToUpper(raw)]; ok {
		return value, true
	}
	return 0, false
}

// proficiencyLevels maps spoken-proficiency labels to an ordinal scale.
// Korean labels and their English counterparts share the same scale.
var proficiencyLevels = map[string]float64{
	"상":            1.0,
	"중상":           0.85,
	"중":            0.7,
	"중하":           0.55,
	"하":            0.4,
	"native":       1.0,
	"fluent":       1.0,
	"advanced":     0.85,
	"intermediate": 0.7,
	"beginner":     0.4,
}

// proficiencyGapBands maps the ordinal gap below the requirement to a
// score: near misses keep most of the credit, large gaps get none.
var proficiencyGapBands = []struct {
	maxGap float64
	score  float64
}{
	{0.15, 0.9},
	{0.30, 0.7},
	{0.45, 0.4},
}

// ProficiencySimilarity compares spoken proficiency levels on the
// ordinal ladder: meeting the requirement is a full match, shortfalls
// are banded by gap size.
type ProficiencySimilarity struct{}

// NewProficiencySimilarity returns the proficiency measure.
func NewProficiencySimilarity() *ProficiencySimilarity {
	return &ProficiencySimilarity{}
}

func (p *ProficiencySimilarity) Calculate(_ context.Context, subject, reference string) (core.CriterionScore, error) {
	subject = strings.TrimSpace(subject)
	reference = strings.TrimSpace(reference)
	if subject == "" || reference == "" {
		return core.NewCriterionScore(0.0, core.MethodEmpty, nil)
	}

	level, ok := parseProficiency(subject)
	if !ok {
		return core.NewCriterionScore(0.0, core.MethodInvalid, map[string]any{
			"raw": subject,
		})
	}
	required, ok := parseProficiency(reference)
	if !ok {
		return core.NewCriterionScore(0.0, core.MethodInvalid, map[string]any{
			"raw": reference,
		})
	}

	if level >= required {
		return core.NewCriterionScore(1.0, "meets_requirement", map[string]any{
			"level": level, "required": required,
		})
	}

	gap := required - level
	for _, band := range proficiencyGapBands {
		if gap <= band.maxGap {
			return core.NewCriterionScore(band.score, "gap_band", map[string]any{
				"level": level, "required": required, "gap": gap,
			})
		}
	}
	return core.NewCriterionScore(0.0, "gap_band", map[string]any{
		"level": level, "required": required, "gap": gap,
	})
}

// parseProficiency resolves a label to its ordinal value. Labels are
// matched by containment in both directions ("upper intermediate"
// matches "intermediate"), preferring longer label keys so compound
// Korean labels are not shadowed by their single-character prefixes.
func parseProficiency(raw string) (float64, bool) {
	raw = strings.ToLower(raw)
	if value, ok := proficiencyLevels[raw]; ok {
		return value, true
	}
	labels := make([]string, 0, len(proficiencyLevels))
	for label := range proficiencyLevels {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if len(labels[i]) != len(labels[j]) {
			return len(labels[i]) > len(labels[j])
		}
		return labels[i] < labels[j]
	})
	for _, label := range labels {
		if strings.Contains(raw, label) || strings.Contains(label, raw) {
			return proficiencyLevels[label], true
		}
	}
	return 0, false
}

// GPA comparison parameters on the 4.5 scale.
const (
	gpaScaleMax        = 4.5
	gpaMaxGap          = 0.5
	DefaultExpectedGPA = 3.5
)

// GPASimilarity compares a GPA against an expected value on the 4.5
// scale: at or above expectation is a full match, the score decays
// linearly over a half-point gap, anything further scores zero. An
// empty reference falls back to the default expectation.
type GPASimilarity struct{}

// NewGPASimilarity returns the GPA measure.
func NewGPASimilarity() *GPASimilarity {
	return &GPASimilarity{}
}

func (g *GPASimilarity) Calculate(_ context.Context, subject, reference string) (core.CriterionScore, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return core.NewCriterionScore(0.0, core.MethodEmpty, nil)
	}

	gpa, err := strconv.ParseFloat(subject, 64)
	if err != nil || gpa < 0 || gpa > gpaScaleMax {
		return core.NewCriterionScore(0.0, core.MethodInvalid, map[string]any{
			"raw": subject,
		})
	}

	expected := DefaultExpectedGPA
	if reference = strings.TrimSpace(reference); reference != "" {
		parsed, err := strconv.ParseFloat(reference, 64)
		if err != nil || parsed < 0 || parsed > gpaScaleMax {
			return core.NewCriterionScore(0.0, core.MethodInvalid, map[string]any{
				"raw": reference,
			})
		}
		expected = parsed
	}

	if gpa >= expected {
		return core.NewCriterionScore(1.0, "meets_expectation", map[string]any{
			"gpa": gpa, "expected": expected,
		})
	}

	gap := expected - gpa
	if gap > gpaMaxGap {
		return core.NewCriterionScore(0.0, "below_range", map[string]any{
			"gpa": gpa, "expected": expected, "gap": gap,
		})
	}
	value := 1.0 - gap/gpaMaxGap
	return core.NewCriterionScore(value, "linear_decay", map[string]any{
		"gpa": gpa, "expected": expected, "gap": gap,
	})
}
