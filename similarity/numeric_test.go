package similarity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sjlee-dev/labmatch/core"
)

func TestLanguageScoreSimilarity(t *testing.T) {
	m := NewLanguageScoreSimilarity()
	ctx := context.Background()

	tests := []struct {
		name       string
		subject    string
		reference  string
		wantScore  float64
		wantMethod string
	}{
		{"meets requirement", "850", "800", 1.0, "above_requirement"},
		{"exactly at requirement", "800", "800", 1.0, "above_requirement"},
		{"close miss decays linearly", "780", "800", 0.9166666667, "linear_decay"},
		{"far below floor", "550", "800", 0.0, "below_floor"},
		{"opic grade meets numeric requirement", "IM2", "800", 1.0, "above_requirement"},
		{"opic grade below requirement", "NL", "800", 0.0, "below_floor"},
		{"opic grade decays", "IL", "800", 0.5833333333, "linear_decay"},
		{"lowercase opic grade", "im2", "800", 1.0, "above_requirement"},
		{"opic requirement", "900", "IH", 1.0, "above_requirement"},
		{"unparseable subject", "abc", "800", 0.0, core.MethodInvalid},
		{"unparseable requirement", "800", "high", 0.0, core.MethodInvalid},
		{"empty subject", "", "800", 0.0, core.MethodEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Calculate(ctx, tt.subject, tt.reference)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantScore, got.Score, 1e-6)
			assert.Equal(t, tt.wantMethod, got.Method)
		})
	}
}

func TestProficiencySimilarity(t *testing.T) {
	m := NewProficiencySimilarity()
	ctx := context.Background()

	tests := []struct {
		name       string
		subject    string
		reference  string
		wantScore  float64
		wantMethod string
	}{
		{"korean meets english requirement", "중", "intermediate", 1.0, "meets_requirement"},
		{"above requirement", "native", "중", 1.0, "meets_requirement"},
		{"small gap", "중하", "중", 0.9, "gap_band"},
		{"medium gap", "beginner", "중", 0.7, "gap_band"},
		{"large gap", "하", "상", 0.0, "gap_band"},
		{"compound label resolves", "native speaker", "중", 1.0, "meets_requirement"},
		{"unknown label", "mysterious", "중", 0.0, core.MethodInvalid},
		{"empty", "", "중", 0.0, core.MethodEmpty},
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

func TestGPASimilarity(t *testing.T) {
	m := NewGPASimilarity()
	ctx := context.Background()

	tests := []struct {
		name       string
		subject    string
		reference  string
		wantScore  float64
		wantMethod string
	}{
		{"meets expectation", "4.0", "3.5", 1.0, "meets_expectation"},
		{"half point gap scores zero", "3.0", "3.5", 0.0, "linear_decay"},
		{"partial gap decays", "3.3", "3.5", 0.6, "linear_decay"},
		{"beyond max gap", "2.5", "3.5", 0.0, "below_range"},
		{"default expectation applies", "3.5", "", 1.0, "meets_expectation"},
		{"above scale", "5.0", "3.5", 0.0, core.MethodInvalid},
		{"negative", "-1", "3.5", 0.0, core.MethodInvalid},
		{"unparseable", "three point five", "3.5", 0.0, core.MethodInvalid},
		{"empty subject", "", "3.5", 0.0, core.MethodEmpty},
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
