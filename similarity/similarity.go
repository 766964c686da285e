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


// Package similarity provides the pluggable scorers used by stage-2
// reranking: sentence-level (semantic and hybrid), categorical
// (major, certification, award, tech stack) and numeric/ordinal
// (language score, proficiency, GPA) measures. Every measure produces a
// core.CriterionScore — a bounded [0,1] score, a method tag, and a
// details map for explainability.
package similarity

import (
	"context"

	"github.com/sjlee-dev/labmatch/core"
)

// Measure computes a bounded similarity between a subject value (the
// student side) and a reference value (the lab side). Both are strings;
// list-valued fields are comma-separated, numeric fields are parsed by
// the measure itself. Implementations are immutable after construction
// and safe for concurrent use.
type Measure interface {
	Calculate(ctx context.Context, subject, reference string) (core.CriterionScore, error)
}

// clampUnit maps a raw cosine value into [0,1]. Embedding cosines can
// be marginally negative or exceed 1 by a float ulp; the criterion
// range invariant is enforced at construction, so the mapping happens
// here, visibly, at the measure boundary.
func clampUnit(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
