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


// Package candidates implements stage-1 candidate generation: hybrid
// BM25 + semantic retrieval with domain-taxonomy score fusion and
// negative-category filtering over a corpus snapshot.
package candidates

import (
	"context"
	"log/slog"
	"math"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/sjlee-dev/labmatch/ai"
	"github.com/sjlee-dev/labmatch/core"
	"github.com/sjlee-dev/labmatch/lexical"
	"github.com/sjlee-dev/labmatch/taxonomy"
)

// Generator produces a ranked candidate shortlist for a query. All of
// its corpus-derived state (lab slice, lexical index, precomputed
// passage embeddings) is built at construction and read-only afterward,
// so a Generator is safe for concurrent use. Corpus reloads construct a
// new Generator rather than mutating an active one.
type Generator struct {
	labs       []*core.LabProfile
	index      *lexical.Index
	embeddings [][]float32
	labCats    [][]string
	embedder   ai.Embedder
	matcher    *taxonomy.Matcher
	config     Config
	pool       *ants.Pool
	logger     *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator) error

// WithConfig replaces the default fusion parameters.
func WithConfig(config Config) Option {
	return func(g *Generator) error {
		if err := config.Validate(); err != nil {
			return err
		}
		g.config = config
		return nil
	}
}

// WithMatcher sets a custom taxonomy matcher.
// Default is taxonomy.NewMatcher() with the built-in dictionary.
func WithMatcher(matcher *taxonomy.Matcher) Option {
	return func(g *Generator) error {
		if matcher != nil {
			g.matcher = matcher
		}
		return nil
	}
}

// WithPoolSize sets the worker pool size for per-item scoring.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(g *Generator) error {
		if size < 1 {
			size = 1
		}
		if g.pool != nil {
			g.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		g.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) error {
		if logger == nil {
			logger = slog.Default()
		}
		g.logger = logger
		return nil
	}
}

// NewGenerator builds a generator over a corpus snapshot: it indexes
// every lab's search text and precomputes passage embeddings in one
// batched encoder call. An embedder failure here is fatal — there is no
// degraded lexical-only mode unless explicitly configured upstream.
func NewGenerator(ctx context.Context, labs []*core.LabProfile, embedder ai.Embedder, opts ...Option) (*Generator, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	g := &Generator{
		labs:     labs,
		embedder: embedder,
		matcher:  taxonomy.NewMatcher(),
		config:   DefaultGeneratorConfig(),
		pool:     pool,
		logger:   slog.Default().With("component", "candidate-generator"),
	}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			g.pool.Release()
			return nil, err
		}
	}

	texts := make([]string, len(labs))
	for i, lab := range labs {
		texts[i] = lab.SearchText()
	}
	g.index = lexical.NewIndex(texts)

	if len(texts) > 0 {
		g.logger.Info("precomputing corpus embeddings", "labs", len(texts))
		embeddings, err := embedder.EmbedTexts(ctx, texts, ai.RolePassage)
		if err != nil {
			g.pool.Release()
			return nil, err
		}
		g.embeddings = embeddings
	}

	g.labCats = make([][]string, len(labs))
	for i := range labs {
		g.labCats[i] = g.matcher.Categories(texts[i])
	}

	return g, nil
}

// Labs returns the corpus snapshot the generator was built over.
func (g *Generator) Labs() []*core.LabProfile {
	return g.labs
}

// Lab returns the profile with the given ID, or nil.
func (g *Generator) Lab(id core.ID) *core.LabProfile {
	for _, lab := range g.labs {
		if lab.Id == id {
			return lab
		}
	}
	return nil
}

// Release frees the worker pool. The generator must not be used after.
func (g *Generator) Release() {
	if g.pool != nil {
		g.pool.Release()
	}
}

// Generate runs the fusion pipeline for one query and returns the
// ranked top-K shortlist with the full per-signal breakdown. An empty
// query or empty corpus yields an empty list, not an error.
func (g *Generator) Generate(ctx context.Context, query core.Query) ([]core.CandidateScore, error) {
	interests := strings.TrimSpace(query.Interests)
	if interests == "" || len(g.labs) == 0 {
		return []core.CandidateScore{}, nil
	}

	// Lexical scores over the whole corpus, log-damped then min-max
	// scaled. The log tames heavy-tailed BM25 scores before the linear
	// scaling step.
	lexRaw := g.index.Scores(interests)
	lexNorm := normalizeLexical(lexRaw)

	// Semantic scores: one query embedding against precomputed passage
	// vectors, floored and rescaled within the surviving band.
	queryVec, err := g.embedder.EmbedText(ctx, interests, ai.RoleQuery)
	if err != nil {
		g.logger.Error("error embedding query", "err", err)
		return nil, err
	}
	semRaw := make([]float64, len(g.labs))
	for i := range g.labs {
		semRaw[i] = ai.Dot(queryVec, g.embeddings[i])
	}
	semScore := rescaleAboveFloor(semRaw, g.config.SimilarityFloor)

	queryCats := g.matcher.Categories(interests)

	// Per-item fusion is independent across labs; fan out on the pool.
	records := make([]core.CandidateScore, len(g.labs))
	var wg sync.WaitGroup
	for i := range g.labs {
		i := i
		wg.Add(1)
		submitErr := g.pool.Submit(func() {
			defer wg.Done()
			records[i] = g.scoreLab(i, interests, lexRaw[i], lexNorm[i], semRaw[i], semScore[i])
		})
		if submitErr != nil {
			// Pool rejected the task (released or overloaded): score inline.
			records[i] = g.scoreLab(i, interests, lexRaw[i], lexNorm[i], semRaw[i], semScore[i])
			wg.Done()
		}
	}
	wg.Wait()

	// Negative filtering and floors.
	kept := make([]core.CandidateScore, 0, len(records))
	for _, record := range records {
		if taxonomy.Disjoint(queryCats, record.MatchedCategories) &&
			record.Combined < g.config.NegativeOverride {
			continue
		}
		if record.Combined < g.config.MinCombined {
			continue
		}
		kept = append(kept, record)
	}

	// Descending by combined score; ties keep corpus order.
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Combined > kept[j].Combined
	})
	if len(kept) > g.config.TopK {
		kept = kept[:g.config.TopK]
	}

	g.logger.Debug("candidates generated",
		"corpus", len(g.labs), "kept", len(kept), "queryCategories", len(queryCats))
	return kept, nil
}

// scoreLab fuses the per-lab signals into one CandidateScore.
func (g *Generator) scoreLab(i int, interests string, lexRaw, lexNorm, semRaw, sem float64) core.CandidateScore {
	lab := g.labs[i]
	domain := g.matcher.Match(interests, lab.SearchText())

	effectiveLex := lexNorm
	if domain > g.config.DomainGate && domain > lexNorm {
		effectiveLex = domain
	}

	combined := effectiveLex*g.config.KeywordWeight + sem*g.config.SemanticWeight

	var sources []string
	if lexNorm > 0 {
		sources = append(sources, "lexical")
	}
	if sem > 0 {
		sources = append(sources, "semantic")
	}
	if domain > 0 {
		sources = append(sources, "domain")
	}

	return core.CandidateScore{
		LabId:             lab.Id,
		LabName:           lab.Name,
		LexicalRaw:        lexRaw,
		LexicalScore:      lexNorm,
		SemanticRaw:       semRaw,
		SemanticScore:     sem,
		DomainScore:       domain,
		MatchedCategories: g.labCats[i],
		Sources:           sources,
		Combined:          combined,
	}
}

// normalizeLexical applies log(1+score) then min-max scales to [0,1].
// Zero variance yields all-zero scores rather than a division error.
func normalizeLexical(raw []float64) []float64 {
	norm := make([]float64, len(raw))
	if len(raw) == 0 {
		return norm
	}

	min, max := math.Inf(1), math.Inf(-1)
	for i, score := range raw {
		damped := math.Log1p(score)
		norm[i] = damped
		if damped < min {
			min = damped
		}
		if damped > max {
			max = damped
		}
	}
	if max == min {
		for i := range norm {
			norm[i] = 0
		}
		return norm
	}
	for i := range norm {
		norm[i] = (norm[i] - min) / (max - min)
	}
	return norm
}

// rescaleAboveFloor zeroes scores below floor and min-max rescales the
// survivors into [0,1], using the floor as the band minimum. A band
// with no spread maps its survivors to 1.0.
func rescaleAboveFloor(raw []float64, floor float64) []float64 {
	out := make([]float64, len(raw))
	max := floor
	for _, score := range raw {
		if score >= floor && score > max {
			max = score
		}
	}
	for i, score := range raw {
		if score < floor {
			continue
		}
		if max > floor {
			out[i] = (score - floor) / (max - floor)
		} else {
			out[i] = 1.0
		}
	}
	return out
}
