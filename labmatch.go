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

// Package labmatch matches students to research labs in two stages:
// hybrid lexical/semantic candidate generation over a lab-profile
// corpus, followed by multi-criteria reranking of the shortlist against
// a structured student profile.
package labmatch

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/sjlee-dev/labmatch/ai"
	"github.com/sjlee-dev/labmatch/candidates"
	"github.com/sjlee-dev/labmatch/core"
	"github.com/sjlee-dev/labmatch/rerank"
	"github.com/sjlee-dev/labmatch/storage"
)

// ErrNoCorpus is returned by Match and Candidates when the engine has
// no loaded corpus snapshot.
var ErrNoCorpus = errors.New("no corpus loaded")

// snapshot is one immutable serving generation: a generator built over
// a corpus read. Queries run entirely against the snapshot they start
// on, so a concurrent Reload never changes results mid-flight.
type snapshot struct {
	generator *candidates.Generator
}

// Engine is the two-stage matching facade. Construct it once over a
// corpus repository and an embedder; it is safe for concurrent use.
type Engine struct {
	store    storage.CorpusRepository
	embedder *ai.CachedEmbedder
	current  atomic.Pointer[snapshot]
	genOpts  []candidates.Option
	logger   *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine) error

// WithGeneratorOptions passes options through to the candidate
// generator built on every corpus load.
func WithGeneratorOptions(opts ...candidates.Option) EngineOption {
	return func(e *Engine) error {
		e.genOpts = append(e.genOpts, opts...)
		return nil
	}
}

// WithEngineLogger sets a custom logger.
// Default is slog.Default().
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewEngine builds an engine over the given corpus repository and
// embedder, wrapping the embedder in a bounded cache, and loads the
// initial corpus snapshot. An empty corpus is valid; Match returns
// empty results until labs are stored and Reload is called.
func NewEngine(ctx context.Context, store storage.CorpusRepository, embedder ai.Embedder, opts ...EngineOption) (*Engine, error) {
	cached, err := ai.NewCachedEmbedder(embedder)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		store:    store,
		embedder: cached,
		logger:   slog.Default().With("component", "engine"),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			cached.Close()
			return nil, err
		}
	}

	if err := e.Reload(ctx); err != nil {
		cached.Close()
		return nil, err
	}
	return e, nil
}

// Reload reads the corpus from storage and builds a fresh snapshot.
// The swap is all-or-nothing: on any failure the previous snapshot
// stays in service and the error is returned.
func (e *Engine) Reload(ctx context.Context) error {
	labs, err := e.store.ListLabs(ctx)
	if err != nil {
		e.logger.Error("corpus read failed, keeping current snapshot", "err", err)
		return err
	}

	generator, err := candidates.NewGenerator(ctx, labs, e.embedder, e.genOpts...)
	if err != nil {
		e.logger.Error("snapshot build failed, keeping current snapshot", "err", err)
		return err
	}

	old := e.current.Swap(&snapshot{generator: generator})
	if old != nil {
		old.generator.Release()
	}
	e.logger.Info("corpus snapshot loaded", "labs", len(labs))
	return nil
}

// Candidates runs stage 1 only and returns the ranked shortlist with
// the per-signal score breakdown.
func (e *Engine) Candidates(ctx context.Context, query core.Query) ([]core.CandidateScore, error) {
	snap := e.current.Load()
	if snap == nil {
		return nil, ErrNoCorpus
	}
	return snap.generator.Generate(ctx, query)
}

// Match runs the full two-stage pipeline under a named weight preset.
func (e *Engine) Match(ctx context.Context, profile core.StudentProfile, preset string, topK int) ([]core.FinalScore, error) {
	config, err := rerank.ScorerConfigByName(preset)
	if err != nil {
		return nil, err
	}
	return e.MatchWithConfig(ctx, profile, config, topK)
}

// MatchWithConfig runs the full two-stage pipeline under an explicit
// weight configuration. The configuration is validated before any
// scoring happens.
func (e *Engine) MatchWithConfig(ctx context.Context, profile core.StudentProfile, config rerank.ScorerConfig, topK int) ([]core.FinalScore, error) {
	snap := e.current.Load()
	if snap == nil {
		return nil, ErrNoCorpus
	}

	shortlist, err := snap.generator.Generate(ctx, core.Query{Interests: profile.Interests})
	if err != nil {
		return nil, err
	}
	if len(shortlist) == 0 {
		return []core.FinalScore{}, nil
	}

	labs := make([]*core.LabProfile, 0, len(shortlist))
	for _, candidate := range shortlist {
		if lab := snap.generator.Lab(candidate.LabId); lab != nil {
			labs = append(labs, lab)
		}
	}

	scorer, err := rerank.NewScorer(e.embedder, rerank.WithConfig(config), rerank.WithLogger(e.logger))
	if err != nil {
		return nil, err
	}
	return scorer.Rerank(ctx, profile, labs, topK)
}

// Store returns the underlying corpus repository.
func (e *Engine) Store() storage.CorpusRepository {
	return e.store
}

// Close releases the active snapshot, the embedding cache and the
// corpus repository.
func (e *Engine) Close() error {
	if snap := e.current.Swap(nil); snap != nil {
		snap.generator.Release()
	}
	e.embedder.Close()

	if err := e.store.Close(); err != nil {
		e.logger.Error("error closing corpus repository", "err", err)
		return err
	}
	return nil
}
