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


// Package lexical provides a BM25 relevance index over tokenized corpus
// text. An Index is built once from a corpus snapshot and is read-only
// afterwards, so concurrent scoring needs no locking; a corpus reload
// builds a fresh Index instead of mutating the active one.
package lexical

import "math"

const (
	defaultK1 = 1.5
	defaultB  = 0.75
)

// Index scores documents against a query using term-frequency
// saturation (k1) and document-length normalization (b), with inverse
// document frequency weighting rare terms more heavily.
type Index struct {
	termFreqs []map[string]int
	docLens   []int
	docFreq   map[string]int
	avgDocLen float64
	k1        float64
	b         float64
}

// IndexOption configures an Index at build time.
type IndexOption func(*Index)

// WithK1 sets the term-frequency saturation parameter. Default 1.5.
func WithK1(k1 float64) IndexOption {
	return func(ix *Index) {
		ix.k1 = k1
	}
}

// WithB sets the length-normalization parameter. Default 0.75.
func WithB(b float64) IndexOption {
	return func(ix *Index) {
		ix.b = b
	}
}

// NewIndex builds an index over the given document texts. Document
// order is preserved: Scores returns one score per input document in
// the same order. An empty corpus yields a valid index that scores
// nothing.
func NewIndex(texts []string, opts ...IndexOption) *Index {
	ix := &Index{
		termFreqs: make([]map[string]int, len(texts)),
		docLens:   make([]int, len(texts)),
		docFreq:   make(map[string]int),
		k1:        defaultK1,
		b:         defaultB,
	}
	for _, opt := range opts {
		opt(ix)
	}

	totalLen := 0
	for i, text := range texts {
		tokens := Tokenize(text)
		freqs := make(map[string]int, len(tokens))
		for _, token := range tokens {
			freqs[token]++
		}
		ix.termFreqs[i] = freqs
		ix.docLens[i] = len(tokens)
		totalLen += len(tokens)

		for token := range freqs {
			ix.docFreq[token]++
		}
	}
	if len(texts) > 0 {
		ix.avgDocLen = float64(totalLen) / float64(len(texts))
	}
	return ix
}

// Len returns the number of indexed documents.
func (ix *Index) Len() int {
	return len(ix.termFreqs)
}

// Scores returns the raw BM25 score of every indexed document against
// the query, in corpus order. An empty query or empty index yields
// all-zero scores.
func (ix *Index) Scores(query string) []float64 {
	scores := make([]float64, len(ix.termFreqs))
	if len(ix.termFreqs) == 0 || ix.avgDocLen == 0 {
		return scores
	}

	queryTokens := Tokenize(query)
	if len(queryTokens) == 0 {
		return scores
	}

	n := float64(len(ix.termFreqs))
	for _, token := range queryTokens {
		df, ok := ix.docFreq[token]
		if !ok {
			continue
		}
		idf := math.Log(1 + (n-float64(df)+0.5)/(float64(df)+0.5))

		for i, freqs := range ix.termFreqs {
			tf := float64(freqs[token])
			if tf == 0 {
				continue
			}
			norm := 1 - ix.b + ix.b*float64(ix.docLens[i])/ix.avgDocLen
			scores[i] += idf * tf * (ix.k1 + 1) / (tf + ix.k1*norm)
		}
	}
	return scores
}
