package rerank

import "errors"

var (
	// ErrInvalidWeights is returned when a weight configuration fails
	// validation.
	ErrInvalidWeights = errors.New("invalid weight configuration")

	// ErrEmbedderRequired is returned when a scorer is constructed
	// without an embedder.
	ErrEmbedderRequired = errors.New("embedder required")
)
