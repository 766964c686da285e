package candidates

import "errors"

var (
	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrInvalidConfig is returned when the fusion parameters are invalid.
	ErrInvalidConfig = errors.New("invalid candidate generator config")
)
