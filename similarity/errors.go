package similarity

import "errors"

var (
	// ErrEmbedderRequired is returned when an embedding-backed measure is
	// constructed without an embedder.
	ErrEmbedderRequired = errors.New("embedder required")
)
