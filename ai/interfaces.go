package ai

import "context"

// Role selects the input framing for asymmetric retrieval encoders.
// E5-style models are trained with distinct query and passage prefixes
// and lose retrieval quality when both sides use the same framing.
type Role int

const (
	// RoleQuery frames the text as a search query.
	RoleQuery Role = iota + 1
	// RolePassage frames the text as a corpus passage.
	RolePassage
)

// Embedder generates L2-normalized vector embeddings from text.
// Normalized vectors let cosine similarity reduce to a dot product.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a unit-length embedding for a single text
	// string, framed according to role.
	EmbedText(ctx context.Context, text string, role Role) ([]float32, error)

	// EmbedTexts generates unit-length embeddings for multiple text
	// strings in a batch, all framed with the same role. Batching
	// amortizes the cost of the model invocation, which dominates
	// request latency. The returned slice preserves input order.
	EmbedTexts(ctx context.Context, texts []string, role Role) ([][]float32, error)

	// ModelIdentity returns the model name and version the embedder is
	// bound to. Cache keys incorporate both so that vectors from
	// different models or versions never collide.
	ModelIdentity() (name string, version int)
}
