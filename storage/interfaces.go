package storage

import (
	"context"

	"github.com/sjlee-dev/labmatch/core"
)

// CorpusRepository persists the lab-profile corpus. Implementations
// must be thread-safe and support concurrent access.
type CorpusRepository interface {
	// PutLabs inserts or replaces lab profiles. Profiles with ID=0 get
	// a content-based ID, so reloading the same corpus is idempotent.
	// Returns the profiles with IDs populated.
	PutLabs(ctx context.Context, labs ...*core.LabProfile) ([]*core.LabProfile, error)

	// GetLab retrieves a single lab profile by ID.
	// Returns ErrNotFound if the profile doesn't exist.
	GetLab(ctx context.Context, id core.ID) (*core.LabProfile, error)

	// ListLabs retrieves the whole corpus, ordered by ID.
	ListLabs(ctx context.Context) ([]*core.LabProfile, error)

	// DeleteLabs removes lab profiles by their IDs.
	// Returns ErrNotFound if any profile doesn't exist.
	DeleteLabs(ctx context.Context, ids ...core.ID) error

	// Count returns the number of stored profiles.
	Count(ctx context.Context) (int, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
