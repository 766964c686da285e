package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/sjlee-dev/labmatch/core"
	"github.com/sjlee-dev/labmatch/storage"
)

// CorpusRepository implements storage.CorpusRepository for BadgerDB.
type CorpusRepository struct {
	backend *Backend
}

var _ storage.CorpusRepository = (*CorpusRepository)(nil)

// NewCorpusRepository creates a new CorpusRepository.
func NewCorpusRepository(backend *Backend) *CorpusRepository {
	return &CorpusRepository{backend: backend}
}

// Close closes the repository. The backend is shared and closed by its
// owner, not here.
func (r *CorpusRepository) Close() error {
	return nil
}

// PutLabs inserts or replaces lab profiles. Profiles with ID=0 get a
// content-based ID derived from the full profile text, so loading the
// same corpus twice writes the same keys.
func (r *CorpusRepository) PutLabs(ctx context.Context, labs ...*core.LabProfile) ([]*core.LabProfile, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, lab := range labs {
			if err := core.ValidateLabProfile(lab); err != nil {
				return err
			}
			if lab.Id == 0 {
				lab.Id = core.IDFromContent(lab.Name + "\x00" + lab.Description + "\x00" + lab.FullText())
			}
			if err := tx.Set(makeLabKey(lab.Id), storage.MarshalLabProfile(lab)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return labs, err
}

// GetLab retrieves a single lab profile by ID.
func (r *CorpusRepository) GetLab(ctx context.Context, id core.ID) (*core.LabProfile, error) {
	var lab *core.LabProfile
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeLabKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			lab, err = storage.UnmarshalLabProfile(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return lab, nil
}

// ListLabs retrieves the whole corpus. Keys are iterated in prefix
// order, which is numeric ID order.
func (r *CorpusRepository) ListLabs(ctx context.Context) ([]*core.LabProfile, error) {
	var labs []*core.LabProfile
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(labRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				lab, err := storage.UnmarshalLabProfile(val)
				if err != nil {
					return err
				}
				labs = append(labs, lab)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return labs, nil
}

// DeleteLabs removes lab profiles by their IDs.
func (r *CorpusRepository) DeleteLabs(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeLabKey(id)
			if _, err := tx.Get(key); errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			} else if err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Count returns the number of stored profiles.
func (r *CorpusRepository) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(labRecordPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}
