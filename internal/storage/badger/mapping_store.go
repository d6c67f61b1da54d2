// -----------------------------------------------------------------------
// Package badger provides the transactional mapping store backend for
// deployments running many parallel workers, where the file-backed store's
// lost-update race matters.
// -----------------------------------------------------------------------

package badger

import (
	"context"
	"fmt"
	"sort"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/vigil/internal/models"
)

// MappingStore persists selector mappings in Badger via badgerhold.
type MappingStore struct {
	store  *badgerhold.Store
	logger arbor.ILogger
}

// NewMappingStore opens (or creates) the database at path.
func NewMappingStore(path string, logger arbor.ILogger) (*MappingStore, error) {
	options := badgerhold.DefaultOptions
	options.Options = badgerdb.DefaultOptions(path).WithLogger(nil)

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open mapping database at %s: %w", path, err)
	}
	return &MappingStore{store: store, logger: logger}, nil
}

// Load returns all persisted mappings, oldest first.
func (s *MappingStore) Load(ctx context.Context) ([]models.SelectorMapping, error) {
	var mappings []models.SelectorMapping
	if err := s.store.Find(&mappings, nil); err != nil {
		return nil, fmt.Errorf("failed to load mappings: %w", err)
	}
	sort.Slice(mappings, func(i, j int) bool {
		return mappings[i].Timestamp.Before(mappings[j].Timestamp)
	})
	return mappings, nil
}

// Append persists one new mapping.
func (s *MappingStore) Append(ctx context.Context, mapping models.SelectorMapping) error {
	if err := s.store.Insert(badgerhold.NextSequence(), &mapping); err != nil {
		return fmt.Errorf("failed to insert mapping: %w", err)
	}
	return nil
}

// Find looks up the most recent mapping for the original selector,
// preferring a context match over a selector-only match.
func (s *MappingStore) Find(ctx context.Context, originalSelector, testFile, testName string) (*models.SelectorMapping, error) {
	var mappings []models.SelectorMapping
	query := badgerhold.Where("OriginalSelector").Eq(originalSelector)
	if err := s.store.Find(&mappings, query); err != nil {
		return nil, fmt.Errorf("failed to query mappings: %w", err)
	}
	if len(mappings) == 0 {
		return nil, nil
	}

	sort.Slice(mappings, func(i, j int) bool {
		return mappings[i].Timestamp.After(mappings[j].Timestamp)
	})
	for i := range mappings {
		mapping := mappings[i]
		if (testFile == "" || mapping.TestFile == testFile) && (testName == "" || mapping.TestName == testName) {
			return &mapping, nil
		}
	}
	return &mappings[0], nil
}

func (s *MappingStore) Close() error {
	return s.store.Close()
}
