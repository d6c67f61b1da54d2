// -----------------------------------------------------------------------
// Package file provides the JSON/PNG file-backed stores. Writes are
// load-mutate-write with no cross-process locking; concurrent writers from
// parallel workers can race and lose updates, which is an accepted
// limitation of this backend.
// -----------------------------------------------------------------------

package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vigil/internal/models"
)

// MappingStore persists selector mappings as an append-only JSON list.
type MappingStore struct {
	path   string
	logger arbor.ILogger
	mu     sync.Mutex
}

// NewMappingStore creates a file-backed mapping store.
func NewMappingStore(path string, logger arbor.ILogger) *MappingStore {
	return &MappingStore{path: path, logger: logger}
}

// Load returns all persisted mappings. Missing or unreadable state starts
// from empty rather than failing.
func (s *MappingStore) Load(ctx context.Context) ([]models.SelectorMapping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *MappingStore) load() ([]models.SelectorMapping, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.SelectorMapping{}, nil
		}
		s.logger.Warn().Err(err).Str("path", s.path).Msg("Mapping file unreadable, starting from empty state")
		return []models.SelectorMapping{}, nil
	}

	var mappings []models.SelectorMapping
	if err := json.Unmarshal(data, &mappings); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("Mapping file corrupt, starting from empty state")
		return []models.SelectorMapping{}, nil
	}
	return mappings, nil
}

// Append persists one new mapping.
func (s *MappingStore) Append(ctx context.Context, mapping models.SelectorMapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mappings, _ := s.load()
	mappings = append(mappings, mapping)

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create mappings directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(mappings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal mappings: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write mappings file: %w", err)
	}
	return nil
}

// Find looks up the most recent mapping for the original selector. A
// mapping recorded in the same test context wins over a selector-only
// match.
func (s *MappingStore) Find(ctx context.Context, originalSelector, testFile, testName string) (*models.SelectorMapping, error) {
	mappings, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	var fallback *models.SelectorMapping
	for i := len(mappings) - 1; i >= 0; i-- {
		mapping := mappings[i]
		if mapping.OriginalSelector != originalSelector {
			continue
		}
		if (testFile == "" || mapping.TestFile == testFile) && (testName == "" || mapping.TestName == testName) {
			return &mapping, nil
		}
		if fallback == nil {
			fallback = &mapping
		}
	}
	return fallback, nil
}

func (s *MappingStore) Close() error { return nil }
