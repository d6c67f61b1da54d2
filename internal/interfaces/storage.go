package interfaces

import (
	"context"
	"errors"

	"github.com/ternarybob/vigil/internal/models"
)

// ErrBaselineNotFound is returned when no baseline exists for a check name.
var ErrBaselineNotFound = errors.New("baseline not found")

// MappingStore persists selector mappings. Persistence is an optimization,
// not a correctness requirement: implementations treat unreadable state as
// empty on load, and callers log and continue on write failure.
type MappingStore interface {
	// Load returns all persisted mappings, oldest first.
	Load(ctx context.Context) ([]models.SelectorMapping, error)

	// Append persists one new mapping.
	Append(ctx context.Context, mapping models.SelectorMapping) error

	// Find looks up a mapping by exact original selector. When testFile or
	// testName are non-empty a context-matching mapping is preferred over a
	// selector-only match. Returns nil when nothing matches.
	Find(ctx context.Context, originalSelector, testFile, testName string) (*models.SelectorMapping, error)

	Close() error
}

// BaselineStore persists visual baselines and diff artifacts as PNG files
// keyed by check name.
type BaselineStore interface {
	Load(name string) ([]byte, error)
	Save(name string, png []byte) error
	List() ([]string, error)
	Delete(name string) error
	Clear() error

	// SaveDiff writes a diff artifact and returns its path.
	SaveDiff(name string, png []byte) (string, error)
	ClearDiffs() error
}
