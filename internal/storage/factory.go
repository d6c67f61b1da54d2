package storage

import (
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vigil/internal/common"
	"github.com/ternarybob/vigil/internal/interfaces"
	"github.com/ternarybob/vigil/internal/storage/badger"
	"github.com/ternarybob/vigil/internal/storage/file"
)

// NewMappingStore creates the mapping store backend selected by config.
func NewMappingStore(logger arbor.ILogger, config *common.StorageConfig) (interfaces.MappingStore, error) {
	switch config.Type {
	case "", "file":
		return file.NewMappingStore(config.MappingsPath, logger), nil
	case "badger":
		return badger.NewMappingStore(config.BadgerPath, logger)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s (supported: file, badger)", config.Type)
	}
}

// NewBaselineStore creates the directory-backed visual baseline store.
func NewBaselineStore(logger arbor.ILogger, config *common.VisualConfig) interfaces.BaselineStore {
	return file.NewBaselineStore(config.BaselineDir, config.DiffDir, logger)
}
