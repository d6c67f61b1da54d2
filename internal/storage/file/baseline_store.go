package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/vigil/internal/interfaces"
)

// BaselineStore keeps baselines and diff artifacts as PNG files keyed by
// check name.
type BaselineStore struct {
	baselineDir string
	diffDir     string
	logger      arbor.ILogger
}

// NewBaselineStore creates a directory-backed baseline store.
func NewBaselineStore(baselineDir, diffDir string, logger arbor.ILogger) *BaselineStore {
	return &BaselineStore{
		baselineDir: baselineDir,
		diffDir:     diffDir,
		logger:      logger,
	}
}

func (s *BaselineStore) baselinePath(name string) string {
	return filepath.Join(s.baselineDir, sanitizeName(name)+".png")
}

func (s *BaselineStore) diffPath(name string) string {
	return filepath.Join(s.diffDir, sanitizeName(name)+"-diff.png")
}

// Load reads the named baseline, returning ErrBaselineNotFound when absent.
func (s *BaselineStore) Load(name string) ([]byte, error) {
	data, err := os.ReadFile(s.baselinePath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, interfaces.ErrBaselineNotFound
		}
		return nil, fmt.Errorf("failed to read baseline %s: %w", name, err)
	}
	return data, nil
}

// Save writes (or overwrites) the named baseline.
func (s *BaselineStore) Save(name string, png []byte) error {
	if err := os.MkdirAll(s.baselineDir, 0755); err != nil {
		return fmt.Errorf("failed to create baseline directory: %w", err)
	}
	if err := os.WriteFile(s.baselinePath(name), png, 0644); err != nil {
		return fmt.Errorf("failed to write baseline %s: %w", name, err)
	}
	return nil
}

// List returns all stored baseline names.
func (s *BaselineStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.baselineDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read baseline directory: %w", err)
	}
	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".png") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".png"))
	}
	return names, nil
}

// Delete removes one named baseline.
func (s *BaselineStore) Delete(name string) error {
	if err := os.Remove(s.baselinePath(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete baseline %s: %w", name, err)
	}
	return nil
}

// Clear removes all baselines.
func (s *BaselineStore) Clear() error {
	return clearPNGs(s.baselineDir)
}

// SaveDiff writes a diff artifact and returns its path.
func (s *BaselineStore) SaveDiff(name string, png []byte) (string, error) {
	if err := os.MkdirAll(s.diffDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create diff directory: %w", err)
	}
	path := s.diffPath(name)
	if err := os.WriteFile(path, png, 0644); err != nil {
		return "", fmt.Errorf("failed to write diff image %s: %w", name, err)
	}
	return path, nil
}

// ClearDiffs removes all diff artifacts.
func (s *BaselineStore) ClearDiffs() error {
	return clearPNGs(s.diffDir)
}

func clearPNGs(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".png") {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			return fmt.Errorf("failed to remove %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// sanitizeName converts a check name to a safe file name.
func sanitizeName(name string) string {
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_")
	return strings.ToLower(replacer.Replace(name))
}
