package runner

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ternarybob/vigil/internal/models"
)

// TestArtifacts walks the results directory collecting files whose paths
// contain the test name, bucketed by extension. The harness names either the
// artifact file or its containing directory after the test.
func (s *Service) TestArtifacts(testName string) (*models.TestArtifacts, error) {
	artifacts := &models.TestArtifacts{
		Screenshots: []string{},
		Videos:      []string{},
		Traces:      []string{},
	}

	resultsDir := s.resolveResultsDir()
	if _, err := os.Stat(resultsDir); err != nil {
		// Nothing captured yet: empty buckets, not an error.
		return artifacts, nil
	}

	needle := sanitizeName(testName)
	err := filepath.WalkDir(resultsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if !strings.Contains(sanitizeName(path), needle) {
			return nil
		}
		switch strings.ToLower(filepath.Ext(d.Name())) {
		case ".png", ".jpg", ".jpeg":
			artifacts.Screenshots = append(artifacts.Screenshots, path)
		case ".webm", ".mp4":
			artifacts.Videos = append(artifacts.Videos, path)
		case ".zip":
			artifacts.Traces = append(artifacts.Traces, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return artifacts, nil
}

// sanitizeName converts a name to the dashed lowercase form the harness uses
// in artifact file names.
func sanitizeName(name string) string {
	replacer := strings.NewReplacer(" ", "-", "_", "-", "/", "-")
	return strings.ToLower(replacer.Replace(name))
}
