package interfaces

import (
	"context"

	"github.com/ternarybob/vigil/internal/models"
)

// TestRunner invokes the external browser-automation harness and normalizes
// its output. Run never fails because tests failed: a non-zero harness exit
// is parsed into the returned RunResult.
type TestRunner interface {
	Run(ctx context.Context, testPath string, opts models.RunOptions) (*models.RunResult, error)

	RunAllTests(ctx context.Context) (*models.RunResult, error)
	RunTestFile(ctx context.Context, testPath string) (*models.RunResult, error)
	RunTestsByPattern(ctx context.Context, pattern string) (*models.RunResult, error)
	RunTestsForBrowser(ctx context.Context, project string) (*models.RunResult, error)

	// TestArtifacts scans the results directory for artifacts named after
	// the given test and buckets them by kind.
	TestArtifacts(testName string) (*models.TestArtifacts, error)
}
