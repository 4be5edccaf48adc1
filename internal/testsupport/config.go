package testsupport

import (
	"path/filepath"
	"testing"

	"curator/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp paths per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.IndexCachePath = filepath.Join(base, "index_cache.json")
	cfg.Paths.DatabasePath = filepath.Join(base, "catalog.db")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Crawler.RequestDelayMS = 0
	cfg.Crawler.RetryBackoffMS = 1

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithMinScore overrides the matching floor on the test config.
func WithMinScore(score float64) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Matching.MinScore = score
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DatabasePath)
}
