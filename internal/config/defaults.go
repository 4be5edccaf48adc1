package config

import (
	"curator/internal/confidence"
	"curator/internal/linking"
	"curator/internal/matching"
)

const (
	defaultIndexCachePath = "~/.local/share/curator/index_cache.json"
	defaultDatabasePath   = "~/.local/share/curator/catalog.db"
	defaultLogDir         = "~/.local/share/curator/logs"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultUserAgent      = "Curator/dev (catalog research; contact admin)"
	defaultRequestTimeout = 30
	defaultRequestDelayMS = 1500
	defaultMaxRetries     = 3
	defaultRetryBackoffMS = 1000
	defaultMaxPages       = 50
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			IndexCachePath: defaultIndexCachePath,
			DatabasePath:   defaultDatabasePath,
			LogDir:         defaultLogDir,
		},
		Matching: Matching{
			MinScore: matching.DefaultMinScore,
		},
		Confidence: Confidence{
			Weights:     confidence.DefaultWeights(),
			FoundedYear: confidence.DefaultFoundedYear,
		},
		Linking: Linking{
			Policy: linking.DefaultPolicy(),
		},
		Crawler: Crawler{
			UserAgent:      defaultUserAgent,
			RequestTimeout: defaultRequestTimeout,
			RequestDelayMS: defaultRequestDelayMS,
			MaxRetries:     defaultMaxRetries,
			RetryBackoffMS: defaultRetryBackoffMS,
			MaxPages:       defaultMaxPages,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
