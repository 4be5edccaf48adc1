package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"curator/internal/confidence"
	"curator/internal/linking"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains file and directory configuration.
type Paths struct {
	// IndexCachePath is the JSON candidate index written by crawls and
	// read by matching runs.
	IndexCachePath string `toml:"index_cache_path"`
	// DatabasePath is the sqlite catalog and staging database.
	DatabasePath string `toml:"database_path"`
	LogDir       string `toml:"log_dir"`
}

// Matching contains thresholds for per-source candidate filtering.
type Matching struct {
	// MinScore is the fuzzy-match floor (0-100) below which a candidate
	// is not considered a match for a query item.
	MinScore float64 `toml:"min_score"`
}

// Confidence contains the factor weight table and catalog year bounds.
// The weight fields flatten into the [confidence] section.
type Confidence struct {
	confidence.Weights
	// FoundedYear anchors the plausible introduction-year window.
	FoundedYear int `toml:"founded_year"`
}

// Linking contains the house-accessory linking policy. The policy fields
// flatten into the [linking] section.
type Linking struct {
	linking.Policy
}

// Crawler contains configuration for source site crawling.
type Crawler struct {
	UserAgent string `toml:"user_agent"`
	// RequestTimeout is the per-request timeout in seconds.
	RequestTimeout int `toml:"request_timeout"`
	// RequestDelayMS is the pause between requests to the same site.
	RequestDelayMS int `toml:"request_delay_ms"`
	MaxRetries     int `toml:"max_retries"`
	// RetryBackoffMS is the initial retry backoff; it doubles per attempt.
	RetryBackoffMS int `toml:"retry_backoff_ms"`
	// MaxPages caps listing pages fetched per site per crawl.
	MaxPages int `toml:"max_pages"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for Curator.
//
// Configuration sections by subsystem:
//   - Paths: index cache, sqlite database, and log locations
//   - Matching: per-source fuzzy match threshold
//   - Confidence: factor weights and catalog year bounds
//   - Linking: house-accessory signal weights and floors
//   - Crawler: politeness, retry, and pagination settings
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Matching   Matching   `toml:"matching"`
	Confidence Confidence `toml:"confidence"`
	Linking    Linking    `toml:"linking"`
	Crawler    Crawler    `toml:"crawler"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/curator/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. When no file exists
// the repository defaults are returned with exists false.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("curator.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the CLI writes into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		filepath.Dir(c.Paths.IndexCachePath),
		filepath.Dir(c.Paths.DatabasePath),
		c.Paths.LogDir,
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
