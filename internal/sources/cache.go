package sources

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"curator/internal/logging"
)

// CacheStats records when and how a cached index was built.
type CacheStats struct {
	TotalCandidates int           `json:"total_candidates"`
	BySource        []SourceCount `json:"by_source"`
	StartedAt       time.Time     `json:"started_at"`
	CompletedAt     time.Time     `json:"completed_at"`
	Errors          int           `json:"errors"`
}

type cacheFile struct {
	Index Index      `json:"index"`
	Stats CacheStats `json:"stats"`
}

// Cache persists a candidate index as JSON so matching runs can reuse a
// previous crawl.
type Cache struct {
	path   string
	logger *slog.Logger
}

// NewCache creates a cache handle for the given path. An empty path yields
// a non-functional cache: Load reports not-found and Save is a no-op.
func NewCache(path string, logger *slog.Logger) *Cache {
	return &Cache{
		path:   path,
		logger: logging.NewComponentLogger(logger, "sources"),
	}
}

// ErrNoCache indicates no cache file exists at the configured path.
var ErrNoCache = errors.New("no candidate index cache")

// Load reads the cached index from disk.
func (c *Cache) Load() (Index, CacheStats, error) {
	if c.path == "" {
		return nil, CacheStats{}, ErrNoCache
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, CacheStats{}, ErrNoCache
		}
		return nil, CacheStats{}, fmt.Errorf("read index cache: %w", err)
	}

	var file cacheFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, CacheStats{}, fmt.Errorf("parse index cache: %w", err)
	}
	if file.Index == nil {
		file.Index = NewIndex()
	}

	c.logger.Info("loaded candidate index cache",
		logging.String("path", c.path),
		logging.Int("candidates", file.Index.Len()))

	return file.Index, file.Stats, nil
}

// Save writes the index and its stats to disk atomically. The write is
// guarded by a sibling lock file so two crawls cannot interleave.
func (c *Cache) Save(idx Index, stats CacheStats) error {
	if c.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("ensure cache directory: %w", err)
	}

	lock := flock.New(c.path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire cache lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("index cache %s is locked by another crawl", c.path)
	}
	defer func() { _ = lock.Unlock() }()

	stats.TotalCandidates = idx.Len()
	stats.BySource = idx.CountBySource()

	data, err := json.MarshalIndent(cacheFile{Index: idx, Stats: stats}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal index cache: %w", err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write index cache: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("replace index cache: %w", err)
	}

	c.logger.Info("saved candidate index cache",
		logging.String("path", c.path),
		logging.Int("candidates", stats.TotalCandidates))

	return nil
}
