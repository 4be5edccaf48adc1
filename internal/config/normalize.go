package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCrawler()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.IndexCachePath) == "" {
		c.Paths.IndexCachePath = defaultIndexCachePath
	}
	if c.Paths.IndexCachePath, err = expandPath(c.Paths.IndexCachePath); err != nil {
		return fmt.Errorf("paths.index_cache_path: %w", err)
	}
	if strings.TrimSpace(c.Paths.DatabasePath) == "" {
		c.Paths.DatabasePath = defaultDatabasePath
	}
	if c.Paths.DatabasePath, err = expandPath(c.Paths.DatabasePath); err != nil {
		return fmt.Errorf("paths.database_path: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCrawler() {
	c.Crawler.UserAgent = strings.TrimSpace(c.Crawler.UserAgent)
	if c.Crawler.UserAgent == "" {
		if value, ok := os.LookupEnv("CURATOR_USER_AGENT"); ok && strings.TrimSpace(value) != "" {
			c.Crawler.UserAgent = strings.TrimSpace(value)
		} else {
			c.Crawler.UserAgent = defaultUserAgent
		}
	}
	if c.Crawler.RequestTimeout <= 0 {
		c.Crawler.RequestTimeout = defaultRequestTimeout
	}
	if c.Crawler.RequestDelayMS < 0 {
		c.Crawler.RequestDelayMS = defaultRequestDelayMS
	}
	if c.Crawler.MaxRetries < 0 {
		c.Crawler.MaxRetries = defaultMaxRetries
	}
	if c.Crawler.RetryBackoffMS <= 0 {
		c.Crawler.RetryBackoffMS = defaultRetryBackoffMS
	}
	if c.Crawler.MaxPages <= 0 {
		c.Crawler.MaxPages = defaultMaxPages
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
