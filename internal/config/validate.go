package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable. Weight-table errors
// surface here, at load time, rather than when the first item is scored.
func (c *Config) Validate() error {
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateConfidence(); err != nil {
		return err
	}
	if err := c.validateLinking(); err != nil {
		return err
	}
	if err := c.validateCrawler(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateMatching() error {
	if c.Matching.MinScore < 0 || c.Matching.MinScore > 100 {
		return errors.New("matching.min_score must be between 0 and 100")
	}
	return nil
}

func (c *Config) validateConfidence() error {
	if err := c.Confidence.Weights.Validate(); err != nil {
		return fmt.Errorf("confidence: %w", err)
	}
	if c.Confidence.FoundedYear <= 0 {
		return errors.New("confidence.founded_year must be positive")
	}
	return nil
}

func (c *Config) validateLinking() error {
	if err := c.Linking.Policy.Validate(); err != nil {
		return fmt.Errorf("linking: %w", err)
	}
	return nil
}

func (c *Config) validateCrawler() error {
	if strings.TrimSpace(c.Crawler.UserAgent) == "" {
		return errors.New("crawler.user_agent must be set")
	}
	if err := ensurePositiveMap(map[string]int{
		"crawler.request_timeout":  c.Crawler.RequestTimeout,
		"crawler.retry_backoff_ms": c.Crawler.RetryBackoffMS,
		"crawler.max_pages":        c.Crawler.MaxPages,
	}); err != nil {
		return err
	}
	if c.Crawler.RequestDelayMS < 0 {
		return errors.New("crawler.request_delay_ms must be >= 0")
	}
	if c.Crawler.MaxRetries < 0 {
		return errors.New("crawler.max_retries must be >= 0")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
