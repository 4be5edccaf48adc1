package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"curator/internal/config"
)

func TestLoadDefaultsExpandPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantCache := filepath.Join(tempHome, ".local", "share", "curator", "index_cache.json")
	if cfg.Paths.IndexCachePath != wantCache {
		t.Fatalf("unexpected index cache path: got %q want %q", cfg.Paths.IndexCachePath, wantCache)
	}
	wantDB := filepath.Join(tempHome, ".local", "share", "curator", "catalog.db")
	if cfg.Paths.DatabasePath != wantDB {
		t.Fatalf("unexpected database path: %q", cfg.Paths.DatabasePath)
	}
	if cfg.Matching.MinScore != 60.0 {
		t.Fatalf("unexpected min score: %v", cfg.Matching.MinScore)
	}
	if cfg.Confidence.NameMatch != 0.35 {
		t.Fatalf("unexpected name weight: %v", cfg.Confidence.NameMatch)
	}
	if cfg.Confidence.FoundedYear != 1976 {
		t.Fatalf("unexpected founded year: %d", cfg.Confidence.FoundedYear)
	}
	if cfg.Linking.SeriesWeight != 0.40 {
		t.Fatalf("unexpected series weight: %v", cfg.Linking.SeriesWeight)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("unexpected log format: %q", cfg.Logging.Format)
	}
	if cfg.Crawler.UserAgent == "" {
		t.Fatal("expected default user agent")
	}
}

func TestLoadAppliesOverrides(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(tempHome, "config.toml")
	content := `
[paths]
database_path = "~/data/catalog.db"

[matching]
min_score = 75.0

[confidence]
founded_year = 1980

[crawler]
user_agent = "CuratorTest/1.0"
request_delay_ms = 250
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != path {
		t.Fatalf("resolved = %q, want %q", resolved, path)
	}
	if cfg.Paths.DatabasePath != filepath.Join(tempHome, "data", "catalog.db") {
		t.Fatalf("unexpected database path: %q", cfg.Paths.DatabasePath)
	}
	if cfg.Matching.MinScore != 75.0 {
		t.Fatalf("unexpected min score: %v", cfg.Matching.MinScore)
	}
	if cfg.Confidence.FoundedYear != 1980 {
		t.Fatalf("unexpected founded year: %d", cfg.Confidence.FoundedYear)
	}
	if cfg.Crawler.UserAgent != "CuratorTest/1.0" {
		t.Fatalf("unexpected user agent: %q", cfg.Crawler.UserAgent)
	}
	if cfg.Crawler.RequestDelayMS != 250 {
		t.Fatalf("unexpected request delay: %d", cfg.Crawler.RequestDelayMS)
	}
	// Sections absent from the file keep their defaults.
	if cfg.Linking.MatchFloor != 0.3 {
		t.Fatalf("unexpected match floor: %v", cfg.Linking.MatchFloor)
	}
}

func TestLoadRejectsInvalidWeights(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(tempHome, "config.toml")
	content := `
[confidence]
name_match = 0.9
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, _, _, err := config.Load(path)
	if err == nil {
		t.Fatal("expected error for weights not summing to 1.0")
	}
	if !strings.Contains(err.Error(), "confidence") {
		t.Fatalf("error should name the section: %v", err)
	}
}

func TestLoadRejectsBadMinScore(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(tempHome, "config.toml")
	if err := os.WriteFile(path, []byte("[matching]\nmin_score = 150.0\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for out-of-range min_score")
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(tempHome, "sample", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load of sample returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}

	defaults := config.Default()
	if cfg.Matching.MinScore != defaults.Matching.MinScore {
		t.Fatalf("sample min_score %v differs from default %v", cfg.Matching.MinScore, defaults.Matching.MinScore)
	}
	if cfg.Confidence.Weights != defaults.Confidence.Weights {
		t.Fatalf("sample weights differ from defaults: %+v", cfg.Confidence.Weights)
	}
	if cfg.Linking.Policy != defaults.Linking.Policy {
		t.Fatalf("sample linking policy differs from defaults: %+v", cfg.Linking.Policy)
	}
}

func TestEnsureDirectories(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	if _, err := os.Stat(filepath.Dir(cfg.Paths.DatabasePath)); err != nil {
		t.Fatalf("database directory missing: %v", err)
	}
	if _, err := os.Stat(cfg.Paths.LogDir); err != nil {
		t.Fatalf("log directory missing: %v", err)
	}
}

func TestExpandPathTilde(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	got, err := config.ExpandPath("~/nested/file.json")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	if got != filepath.Join(tempHome, "nested", "file.json") {
		t.Fatalf("unexpected expansion: %q", got)
	}
}
