// Package config loads, normalizes, and validates Curator configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// CURATOR_USER_AGENT. The Config type centralizes every knob the CLI
// needs: cache and database locations, matching thresholds, confidence
// weights, linking policy, and crawler behavior.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, validated weight tables, and clear configuration
// errors at load time rather than mid-run.
package config
