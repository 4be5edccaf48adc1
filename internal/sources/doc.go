// Package sources maintains the per-source candidate indexes built by the
// crawler.
//
// An Index maps source identifier to source URL to candidate record. It is
// built or loaded once per run and read-only afterward; concurrent readers
// are safe as long as no crawl is refreshing it. The JSON cache file lets
// matching runs reuse a previous crawl, and a file lock prevents two
// refreshes from racing on the same cache.
package sources
