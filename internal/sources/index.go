package sources

import (
	"sort"

	"curator/internal/catalog"
)

// Configured source identifiers. A candidate's SourceSite must be one of
// these; the aggregator iterates them in this order.
const (
	SiteRetired      = "dept56_retired"
	SiteOfficial     = "dept56_official"
	SiteReplacements = "replacements"
)

// Sites lists the configured sources in aggregation order.
func Sites() []string {
	return []string{SiteRetired, SiteOfficial, SiteReplacements}
}

// KnownSite reports whether id names a configured source.
func KnownSite(id string) bool {
	switch id {
	case SiteRetired, SiteOfficial, SiteReplacements:
		return true
	}
	return false
}

// Index maps source identifier to source URL to candidate record.
type Index map[string]map[string]catalog.Candidate

// NewIndex returns an empty index with a bucket per configured source.
func NewIndex() Index {
	idx := make(Index, len(Sites()))
	for _, site := range Sites() {
		idx[site] = make(map[string]catalog.Candidate)
	}
	return idx
}

// Put records a candidate under its originating source and URL. Candidates
// from unknown sources or without a URL are ignored.
func (idx Index) Put(candidate catalog.Candidate) {
	if !KnownSite(candidate.SourceSite) || candidate.SourceURL == "" {
		return
	}
	bucket, ok := idx[candidate.SourceSite]
	if !ok {
		bucket = make(map[string]catalog.Candidate)
		idx[candidate.SourceSite] = bucket
	}
	bucket[candidate.SourceURL] = candidate
}

// Source returns the candidate bucket for one source. The returned map may
// be nil or empty; both mean the source contributed nothing.
func (idx Index) Source(site string) map[string]catalog.Candidate {
	return idx[site]
}

// Len returns the total number of candidates across all sources.
func (idx Index) Len() int {
	total := 0
	for _, bucket := range idx {
		total += len(bucket)
	}
	return total
}

// CountBySource returns per-source candidate counts with a deterministic
// key order for display.
func (idx Index) CountBySource() []SourceCount {
	counts := make([]SourceCount, 0, len(idx))
	for site, bucket := range idx {
		counts = append(counts, SourceCount{Site: site, Candidates: len(bucket)})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Site < counts[j].Site })
	return counts
}

// SourceCount pairs a source identifier with its candidate count.
type SourceCount struct {
	Site       string `json:"site"`
	Candidates int    `json:"candidates"`
}
