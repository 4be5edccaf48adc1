// Package crawler builds the candidate index from source site sitemaps.
//
// Each configured site exposes a sitemap.xml; the crawler fetches it,
// keeps the product URLs, and parses each product page into a
// catalog.Candidate. Requests are throttled per client, retried with
// exponential backoff, and always carry an identifying User-Agent.
//
// A crawl produces a sources.Index plus stats and writes both through the
// sources cache. The scoring engine never fetches anything itself; it
// only reads what a crawl cached. A site that fails entirely costs its
// bucket, not the crawl.
package crawler
