package crawler

import (
	"context"
	"log/slog"
	"time"

	"curator/internal/config"
	"curator/internal/logging"
	"curator/internal/sources"
)

// Site pairs a source identifier with its sitemap location.
type Site struct {
	ID         string
	SitemapURL string
}

// DefaultSites returns the production source sites in aggregation order.
func DefaultSites() []Site {
	return []Site{
		{ID: sources.SiteRetired, SitemapURL: "https://retiredproducts.department56.com/sitemap.xml"},
		{ID: sources.SiteOfficial, SitemapURL: "https://www.department56.com/sitemap.xml"},
		{ID: sources.SiteReplacements, SitemapURL: "https://www.replacements.com/sitemap.xml"},
	}
}

// Crawler fetches source sites and builds the candidate index.
type Crawler struct {
	client   *Client
	maxPages int
	logger   *slog.Logger
}

// New creates a crawler from configuration.
func New(cfg *config.Config, logger *slog.Logger) *Crawler {
	return &Crawler{
		client:   NewClient(cfg.Crawler, logger),
		maxPages: cfg.Crawler.MaxPages,
		logger:   logging.NewComponentLogger(logger, "crawler"),
	}
}

// BuildIndex crawls every site and returns the resulting index with
// stats. A site that fails entirely is logged and counted, not fatal;
// the error return is reserved for context cancellation.
func (c *Crawler) BuildIndex(ctx context.Context, sites []Site) (sources.Index, sources.CacheStats, error) {
	idx := sources.NewIndex()
	stats := sources.CacheStats{StartedAt: time.Now().UTC()}

	for _, site := range sites {
		if err := ctx.Err(); err != nil {
			return nil, sources.CacheStats{}, err
		}
		if err := c.crawlSite(ctx, site, idx, &stats); err != nil {
			if ctx.Err() != nil {
				return nil, sources.CacheStats{}, ctx.Err()
			}
			stats.Errors++
			c.logger.Warn("site crawl failed",
				logging.String("site", site.ID),
				logging.Error(err))
		}
	}

	stats.CompletedAt = time.Now().UTC()
	stats.TotalCandidates = idx.Len()
	stats.BySource = idx.CountBySource()
	return idx, stats, nil
}

func (c *Crawler) crawlSite(ctx context.Context, site Site, idx sources.Index, stats *sources.CacheStats) error {
	pages, err := c.sitemapPages(ctx, site.SitemapURL, 0)
	if err != nil {
		return err
	}

	urls := productURLs(pages)
	if len(urls) > c.maxPages {
		urls = urls[:c.maxPages]
	}
	c.logger.Info("crawling site",
		logging.String("site", site.ID),
		logging.Int("product_pages", len(urls)))

	for _, url := range urls {
		if err := ctx.Err(); err != nil {
			return err
		}
		body, err := c.client.Get(ctx, url)
		if err != nil {
			stats.Errors++
			c.logger.Warn("product fetch failed",
				logging.String("url", url),
				logging.Error(err))
			continue
		}
		candidate, err := ParseProduct(body, url, site.ID)
		if err != nil {
			stats.Errors++
			c.logger.Debug("product parse failed",
				logging.String("url", url),
				logging.Error(err))
			continue
		}
		idx.Put(candidate)
	}
	return nil
}

// maxSitemapDepth bounds nested sitemapindex recursion.
const maxSitemapDepth = 2

func (c *Crawler) sitemapPages(ctx context.Context, sitemapURL string, depth int) ([]string, error) {
	body, err := c.client.Get(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}
	pages, nested, err := parseSitemap(body)
	if err != nil {
		return nil, err
	}

	if depth < maxSitemapDepth {
		for _, nestedURL := range nested {
			nestedPages, err := c.sitemapPages(ctx, nestedURL, depth+1)
			if err != nil {
				c.logger.Warn("nested sitemap failed",
					logging.String("url", nestedURL),
					logging.Error(err))
				continue
			}
			pages = append(pages, nestedPages...)
		}
	}
	return pages, nil
}
