package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"curator/internal/crawler"
	"curator/internal/sources"
)

func newCrawlCommand(ctx *commandContext) *cobra.Command {
	var siteFlag string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl source sites and rebuild the candidate index",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			sites, err := selectSites(siteFlag)
			if err != nil {
				return err
			}

			idx, stats, err := crawler.New(cfg, ctx.ensureLogger()).BuildIndex(cmd.Context(), sites)
			if err != nil {
				return err
			}

			cache, err := ctx.indexCache()
			if err != nil {
				return err
			}
			if err := cache.Save(idx, stats); err != nil {
				return fmt.Errorf("save candidate index: %w", err)
			}

			if jsonOutput {
				return writeJSON(cmd, map[string]any{
					"cache_path": cfg.Paths.IndexCachePath,
					"stats":      stats,
				})
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(stats.BySource))
			for _, count := range stats.BySource {
				rows = append(rows, []string{count.Site, strconv.Itoa(count.Candidates)})
			}
			fmt.Fprintln(out, renderTable(out, []string{"Source", "Candidates"}, rows,
				[]columnAlignment{alignLeft, alignRight}))
			fmt.Fprintf(out, "Indexed %d candidates in %s (%d fetch errors)\n",
				idx.Len(), stats.CompletedAt.Sub(stats.StartedAt).Round(timeRounding), stats.Errors)
			fmt.Fprintf(out, "Cache written to %s\n", cfg.Paths.IndexCachePath)
			return nil
		},
	}

	cmd.Flags().StringVar(&siteFlag, "site", "", "Crawl a single source site")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON output")
	return cmd
}

func selectSites(siteFlag string) ([]crawler.Site, error) {
	sites := crawler.DefaultSites()
	if siteFlag == "" {
		return sites, nil
	}
	if !sources.KnownSite(siteFlag) {
		return nil, fmt.Errorf("unknown source site %q (known: %v)", siteFlag, sources.Sites())
	}
	for _, site := range sites {
		if site.ID == siteFlag {
			return []crawler.Site{site}, nil
		}
	}
	return nil, fmt.Errorf("source site %q has no sitemap configured", siteFlag)
}
