package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"curator/internal/catalog"
	"curator/internal/confidence"
	"curator/internal/matching"
	"curator/internal/sources"
	"curator/internal/staging"
)

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var (
		codeFlag     string
		accessory    bool
		matchAll     bool
		stageResults bool
		minScore     float64
		jsonOutput   bool
	)

	cmd := &cobra.Command{
		Use:   "match [item name]",
		Short: "Resolve items against the crawled candidate index",
		Long: "Match finds the best candidate per source site for an item, scores the\n" +
			"agreement with an eight-factor confidence breakdown, and can stage the\n" +
			"result for review. With --all it resolves every cataloged house.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if matchAll == (len(args) > 0) {
				return errors.New("provide an item name or --all, not both")
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("min-score") {
				minScore = cfg.Matching.MinScore
			}

			cache, err := ctx.indexCache()
			if err != nil {
				return err
			}
			idx, _, err := cache.Load()
			if err != nil {
				if errors.Is(err, sources.ErrNoCache) {
					return errors.New("no candidate index found; run `curator crawl` first")
				}
				return err
			}

			calculator, err := confidence.NewWithFoundedYear(cfg.Confidence.Weights, cfg.Confidence.FoundedYear)
			if err != nil {
				return err
			}
			aggregator := matching.NewAggregator(ctx.ensureLogger())

			runner := &matchRunner{
				ctx:        ctx,
				aggregator: aggregator,
				calculator: calculator,
				index:      idx,
				minScore:   minScore,
				stage:      stageResults,
			}

			if matchAll {
				return runner.matchAll(cmd, jsonOutput)
			}

			kind := catalog.KindHouse
			if accessory {
				kind = catalog.KindAccessory
			}
			query := catalog.QueryItem{Name: args[0], Code: codeFlag, Kind: kind}
			return runner.matchOne(cmd, query, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&codeFlag, "code", "", "Item number to match alongside the name")
	cmd.Flags().BoolVar(&accessory, "accessory", false, "Treat the item as an accessory")
	cmd.Flags().BoolVar(&matchAll, "all", false, "Match every house in the catalog")
	cmd.Flags().BoolVar(&stageResults, "stage", false, "Stage matched candidates for review")
	cmd.Flags().Float64Var(&minScore, "min-score", matching.DefaultMinScore, "Minimum per-source match score (0-100)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON output")
	return cmd
}

type matchRunner struct {
	ctx        *commandContext
	aggregator *matching.Aggregator
	calculator *confidence.Calculator
	index      sources.Index
	minScore   float64
	stage      bool
}

type matchReport struct {
	Query          catalog.QueryItem         `json:"query"`
	Result         matching.Result           `json:"result"`
	Factors        confidence.Factors        `json:"factors"`
	Category       confidence.Category       `json:"category"`
	Recommendation confidence.Recommendation `json:"recommendation"`
	StagedID       string                    `json:"staged_id,omitempty"`
}

func (r *matchRunner) resolve(query catalog.QueryItem) (matchReport, error) {
	result, err := r.aggregator.Aggregate(query, r.index, r.minScore)
	if err != nil {
		return matchReport{}, err
	}
	factors := r.calculator.Calculate(query, result)
	return matchReport{
		Query:          query,
		Result:         result,
		Factors:        factors,
		Category:       confidence.Categorize(factors.Overall),
		Recommendation: confidence.Recommend(factors),
	}, nil
}

func (r *matchRunner) matchOne(cmd *cobra.Command, query catalog.QueryItem, jsonOutput bool) error {
	report, err := r.resolve(query)
	if err != nil {
		return err
	}
	if r.stage {
		if _, ok := report.Result.Best(); ok {
			store, err := r.ctx.openStore()
			if err != nil {
				return err
			}
			id, err := store.StageHouse(cmd.Context(), buildStagedHouse(report, ""))
			store.Close()
			if err != nil {
				return err
			}
			report.StagedID = id
		}
	}
	if jsonOutput {
		return writeJSON(cmd, report)
	}
	printMatchReport(cmd.OutOrStdout(), report)
	return nil
}

func (r *matchRunner) matchAll(cmd *cobra.Command, jsonOutput bool) error {
	store, err := r.ctx.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	houses, err := store.ListHouses(cmd.Context())
	if err != nil {
		return err
	}
	if len(houses) == 0 {
		return errors.New("catalog has no houses; use `curator ingest` to add some")
	}

	outcomes := make([]matching.Outcome, 0, len(houses))
	staged := 0
	for _, house := range houses {
		report, err := r.resolve(catalog.QueryItem{
			Name: house.Name,
			Code: house.ItemNumber,
			Kind: catalog.KindHouse,
		})
		if err != nil {
			return err
		}
		matched := len(report.Result) > 0
		outcomes = append(outcomes, matching.Outcome{
			Matched:    matched,
			Confidence: report.Factors.Overall,
		})
		if r.stage && matched {
			if _, err := store.StageHouse(cmd.Context(), buildStagedHouse(report, house.ID)); err != nil {
				return err
			}
			staged++
		}
	}

	stats := matching.Summarize(outcomes)
	if jsonOutput {
		return writeJSON(cmd, map[string]any{"stats": stats, "staged": staged})
	}
	printMatchStats(cmd.OutOrStdout(), stats)
	if r.stage {
		fmt.Fprintf(cmd.OutOrStdout(), "Staged %d candidates for review\n", staged)
	}
	return nil
}

// buildStagedHouse folds the per-source matches into one staged row:
// field values come from the best match, URLs are recorded per site.
func buildStagedHouse(report matchReport, originalHouseID string) staging.StagedHouse {
	best, _ := report.Result.Best()
	staged := staging.StagedHouse{
		OriginalHouseID:  originalHouseID,
		Name:             best.Candidate.Name,
		ItemNumber:       best.Candidate.ItemNumber,
		IntroYear:        best.Candidate.IntroYear,
		RetireYear:       best.Candidate.RetireYear,
		Description:      best.Candidate.Description,
		PrimaryImageURL:  best.Candidate.PrimaryImageURL,
		AdditionalImages: best.Candidate.AdditionalImages,
		DiscoveredSeries: best.Candidate.Series,
		NameMatchScore:   best.Score,
		Factors:          report.Factors,
		Category:         report.Category,
		Recommendation:   report.Recommendation,
	}
	if staged.Name == "" {
		staged.Name = report.Query.Name
	}
	for site, match := range report.Result {
		switch site {
		case sources.SiteOfficial:
			staged.OfficialURL = match.Candidate.SourceURL
		case sources.SiteRetired:
			staged.RetiredURL = match.Candidate.SourceURL
		case sources.SiteReplacements:
			staged.ReplacementsURL = match.Candidate.SourceURL
		}
	}
	return staged
}

func printMatchReport(out io.Writer, report matchReport) {
	if len(report.Result) == 0 {
		fmt.Fprintf(out, "No source matched %q\n", report.Query.Name)
		return
	}

	rows := make([][]string, 0, len(report.Result))
	for _, site := range report.Result.Sources() {
		match := report.Result[site]
		rows = append(rows, []string{
			site,
			truncate(match.Candidate.Name, 40),
			formatScore(match.Score),
			match.Candidate.ItemNumber,
			formatYear(match.Candidate.IntroYear),
			match.Candidate.SourceURL,
		})
	}
	fmt.Fprintln(out, renderTable(out,
		[]string{"Source", "Candidate", "Score", "Item #", "Intro", "URL"}, rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignLeft}))

	factors := report.Factors
	factorRows := [][]string{
		{"Name match", formatFraction(factors.NameMatch)},
		{"Code match", formatFraction(factors.CodeMatch)},
		{"Data completeness", formatFraction(factors.DataCompleteness)},
		{"Cross-source validation", formatFraction(factors.CrossSource)},
		{"Series discovery", formatFraction(factors.SeriesDiscovery)},
		{"Image quality", formatFraction(factors.ImageQuality)},
		{"Year consistency", formatFraction(factors.YearConsistency)},
		{"Description quality", formatFraction(factors.DescriptionQuality)},
		{"Overall", formatFraction(factors.Overall)},
	}
	fmt.Fprintln(out, renderTable(out, []string{"Factor", "Score"}, factorRows,
		[]columnAlignment{alignLeft, alignRight}))
	fmt.Fprintf(out, "Category: %s  Recommendation: %s\n", report.Category, report.Recommendation)
	if report.StagedID != "" {
		fmt.Fprintf(out, "Staged for review as %s\n", report.StagedID)
	}
}

func printMatchStats(out io.Writer, stats matching.Stats) {
	rows := [][]string{
		{"Total", fmt.Sprintf("%d", stats.Total)},
		{"Matched", fmt.Sprintf("%d", stats.Matched)},
		{"Unmatched", fmt.Sprintf("%d", stats.Unmatched)},
		{"Match rate", formatPercent(stats.MatchRate)},
		{"Average confidence", formatFraction(stats.AvgConfidence)},
		{"High confidence", fmt.Sprintf("%d", stats.HighConfidence)},
		{"High confidence rate", formatPercent(stats.HighConfidenceRate)},
	}
	fmt.Fprintln(out, renderTable(out, []string{"Batch", "Value"}, rows,
		[]columnAlignment{alignLeft, alignRight}))
}
