package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"curator/internal/staging"
)

func newStagingCommand(ctx *commandContext) *cobra.Command {
	stagingCmd := &cobra.Command{
		Use:   "staging",
		Short: "Review staged catalog candidates",
	}

	stagingCmd.AddCommand(newStagingListCommand(ctx))
	stagingCmd.AddCommand(newStagingShowCommand(ctx))
	stagingCmd.AddCommand(newStagingStatusCommand(ctx, "approve", staging.StatusApproved))
	stagingCmd.AddCommand(newStagingStatusCommand(ctx, "reject", staging.StatusRejected))
	stagingCmd.AddCommand(newStagingSummaryCommand(ctx))

	return stagingCmd
}

func newStagingListCommand(ctx *commandContext) *cobra.Command {
	var (
		statusFlag  string
		limit       int
		accessories bool
		jsonOutput  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List staged candidates, best confidence first",
		RunE: func(cmd *cobra.Command, args []string) error {
			status := staging.Status(statusFlag)
			if !staging.ValidStatus(status) {
				return fmt.Errorf("invalid status %q (pending, approved, or rejected)", statusFlag)
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if accessories {
				staged, err := store.ListStagedAccessories(cmd.Context(), status, limit)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, staged)
				}
				printStagedAccessories(out, staged)
				return nil
			}

			staged, err := store.ListStagedHouses(cmd.Context(), status, limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, staged)
			}
			printStagedHouses(out, staged)
			return nil
		},
	}

	cmd.Flags().StringVar(&statusFlag, "status", string(staging.StatusPending), "Filter by review status")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum rows to show (0 for all)")
	cmd.Flags().BoolVar(&accessories, "accessories", false, "List staged accessories instead of houses")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON output")
	return cmd
}

func newStagingShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one staged candidate in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			house, err := store.GetStagedHouse(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if house != nil {
				if jsonOutput {
					return writeJSON(cmd, house)
				}
				printStagedHouseDetail(cmd.OutOrStdout(), *house)
				return nil
			}

			accessory, err := store.GetStagedAccessory(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if accessory == nil {
				return fmt.Errorf("no staged candidate with id %s", args[0])
			}
			if jsonOutput {
				return writeJSON(cmd, accessory)
			}
			printStagedAccessoryDetail(cmd.OutOrStdout(), *accessory)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON output")
	return cmd
}

func newStagingStatusCommand(ctx *commandContext, verb string, status staging.Status) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <id>...",
		Short: capitalized(verb) + " staged candidates",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			for _, id := range args {
				if err := setCandidateStatus(cmd, store, id, status); err != nil {
					if errors.Is(err, staging.ErrNotStaged) {
						fmt.Fprintf(out, "%s: not staged\n", id)
						continue
					}
					return err
				}
				fmt.Fprintf(out, "%s: %s\n", id, status)
			}
			return nil
		},
	}
}

// setCandidateStatus applies the status to whichever staging table holds
// the id; house ids and accessory ids share one review namespace.
func setCandidateStatus(cmd *cobra.Command, store *staging.Store, id string, status staging.Status) error {
	err := store.SetHouseStatus(cmd.Context(), id, status)
	if errors.Is(err, staging.ErrNotStaged) {
		return store.SetAccessoryStatus(cmd.Context(), id, status)
	}
	return err
}

func newStagingSummaryCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show review-queue counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			summary, err := store.PendingSummary(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, map[string]any{
					"houses_pending":      summary.HousesPending,
					"accessories_pending": summary.AccessoriesPending,
					"approved":            summary.Approved,
					"rejected":            summary.Rejected,
					"avg_confidence":      summary.AvgConfidence,
				})
			}
			out := cmd.OutOrStdout()
			rows := [][]string{
				{"Houses pending", strconv.Itoa(summary.HousesPending)},
				{"Accessories pending", strconv.Itoa(summary.AccessoriesPending)},
				{"Approved", strconv.Itoa(summary.Approved)},
				{"Rejected", strconv.Itoa(summary.Rejected)},
				{"Avg pending confidence", formatFraction(summary.AvgConfidence)},
			}
			fmt.Fprintln(out, renderTable(out, []string{"Queue", "Value"}, rows,
				[]columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON output")
	return cmd
}

func printStagedHouses(out io.Writer, staged []staging.StagedHouse) {
	if len(staged) == 0 {
		fmt.Fprintln(out, "No staged houses")
		return
	}
	rows := make([][]string, 0, len(staged))
	for _, house := range staged {
		rows = append(rows, []string{
			house.ID,
			truncate(house.Name, 36),
			house.ItemNumber,
			formatFraction(house.Factors.Overall),
			string(house.Category),
			string(house.Recommendation),
			formatDisplayTime(house.CreatedAt),
		})
	}
	fmt.Fprintln(out, renderTable(out,
		[]string{"ID", "Name", "Item #", "Confidence", "Category", "Recommendation", "Staged"}, rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft}))
}

func printStagedAccessories(out io.Writer, staged []staging.StagedAccessory) {
	if len(staged) == 0 {
		fmt.Fprintln(out, "No staged accessories")
		return
	}
	rows := make([][]string, 0, len(staged))
	for _, accessory := range staged {
		suggestion := ""
		if len(accessory.SuggestedLinks) > 0 {
			link := accessory.SuggestedLinks[0]
			suggestion = fmt.Sprintf("%s (%s)", truncate(link.HouseName, 30), link.ConfidenceLevel)
		}
		rows = append(rows, []string{
			accessory.ID,
			truncate(accessory.Name, 36),
			accessory.ItemNumber,
			suggestion,
			formatDisplayTime(accessory.CreatedAt),
		})
	}
	fmt.Fprintln(out, renderTable(out,
		[]string{"ID", "Name", "Item #", "Best suggestion", "Staged"}, rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft}))
}

func printStagedHouseDetail(out io.Writer, house staging.StagedHouse) {
	fmt.Fprintf(out, "%s (%s)\n", house.Name, house.ID)
	fmt.Fprintf(out, "Status: %s  Category: %s  Recommendation: %s\n",
		house.Status, house.Category, house.Recommendation)
	if house.ItemNumber != "" {
		fmt.Fprintf(out, "Item #: %s\n", house.ItemNumber)
	}
	if house.IntroYear != 0 {
		fmt.Fprintf(out, "Introduced: %d", house.IntroYear)
		if house.RetireYear != 0 {
			fmt.Fprintf(out, "  Retired: %d", house.RetireYear)
		}
		fmt.Fprintln(out)
	}
	if house.DiscoveredSeries != "" {
		fmt.Fprintf(out, "Series: %s\n", house.DiscoveredSeries)
	}
	urls := []struct{ label, url string }{
		{"Official", house.OfficialURL},
		{"Retired", house.RetiredURL},
		{"Replacements", house.ReplacementsURL},
	}
	for _, entry := range urls {
		if entry.url != "" {
			fmt.Fprintf(out, "%s URL: %s\n", entry.label, entry.url)
		}
	}
	factors := house.Factors
	rows := [][]string{
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
	fmt.Fprintln(out, renderTable(out, []string{"Factor", "Score"}, rows,
		[]columnAlignment{alignLeft, alignRight}))
	if house.Description != "" {
		fmt.Fprintf(out, "Description: %s\n", truncate(house.Description, 400))
	}
}

func printStagedAccessoryDetail(out io.Writer, accessory staging.StagedAccessory) {
	fmt.Fprintf(out, "%s (%s)\n", accessory.Name, accessory.ID)
	fmt.Fprintf(out, "Status: %s\n", accessory.Status)
	if accessory.ItemNumber != "" {
		fmt.Fprintf(out, "Item #: %s\n", accessory.ItemNumber)
	}
	if accessory.DiscoveredSeries != "" {
		fmt.Fprintf(out, "Series: %s\n", accessory.DiscoveredSeries)
	}
	if len(accessory.SuggestedLinks) == 0 {
		fmt.Fprintln(out, "No suggested houses")
	} else {
		rows := make([][]string, 0, len(accessory.SuggestedLinks))
		for _, link := range accessory.SuggestedLinks {
			rows = append(rows, []string{
				truncate(link.HouseName, 40),
				formatFraction(link.MatchScore),
				string(link.ConfidenceLevel),
				truncate(joinReasons(link.MatchReasons), 60),
			})
		}
		fmt.Fprintln(out, renderTable(out, []string{"Suggested house", "Score", "Level", "Reasons"}, rows,
			[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft}))
	}
	if accessory.Description != "" {
		fmt.Fprintf(out, "Description: %s\n", truncate(accessory.Description, 400))
	}
}

func capitalized(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
