package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"curator/internal/linking"
	"curator/internal/staging"
)

func newLinkCommand(ctx *commandContext) *cobra.Command {
	var (
		nameFlag    string
		descFlag    string
		seriesFlag  string
		codeFlag    string
		yearFlag    int
		jsonOutput  bool
		suggestions int
	)

	cmd := &cobra.Command{
		Use:   "link [staged accessory id]",
		Short: "Suggest compatible houses for accessories",
		Long: "Link scores accessories against every cataloged house and prints the\n" +
			"ranked suggestions. Without arguments it processes every pending staged\n" +
			"accessory; with --name it scores an ad-hoc accessory instead.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			linker, err := linking.NewLinker(cfg.Linking.Policy, nil, ctx.ensureLogger())
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			houses, err := store.LoadHouseSnapshot(cmd.Context())
			if err != nil {
				return err
			}
			if len(houses) == 0 {
				return errors.New("catalog has no houses to link against")
			}

			if nameFlag != "" {
				accessory := linking.AccessoryData{
					Name:        nameFlag,
					Description: descFlag,
					Series:      seriesFlag,
					ItemNumber:  codeFlag,
					IntroYear:   yearFlag,
				}
				matches := capMatches(linker.FindCompatible(accessory, houses), suggestions)
				if jsonOutput {
					return writeJSON(cmd, matches)
				}
				printLinkMatches(cmd.OutOrStdout(), nameFlag, matches)
				return nil
			}

			var staged []staging.StagedAccessory
			if len(args) == 1 {
				accessory, err := store.GetStagedAccessory(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if accessory == nil {
					return fmt.Errorf("staged accessory %s not found", args[0])
				}
				staged = append(staged, *accessory)
			} else {
				staged, err = store.ListStagedAccessories(cmd.Context(), staging.StatusPending, 0)
				if err != nil {
					return err
				}
				if len(staged) == 0 {
					return errors.New("no pending staged accessories")
				}
			}

			type linkReport struct {
				AccessoryID string          `json:"accessory_id"`
				Accessory   string          `json:"accessory"`
				Matches     []linking.Match `json:"matches"`
			}
			reports := make([]linkReport, 0, len(staged))
			for _, accessory := range staged {
				matches := linker.FindCompatible(linking.AccessoryData{
					Name:        accessory.Name,
					ItemNumber:  accessory.ItemNumber,
					IntroYear:   accessory.IntroYear,
					Description: accessory.Description,
					Series:      accessory.DiscoveredSeries,
					Collection:  accessory.DiscoveredCollection,
				}, houses)
				reports = append(reports, linkReport{
					AccessoryID: accessory.ID,
					Accessory:   accessory.Name,
					Matches:     capMatches(matches, suggestions),
				})
			}
			if jsonOutput {
				return writeJSON(cmd, reports)
			}
			for _, report := range reports {
				printLinkMatches(cmd.OutOrStdout(), report.Accessory, report.Matches)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&nameFlag, "name", "", "Score an ad-hoc accessory by name")
	cmd.Flags().StringVar(&descFlag, "description", "", "Ad-hoc accessory description")
	cmd.Flags().StringVar(&seriesFlag, "series", "", "Ad-hoc accessory series")
	cmd.Flags().StringVar(&codeFlag, "code", "", "Ad-hoc accessory item number")
	cmd.Flags().IntVar(&yearFlag, "year", 0, "Ad-hoc accessory introduction year")
	cmd.Flags().IntVar(&suggestions, "top", 5, "Maximum suggestions per accessory")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON output")
	return cmd
}

func capMatches(matches []linking.Match, limit int) []linking.Match {
	if limit > 0 && len(matches) > limit {
		return matches[:limit]
	}
	return matches
}

func printLinkMatches(out io.Writer, accessory string, matches []linking.Match) {
	if len(matches) == 0 {
		fmt.Fprintf(out, "%s: no compatible houses found\n", accessory)
		return
	}
	rows := make([][]string, 0, len(matches))
	for _, match := range matches {
		rows = append(rows, []string{
			truncate(match.House.Name, 40),
			formatFraction(match.Score),
			string(match.Level),
			truncate(joinReasons(match.Reasons), 60),
		})
	}
	fmt.Fprintf(out, "%s\n", accessory)
	fmt.Fprintln(out, renderTable(out, []string{"House", "Score", "Level", "Reasons"}, rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft}))
}

func joinReasons(reasons []string) string {
	switch len(reasons) {
	case 0:
		return ""
	case 1:
		return reasons[0]
	}
	joined := reasons[0]
	for _, reason := range reasons[1:] {
		joined += "; " + reason
	}
	return joined
}
