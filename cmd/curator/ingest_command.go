package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"curator/internal/config"
	"curator/internal/ingest"
	"curator/internal/linking"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "ingest <file.docx>...",
		Short: "Import collector documents into the catalog",
		Long: "Ingest parses collector Word documents (one house per document, one\n" +
			"accessory per follow-on page), inserts houses into the catalog, and\n" +
			"stages accessories for review with suggested house links.",
		Args: cobra.MinimumNArgs(1),
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

			var total ingest.Result
			type fileReport struct {
				File        string `json:"file"`
				House       string `json:"house"`
				Accessories int    `json:"accessories"`
			}
			reports := make([]fileReport, 0, len(args))

			for _, arg := range args {
				path, err := config.ExpandPath(arg)
				if err != nil {
					return err
				}
				doc, err := ingest.ParseFile(path)
				if err != nil {
					return err
				}
				result, err := ingest.Stage(cmd.Context(), store, linker, doc, ctx.ensureLogger())
				if err != nil {
					return err
				}
				total.Houses += result.Houses
				total.Accessories += result.Accessories
				reports = append(reports, fileReport{
					File:        doc.SourceFile,
					House:       doc.House.Name,
					Accessories: result.Accessories,
				})
			}

			if jsonOutput {
				return writeJSON(cmd, map[string]any{
					"files":       reports,
					"houses":      total.Houses,
					"accessories": total.Accessories,
				})
			}
			out := cmd.OutOrStdout()
			for _, report := range reports {
				fmt.Fprintf(out, "%s: house %q, %d accessories staged\n",
					report.File, report.House, report.Accessories)
			}
			fmt.Fprintf(out, "Imported %d houses, staged %d accessories\n",
				total.Houses, total.Accessories)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON output")
	return cmd
}
