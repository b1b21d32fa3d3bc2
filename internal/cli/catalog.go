package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/predici-api/internal/database"
	"github.com/zapponejosh/predici-api/internal/sermon"
)

// errInvalidCatalog is returned by catalog validate when an entry fails.
var errInvalidCatalog = errors.New("catalog has invalid entries")

func (a *app) catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect, validate and export the sermon catalog",
	}
	cmd.AddCommand(a.catalogValidateCmd(), a.catalogExportCmd(), a.catalogImportsCmd())
	return cmd
}

type validationReport struct {
	File     string   `json:"file"`
	Total    int      `json:"total"`
	Valid    int      `json:"valid"`
	Rejected []string `json:"rejected"`
}

func (a *app) catalogValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check every entry of a catalog file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := sermon.LoadCatalogFile(args[0])
			if err != nil {
				return err
			}
			valid, rejected := sermon.SplitValid(all)

			report := validationReport{File: args[0], Total: len(all), Valid: len(valid), Rejected: []string{}}
			for _, err := range rejected {
				report.Rejected = append(report.Rejected, err.Error())
			}

			err = a.render(cmd.OutOrStdout(), report, func(w io.Writer) {
				fmt.Fprintf(w, "%s: %d of %d entries valid\n", report.File, report.Valid, report.Total)
				for _, msg := range report.Rejected {
					fmt.Fprintf(w, "  %s\n", msg)
				}
			})
			if err != nil {
				return err
			}
			if len(rejected) > 0 {
				return fmt.Errorf("%w: %d", errInvalidCatalog, len(rejected))
			}
			return nil
		},
	}
}

func (a *app) catalogExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the catalog as YAML",
		Long:  "Write the catalog from --db (or --catalog) as a YAML file that cmd/import accepts.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.catalog(cmd.Context())
			if err != nil {
				return err
			}
			data, err := sermon.WriteCatalogYAML(catalog)
			if err != nil {
				return err
			}

			if output != "" {
				return os.WriteFile(output, data, 0o644)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	return cmd
}

func (a *app) catalogImportsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "imports",
		Short: "Show the import history of the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			imports, err := db.ListImports(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if imports == nil {
				imports = []database.CatalogImport{}
			}

			return a.render(cmd.OutOrStdout(), imports, func(w io.Writer) {
				for _, imp := range imports {
					fmt.Fprintf(w, "%s  %s  %s  %d imported, %d rejected\n",
						imp.ID, imp.ImportedAt.Format("2006-01-02 15:04"), imp.Source, imp.Imported, imp.Rejected)
				}
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 10, "Max entries")
	return cmd
}
