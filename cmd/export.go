package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"pmdashboard/connection"
	"pmdashboard/report"
	"pmdashboard/services"

	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var out string
	slugs := make([]string, len(report.Kinds))
	for i, k := range report.Kinds {
		slugs[i] = k.Slug()
	}

	cmd := &cobra.Command{
		Use:       "export <kind>",
		Short:     "Write a report as CSV",
		Long:      "Writes every record of one kind as CSV. Kinds: " + strings.Join(slugs, ", ") + ".",
		Args:      cobra.ExactArgs(1),
		ValidArgs: slugs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := report.ParseKind(args[0])
			if err != nil {
				return err
			}
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := connection.DBConnection(cfg)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}
			views := services.NewViews(services.NewRepository(db))

			var w io.Writer = cmd.OutOrStdout()
			if out != "" {
				if out == "." {
					out = report.FileName(kind, time.Now())
				}
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if err := views.Export(cmd.Context(), w, kind); err != nil {
				return err
			}
			if out != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", out)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", `output file (default stdout; "." for <kind>_report_YYYYMMDD.csv)`)
	return cmd
}
