package cmd

import (
	"fmt"
	"strings"

	"pmdashboard/server"

	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo accounts and projects",
		Long: `Creates the admin, manager and member accounts when they are missing and,
on an empty database, two demo projects with a sprint, tasks, a risk and a
time log. Running it again changes nothing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			app, err := server.NewApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			res, err := app.Seed(cmd.Context())
			if err != nil {
				return err
			}
			users := "none"
			if len(res.Users) > 0 {
				users = strings.Join(res.Users, ", ")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "users created: %s\nprojects created: %d\n", users, res.Projects)
			return nil
		},
	}
}
