// Package cmd implements the pmdash command-line interface.
package cmd

import (
	"log/slog"

	"pmdashboard/config"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "pmdash",
	Short: "Project management dashboard API",
	Long: `pmdash serves the project management dashboard API: projects, tasks,
sprints, risks and time logs with kanban, backlog, WBS, timeline and
reporting views.

  pmdash serve               Start the HTTP API
  pmdash migrate             Create or update the database schema
  pmdash seed                Load demo accounts and projects
  pmdash export tasks        Write the tasks report as CSV`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml); environment variables win over it")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newSeedCmd())
	rootCmd.AddCommand(newExportCmd())
}

// loadConfig reads the configuration and installs the process logger.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	logger := cfg.NewLogger()
	slog.SetDefault(logger)
	return cfg, logger, nil
}
