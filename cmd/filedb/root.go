package main

import (
	"github.com/spf13/cobra"

	"filedb/internal/config"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	var (
		dbPath     string
		logLevel   string
		jsonOutput bool
		yamlOutput bool
	)

	cmd := &cobra.Command{
		Use:   "filedb",
		Short: "Filedb archives file contents in SQLite keyed by name and time stamp",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if dbPath != "" {
				cfg.DBPath = dbPath
			}
			msg, err := configureLoggerForCLI(logLevel, cfg.LogLevel)
			if err != nil {
				return err
			}
			if msg != "" {
				cmd.PrintErrln(msg)
			}
			return nil
		},
	}

	cmd.Version = version
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the database file")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON")
	cmd.PersistentFlags().BoolVar(&yamlOutput, "yaml", false, "output YAML")

	cmd.AddCommand(
		newPutCmd(cfg),
		newGetCmd(cfg),
		newLsCmd(cfg, &jsonOutput, &yamlOutput),
		newTimestampsCmd(cfg, &jsonOutput, &yamlOutput),
	)

	return cmd
}
