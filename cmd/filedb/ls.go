package main

import (
	"github.com/spf13/cobra"

	"filedb"
	"filedb/internal/config"
)

func newLsCmd(cfg *config.Config, jsonOutput, yamlOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List every stored (key, time stamp) pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cfg, func(db *filedb.FileDB) error {
				entries, skipped, err := db.ListAll(cmd.Context())
				if err != nil {
					return err
				}
				if skipped > 0 {
					cmd.PrintErrf("warning: skipped %d undecodable rows\n", skipped)
				}

				if formatter := selectFormatter(jsonOutput, yamlOutput); formatter != nil {
					return writeFormatted(formatter, entries)
				}
				return writeEntryList(entries)
			})
		},
	}

	return cmd
}
