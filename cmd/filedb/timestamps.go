package main

import (
	"github.com/spf13/cobra"

	"filedb"
	"filedb/internal/config"
)

func newTimestampsCmd(cfg *config.Config, jsonOutput, yamlOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timestamps <key>",
		Short: "List every time stamp stored for a key",
		Args:  requireExactlyArgs(1, "key is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			return withDB(cfg, func(db *filedb.FileDB) error {
				timestamps, err := db.Timestamps(cmd.Context(), key)
				if err != nil {
					return err
				}

				if formatter := selectFormatter(jsonOutput, yamlOutput); formatter != nil {
					formatted := make([]string, 0, len(timestamps))
					for _, ts := range timestamps {
						formatted = append(formatted, ts.Format(timeStampLayout))
					}
					return writeFormatted(formatter, formatted)
				}
				for _, ts := range timestamps {
					if err := writePlain("%s\n", ts.Format(timeStampLayout)); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	return cmd
}
