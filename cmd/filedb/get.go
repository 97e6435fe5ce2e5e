package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"filedb"
	"filedb/internal/config"
)

func newGetCmd(cfg *config.Config) *cobra.Command {
	var (
		timeStamp string
		latest    bool
		outPath   string
	)

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Retrieve a stored payload",
		Args:  requireExactlyArgs(1, "key is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			if latest == (strings.TrimSpace(timeStamp) != "") {
				return fmt.Errorf("exactly one of --timestamp or --latest is required")
			}

			return withDB(cfg, func(db *filedb.FileDB) error {
				var data []byte
				var err error
				if latest {
					data, _, err = db.RetrieveLatest(cmd.Context(), key)
				} else {
					ts, parseErr := parseTimeStamp(timeStamp)
					if parseErr != nil {
						return parseErr
					}
					data, err = db.RetrieveFile(cmd.Context(), key, ts)
				}
				if err != nil {
					return err
				}
				if data == nil {
					cmd.PrintErrln("warning: entry is present but holds no content")
					return nil
				}

				if outPath != "" {
					return os.WriteFile(outPath, data, 0644)
				}
				_, err = os.Stdout.Write(data)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&timeStamp, "timestamp", "", "RFC3339 time stamp of the entry")
	cmd.Flags().BoolVar(&latest, "latest", false, "retrieve the newest entry for the key")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write payload to this file instead of stdout")

	return cmd
}
