package main

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"filedb"
	"filedb/internal/config"
)

func newPutCmd(cfg *config.Config) *cobra.Command {
	var (
		key       string
		timeStamp string
	)

	cmd := &cobra.Command{
		Use:   "put <path>",
		Short: "Store a file's contents under a key and time stamp",
		Args:  requireExactlyArgs(1, "path is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			if strings.TrimSpace(key) == "" {
				key = filepath.Base(path)
			}

			ts := time.Now().UTC()
			if strings.TrimSpace(timeStamp) != "" {
				ts, err = parseTimeStamp(timeStamp)
				if err != nil {
					return err
				}
			}

			return withDB(cfg, func(db *filedb.FileDB) error {
				if err := db.AddFile(cmd.Context(), key, ts, data); err != nil {
					return err
				}
				return writePlain("stored %s at %s (%d bytes)\n", key, ts.Truncate(time.Second).Format(timeStampLayout), len(data))
			})
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "key to store under (default: base name of path)")
	cmd.Flags().StringVar(&timeStamp, "timestamp", "", "RFC3339 time stamp (default: now)")

	return cmd
}
