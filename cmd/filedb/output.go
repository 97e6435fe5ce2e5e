package main

import (
	"fmt"
	"os"
	"time"

	"filedb"
	"filedb/internal/format"
)

const timeStampLayout = time.RFC3339

// selectFormatter returns the structured formatter for the output flags,
// or nil for plain text.
func selectFormatter(jsonOutput, yamlOutput *bool) format.Formatter {
	switch {
	case jsonOutput != nil && *jsonOutput:
		return format.JSONFormatter{}
	case yamlOutput != nil && *yamlOutput:
		return format.YAMLFormatter{}
	default:
		return nil
	}
}

func writeFormatted(formatter format.Formatter, payload any) error {
	return formatter.Write(os.Stdout, payload)
}

func writePlain(formatStr string, args ...any) error {
	_, err := fmt.Fprintf(os.Stdout, formatStr, args...)
	return err
}

func writeEntryList(entries []filedb.Entry) error {
	for _, entry := range entries {
		if err := writePlain("%s\t%s\n", entry.Key, entry.TimeStamp.Format(timeStampLayout)); err != nil {
			return err
		}
	}
	return nil
}

func parseTimeStamp(raw string) (time.Time, error) {
	ts, err := time.Parse(timeStampLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: expected RFC3339, e.g. 2023-01-01T00:00:00Z", raw)
	}
	return ts, nil
}
