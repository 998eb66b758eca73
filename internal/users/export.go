package users

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"
)

// WriteCSV writes the full user registry as CSV, header row first.
func WriteCSV(w io.Writer, recs []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"User ID", "Username", "Name", "Language", "Joined", "Status"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range recs {
		row := []string{
			fmt.Sprintf("%d", r.UserID),
			r.Username,
			r.FullName,
			r.Language,
			r.JoinedAt.UTC().Format(time.RFC3339),
			r.Status,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
