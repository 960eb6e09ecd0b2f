// Package export renders script collections for download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/adreel/adreel-api/internal/script"
)

// csvHeader is the column layout of the script export.
var csvHeader = []string{
	"id", "topic", "hook", "body", "cta",
	"video_status", "video_provider", "video_url", "video_error", "created_at",
}

// WriteCSV writes the scripts as CSV to w, newest first as provided.
func WriteCSV(w io.Writer, scripts []*script.Script) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}

	for _, sc := range scripts {
		videoURL := sc.Video.ResultURL
		if sc.Video.ArchiveURL != "" {
			videoURL = sc.Video.ArchiveURL
		}
		record := []string{
			sc.ID,
			sc.Topic,
			sc.Hook,
			sc.Body,
			sc.CTA,
			string(sc.Video.Status),
			string(sc.Video.Provider),
			videoURL,
			sc.Video.Error,
			sc.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("export: write script %s: %w", sc.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export: flush: %w", err)
	}
	return nil
}
