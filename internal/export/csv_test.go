package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adreel/adreel-api/internal/script"
)

func TestWriteCSV(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	scripts := []*script.Script{
		{
			ID:    "sc-1",
			Topic: "productivity app",
			Hook:  "Stop scrolling.",
			Body:  "Our app saves you hours.",
			CTA:   "Try it free.",
			Video: script.VideoJob{
				Status:    script.VideoComplete,
				Provider:  script.ProviderHeyGen,
				ResultURL: "https://cdn/v.mp4",
			},
			CreatedAt: created,
		},
		{
			ID:        "sc-2",
			Topic:     "fitness tracker",
			Video:     script.VideoJob{Status: script.VideoFailed, Error: "render error"},
			CreatedAt: created,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, scripts))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, []string{
		"sc-1", "productivity app", "Stop scrolling.", "Our app saves you hours.", "Try it free.",
		"complete", "heygen", "https://cdn/v.mp4", "", "2026-03-14 09:30:00",
	}, records[1])
	assert.Equal(t, "render error", records[2][8])
}

func TestWriteCSV_PrefersArchiveURL(t *testing.T) {
	scripts := []*script.Script{
		{
			ID: "sc-1",
			Video: script.VideoJob{
				Status:     script.VideoComplete,
				ResultURL:  "https://signed.example.com/expiring.mp4",
				ArchiveURL: "https://bucket.s3.amazonaws.com/videos/sc-1.mp4",
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, scripts))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "https://bucket.s3.amazonaws.com/videos/sc-1.mp4", records[1][7])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1, "header only")
}

func TestWriteCSV_FieldsWithCommasAndQuotes(t *testing.T) {
	scripts := []*script.Script{
		{ID: "sc-1", Hook: `He said "now", not later.`},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, scripts))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, `He said "now", not later.`, records[1][2])
}
