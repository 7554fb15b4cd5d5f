// Package export renders a generated report as a flat CSV file for
// download. Column order and duration formatting match the tabular
// preview exactly.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jengzang/fleet-activity-go/internal/models"
)

// Headers is the CSV column order.
var Headers = []string{
	"Date",
	"Device Name",
	"Device Id",
	"Group",
	"Start Home Zone",
	"Ignition On Time",
	"Idle In Zone",
	"Idle Out Zone",
	"Stop Count",
	"Stop Locations",
	"Total Stopped Time",
	"Allowed Break (min)",
	"Break Stop Matched (min)",
	"Adjusted Stop Count",
	"Adjusted Stopped Time",
}

// FormatDurationHHMM renders seconds as a zero-padded H:MM duration.
// Seconds within a minute are truncated, not rounded.
func FormatDurationHHMM(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	return fmt.Sprintf("%02d:%02d", h, m)
}

// Filename builds the export file name from the report's date range.
func Filename(from, to string) string {
	return fmt.Sprintf("Fleet_Activity_Report_%s-%s.csv",
		strings.ReplaceAll(from, "-", ""),
		strings.ReplaceAll(to, "-", ""))
}

// WriteCSV writes the report rows, with a header line, to w.
func WriteCSV(w io.Writer, rep *models.ActivityReport) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Headers); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, row := range rep.Rows {
		record := []string{
			row.Date,
			row.DeviceName,
			row.DeviceID,
			row.Group,
			row.StartHomeZone,
			FormatDurationHHMM(row.IgnitionOnSeconds),
			FormatDurationHHMM(row.IdleInZoneSeconds),
			FormatDurationHHMM(row.IdleOutZoneSeconds),
			strconv.Itoa(row.StopCount),
			row.StopLocations,
			FormatDurationHHMM(row.TotalStoppedSeconds),
			strconv.Itoa(row.AllowedBreakMinutes),
			strconv.FormatFloat(row.BreakStopMatchedMinutes, 'f', -1, 64),
			strconv.Itoa(row.AdjustedStopCount),
			FormatDurationHHMM(row.AdjustedStoppedSeconds),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
