package report

import (
	"context"
	"strings"
	"time"

	"github.com/jengzang/fleet-activity-go/internal/models"
	"github.com/jengzang/fleet-activity-go/internal/spatial"
)

// StopLabeler resolves raw coordinates into human-readable location
// labels, best effort. Implementations must return exactly one label per
// position and never fail the report; the builder falls back to a
// fixed-precision coordinate string for any label it cannot get.
type StopLabeler interface {
	Labels(ctx context.Context, positions []models.Position) []string
}

// RowBuilder derives DailyActivityRows for one report run. Zones are
// immutable reference data shared across devices; the home-zone list and
// the all-zone list keep their caller-supplied priority order.
type RowBuilder struct {
	HomeZones []models.Zone
	AllZones  []models.Zone
	Labeler   StopLabeler
	Loc       *time.Location
}

// BuildRows emits one row per calendar day in [from, to] inclusive for
// the device, in date order. Days without trips still produce a row with
// zeroed fields. trips must be sorted ascending by start time; logs are
// the device's full-range ping set in any order.
func (b *RowBuilder) BuildRows(ctx context.Context, device models.Device, group string, from, to time.Time, trips []models.Trip, logs []models.LogRecord) []models.DailyActivityRow {
	loc := b.location()
	var rows []models.DailyActivityRow

	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
	last := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, loc)
	for !day.After(last) {
		rows = append(rows, b.buildRow(ctx, device, group, day, trips, logs))
		day = day.AddDate(0, 0, 1)
	}
	return rows
}

// buildRow derives a single device-day. Any missing or malformed field
// on a trip or ping degrades to a zero or unknown value for that field
// alone; one bad record never aborts the row.
func (b *RowBuilder) buildRow(ctx context.Context, device models.Device, group string, dayStart time.Time, trips []models.Trip, logs []models.LogRecord) models.DailyActivityRow {
	dayEnd := dayStart.AddDate(0, 0, 1).Add(-time.Millisecond)

	row := models.DailyActivityRow{
		Date:       dayStart.Format("2006-01-02"),
		DeviceID:   device.ID,
		DeviceName: device.DisplayName(),
		Group:      group,
	}

	// Trips are day-bucketed by their start time, local calendar date.
	var dayTrips []models.Trip
	for _, t := range trips {
		if !t.Start.Before(dayStart) && !t.Start.After(dayEnd) {
			dayTrips = append(dayTrips, t)
		}
	}
	if len(dayTrips) == 0 {
		return row
	}

	startHomeZone := FindStartHomeZone(dayTrips, logs, b.HomeZones, dayStart)
	if startHomeZone != nil {
		row.StartHomeZone = startHomeZone.Name
	}

	// Ignition time and the idle split. Each trip's idling seconds are
	// classified by where the trip ended relative to the start home zone,
	// so in + out always sums to the day's total idling.
	for _, t := range dayTrips {
		idle := t.IdlingDuration.Seconds()
		row.IgnitionOnSeconds += t.IgnitionSeconds()

		inZone := false
		if startHomeZone != nil {
			if pos := PositionAtTime(logs, t.Stop); pos != nil {
				inZone = spatial.PointInZone(*pos, *startHomeZone)
			}
		}
		if inZone {
			row.IdleInZoneSeconds += idle
		} else {
			row.IdleOutZoneSeconds += idle
		}
	}

	stops := DetectStops(dayTrips, logs)
	row.StopCount = len(stops)
	var totalStoppedMs int64
	for _, s := range stops {
		totalStoppedMs += s.DurationMs
	}
	row.TotalStoppedSeconds = float64(totalStoppedMs) / 1000.0

	row.StopLocations = strings.Join(b.stopLabels(ctx, stops, startHomeZone), "; ")

	shift := dayTrips[len(dayTrips)-1].Stop.Sub(dayTrips[0].Start)
	adj := ApplyBreakAdjustment(stops, shift)
	row.AllowedBreakMinutes = adj.AllowedMinutes
	row.BreakStopMatchedMinutes = adj.MatchedMinutes
	row.AdjustedStopCount = adj.AdjustedStopCount
	row.AdjustedStoppedSeconds = float64(adj.AdjustedStoppedMs) / 1000.0

	return row
}

// stopLabels resolves the reportable "away" stop locations. Stops with
// no known position are skipped, and stops inside the home zone are
// omitted entirely (they still count toward the stop totals). The rest
// label as the first containing zone, else a reverse-geocoded address,
// else the bare coordinates.
func (b *RowBuilder) stopLabels(ctx context.Context, stops []models.StopInterval, homeZone *models.Zone) []string {
	var labels []string
	var pendingIdx []int
	var pendingPos []models.Position

	excludeID := ""
	if homeZone != nil {
		excludeID = homeZone.ID
	}

	for _, s := range stops {
		if !s.Position.Known() {
			continue
		}
		if homeZone != nil && spatial.PointInZone(s.Position, *homeZone) {
			continue
		}
		if name, ok := FindZoneAtPoint(s.Position, b.AllZones, excludeID); ok {
			labels = append(labels, name)
			continue
		}
		labels = append(labels, s.Position.CoordinateKey())
		pendingIdx = append(pendingIdx, len(labels)-1)
		pendingPos = append(pendingPos, s.Position)
	}

	if b.Labeler != nil && len(pendingPos) > 0 {
		resolved := b.Labeler.Labels(ctx, pendingPos)
		for i, idx := range pendingIdx {
			if i < len(resolved) && resolved[i] != "" {
				labels[idx] = resolved[i]
			}
		}
	}

	return labels
}

func (b *RowBuilder) location() *time.Location {
	if b.Loc != nil {
		return b.Loc
	}
	return time.Local
}
