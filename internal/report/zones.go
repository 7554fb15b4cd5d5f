package report

import (
	"sort"
	"time"

	"github.com/jengzang/fleet-activity-go/internal/models"
	"github.com/jengzang/fleet-activity-go/internal/spatial"
)

// FindStartHomeZone resolves which home zone, if any, the device started
// its day in. It first tests the resolved position at the first trip's
// start instant against each home zone in order. If that finds nothing it
// walks the raw pings backward in time from the first trip's start to the
// start of the day, testing each — this covers the case where no ping
// exists at the resolved instant but one slightly earlier was still
// inside the yard. Returns nil when the day has no trips or no match.
func FindStartHomeZone(dayTrips []models.Trip, logs []models.LogRecord, homeZones []models.Zone, dayStart time.Time) *models.Zone {
	if len(dayTrips) == 0 {
		return nil
	}
	firstStart := dayTrips[0].Start

	if pos := PositionAtTime(logs, firstStart); pos != nil && pos.Known() {
		for i := range homeZones {
			if spatial.PointInZone(*pos, homeZones[i]) {
				return &homeZones[i]
			}
		}
	}

	// Backward scan over the morning's pings. The input log set is not
	// sorted, so collect the window first.
	var window []models.LogRecord
	for _, l := range logs {
		if l.DateTime.Before(dayStart) || l.DateTime.After(firstStart) {
			continue
		}
		if !l.Position().Known() {
			continue
		}
		window = append(window, l)
	}
	sort.Slice(window, func(i, j int) bool {
		return window[i].DateTime.After(window[j].DateTime)
	})

	for _, l := range window {
		pos := l.Position()
		for i := range homeZones {
			if spatial.PointInZone(pos, homeZones[i]) {
				return &homeZones[i]
			}
		}
	}

	return nil
}

// FindZoneAtPoint returns the name of the first zone in the caller's
// order containing the point, skipping excludeZoneID (typically the home
// zone). Zone priority is input list order — first match wins, not
// nearest or smallest; callers rely on that as a documented contract.
func FindZoneAtPoint(pos models.Position, zones []models.Zone, excludeZoneID string) (string, bool) {
	for _, z := range zones {
		if z.ID == excludeZoneID {
			continue
		}
		if spatial.PointInZone(pos, z) {
			if z.Name != "" {
				return z.Name, true
			}
			return "Zone", true
		}
	}
	return "", false
}
