package report

import (
	"math"
	"time"

	"github.com/jengzang/fleet-activity-go/internal/models"
)

// PositionAtTime finds the device's best-known position at an arbitrary
// instant from a sparse, unordered log set. It locates the chronologically
// nearest ping at or before the instant and the nearest at or after it,
// then resolves without interpolation:
//
//   - both are the same record: that record's position
//   - both exist: the before record's coordinates, filling any missing
//     axis from the after record
//   - only one exists: its position
//   - neither exists: nil
//
// Favoring the last confirmed position over geometric accuracy is
// deliberate — telemetry sampling is sparse and irregular, and a stale
// fix is more trustworthy than a midpoint guess.
//
// O(n) per call; callers querying many instants against the same log set
// pay O(n·m) and may memoize, but correctness does not depend on it.
func PositionAtTime(logs []models.LogRecord, instant time.Time) *models.Position {
	t := instant.UnixMilli()

	beforeIdx, afterIdx := -1, -1
	bestBefore := int64(math.MinInt64)
	bestAfter := int64(math.MaxInt64)

	for i := range logs {
		lt := logs[i].DateTime.UnixMilli()
		if lt <= t && lt > bestBefore {
			bestBefore = lt
			beforeIdx = i
		}
		if lt >= t && lt < bestAfter {
			bestAfter = lt
			afterIdx = i
		}
	}

	switch {
	case beforeIdx < 0 && afterIdx < 0:
		return nil
	case beforeIdx < 0:
		p := logs[afterIdx].Position()
		return &p
	case afterIdx < 0 || beforeIdx == afterIdx:
		p := logs[beforeIdx].Position()
		return &p
	}

	before := logs[beforeIdx]
	after := logs[afterIdx]
	p := before.Position()
	if p.Lat == nil {
		p.Lat = after.Latitude
	}
	if p.Lng == nil {
		p.Lng = after.Longitude
	}
	return &p
}
