package report

import (
	"time"

	"github.com/jengzang/fleet-activity-go/internal/models"
)

// StopThreshold is the minimum inter-trip gap counted as a stop. Gaps
// below it are brief idling within normal trip boundaries, not the
// vehicle parked with the engine off.
const StopThreshold = 10 * time.Minute

// DetectStops finds the stops in a day's trips, which must be sorted
// ascending by start time. Each gap between adjacent trips that reaches
// the threshold becomes one StopInterval, positioned at the resolver's
// estimate for the gap's start instant. A day with zero or one trips has
// no adjacent pair and therefore no stops.
func DetectStops(dayTrips []models.Trip, logs []models.LogRecord) []models.StopInterval {
	var stops []models.StopInterval
	for i := 0; i+1 < len(dayTrips); i++ {
		gapStart := dayTrips[i].Stop
		gap := dayTrips[i+1].Start.Sub(gapStart)
		if gap < StopThreshold {
			continue
		}
		stop := models.StopInterval{DurationMs: gap.Milliseconds()}
		if pos := PositionAtTime(logs, gapStart); pos != nil {
			stop.Position = *pos
		}
		stops = append(stops, stop)
	}
	return stops
}
