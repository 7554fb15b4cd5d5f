package report

import (
	"math"
	"time"

	"github.com/jengzang/fleet-activity-go/internal/models"
)

// Allowed break lengths in minutes, tiered by shift length.
const (
	AllowedBreak15 = 15
	AllowedBreak30 = 30
	AllowedBreak45 = 45
)

// AllowedBreakMinutes returns the regulatory break length for a shift:
// under 4 hours 15 minutes, under 8 hours 30 minutes, otherwise 45.
func AllowedBreakMinutes(shift time.Duration) int {
	hours := shift.Hours()
	if hours < 4 {
		return AllowedBreak15
	}
	if hours < 8 {
		return AllowedBreak30
	}
	return AllowedBreak45
}

// SelectBreakStop picks which stop counts as the mandated break: among
// stops at least allowedMinutes long, the one closest to allowedMinutes
// from above, earliest in list order on a tie. Shorter stops are never
// eligible — the break the driver is owed must be at least this long to
// count. Returns -1 when no stop qualifies.
func SelectBreakStop(stops []models.StopInterval, allowedMinutes int) int {
	bestIdx := -1
	bestDiff := math.Inf(1)
	for i, s := range stops {
		durMin := s.Minutes()
		if durMin < float64(allowedMinutes) {
			continue
		}
		if diff := durMin - float64(allowedMinutes); diff < bestDiff {
			bestDiff = diff
			bestIdx = i
		}
	}
	return bestIdx
}

// BreakAdjustment is the break-compliance result for one device-day.
type BreakAdjustment struct {
	AllowedMinutes int
	// MatchedMinutes is the full duration of the matched stop, recorded
	// for auditability even though only the allowed portion is deducted.
	// Zero when no stop qualified.
	MatchedMinutes    float64
	MatchedIndex      int // index into the stop list, -1 when none
	AdjustedStopCount int
	AdjustedStoppedMs int64
}

// ApplyBreakAdjustment determines the allowed break for the shift and
// deducts the matched break stop, if any, from the stop totals. Only the
// allowed portion of the break is deducted; time beyond it still counts
// as unproductive stopped time. Pure function of its inputs.
func ApplyBreakAdjustment(stops []models.StopInterval, shift time.Duration) BreakAdjustment {
	var totalMs int64
	for _, s := range stops {
		totalMs += s.DurationMs
	}

	adj := BreakAdjustment{
		AllowedMinutes:    AllowedBreakMinutes(shift),
		MatchedIndex:      -1,
		AdjustedStopCount: len(stops),
		AdjustedStoppedMs: totalMs,
	}

	idx := SelectBreakStop(stops, adj.AllowedMinutes)
	if idx < 0 {
		return adj
	}

	matched := stops[idx]
	deduction := int64(adj.AllowedMinutes) * 60000
	if matched.DurationMs < deduction {
		deduction = matched.DurationMs
	}

	adj.MatchedIndex = idx
	adj.MatchedMinutes = matched.Minutes()
	adj.AdjustedStopCount = len(stops) - 1
	adj.AdjustedStoppedMs = totalMs - deduction
	return adj
}
