package models

// StopInterval is a derived stop: the gap between the end of one trip and
// the start of the next on the same day, with the device's best-known
// position at the instant the gap began.
type StopInterval struct {
	DurationMs int64    `json:"durationMs"`
	Position   Position `json:"position"`
}

// Minutes returns the stop duration in minutes.
func (s StopInterval) Minutes() float64 {
	return float64(s.DurationMs) / 60000.0
}

// DailyActivityRow is one report row: a single (device, calendar day)
// pair. Every day in the requested range produces exactly one row per
// device, even days with no recorded trips.
type DailyActivityRow struct {
	Date       string `json:"date"` // YYYY-MM-DD
	DeviceID   string `json:"deviceId"`
	DeviceName string `json:"deviceName"`
	Group      string `json:"group"`

	StartHomeZone string `json:"startHomeZone"`

	IgnitionOnSeconds  float64 `json:"ignitionOnSeconds"`
	IdleInZoneSeconds  float64 `json:"idleInZoneSeconds"`
	IdleOutZoneSeconds float64 `json:"idleOutZoneSeconds"`

	StopCount           int     `json:"stopCount"`
	StopLocations       string  `json:"stopLocations"` // semicolon-joined labels
	TotalStoppedSeconds float64 `json:"totalStoppedSeconds"`

	AllowedBreakMinutes     int     `json:"allowedBreakMinutes"`
	BreakStopMatchedMinutes float64 `json:"breakStopMatchedMinutes"`
	AdjustedStopCount       int     `json:"adjustedStopCount"`
	AdjustedStoppedSeconds  float64 `json:"adjustedStoppedSeconds"`
}

// ReportFilter carries the requested date range. Presets mirror the
// report UI: thisMonth (first of month to today), lastMonth (the full
// previous month) or custom with explicit from/to dates (YYYY-MM-DD).
type ReportFilter struct {
	Preset string `form:"preset" json:"preset"`
	From   string `form:"from" json:"from"`
	To     string `form:"to" json:"to"`
}

// ActivityReport is the full report for a device group and date range,
// rows in device-then-date order.
type ActivityReport struct {
	GroupID string             `json:"groupId"`
	From    string             `json:"from"` // YYYY-MM-DD
	To      string             `json:"to"`   // YYYY-MM-DD
	Rows    []DailyActivityRow `json:"rows"`
}
