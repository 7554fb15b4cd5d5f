package models

import (
	"encoding/json"
	"time"
)

// DurationSeconds is a duration expressed in seconds on the wire. The
// telemetry feed is inconsistent: some responses carry a bare number of
// seconds, others an object with a totalSeconds field. A value that is
// absent or unreadable decodes to zero — a single malformed field must
// never abort a report.
type DurationSeconds float64

// UnmarshalJSON accepts a number, an object with totalSeconds, or null.
func (d *DurationSeconds) UnmarshalJSON(data []byte) error {
	*d = 0

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*d = DurationSeconds(n)
		return nil
	}

	var obj struct {
		TotalSeconds *float64 `json:"totalSeconds"`
	}
	if err := json.Unmarshal(data, &obj); err == nil && obj.TotalSeconds != nil {
		*d = DurationSeconds(*obj.TotalSeconds)
	}
	return nil
}

// Seconds returns the duration as a plain float64.
func (d DurationSeconds) Seconds() float64 { return float64(d) }

// Trip is one engine-on interval for a device.
type Trip struct {
	ID     string    `json:"id,omitempty"`
	Device EntityRef `json:"device"`

	Start time.Time `json:"start"`
	Stop  time.Time `json:"stop"`

	DrivingDuration DurationSeconds `json:"drivingDuration"`
	IdlingDuration  DurationSeconds `json:"idlingDuration"`

	AverageSpeed *float64 `json:"averageSpeed,omitempty"`
	MaximumSpeed *float64 `json:"maximumSpeed,omitempty"`
	Distance     *float64 `json:"distance,omitempty"`
}

// IgnitionSeconds is driving plus idling time. When both are absent or
// zero it falls back to the wall-clock span of the trip.
func (t Trip) IgnitionSeconds() float64 {
	drive := t.DrivingDuration.Seconds()
	idle := t.IdlingDuration.Seconds()
	if drive == 0 && idle == 0 && !t.Start.IsZero() && !t.Stop.IsZero() {
		span := t.Stop.Sub(t.Start).Seconds()
		if span > 0 {
			return span
		}
		return 0
	}
	return drive + idle
}

// LogRecord is one GPS ping. The input stream is unordered and sampled
// at irregular intervals; gaps of arbitrary length are legal.
type LogRecord struct {
	Device    EntityRef `json:"device"`
	DateTime  time.Time `json:"dateTime"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	Speed     *float64  `json:"speed,omitempty"`
}

// Position returns the ping's coordinates as a Position.
func (l LogRecord) Position() Position {
	return Position{Lat: l.Latitude, Lng: l.Longitude}
}
