package models

import (
	"encoding/json"
	"fmt"
)

// Position represents a geographic point. A nil coordinate means "unknown",
// never zero — the telemetry feed omits coordinates it could not fix.
type Position struct {
	Lat *float64 `json:"lat,omitempty"`
	Lng *float64 `json:"lng,omitempty"`
}

// NewPosition builds a position with both coordinates known.
func NewPosition(lat, lng float64) Position {
	return Position{Lat: &lat, Lng: &lng}
}

// Known reports whether both coordinates are present.
func (p Position) Known() bool {
	return p.Lat != nil && p.Lng != nil
}

// CoordinateKey formats the position as a fixed-precision "lat,lng" string
// (5 decimal places). Used as the geocode cache key and as the fallback
// stop-location label. Empty when either coordinate is unknown.
func (p Position) CoordinateKey() string {
	if !p.Known() {
		return ""
	}
	return fmt.Sprintf("%.5f,%.5f", *p.Lat, *p.Lng)
}

// rawPosition covers the coordinate key conventions seen in the zone feed:
// latitude/longitude, x/y, and lat/lng may each appear on a vertex record.
type rawPosition struct {
	Lat       *float64 `json:"lat"`
	Lng       *float64 `json:"lng"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	X         *float64 `json:"x"`
	Y         *float64 `json:"y"`
}

// UnmarshalJSON normalizes any of the accepted external shapes into the
// canonical Position. Precedence is latitude/longitude, then x/y, then
// lat/lng. A vertex that resolves to neither stays unknown rather than
// failing the decode.
func (p *Position) UnmarshalJSON(data []byte) error {
	var raw rawPosition
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Lat = firstCoord(raw.Latitude, raw.X, raw.Lat)
	p.Lng = firstCoord(raw.Longitude, raw.Y, raw.Lng)
	return nil
}

func firstCoord(candidates ...*float64) *float64 {
	for _, c := range candidates {
		if c != nil {
			return c
		}
	}
	return nil
}
