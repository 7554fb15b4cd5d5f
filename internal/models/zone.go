package models

// ZoneType categorizes zones (e.g. the type whose name contains "Home").
type ZoneType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Zone is a geofence: either a polygon (>= 3 vertices) or a circle
// (center + radius in meters). A zone carrying neither representation is
// inert — containment tests simply return false for it.
//
// Zones are read-only reference data for the duration of a report, and
// their caller-supplied order is meaningful: containment lookups return
// the first matching zone, not the nearest or smallest.
type Zone struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// Polygon representation.
	Points []Position `json:"points,omitempty"`

	// Circle representation.
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	RadiusMeters *float64 `json:"radius,omitempty"`

	ZoneTypes []ZoneType `json:"zoneTypes,omitempty"`
}

// HasType reports whether the zone is a member of the given zone type.
func (z Zone) HasType(typeID string) bool {
	for _, zt := range z.ZoneTypes {
		if zt.ID == typeID {
			return true
		}
	}
	return false
}

// Center returns the circle center as a Position (unknown coordinates
// when the zone has no circle representation).
func (z Zone) Center() Position {
	return Position{Lat: z.Latitude, Lng: z.Longitude}
}
