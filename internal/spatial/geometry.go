package spatial

import (
	"github.com/jengzang/fleet-activity-go/internal/models"
)

// PointInPolygon checks if a point is inside a polygon using ray casting:
// a horizontal ray cast from the test point crosses the boundary an odd
// number of times exactly when the point is inside. The result is
// independent of which vertex the ring starts at.
//
// Vertices with unknown coordinates are skipped rather than treated as an
// error; the parity test runs over the resolvable edges only.
func PointInPolygon(p models.Position, vertices []models.Position) bool {
	if !p.Known() || len(vertices) < 3 {
		return false
	}
	lat, lng := *p.Lat, *p.Lng

	inside := false
	j := len(vertices) - 1
	for i := 0; i < len(vertices); i++ {
		if !vertices[i].Known() || !vertices[j].Known() {
			j = i
			continue
		}
		xi, yi := *vertices[i].Lat, *vertices[i].Lng
		xj, yj := *vertices[j].Lat, *vertices[j].Lng

		if ((yi > lng) != (yj > lng)) &&
			(lat < (xj-xi)*(lng-yi)/(yj-yi)+xi) {
			inside = !inside
		}
		j = i
	}

	return inside
}

// PointInCircle checks if a point lies within radiusMeters of center by
// great-circle distance. A point at exactly the radius is inside. Returns
// false, not an error, when either position is unknown.
func PointInCircle(p, center models.Position, radiusMeters float64) bool {
	if !p.Known() || !center.Known() {
		return false
	}
	return HaversineDistance(*p.Lat, *p.Lng, *center.Lat, *center.Lng) <= radiusMeters
}

// PointInZone checks zone containment, dispatching on the zone's
// representation: polygon when it has at least 3 vertices, otherwise
// circle when it has a numeric center and radius. A zone with neither
// representation contains nothing.
func PointInZone(p models.Position, zone models.Zone) bool {
	if !p.Known() {
		return false
	}
	if len(zone.Points) >= 3 {
		return PointInPolygon(p, zone.Points)
	}
	if zone.Latitude != nil && zone.Longitude != nil && zone.RadiusMeters != nil {
		return PointInCircle(p, zone.Center(), *zone.RadiusMeters)
	}
	return false
}
