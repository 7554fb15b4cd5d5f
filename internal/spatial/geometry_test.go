package spatial

import (
	"testing"

	"github.com/jengzang/fleet-activity-go/internal/models"
)

func fptr(v float64) *float64 { return &v }

func squareAround(lat, lng, d float64) []models.Position {
	return []models.Position{
		models.NewPosition(lat-d, lng-d),
		models.NewPosition(lat-d, lng+d),
		models.NewPosition(lat+d, lng+d),
		models.NewPosition(lat+d, lng-d),
	}
}

func TestPointInPolygon(t *testing.T) {
	square := squareAround(52.0, 13.0, 0.01)

	if !PointInPolygon(models.NewPosition(52.0, 13.0), square) {
		t.Fatal("center should be inside the square")
	}
	if PointInPolygon(models.NewPosition(52.5, 13.0), square) {
		t.Fatal("point far north should be outside")
	}
}

func TestPointInPolygonRotationInvariant(t *testing.T) {
	square := squareAround(52.0, 13.0, 0.01)
	inside := models.NewPosition(52.005, 13.005)
	outside := models.NewPosition(52.02, 13.0)

	for shift := 0; shift < len(square); shift++ {
		rotated := append(append([]models.Position{}, square[shift:]...), square[:shift]...)
		if !PointInPolygon(inside, rotated) {
			t.Fatalf("rotation %d: inside point reported outside", shift)
		}
		if PointInPolygon(outside, rotated) {
			t.Fatalf("rotation %d: outside point reported inside", shift)
		}
	}
}

func TestPointInPolygonSkipsUnresolvableVertices(t *testing.T) {
	square := squareAround(52.0, 13.0, 0.01)
	withJunk := append([]models.Position{{Lat: fptr(52.0)}}, square...) // missing lng

	if !PointInPolygon(models.NewPosition(52.0, 13.0), withJunk) {
		t.Fatal("invalid vertex should be skipped, not flip the result")
	}
}

func TestPointInPolygonDegenerate(t *testing.T) {
	two := squareAround(52.0, 13.0, 0.01)[:2]
	if PointInPolygon(models.NewPosition(52.0, 13.0), two) {
		t.Fatal("a polygon with fewer than 3 vertices contains nothing")
	}
}

func TestPointInCircleBoundary(t *testing.T) {
	center := models.NewPosition(52.0, 13.0)
	probe := models.NewPosition(52.01, 13.0)
	radius := HaversineDistance(52.0, 13.0, 52.01, 13.0)

	if !PointInCircle(probe, center, radius) {
		t.Fatal("point at exactly the radius should be inside")
	}
	if PointInCircle(probe, center, radius-1.0) {
		t.Fatal("point past the radius should be outside")
	}
}

func TestPointInCircleUnknownPosition(t *testing.T) {
	center := models.NewPosition(52.0, 13.0)
	if PointInCircle(models.Position{}, center, 1000) {
		t.Fatal("unknown position is never inside")
	}
	if PointInCircle(center, models.Position{}, 1000) {
		t.Fatal("unknown center contains nothing")
	}
}

func TestPointInZoneDispatch(t *testing.T) {
	polyZone := models.Zone{ID: "z1", Name: "Yard", Points: squareAround(52.0, 13.0, 0.01)}
	circleZone := models.Zone{
		ID: "z2", Name: "Depot",
		Latitude: fptr(48.0), Longitude: fptr(11.0), RadiusMeters: fptr(500.0),
	}
	inert := models.Zone{ID: "z3", Name: "Broken"}

	if !PointInZone(models.NewPosition(52.0, 13.0), polyZone) {
		t.Fatal("polygon zone should contain its center")
	}
	if !PointInZone(models.NewPosition(48.0, 11.0), circleZone) {
		t.Fatal("circle zone should contain its center")
	}
	if PointInZone(models.NewPosition(48.0, 11.0), inert) {
		t.Fatal("a zone with neither representation contains nothing")
	}
}

func TestPointInZonePolygonTakesPrecedence(t *testing.T) {
	// Both representations present: the polygon wins.
	zone := models.Zone{
		ID:     "z4",
		Points: squareAround(52.0, 13.0, 0.01),
		// Circle far away from the polygon.
		Latitude: fptr(10.0), Longitude: fptr(10.0), RadiusMeters: fptr(100.0),
	}
	if !PointInZone(models.NewPosition(52.0, 13.0), zone) {
		t.Fatal("polygon representation should be used when >= 3 vertices exist")
	}
}
