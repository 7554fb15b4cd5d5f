package report

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jengzang/fleet-activity-go/internal/models"
)

type staticLabeler struct {
	labels []string
	calls  int
}

func (s *staticLabeler) Labels(ctx context.Context, positions []models.Position) []string {
	s.calls++
	out := make([]string, len(positions))
	copy(out, s.labels)
	return out
}

func testDevice() models.Device {
	return models.Device{ID: "d1", Name: "Truck 7"}
}

func utcDay() time.Time {
	return time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
}

func idleTrip(start, stop time.Time, idleSec float64) models.Trip {
	return models.Trip{Start: start, Stop: stop, DrivingDuration: 100, IdlingDuration: models.DurationSeconds(idleSec)}
}

func TestBuildRowsEmptyDay(t *testing.T) {
	day := utcDay()
	b := &RowBuilder{Loc: time.UTC}

	rows := b.BuildRows(context.Background(), testDevice(), "Contractors", day, day, nil, nil)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}

	row := rows[0]
	if row.Date != "2026-03-02" || row.DeviceName != "Truck 7" || row.Group != "Contractors" {
		t.Fatalf("unexpected identity fields: %+v", row)
	}
	if row.StartHomeZone != "" {
		t.Fatalf("StartHomeZone = %q, want empty", row.StartHomeZone)
	}
	if row.IgnitionOnSeconds != 0 || row.IdleInZoneSeconds != 0 || row.IdleOutZoneSeconds != 0 ||
		row.StopCount != 0 || row.TotalStoppedSeconds != 0 || row.AllowedBreakMinutes != 0 ||
		row.BreakStopMatchedMinutes != 0 || row.AdjustedStopCount != 0 || row.AdjustedStoppedSeconds != 0 {
		t.Fatalf("zero-trip day should zero every numeric field: %+v", row)
	}
}

func TestBuildRowsOneRowPerDay(t *testing.T) {
	from := utcDay()
	to := from.AddDate(0, 0, 4)
	b := &RowBuilder{Loc: time.UTC}

	rows := b.BuildRows(context.Background(), testDevice(), "g", from, to, nil, nil)
	if len(rows) != 5 {
		t.Fatalf("got %d rows, want 5 (inclusive range)", len(rows))
	}
	if rows[0].Date != "2026-03-02" || rows[4].Date != "2026-03-06" {
		t.Fatalf("unexpected date keys: %s .. %s", rows[0].Date, rows[4].Date)
	}
}

func TestBuildRowsIdleSplitSumsToTotal(t *testing.T) {
	day := utcDay()
	home := circleZone("home", "Depot", 52.0, 13.0, 500)

	trips := []models.Trip{
		idleTrip(day.Add(9*time.Hour), day.Add(10*time.Hour), 300),  // ends in depot
		idleTrip(day.Add(11*time.Hour), day.Add(12*time.Hour), 450), // ends away
	}
	logs := []models.LogRecord{
		ping(day.Add(9*time.Hour), fptr(52.0), fptr(13.0)),
		ping(day.Add(10*time.Hour), fptr(52.0), fptr(13.0)),
		ping(day.Add(12*time.Hour), fptr(48.0), fptr(11.0)),
	}

	b := &RowBuilder{HomeZones: []models.Zone{home}, AllZones: []models.Zone{home}, Loc: time.UTC}
	rows := b.BuildRows(context.Background(), testDevice(), "g", day, day, trips, logs)
	row := rows[0]

	if row.StartHomeZone != "Depot" {
		t.Fatalf("StartHomeZone = %q, want Depot", row.StartHomeZone)
	}
	if row.IdleInZoneSeconds != 300 {
		t.Fatalf("idle in zone = %v, want 300", row.IdleInZoneSeconds)
	}
	if row.IdleOutZoneSeconds != 450 {
		t.Fatalf("idle out of zone = %v, want 450", row.IdleOutZoneSeconds)
	}
	if row.IdleInZoneSeconds+row.IdleOutZoneSeconds != 750 {
		t.Fatal("idle split must sum to the day's total idling")
	}
	if row.IgnitionOnSeconds != 2*100+750 {
		t.Fatalf("ignition = %v, want driving+idling", row.IgnitionOnSeconds)
	}
}

func TestBuildRowsBreakScenarioNoMatch(t *testing.T) {
	// Shift 9:00-17:00, a 40-minute stop at noon and a 12-minute stop at
	// 14:30. Neither reaches the allowed 45, so nothing is deducted.
	day := utcDay()
	trips := []models.Trip{
		trip(day.Add(9*time.Hour), day.Add(12*time.Hour)),
		trip(day.Add(12*time.Hour+40*time.Minute), day.Add(14*time.Hour+30*time.Minute)),
		trip(day.Add(14*time.Hour+42*time.Minute), day.Add(17*time.Hour)),
	}

	b := &RowBuilder{Loc: time.UTC}
	row := b.BuildRows(context.Background(), testDevice(), "g", day, day, trips, nil)[0]

	if row.StopCount != 2 {
		t.Fatalf("stop count = %d, want 2", row.StopCount)
	}
	if row.AllowedBreakMinutes != 45 {
		t.Fatalf("allowed break = %d, want 45", row.AllowedBreakMinutes)
	}
	if row.AdjustedStopCount != 2 {
		t.Fatalf("adjusted count = %d, want 2", row.AdjustedStopCount)
	}
	if row.AdjustedStoppedSeconds != row.TotalStoppedSeconds {
		t.Fatal("no match: adjusted stopped time must equal the total")
	}
}

func TestBuildRowsBreakScenarioCapped(t *testing.T) {
	// Same shift but the noon stop is 50 minutes: it qualifies and only
	// the allowed 45 minutes come off the stopped time.
	day := utcDay()
	trips := []models.Trip{
		trip(day.Add(9*time.Hour), day.Add(12*time.Hour)),
		trip(day.Add(12*time.Hour+50*time.Minute), day.Add(14*time.Hour+30*time.Minute)),
		trip(day.Add(14*time.Hour+42*time.Minute), day.Add(17*time.Hour)),
	}

	b := &RowBuilder{Loc: time.UTC}
	row := b.BuildRows(context.Background(), testDevice(), "g", day, day, trips, nil)[0]

	if row.StopCount != 2 || row.AdjustedStopCount != 1 {
		t.Fatalf("counts = %d/%d, want 2/1", row.StopCount, row.AdjustedStopCount)
	}
	if row.BreakStopMatchedMinutes != 50 {
		t.Fatalf("matched minutes = %v, want 50", row.BreakStopMatchedMinutes)
	}
	if got := row.TotalStoppedSeconds - row.AdjustedStoppedSeconds; got != 2700 {
		t.Fatalf("deduction = %vs, want 2700 (capped at 45 min)", got)
	}
}

func TestBuildRowsStopLabels(t *testing.T) {
	day := utcDay()
	home := circleZone("home", "Depot", 52.0, 13.0, 500)
	site := circleZone("site", "Quarry", 48.0, 11.0, 500)

	// Three stops: one back at the depot (omitted from labels), one at the
	// quarry (zone label), one in the open (geocoded label).
	trips := []models.Trip{
		trip(day.Add(8*time.Hour), day.Add(9*time.Hour)),
		trip(day.Add(9*time.Hour+30*time.Minute), day.Add(10*time.Hour)),
		trip(day.Add(10*time.Hour+30*time.Minute), day.Add(11*time.Hour)),
		trip(day.Add(11*time.Hour+30*time.Minute), day.Add(12*time.Hour)),
	}
	logs := []models.LogRecord{
		ping(day.Add(8*time.Hour), fptr(52.0), fptr(13.0)),  // start of day in depot
		ping(day.Add(9*time.Hour), fptr(52.0), fptr(13.0)),  // stop 1: depot
		ping(day.Add(10*time.Hour), fptr(48.0), fptr(11.0)), // stop 2: quarry
		ping(day.Add(11*time.Hour), fptr(45.0), fptr(9.0)),  // stop 3: open country
	}

	labeler := &staticLabeler{labels: []string{"Main St 1, Springfield"}}
	b := &RowBuilder{
		HomeZones: []models.Zone{home},
		AllZones:  []models.Zone{home, site},
		Labeler:   labeler,
		Loc:       time.UTC,
	}
	row := b.BuildRows(context.Background(), testDevice(), "g", day, day, trips, logs)[0]

	if row.StopCount != 3 {
		t.Fatalf("stop count = %d, want 3 (home stop still counts)", row.StopCount)
	}
	want := "Quarry; Main St 1, Springfield"
	if row.StopLocations != want {
		t.Fatalf("labels = %q, want %q", row.StopLocations, want)
	}
	if labeler.calls != 1 {
		t.Fatalf("labeler called %d times, want 1", labeler.calls)
	}
}

func TestBuildRowsStopLabelFallsBackToCoordinates(t *testing.T) {
	day := utcDay()
	trips := []models.Trip{
		trip(day.Add(9*time.Hour), day.Add(10*time.Hour)),
		trip(day.Add(11*time.Hour), day.Add(12*time.Hour)),
	}
	logs := []models.LogRecord{ping(day.Add(10*time.Hour), fptr(45.0), fptr(9.0))}

	// No labeler at all: the coordinate string is the label.
	b := &RowBuilder{Loc: time.UTC}
	row := b.BuildRows(context.Background(), testDevice(), "g", day, day, trips, logs)[0]

	if row.StopLocations != "45.00000,9.00000" {
		t.Fatalf("labels = %q, want the coordinate fallback", row.StopLocations)
	}
}

func TestBuildRowsDeterministic(t *testing.T) {
	day := utcDay()
	home := circleZone("home", "Depot", 52.0, 13.0, 500)
	trips := []models.Trip{
		idleTrip(day.Add(9*time.Hour), day.Add(12*time.Hour), 120),
		idleTrip(day.Add(13*time.Hour), day.Add(17*time.Hour), 60),
	}
	logs := []models.LogRecord{
		ping(day.Add(9*time.Hour), fptr(52.0), fptr(13.0)),
		ping(day.Add(12*time.Hour), fptr(48.0), fptr(11.0)),
	}

	b := &RowBuilder{HomeZones: []models.Zone{home}, AllZones: []models.Zone{home}, Loc: time.UTC}
	first, err := json.Marshal(b.BuildRows(context.Background(), testDevice(), "g", day, day, trips, logs))
	if err != nil {
		t.Fatal(err)
	}
	second, err := json.Marshal(b.BuildRows(context.Background(), testDevice(), "g", day, day, trips, logs))
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Fatal("identical frozen input must yield byte-identical rows")
	}
}

func TestBuildRowsBucketsByStartDate(t *testing.T) {
	day := utcDay()
	next := day.AddDate(0, 0, 1)

	// A trip starting at 23:50 belongs to its start day even though it
	// runs past midnight.
	trips := []models.Trip{
		trip(day.Add(23*time.Hour+50*time.Minute), next.Add(time.Hour)),
	}

	b := &RowBuilder{Loc: time.UTC}
	rows := b.BuildRows(context.Background(), testDevice(), "g", day, next, trips, nil)
	if rows[0].IgnitionOnSeconds == 0 {
		t.Fatal("late trip should land on its start date")
	}
	if rows[1].IgnitionOnSeconds != 0 {
		t.Fatal("late trip must not also count on the following day")
	}
}
