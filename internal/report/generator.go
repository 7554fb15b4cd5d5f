package report

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/jengzang/fleet-activity-go/internal/models"
)

// TelemetrySource is the slice of the fleet API the generator consumes.
// All calls block until the remote answers; the generator itself runs no
// goroutines.
type TelemetrySource interface {
	Devices(ctx context.Context, groupID string) ([]models.Device, error)
	ZoneTypes(ctx context.Context) ([]models.ZoneType, error)
	ZonesByType(ctx context.Context, zoneTypeID string) ([]models.Zone, error)
	ZoneByID(ctx context.Context, id string) (*models.Zone, error)
	Zones(ctx context.Context) ([]models.Zone, error)
	// TripsAndLogs fetches a device's trips and GPS logs for the range in
	// one paired request.
	TripsAndLogs(ctx context.Context, deviceID string, from, to time.Time) ([]models.Trip, []models.LogRecord, error)
}

// Generator produces the full activity report for a device group.
//
// Devices are processed strictly sequentially — a deliberate
// simplicity/rate-limit tradeoff, acceptable because report generation is
// a bounded, user-triggered batch job. Rows accumulate in an explicit
// slice threaded through the device loop; there is no shared mutable
// state, and the only cancellation boundary is abandoning the whole run
// via ctx.
type Generator struct {
	API        TelemetrySource
	Labeler    StopLabeler
	GroupID    string
	HomeZoneID string
	Loc        *time.Location
}

// Generate builds one row per (device, calendar day) over [from, to],
// in device-then-date order. Reference-data and per-device fetch
// failures abort the run with a typed error; everything downstream of a
// successful fetch always completes.
func (g *Generator) Generate(ctx context.Context, from, to time.Time) (*models.ActivityReport, error) {
	devices, err := g.API.Devices(ctx, g.GroupID)
	if err != nil {
		return nil, &ReferenceFetchError{Stage: "devices", Err: err}
	}

	homeZones, err := g.loadHomeZones(ctx)
	if err != nil {
		return nil, err
	}

	allZones := g.loadAllZones(ctx, homeZones)

	builder := &RowBuilder{
		HomeZones: homeZones,
		AllZones:  allZones,
		Labeler:   g.Labeler,
		Loc:       g.Loc,
	}

	rows := []models.DailyActivityRow{}
	for i, device := range devices {
		log.Printf("[report] device %d/%d: %s", i+1, len(devices), device.DisplayName())

		trips, logs, err := g.API.TripsAndLogs(ctx, device.ID, from, to)
		if err != nil {
			return nil, &DeviceFetchError{DeviceName: device.DisplayName(), Err: err}
		}
		sort.Slice(trips, func(a, b int) bool {
			return trips[a].Start.Before(trips[b].Start)
		})

		rows = append(rows, builder.BuildRows(ctx, device, g.groupLabel(device), from, to, trips, logs)...)
	}

	return &models.ActivityReport{
		GroupID: g.GroupID,
		From:    from.Format("2006-01-02"),
		To:      to.Format("2006-01-02"),
		Rows:    rows,
	}, nil
}

// loadHomeZones runs the zone sequencing chain: zone types first, then
// the zones of the type whose name contains "home", then the configured
// home zone by id when it is not already in the set. Each step degrades
// to the next rather than failing, except when no home zone can be
// resolved at all.
func (g *Generator) loadHomeZones(ctx context.Context) ([]models.Zone, error) {
	var homeTypeID string
	zoneTypes, err := g.API.ZoneTypes(ctx)
	if err != nil {
		return nil, &ReferenceFetchError{Stage: "zone types", Err: err}
	}
	for _, zt := range zoneTypes {
		if strings.Contains(strings.ToLower(zt.Name), "home") {
			homeTypeID = zt.ID
			break
		}
	}

	var homeZones []models.Zone
	if homeTypeID != "" {
		homeZones, err = g.API.ZonesByType(ctx, homeTypeID)
		if err != nil {
			log.Printf("[report] home zones by type failed, falling back to id lookup: %v", err)
			homeZones = nil
		}
	}

	if g.HomeZoneID != "" && !containsZone(homeZones, g.HomeZoneID) {
		zone, err := g.API.ZoneByID(ctx, g.HomeZoneID)
		if err != nil {
			if len(homeZones) == 0 {
				return nil, &ReferenceFetchError{Stage: "zones", Err: err}
			}
			log.Printf("[report] home zone %s lookup failed: %v", g.HomeZoneID, err)
		} else if zone != nil {
			homeZones = append(homeZones, *zone)
		}
	}

	if len(homeZones) == 0 {
		return nil, &ReferenceFetchError{Stage: "zones", Err: ErrHomeZoneNotFound}
	}
	return homeZones, nil
}

// loadAllZones fetches the full zone list for stop labeling, home zones
// first so they keep lookup priority. A failure here degrades to the
// home-zone set alone — labeling is best-effort reference data.
func (g *Generator) loadAllZones(ctx context.Context, homeZones []models.Zone) []models.Zone {
	all := make([]models.Zone, len(homeZones))
	copy(all, homeZones)

	zones, err := g.API.Zones(ctx)
	if err != nil {
		log.Printf("[report] all zones fetch failed, labeling with home zones only: %v", err)
		return all
	}
	for _, z := range zones {
		if !containsZone(all, z.ID) {
			all = append(all, z)
		}
	}
	return all
}

func (g *Generator) groupLabel(device models.Device) string {
	for _, grp := range device.Groups {
		if grp.ID == g.GroupID && grp.Name != "" {
			return grp.Name
		}
	}
	return g.GroupID
}

func containsZone(zones []models.Zone, id string) bool {
	for _, z := range zones {
		if z.ID == id {
			return true
		}
	}
	return false
}
