// Package geocode resolves raw stop coordinates into address labels,
// best effort. Geocoding is an optional collaborator: any failure falls
// back to a fixed-precision coordinate string so the report always
// completes.
package geocode

import (
	"context"
	"log"

	"github.com/jengzang/fleet-activity-go/internal/models"
)

// AddressSource is a batch reverse-geocoder (positions in, address
// strings out, one per position, empty when unresolvable).
type AddressSource interface {
	Addresses(ctx context.Context, positions []models.Position) ([]string, error)
}

// Resolver implements report.StopLabeler over an AddressSource with an
// optional persistent cache. Both collaborators may be nil.
type Resolver struct {
	API   AddressSource
	Cache *Cache
}

// NewResolver creates a resolver. api and cache may each be nil; the
// resolver degrades to coordinate-string labels for whatever it cannot
// resolve.
func NewResolver(api AddressSource, cache *Cache) *Resolver {
	return &Resolver{API: api, Cache: cache}
}

// Labels returns one label per position: the cached or freshly geocoded
// address when available, otherwise the "lat,lng" coordinate string.
// Never fails — geocoding problems are logged and absorbed.
func (r *Resolver) Labels(ctx context.Context, positions []models.Position) []string {
	labels := make([]string, len(positions))
	keys := make([]string, len(positions))
	for i, p := range positions {
		keys[i] = p.CoordinateKey()
		labels[i] = keys[i]
	}

	cached := map[string]string{}
	if r.Cache != nil {
		var err error
		cached, err = r.Cache.GetMany(keys)
		if err != nil {
			log.Printf("[geocode] cache read failed: %v", err)
			cached = map[string]string{}
		}
	}

	var missIdx []int
	var missPos []models.Position
	for i := range positions {
		if keys[i] == "" {
			continue
		}
		if addr, ok := cached[keys[i]]; ok {
			labels[i] = addr
			continue
		}
		missIdx = append(missIdx, i)
		missPos = append(missPos, positions[i])
	}

	if r.API == nil || len(missPos) == 0 {
		return labels
	}

	resolved, err := r.API.Addresses(ctx, missPos)
	if err != nil {
		log.Printf("[geocode] reverse geocode failed, using coordinates: %v", err)
		return labels
	}

	fresh := map[string]string{}
	for i, idx := range missIdx {
		if i < len(resolved) && resolved[i] != "" {
			labels[idx] = resolved[i]
			fresh[keys[idx]] = resolved[i]
		}
	}

	if r.Cache != nil && len(fresh) > 0 {
		if err := r.Cache.PutMany(fresh); err != nil {
			log.Printf("[geocode] cache write failed: %v", err)
		}
	}

	return labels
}
