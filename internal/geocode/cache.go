package geocode

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Cache is a SQLite-backed cache mapping 5-decimal "lat,lng" coordinate
// keys to resolved address strings. Coordinates at that precision are a
// few meters apart, so repeated stops at the same yard hit the cache
// instead of the remote geocoder.
type Cache struct {
	DB *sql.DB
}

// NewCache creates a cache over the given database.
func NewCache(db *sql.DB) *Cache {
	return &Cache{DB: db}
}

// GetMany fetches cached addresses for the given coordinate keys.
// Missing keys are simply absent from the result map.
func (c *Cache) GetMany(keys []string) (map[string]string, error) {
	if c.DB == nil {
		return nil, errors.New("geocode cache: db is nil")
	}
	if len(keys) == 0 {
		return map[string]string{}, nil
	}

	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(keys))
	ph := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, k)
		ph = append(ph, "?")
	}
	if len(uniq) == 0 {
		return map[string]string{}, nil
	}

	args := make([]any, 0, len(uniq))
	for _, k := range uniq {
		args = append(args, k)
	}

	// SQLite cannot bind a slice into IN (...); only the placeholder
	// structure is interpolated, values stay parameterized.
	q := fmt.Sprintf(`
	SELECT coord, address
	FROM geocode_cache
	WHERE coord IN (%s);
	`, strings.Join(ph, ","))

	rows, err := c.DB.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("geocode cache: query: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string, len(uniq))
	for rows.Next() {
		var coord, address string
		if err := rows.Scan(&coord, &address); err != nil {
			return nil, fmt.Errorf("geocode cache: scan: %w", err)
		}
		out[coord] = address
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("geocode cache: rows: %w", err)
	}
	return out, nil
}

// PutMany stores coordinate-key to address mappings.
func (c *Cache) PutMany(results map[string]string) error {
	if c.DB == nil {
		return errors.New("geocode cache: db is nil")
	}
	if len(results) == 0 {
		return nil
	}

	tx, err := c.DB.Begin()
	if err != nil {
		return fmt.Errorf("geocode cache: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
	INSERT OR REPLACE INTO geocode_cache (coord, address)
	VALUES (?, ?);
	`)
	if err != nil {
		return fmt.Errorf("geocode cache: prepare: %w", err)
	}
	defer stmt.Close()

	for coord, address := range results {
		if coord == "" || address == "" {
			continue
		}
		if _, err := stmt.Exec(coord, address); err != nil {
			return fmt.Errorf("geocode cache: insert %q: %w", coord, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("geocode cache: commit: %w", err)
	}
	return nil
}
