package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/UnknownOlympus/quakewatch/internal/models"
	"github.com/jackc/pgx/v5"
)

// CacheKey normalizes a place query so that lookups ignore case and surrounding spaces.
func CacheKey(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// EnsureSchema creates the place cache table when it does not exist yet.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS geocode_places (
			query_key    TEXT PRIMARY KEY,
			latitude     DOUBLE PRECISION NOT NULL,
			longitude    DOUBLE PRECISION NOT NULL,
			display_name TEXT NOT NULL,
			resolved_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`

	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create place cache table: %w", err)
	}

	return nil
}

// FetchPlace returns the cached resolution of query, or ErrCacheMiss when there is none.
func (r *Repository) FetchPlace(ctx context.Context, query string) (*models.PlaceResult, error) {
	sql := `
		SELECT latitude, longitude, display_name
		FROM geocode_places
		WHERE query_key = $1;
	`

	var place models.PlaceResult
	err := r.db.QueryRow(ctx, sql, CacheKey(query)).
		Scan(&place.Latitude, &place.Longitude, &place.DisplayName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query cached place: %w", err)
	}

	r.log.DebugContext(ctx, "Place served from cache", "query", query, "name", place.DisplayName)

	return &place, nil
}

// StorePlace upserts the resolution of query.
func (r *Repository) StorePlace(ctx context.Context, query string, place models.PlaceResult) error {
	sql := `
		INSERT INTO geocode_places (query_key, latitude, longitude, display_name, resolved_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (query_key) DO UPDATE SET
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			display_name = EXCLUDED.display_name,
			resolved_at = EXCLUDED.resolved_at;
	`

	_, err := r.db.Exec(ctx, sql, CacheKey(query), place.Latitude, place.Longitude, place.DisplayName)
	if err != nil {
		return fmt.Errorf("failed to store place: %w", err)
	}

	return nil
}

// Ping reports whether the database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
