package cache

import (
	"bin-dispatch-service/internal/domain"
	"bin-dispatch-service/internal/platform/db"
	"bin-dispatch-service/internal/platform/obs"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// SQLRouteCache is a SQL-backed cache of route summaries keyed by waypoint
// fingerprint. It works against SQLite and Postgres.
type SQLRouteCache struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLRouteCache(conn *sql.DB, dialect db.Dialect) *SQLRouteCache {
	return &SQLRouteCache{DB: conn, Dialect: dialect}
}

// Fetch a cached summary.
func (s *SQLRouteCache) Get(ctx context.Context, key string) (_ domain.RouteSummary, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.Get")(&err)

	if s.DB == nil {
		return domain.RouteSummary{}, false, errors.New("route cache: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return domain.RouteSummary{}, false, errors.New("get route cache: key must not be empty")
	}

	q := fmt.Sprintf(`
	SELECT distance_meters, duration_seconds
	FROM route_cache
	WHERE route_key = %s;
	`, s.Dialect.Bind(1))

	var out domain.RouteSummary
	err = s.DB.QueryRowContext(ctx, q, key).Scan(&out.TotalDistanceMeters, &out.TotalTimeSeconds)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RouteSummary{}, false, nil
	}
	if err != nil {
		return domain.RouteSummary{}, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	return out, true, nil
}

// Store a summary, replacing any previous entry for key.
func (s *SQLRouteCache) Put(ctx context.Context, key string, summary domain.RouteSummary) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return errors.New("insert route cache: key must not be empty")
	}

	b := s.Dialect.Bind
	q := fmt.Sprintf(`
	INSERT INTO route_cache (route_key, distance_meters, duration_seconds)
	VALUES (%s, %s, %s)
	ON CONFLICT (route_key) DO UPDATE
	SET distance_meters = excluded.distance_meters,
		duration_seconds = excluded.duration_seconds;
	`, b(1), b(2), b(3))

	if _, err := s.DB.ExecContext(ctx, q, key, summary.TotalDistanceMeters, summary.TotalTimeSeconds); err != nil {
		return fmt.Errorf("insert route cache key=%q: %w", key, err)
	}

	return nil
}
