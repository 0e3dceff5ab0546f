package repositories

import (
	"bin-dispatch-service/internal/domain"
	"bin-dispatch-service/internal/platform/db"
	"bin-dispatch-service/internal/platform/obs"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQL-backed implementation of the FleetRepository port.
// The same queries serve SQLite and Postgres.
type SQLFleetRepository struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLFleetRepository(conn *sql.DB, dialect db.Dialect) *SQLFleetRepository {
	return &SQLFleetRepository{DB: conn, Dialect: dialect}
}

// Return all areas ordered by name.
func (s *SQLFleetRepository) ListAreas(ctx context.Context) (_ []domain.Area, err error) {
	defer obs.Time(ctx, "fleet.ListAreas")(&err)

	if s.DB == nil {
		return nil, errors.New("sql fleet repository: DB is nil")
	}

	query := `
	SELECT
		name,
		lat,
		lng
	FROM areas
	ORDER BY name;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list areas: query areas table: %w", err)
	}
	defer rows.Close()

	areas := make([]domain.Area, 0, 16)
	for rows.Next() {
		var a domain.Area
		if err := rows.Scan(&a.Name, &a.Location.Lat, &a.Location.Lng); err != nil {
			return nil, fmt.Errorf("list areas: scan row: %w", err)
		}
		areas = append(areas, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list areas: row iteration: %w", err)
	}

	return areas, nil
}

// Return all bins in seed order.
func (s *SQLFleetRepository) ListBins(ctx context.Context) (_ []domain.Bin, err error) {
	defer obs.Time(ctx, "fleet.ListBins")(&err)

	if s.DB == nil {
		return nil, errors.New("sql fleet repository: DB is nil")
	}

	query := `
	SELECT
		id,
		area,
		lat,
		lng,
		level,
		priority,
		health
	FROM bins
	ORDER BY seq;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list bins: query bins table: %w", err)
	}
	defer rows.Close()

	bins := make([]domain.Bin, 0, 64)
	for rows.Next() {
		var b domain.Bin
		var health string
		err := rows.Scan(&b.ID, &b.Area, &b.Location.Lat, &b.Location.Lng, &b.Level, &b.Priority, &health)
		if err != nil {
			return nil, fmt.Errorf("list bins: scan row: %w", err)
		}
		b.Health = domain.Health(health)
		bins = append(bins, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bins: row iteration: %w", err)
	}

	return bins, nil
}
