package repositories

import (
	"bin-dispatch-service/internal/domain"
	"bin-dispatch-service/internal/platform/db"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type AreaSeed struct {
	Name string  `yaml:"name"`
	Lat  float64 `yaml:"lat"`
	Lng  float64 `yaml:"lng"`
}

type BinSeed struct {
	ID       string  `yaml:"id"`
	Area     string  `yaml:"area"`
	Lat      float64 `yaml:"lat"`
	Lng      float64 `yaml:"lng"`
	Level    int     `yaml:"level"`
	Priority int     `yaml:"priority"`
	Health   string  `yaml:"health"`
}

// FleetSeed is the static fleet definition loaded at startup.
type FleetSeed struct {
	Areas []AreaSeed `yaml:"areas"`
	Bins  []BinSeed  `yaml:"bins"`
}

// LoadSeedYAML reads and validates a fleet seed file.
func LoadSeedYAML(path string) (FleetSeed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FleetSeed{}, fmt.Errorf("load fleet seed: read %q: %w", path, err)
	}

	return ParseSeedYAML(data)
}

func ParseSeedYAML(data []byte) (FleetSeed, error) {
	var seed FleetSeed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return FleetSeed{}, fmt.Errorf("load fleet seed: parse yaml: %w", err)
	}

	if err := seed.Validate(); err != nil {
		return FleetSeed{}, err
	}

	return seed, nil
}

// Validate rejects seeds the registry would refuse, so bad files fail before
// they reach the database.
func (s FleetSeed) Validate() error {
	areas := make(map[string]struct{}, len(s.Areas))
	for i, a := range s.Areas {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			return fmt.Errorf("fleet seed: area at index %d: name cannot be empty", i+1)
		}
		if _, dup := areas[name]; dup {
			return fmt.Errorf("fleet seed: duplicate area %q", name)
		}
		areas[name] = struct{}{}
	}

	ids := make(map[string]struct{}, len(s.Bins))
	for i, b := range s.Bins {
		id := strings.TrimSpace(b.ID)
		if id == "" {
			return fmt.Errorf("fleet seed: bin at index %d: id cannot be empty", i+1)
		}
		if _, dup := ids[id]; dup {
			return fmt.Errorf("fleet seed: bin %q: %w", id, domain.ErrDuplicateBin)
		}
		ids[id] = struct{}{}

		if _, ok := areas[strings.TrimSpace(b.Area)]; !ok {
			return fmt.Errorf("fleet seed: bin %q area %q: %w", id, b.Area, domain.ErrUnknownArea)
		}
		if b.Priority < domain.MinPriority || b.Priority > domain.MaxPriority {
			return fmt.Errorf("fleet seed: bin %q priority %d: %w", id, b.Priority, domain.ErrInvalidPriority)
		}
	}

	return nil
}

// SeedFleet replaces the stored fleet with the seed contents. Simulated levels
// are not persisted, so every start resets bins to their seed levels.
func SeedFleet(ctx context.Context, conn *sql.DB, dialect db.Dialect, seed FleetSeed) error {
	if conn == nil {
		return errors.New("seed fleet: DB is nil")
	}
	if err := seed.Validate(); err != nil {
		return fmt.Errorf("seed fleet: %w", err)
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed fleet: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, q := range []string{`DELETE FROM bins;`, `DELETE FROM areas;`} {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("seed fleet: clear: %w", err)
		}
	}

	b := dialect.Bind
	areaStmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`
	INSERT INTO areas (name, lat, lng)
	VALUES (%s, %s, %s);
	`, b(1), b(2), b(3)))
	if err != nil {
		return fmt.Errorf("seed fleet: prepare area insert: %w", err)
	}
	defer areaStmt.Close()

	for _, a := range seed.Areas {
		if _, err := areaStmt.ExecContext(ctx, strings.TrimSpace(a.Name), a.Lat, a.Lng); err != nil {
			return fmt.Errorf("seed fleet: insert area %q: %w", a.Name, err)
		}
	}

	binStmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`
	INSERT INTO bins (id, area, lat, lng, level, priority, health, seq)
	VALUES (%s, %s, %s, %s, %s, %s, %s, %s);
	`, b(1), b(2), b(3), b(4), b(5), b(6), b(7), b(8)))
	if err != nil {
		return fmt.Errorf("seed fleet: prepare bin insert: %w", err)
	}
	defer binStmt.Close()

	for i, bin := range seed.Bins {
		_, err := binStmt.ExecContext(ctx,
			strings.TrimSpace(bin.ID),
			strings.TrimSpace(bin.Area),
			bin.Lat,
			bin.Lng,
			domain.ClampLevel(bin.Level),
			bin.Priority,
			string(domain.ParseHealth(bin.Health)),
			i,
		)
		if err != nil {
			return fmt.Errorf("seed fleet: insert bin %q: %w", bin.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed fleet: commit tx: %w", err)
	}

	return nil
}
