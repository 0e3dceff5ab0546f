package config

import (
	"bin-dispatch-service/internal/domain"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Get returns the trimmed value of key, or fallback when it is unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) (int, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: invalid integer %q", key, v)
	}
	return n, nil
}

func GetFloat(key string, fallback float64) (float64, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback, fmt.Errorf("%s: invalid number %q", key, v)
	}
	return f, nil
}

// GetDuration accepts Go duration strings ("5s", "1m30s").
func GetDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}

type Config struct {
	Port        string
	DBPath      string
	DatabaseURL string
	SeedPath    string

	Depot             domain.Coordinates
	SimPeriod         time.Duration
	SimMaxIncrement   int
	SimSeed           uint64
	CriticalThreshold int

	ORSAPIKey        string
	ORSBaseURL       string
	ORSProfile       string
	ORSRatePerMinute int
	RouteTimeout     time.Duration

	RedisURL string
}

// Load reads the process environment. Every malformed key is reported in the
// returned error, not just the first.
func Load() (Config, error) {
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	cfg := Config{
		Port:        Get("PORT", "8080"),
		DBPath:      Get("DB_PATH", "data/app.db"),
		DatabaseURL: Get("DATABASE_URL", ""),
		SeedPath:    Get("SEED_PATH", "data/seeds/fleet.yaml"),
		ORSAPIKey:   Get("ORS_API_KEY", ""),
		ORSBaseURL:  Get("ORS_BASE_URL", ""),
		ORSProfile:  Get("ORS_PROFILE", "driving-car"),
		RedisURL:    Get("REDIS_URL", ""),
	}

	var err error
	cfg.Depot.Lat, err = GetFloat("DEPOT_LAT", 18.6725)
	collect(err)
	cfg.Depot.Lng, err = GetFloat("DEPOT_LNG", 78.0940)
	collect(err)
	cfg.SimPeriod, err = GetDuration("SIM_PERIOD", 5*time.Second)
	collect(err)
	cfg.SimMaxIncrement, err = GetInt("SIM_MAX_INCREMENT", 4)
	collect(err)
	cfg.CriticalThreshold, err = GetInt("CRITICAL_THRESHOLD", 80)
	collect(err)
	cfg.ORSRatePerMinute, err = GetInt("ORS_RATE_PER_MINUTE", 40)
	collect(err)
	cfg.RouteTimeout, err = GetDuration("ROUTE_TIMEOUT", 10*time.Second)
	collect(err)

	seed, err := GetInt("SIM_SEED", 0)
	collect(err)
	if seed < 0 {
		errs = append(errs, fmt.Errorf("SIM_SEED: must be >= 0, got %d", seed))
	} else {
		cfg.SimSeed = uint64(seed)
	}

	if err := cfg.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return cfg, fmt.Errorf("load config: %w", errors.Join(errs...))
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	if c.Port == "" {
		errs = append(errs, errors.New("PORT: required"))
	}
	if c.Depot.Lat < -90 || c.Depot.Lat > 90 {
		errs = append(errs, fmt.Errorf("DEPOT_LAT: out of range: %v", c.Depot.Lat))
	}
	if c.Depot.Lng < -180 || c.Depot.Lng > 180 {
		errs = append(errs, fmt.Errorf("DEPOT_LNG: out of range: %v", c.Depot.Lng))
	}
	if c.SimPeriod <= 0 {
		errs = append(errs, fmt.Errorf("SIM_PERIOD: must be positive, got %s", c.SimPeriod))
	}
	if c.SimMaxIncrement < 0 {
		errs = append(errs, fmt.Errorf("SIM_MAX_INCREMENT: must be >= 0, got %d", c.SimMaxIncrement))
	}
	if c.CriticalThreshold < domain.MinLevel || c.CriticalThreshold >= domain.MaxLevel {
		errs = append(errs, fmt.Errorf("CRITICAL_THRESHOLD: must be in [%d, %d), got %d", domain.MinLevel, domain.MaxLevel, c.CriticalThreshold))
	}
	if c.ORSRatePerMinute <= 0 {
		errs = append(errs, fmt.Errorf("ORS_RATE_PER_MINUTE: must be positive, got %d", c.ORSRatePerMinute))
	}
	if c.RouteTimeout <= 0 {
		errs = append(errs, fmt.Errorf("ROUTE_TIMEOUT: must be positive, got %s", c.RouteTimeout))
	}

	return errors.Join(errs...)
}

// UsePostgres reports whether the shared Postgres store is configured.
func (c Config) UsePostgres() bool {
	return c.DatabaseURL != ""
}
