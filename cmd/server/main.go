package main

import (
	"bin-dispatch-service/internal/adapters/cache"
	"bin-dispatch-service/internal/adapters/repositories"
	"bin-dispatch-service/internal/adapters/routing"
	"bin-dispatch-service/internal/adapters/sink"
	"bin-dispatch-service/internal/api"
	"bin-dispatch-service/internal/config"
	"bin-dispatch-service/internal/platform/db"
	"bin-dispatch-service/internal/platform/obs"
	"bin-dispatch-service/internal/ports"
	"bin-dispatch-service/internal/services"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

// main is the application composition root.
// It wires concrete adapters (SQL store, routing engine, report broker) behind
// ports, starts the dispatch scheduler and serves the HTTP API.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, dialect, err := openStore(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	// Initialize schema and seed the fleet on startup; levels reset every run.
	if err := initAndSeed(ctx, conn, dialect, cfg.SeedPath); err != nil {
		log.Fatal(err)
	}

	repo := repositories.NewSQLFleetRepository(conn, dialect)
	registry, err := loadRegistry(ctx, repo)
	if err != nil {
		log.Fatal(err)
	}

	engine, err := newRoutingEngine(cfg, cache.NewSQLRouteCache(conn, dialect))
	if err != nil {
		log.Fatal(err)
	}

	broker, closeBroker, err := newBroker(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeBroker()

	seed := cfg.SimSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	simulator, err := services.NewSimulator(registry, cfg.SimMaxIncrement, seed)
	if err != nil {
		log.Fatal(err)
	}

	dispatcher, err := services.NewDispatcher(registry, simulator, engine, broker, services.DispatcherConfig{
		Depot:        cfg.Depot,
		Threshold:    cfg.CriticalThreshold,
		RouteTimeout: cfg.RouteTimeout,
	})
	if err != nil {
		log.Fatal(err)
	}

	obs.RegisterDefault()
	router := api.NewRouter(api.Deps{
		Fleet:   repo,
		Bins:    registry,
		Reports: dispatcher,
		Stream:  broker,
	})

	// The first cycle evaluates the seed levels as loaded; every later tick
	// advances the simulator first.
	first := true
	scheduler := services.NewScheduler(cfg.SimPeriod, func(ctx context.Context) error {
		if first {
			first = false
			return dispatcher.Evaluate(ctx)
		}
		return dispatcher.Tick(ctx)
	})

	schedDone := make(chan struct{})
	go func() {
		defer close(schedDone)
		if err := scheduler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("scheduler stopped: %v", err)
		}
	}()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server listening addr=:%s store=%s bins=%d period=%s", cfg.Port, dialect, registry.Len(), cfg.SimPeriod)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")

	<-schedDone
	dispatcher.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
}

func openStore(cfg config.Config) (*sql.DB, db.Dialect, error) {
	if cfg.UsePostgres() {
		conn, err := db.Open(cfg.DatabaseURL)
		return conn, db.Postgres, err
	}

	conn, err := db.OpenSQLite(cfg.DBPath)
	return conn, db.SQLite, err
}

func initAndSeed(ctx context.Context, conn *sql.DB, dialect db.Dialect, seedPath string) error {
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	seed, err := repositories.LoadSeedYAML(seedPath)
	if err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFleet(ctx, conn, dialect, seed); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}

func loadRegistry(ctx context.Context, repo ports.FleetRepository) (*services.Registry, error) {
	areas, err := repo.ListAreas(ctx)
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}
	bins, err := repo.ListBins(ctx)
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}

	return services.NewRegistry(areas, bins)
}

// newRoutingEngine prefers OpenRouteService and falls back to the offline
// estimate when no API key is configured. Either way summaries are cached.
func newRoutingEngine(cfg config.Config, routeCache ports.RouteCache) (ports.RoutingEngine, error) {
	var engine ports.RoutingEngine = routing.NewEstimateEngine()

	if cfg.ORSAPIKey != "" {
		ors, err := routing.NewORSEngine(cfg.ORSAPIKey, routing.ORSOptions{
			BaseURL:       cfg.ORSBaseURL,
			Profile:       cfg.ORSProfile,
			RatePerMinute: cfg.ORSRatePerMinute,
		})
		if err != nil {
			return nil, err
		}
		engine = ors
	} else {
		log.Println("ORS_API_KEY not set, using offline route estimates")
	}

	return routing.NewCachingEngine(engine, routeCache), nil
}

func newBroker(cfg config.Config) (sink.ReportBroker, func(), error) {
	if cfg.RedisURL == "" {
		return sink.NewBroker(), func() {}, nil
	}

	b, err := sink.NewRedisBroker(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	return b, func() { _ = b.Close() }, nil
}
