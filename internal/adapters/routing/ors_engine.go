package routing

import (
	"bin-dispatch-service/internal/domain"
	"bin-dispatch-service/internal/platform/obs"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultORSBaseURL = "https://api.openrouteservice.org"
	defaultORSProfile = "driving-car"
)

// ORSEngine implements RoutingEngine using the OpenRouteService directions API.
//
// Requests are rate limited to stay inside the API plan and retried with
// backoff on transient failures. The engine is safe for concurrent use.
type ORSEngine struct {
	session        *http.Client
	apiKey         string
	baseURL        string
	profile        string
	limiter        *rate.Limiter
	initialBackoff time.Duration
}

type ORSOptions struct {
	BaseURL string
	Profile string
	// RatePerMinute caps outgoing requests; zero disables limiting.
	RatePerMinute int
	HTTPClient    *http.Client
}

func NewORSEngine(apiKey string, opts ORSOptions) (*ORSEngine, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("ORS api key is empty")
	}

	engine := &ORSEngine{
		session:        opts.HTTPClient,
		apiKey:         apiKey,
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		profile:        opts.Profile,
		initialBackoff: 200 * time.Millisecond,
	}
	if engine.session == nil {
		engine.session = &http.Client{Timeout: 10 * time.Second}
	}
	if engine.baseURL == "" {
		engine.baseURL = defaultORSBaseURL
	}
	if engine.profile == "" {
		engine.profile = defaultORSProfile
	}
	if opts.RatePerMinute > 0 {
		engine.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RatePerMinute)), 1)
	}

	return engine, nil
}

type directionsRequest struct {
	Coordinates  [][]float64 `json:"coordinates"`
	Instructions bool        `json:"instructions"`
	Geometry     bool        `json:"geometry"`
}

type directionsResponse struct {
	Routes []struct {
		Summary struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
		} `json:"summary"`
	} `json:"routes"`
}

// Route asks ORS for a route through the waypoints in the given order.
// SuppressDisplay turns off turn-by-turn instructions and geometry.
func (o *ORSEngine) Route(ctx context.Context, req domain.RouteRequest) (_ domain.RouteSummary, err error) {
	defer obs.Time(ctx, "ors.Route")(&err)

	if len(req.Waypoints) < 2 {
		return domain.RouteSummary{}, fmt.Errorf("ORS route: need at least 2 waypoints, got %d", len(req.Waypoints))
	}

	coords := make([][]float64, 0, len(req.Waypoints))
	for _, w := range req.Waypoints {
		coords = append(coords, w.CoordsToList())
	}

	payload, err := json.Marshal(directionsRequest{
		Coordinates:  coords,
		Instructions: !req.SuppressDisplay,
		Geometry:     !req.SuppressDisplay,
	})
	if err != nil {
		return domain.RouteSummary{}, fmt.Errorf("marshal directions request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/directions/%s", o.baseURL, o.profile)

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return domain.RouteSummary{}, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return domain.RouteSummary{}, fmt.Errorf("decode directions response: %w", err)
	}

	if len(dr.Routes) == 0 {
		return domain.RouteSummary{}, domain.ErrNoRoute
	}

	s := dr.Routes[0].Summary
	return domain.RouteSummary{
		TotalDistanceMeters: s.Distance,
		TotalTimeSeconds:    s.Duration,
	}, nil
}
