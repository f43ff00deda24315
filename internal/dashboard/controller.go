package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/UnknownOlympus/quakewatch/internal/geocoding"
	"github.com/UnknownOlympus/quakewatch/internal/mapview"
	"github.com/UnknownOlympus/quakewatch/internal/metrics"
	"github.com/UnknownOlympus/quakewatch/internal/models"
	"github.com/UnknownOlympus/quakewatch/internal/panel"
	"github.com/jonboulle/clockwork"
)

// NotFoundNotice is the user-facing message for a query without candidates.
const NotFoundNotice = "Location not found!"

var (
	// ErrLocationNotFound is returned by Search when the query resolves to nothing.
	ErrLocationNotFound = errors.New(NotFoundNotice)
	// ErrNotStarted is returned when the controller is used before Start.
	ErrNotStarted = errors.New("dashboard is not started")
	// ErrAlreadyStarted is returned on a second Start.
	ErrAlreadyStarted = errors.New("dashboard is already started")
)

// Resolver turns a place query into a coordinate.
type Resolver interface {
	Resolve(ctx context.Context, query string) (*models.PlaceResult, error)
}

// SeismicFeed lists recent earthquakes around a coordinate.
type SeismicFeed interface {
	FetchNearby(ctx context.Context, center models.Coordinate) ([]models.SeismicEvent, error)
	FetchTrend(ctx context.Context, center models.Coordinate) ([]models.SeismicEvent, error)
}

// AlertFeed lists emergency alert headlines.
type AlertFeed interface {
	FetchLatest(ctx context.Context, center models.Coordinate) ([]models.AlertItem, error)
}

// ChartRenderer draws the magnitude trend.
type ChartRenderer interface {
	Render(series models.ChartSeries) error
}

// Options tunes a Controller. Zero values are valid.
type Options struct {
	Location        *time.Location  // Display time zone of list and chart timestamps, UTC when nil
	FetchTimeout    time.Duration   // Upper bound of a single panel fetch, none when zero
	RefreshInterval time.Duration   // Period of the automatic refresh in Run, disabled when zero
	Clock           clockwork.Clock // Real clock when nil
}

// Controller wires the search box, the map and the three data panels together.
type Controller struct {
	log      *slog.Logger
	resolver Resolver
	seismic  SeismicFeed
	alerts   AlertFeed
	mapView  *mapview.MapView
	chart    ChartRenderer
	metrics  *metrics.Metrics

	nearbyPanel *panel.List
	alertsPanel *panel.List

	loc          *time.Location
	fetchTimeout time.Duration
	interval     time.Duration
	clock        clockwork.Clock

	searchMu sync.Mutex // serialises searches and refresh launches
	commitMu sync.Mutex // serialises staleness checks with panel updates

	mu      sync.RWMutex
	state   State
	center  models.Coordinate
	baseCtx context.Context

	generation atomic.Uint64
	inflight   sync.WaitGroup
}

// New creates a controller in the Uninitialized state.
func New(
	log *slog.Logger,
	resolver Resolver,
	seismicFeed SeismicFeed,
	alertFeed AlertFeed,
	view *mapview.MapView,
	trend ChartRenderer,
	metrics *metrics.Metrics,
	opts Options,
) *Controller {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}

	return &Controller{
		log:          log,
		resolver:     resolver,
		seismic:      seismicFeed,
		alerts:       alertFeed,
		mapView:      view,
		chart:        trend,
		metrics:      metrics,
		nearbyPanel:  panel.NewList(feedNearby, opts.Clock),
		alertsPanel:  panel.NewList(feedAlerts, opts.Clock),
		loc:          opts.Location,
		fetchTimeout: opts.FetchTimeout,
		interval:     opts.RefreshInterval,
		clock:        opts.Clock,
		state:        StateUninitialized,
	}
}

// Start shows the default location and fires the first refresh. Fetches run on ctx,
// so cancelling it aborts every in-flight request.
func (c *Controller) Start(ctx context.Context) error {
	c.searchMu.Lock()
	defer c.searchMu.Unlock()

	c.mu.Lock()
	if c.state != StateUninitialized {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	c.baseCtx = ctx
	c.center = models.DefaultCenter
	c.mu.Unlock()

	if err := c.mapView.Initialize(models.DefaultCenter, mapview.DefaultZoom); err != nil {
		return fmt.Errorf("failed to initialize map: %w", err)
	}

	c.setState(StateReady)
	c.log.InfoContext(ctx, "Dashboard started", "lat", models.DefaultCenter.Latitude,
		"lon", models.DefaultCenter.Longitude)

	c.refresh(models.DefaultCenter, triggerStartup)

	return nil
}

// Search resolves query, moves the map and marker, and fires a refresh without waiting
// for it. On failure the map and the panels are left as they were.
func (c *Controller) Search(ctx context.Context, query string) (*models.PlaceResult, error) {
	c.searchMu.Lock()
	defer c.searchMu.Unlock()

	if c.State() == StateUninitialized {
		return nil, ErrNotStarted
	}

	c.setState(StateRefreshing)
	defer c.setState(StateReady)

	place, err := c.resolver.Resolve(ctx, query)
	switch {
	case errors.Is(err, geocoding.ErrNotFound):
		c.log.InfoContext(ctx, "Search without result", "query", query)
		return nil, fmt.Errorf("%w: %w", ErrLocationNotFound, err)
	case err != nil:
		c.log.ErrorContext(ctx, "Search failed", "query", query, "error", err)
		return nil, fmt.Errorf("failed to resolve location: %w", err)
	}

	if err = c.mapView.Recenter(place.Coordinate, mapview.SearchZoom); err != nil {
		return nil, fmt.Errorf("failed to recenter map: %w", err)
	}
	if err = c.mapView.SetMarker(place.Coordinate, mapview.LabelFor(place.DisplayName)); err != nil {
		return nil, fmt.Errorf("failed to move marker: %w", err)
	}

	c.mu.Lock()
	c.center = place.Coordinate
	c.mu.Unlock()

	c.log.InfoContext(ctx, "Location selected", "query", query, "name", place.DisplayName,
		"lat", place.Latitude, "lon", place.Longitude)

	c.refresh(place.Coordinate, triggerSearch)

	return place, nil
}

// Run refreshes the current location every RefreshInterval until ctx is cancelled.
// With no interval it only waits for cancellation.
func (c *Controller) Run(ctx context.Context) {
	if c.interval <= 0 {
		<-ctx.Done()
		return
	}

	ticker := c.clock.NewTicker(c.interval)
	defer ticker.Stop()

	c.log.InfoContext(ctx, "Automatic refresh started", "interval", c.interval)

	for {
		select {
		case <-ctx.Done():
			c.log.InfoContext(ctx, "Automatic refresh stopped.")
			return
		case <-ticker.Chan():
			c.refreshCurrent(ctx)
		}
	}
}

func (c *Controller) refreshCurrent(ctx context.Context) {
	c.searchMu.Lock()
	defer c.searchMu.Unlock()

	if c.State() != StateReady {
		return
	}

	center := c.Center()
	c.log.DebugContext(ctx, "Refreshing current location", "lat", center.Latitude, "lon", center.Longitude)
	c.refresh(center, triggerInterval)
}

// Wait blocks until every fetch launched so far has settled.
func (c *Controller) Wait() {
	c.inflight.Wait()
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.state
}

// Center returns the coordinate the panels currently describe.
func (c *Controller) Center() models.Coordinate {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.center
}

// Generation returns the id of the latest refresh.
func (c *Controller) Generation() uint64 {
	return c.generation.Load()
}

// Snapshot is the serialisable state of the controller and its list panels.
type Snapshot struct {
	State      string            `json:"state"`
	Generation uint64            `json:"generation"`
	Center     models.Coordinate `json:"center"`
	Nearby     panel.Snapshot    `json:"nearby"`
	Alerts     panel.Snapshot    `json:"alerts"`
}

// Snapshot returns a copy of the current dashboard state.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		State:      c.State().String(),
		Generation: c.Generation(),
		Center:     c.Center(),
		Nearby:     c.nearbyPanel.Snapshot(),
		Alerts:     c.alertsPanel.Snapshot(),
	}
}

func (c *Controller) setState(state State) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = state
}
