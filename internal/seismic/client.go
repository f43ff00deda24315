package seismic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/UnknownOlympus/quakewatch/internal/models"
	"github.com/go-resty/resty/v2"
)

const (
	// DefaultBaseURL is the USGS earthquake catalog host.
	DefaultBaseURL = "https://earthquake.usgs.gov"
	queryPath      = "/fdsnws/event/1/query"

	// SearchRadiusKm bounds every query around the selected location.
	SearchRadiusKm = 500
	// NearbyLimit is the size of the nearby events list.
	NearbyLimit = 5
	// TrendLimit is the number of events plotted on the trend chart.
	TrendLimit = 20
)

// ErrUpstream is returned when the catalog cannot be reached or answers with garbage.
var ErrUpstream = errors.New("seismic catalog request failed")

// Client queries the USGS FDSN event service for recent events around a coordinate.
type Client struct {
	http *resty.Client
	log  *slog.Logger
}

type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	Properties struct {
		Mag   *float64 `json:"mag"`   // null for some automatic solutions
		Place string   `json:"place"` // human-readable region
		Time  int64    `json:"time"`  // epoch milliseconds
	} `json:"properties"`
}

// NewClient creates a catalog client. No retries are configured: a failed fetch is reported once.
func NewClient(baseURL, userAgent string, timeout time.Duration, log *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	if userAgent != "" {
		client.SetHeader("User-Agent", userAgent)
	}

	return &Client{http: client, log: log}
}

// FetchNearby returns the most recent events within SearchRadiusKm of center.
func (c *Client) FetchNearby(ctx context.Context, center models.Coordinate) ([]models.SeismicEvent, error) {
	return c.Fetch(ctx, center, NearbyLimit)
}

// FetchTrend returns the events plotted on the magnitude trend chart.
func (c *Client) FetchTrend(ctx context.Context, center models.Coordinate) ([]models.SeismicEvent, error) {
	return c.Fetch(ctx, center, TrendLimit)
}

// Fetch returns at most limit events around center in the order the catalog reports them.
// An empty feature list is not an error.
func (c *Client) Fetch(ctx context.Context, center models.Coordinate, limit int) ([]models.SeismicEvent, error) {
	var body featureCollection

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"format":      "geojson",
			"latitude":    strconv.FormatFloat(center.Latitude, 'f', -1, 64),
			"longitude":   strconv.FormatFloat(center.Longitude, 'f', -1, 64),
			"maxradiuskm": strconv.Itoa(SearchRadiusKm),
			"limit":       strconv.Itoa(limit),
		}).
		SetResult(&body).
		ForceContentType("application/json").
		Get(queryPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	if resp.IsError() {
		c.log.ErrorContext(ctx, "Seismic catalog error", "status", resp.StatusCode(), "body", resp.String())
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode())
	}

	features := body.Features
	if len(features) > limit {
		features = features[:limit]
	}

	events := make([]models.SeismicEvent, 0, len(features))
	for _, f := range features {
		event := models.SeismicEvent{
			Place:      f.Properties.Place,
			OccurredAt: time.UnixMilli(f.Properties.Time).UTC(),
		}
		if f.Properties.Mag != nil {
			event.Magnitude = *f.Properties.Mag
		}
		events = append(events, event)
	}

	c.log.DebugContext(ctx, "Seismic events fetched", "limit", limit, "count", len(events),
		"lat", center.Latitude, "lon", center.Longitude)

	return events, nil
}
