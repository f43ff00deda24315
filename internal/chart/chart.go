package chart

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/UnknownOlympus/quakewatch/internal/metrics"
	"github.com/UnknownOlympus/quakewatch/internal/models"
)

const (
	// Placeholder replaces the chart when the series is empty.
	Placeholder = "No data available."
	// DatasetLabel names the only dataset of the trend chart.
	DatasetLabel = "Earthquakes Near Selected Location"
	// MaxXTicks caps the number of date labels on the x axis.
	MaxXTicks = 6
)

// ErrEmptySeries is returned by factories asked to draw no points.
var ErrEmptySeries = errors.New("chart series is empty")

// RGBA is a colour with an alpha channel in [0, 1].
type RGBA struct {
	R, G, B uint8
	A       float64
}

// Config describes a line chart independent of the drawing library.
type Config struct {
	Type         string
	DatasetLabel string
	Labels       []string
	Values       []float64
	BorderColor  RGBA
	FillColor    RGBA
	BorderWidth  float64
	XTitle       string
	YTitle       string
	YBeginAtZero bool
	MaxXTicks    int
}

// TrendConfig returns the configuration of the magnitude trend chart for series.
func TrendConfig(series models.ChartSeries) Config {
	return Config{
		Type:         "line",
		DatasetLabel: DatasetLabel,
		Labels:       series.Labels,
		Values:       series.Values,
		BorderColor:  RGBA{R: 255, G: 99, B: 132, A: 1},
		FillColor:    RGBA{R: 255, G: 99, B: 132, A: 0.2},
		BorderWidth:  1,
		XTitle:       "Date",
		YTitle:       "Magnitude",
		YBeginAtZero: true,
		MaxXTicks:    MaxXTicks,
	}
}

// Instance is a chart bound to a canvas.
type Instance interface {
	Destroy()
}

// Factory builds chart instances on a canvas.
type Factory interface {
	Construct(canvas *Canvas, cfg Config) (Instance, error)
}

// TrendChart owns the canvas and guarantees at most one live instance on it.
type TrendChart struct {
	mu      sync.Mutex
	canvas  *Canvas
	factory Factory
	current Instance
	metrics *metrics.Metrics
	log     *slog.Logger
}

// NewTrendChart creates a chart over canvas. m may be nil.
func NewTrendChart(canvas *Canvas, factory Factory, m *metrics.Metrics, log *slog.Logger) *TrendChart {
	return &TrendChart{canvas: canvas, factory: factory, metrics: m, log: log}
}

// Render disposes the previous instance and draws series. An empty series leaves the
// placeholder on the canvas and constructs nothing.
func (c *TrendChart) Render(series models.ChartSeries) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.report()

	c.dispose()

	if series.Empty() {
		c.canvas.ShowPlaceholder(Placeholder)
		return nil
	}

	instance, err := c.factory.Construct(c.canvas, TrendConfig(series))
	if err != nil {
		c.canvas.ShowPlaceholder(Placeholder)
		return fmt.Errorf("failed to construct trend chart: %w", err)
	}
	c.current = instance

	c.log.Debug("Trend chart rendered", "points", series.Len())

	return nil
}

// Live returns the number of instances bound to the canvas (0 or 1).
func (c *TrendChart) Live() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return 0
	}

	return 1
}

// Canvas returns the drawing surface.
func (c *TrendChart) Canvas() *Canvas {
	return c.canvas
}

func (c *TrendChart) dispose() {
	if c.current == nil {
		return
	}

	c.current.Destroy()
	c.current = nil
}

func (c *TrendChart) report() {
	if c.metrics == nil {
		return
	}

	live := 0.0
	if c.current != nil {
		live = 1
	}
	c.metrics.LiveCharts.Set(live)
}
