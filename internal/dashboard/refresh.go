package dashboard

import (
	"context"
	"time"

	"github.com/UnknownOlympus/quakewatch/internal/alerts"
	"github.com/UnknownOlympus/quakewatch/internal/models"
	"github.com/UnknownOlympus/quakewatch/internal/panel"
	"github.com/UnknownOlympus/quakewatch/internal/seismic"
)

const (
	feedNearby = "seismic_nearby"
	feedTrend  = "seismic_trend"
	feedAlerts = "alerts"

	triggerStartup  = "startup"
	triggerSearch   = "search"
	triggerInterval = "interval"
)

// refresh opens a new generation and fires the three panel fetches for center.
// Callers hold searchMu.
func (c *Controller) refresh(center models.Coordinate, trigger string) {
	gen := c.generation.Add(1)
	c.metrics.Refreshes.WithLabelValues(trigger).Inc()

	c.launch(func(ctx context.Context) { c.fetchNearby(ctx, gen, center) })
	c.launch(func(ctx context.Context) { c.fetchTrend(ctx, gen, center) })
	c.launch(func(ctx context.Context) { c.fetchAlerts(ctx, gen, center) })
}

func (c *Controller) launch(fetch func(ctx context.Context)) {
	c.mu.RLock()
	base := c.baseCtx
	c.mu.RUnlock()

	c.inflight.Add(1)
	c.metrics.InFlightFetches.Inc()

	go func() {
		defer c.inflight.Done()
		defer c.metrics.InFlightFetches.Dec()

		ctx := base
		if c.fetchTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(base, c.fetchTimeout)
			defer cancel()
		}

		fetch(ctx)
	}()
}

func (c *Controller) fetchNearby(ctx context.Context, gen uint64, center models.Coordinate) {
	start := c.clock.Now()
	events, err := c.seismic.FetchNearby(ctx, center)
	status := c.observe(ctx, feedNearby, start, len(events), err)

	c.commit(ctx, gen, feedNearby, func() {
		c.nearbyPanel.Apply(status, seismic.NearbyLines(events, c.loc), seismic.NearbyPlaceholder)
	})
}

func (c *Controller) fetchTrend(ctx context.Context, gen uint64, center models.Coordinate) {
	start := c.clock.Now()
	events, err := c.seismic.FetchTrend(ctx, center)
	status := c.observe(ctx, feedTrend, start, len(events), err)
	if status == panel.StatusError {
		return
	}

	series := models.NewChartSeries(seismic.TrendPoints(events), c.loc)
	c.commit(ctx, gen, feedTrend, func() {
		if renderErr := c.chart.Render(series); renderErr != nil {
			c.log.ErrorContext(ctx, "Failed to render trend chart", "error", renderErr)
		}
	})
}

func (c *Controller) fetchAlerts(ctx context.Context, gen uint64, center models.Coordinate) {
	start := c.clock.Now()
	items, err := c.alerts.FetchLatest(ctx, center)
	status := c.observe(ctx, feedAlerts, start, len(items), err)

	c.commit(ctx, gen, feedAlerts, func() {
		c.alertsPanel.Apply(status, alerts.Lines(items, c.loc), alerts.Placeholder)
	})
}

// observe classifies a fetch result and records it.
func (c *Controller) observe(ctx context.Context, feed string, start time.Time, n int, err error) panel.Status {
	c.metrics.FeedSeconds.WithLabelValues(feed).Observe(c.clock.Since(start).Seconds())

	status := panel.Classify(n, err)
	c.metrics.FeedResults.WithLabelValues(feed, status.String()).Inc()

	if err != nil {
		c.log.ErrorContext(ctx, "Panel fetch failed", "feed", feed, "error", err)
	}

	return status
}

// commit runs apply unless a newer refresh was launched after gen.
func (c *Controller) commit(ctx context.Context, gen uint64, feed string, apply func()) {
	c.commitMu.Lock()
	defer c.commitMu.Unlock()

	if latest := c.generation.Load(); gen != latest {
		c.metrics.StaleDiscarded.WithLabelValues(feed).Inc()
		c.log.DebugContext(ctx, "Discarding stale response", "feed", feed, "generation", gen, "latest", latest)
		return
	}

	apply()
}
