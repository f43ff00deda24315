package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	GeocodeResults  *prometheus.CounterVec
	GeocodeSeconds  *prometheus.HistogramVec
	PlaceCache      *prometheus.CounterVec
	FeedResults     *prometheus.CounterVec
	FeedSeconds     *prometheus.HistogramVec
	Refreshes       *prometheus.CounterVec
	StaleDiscarded  *prometheus.CounterVec
	InFlightFetches prometheus.Gauge
	LiveCharts      prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		GeocodeResults: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "quakewatch_geocode_results_total",
			Help: "Total number of place lookups by outcome (found, not_found, error).",
		}, []string{"outcome"}),
		GeocodeSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "quakewatch_geocode_request_duration_seconds",
			Help:    "Duration of requests to the geocoding provider API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		PlaceCache: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "quakewatch_place_cache_lookups_total",
			Help: "Total number of place cache lookups by result (hit, miss, error).",
		}, []string{"result"}),
		FeedResults: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "quakewatch_feed_results_total",
			Help: "Total number of panel fetches by feed and outcome (success, empty, error).",
		}, []string{"feed", "outcome"}),
		FeedSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "quakewatch_feed_request_duration_seconds",
			Help:    "Duration of requests to the upstream data feeds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"feed"}),
		Refreshes: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "quakewatch_refreshes_total",
			Help: "Total number of dashboard refreshes by trigger (startup, search, interval).",
		}, []string{"trigger"}),
		StaleDiscarded: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "quakewatch_stale_discarded_total",
			Help: "Total number of feed responses discarded because a newer refresh superseded them.",
		}, []string{"panel"}),
		InFlightFetches: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "quakewatch_inflight_fetches",
			Help: "Current number of panel fetches waiting on an upstream.",
		}),
		LiveCharts: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "quakewatch_live_chart_instances",
			Help: "Number of chart instances currently bound to the trend canvas.",
		}),
	}
}
