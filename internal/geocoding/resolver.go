package geocoding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/quakewatch/internal/metrics"
	"github.com/UnknownOlympus/quakewatch/internal/models"
	"github.com/UnknownOlympus/quakewatch/internal/repository"
)

// Resolver turns a place query into a PlaceResult. It records provider timings and
// consults an optional place cache before calling the provider.
type Resolver struct {
	provider     Provider             // Upstream geocoding provider
	providerName string               // Name of the provider for metrics labeling
	cache        repository.Interface // Optional place cache, nil disables caching
	metrics      *metrics.Metrics
	log          *slog.Logger
}

// NewResolver creates a Resolver. cache may be nil.
func NewResolver(
	log *slog.Logger,
	provider Provider,
	providerName string,
	cache repository.Interface,
	metrics *metrics.Metrics,
) *Resolver {
	return &Resolver{
		provider:     provider,
		providerName: providerName,
		cache:        cache,
		metrics:      metrics,
		log:          log,
	}
}

// Resolve passes query verbatim to the provider. It returns an error wrapping ErrNotFound
// when there is no candidate; any other error is a transport or decoding failure.
func (r *Resolver) Resolve(ctx context.Context, query string) (*models.PlaceResult, error) {
	if place := r.lookupCache(ctx, query); place != nil {
		r.metrics.GeocodeResults.WithLabelValues("found").Inc()
		return place, nil
	}

	startTime := time.Now()
	place, err := r.provider.Geocode(ctx, query)
	r.metrics.GeocodeSeconds.WithLabelValues(r.providerName).Observe(time.Since(startTime).Seconds())

	switch {
	case errors.Is(err, ErrNotFound):
		r.metrics.GeocodeResults.WithLabelValues("not_found").Inc()
		r.log.InfoContext(ctx, "No place found for query", "query", query)
		return nil, err
	case err != nil:
		r.metrics.GeocodeResults.WithLabelValues("error").Inc()
		r.log.ErrorContext(ctx, "Failed to geocode query", "provider", r.providerName, "query", query, "error", err)
		return nil, fmt.Errorf("failed to resolve %q: %w", query, err)
	}

	r.metrics.GeocodeResults.WithLabelValues("found").Inc()
	r.storeCache(ctx, query, *place)

	return place, nil
}

func (r *Resolver) lookupCache(ctx context.Context, query string) *models.PlaceResult {
	if r.cache == nil {
		return nil
	}

	place, err := r.cache.FetchPlace(ctx, query)
	switch {
	case errors.Is(err, repository.ErrCacheMiss):
		r.metrics.PlaceCache.WithLabelValues("miss").Inc()
		return nil
	case err != nil:
		r.metrics.PlaceCache.WithLabelValues("error").Inc()
		r.log.WarnContext(ctx, "Place cache lookup failed", "query", query, "error", err)
		return nil
	}

	r.metrics.PlaceCache.WithLabelValues("hit").Inc()

	return place
}

func (r *Resolver) storeCache(ctx context.Context, query string, place models.PlaceResult) {
	if r.cache == nil {
		return
	}

	if err := r.cache.StorePlace(ctx, query, place); err != nil {
		r.log.WarnContext(ctx, "Failed to cache place", "query", query, "error", err)
	}
}
