package geocoding_test

import (
	"fmt"
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/quakewatch/internal/geocoding"
	"github.com/UnknownOlympus/quakewatch/internal/metrics"
	"github.com/UnknownOlympus/quakewatch/internal/models"
	"github.com/UnknownOlympus/quakewatch/internal/repository"
	"github.com/UnknownOlympus/quakewatch/test/mocks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_Resolve(t *testing.T) {
	ctx := t.Context()
	logger := slog.Default()
	tokyo := &models.PlaceResult{
		Coordinate:  models.Coordinate{Latitude: 35.68, Longitude: 139.76},
		DisplayName: "Tokyo, Japan",
	}

	t.Run("found without cache", func(t *testing.T) {
		provider := mocks.NewProvider(t)
		m := metrics.NewMetrics(prometheus.NewRegistry())
		resolver := geocoding.NewResolver(logger, provider, "nominatim", nil, m)

		provider.On("Geocode", ctx, "Tokyo").Return(tokyo, nil).Once()

		place, err := resolver.Resolve(ctx, "Tokyo")

		require.NoError(t, err)
		assert.Equal(t, tokyo, place)
		assert.InDelta(t, 1, testutil.ToFloat64(m.GeocodeResults.WithLabelValues("found")), 0)
	})

	t.Run("not found keeps the sentinel", func(t *testing.T) {
		provider := mocks.NewProvider(t)
		m := metrics.NewMetrics(prometheus.NewRegistry())
		resolver := geocoding.NewResolver(logger, provider, "nominatim", nil, m)

		provider.On("Geocode", ctx, "xyzzy-nowhere-123").
			Return(nil, fmt.Errorf("nominatim: %w", geocoding.ErrNotFound)).Once()

		place, err := resolver.Resolve(ctx, "xyzzy-nowhere-123")

		require.Nil(t, place)
		require.ErrorIs(t, err, geocoding.ErrNotFound)
		assert.InDelta(t, 1, testutil.ToFloat64(m.GeocodeResults.WithLabelValues("not_found")), 0)
	})

	t.Run("transport failure is distinct from not found", func(t *testing.T) {
		provider := mocks.NewProvider(t)
		m := metrics.NewMetrics(prometheus.NewRegistry())
		resolver := geocoding.NewResolver(logger, provider, "nominatim", nil, m)

		provider.On("Geocode", ctx, "Paris").Return(nil, assert.AnError).Once()

		place, err := resolver.Resolve(ctx, "Paris")

		require.Nil(t, place)
		require.ErrorIs(t, err, assert.AnError)
		require.NotErrorIs(t, err, geocoding.ErrNotFound)
		assert.InDelta(t, 1, testutil.ToFloat64(m.GeocodeResults.WithLabelValues("error")), 0)
	})

	t.Run("cache hit skips the provider", func(t *testing.T) {
		provider := mocks.NewProvider(t)
		cache := mocks.NewInterface(t)
		m := metrics.NewMetrics(prometheus.NewRegistry())
		resolver := geocoding.NewResolver(logger, provider, "nominatim", cache, m)

		cache.On("FetchPlace", ctx, "Tokyo").Return(tokyo, nil).Once()

		place, err := resolver.Resolve(ctx, "Tokyo")

		require.NoError(t, err)
		assert.Equal(t, tokyo, place)
		provider.AssertNumberOfCalls(t, "Geocode", 0)
		assert.InDelta(t, 1, testutil.ToFloat64(m.PlaceCache.WithLabelValues("hit")), 0)
	})

	t.Run("cache miss stores the resolution", func(t *testing.T) {
		provider := mocks.NewProvider(t)
		cache := mocks.NewInterface(t)
		m := metrics.NewMetrics(prometheus.NewRegistry())
		resolver := geocoding.NewResolver(logger, provider, "nominatim", cache, m)

		cache.On("FetchPlace", ctx, "Tokyo").Return(nil, repository.ErrCacheMiss).Once()
		provider.On("Geocode", ctx, "Tokyo").Return(tokyo, nil).Once()
		cache.On("StorePlace", ctx, "Tokyo", *tokyo).Return(nil).Once()

		place, err := resolver.Resolve(ctx, "Tokyo")

		require.NoError(t, err)
		assert.Equal(t, tokyo, place)
		assert.InDelta(t, 1, testutil.ToFloat64(m.PlaceCache.WithLabelValues("miss")), 0)
	})

	t.Run("cache failures never fail a resolve", func(t *testing.T) {
		provider := mocks.NewProvider(t)
		cache := mocks.NewInterface(t)
		m := metrics.NewMetrics(prometheus.NewRegistry())
		resolver := geocoding.NewResolver(logger, provider, "nominatim", cache, m)

		cache.On("FetchPlace", ctx, "Tokyo").Return(nil, assert.AnError).Once()
		provider.On("Geocode", ctx, "Tokyo").Return(tokyo, nil).Once()
		cache.On("StorePlace", ctx, "Tokyo", *tokyo).Return(assert.AnError).Once()

		place, err := resolver.Resolve(ctx, "Tokyo")

		require.NoError(t, err)
		assert.Equal(t, tokyo, place)
		assert.InDelta(t, 1, testutil.ToFloat64(m.PlaceCache.WithLabelValues("error")), 0)
	})

	t.Run("not found is not cached", func(t *testing.T) {
		provider := mocks.NewProvider(t)
		cache := mocks.NewInterface(t)
		m := metrics.NewMetrics(prometheus.NewRegistry())
		resolver := geocoding.NewResolver(logger, provider, "nominatim", cache, m)

		cache.On("FetchPlace", ctx, "nowhere").Return(nil, repository.ErrCacheMiss).Once()
		provider.On("Geocode", ctx, "nowhere").Return(nil, geocoding.ErrNotFound).Once()

		_, err := resolver.Resolve(ctx, "nowhere")

		require.ErrorIs(t, err, geocoding.ErrNotFound)
		cache.AssertNumberOfCalls(t, "StorePlace", 0)
	})
}
