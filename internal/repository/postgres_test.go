package repository_test

import (
	"log/slog"
	"regexp"
	"testing"

	"github.com/UnknownOlympus/quakewatch/internal/models"
	"github.com/UnknownOlympus/quakewatch/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fetchPlaceQuery = `
		SELECT latitude, longitude, display_name
		FROM geocode_places
		WHERE query_key = $1;
	`

const storePlaceQuery = `
		INSERT INTO geocode_places (query_key, latitude, longitude, display_name, resolved_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (query_key) DO UPDATE SET
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			display_name = EXCLUDED.display_name,
			resolved_at = EXCLUDED.resolved_at;
	`

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "tokyo", repository.CacheKey("  Tokyo "))
	assert.Equal(t, "", repository.CacheKey(""))
}

func TestFetchPlace(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := t.Context()

	t.Run("error - query cached place", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectQuery(regexp.QuoteMeta(fetchPlaceQuery)).
			WithArgs("tokyo").
			WillReturnError(assert.AnError)

		place, err := repo.FetchPlace(ctx, "Tokyo")

		require.Nil(t, place)
		require.ErrorContains(t, err, "failed to query cached place")
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("miss - no rows", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectQuery(regexp.QuoteMeta(fetchPlaceQuery)).
			WithArgs("atlantis").
			WillReturnError(pgx.ErrNoRows)

		place, err := repo.FetchPlace(ctx, "Atlantis")

		require.Nil(t, place)
		require.ErrorIs(t, err, repository.ErrCacheMiss)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - hit", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectQuery(regexp.QuoteMeta(fetchPlaceQuery)).
			WithArgs("tokyo").
			WillReturnRows(
				pgxmock.NewRows([]string{"latitude", "longitude", "display_name"}).
					AddRow(35.68, 139.76, "Tokyo, Japan"),
			)

		place, err := repo.FetchPlace(ctx, " TOKYO")

		require.NoError(t, err)
		require.NotNil(t, place)
		assert.InEpsilon(t, 35.68, place.Latitude, 0.0001)
		assert.InEpsilon(t, 139.76, place.Longitude, 0.0001)
		assert.Equal(t, "Tokyo, Japan", place.DisplayName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStorePlace(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := t.Context()
	place := models.PlaceResult{
		Coordinate:  models.Coordinate{Latitude: 35.68, Longitude: 139.76},
		DisplayName: "Tokyo, Japan",
	}

	t.Run("error - store place", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectExec(regexp.QuoteMeta(storePlaceQuery)).
			WithArgs("tokyo", place.Latitude, place.Longitude, place.DisplayName).
			WillReturnError(assert.AnError)

		err = repo.StorePlace(ctx, "Tokyo", place)

		require.ErrorContains(t, err, "failed to store place")
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - store place", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectExec(regexp.QuoteMeta(storePlaceQuery)).
			WithArgs("tokyo", place.Latitude, place.Longitude, place.DisplayName).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err = repo.StorePlace(ctx, "Tokyo", place)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEnsureSchema(t *testing.T) {
	t.Parallel()
	ctx := t.Context()

	t.Run("error - create table", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, slog.Default())

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS geocode_places").WillReturnError(assert.AnError)

		err = repo.EnsureSchema(ctx)

		require.ErrorContains(t, err, "failed to create place cache table")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - create table", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, slog.Default())

		mock.ExpectExec("CREATE TABLE IF NOT EXISTS geocode_places").
			WillReturnResult(pgxmock.NewResult("CREATE", 0))

		require.NoError(t, repo.EnsureSchema(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := repository.NewRepository(mock, slog.Default())

	mock.ExpectPing().WillReturnError(assert.AnError)

	require.ErrorIs(t, repo.Ping(t.Context()), assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}
