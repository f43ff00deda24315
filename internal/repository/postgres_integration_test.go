//go:build integration

package repository_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/UnknownOlympus/quakewatch/internal/models"
	"github.com/UnknownOlympus/quakewatch/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestRepository_PostgresIntegration(t *testing.T) {
	ctx := t.Context()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("quakewatch"),
		postgres.WithUsername("quakewatch"),
		postgres.WithPassword("quakewatch"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if termErr := testcontainers.TerminateContainer(container); termErr != nil {
			t.Logf("failed to terminate container: %v", termErr)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	pool, err := repository.NewDatabase(ctx, host, port.Port(), "quakewatch", "quakewatch", "quakewatch")
	require.NoError(t, err)
	defer pool.Close()

	repo := repository.NewRepository(pool, slog.Default())
	require.NoError(t, repo.EnsureSchema(ctx))
	require.NoError(t, repo.EnsureSchema(ctx), "schema creation must be idempotent")

	_, err = repo.FetchPlace(ctx, "Lisbon")
	require.ErrorIs(t, err, repository.ErrCacheMiss)

	lisbon := models.PlaceResult{
		Coordinate:  models.Coordinate{Latitude: 38.72, Longitude: -9.14},
		DisplayName: "Lisboa, Portugal",
	}
	require.NoError(t, repo.StorePlace(ctx, "Lisbon", lisbon))

	got, err := repo.FetchPlace(ctx, "  lisbon ")
	require.NoError(t, err)
	assert.Equal(t, lisbon, *got)

	lisbon.DisplayName = "Lisbon, Portugal"
	require.NoError(t, repo.StorePlace(ctx, "LISBON", lisbon))

	got, err = repo.FetchPlace(ctx, "Lisbon")
	require.NoError(t, err)
	assert.Equal(t, "Lisbon, Portugal", got.DisplayName)
	require.NoError(t, repo.Ping(ctx))
}
