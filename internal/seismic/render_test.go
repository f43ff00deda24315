package seismic_test

import (
	"testing"
	"time"

	"github.com/UnknownOlympus/quakewatch/internal/models"
	"github.com/UnknownOlympus/quakewatch/internal/seismic"
	"github.com/stretchr/testify/assert"
)

func TestNearbyLine(t *testing.T) {
	event := models.SeismicEvent{
		Magnitude:  4.5,
		Place:      "10km N of Town",
		OccurredAt: time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC),
	}

	t.Run("formats magnitude place and time", func(t *testing.T) {
		assert.Equal(t,
			"<strong>4.5M Earthquake</strong> - 10km N of Town <br> <small>11/14/2023, 10:13:20 PM</small>",
			seismic.NearbyLine(event, time.UTC))
	})

	t.Run("whole magnitudes have no decimals", func(t *testing.T) {
		e := event
		e.Magnitude = 5
		assert.Contains(t, seismic.NearbyLine(e, nil), "<strong>5M Earthquake</strong>")
	})

	t.Run("place is escaped", func(t *testing.T) {
		e := event
		e.Place = "<script>"
		assert.Contains(t, seismic.NearbyLine(e, time.UTC), "&lt;script&gt;")
	})
}

func TestTrendPoints(t *testing.T) {
	events := []models.SeismicEvent{
		{Magnitude: 2.1, OccurredAt: time.Unix(200, 0)},
		{Magnitude: 3.4, OccurredAt: time.Unix(100, 0)},
	}

	points := seismic.TrendPoints(events)

	assert.Equal(t, []models.TrendPoint{
		{OccurredAt: time.Unix(200, 0), Magnitude: 2.1},
		{OccurredAt: time.Unix(100, 0), Magnitude: 3.4},
	}, points)
	assert.Len(t, seismic.NearbyLines(events, time.UTC), 2)
}
