package seismic

import (
	"fmt"
	"html"
	"strconv"
	"time"

	"github.com/UnknownOlympus/quakewatch/internal/models"
)

const (
	// NearbyPlaceholder is shown when no event was reported around the location.
	NearbyPlaceholder = "No recent alerts for this location."
	// EventTimeLayout matches an en-US date-time rendering.
	EventTimeLayout = "1/2/2006, 3:04:05 PM"
)

// NearbyLine renders one nearby event as a list item.
func NearbyLine(event models.SeismicEvent, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}

	return fmt.Sprintf("<strong>%sM Earthquake</strong> - %s <br> <small>%s</small>",
		strconv.FormatFloat(event.Magnitude, 'f', -1, 64),
		html.EscapeString(event.Place),
		event.OccurredAt.In(loc).Format(EventTimeLayout),
	)
}

// NearbyLines renders events in order.
func NearbyLines(events []models.SeismicEvent, loc *time.Location) []string {
	lines := make([]string, 0, len(events))
	for _, e := range events {
		lines = append(lines, NearbyLine(e, loc))
	}

	return lines
}

// TrendPoints reduces events to chart pairs, keeping their order.
func TrendPoints(events []models.SeismicEvent) []models.TrendPoint {
	points := make([]models.TrendPoint, 0, len(events))
	for _, e := range events {
		points = append(points, e.TrendPoint())
	}

	return points
}
