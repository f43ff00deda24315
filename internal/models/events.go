package models

import "time"

// SeismicEvent is a single earthquake reported by the seismic catalog.
type SeismicEvent struct {
	Magnitude  float64   `json:"magnitude"`
	Place      string    `json:"place"`
	OccurredAt time.Time `json:"occurredAt"`
}

// TrendPoint is the reduced (time, magnitude) pair plotted on the trend chart.
type TrendPoint struct {
	OccurredAt time.Time
	Magnitude  float64
}

// TrendPoint reduces the event to its chart pair.
func (e SeismicEvent) TrendPoint() TrendPoint {
	return TrendPoint{OccurredAt: e.OccurredAt, Magnitude: e.Magnitude}
}

// AlertItem is one headline of the emergency alert feed.
type AlertItem struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	PublishedAt time.Time `json:"publishedAt"`
}
