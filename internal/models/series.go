package models

import "time"

// ChartDateLayout renders day-granularity chart labels (en-US short date).
const ChartDateLayout = "1/2/2006"

// ChartSeries is an ordered list of date labels paired with magnitudes.
// Labels and Values always have the same length.
type ChartSeries struct {
	Labels []string
	Values []float64
}

// NewChartSeries builds a series from trend points, keeping their order.
// Labels are formatted in loc; a nil loc means UTC.
func NewChartSeries(points []TrendPoint, loc *time.Location) ChartSeries {
	if loc == nil {
		loc = time.UTC
	}

	series := ChartSeries{
		Labels: make([]string, 0, len(points)),
		Values: make([]float64, 0, len(points)),
	}
	for _, p := range points {
		series.Labels = append(series.Labels, p.OccurredAt.In(loc).Format(ChartDateLayout))
		series.Values = append(series.Values, p.Magnitude)
	}

	return series
}

// Len returns the number of points in the series.
func (s ChartSeries) Len() int {
	return len(s.Values)
}

// Empty reports whether the series has no points.
func (s ChartSeries) Empty() bool {
	return s.Len() == 0
}
