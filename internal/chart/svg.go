package chart

import (
	"bytes"
	"fmt"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// SVGFactory draws line charts as SVG documents with go-chart.
type SVGFactory struct {
	Width  int
	Height int
}

// NewSVGFactory returns a factory producing width x height documents.
func NewSVGFactory(width, height int) SVGFactory {
	return SVGFactory{Width: width, Height: height}
}

// Construct renders cfg onto canvas. The x axis is categorical: point i sits at x = i
// and carries Labels[i].
func (f SVGFactory) Construct(canvas *Canvas, cfg Config) (Instance, error) {
	if len(cfg.Values) == 0 {
		return nil, ErrEmptySeries
	}

	xs := make([]float64, len(cfg.Values))
	ys := append([]float64(nil), cfg.Values...)
	maxY := 0.0
	for i, v := range cfg.Values {
		xs[i] = float64(i)
		maxY = math.Max(maxY, v)
	}
	ticks := categoryTicks(cfg.Labels, cfg.MaxXTicks)

	// go-chart derives the x range from the ticks and needs a non-zero width, so a lone
	// point is drawn as a flat segment with its label centred.
	if len(xs) == 1 {
		xs = []float64{0, 1}
		ys = []float64{ys[0], ys[0]}
		ticks = singleTicks(cfg.Labels)
	}

	yRange := &gochart.ContinuousRange{Min: 0, Max: maxY * 1.1}
	if !cfg.YBeginAtZero {
		yRange.Min = minOf(cfg.Values)
	}
	if yRange.Max <= yRange.Min {
		yRange.Max = yRange.Min + 1
	}

	graph := gochart.Chart{
		Width:  f.Width,
		Height: f.Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: gochart.XAxis{
			Name:  cfg.XTitle,
			Range: &gochart.ContinuousRange{Min: 0, Max: float64(len(xs) - 1)},
			Ticks: ticks,
		},
		YAxis: gochart.YAxis{
			Name:  cfg.YTitle,
			Range: yRange,
		},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    cfg.DatasetLabel,
				XValues: xs,
				YValues: ys,
				Style: gochart.Style{
					StrokeColor: toColor(cfg.BorderColor),
					FillColor:   toColor(cfg.FillColor),
					StrokeWidth: cfg.BorderWidth,
				},
			},
		},
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(gochart.SVG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render svg: %w", err)
	}

	return &svgInstance{canvas: canvas, revision: canvas.Draw(buf.Bytes())}, nil
}

type svgInstance struct {
	canvas   *Canvas
	revision uint64
}

// Destroy removes the drawing unless something newer already replaced it.
func (i *svgInstance) Destroy() {
	i.canvas.ClearRevision(i.revision)
}

// TickIndices picks at most maxTicks evenly spaced indices out of n, always keeping the
// first and the last one.
func TickIndices(n, maxTicks int) []int {
	if n <= 0 {
		return nil
	}
	if maxTicks <= 0 || n <= maxTicks {
		indices := make([]int, n)
		for i := range indices {
			indices[i] = i
		}
		return indices
	}
	if maxTicks == 1 {
		return []int{0}
	}

	step := float64(n-1) / float64(maxTicks-1)
	indices := make([]int, 0, maxTicks)
	for i := range maxTicks {
		idx := int(math.Round(float64(i) * step))
		if len(indices) > 0 && indices[len(indices)-1] == idx {
			continue
		}
		indices = append(indices, idx)
	}

	return indices
}

func categoryTicks(labels []string, maxTicks int) []gochart.Tick {
	indices := TickIndices(len(labels), maxTicks)
	ticks := make([]gochart.Tick, 0, len(indices))
	for _, idx := range indices {
		ticks = append(ticks, gochart.Tick{Value: float64(idx), Label: labels[idx]})
	}

	return ticks
}

func singleTicks(labels []string) []gochart.Tick {
	label := ""
	if len(labels) > 0 {
		label = labels[0]
	}

	return []gochart.Tick{{Value: 0}, {Value: 0.5, Label: label}, {Value: 1}}
}

func toColor(c RGBA) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(c.A * 255))}
}

func minOf(values []float64) float64 {
	lowest := values[0]
	for _, v := range values[1:] {
		lowest = math.Min(lowest, v)
	}

	return lowest
}
