package mapview

import (
	"sync"

	"github.com/UnknownOlympus/quakewatch/internal/models"
)

// TileLayer describes a raster tile source.
type TileLayer struct {
	URLTemplate string `json:"urlTemplate"`
	Attribution string `json:"attribution"`
}

// MarkerState is the serialisable state of the marker.
type MarkerState struct {
	Position models.Coordinate `json:"position"`
	Label    string            `json:"label"`
	Open     bool              `json:"open"`
}

// Snapshot is the serialisable state of the whole map, rendered by the browser.
type Snapshot struct {
	Initialized  bool              `json:"initialized"`
	Center       models.Coordinate `json:"center"`
	Zoom         int               `json:"zoom"`
	TileLayers   []TileLayer       `json:"tileLayers"`
	Marker       *MarkerState      `json:"marker,omitempty"`
	MarkersAdded int               `json:"markersAdded"`
	Revision     uint64            `json:"revision"`
}

// StateWidget is a Widget that records what was drawn so that a browser client can
// replay it. Every change bumps Revision.
type StateWidget struct {
	mu     sync.RWMutex
	state  Snapshot
	marker *stateMarker
}

// NewStateWidget creates an empty widget.
func NewStateWidget() *StateWidget {
	return &StateWidget{}
}

// SetView records the map centre and zoom level.
func (w *StateWidget) SetView(center models.Coordinate, zoom int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.state.Initialized = true
	w.state.Center = center
	w.state.Zoom = zoom
	w.state.Revision++
}

// AddTileLayer appends a raster tile source.
func (w *StateWidget) AddTileLayer(urlTemplate, attribution string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.state.TileLayers = append(w.state.TileLayers, TileLayer{URLTemplate: urlTemplate, Attribution: attribution})
	w.state.Revision++
}

// AddMarker places a marker and returns its handle. Every call is counted in MarkersAdded.
func (w *StateWidget) AddMarker(position models.Coordinate) Marker {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.state.MarkersAdded++
	w.state.Marker = &MarkerState{Position: position}
	w.state.Revision++
	w.marker = &stateMarker{widget: w}

	return w.marker
}

// Snapshot returns a copy of the recorded state.
func (w *StateWidget) Snapshot() Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()

	snap := w.state
	snap.TileLayers = append([]TileLayer(nil), w.state.TileLayers...)
	if w.state.Marker != nil {
		m := *w.state.Marker
		snap.Marker = &m
	}

	return snap
}

type stateMarker struct {
	widget *StateWidget
}

func (m *stateMarker) update(fn func(*MarkerState)) {
	m.widget.mu.Lock()
	defer m.widget.mu.Unlock()

	fn(m.widget.state.Marker)
	m.widget.state.Revision++
}

func (m *stateMarker) SetPosition(position models.Coordinate) {
	m.update(func(s *MarkerState) { s.Position = position })
}

func (m *stateMarker) BindLabel(label string) {
	m.update(func(s *MarkerState) { s.Label = label })
}

func (m *stateMarker) Reveal() {
	m.update(func(s *MarkerState) { s.Open = true })
}
