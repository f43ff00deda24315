package mapview

import (
	"errors"
	"html"
	"sync"

	"github.com/UnknownOlympus/quakewatch/internal/models"
)

const (
	// TileURLTemplate is the OpenStreetMap raster tile source.
	TileURLTemplate = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	// TileAttribution is shown in the map corner.
	TileAttribution = "&copy; OpenStreetMap contributors"
	// DefaultLabel is the marker label before the first search.
	DefaultLabel = "Default Location: San Francisco"

	// DefaultZoom is the zoom level of the initial view.
	DefaultZoom = 5
	// SearchZoom is the zoom level after a successful search.
	SearchZoom = 8
)

var (
	// ErrNotInitialized is returned when the view is used before Initialize.
	ErrNotInitialized = errors.New("map view is not initialized")
	// ErrAlreadyInitialized is returned on a second Initialize.
	ErrAlreadyInitialized = errors.New("map view is already initialized")
)

// Widget is the interactive map the view drives.
type Widget interface {
	SetView(center models.Coordinate, zoom int)
	AddTileLayer(urlTemplate, attribution string)
	AddMarker(position models.Coordinate) Marker
}

// Marker is a single pin on the map.
type Marker interface {
	SetPosition(position models.Coordinate)
	BindLabel(label string)
	Reveal()
}

// MapView owns the map widget and its only marker.
type MapView struct {
	mu     sync.Mutex
	widget Widget
	marker Marker
}

// New creates a view over widget. Nothing is drawn until Initialize.
func New(widget Widget) *MapView {
	return &MapView{widget: widget}
}

// Initialize creates the view, the tile layer and the default marker. It may run once.
func (v *MapView) Initialize(center models.Coordinate, zoom int) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.marker != nil {
		return ErrAlreadyInitialized
	}

	v.widget.SetView(center, zoom)
	v.widget.AddTileLayer(TileURLTemplate, TileAttribution)

	v.marker = v.widget.AddMarker(center)
	v.marker.BindLabel(DefaultLabel)
	v.marker.Reveal()

	return nil
}

// Recenter moves the view.
func (v *MapView) Recenter(center models.Coordinate, zoom int) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.marker == nil {
		return ErrNotInitialized
	}

	v.widget.SetView(center, zoom)

	return nil
}

// SetMarker moves the existing marker, replaces its label and reveals it.
func (v *MapView) SetMarker(position models.Coordinate, label string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.marker == nil {
		return ErrNotInitialized
	}

	v.marker.SetPosition(position)
	v.marker.BindLabel(label)
	v.marker.Reveal()

	return nil
}

// LabelFor renders the marker label of a resolved place.
func LabelFor(displayName string) string {
	return "<b>" + html.EscapeString(displayName) + "</b>"
}
