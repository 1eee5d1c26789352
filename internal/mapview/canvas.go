package mapview

import (
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// MarkerKind tells origin and destination markers apart.
type MarkerKind string

const (
	MarkerOrigin      MarkerKind = "origin"
	MarkerDestination MarkerKind = "destination"
)

// Marker colours used by the widget.
const (
	OriginColor      = "#3b82f6"
	DestinationColor = "#ef4444"
	RouteColor       = "#3b82f6"
)

// Viewport padding, in pixels.
const (
	InitialPadding = 50
	MarkersPadding = 70
)

// Popup is the text shown when a marker is clicked.
type Popup struct {
	Title string   `json:"title"`
	Lines []string `json:"lines"`
}

// Marker is a point annotation on the map.
type Marker struct {
	OrderKey string     `json:"orderId"`
	Kind     MarkerKind `json:"kind"`
	Color    string     `json:"color"`
	Position orb.Point  `json:"lngLat"`
	City     string     `json:"city"`
	Popup    Popup      `json:"popup"`
}

// Viewport is a bounding box plus the padding used to fit it.
type Viewport struct {
	SouthWest orb.Point `json:"southWest"`
	NorthEast orb.Point `json:"northEast"`
	Padding   int       `json:"padding"`
}

// NewViewport builds a viewport from an orb bound.
func NewViewport(b orb.Bound, padding int) Viewport {
	return Viewport{SouthWest: b.Min, NorthEast: b.Max, Padding: padding}
}

// Bound returns the viewport box as an orb bound.
func (v Viewport) Bound() orb.Bound {
	return orb.Bound{Min: v.SouthWest, Max: v.NorthEast}
}

// Canvas is the drawing surface of the mapping widget.
type Canvas interface {
	// Clear removes every marker and the route layer.
	Clear()
	AddMarker(m Marker)
	SetRoute(route *geojson.Feature)
	FitBounds(v Viewport)
	// SetPlaceholder shows msg instead of the map; an empty msg hides it.
	SetPlaceholder(msg string)
}

// Scene is a snapshot of everything drawn on a canvas.
type Scene struct {
	Placeholder string           `json:"placeholder,omitempty"`
	Viewport    Viewport         `json:"viewport"`
	Markers     []Marker         `json:"markers"`
	Route       *geojson.Feature `json:"route,omitempty"`
}

// FeatureCollection exports the scene as GeoJSON: one Point feature per marker
// followed by the route line, if any.
func (s Scene) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, m := range s.Markers {
		f := geojson.NewFeature(m.Position)
		f.Properties["orderId"] = m.OrderKey
		f.Properties["kind"] = string(m.Kind)
		f.Properties["color"] = m.Color
		f.Properties["city"] = m.City
		fc.Append(f)
	}
	if s.Route != nil {
		fc.Append(s.Route)
	}
	return fc
}

// Layer is an in-memory Canvas. It keeps exactly what the last render drew and
// is what the server serialises to the browser widget.
type Layer struct {
	mu          sync.Mutex
	markers     []Marker
	route       *geojson.Feature
	viewport    Viewport
	placeholder string
}

// NewLayer returns an empty layer showing the initial Argentina viewport.
func NewLayer() *Layer {
	return &Layer{
		markers:  make([]Marker, 0),
		viewport: NewViewport(ArgentinaBounds, InitialPadding),
	}
}

func (l *Layer) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.markers = make([]Marker, 0)
	l.route = nil
}

func (l *Layer) AddMarker(m Marker) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.markers = append(l.markers, m)
}

func (l *Layer) SetRoute(route *geojson.Feature) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.route = route
}

func (l *Layer) FitBounds(v Viewport) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.viewport = v
}

func (l *Layer) SetPlaceholder(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.placeholder = msg
}

// MarkerCount returns how many markers are currently drawn.
func (l *Layer) MarkerCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.markers)
}

// Scene returns a copy of the layer contents.
func (l *Layer) Scene() Scene {
	l.mu.Lock()
	defer l.mu.Unlock()
	markers := make([]Marker, len(l.markers))
	copy(markers, l.markers)
	return Scene{
		Placeholder: l.placeholder,
		Viewport:    l.viewport,
		Markers:     markers,
		Route:       l.route,
	}
}
