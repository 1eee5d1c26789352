package mapview

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// PlaceholderMessage is shown instead of the map when no access token is set.
const PlaceholderMessage = "Se requiere token de Mapbox. Por favor ingresa tu token público de Mapbox para ver el mapa."

// Placeable is an order that can be projected onto the map.
type Placeable interface {
	Key() string
	OriginCity() string
	DestinationCity() string
}

// Placeables converts a typed slice for Render.
func Placeables[T Placeable](items []T) []Placeable {
	out := make([]Placeable, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}

// Renderer projects orders onto a Canvas.
type Renderer struct {
	gazetteer *Gazetteer
}

// NewRenderer creates a renderer resolving cities with g. A nil g uses the
// built-in table.
func NewRenderer(g *Gazetteer) *Renderer {
	if g == nil {
		g = DefaultGazetteer()
	}
	return &Renderer{gazetteer: g}
}

// Gazetteer returns the city table in use.
func (r *Renderer) Gazetteer() *Gazetteer {
	return r.gazetteer
}

// Render clears the canvas and draws one origin marker per order. When
// showRoute is set and selected is among orders, its destination marker and the
// route line are drawn too. The viewport is fitted to every drawn point.
// Orders without an origin city are skipped.
func (r *Renderer) Render(canvas Canvas, orders []Placeable, selected Placeable, showRoute bool) {
	canvas.Clear()
	canvas.SetPlaceholder("")

	var bound orb.Bound
	drawn := 0
	extend := func(p orb.Point) {
		if drawn == 0 {
			bound = orb.Bound{Min: p, Max: p}
		} else {
			bound = bound.Extend(p)
		}
		drawn++
	}

	for _, order := range orders {
		if order.OriginCity() == "" {
			continue
		}
		origin := r.gazetteer.Resolve(order.OriginCity())
		canvas.AddMarker(Marker{
			OrderKey: order.Key(),
			Kind:     MarkerOrigin,
			Color:    OriginColor,
			Position: origin,
			City:     order.OriginCity(),
			Popup: Popup{
				Title: "Origen: " + order.OriginCity(),
				Lines: []string{"Destino: " + order.DestinationCity(), "ID: #" + order.Key()},
			},
		})
		extend(origin)

		if !showRoute || selected == nil || selected.Key() != order.Key() {
			continue
		}

		dest := r.gazetteer.Resolve(order.DestinationCity())
		canvas.AddMarker(Marker{
			OrderKey: order.Key(),
			Kind:     MarkerDestination,
			Color:    DestinationColor,
			Position: dest,
			City:     order.DestinationCity(),
			Popup: Popup{
				Title: "Destino: " + order.DestinationCity(),
				Lines: []string{"Origen: " + order.OriginCity(), "ID: #" + order.Key()},
			},
		})
		extend(dest)
		canvas.SetRoute(RouteFeature(origin, dest))
	}

	if drawn > 0 {
		canvas.FitBounds(NewViewport(bound, MarkersPadding))
	}
}

// RenderPlaceholder clears the canvas and shows the missing-token message.
func (r *Renderer) RenderPlaceholder(canvas Canvas) {
	canvas.Clear()
	canvas.SetPlaceholder(PlaceholderMessage)
}

// Scene renders onto a fresh Layer and returns its snapshot. An empty token
// yields the placeholder scene.
func (r *Renderer) Scene(token string, orders []Placeable, selected Placeable, showRoute bool) Scene {
	layer := NewLayer()
	if token == "" {
		r.RenderPlaceholder(layer)
	} else {
		r.Render(layer, orders, selected, showRoute)
	}
	return layer.Scene()
}

// RouteFeature is the straight GeoJSON line between origin and destination,
// styled the way the widget's route layer expects.
func RouteFeature(origin, dest orb.Point) *geojson.Feature {
	f := geojson.NewFeature(orb.LineString{origin, dest})
	f.ID = "route"
	f.Properties["line-color"] = RouteColor
	f.Properties["line-width"] = 4
	f.Properties["line-join"] = "round"
	f.Properties["line-cap"] = "round"
	return f
}
