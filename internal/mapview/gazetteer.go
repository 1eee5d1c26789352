// Package mapview computes what the dashboard map widget draws: city markers,
// the fitted viewport and the highlighted route of a selected order.
package mapview

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/paulmach/orb"
	"gopkg.in/yaml.v3"
)

// DefaultPoint is where cities missing from the gazetteer are placed (centre of Argentina).
var DefaultPoint = orb.Point{-63.6167, -38.4161}

// ArgentinaBounds is the initial viewport of the map.
var ArgentinaBounds = orb.Bound{
	Min: orb.Point{-73.5605, -55.0576},
	Max: orb.Point{-53.6372, -21.7812},
}

var builtinCities = map[string]orb.Point{
	"Buenos Aires":  {-58.3816, -34.6037},
	"Córdoba":       {-64.1888, -31.4201},
	"Rosario":       {-60.6505, -32.9442},
	"Mendoza":       {-68.8272, -32.8908},
	"Mar del Plata": {-57.5426, -38.0174},
	"La Plata":      {-57.9535, -34.9214},
	"Neuquén":       {-68.0591, -38.9516},
	"Bahía Blanca":  {-62.2724, -38.7196},
}

// Gazetteer resolves city names to coordinates from a fixed table.
// It is not a geocoder.
type Gazetteer struct {
	cities   map[string]orb.Point
	fallback orb.Point
}

// gazetteerFile is the YAML override format:
//
//	default: [-63.6167, -38.4161]
//	cities:
//	  Salta: [-65.4117, -24.7821]
type gazetteerFile struct {
	Default []float64            `yaml:"default"`
	Cities  map[string][]float64 `yaml:"cities"`
}

// DefaultGazetteer returns the built-in city table.
func DefaultGazetteer() *Gazetteer {
	cities := make(map[string]orb.Point, len(builtinCities))
	for name, p := range builtinCities {
		cities[name] = p
	}
	return &Gazetteer{cities: cities, fallback: DefaultPoint}
}

// LoadGazetteer returns the built-in table merged with the YAML file at path.
// A missing file is not an error.
func LoadGazetteer(path string) (*Gazetteer, error) {
	g := DefaultGazetteer()
	if path == "" {
		return g, nil
	}
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return g, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening cities file: %w", err)
	}
	defer file.Close()

	if err := g.Merge(file); err != nil {
		return nil, fmt.Errorf("loading cities file %s: %w", path, err)
	}
	return g, nil
}

// Merge overlays the cities read from a YAML document.
func (g *Gazetteer) Merge(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	var raw gazetteerFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}

	if raw.Default != nil {
		p, err := toPoint(raw.Default)
		if err != nil {
			return fmt.Errorf("default: %w", err)
		}
		g.fallback = p
	}
	for name, coords := range raw.Cities {
		p, err := toPoint(coords)
		if err != nil {
			return fmt.Errorf("city %q: %w", name, err)
		}
		g.cities[name] = p
	}
	return nil
}

func toPoint(coords []float64) (orb.Point, error) {
	if len(coords) != 2 {
		return orb.Point{}, fmt.Errorf("expected [lng, lat], got %d values", len(coords))
	}
	lng, lat := coords[0], coords[1]
	if lng < -180 || lng > 180 || lat < -90 || lat > 90 {
		return orb.Point{}, fmt.Errorf("coordinates out of range: [%v, %v]", lng, lat)
	}
	return orb.Point{lng, lat}, nil
}

// Lookup returns the coordinates of a known city.
func (g *Gazetteer) Lookup(city string) (orb.Point, bool) {
	p, ok := g.cities[city]
	return p, ok
}

// Resolve returns the coordinates of city, or the fallback point when unknown.
func (g *Gazetteer) Resolve(city string) orb.Point {
	if p, ok := g.cities[city]; ok {
		return p
	}
	return g.fallback
}

// Cities lists the known city names, sorted.
func (g *Gazetteer) Cities() []string {
	names := make([]string, 0, len(g.cities))
	for name := range g.cities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
