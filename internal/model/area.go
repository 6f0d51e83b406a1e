package model

import (
	"github.com/rotisserie/eris"
)

// ShapeType names the kind of SearchArea.
type ShapeType string

const (
	ShapeCircle       ShapeType = "circle"
	ShapeRectangle    ShapeType = "rectangle"
	ShapePolygon      ShapeType = "polygon"
	ShapePolyline     ShapeType = "polyline"
	ShapeMultiPolygon ShapeType = "multipolygon"
)

// LatLng is a WGS84 coordinate.
type LatLng struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Bounds is an axis-aligned rectangle.
type Bounds struct {
	North float64 `json:"north" yaml:"north"`
	South float64 `json:"south" yaml:"south"`
	East  float64 `json:"east" yaml:"east"`
	West  float64 `json:"west" yaml:"west"`
}

// SearchArea is a closed geometric region drawn by the caller. Only the
// members matching Type are read.
type SearchArea struct {
	Type     ShapeType  `json:"type" yaml:"type"`
	Center   *LatLng    `json:"center,omitempty" yaml:"center,omitempty"`
	Radius   float64    `json:"radius,omitempty" yaml:"radius,omitempty"` // meters
	Bounds   *Bounds    `json:"bounds,omitempty" yaml:"bounds,omitempty"`
	Points   []LatLng   `json:"points,omitempty" yaml:"points,omitempty"`
	Polygons [][]LatLng `json:"polygons,omitempty" yaml:"polygons,omitempty"`
}

// Validate checks the shape carries the members its type requires.
func (a SearchArea) Validate() error {
	switch a.Type {
	case ShapeCircle:
		if a.Center == nil {
			return eris.New("area: circle requires a center")
		}
		if a.Radius < 0 {
			return eris.New("area: circle radius must not be negative")
		}
	case ShapeRectangle:
		if a.Bounds == nil {
			return eris.New("area: rectangle requires bounds")
		}
		if a.Bounds.North < a.Bounds.South {
			return eris.New("area: rectangle north must be >= south")
		}
	case ShapePolygon:
		if len(a.Points) < 3 {
			return eris.Errorf("area: polygon requires at least 3 points, got %d", len(a.Points))
		}
	case ShapePolyline:
		if len(a.Points) < 2 {
			return eris.Errorf("area: polyline requires at least 2 points, got %d", len(a.Points))
		}
	case ShapeMultiPolygon:
		if len(a.Polygons) == 0 {
			return eris.New("area: multipolygon requires at least one polygon")
		}
		for i, poly := range a.Polygons {
			if len(poly) < 3 {
				return eris.Errorf("area: multipolygon part %d requires at least 3 points, got %d", i, len(poly))
			}
		}
	default:
		return eris.Errorf("area: unknown shape type %q", a.Type)
	}
	return nil
}

// Parts splits a multipolygon into one polygon area per part. Any other shape
// is returned as a single-element slice.
func (a SearchArea) Parts() []SearchArea {
	if a.Type != ShapeMultiPolygon {
		return []SearchArea{a}
	}
	parts := make([]SearchArea, 0, len(a.Polygons))
	for _, poly := range a.Polygons {
		parts = append(parts, SearchArea{Type: ShapePolygon, Points: poly})
	}
	return parts
}
