// Package geo reduces caller-drawn search areas to the single lookup point a
// place-search provider accepts, and splits result quotas across shapes.
package geo

import (
	"fmt"
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/lead-cli/internal/model"
)

// Geometry converts a search area into a go-geom geometry with X=lng, Y=lat.
// Circles become their center point and rectangles a closed ring.
func Geometry(area model.SearchArea) (geom.T, error) {
	if err := area.Validate(); err != nil {
		return nil, err
	}

	switch area.Type {
	case model.ShapeCircle:
		return geom.NewPointFlat(geom.XY, []float64{area.Center.Lng, area.Center.Lat}), nil

	case model.ShapeRectangle:
		b := area.Bounds
		flat := []float64{
			b.West, b.South,
			b.East, b.South,
			b.East, b.North,
			b.West, b.North,
			b.West, b.South,
		}
		return geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)}), nil

	case model.ShapePolygon:
		flat := flatten(area.Points)
		return geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)}), nil

	case model.ShapePolyline:
		return geom.NewLineStringFlat(geom.XY, flatten(area.Points)), nil

	case model.ShapeMultiPolygon:
		var flat []float64
		endss := make([][]int, 0, len(area.Polygons))
		for _, poly := range area.Polygons {
			flat = append(flat, flatten(poly)...)
			endss = append(endss, []int{len(flat)})
		}
		return geom.NewMultiPolygonFlat(geom.XY, flat, endss), nil
	}

	return nil, eris.Errorf("geo: unsupported shape %q", area.Type)
}

// Center returns the representative lookup point for an area, or nil when the
// area is invalid. Circles use their center, rectangles the midpoint of their
// bounds, and every other shape the arithmetic mean of its vertices. For a
// multipolygon the mean runs over all vertices of all parts, unweighted.
func Center(area model.SearchArea) *model.LatLng {
	if area.Validate() != nil {
		return nil
	}

	switch area.Type {
	case model.ShapeCircle:
		c := *area.Center
		return &c
	case model.ShapeRectangle:
		b := geom.NewBounds(geom.XY).Set(area.Bounds.West, area.Bounds.South, area.Bounds.East, area.Bounds.North)
		return &model.LatLng{
			Lat: (b.Min(1) + b.Max(1)) / 2,
			Lng: (b.Min(0) + b.Max(0)) / 2,
		}
	}

	g, err := Geometry(area)
	if err != nil {
		return nil
	}
	return vertexMean(g)
}

// vertexMean averages every coordinate in the geometry's flat buffer.
func vertexMean(g geom.T) *model.LatLng {
	flat := g.FlatCoords()
	stride := g.Stride()
	if stride == 0 || len(flat) < stride {
		return nil
	}

	n := len(flat) / stride
	var sumX, sumY float64
	for i := 0; i < len(flat); i += stride {
		sumX += flat[i]
		sumY += flat[i+1]
	}
	return &model.LatLng{Lat: sumY / float64(n), Lng: sumX / float64(n)}
}

// SplitQuota divides a result quota evenly across shapes, rounding up so the
// shapes together can always cover the total.
func SplitQuota(total, shapeCount int) int {
	if shapeCount <= 1 {
		return total
	}
	if total <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(shapeCount)))
}

// SearchRadius returns the bias radius in meters for an area: a circle's own
// radius when set, otherwise defaultM, and never more than maxM.
func SearchRadius(area model.SearchArea, defaultM, maxM float64) float64 {
	r := defaultM
	if area.Type == model.ShapeCircle && area.Radius > 0 {
		r = area.Radius
	}
	if maxM > 0 && r > maxM {
		r = maxM
	}
	return r
}

// FormatLatLng renders a coordinate as a short label.
func FormatLatLng(ll model.LatLng) string {
	return fmt.Sprintf("%.4f, %.4f", ll.Lat, ll.Lng)
}

func flatten(points []model.LatLng) []float64 {
	flat := make([]float64, 0, len(points)*2)
	for _, p := range points {
		flat = append(flat, p.Lng, p.Lat)
	}
	return flat
}
