package geo

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/lead-cli/internal/model"
)

// FromGeoJSON decodes a GeoJSON geometry or Feature into a search area.
// Points become circles of radiusM meters.
func FromGeoJSON(data []byte, radiusM float64) (model.SearchArea, error) {
	var peek struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &peek); err != nil {
		return model.SearchArea{}, eris.Wrap(err, "geo: decode geojson")
	}

	var g geom.T
	if peek.Type == "Feature" {
		var f geojson.Feature
		if err := json.Unmarshal(data, &f); err != nil {
			return model.SearchArea{}, eris.Wrap(err, "geo: decode geojson feature")
		}
		if r, ok := f.Properties["radius"].(float64); ok && r > 0 {
			radiusM = r
		}
		g = f.Geometry
	} else if err := geojson.Unmarshal(data, &g); err != nil {
		return model.SearchArea{}, eris.Wrap(err, "geo: decode geojson geometry")
	}

	return FromGeometry(g, radiusM)
}

// FromGeometry converts a go-geom geometry (X=lng, Y=lat) into a search area.
// Closed polygon rings lose their repeated closing vertex so the vertex mean
// is not skewed toward the first point.
func FromGeometry(g geom.T, radiusM float64) (model.SearchArea, error) {
	switch t := g.(type) {
	case *geom.Point:
		return model.SearchArea{
			Type:   model.ShapeCircle,
			Center: &model.LatLng{Lat: t.Y(), Lng: t.X()},
			Radius: radiusM,
		}, nil

	case *geom.LineString:
		return model.SearchArea{
			Type:   model.ShapePolyline,
			Points: toLatLngs(t.Coords()),
		}, nil

	case *geom.Polygon:
		if t.NumLinearRings() == 0 {
			return model.SearchArea{}, eris.New("geo: polygon has no rings")
		}
		return model.SearchArea{
			Type:   model.ShapePolygon,
			Points: openRing(toLatLngs(t.LinearRing(0).Coords())),
		}, nil

	case *geom.MultiPolygon:
		polys := make([][]model.LatLng, 0, t.NumPolygons())
		for i := 0; i < t.NumPolygons(); i++ {
			p := t.Polygon(i)
			if p.NumLinearRings() == 0 {
				continue
			}
			polys = append(polys, openRing(toLatLngs(p.LinearRing(0).Coords())))
		}
		return model.SearchArea{Type: model.ShapeMultiPolygon, Polygons: polys}, nil

	case nil:
		return model.SearchArea{}, eris.New("geo: empty geometry")
	}

	return model.SearchArea{}, eris.Errorf("geo: unsupported geometry %T", g)
}

func toLatLngs(coords []geom.Coord) []model.LatLng {
	out := make([]model.LatLng, 0, len(coords))
	for _, c := range coords {
		out = append(out, model.LatLng{Lat: c.Y(), Lng: c.X()})
	}
	return out
}

func openRing(points []model.LatLng) []model.LatLng {
	if n := len(points); n > 1 && points[0] == points[n-1] {
		return points[:n-1]
	}
	return points
}
