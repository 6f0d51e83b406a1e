package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/lead-cli/internal/geo"
	"github.com/sells-group/lead-cli/internal/model"
)

// readInput returns the contents of path, or stdin when path is "-".
func readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return data, eris.Wrap(err, "read stdin")
	}
	data, err := os.ReadFile(path)
	return data, eris.Wrapf(err, "read %s", path)
}

// yamlToJSON re-encodes a YAML (or JSON) document as JSON so it can be
// decoded with the json tags the model types carry.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "decode yaml")
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, eris.Wrap(err, "encode json")
	}
	return out, nil
}

// decodeLeads parses a YAML or JSON document holding either a list of leads
// or an object with a "leads" list.
func decodeLeads(data []byte) ([]model.Lead, error) {
	raw, err := yamlToJSON(data)
	if err != nil {
		return nil, err
	}

	var leads []model.Lead
	if err := json.Unmarshal(raw, &leads); err == nil {
		return leads, nil
	}

	var wrapped struct {
		Leads []model.Lead `json:"leads"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, eris.Wrap(err, "decode leads")
	}
	if wrapped.Leads == nil {
		return nil, eris.New("decode leads: expected a list or a \"leads\" key")
	}
	return wrapped.Leads, nil
}

// decodeArea parses either a native search area (type circle, rectangle,
// polygon, polyline or multipolygon) or a GeoJSON geometry or Feature.
// GeoJSON points become circles of radiusM meters.
func decodeArea(data []byte, radiusM float64) (model.SearchArea, error) {
	raw, err := yamlToJSON(data)
	if err != nil {
		return model.SearchArea{}, err
	}

	var peek struct {
		Type model.ShapeType `json:"type"`
	}
	if err := json.Unmarshal(raw, &peek); err != nil {
		return model.SearchArea{}, eris.Wrap(err, "decode area")
	}

	switch peek.Type {
	case model.ShapeCircle, model.ShapeRectangle, model.ShapePolygon, model.ShapePolyline, model.ShapeMultiPolygon:
		var area model.SearchArea
		if err := json.Unmarshal(raw, &area); err != nil {
			return model.SearchArea{}, eris.Wrap(err, "decode area")
		}
		return area, nil
	}
	return geo.FromGeoJSON(raw, radiusM)
}

// parseHumanFields turns key=value flag pairs into typed human fields,
// rejecting names that are not mergeable lead fields.
func parseHumanFields(pairs map[string]string) (model.HumanFields, error) {
	known := make(map[model.Field]bool, len(model.Fields))
	for _, f := range model.Fields {
		known[f] = true
	}

	out := make(model.HumanFields, len(pairs))
	for k, v := range pairs {
		f := model.Field(k)
		if !known[f] {
			return nil, eris.Wrapf(model.ErrInvalidRequest, "unknown field %q", k)
		}
		out[f] = v
	}
	return out, nil
}
