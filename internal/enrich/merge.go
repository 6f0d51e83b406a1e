package enrich

import (
	"github.com/sells-group/lead-cli/internal/model"
)

const (
	confidenceBoth   = 100
	confidenceSingle = 50
	mockFloor        = 80
	mockSpan         = 20
)

// aiFields are the fields an Analysis can supply.
var aiFields = map[model.Field]bool{
	model.FieldOwnerName:       true,
	model.FieldIndustry:        true,
	model.FieldEmployeeCount:   true,
	model.FieldRevenue:         true,
	model.FieldBusinessDetails: true,
}

// Merge resolves every field of the working lead in precedence order:
// human value, primary analysis, secondary analysis, enrichment value, N/A.
// Either analysis may be nil.
func Merge(working model.Lead, human model.HumanFields, primary, secondary *Analysis) model.Lead {
	out := working.Clone()
	out.FieldSources = make(map[model.Field]model.FieldSource, len(model.Fields))

	for _, f := range model.Fields {
		v, src := resolve(f, working.Get(f), human, primary, secondary)
		out.Set(f, v)
		out.FieldSources[f] = src
	}
	return out
}

func resolve(f model.Field, enriched string, human model.HumanFields, primary, secondary *Analysis) (string, model.FieldSource) {
	if v := human.Get(f); v != "" {
		return v, model.FromHuman
	}
	if aiFields[f] {
		p, s := aiValue(primary, f), aiValue(secondary, f)
		if f == model.FieldBusinessDetails && p != "" && s != "" {
			return "[" + model.AISourcePrimary + "] " + p + "\n\n[" + model.AISourceSecondary + "] " + s, model.FromBothAI
		}
		if p != "" {
			return p, model.FromPrimaryAI
		}
		if s != "" {
			return s, model.FromSecondary
		}
	}
	if model.HasValue(enriched) {
		return model.OrNA(enriched), model.FromEnrichment
	}
	return model.NA, model.FromNA
}

func aiValue(a *Analysis, f model.Field) string {
	v := a.Value(f)
	if !model.HasValue(v) {
		return ""
	}
	return model.OrNA(v)
}

// assignConfidence stamps the score and label from which analyses returned.
// With neither, the lead gets a demo score marked ConfidenceMock.
func (s *Service) assignConfidence(l *model.Lead, primary, secondary *Analysis) {
	switch {
	case primary != nil && secondary != nil:
		l.AIConfidence = confidenceBoth
		l.AISource = model.AISourceBoth
		l.ConfidenceSource = model.ConfidenceBoth
	case primary != nil:
		l.AIConfidence = confidenceSingle
		l.AISource = model.AISourcePrimary
		l.ConfidenceSource = model.ConfidencePrimary
	case secondary != nil:
		l.AIConfidence = confidenceSingle
		l.AISource = model.AISourceSecondary
		l.ConfidenceSource = model.ConfidenceSecondary
	default:
		l.AIConfidence = mockFloor + s.intn(mockSpan)
		l.AISource = model.AISourceMock
		l.ConfidenceSource = model.ConfidenceMock
	}
	l.Verified = true
}
