package enrich

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/lead-cli/internal/discovery"
	"github.com/sells-group/lead-cli/internal/model"
)

// ManualResult is an enriched hand-typed record and the lookup strategy
// that located it.
type ManualResult struct {
	Result
	Strategy discovery.Strategy `json:"strategy"`
}

// EnrichManual locates a sparse hand-typed record, overlays the typed
// values on the match and enriches the result. Typed values win every
// merge. It fails only when fields carries no values.
func (s *Service) EnrichManual(ctx context.Context, fields model.HumanFields, mode model.AIMode) (*ManualResult, error) {
	if fields.Empty() {
		return nil, ErrNoFields
	}

	base := model.Lead{Source: model.SourceManual}
	strategy := discovery.StrategyNone

	if s.locator != nil {
		match, err := s.locator.LookupManual(ctx, fields)
		switch {
		case err != nil:
			zap.L().Warn("manual lookup failed", zap.Error(err))
		case match != nil:
			strategy = match.Strategy
			if match.Lead != nil {
				base = match.Lead.Clone()
			}
		}
	}

	for _, f := range model.Fields {
		if v := fields.Get(f); v != "" {
			base.Set(f, v)
		}
	}

	res := s.Enrich(ctx, Request{Lead: base, Human: fields, Mode: mode})
	return &ManualResult{Result: *res, Strategy: strategy}, nil
}
