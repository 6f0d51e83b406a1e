package enrich

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/lead-cli/internal/model"
	"github.com/sells-group/lead-cli/internal/resilience"
)

// Request is one lead to enrich. Human values win the final merge for their
// fields.
type Request struct {
	Lead  model.Lead        `json:"lead"`
	Human model.HumanFields `json:"human,omitempty"`
	Mode  model.AIMode      `json:"aiMode,omitempty"`
}

// Result is the merged lead plus the steps that contributed to it.
type Result struct {
	Lead        model.Lead `json:"lead"`
	Contributed []Step     `json:"contributed"`
}

// Enrich runs every enrichment step against the lead in order and merges
// the outcome. It never fails: a step that errors contributes nothing.
// Human values stay pinned on the working lead, so every step searches with
// what the person typed.
func (s *Service) Enrich(ctx context.Context, req Request) *Result {
	working := req.Lead.Clone()
	working.EnsureID()
	pinHuman(&working, req.Human)

	var contributed []Step
	merged := func(step Step) {
		pinHuman(&working, req.Human)
		contributed = append(contributed, step)
	}

	if o := s.Organization(ctx, working); o != nil {
		mergeOrganization(&working, o)
		merged(StepOrganization)
	}
	if o := s.Owner(ctx, working); o != nil {
		mergeOwner(&working, o)
		merged(StepOwner)
	}
	if e := s.Email(ctx, working); e != nil {
		mergeEmail(&working, e)
		merged(StepEmail)
	}
	if v := s.Phone(ctx, working); v != nil {
		mergePhone(&working, v)
		merged(StepPhone)
	}
	if r := s.Reviews(ctx, working); r != nil && mergeReviews(&working, r) {
		merged(StepReviews)
	}

	mode := req.Mode
	if mode == "" {
		mode = model.AIModeBoth
	}
	primary, secondary := s.analyze(ctx, working, mode)
	if primary != nil {
		contributed = append(contributed, StepPrimaryAI)
	}
	if secondary != nil {
		contributed = append(contributed, StepSecondaryAI)
	}

	final := Merge(working, req.Human, primary, secondary)
	s.assignConfidence(&final, primary, secondary)
	attachSocials(&final)

	zap.L().Info("lead enriched",
		zap.String("lead_id", final.ID),
		zap.String("company", final.CompanyName),
		zap.Any("steps", contributed),
		zap.Int("confidence", final.AIConfidence),
		zap.String("confidence_source", string(final.ConfidenceSource)),
	)
	return &Result{Lead: final, Contributed: contributed}
}

// pinHuman overwrites the lead's fields with every non-empty human value.
func pinHuman(l *model.Lead, h model.HumanFields) {
	for _, f := range model.Fields {
		if v := h.Get(f); v != "" {
			l.Set(f, v)
		}
	}
}

// analyze runs the analyzers the mode selects. Results are returned in
// fixed order whether or not they ran concurrently.
func (s *Service) analyze(ctx context.Context, lead model.Lead, mode model.AIMode) (primary, secondary *Analysis) {
	runPrimary := func() {
		if mode.RunsPrimary() {
			primary = s.runAnalyzer(ctx, StepPrimaryAI, "anthropic", s.primary, lead)
		}
	}
	runSecondary := func() {
		if mode.RunsSecondary() {
			secondary = s.runAnalyzer(ctx, StepSecondaryAI, "perplexity", s.secondary, lead)
		}
	}

	if !s.parallelAI {
		runPrimary()
		runSecondary()
		return primary, secondary
	}

	var g errgroup.Group
	g.Go(func() error { runPrimary(); return nil })
	g.Go(func() error { runSecondary(); return nil })
	_ = g.Wait()
	return primary, secondary
}

func (s *Service) runAnalyzer(ctx context.Context, step Step, provider string, a Analyzer, lead model.Lead) *Analysis {
	return runStep(ctx, step, func(ctx context.Context) (*Analysis, error) {
		if a == nil {
			skipUnconfigured(step)
			return nil, nil
		}
		return resilience.DoVal(ctx, s.retryFor(provider, "analyze"), func(ctx context.Context) (*Analysis, error) {
			return a.Analyze(ctx, lead)
		})
	})
}

// EnrichBatch enriches leads concurrently, at most maxConcurrent at a time.
// Results keep the input order. Leads not started before ctx is done are
// returned unenriched.
func (s *Service) EnrichBatch(ctx context.Context, leads []model.Lead, mode model.AIMode) []*Result {
	results := make([]*Result, len(leads))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for i := range leads {
		g.Go(func() error {
			if gCtx.Err() != nil {
				l := leads[i].Clone()
				l.EnsureID()
				results[i] = &Result{Lead: l}
				return nil
			}
			results[i] = s.Enrich(gCtx, Request{Lead: leads[i], Mode: mode})
			return nil
		})
	}
	_ = g.Wait()

	zap.L().Info("batch enrichment complete", zap.Int("leads", len(leads)))
	return results
}
