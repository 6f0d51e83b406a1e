// Package enrich runs the per-lead enrichment pipeline: point lookups against
// B2B, people, email, phone and review providers, two AI analyses, and the
// typed merge that produces the final lead.
package enrich

import (
	"context"
	"math/rand/v2"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-cli/internal/discovery"
	"github.com/sells-group/lead-cli/internal/model"
	"github.com/sells-group/lead-cli/internal/resilience"
	"github.com/sells-group/lead-cli/pkg/apollo"
	"github.com/sells-group/lead-cli/pkg/hunter"
	"github.com/sells-group/lead-cli/pkg/numverify"
	"github.com/sells-group/lead-cli/pkg/pdl"
	"github.com/sells-group/lead-cli/pkg/yelp"
)

// ErrNoFields rejects a manual entry that carries no values.
var ErrNoFields = eris.Wrap(model.ErrInvalidRequest, "enrich: no fields provided")

// Step names one stage of the pipeline.
type Step string

const (
	StepOrganization Step = "organization"
	StepOwner        Step = "owner"
	StepEmail        Step = "email"
	StepPhone        Step = "phone"
	StepReviews      Step = "reviews"
	StepPrimaryAI    Step = "primary_ai"
	StepSecondaryAI  Step = "secondary_ai"
)

// Locator finds a place for a hand-typed record.
type Locator interface {
	LookupManual(ctx context.Context, fields model.HumanFields) (*discovery.ManualMatch, error)
}

// Service is the enrichment orchestrator. Every provider is optional; a nil
// client or analyzer means its credential is not configured.
type Service struct {
	apollo    apollo.Client
	pdl       pdl.Client
	hunter    hunter.Client
	numverify numverify.Client
	yelp      yelp.Client
	primary   Analyzer
	secondary Analyzer
	locator   Locator

	retry         resilience.Policy
	parallelAI    bool
	maxConcurrent int
	intn          func(n int) int
}

// Option configures a Service.
type Option func(*Service)

// WithApollo enables organization enrichment.
func WithApollo(c apollo.Client) Option { return func(s *Service) { s.apollo = c } }

// WithPDL enables owner search.
func WithPDL(c pdl.Client) Option { return func(s *Service) { s.pdl = c } }

// WithHunter enables the email finder.
func WithHunter(c hunter.Client) Option { return func(s *Service) { s.hunter = c } }

// WithNumverify enables phone validation.
func WithNumverify(c numverify.Client) Option { return func(s *Service) { s.numverify = c } }

// WithYelp enables the review-site matcher.
func WithYelp(c yelp.Client) Option { return func(s *Service) { s.yelp = c } }

// WithPrimary sets the primary AI analyzer.
func WithPrimary(a Analyzer) Option { return func(s *Service) { s.primary = a } }

// WithSecondary sets the secondary AI analyzer.
func WithSecondary(a Analyzer) Option { return func(s *Service) { s.secondary = a } }

// WithLocator sets the place lookup used by EnrichManual.
func WithLocator(l Locator) Option { return func(s *Service) { s.locator = l } }

// WithRetry sets the retry policy applied to every provider call.
func WithRetry(cfg resilience.Policy) Option { return func(s *Service) { s.retry = cfg } }

// WithParallelAI runs the two analyzers concurrently. Merge order is
// unchanged.
func WithParallelAI(on bool) Option { return func(s *Service) { s.parallelAI = on } }

// WithMaxConcurrent bounds how many leads EnrichBatch processes at once.
func WithMaxConcurrent(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxConcurrent = n
		}
	}
}

// WithRand replaces the source of the demo confidence value. intn must
// return a value in [0, n).
func WithRand(intn func(n int) int) Option { return func(s *Service) { s.intn = intn } }

// New creates an enrichment Service.
func New(opts ...Option) *Service {
	s := &Service{
		retry:         resilience.Once(),
		maxConcurrent: 5,
		intn:          rand.IntN,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) retryFor(provider, operation string) resilience.Policy {
	cfg := s.retry
	if cfg.OnRetry == nil {
		cfg.OnRetry = resilience.Logger(provider, operation)
	}
	return cfg
}

// runStep calls fn and converts any error or panic into a nil result.
func runStep[T any](ctx context.Context, step Step, fn func(ctx context.Context) (*T, error)) (out *T) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Warn("enrichment step panicked", zap.String("step", string(step)), zap.Any("panic", r))
			out = nil
		}
	}()

	v, err := fn(ctx)
	if err != nil {
		zap.L().Warn("enrichment step failed", zap.String("step", string(step)), zap.Error(err))
		return nil
	}
	return v
}

func skipUnconfigured(step Step) {
	zap.L().Debug("enrichment step skipped: credentials not configured", zap.String("step", string(step)))
}
