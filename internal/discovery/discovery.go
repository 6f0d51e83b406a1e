// Package discovery produces candidate leads from place searches, B2B
// organization and people searches, and hand-typed records.
package discovery

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/sells-group/lead-cli/internal/config"
	"github.com/sells-group/lead-cli/internal/resilience"
	"github.com/sells-group/lead-cli/pkg/apollo"
	"github.com/sells-group/lead-cli/pkg/google"
)

const (
	// placesPageSize is the fixed number of results per Places page.
	placesPageSize = 20
	// defaultMaxResults applies when the caller asks for zero results.
	defaultMaxResults = 20
	// defaultTargetCount applies to organization/people searches.
	defaultTargetCount = 25
)

// Service runs discovery against the configured providers. A nil provider
// client means its credential is not configured.
type Service struct {
	google   google.Client
	apollo   apollo.Client
	pageSize int
	cfg      config.DiscoveryConfig
	retry    resilience.Policy
	details  *rate.Limiter
}

// Option configures a Service.
type Option func(*Service)

// WithApollo enables organization and people search. pageSize is capped at
// apollo.MaxPageSize.
func WithApollo(c apollo.Client, pageSize int) Option {
	return func(s *Service) {
		s.apollo = c
		if pageSize <= 0 || pageSize > apollo.MaxPageSize {
			pageSize = apollo.MaxPageSize
		}
		s.pageSize = pageSize
	}
}

// WithRetry sets the retry policy applied to every provider call.
func WithRetry(cfg resilience.Policy) Option {
	return func(s *Service) {
		s.retry = cfg
	}
}

// New creates a discovery Service. g may be nil when no Places key is
// configured; place-based operations then fail with a credentials error.
// Unset pacing delays take the config defaults; pacing is never disabled.
func New(g google.Client, cfg config.DiscoveryConfig, opts ...Option) *Service {
	if cfg.MaxPages <= 0 || cfg.MaxPages > 3 {
		cfg.MaxPages = 3
	}
	if cfg.PageTokenDelayMs <= 0 {
		cfg.PageTokenDelayMs = config.MinPageTokenDelayMs
	}
	if cfg.DetailDelayMs <= 0 {
		cfg.DetailDelayMs = config.DefaultDetailDelayMs
	}
	if cfg.BatchDelayMs <= 0 {
		cfg.BatchDelayMs = config.DefaultBatchDelayMs
	}
	s := &Service{
		google:   g,
		pageSize: apollo.MaxPageSize,
		cfg:      cfg,
		retry:    resilience.Once(),
		details:  rate.NewLimiter(rate.Every(ms(cfg.DetailDelayMs)), 1),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

// pause blocks for d or until ctx is done.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
