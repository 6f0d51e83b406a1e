package main

import (
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"github.com/sells-group/lead-cli/internal/config"
	"github.com/sells-group/lead-cli/internal/discovery"
	"github.com/sells-group/lead-cli/internal/enrich"
	"github.com/sells-group/lead-cli/internal/resilience"
	anthropicpkg "github.com/sells-group/lead-cli/pkg/anthropic"
	"github.com/sells-group/lead-cli/pkg/apollo"
	"github.com/sells-group/lead-cli/pkg/google"
	"github.com/sells-group/lead-cli/pkg/hunter"
	"github.com/sells-group/lead-cli/pkg/numverify"
	"github.com/sells-group/lead-cli/pkg/pdl"
	"github.com/sells-group/lead-cli/pkg/perplexity"
	"github.com/sells-group/lead-cli/pkg/yelp"
)

// services holds the discovery and enrichment services shared by every
// command.
type services struct {
	Discovery *discovery.Service
	Enrich    *enrich.Service
}

// initServices builds every provider client whose credential is configured
// and leaves the rest nil, so the services skip them.
func initServices(c *config.Config) *services {
	retry := resilience.FromConfig(c.Retry)

	googleClient := googleClient(c)
	apolloClient := apolloClient(c)

	disc := discovery.New(googleClient, c.Discovery,
		discovery.WithApollo(apolloClient, c.Apollo.PageSize),
		discovery.WithRetry(retry),
	)

	opts := []enrich.Option{
		enrich.WithApollo(apolloClient),
		enrich.WithRetry(retry),
		enrich.WithParallelAI(c.Enrich.ParallelAI),
		enrich.WithMaxConcurrent(c.Enrich.MaxConcurrentLeads),
		enrich.WithLocator(disc),
	}
	if config.IsConfigured(c.PDL.Key) {
		opts = append(opts, enrich.WithPDL(pdl.NewClient(c.PDL.Key, pdl.WithBaseURL(c.PDL.BaseURL))))
	} else {
		logDisabled("pdl")
	}
	if config.IsConfigured(c.Hunter.Key) {
		opts = append(opts, enrich.WithHunter(hunter.NewClient(c.Hunter.Key, hunter.WithBaseURL(c.Hunter.BaseURL))))
	} else {
		logDisabled("hunter")
	}
	if config.IsConfigured(c.Numverify.Key) {
		opts = append(opts, enrich.WithNumverify(numverify.NewClient(c.Numverify.Key, numverify.WithBaseURL(c.Numverify.BaseURL))))
	} else {
		logDisabled("numverify")
	}
	if config.IsConfigured(c.Yelp.Key) {
		opts = append(opts, enrich.WithYelp(yelp.NewClient(c.Yelp.Key, yelp.WithBaseURL(c.Yelp.BaseURL))))
	} else {
		logDisabled("yelp")
	}
	if config.IsConfigured(c.Anthropic.Key) {
		client := anthropicpkg.NewClient(c.Anthropic.Key, option.WithMaxRetries(0))
		opts = append(opts, enrich.WithPrimary(enrich.NewPrimaryAnalyzer(client, c.Anthropic.Model, c.Anthropic.MaxTokens)))
	} else {
		logDisabled("anthropic")
	}
	if config.IsConfigured(c.Perplexity.Key) {
		client := perplexity.NewClient(c.Perplexity.Key,
			perplexity.WithBaseURL(c.Perplexity.BaseURL),
			perplexity.WithModel(c.Perplexity.Model),
		)
		opts = append(opts, enrich.WithSecondary(enrich.NewSecondaryAnalyzer(client)))
	} else {
		logDisabled("perplexity")
	}

	return &services{
		Discovery: disc,
		Enrich:    enrich.New(opts...),
	}
}

// googleClient returns nil when the Places key is not configured.
func googleClient(c *config.Config) google.Client {
	if !config.IsConfigured(c.Google.Key) {
		logDisabled("google")
		return nil
	}
	return google.NewClient(c.Google.Key,
		google.WithBaseURL(c.Google.BaseURL),
		google.WithGeocodeURL(c.Google.GeocodeURL),
	)
}

// apolloClient returns nil when the Apollo key is not configured.
func apolloClient(c *config.Config) apollo.Client {
	if !config.IsConfigured(c.Apollo.Key) {
		logDisabled("apollo")
		return nil
	}
	return apollo.NewClient(c.Apollo.Key, apollo.WithBaseURL(c.Apollo.BaseURL))
}

func logDisabled(provider string) {
	zap.L().Debug("provider key not set, disabled", zap.String("provider", provider))
}
