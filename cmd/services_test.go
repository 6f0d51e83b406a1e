package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-cli/internal/config"
	"github.com/sells-group/lead-cli/internal/discovery"
	"github.com/sells-group/lead-cli/internal/enrich"
	"github.com/sells-group/lead-cli/internal/model"
)

func testConfig() *config.Config {
	c := &config.Config{}
	c.Discovery.MaxPages = 3
	c.Discovery.DefaultRadiusM = 5000
	c.Discovery.MaxRadiusM = 50000
	c.Enrich.MaxConcurrentLeads = 2
	c.Retry.MaxAttempts = 1
	c.Anthropic.Key = "sk-xxxx"
	c.Perplexity.Key = "your-api-key"
	return c
}

func TestInitServices_NoCredentials(t *testing.T) {
	svc := initServices(testConfig())
	ctx := context.Background()

	_, err := svc.Discovery.DiscoverByText(ctx, discovery.TextQuery{Query: "cafe", Location: "Austin"})
	assert.ErrorIs(t, err, model.ErrMissingCredentials)

	res := svc.Enrich.Enrich(ctx, enrich.Request{Lead: model.Lead{CompanyName: "Acme"}})
	require.NotNil(t, res)
	assert.True(t, res.Lead.Verified)
	assert.Equal(t, model.ConfidenceMock, res.Lead.ConfidenceSource)
	assert.GreaterOrEqual(t, res.Lead.AIConfidence, 80)
	assert.LessOrEqual(t, res.Lead.AIConfidence, 99)
	assert.Empty(t, res.Contributed)

	manual, err := svc.Enrich.EnrichManual(ctx, model.HumanFields{model.FieldCompanyName: "Acme"}, model.AIModeBoth)
	require.NoError(t, err)
	assert.Equal(t, discovery.StrategyNone, manual.Strategy)
	assert.Equal(t, "Acme", manual.Lead.CompanyName)

	_, err = svc.Enrich.FindOwner(ctx, enrich.OwnerQuery{CompanyName: "Acme"})
	assert.ErrorIs(t, err, model.ErrMissingCredentials)
}

func TestInitServices_ConfiguredProviderIsUsed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/person/search", r.URL.Path)
		assert.Equal(t, "pdl-live-key", r.Header.Get("X-Api-Key"))
		fmt.Fprint(w, `{"status": 200, "total": 1, "data": [{"full_name": "jane doe", "job_title": "owner"}]}`)
	}))
	defer srv.Close()

	c := testConfig()
	c.PDL.Key = "pdl-live-key"
	c.PDL.BaseURL = srv.URL

	res, err := initServices(c).Enrich.FindOwner(context.Background(), enrich.OwnerQuery{CompanyName: "Acme", City: "Austin"})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", res.Primary.Name)
	assert.Equal(t, "owner", res.Primary.Title)
}
