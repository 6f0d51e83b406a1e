package enrich

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/lead-cli/internal/discovery"
	"github.com/sells-group/lead-cli/internal/model"
	"github.com/sells-group/lead-cli/pkg/apollo"
	"github.com/sells-group/lead-cli/pkg/hunter"
	"github.com/sells-group/lead-cli/pkg/numverify"
	"github.com/sells-group/lead-cli/pkg/pdl"
	"github.com/sells-group/lead-cli/pkg/yelp"
)

type mockApollo struct {
	mock.Mock
}

func (m *mockApollo) SearchOrganizations(ctx context.Context, req apollo.OrganizationSearchRequest) (*apollo.OrganizationSearchResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apollo.OrganizationSearchResponse), args.Error(1)
}

func (m *mockApollo) SearchPeople(ctx context.Context, req apollo.PeopleSearchRequest) (*apollo.PeopleSearchResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apollo.PeopleSearchResponse), args.Error(1)
}

func (m *mockApollo) EnrichOrganization(ctx context.Context, domain string) (*apollo.Organization, error) {
	args := m.Called(ctx, domain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apollo.Organization), args.Error(1)
}

type mockPDL struct {
	mock.Mock
}

func (m *mockPDL) SearchPeople(ctx context.Context, req pdl.SearchRequest) (*pdl.SearchResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pdl.SearchResponse), args.Error(1)
}

type mockHunter struct {
	mock.Mock
}

func (m *mockHunter) DomainSearch(ctx context.Context, domain string) (*hunter.DomainSearchResult, error) {
	args := m.Called(ctx, domain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hunter.DomainSearchResult), args.Error(1)
}

type mockNumverify struct {
	mock.Mock
}

func (m *mockNumverify) Validate(ctx context.Context, number string) (*numverify.Validation, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*numverify.Validation), args.Error(1)
}

type mockYelp struct {
	mock.Mock
}

func (m *mockYelp) Match(ctx context.Context, req yelp.MatchRequest) ([]yelp.Business, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]yelp.Business), args.Error(1)
}

func (m *mockYelp) SearchPhone(ctx context.Context, phone string) ([]yelp.Business, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]yelp.Business), args.Error(1)
}

func (m *mockYelp) Details(ctx context.Context, id string) (*yelp.Business, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*yelp.Business), args.Error(1)
}

type mockAnalyzer struct {
	mock.Mock
}

func (m *mockAnalyzer) Analyze(ctx context.Context, lead model.Lead) (*Analysis, error) {
	args := m.Called(ctx, lead)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Analysis), args.Error(1)
}

type mockLocator struct {
	mock.Mock
}

func (m *mockLocator) LookupManual(ctx context.Context, fields model.HumanFields) (*discovery.ManualMatch, error) {
	args := m.Called(ctx, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discovery.ManualMatch), args.Error(1)
}

// panicAnalyzer fails by panicking.
type panicAnalyzer struct{}

func (panicAnalyzer) Analyze(context.Context, model.Lead) (*Analysis, error) {
	panic("analyzer exploded")
}

// fixedRand makes the demo confidence deterministic.
func fixedRand(v int) Option {
	return WithRand(func(int) int { return v })
}
