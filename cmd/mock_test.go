package main

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/lead-cli/internal/discovery"
	"github.com/sells-group/lead-cli/internal/enrich"
	"github.com/sells-group/lead-cli/internal/model"
)

type mockDiscoverer struct {
	mock.Mock
}

func (m *mockDiscoverer) DiscoverByText(ctx context.Context, q discovery.TextQuery) ([]model.Lead, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Lead), args.Error(1)
}

func (m *mockDiscoverer) DiscoverByArea(ctx context.Context, q discovery.AreaQuery) (*discovery.AreaResult, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discovery.AreaResult), args.Error(1)
}

func (m *mockDiscoverer) SearchOrganizations(ctx context.Context, f discovery.OrganizationFilters) ([]model.Lead, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Lead), args.Error(1)
}

func (m *mockDiscoverer) SearchPeople(ctx context.Context, f discovery.PeopleFilters) ([]model.Lead, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Lead), args.Error(1)
}

type mockEnricher struct {
	mock.Mock
}

func (m *mockEnricher) Enrich(ctx context.Context, req enrich.Request) *enrich.Result {
	args := m.Called(ctx, req)
	return args.Get(0).(*enrich.Result)
}

func (m *mockEnricher) EnrichBatch(ctx context.Context, leads []model.Lead, mode model.AIMode) []*enrich.Result {
	args := m.Called(ctx, leads, mode)
	return args.Get(0).([]*enrich.Result)
}

func (m *mockEnricher) EnrichManual(ctx context.Context, fields model.HumanFields, mode model.AIMode) (*enrich.ManualResult, error) {
	args := m.Called(ctx, fields, mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*enrich.ManualResult), args.Error(1)
}

func (m *mockEnricher) FindOwner(ctx context.Context, q enrich.OwnerQuery) (*enrich.OwnerResult, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*enrich.OwnerResult), args.Error(1)
}
