package discovery

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/lead-cli/pkg/apollo"
)

// mockApollo implements apollo.Client for testing.
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
