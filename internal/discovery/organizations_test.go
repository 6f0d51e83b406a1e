package discovery

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-cli/internal/model"
	"github.com/sells-group/lead-cli/pkg/apollo"
)

func orgs(n int, prefix string) []apollo.Organization {
	out := make([]apollo.Organization, n)
	for i := range out {
		out[i] = apollo.Organization{ID: prefix, Name: prefix}
	}
	return out
}

func TestPaginate(t *testing.T) {
	page := func(n int) []int { return make([]int, n) }

	tests := []struct {
		name      string
		target    int
		pageSize  int
		pages     map[int][]int
		errs      map[int]error
		wantLen   int
		wantCalls int
		wantErr   bool
	}{
		{"single_page", 5, 10, map[int][]int{1: page(10)}, nil, 5, 1, false},
		{"ceil_pages", 25, 10, map[int][]int{1: page(10), 2: page(10), 3: page(10)}, nil, 25, 3, false},
		{"short_page_stops", 30, 10, map[int][]int{1: page(10), 2: page(4), 3: page(10)}, nil, 14, 2, false},
		{"first_page_error", 30, 10, nil, map[int]error{1: errors.New("boom")}, 0, 1, true},
		{"later_page_error_partial", 30, 10, map[int][]int{1: page(10)}, map[int]error{2: errors.New("boom")}, 10, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			got, err := paginate(context.Background(), tt.target, tt.pageSize, 0, func(_ context.Context, p int) ([]int, error) {
				calls++
				if err := tt.errs[p]; err != nil {
					return nil, err
				}
				return tt.pages[p], nil
			})

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestSearchOrganizations_MissingCredentials(t *testing.T) {
	svc := New(nil, testConfig())
	_, err := svc.SearchOrganizations(context.Background(), OrganizationFilters{Keyword: "hvac"})
	assert.ErrorIs(t, err, model.ErrMissingCredentials)

	_, err = svc.SearchPeople(context.Background(), PeopleFilters{Keyword: "hvac"})
	assert.ErrorIs(t, err, model.ErrMissingCredentials)
}

func TestSearchOrganizations_KeywordAndNameExclusive(t *testing.T) {
	a := &mockApollo{}
	svc := New(nil, testConfig(), WithApollo(a, 25))

	_, err := svc.SearchOrganizations(context.Background(), OrganizationFilters{Keyword: "hvac", CompanyName: "Acme"})
	assert.ErrorIs(t, err, model.ErrInvalidRequest)
	a.AssertNotCalled(t, "SearchOrganizations", mock.Anything, mock.Anything)
}

func TestSearchOrganizations_PagesAndTranslatesFilters(t *testing.T) {
	a := &mockApollo{}
	a.On("SearchOrganizations", mock.Anything, mock.MatchedBy(func(r apollo.OrganizationSearchRequest) bool {
		return r.Page == 1 && r.PerPage == 2 && r.KeywordTags[0] == "hvac" &&
			r.Revenue != nil && r.Revenue.Min == 1_000_000 && r.Locations[0] == "Texas"
	})).Return(&apollo.OrganizationSearchResponse{Organizations: orgs(2, "one")}, nil).Once()
	a.On("SearchOrganizations", mock.Anything, mock.MatchedBy(func(r apollo.OrganizationSearchRequest) bool {
		return r.Page == 2
	})).Return(&apollo.OrganizationSearchResponse{Organizations: orgs(2, "two")}, nil).Once()

	svc := New(nil, testConfig(), WithApollo(a, 2))
	leads, err := svc.SearchOrganizations(context.Background(), OrganizationFilters{
		Keyword:     "hvac",
		Locations:   []string{"Texas"},
		RevenueMin:  1_000_000,
		TargetCount: 3,
	})

	require.NoError(t, err)
	require.Len(t, leads, 3)
	assert.Equal(t, "two", leads[2].CompanyName)
	assert.Equal(t, model.SourceOrganizationSearch, leads[0].Source)
	a.AssertExpectations(t)
}

func TestSearchOrganizations_NameFallsBackToKeyword(t *testing.T) {
	a := &mockApollo{}
	a.On("SearchOrganizations", mock.Anything, mock.MatchedBy(func(r apollo.OrganizationSearchRequest) bool {
		return r.Name == "Acme Plumbing" && len(r.KeywordTags) == 0
	})).Return(&apollo.OrganizationSearchResponse{}, nil).Once()
	a.On("SearchOrganizations", mock.Anything, mock.MatchedBy(func(r apollo.OrganizationSearchRequest) bool {
		return r.Name == "" && len(r.KeywordTags) == 1 && r.KeywordTags[0] == "Acme Plumbing"
	})).Return(&apollo.OrganizationSearchResponse{Accounts: []apollo.Organization{{
		ID:                    "org-1",
		Name:                  "Acme Plumbing Co",
		PrimaryDomain:         "acmeplumbing.com",
		PrimaryPhone:          &apollo.PhoneNumber{Number: "+1 512-555-0199"},
		Industry:              "construction",
		EstimatedNumEmployees: 42,
		City:                  "Austin",
		State:                 "Texas",
		LinkedInURL:           "https://www.linkedin.com/company/acme-plumbing",
	}}}, nil).Once()

	svc := New(nil, testConfig(), WithApollo(a, 25))
	leads, err := svc.SearchOrganizations(context.Background(), OrganizationFilters{CompanyName: "Acme Plumbing", TargetCount: 1})

	require.NoError(t, err)
	require.Len(t, leads, 1)
	l := leads[0]
	assert.Equal(t, "org-1", l.OrganizationID)
	assert.Equal(t, "https://acmeplumbing.com", l.Website)
	assert.Equal(t, "+1 512-555-0199", l.Phone)
	assert.Equal(t, "42", l.EmployeeCount)
	assert.Equal(t, model.NA, l.Zipcode)
	assert.Equal(t, "https://www.linkedin.com/company/acme-plumbing", l.SocialMedia.LinkedIn)
	a.AssertExpectations(t)
}

func TestSearchPeople_MapsNestedOrganization(t *testing.T) {
	a := &mockApollo{}
	a.On("SearchPeople", mock.Anything, mock.MatchedBy(func(r apollo.PeopleSearchRequest) bool {
		return r.Titles[0] == "owner" && r.Page == 1
	})).Return(&apollo.PeopleSearchResponse{People: []apollo.Person{{
		ID:             "person-1",
		FirstName:      "Jane",
		LastName:       "Doe",
		Title:          "Owner",
		Email:          "email_not_unlocked@domain.com",
		PersonalEmails: []string{"jane@gmail.com"},
		PhoneNumbers:   []apollo.PhoneNumber{{SanitizedNumber: "+15125550101"}},
		City:           "Austin",
		Organization:   &apollo.Organization{Name: "Acme", WebsiteURL: "https://acme.io", State: "Texas"},
	}}}, nil).Once()

	svc := New(nil, testConfig(), WithApollo(a, 25))
	leads, err := svc.SearchPeople(context.Background(), PeopleFilters{Titles: []string{"owner"}, TargetCount: 5})

	require.NoError(t, err)
	require.Len(t, leads, 1)
	l := leads[0]
	assert.Equal(t, model.SourcePeopleSearch, l.Source)
	assert.Equal(t, "person-1", l.PersonID)
	assert.Equal(t, "Jane Doe", l.OwnerName)
	assert.Equal(t, "Owner", l.OwnerTitle)
	assert.Equal(t, "jane@gmail.com", l.Email)
	assert.Equal(t, "+15125550101", l.Phone)
	assert.Equal(t, "Acme", l.CompanyName)
	assert.Equal(t, "Austin", l.City)
	assert.Equal(t, "Texas", l.State)
	a.AssertExpectations(t)
}

func TestSearchPeople_FirstPageErrorFails(t *testing.T) {
	a := &mockApollo{}
	a.On("SearchPeople", mock.Anything, mock.Anything).Return(nil, errors.New("apollo: unexpected status 401")).Once()

	svc := New(nil, testConfig(), WithApollo(a, 25))
	_, err := svc.SearchPeople(context.Background(), PeopleFilters{Keyword: "dentist"})
	assert.Error(t, err)
}

func TestWithApollo_CapsPageSize(t *testing.T) {
	svc := New(nil, testConfig(), WithApollo(&mockApollo{}, 500))
	assert.Equal(t, apollo.MaxPageSize, svc.pageSize)
}
