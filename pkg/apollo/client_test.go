package apollo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-cli/internal/resilience"
)

func TestSearchOrganizations_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/mixed_companies/search", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))

		var body OrganizationSearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"hvac"}, body.KeywordTags)
		assert.Equal(t, []string{"Austin, TX"}, body.Locations)
		assert.Equal(t, []string{"1,10", "11,50"}, body.EmployeeRanges)
		require.NotNil(t, body.Revenue)
		assert.Equal(t, int64(1_000_000), body.Revenue.Min)
		assert.Equal(t, 2, body.Page)
		assert.Equal(t, 100, body.PerPage, "per_page is clamped to the provider maximum")

		fmt.Fprint(w, `{
			"accounts": [{"id": "acc-1", "name": "Saved Co"}],
			"organizations": [{
				"id": "org-1",
				"name": "Cool Air HVAC",
				"primary_domain": "coolair.com",
				"primary_phone": {"number": "+1 512-555-0100", "sanitized_number": "+15125550100"},
				"industry": "construction",
				"estimated_num_employees": 24,
				"annual_revenue_printed": "3.2M",
				"raw_address": "100 Main St, Austin, TX 78701",
				"city": "Austin", "state": "Texas", "country": "United States", "postal_code": "78701"
			}],
			"pagination": {"page": 2, "per_page": 100, "total_entries": 102, "total_pages": 2}
		}`)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	resp, err := client.SearchOrganizations(context.Background(), OrganizationSearchRequest{
		KeywordTags:    []string{"hvac"},
		Locations:      []string{"Austin, TX"},
		EmployeeRanges: []string{"1,10", "11,50"},
		Revenue:        &RevenueRange{Min: 1_000_000},
		Page:           2,
		PerPage:        500,
	})

	require.NoError(t, err)
	all := resp.All()
	require.Len(t, all, 2)
	assert.Equal(t, "acc-1", all[0].ID)

	org := all[1]
	assert.Equal(t, "+1 512-555-0100", org.BestPhone())
	assert.Equal(t, "https://coolair.com", org.Website())
	assert.Equal(t, "100 Main St, Austin, TX 78701", org.Address())
	assert.Equal(t, 24, org.EstimatedNumEmployees)
	assert.Equal(t, 2, resp.Pagination.TotalPages)
}

func TestSearchOrganizations_NameAndKeywordsExclusive(t *testing.T) {
	client := NewClient("test-key", WithBaseURL("http://127.0.0.1:0"))
	_, err := client.SearchOrganizations(context.Background(), OrganizationSearchRequest{
		Name:        "Acme",
		KeywordTags: []string{"acme"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestSearchPeople_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/mixed_people/search", r.URL.Path)

		var body PeopleSearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Acme", body.OrganizationName)
		assert.Equal(t, []string{"owner", "founder"}, body.Seniorities)
		assert.Equal(t, 1, body.Page)

		fmt.Fprint(w, `{
			"people": [{
				"id": "p-1",
				"first_name": "Jane", "last_name": "Doe",
				"title": "Owner",
				"email": "email_not_unlocked@domain.com",
				"personal_emails": ["jane@gmail.com"],
				"phone_numbers": [{"raw_number": "", "sanitized_number": ""}, {"raw_number": "(512) 555-0101"}],
				"organization": {"id": "org-1", "name": "Acme", "website_url": "https://acme.io"}
			}],
			"pagination": {"page": 1, "per_page": 25, "total_entries": 1, "total_pages": 1}
		}`)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	resp, err := client.SearchPeople(context.Background(), PeopleSearchRequest{
		OrganizationName: "Acme",
		Seniorities:      []string{"owner", "founder"},
		PerPage:          25,
	})

	require.NoError(t, err)
	require.Len(t, resp.All(), 1)
	p := resp.All()[0]
	assert.Equal(t, "Jane Doe", p.FullName())
	assert.Equal(t, "jane@gmail.com", p.BestEmail())
	assert.Equal(t, "(512) 555-0101", p.BestPhone())
	require.NotNil(t, p.Organization)
	assert.Equal(t, "https://acme.io", p.Organization.Website())
}

func TestEnrichOrganization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/organizations/enrich", r.URL.Path)
		assert.Equal(t, "acme.io", r.URL.Query().Get("domain"))
		fmt.Fprint(w, `{"organization": {"id": "org-1", "name": "Acme", "industry": "software", "phone": "512-555-0100"}}`)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	org, err := client.EnrichOrganization(context.Background(), "acme.io")

	require.NoError(t, err)
	require.NotNil(t, org)
	assert.Equal(t, "software", org.Industry)
	assert.Equal(t, "512-555-0100", org.BestPhone())
}

func TestEnrichOrganization_NoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	org, err := client.EnrichOrganization(context.Background(), "unknown.example")

	require.NoError(t, err)
	assert.Nil(t, org)
}

func TestEnrichOrganization_EmptyDomain(t *testing.T) {
	client := NewClient("test-key")
	_, err := client.EnrichOrganization(context.Background(), "")
	assert.Error(t, err)
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		status        int
		wantTransient bool
	}{
		{http.StatusUnauthorized, false},
		{http.StatusUnprocessableEntity, false},
		{http.StatusTooManyRequests, true},
		{http.StatusBadGateway, true},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, `{"error": "nope"}`)
			}))
			defer srv.Close()

			client := NewClient("test-key", WithBaseURL(srv.URL))
			resp, err := client.SearchOrganizations(context.Background(), OrganizationSearchRequest{Name: "Acme"})

			require.Error(t, err)
			assert.Nil(t, resp)
			assert.Contains(t, err.Error(), fmt.Sprintf("unexpected status %d", tt.status))
			assert.Equal(t, tt.wantTransient, resilience.IsTransient(err))
		})
	}
}
