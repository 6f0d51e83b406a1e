// Package apollo is a client for the Apollo.io B2B search and enrichment API.
package apollo

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-cli/internal/resilience"
)

const (
	defaultBaseURL = "https://api.apollo.io/api/v1"

	// MaxPageSize is the largest per_page Apollo accepts.
	MaxPageSize = 100
)

// Client performs Apollo API operations.
type Client interface {
	SearchOrganizations(ctx context.Context, req OrganizationSearchRequest) (*OrganizationSearchResponse, error)
	SearchPeople(ctx context.Context, req PeopleSearchRequest) (*PeopleSearchResponse, error)
	EnrichOrganization(ctx context.Context, domain string) (*Organization, error)
}

// RevenueRange bounds annual revenue in USD. Zero bounds are omitted.
type RevenueRange struct {
	Min int64 `json:"min,omitempty"`
	Max int64 `json:"max,omitempty"`
}

// OrganizationSearchRequest is the body of POST /mixed_companies/search.
type OrganizationSearchRequest struct {
	Name           string        `json:"q_organization_name,omitempty"`
	KeywordTags    []string      `json:"q_organization_keyword_tags,omitempty"`
	Locations      []string      `json:"organization_locations,omitempty"`
	EmployeeRanges []string      `json:"organization_num_employees_ranges,omitempty"`
	Revenue        *RevenueRange `json:"revenue_range,omitempty"`
	TechnologyUIDs []string      `json:"currently_using_any_of_technology_uids,omitempty"`
	Page           int           `json:"page"`
	PerPage        int           `json:"per_page"`
}

// OrganizationSearchResponse is one page of organization results.
type OrganizationSearchResponse struct {
	Organizations []Organization `json:"organizations"`
	Accounts      []Organization `json:"accounts"`
	Pagination    Pagination     `json:"pagination"`
}

// All returns accounts followed by organizations; Apollo splits saved
// accounts from net-new organizations.
func (r *OrganizationSearchResponse) All() []Organization {
	out := make([]Organization, 0, len(r.Accounts)+len(r.Organizations))
	out = append(out, r.Accounts...)
	return append(out, r.Organizations...)
}

// PeopleSearchRequest is the body of POST /mixed_people/search.
type PeopleSearchRequest struct {
	Keywords         string   `json:"q_keywords,omitempty"`
	OrganizationName string   `json:"q_organization_name,omitempty"`
	Titles           []string `json:"person_titles,omitempty"`
	Seniorities      []string `json:"person_seniorities,omitempty"`
	Locations        []string `json:"person_locations,omitempty"`
	EmployeeRanges   []string `json:"organization_num_employees_ranges,omitempty"`
	Page             int      `json:"page"`
	PerPage          int      `json:"per_page"`
}

// PeopleSearchResponse is one page of people results.
type PeopleSearchResponse struct {
	People     []Person   `json:"people"`
	Contacts   []Person   `json:"contacts"`
	Pagination Pagination `json:"pagination"`
}

// All returns contacts followed by people.
func (r *PeopleSearchResponse) All() []Person {
	out := make([]Person, 0, len(r.Contacts)+len(r.People))
	out = append(out, r.Contacts...)
	return append(out, r.People...)
}

// Pagination describes the page returned.
type Pagination struct {
	Page         int `json:"page"`
	PerPage      int `json:"per_page"`
	TotalEntries int `json:"total_entries"`
	TotalPages   int `json:"total_pages"`
}

// Organization is an Apollo company record.
type Organization struct {
	ID                    string       `json:"id"`
	Name                  string       `json:"name"`
	WebsiteURL            string       `json:"website_url"`
	PrimaryDomain         string       `json:"primary_domain"`
	Phone                 string       `json:"phone"`
	PrimaryPhone          *PhoneNumber `json:"primary_phone"`
	LinkedInURL           string       `json:"linkedin_url"`
	FacebookURL           string       `json:"facebook_url"`
	TwitterURL            string       `json:"twitter_url"`
	Industry              string       `json:"industry"`
	EstimatedNumEmployees int          `json:"estimated_num_employees"`
	AnnualRevenuePrinted  string       `json:"annual_revenue_printed"`
	StreetAddress         string       `json:"street_address"`
	RawAddress            string       `json:"raw_address"`
	City                  string       `json:"city"`
	State                 string       `json:"state"`
	Country               string       `json:"country"`
	PostalCode            string       `json:"postal_code"`
	ShortDescription      string       `json:"short_description"`
	Keywords              []string     `json:"keywords"`
}

// BestPhone returns the first non-empty phone candidate.
func (o *Organization) BestPhone() string {
	if o.PrimaryPhone != nil {
		if p := firstNonEmpty(o.PrimaryPhone.Number, o.PrimaryPhone.SanitizedNumber); p != "" {
			return p
		}
	}
	return strings.TrimSpace(o.Phone)
}

// Website returns the website URL, falling back to the primary domain.
func (o *Organization) Website() string {
	if o.WebsiteURL != "" {
		return o.WebsiteURL
	}
	if o.PrimaryDomain != "" {
		return "https://" + o.PrimaryDomain
	}
	return ""
}

// Address returns the most specific address Apollo knows.
func (o *Organization) Address() string {
	return firstNonEmpty(o.StreetAddress, o.RawAddress)
}

// PhoneNumber is a phone entry on an organization or person.
type PhoneNumber struct {
	Number          string `json:"number"`
	RawNumber       string `json:"raw_number"`
	SanitizedNumber string `json:"sanitized_number"`
	Type            string `json:"type"`
}

// Person is an Apollo contact record.
type Person struct {
	ID             string        `json:"id"`
	FirstName      string        `json:"first_name"`
	LastName       string        `json:"last_name"`
	Name           string        `json:"name"`
	Title          string        `json:"title"`
	Email          string        `json:"email"`
	PersonalEmails []string      `json:"personal_emails"`
	LinkedInURL    string        `json:"linkedin_url"`
	City           string        `json:"city"`
	State          string        `json:"state"`
	Country        string        `json:"country"`
	PhoneNumbers   []PhoneNumber `json:"phone_numbers"`
	Organization   *Organization `json:"organization"`
}

// FullName returns Name, or first and last name joined.
func (p *Person) FullName() string {
	if n := strings.TrimSpace(p.Name); n != "" {
		return n
	}
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// BestEmail returns the work email, else the first personal email. Apollo's
// locked-email placeholder is ignored.
func (p *Person) BestEmail() string {
	candidates := append([]string{p.Email}, p.PersonalEmails...)
	for _, e := range candidates {
		e = strings.TrimSpace(e)
		if e != "" && !strings.HasPrefix(e, "email_not_unlocked") {
			return e
		}
	}
	return ""
}

// BestPhone returns the first non-empty phone number on the person.
func (p *Person) BestPhone() string {
	for _, n := range p.PhoneNumbers {
		if v := firstNonEmpty(n.SanitizedNumber, n.RawNumber, n.Number); v != "" {
			return v
		}
	}
	return ""
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates an Apollo API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) SearchOrganizations(ctx context.Context, req OrganizationSearchRequest) (*OrganizationSearchResponse, error) {
	if req.Name != "" && len(req.KeywordTags) > 0 {
		return nil, eris.New("apollo: organization name and keywords are mutually exclusive")
	}
	req.Page, req.PerPage = clampPage(req.Page, req.PerPage)

	var result OrganizationSearchResponse
	if err := c.do(ctx, http.MethodPost, "/mixed_companies/search", req, &result); err != nil {
		return nil, eris.Wrap(err, "apollo: search organizations")
	}
	return &result, nil
}

func (c *httpClient) SearchPeople(ctx context.Context, req PeopleSearchRequest) (*PeopleSearchResponse, error) {
	if req.OrganizationName != "" && req.Keywords != "" {
		return nil, eris.New("apollo: organization name and keywords are mutually exclusive")
	}
	req.Page, req.PerPage = clampPage(req.Page, req.PerPage)

	var result PeopleSearchResponse
	if err := c.do(ctx, http.MethodPost, "/mixed_people/search", req, &result); err != nil {
		return nil, eris.Wrap(err, "apollo: search people")
	}
	return &result, nil
}

func (c *httpClient) EnrichOrganization(ctx context.Context, domain string) (*Organization, error) {
	if domain == "" {
		return nil, eris.New("apollo: enrich organization: empty domain")
	}

	var result struct {
		Organization *Organization `json:"organization"`
	}
	path := "/organizations/enrich?" + url.Values{"domain": {domain}}.Encode()
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, eris.Wrap(err, "apollo: enrich organization")
	}
	return result.Organization, nil
}

func (c *httpClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return eris.Wrap(err, "marshal request")
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response")
	}

	if resp.StatusCode != http.StatusOK {
		return resilience.StatusError("apollo", resp.StatusCode, respBody)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return eris.Wrap(err, "unmarshal response")
	}
	return nil
}

func clampPage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > MaxPageSize {
		perPage = MaxPageSize
	}
	return page, perPage
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
