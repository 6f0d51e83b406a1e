// Package pdl is a client for the People Data Labs person search API.
package pdl

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-cli/internal/resilience"
)

const defaultBaseURL = "https://api.peopledatalabs.com/v5"

// Client performs People Data Labs operations.
type Client interface {
	SearchPeople(ctx context.Context, req SearchRequest) (*SearchResponse, error)
}

// SearchRequest is the body of POST /person/search. Query is an
// Elasticsearch query DSL document.
type SearchRequest struct {
	Query         map[string]any      `json:"query"`
	Size          int                 `json:"size,omitempty"`
	Sort          []map[string]string `json:"sort,omitempty"`
	TitlecaseResp bool                `json:"titlecase,omitempty"`
}

// SearchResponse holds matched person records. A search that matches
// nothing yields an empty Data slice, not an error.
type SearchResponse struct {
	Status int      `json:"status"`
	Data   []Person `json:"data"`
	Total  int      `json:"total"`
}

// Person is a PDL person record.
type Person struct {
	ID               string   `json:"id"`
	FullName         string   `json:"full_name"`
	JobTitle         string   `json:"job_title"`
	JobTitleRole     string   `json:"job_title_role"`
	JobTitleLevels   []string `json:"job_title_levels"`
	JobCompanyName   string   `json:"job_company_name"`
	JobCompanySize   string   `json:"job_company_size"`
	JobStartDate     string   `json:"job_start_date"`
	WorkEmail        string   `json:"work_email"`
	Emails           []Email  `json:"emails"`
	MobilePhone      string   `json:"mobile_phone"`
	PhoneNumbers     []string `json:"phone_numbers"`
	LinkedInURL      string   `json:"linkedin_url"`
	LocationLocality string   `json:"location_locality"`
	LocationRegion   string   `json:"location_region"`
	LocationCountry  string   `json:"location_country"`
}

// Email is one address on a person record.
type Email struct {
	Address string `json:"address"`
	Type    string `json:"type"` // "professional", "current_professional", "personal"
	Current bool   `json:"current"`
}

// BestEmail prefers a professional address, then one flagged current, then
// the first address, then the work email field.
func (p *Person) BestEmail() string {
	for _, e := range p.Emails {
		if strings.Contains(e.Type, "professional") && e.Address != "" {
			return e.Address
		}
	}
	for _, e := range p.Emails {
		if (e.Current || strings.HasPrefix(e.Type, "current")) && e.Address != "" {
			return e.Address
		}
	}
	for _, e := range p.Emails {
		if e.Address != "" {
			return e.Address
		}
	}
	return p.WorkEmail
}

// BestPhone returns the mobile phone, else the first listed number.
func (p *Person) BestPhone() string {
	if p.MobilePhone != "" {
		return p.MobilePhone
	}
	if len(p.PhoneNumbers) > 0 {
		return p.PhoneNumbers[0]
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

// NewClient creates a People Data Labs client.
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

func (c *httpClient) SearchPeople(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, eris.Wrap(err, "pdl: marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/person/search", bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "pdl: create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "pdl: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "pdl: read response")
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &SearchResponse{Status: http.StatusNotFound}, nil
	case resp.StatusCode != http.StatusOK:
		return nil, resilience.StatusError("pdl", resp.StatusCode, respBody)
	}

	var result SearchResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "pdl: unmarshal response")
	}
	return &result, nil
}
