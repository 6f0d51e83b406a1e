// Package hunter is a client for the Hunter.io email-finder API.
package hunter

import (
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

const defaultBaseURL = "https://api.hunter.io/v2"

// Client performs Hunter operations.
type Client interface {
	DomainSearch(ctx context.Context, domain string) (*DomainSearchResult, error)
}

// DomainSearchResult is the data payload of /domain-search.
type DomainSearchResult struct {
	Domain       string    `json:"domain"`
	Organization string    `json:"organization"`
	Pattern      string    `json:"pattern"`
	Disposable   bool      `json:"disposable"`
	Webmail      bool      `json:"webmail"`
	Emails       []Mailbox `json:"emails"`
}

// Mailbox is one address found on a domain.
type Mailbox struct {
	Value      string `json:"value"`
	Type       string `json:"type"` // "personal" or "generic"
	Confidence int    `json:"confidence"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Position   string `json:"position"`
	Seniority  string `json:"seniority"`
	Department string `json:"department"`
	LinkedIn   string `json:"linkedin"`
	Twitter    string `json:"twitter"`
	Phone      string `json:"phone_number"`
}

// FullName joins the mailbox owner's first and last name.
func (m *Mailbox) FullName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

type domainSearchResponse struct {
	Data   DomainSearchResult `json:"data"`
	Errors []struct {
		ID      string `json:"id"`
		Details string `json:"details"`
	} `json:"errors"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = strings.TrimRight(u, "/")
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

// NewClient creates a Hunter client.
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

func (c *httpClient) DomainSearch(ctx context.Context, domain string) (*DomainSearchResult, error) {
	if domain == "" {
		return nil, eris.New("hunter: domain is required")
	}

	params := url.Values{}
	params.Set("domain", domain)
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/domain-search?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "hunter: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "hunter: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "hunter: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, resilience.StatusError("hunter", resp.StatusCode, body)
	}

	var result domainSearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "hunter: unmarshal response")
	}
	if len(result.Errors) > 0 {
		return nil, eris.Errorf("hunter: %s: %s", result.Errors[0].ID, result.Errors[0].Details)
	}
	return &result.Data, nil
}
