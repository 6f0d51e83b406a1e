// Package numverify is a client for the numverify phone validation API.
package numverify

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

const defaultBaseURL = "http://apilayer.net/api"

// Client performs numverify operations.
type Client interface {
	Validate(ctx context.Context, number string) (*Validation, error)
}

// Validation is the /validate response. Valid is false for numbers the
// provider considers invalid; that is a successful lookup, not an error.
type Validation struct {
	Valid               bool   `json:"valid"`
	Number              string `json:"number"`
	LocalFormat         string `json:"local_format"`
	InternationalFormat string `json:"international_format"`
	CountryPrefix       string `json:"country_prefix"`
	CountryCode         string `json:"country_code"`
	CountryName         string `json:"country_name"`
	Location            string `json:"location"`
	Carrier             string `json:"carrier"`
	LineType            string `json:"line_type"`
}

// apiError is the error envelope numverify returns with HTTP 200.
type apiError struct {
	Success *bool `json:"success"`
	Error   struct {
		Code int    `json:"code"`
		Type string `json:"type"`
		Info string `json:"info"`
	} `json:"error"`
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
	accessKey string
	baseURL   string
	http      *http.Client
}

// NewClient creates a numverify client.
func NewClient(accessKey string, opts ...Option) Client {
	c := &httpClient{
		accessKey: accessKey,
		baseURL:   defaultBaseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Validate(ctx context.Context, number string) (*Validation, error) {
	if number == "" {
		return nil, eris.New("numverify: number is required")
	}

	params := url.Values{}
	params.Set("access_key", c.accessKey)
	params.Set("number", number)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/validate?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "numverify: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "numverify: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "numverify: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, resilience.StatusError("numverify", resp.StatusCode, body)
	}

	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Success != nil && !*apiErr.Success {
		err := eris.Errorf("numverify: %s (%d): %s", apiErr.Error.Type, apiErr.Error.Code, apiErr.Error.Info)
		if apiErr.Error.Code == 104 || apiErr.Error.Code == 106 {
			// Monthly or per-second quota exhausted.
			return nil, resilience.NewTransientError(err, http.StatusTooManyRequests)
		}
		return nil, err
	}

	var v Validation
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, eris.Wrap(err, "numverify: unmarshal response")
	}
	return &v, nil
}
