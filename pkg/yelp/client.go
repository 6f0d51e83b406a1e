// Package yelp is a client for the Yelp Fusion business match and details
// endpoints.
package yelp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-cli/internal/resilience"
)

const defaultBaseURL = "https://api.yelp.com/v3"

// Client performs Yelp Fusion operations.
type Client interface {
	// Match looks up businesses by name and address fields.
	Match(ctx context.Context, req MatchRequest) ([]Business, error)
	// SearchPhone looks up businesses by an E.164 phone number.
	SearchPhone(ctx context.Context, phone string) ([]Business, error)
	// Details fetches the full record for a business ID.
	Details(ctx context.Context, id string) (*Business, error)
}

// MatchRequest holds the /businesses/matches query. Name, City, State and
// Country are required by the API.
type MatchRequest struct {
	Name     string
	Address1 string
	City     string
	State    string
	Country  string
	Limit    int
}

// Business is a Yelp business record. Match results carry only the identity
// fields; Details fills the rest.
type Business struct {
	ID           string      `json:"id"`
	Alias        string      `json:"alias"`
	Name         string      `json:"name"`
	URL          string      `json:"url"`
	Phone        string      `json:"phone"`
	DisplayPhone string      `json:"display_phone"`
	Rating       float64     `json:"rating"`
	ReviewCount  int         `json:"review_count"`
	Price        string      `json:"price"`
	Categories   []Category  `json:"categories"`
	Photos       []string    `json:"photos"`
	ImageURL     string      `json:"image_url"`
	Location     Location    `json:"location"`
	Coordinates  Coordinates `json:"coordinates"`
	Hours        []Hours     `json:"hours"`
}

// Category is a Yelp category tag.
type Category struct {
	Alias string `json:"alias"`
	Title string `json:"title"`
}

// Location is a business's postal address.
type Location struct {
	Address1       string   `json:"address1"`
	City           string   `json:"city"`
	ZipCode        string   `json:"zip_code"`
	State          string   `json:"state"`
	Country        string   `json:"country"`
	DisplayAddress []string `json:"display_address"`
}

// Coordinates is a business's position.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Hours is one schedule block.
type Hours struct {
	HoursType string `json:"hours_type"`
	IsOpenNow bool   `json:"is_open_now"`
	Open      []Open `json:"open"`
}

// Open is one opening interval. Day 0 is Monday.
type Open struct {
	Day         int    `json:"day"`
	Start       string `json:"start"`
	End         string `json:"end"`
	IsOvernight bool   `json:"is_overnight"`
}

var dayNames = [...]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// CategoryTitles returns the display titles of the business's categories.
func (b *Business) CategoryTitles() []string {
	out := make([]string, 0, len(b.Categories))
	for _, c := range b.Categories {
		if c.Title != "" {
			out = append(out, c.Title)
		}
	}
	return out
}

// HoursText renders the regular schedule as "Mon 0900-1700" lines.
func (b *Business) HoursText() []string {
	var out []string
	for _, h := range b.Hours {
		if h.HoursType != "" && h.HoursType != "REGULAR" {
			continue
		}
		for _, o := range h.Open {
			if o.Day < 0 || o.Day >= len(dayNames) {
				continue
			}
			out = append(out, fmt.Sprintf("%s %s-%s", dayNames[o.Day], o.Start, o.End))
		}
	}
	return out
}

type businessesResponse struct {
	Businesses []Business `json:"businesses"`
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

// NewClient creates a Yelp Fusion client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Match(ctx context.Context, req MatchRequest) ([]Business, error) {
	if req.Name == "" {
		return nil, eris.New("yelp: match requires a name")
	}

	params := url.Values{}
	params.Set("name", req.Name)
	setIf(params, "address1", req.Address1)
	setIf(params, "city", req.City)
	setIf(params, "state", req.State)
	country := req.Country
	if country == "" {
		country = "US"
	}
	params.Set("country", country)
	limit := req.Limit
	if limit <= 0 {
		limit = 3
	}
	params.Set("limit", fmt.Sprintf("%d", limit))

	var resp businessesResponse
	if err := c.get(ctx, "/businesses/matches", params, &resp); err != nil {
		return nil, eris.Wrap(err, "yelp: match")
	}
	return resp.Businesses, nil
}

func (c *httpClient) SearchPhone(ctx context.Context, phone string) ([]Business, error) {
	if phone == "" {
		return nil, eris.New("yelp: phone search requires a number")
	}

	params := url.Values{}
	params.Set("phone", phone)

	var resp businessesResponse
	if err := c.get(ctx, "/businesses/search/phone", params, &resp); err != nil {
		return nil, eris.Wrap(err, "yelp: search phone")
	}
	return resp.Businesses, nil
}

func (c *httpClient) Details(ctx context.Context, id string) (*Business, error) {
	if id == "" {
		return nil, eris.New("yelp: business id is required")
	}

	var b Business
	if err := c.get(ctx, "/businesses/"+url.PathEscape(id), nil, &b); err != nil {
		return nil, eris.Wrap(err, "yelp: details")
	}
	return &b, nil
}

func (c *httpClient) get(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response")
	}
	if resp.StatusCode != http.StatusOK {
		return resilience.StatusError("yelp", resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "unmarshal response")
	}
	return nil
}

func setIf(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}
