// Package google is a client for the Google Places and Geocoding web
// services (JSON endpoints).
package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-cli/internal/resilience"
)

const (
	defaultBaseURL    = "https://maps.googleapis.com/maps/api/place"
	defaultGeocodeURL = "https://maps.googleapis.com/maps/api/geocode"

	detailFields = "place_id,name,formatted_address,formatted_phone_number,international_phone_number," +
		"website,address_components,geometry,rating,user_ratings_total,types,url,opening_hours"
)

// Client performs Places and Geocoding operations.
type Client interface {
	TextSearch(ctx context.Context, req TextSearchRequest) (*TextSearchResponse, error)
	Details(ctx context.Context, placeID string) (*PlaceDetails, error)
	FindPlace(ctx context.Context, input string, inputType InputType) ([]Candidate, error)
	ReverseGeocode(ctx context.Context, lat, lng float64) (*GeocodeResult, error)
}

// TextSearchRequest is a Places Text Search query. PageToken, when set,
// requests the next page of a previous search; Google rejects tokens that
// are used too soon after being issued.
type TextSearchRequest struct {
	Query     string
	Location  *LatLng
	RadiusM   float64
	PageToken string
}

// TextSearchResponse is one page of Text Search results.
type TextSearchResponse struct {
	Results       []Place `json:"results"`
	NextPageToken string  `json:"next_page_token"`
	Status        string  `json:"status"`
	ErrorMessage  string  `json:"error_message"`
}

// Place is a Text Search result.
type Place struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Geometry         Geometry `json:"geometry"`
	Rating           float64  `json:"rating"`
	UserRatingsTotal int      `json:"user_ratings_total"`
	Types            []string `json:"types"`
	BusinessStatus   string   `json:"business_status"`
}

// PlaceDetails is the result of a Place Details lookup.
type PlaceDetails struct {
	PlaceID                  string             `json:"place_id"`
	Name                     string             `json:"name"`
	FormattedAddress         string             `json:"formatted_address"`
	FormattedPhoneNumber     string             `json:"formatted_phone_number"`
	InternationalPhoneNumber string             `json:"international_phone_number"`
	Website                  string             `json:"website"`
	AddressComponents        []AddressComponent `json:"address_components"`
	Geometry                 Geometry           `json:"geometry"`
	Rating                   float64            `json:"rating"`
	UserRatingsTotal         int                `json:"user_ratings_total"`
	Types                    []string           `json:"types"`
	URL                      string             `json:"url"`
	OpeningHours             *OpeningHours      `json:"opening_hours"`
}

// Component returns the long name of the first address component carrying
// the given type, or "" when there is none.
func (d *PlaceDetails) Component(typ string) string {
	return component(d.AddressComponents, typ, false)
}

// ShortComponent is Component using the short name (e.g. "TX").
func (d *PlaceDetails) ShortComponent(typ string) string {
	return component(d.AddressComponents, typ, true)
}

// AddressComponent is one structured part of an address.
type AddressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

// OpeningHours holds the human-readable weekly schedule.
type OpeningHours struct {
	WeekdayText []string `json:"weekday_text"`
}

// Geometry wraps a place's coordinates.
type Geometry struct {
	Location LatLng `json:"location"`
}

// LatLng is a WGS84 coordinate.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// InputType selects how Find Place interprets its input.
type InputType string

const (
	InputPhoneNumber InputType = "phonenumber"
	InputTextQuery   InputType = "textquery"
)

// Candidate is a Find Place match.
type Candidate struct {
	PlaceID          string `json:"place_id"`
	Name             string `json:"name"`
	FormattedAddress string `json:"formatted_address"`
}

// GeocodeResult is the best reverse-geocoding match for a coordinate.
type GeocodeResult struct {
	FormattedAddress  string             `json:"formatted_address"`
	AddressComponents []AddressComponent `json:"address_components"`
}

// Label returns "City, ST" when both parts are known, otherwise the
// formatted address.
func (g *GeocodeResult) Label() string {
	city := component(g.AddressComponents, "locality", false)
	state := component(g.AddressComponents, "administrative_area_level_1", true)
	switch {
	case city != "" && state != "":
		return city + ", " + state
	case city != "":
		return city
	}
	return g.FormattedAddress
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the Places API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithGeocodeURL overrides the Geocoding API base URL.
func WithGeocodeURL(url string) Option {
	return func(c *httpClient) {
		c.geocodeURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey     string
	baseURL    string
	geocodeURL string
	http       *http.Client
}

// NewClient creates a Google Places client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		geocodeURL: defaultGeocodeURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) TextSearch(ctx context.Context, req TextSearchRequest) (*TextSearchResponse, error) {
	params := url.Values{}
	if req.PageToken != "" {
		params.Set("pagetoken", req.PageToken)
	} else {
		params.Set("query", req.Query)
		if req.Location != nil {
			params.Set("location", formatLatLng(req.Location.Lat, req.Location.Lng))
			params.Set("radius", strconv.Itoa(int(req.RadiusM)))
		}
	}

	var result TextSearchResponse
	if err := c.get(ctx, c.baseURL+"/textsearch/json", params, &result); err != nil {
		return nil, eris.Wrap(err, "google: text search")
	}
	if err := checkStatus(result.Status, result.ErrorMessage); err != nil {
		return nil, eris.Wrap(err, "google: text search")
	}
	return &result, nil
}

func (c *httpClient) Details(ctx context.Context, placeID string) (*PlaceDetails, error) {
	params := url.Values{
		"place_id": {placeID},
		"fields":   {detailFields},
	}

	var result struct {
		Result       PlaceDetails `json:"result"`
		Status       string       `json:"status"`
		ErrorMessage string       `json:"error_message"`
	}
	if err := c.get(ctx, c.baseURL+"/details/json", params, &result); err != nil {
		return nil, eris.Wrap(err, "google: place details")
	}
	if result.Status == "ZERO_RESULTS" || result.Status == "NOT_FOUND" {
		return nil, eris.Errorf("google: place details: %s not found", placeID)
	}
	if err := checkStatus(result.Status, result.ErrorMessage); err != nil {
		return nil, eris.Wrap(err, "google: place details")
	}
	return &result.Result, nil
}

func (c *httpClient) FindPlace(ctx context.Context, input string, inputType InputType) ([]Candidate, error) {
	params := url.Values{
		"input":     {input},
		"inputtype": {string(inputType)},
		"fields":    {"place_id,name,formatted_address"},
	}

	var result struct {
		Candidates   []Candidate `json:"candidates"`
		Status       string      `json:"status"`
		ErrorMessage string      `json:"error_message"`
	}
	if err := c.get(ctx, c.baseURL+"/findplacefromtext/json", params, &result); err != nil {
		return nil, eris.Wrap(err, "google: find place")
	}
	if err := checkStatus(result.Status, result.ErrorMessage); err != nil {
		return nil, eris.Wrap(err, "google: find place")
	}
	return result.Candidates, nil
}

func (c *httpClient) ReverseGeocode(ctx context.Context, lat, lng float64) (*GeocodeResult, error) {
	params := url.Values{
		"latlng":      {formatLatLng(lat, lng)},
		"result_type": {"locality|administrative_area_level_2|postal_code"},
	}

	var result struct {
		Results      []GeocodeResult `json:"results"`
		Status       string          `json:"status"`
		ErrorMessage string          `json:"error_message"`
	}
	if err := c.get(ctx, c.geocodeURL+"/json", params, &result); err != nil {
		return nil, eris.Wrap(err, "google: reverse geocode")
	}
	if err := checkStatus(result.Status, result.ErrorMessage); err != nil {
		return nil, eris.Wrap(err, "google: reverse geocode")
	}
	if len(result.Results) == 0 {
		return nil, eris.Errorf("google: reverse geocode: no result for %s", params.Get("latlng"))
	}
	return &result.Results[0], nil
}

func (c *httpClient) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return eris.Wrap(err, "create request")
	}

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
		return resilience.StatusError("google", resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "unmarshal response")
	}
	return nil
}

// checkStatus maps the API's in-body status onto an error. ZERO_RESULTS is
// a successful empty answer.
func checkStatus(status, message string) error {
	switch status {
	case "OK", "ZERO_RESULTS", "":
		return nil
	case "OVER_QUERY_LIMIT", "UNKNOWN_ERROR":
		return resilience.NewTransientError(eris.Errorf("status %s: %s", status, message), http.StatusTooManyRequests)
	}
	return eris.Errorf("status %s: %s", status, message)
}

func component(parts []AddressComponent, typ string, short bool) string {
	for _, p := range parts {
		for _, t := range p.Types {
			if t != typ {
				continue
			}
			if short {
				return p.ShortName
			}
			return p.LongName
		}
	}
	return ""
}

func formatLatLng(lat, lng float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lng, 'f', -1, 64)
}
