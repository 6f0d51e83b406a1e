package discovery

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-cli/internal/geo"
	"github.com/sells-group/lead-cli/internal/model"
	"github.com/sells-group/lead-cli/internal/normalize"
	"github.com/sells-group/lead-cli/internal/resilience"
	"github.com/sells-group/lead-cli/pkg/google"
)

// genericQuery replaces the "all"/"any" wildcard in place queries.
const genericQuery = "business"

// TextQuery is a free-text place search.
type TextQuery struct {
	Query      string `json:"query" yaml:"query"`
	Location   string `json:"location" yaml:"location"`
	PostalCode string `json:"postalCode,omitempty" yaml:"postal_code,omitempty"`
	Country    string `json:"country,omitempty" yaml:"country,omitempty"`
	MaxResults int    `json:"maxResults,omitempty" yaml:"max_results,omitempty"`
}

// AreaQuery is a place search restricted to a drawn area.
type AreaQuery struct {
	Query      string           `json:"query" yaml:"query"`
	Area       model.SearchArea `json:"area" yaml:"area"`
	PostalCode string           `json:"postalCode,omitempty" yaml:"postal_code,omitempty"`
	Country    string           `json:"country,omitempty" yaml:"country,omitempty"`
	MaxResults int              `json:"maxResults,omitempty" yaml:"max_results,omitempty"`
}

// AreaResult holds the leads found in an area and one location label per
// searched shape.
type AreaResult struct {
	Leads     []model.Lead `json:"leads"`
	Locations []string     `json:"locations"`
}

// DiscoverByText searches places matching a business type in a location.
func (s *Service) DiscoverByText(ctx context.Context, q TextQuery) ([]model.Lead, error) {
	if s.google == nil {
		return nil, eris.Wrap(model.ErrMissingCredentials, "discovery: google.key")
	}
	if strings.TrimSpace(q.Query) == "" && strings.TrimSpace(q.Location) == "" {
		return nil, eris.Wrap(model.ErrInvalidRequest, "discovery: query or location is required")
	}

	text := BuildQuery(q.Query, q.Location, q.PostalCode, q.Country)
	return s.searchPlaces(ctx, text, nil, 0, maxResults(q.MaxResults))
}

// DiscoverByArea searches each shape of the area around its center with an
// equal share of the quota, then de-duplicates by place ID.
func (s *Service) DiscoverByArea(ctx context.Context, q AreaQuery) (*AreaResult, error) {
	if s.google == nil {
		return nil, eris.Wrap(model.ErrMissingCredentials, "discovery: google.key")
	}
	if err := q.Area.Validate(); err != nil {
		return nil, eris.Wrap(model.ErrInvalidRequest, err.Error())
	}

	total := maxResults(q.MaxResults)
	parts := q.Area.Parts()
	quota := geo.SplitQuota(total, len(parts))
	log := zap.L().With(zap.String("shape", string(q.Area.Type)), zap.Int("parts", len(parts)))

	var (
		all      []model.Lead
		labels   []string
		firstErr error
	)
	for i, part := range parts {
		if i > 0 {
			if err := pause(ctx, ms(s.cfg.BatchDelayMs)); err != nil {
				break
			}
		}

		center := geo.Center(part)
		if center == nil {
			log.Warn("skipping shape without a center", zap.Int("part", i))
			continue
		}
		label := s.locationLabel(ctx, *center)
		labels = append(labels, label)

		text := BuildQuery(q.Query, label, q.PostalCode, q.Country)
		radius := geo.SearchRadius(part, s.cfg.DefaultRadiusM, s.cfg.MaxRadiusM)
		bias := &google.LatLng{Lat: center.Lat, Lng: center.Lng}

		leads, err := s.searchPlaces(ctx, text, bias, radius, quota)
		if err != nil {
			log.Warn("shape search failed", zap.Int("part", i), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		all = append(all, leads...)
	}

	if len(all) == 0 && firstErr != nil {
		return nil, firstErr
	}

	all = Dedup(all)
	if len(all) > total {
		all = all[:total]
	}
	log.Info("area discovery complete", zap.Int("leads", len(all)))
	return &AreaResult{Leads: all, Locations: labels}, nil
}

// searchPlaces pages through text search results, then looks up details for
// each candidate. A failed first page is an error; a later failure keeps
// what was collected.
func (s *Service) searchPlaces(ctx context.Context, text string, bias *google.LatLng, radius float64, limit int) ([]model.Lead, error) {
	log := zap.L().With(zap.String("query", text))

	var (
		raw   []google.Place
		token string
	)
	for page := 0; page < s.cfg.MaxPages; page++ {
		if page > 0 {
			// Continuation tokens are not valid until a short while after issue.
			if err := pause(ctx, ms(s.cfg.PageTokenDelayMs)); err != nil {
				break
			}
		}

		req := google.TextSearchRequest{Query: text, Location: bias, RadiusM: radius, PageToken: token}
		resp, err := resilience.DoVal(ctx, s.retryFor("text_search"), func(ctx context.Context) (*google.TextSearchResponse, error) {
			return s.google.TextSearch(ctx, req)
		})
		if err != nil {
			if page == 0 {
				return nil, eris.Wrap(err, "discovery: text search")
			}
			log.Warn("text search page failed, keeping partial results", zap.Int("page", page), zap.Error(err))
			break
		}

		raw = append(raw, resp.Results...)
		if len(raw) >= limit || resp.NextPageToken == "" {
			break
		}
		token = resp.NextPageToken
	}

	if len(raw) > limit {
		raw = raw[:limit]
	}

	leads := make([]model.Lead, 0, len(raw))
	for _, p := range raw {
		if err := s.details.Wait(ctx); err != nil {
			break
		}
		d, err := resilience.DoVal(ctx, s.retryFor("details"), func(ctx context.Context) (*google.PlaceDetails, error) {
			return s.google.Details(ctx, p.PlaceID)
		})
		if err != nil {
			log.Warn("place details failed, using search data", zap.String("place_id", p.PlaceID), zap.Error(err))
		}
		leads = append(leads, placeToLead(p, d))
	}

	log.Debug("place search complete", zap.Int("raw", len(raw)), zap.Int("leads", len(leads)))
	return leads, nil
}

// locationLabel reverse-geocodes a point into "City, ST", falling back to
// the rounded coordinates.
func (s *Service) locationLabel(ctx context.Context, ll model.LatLng) string {
	res, err := resilience.DoVal(ctx, s.retryFor("reverse_geocode"), func(ctx context.Context) (*google.GeocodeResult, error) {
		return s.google.ReverseGeocode(ctx, ll.Lat, ll.Lng)
	})
	if err != nil || res == nil {
		if err != nil {
			zap.L().Debug("reverse geocode failed", zap.Error(err))
		}
		return geo.FormatLatLng(ll)
	}
	if label := res.Label(); label != "" {
		return label
	}
	return geo.FormatLatLng(ll)
}

func (s *Service) retryFor(operation string) resilience.Policy {
	cfg := s.retry
	if cfg.OnRetry == nil {
		cfg.OnRetry = resilience.Logger("google", operation)
	}
	return cfg
}

// BuildQuery combines a business type with location, postal code and
// country. The "all" and "any" wildcards become a generic term.
func BuildQuery(query, location, postalCode, country string) string {
	term := strings.TrimSpace(query)
	switch strings.ToLower(term) {
	case "", "all", "any":
		term = genericQuery
	}

	var b strings.Builder
	b.WriteString(term)
	if loc := strings.TrimSpace(location); loc != "" {
		fmt.Fprintf(&b, " in %s", loc)
	}
	for _, extra := range []string{postalCode, country} {
		if extra = strings.TrimSpace(extra); extra != "" {
			b.WriteString(" " + extra)
		}
	}
	return b.String()
}

// Dedup drops leads whose place ID was already seen, keeping the first copy.
// Leads without a place ID are always kept.
func Dedup(leads []model.Lead) []model.Lead {
	seen := make(map[string]bool, len(leads))
	out := make([]model.Lead, 0, len(leads))
	for _, l := range leads {
		if l.PlaceID != "" {
			if seen[l.PlaceID] {
				continue
			}
			seen[l.PlaceID] = true
		}
		out = append(out, l)
	}
	return out
}

func maxResults(n int) int {
	if n <= 0 {
		return defaultMaxResults
	}
	return n
}

// placeToLead maps a search hit and its optional details into a normalized
// lead.
func placeToLead(p google.Place, d *google.PlaceDetails) model.Lead {
	l := model.Lead{
		ID:          model.NewID(),
		Source:      model.SourcePlaceSearch,
		PlaceID:     p.PlaceID,
		CompanyName: p.Name,
		Address:     p.FormattedAddress,
		Rating:      p.Rating,
		ReviewCount: p.UserRatingsTotal,
		Latitude:    p.Geometry.Location.Lat,
		Longitude:   p.Geometry.Location.Lng,
		Categories:  p.Types,
	}
	l.City, l.State, l.Zipcode = parseAddress(p.FormattedAddress)

	if d != nil {
		l.CompanyName = firstNonEmpty(d.Name, l.CompanyName)
		l.Address = firstNonEmpty(d.FormattedAddress, l.Address)
		l.Phone = firstNonEmpty(d.FormattedPhoneNumber, d.InternationalPhoneNumber)
		l.Website = d.Website
		l.ReviewURL = d.URL
		l.City = firstNonEmpty(d.Component("locality"), d.Component("postal_town"), l.City)
		l.State = firstNonEmpty(d.ShortComponent("administrative_area_level_1"), l.State)
		l.Zipcode = firstNonEmpty(d.Component("postal_code"), l.Zipcode)
		l.Country = d.Component("country")
		if d.Rating > 0 {
			l.Rating = d.Rating
			l.ReviewCount = d.UserRatingsTotal
		}
		if len(d.Types) > 0 {
			l.Categories = d.Types
		}
		if d.OpeningHours != nil {
			l.Hours = d.OpeningHours.WeekdayText
		}
	}

	l.Industry = Industry(l.Categories)
	return normalizeLead(l)
}

// normalizeLead cleans the normalizer-guarded fields and fills every other
// identity field with N/A when empty.
func normalizeLead(l model.Lead) model.Lead {
	l.Phone = normalize.Phone(l.Phone)
	l.Zipcode = normalize.PostalCode(l.Zipcode)
	l.Address = normalize.Address(l.Address)
	l.CompanyName = model.OrNA(l.CompanyName)
	l.City = model.OrNA(l.City)
	l.State = model.OrNA(l.State)
	l.Country = model.OrNA(l.Country)
	l.Website = model.OrNA(l.Website)
	l.Industry = model.OrNA(l.Industry)
	return l
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
