package enrich

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/lead-cli/internal/discovery"
	"github.com/sells-group/lead-cli/internal/model"
	"github.com/sells-group/lead-cli/internal/normalize"
	"github.com/sells-group/lead-cli/internal/resilience"
	"github.com/sells-group/lead-cli/pkg/yelp"
)

const reviewMatchConfidence = 95

// ReviewResult is the outcome of a review-site match. Verified is false
// when the search ran but found nothing.
type ReviewResult struct {
	Verified    bool     `json:"verified"`
	Confidence  int      `json:"confidence"`
	ID          string   `json:"id,omitempty"`
	URL         string   `json:"url,omitempty"`
	Rating      float64  `json:"rating,omitempty"`
	ReviewCount int      `json:"reviewCount,omitempty"`
	Categories  []string `json:"categories,omitempty"`
	Photos      []string `json:"photos,omitempty"`
	Hours       []string `json:"hours,omitempty"`
	Phone       string   `json:"phone,omitempty"`
}

// Reviews matches the lead on the review site by name plus the best of
// street address, city and state, or phone. It returns nil when
// unconfigured, when none of those signals is present, or on error.
func (s *Service) Reviews(ctx context.Context, lead model.Lead) *ReviewResult {
	return runStep(ctx, StepReviews, func(ctx context.Context) (*ReviewResult, error) {
		return s.reviews(ctx, lead)
	})
}

func (s *Service) reviews(ctx context.Context, lead model.Lead) (*ReviewResult, error) {
	if s.yelp == nil {
		skipUnconfigured(StepReviews)
		return nil, nil
	}
	if !model.HasValue(lead.CompanyName) {
		return nil, nil
	}

	street := firstSegment(lead.Address)
	hasLocality := model.HasValue(lead.City) && model.HasValue(lead.State)
	hasPhone := BarePhone(lead.Phone) != ""

	var (
		matches []yelp.Business
		err     error
	)
	switch {
	case street != "" || hasLocality:
		req := yelp.MatchRequest{
			Name:     lead.CompanyName,
			Address1: street,
			City:     valueOrEmpty(lead.City),
			State:    valueOrEmpty(lead.State),
			Country:  countryCode(lead.Country),
		}
		matches, err = resilience.DoVal(ctx, s.retryFor("yelp", "match"), func(ctx context.Context) ([]yelp.Business, error) {
			return s.yelp.Match(ctx, req)
		})
	case hasPhone:
		phone := discovery.E164(lead.Phone)
		matches, err = resilience.DoVal(ctx, s.retryFor("yelp", "search_phone"), func(ctx context.Context) ([]yelp.Business, error) {
			return s.yelp.SearchPhone(ctx, phone)
		})
	default:
		zap.L().Debug("review match skipped: no address, locality or phone", zap.String("company", lead.CompanyName))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return &ReviewResult{Verified: false, Confidence: 0}, nil
	}

	b := &matches[0]
	full, err := resilience.DoVal(ctx, s.retryFor("yelp", "details"), func(ctx context.Context) (*yelp.Business, error) {
		return s.yelp.Details(ctx, b.ID)
	})
	if err != nil {
		zap.L().Warn("review details failed, using match data", zap.String("id", b.ID), zap.Error(err))
	} else if full != nil {
		b = full
	}

	return &ReviewResult{
		Verified:    true,
		Confidence:  reviewMatchConfidence,
		ID:          b.ID,
		URL:         b.URL,
		Rating:      b.Rating,
		ReviewCount: b.ReviewCount,
		Categories:  b.CategoryTitles(),
		Photos:      b.Photos,
		Hours:       b.HoursText(),
		Phone:       b.DisplayPhone,
	}, nil
}

// mergeReviews copies review data onto the lead. Only a verified match is
// merged.
func mergeReviews(l *model.Lead, r *ReviewResult) bool {
	if !r.Verified {
		return false
	}
	l.YelpID = r.ID
	l.YelpVerified = true
	l.YelpEnriched = true
	setIf(&l.ReviewURL, r.URL)
	if r.Rating > 0 {
		l.Rating = r.Rating
		l.ReviewCount = r.ReviewCount
	}
	if len(r.Categories) > 0 {
		l.Categories = r.Categories
	}
	if len(r.Photos) > 0 {
		l.Photos = r.Photos
	}
	if len(r.Hours) > 0 {
		l.Hours = r.Hours
	}
	if !model.HasValue(l.Phone) {
		if p := normalize.Phone(r.Phone); model.HasValue(p) {
			l.Phone = p
		}
	}
	return true
}

// firstSegment returns the street part of a comma-separated address.
func firstSegment(address string) string {
	if !model.HasValue(address) {
		return ""
	}
	seg, _, _ := strings.Cut(address, ",")
	return strings.TrimSpace(seg)
}

func valueOrEmpty(s string) string {
	if model.HasValue(s) {
		return strings.TrimSpace(s)
	}
	return ""
}

// countryCode maps common country names to the two-letter code the review
// site expects. Unknown values pass through; empty means US.
func countryCode(country string) string {
	c := valueOrEmpty(country)
	switch strings.ToLower(c) {
	case "", "us", "usa", "united states", "united states of america":
		return "US"
	case "canada", "ca":
		return "CA"
	case "united kingdom", "uk", "gb", "great britain":
		return "GB"
	case "australia", "au":
		return "AU"
	}
	return c
}
