package discovery

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/lead-cli/internal/model"
	"github.com/sells-group/lead-cli/internal/normalize"
	"github.com/sells-group/lead-cli/internal/resilience"
	"github.com/sells-group/lead-cli/pkg/google"
)

// Strategy names the lookup that matched a hand-typed record.
type Strategy string

const (
	StrategyPhone   Strategy = "phone"
	StrategyAddress Strategy = "address"
	StrategyName    Strategy = "name"
	StrategyNone    Strategy = "none"
)

// ManualMatch is the place found for a hand-typed record. Lead is nil when
// no strategy produced a candidate.
type ManualMatch struct {
	Lead     *model.Lead `json:"lead,omitempty"`
	Strategy Strategy    `json:"strategy"`
}

// LookupManual tries phone, then address, then company-name lookups and
// stops at the first that yields a candidate. Lookup failures fall through
// to the next strategy. Without a Places client it reports StrategyNone.
func (s *Service) LookupManual(ctx context.Context, fields model.HumanFields) (*ManualMatch, error) {
	if s.google == nil {
		zap.L().Debug("manual lookup skipped: google key not configured")
		return &ManualMatch{Strategy: StrategyNone}, nil
	}

	name := fields.Get(model.FieldCompanyName)
	locality := strings.TrimSpace(fields.Get(model.FieldCity) + " " + fields.Get(model.FieldState))

	strategies := []struct {
		name  Strategy
		input string
		run   func(ctx context.Context, input string) (*model.Lead, error)
	}{
		{StrategyPhone, fields.Get(model.FieldPhone), func(ctx context.Context, in string) (*model.Lead, error) {
			return s.byPhone(ctx, in, name)
		}},
		{StrategyAddress, fields.Get(model.FieldAddress), func(ctx context.Context, in string) (*model.Lead, error) {
			return s.byText(ctx, joinNonEmpty(in, locality), name)
		}},
		{StrategyName, name, func(ctx context.Context, in string) (*model.Lead, error) {
			return s.byText(ctx, joinNonEmpty(in, locality), name)
		}},
	}

	for _, st := range strategies {
		if st.input == "" {
			continue
		}
		lead, err := st.run(ctx, st.input)
		if err != nil {
			zap.L().Warn("manual lookup strategy failed", zap.String("strategy", string(st.name)), zap.Error(err))
			continue
		}
		if lead != nil {
			return &ManualMatch{Lead: lead, Strategy: st.name}, nil
		}
	}
	return &ManualMatch{Strategy: StrategyNone}, nil
}

func (s *Service) byPhone(ctx context.Context, phone, name string) (*model.Lead, error) {
	cands, err := resilience.DoVal(ctx, s.retryFor("find_place"), func(ctx context.Context) ([]google.Candidate, error) {
		return s.google.FindPlace(ctx, E164(phone), google.InputPhoneNumber)
	})
	if err != nil || len(cands) == 0 {
		return nil, err
	}

	places := make([]google.Place, 0, len(cands))
	for _, c := range cands {
		places = append(places, google.Place{PlaceID: c.PlaceID, Name: c.Name, FormattedAddress: c.FormattedAddress})
	}
	return s.resolve(ctx, BestCandidate(places, name)), nil
}

func (s *Service) byText(ctx context.Context, query, name string) (*model.Lead, error) {
	resp, err := resilience.DoVal(ctx, s.retryFor("text_search"), func(ctx context.Context) (*google.TextSearchResponse, error) {
		return s.google.TextSearch(ctx, google.TextSearchRequest{Query: query})
	})
	if err != nil || len(resp.Results) == 0 {
		return nil, err
	}
	return s.resolve(ctx, BestCandidate(resp.Results, name)), nil
}

// resolve fetches details for the chosen place, keeping the search data
// when the details call fails.
func (s *Service) resolve(ctx context.Context, p google.Place) *model.Lead {
	d, err := resilience.DoVal(ctx, s.retryFor("details"), func(ctx context.Context) (*google.PlaceDetails, error) {
		return s.google.Details(ctx, p.PlaceID)
	})
	if err != nil {
		zap.L().Warn("place details failed, using search data", zap.String("place_id", p.PlaceID), zap.Error(err))
	}
	l := placeToLead(p, d)
	l.Source = model.SourceManual
	return &l
}

// BestCandidate picks the place whose name equals name case-insensitively,
// else one whose name contains or is contained by name, else the first.
// places must not be empty.
func BestCandidate(places []google.Place, name string) google.Place {
	want := strings.ToLower(strings.TrimSpace(name))
	if want == "" {
		return places[0]
	}
	for _, p := range places {
		if strings.ToLower(strings.TrimSpace(p.Name)) == want {
			return p
		}
	}
	for _, p := range places {
		got := strings.ToLower(strings.TrimSpace(p.Name))
		if got != "" && (strings.Contains(got, want) || strings.Contains(want, got)) {
			return p
		}
	}
	return places[0]
}

// E164 formats a typed phone number for a phone-number place lookup. Ten
// digit numbers are assumed to be North American.
func E164(phone string) string {
	digits := normalize.Digits(phone)
	if strings.HasPrefix(digits, "00") {
		digits = digits[2:]
	}
	if len(digits) == 10 && !strings.HasPrefix(strings.TrimSpace(phone), "+") {
		digits = "1" + digits
	}
	return "+" + digits
}

func joinNonEmpty(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
