package enrich

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/lead-cli/internal/model"
	"github.com/sells-group/lead-cli/internal/resilience"
	"github.com/sells-group/lead-cli/pkg/pdl"
)

const (
	ownerConfidence    = 90
	ownerCandidateSize = 10
)

// ownerTitles is the decision-maker title allow-list.
var ownerTitles = []string{"owner", "ceo", "founder", "president", "partner", "managing director"}

// OwnerQuery identifies the company whose decision-maker is wanted.
type OwnerQuery struct {
	CompanyName string `json:"companyName"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Country     string `json:"country,omitempty"`
}

// OwnerCandidate is one decision-maker record.
type OwnerCandidate struct {
	Name     string `json:"name"`
	Title    string `json:"title,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
}

// OwnerResult is the primary pick plus every candidate returned, most
// recent job start first.
type OwnerResult struct {
	Primary    OwnerCandidate   `json:"primary"`
	Candidates []OwnerCandidate `json:"candidates"`
	Confidence int              `json:"confidence"`
}

// Owner searches for the lead's owner or decision-maker. It returns nil when
// unconfigured, on no match, or on error.
func (s *Service) Owner(ctx context.Context, lead model.Lead) *OwnerResult {
	return runStep(ctx, StepOwner, func(ctx context.Context) (*OwnerResult, error) {
		if s.pdl == nil {
			skipUnconfigured(StepOwner)
			return nil, nil
		}
		if !model.HasValue(lead.CompanyName) {
			return nil, nil
		}
		return s.owner(ctx, OwnerQuery{
			CompanyName: lead.CompanyName,
			City:        lead.City,
			State:       lead.State,
			Country:     lead.Country,
		})
	})
}

// FindOwner looks up a company's decision-maker. Unlike the pipeline step
// it reports failures: a missing credential, an empty company name, a
// provider error, or model.ErrNotFound.
func (s *Service) FindOwner(ctx context.Context, q OwnerQuery) (*OwnerResult, error) {
	if strings.TrimSpace(q.CompanyName) == "" {
		return nil, eris.Wrap(model.ErrInvalidRequest, "enrich: company name is required")
	}
	if s.pdl == nil {
		return nil, eris.Wrap(model.ErrMissingCredentials, "enrich: pdl.key")
	}

	res, err := s.owner(ctx, q)
	if err != nil {
		return nil, eris.Wrap(err, "enrich: find owner")
	}
	if res == nil {
		return nil, eris.Wrapf(model.ErrNotFound, "enrich: no owner for %q", q.CompanyName)
	}
	return res, nil
}

func (s *Service) owner(ctx context.Context, q OwnerQuery) (*OwnerResult, error) {
	req := pdl.SearchRequest{
		Query: OwnerSearchQuery(q),
		Size:  ownerCandidateSize,
		Sort:  []map[string]string{{"job_start_date": "desc"}},
	}
	resp, err := resilience.DoVal(ctx, s.retryFor("pdl", "person_search"), func(ctx context.Context) (*pdl.SearchResponse, error) {
		return s.pdl.SearchPeople(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		zap.L().Debug("no owner candidates", zap.String("company", q.CompanyName))
		return nil, nil
	}

	res := &OwnerResult{Confidence: ownerConfidence}
	for i := range resp.Data {
		p := &resp.Data[i]
		res.Candidates = append(res.Candidates, OwnerCandidate{
			Name:     titleName(p.FullName),
			Title:    p.JobTitle,
			Email:    p.BestEmail(),
			Phone:    p.BestPhone(),
			LinkedIn: p.LinkedInURL,
		})
	}
	res.Primary = res.Candidates[0]
	return res, nil
}

// OwnerSearchQuery builds the Elasticsearch query for a company's
// decision-makers: the company name must match, the job title must contain
// an allow-listed role, and any given location narrows the match.
func OwnerSearchQuery(q OwnerQuery) map[string]any {
	must := []any{
		map[string]any{"match": map[string]any{"job_company_name": strings.ToLower(strings.TrimSpace(q.CompanyName))}},
	}

	titles := make([]any, 0, len(ownerTitles))
	for _, t := range ownerTitles {
		titles = append(titles, map[string]any{"match_phrase": map[string]any{"job_title": t}})
	}
	must = append(must, map[string]any{"bool": map[string]any{"should": titles, "minimum_should_match": 1}})

	for _, f := range []struct{ field, value string }{
		{"location_locality", q.City},
		{"location_region", q.State},
		{"location_country", q.Country},
	} {
		if model.HasValue(f.value) {
			must = append(must, map[string]any{"match": map[string]any{f.field: strings.ToLower(strings.TrimSpace(f.value))}})
		}
	}

	return map[string]any{"bool": map[string]any{"must": must}}
}

// mergeOwner fills the owner fields from the primary candidate.
func mergeOwner(l *model.Lead, o *OwnerResult) {
	setIf(&l.OwnerName, o.Primary.Name)
	setIf(&l.OwnerTitle, o.Primary.Title)
	setIf(&l.Email, o.Primary.Email)
	l.PDLEnriched = true
}

// titleName title-cases a provider name that arrives all lower case.
func titleName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name != strings.ToLower(name) {
		return name
	}
	return cases.Title(language.English).String(name)
}
