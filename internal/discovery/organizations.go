package discovery

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-cli/internal/model"
	"github.com/sells-group/lead-cli/internal/resilience"
	"github.com/sells-group/lead-cli/pkg/apollo"
)

// OrganizationFilters selects companies. Keyword and CompanyName are
// mutually exclusive.
type OrganizationFilters struct {
	Keyword        string   `json:"keyword,omitempty" yaml:"keyword,omitempty"`
	CompanyName    string   `json:"companyName,omitempty" yaml:"company_name,omitempty"`
	Locations      []string `json:"locations,omitempty" yaml:"locations,omitempty"`
	EmployeeRanges []string `json:"employeeRanges,omitempty" yaml:"employee_ranges,omitempty"`
	RevenueMin     int64    `json:"revenueMin,omitempty" yaml:"revenue_min,omitempty"`
	RevenueMax     int64    `json:"revenueMax,omitempty" yaml:"revenue_max,omitempty"`
	Technologies   []string `json:"technologies,omitempty" yaml:"technologies,omitempty"`
	TargetCount    int      `json:"targetCount,omitempty" yaml:"target_count,omitempty"`
}

// PeopleFilters selects people. Keyword and CompanyName are mutually
// exclusive.
type PeopleFilters struct {
	Keyword        string   `json:"keyword,omitempty" yaml:"keyword,omitempty"`
	CompanyName    string   `json:"companyName,omitempty" yaml:"company_name,omitempty"`
	Titles         []string `json:"titles,omitempty" yaml:"titles,omitempty"`
	Seniorities    []string `json:"seniorities,omitempty" yaml:"seniorities,omitempty"`
	Locations      []string `json:"locations,omitempty" yaml:"locations,omitempty"`
	EmployeeRanges []string `json:"employeeRanges,omitempty" yaml:"employee_ranges,omitempty"`
	TargetCount    int      `json:"targetCount,omitempty" yaml:"target_count,omitempty"`
}

// SearchOrganizations pages through organization results until the target
// count is reached. An exact-name search that finds nothing is retried once
// with the name as a keyword.
func (s *Service) SearchOrganizations(ctx context.Context, f OrganizationFilters) ([]model.Lead, error) {
	if s.apollo == nil {
		return nil, eris.Wrap(model.ErrMissingCredentials, "discovery: apollo.key")
	}
	if f.Keyword != "" && f.CompanyName != "" {
		return nil, eris.Wrap(model.ErrInvalidRequest, "discovery: keyword and company name are mutually exclusive")
	}

	orgs, err := s.searchOrganizations(ctx, f)
	if err != nil {
		return nil, err
	}
	if len(orgs) == 0 && f.CompanyName != "" {
		zap.L().Info("no exact-name organization match, retrying as keyword", zap.String("company", f.CompanyName))
		f.Keyword, f.CompanyName = f.CompanyName, ""
		if orgs, err = s.searchOrganizations(ctx, f); err != nil {
			return nil, err
		}
	}

	leads := make([]model.Lead, 0, len(orgs))
	for _, o := range orgs {
		leads = append(leads, organizationToLead(o))
	}
	return leads, nil
}

func (s *Service) searchOrganizations(ctx context.Context, f OrganizationFilters) ([]apollo.Organization, error) {
	req := apollo.OrganizationSearchRequest{
		Name:           f.CompanyName,
		Locations:      f.Locations,
		EmployeeRanges: f.EmployeeRanges,
		TechnologyUIDs: f.Technologies,
	}
	if f.Keyword != "" {
		req.KeywordTags = []string{f.Keyword}
	}
	if f.RevenueMin > 0 || f.RevenueMax > 0 {
		req.Revenue = &apollo.RevenueRange{Min: f.RevenueMin, Max: f.RevenueMax}
	}

	retry := s.retry
	retry.OnRetry = resilience.Logger("apollo", "search_organizations")

	out, err := paginate(ctx, target(f.TargetCount), s.pageSize, ms(s.cfg.BatchDelayMs), func(ctx context.Context, page int) ([]apollo.Organization, error) {
		r := req
		r.Page, r.PerPage = page, s.pageSize
		resp, err := resilience.DoVal(ctx, retry, func(ctx context.Context) (*apollo.OrganizationSearchResponse, error) {
			return s.apollo.SearchOrganizations(ctx, r)
		})
		if err != nil {
			return nil, err
		}
		return resp.All(), nil
	})
	return out, eris.Wrap(err, "discovery: search organizations")
}

// SearchPeople pages through people results until the target count is
// reached, with the same exact-name fallback as SearchOrganizations.
func (s *Service) SearchPeople(ctx context.Context, f PeopleFilters) ([]model.Lead, error) {
	if s.apollo == nil {
		return nil, eris.Wrap(model.ErrMissingCredentials, "discovery: apollo.key")
	}
	if f.Keyword != "" && f.CompanyName != "" {
		return nil, eris.Wrap(model.ErrInvalidRequest, "discovery: keyword and company name are mutually exclusive")
	}

	people, err := s.searchPeople(ctx, f)
	if err != nil {
		return nil, err
	}
	if len(people) == 0 && f.CompanyName != "" {
		zap.L().Info("no exact-name people match, retrying as keyword", zap.String("company", f.CompanyName))
		f.Keyword, f.CompanyName = f.CompanyName, ""
		if people, err = s.searchPeople(ctx, f); err != nil {
			return nil, err
		}
	}

	leads := make([]model.Lead, 0, len(people))
	for _, p := range people {
		leads = append(leads, personToLead(p))
	}
	return leads, nil
}

func (s *Service) searchPeople(ctx context.Context, f PeopleFilters) ([]apollo.Person, error) {
	req := apollo.PeopleSearchRequest{
		Keywords:         f.Keyword,
		OrganizationName: f.CompanyName,
		Titles:           f.Titles,
		Seniorities:      f.Seniorities,
		Locations:        f.Locations,
		EmployeeRanges:   f.EmployeeRanges,
	}

	retry := s.retry
	retry.OnRetry = resilience.Logger("apollo", "search_people")

	out, err := paginate(ctx, target(f.TargetCount), s.pageSize, ms(s.cfg.BatchDelayMs), func(ctx context.Context, page int) ([]apollo.Person, error) {
		r := req
		r.Page, r.PerPage = page, s.pageSize
		resp, err := resilience.DoVal(ctx, retry, func(ctx context.Context) (*apollo.PeopleSearchResponse, error) {
			return s.apollo.SearchPeople(ctx, r)
		})
		if err != nil {
			return nil, err
		}
		return resp.All(), nil
	})
	return out, eris.Wrap(err, "discovery: search people")
}

// paginate fetches ceil(targetCount/pageSize) pages in order, pausing
// between them. It stops early on a short page and trims the result to
// targetCount. A failed first page is an error; a later failure returns the
// pages already collected.
func paginate[T any](ctx context.Context, targetCount, pageSize int, delay time.Duration, fetch func(ctx context.Context, page int) ([]T, error)) ([]T, error) {
	if pageSize <= 0 {
		pageSize = apollo.MaxPageSize
	}
	pages := (targetCount + pageSize - 1) / pageSize

	var out []T
	for page := 1; page <= pages; page++ {
		if page > 1 {
			if err := pause(ctx, delay); err != nil {
				break
			}
		}

		items, err := fetch(ctx, page)
		if err != nil {
			if page == 1 {
				return nil, err
			}
			zap.L().Warn("page fetch failed, keeping partial results", zap.Int("page", page), zap.Error(err))
			break
		}

		out = append(out, items...)
		if len(items) < pageSize || len(out) >= targetCount {
			break
		}
	}

	if len(out) > targetCount {
		out = out[:targetCount]
	}
	return out, nil
}

func target(n int) int {
	if n <= 0 {
		return defaultTargetCount
	}
	return n
}

func organizationToLead(o apollo.Organization) model.Lead {
	l := model.Lead{
		ID:              model.NewID(),
		Source:          model.SourceOrganizationSearch,
		OrganizationID:  o.ID,
		CompanyName:     o.Name,
		Phone:           o.BestPhone(),
		Address:         o.Address(),
		Zipcode:         o.PostalCode,
		City:            o.City,
		State:           o.State,
		Country:         o.Country,
		Industry:        o.Industry,
		Website:         o.Website(),
		Revenue:         o.AnnualRevenuePrinted,
		BusinessDetails: o.ShortDescription,
		SocialMedia: model.SocialMedia{
			LinkedIn: o.LinkedInURL,
			Facebook: o.FacebookURL,
			Twitter:  o.TwitterURL,
		},
	}
	if o.EstimatedNumEmployees > 0 {
		l.EmployeeCount = strconv.Itoa(o.EstimatedNumEmployees)
	}
	return normalizeLead(l)
}

func personToLead(p apollo.Person) model.Lead {
	org := p.Organization
	if org == nil {
		org = &apollo.Organization{}
	}

	l := organizationToLead(*org)
	l.Source = model.SourcePeopleSearch
	l.PersonID = p.ID
	l.OwnerName = p.FullName()
	l.OwnerTitle = strings.TrimSpace(p.Title)
	l.Email = p.BestEmail()
	if phone := p.BestPhone(); phone != "" {
		l.Phone = phone
	}
	l.City = firstNonEmpty(p.City, l.City)
	l.State = firstNonEmpty(p.State, l.State)
	l.Country = firstNonEmpty(p.Country, l.Country)
	if p.LinkedInURL != "" && l.SocialMedia.LinkedIn == "" {
		l.SocialMedia.LinkedIn = p.LinkedInURL
	}
	return normalizeLead(l)
}
