package enrich

import (
	"context"
	"strconv"

	"github.com/sells-group/lead-cli/internal/model"
	"github.com/sells-group/lead-cli/internal/normalize"
	"github.com/sells-group/lead-cli/internal/resilience"
	"github.com/sells-group/lead-cli/pkg/apollo"
)

// Organization looks up the lead's company by website domain, or by exact
// name when no domain is derivable. It returns nil when unconfigured, on no
// match, or on error.
func (s *Service) Organization(ctx context.Context, lead model.Lead) *apollo.Organization {
	return runStep(ctx, StepOrganization, func(ctx context.Context) (*apollo.Organization, error) {
		return s.organization(ctx, lead)
	})
}

func (s *Service) organization(ctx context.Context, lead model.Lead) (*apollo.Organization, error) {
	if s.apollo == nil {
		skipUnconfigured(StepOrganization)
		return nil, nil
	}

	if domain := Domain(lead.Website); domain != "" {
		return resilience.DoVal(ctx, s.retryFor("apollo", "enrich_organization"), func(ctx context.Context) (*apollo.Organization, error) {
			return s.apollo.EnrichOrganization(ctx, domain)
		})
	}

	if !model.HasValue(lead.CompanyName) {
		return nil, nil
	}
	resp, err := resilience.DoVal(ctx, s.retryFor("apollo", "search_organizations"), func(ctx context.Context) (*apollo.OrganizationSearchResponse, error) {
		return s.apollo.SearchOrganizations(ctx, apollo.OrganizationSearchRequest{
			Name:      lead.CompanyName,
			Locations: locations(lead),
			Page:      1,
			PerPage:   1,
		})
	})
	if err != nil {
		return nil, err
	}
	if all := resp.All(); len(all) > 0 {
		return &all[0], nil
	}
	return nil, nil
}

// mergeOrganization overlays the non-empty organization fields on the lead.
func mergeOrganization(l *model.Lead, o *apollo.Organization) {
	setIf(&l.CompanyName, o.Name)
	setIf(&l.Website, o.Website())
	setIf(&l.Industry, o.Industry)
	setIf(&l.Revenue, o.AnnualRevenuePrinted)
	setIf(&l.City, o.City)
	setIf(&l.State, o.State)
	setIf(&l.Country, o.Country)
	setIf(&l.BusinessDetails, o.ShortDescription)
	if p := normalize.Phone(o.BestPhone()); model.HasValue(p) {
		l.Phone = p
	}
	if a := normalize.Address(o.Address()); model.HasValue(a) {
		l.Address = a
	}
	if z := normalize.PostalCode(o.PostalCode); model.HasValue(z) {
		l.Zipcode = z
	}
	if o.EstimatedNumEmployees > 0 {
		l.EmployeeCount = strconv.Itoa(o.EstimatedNumEmployees)
	}
	setIf(&l.SocialMedia.LinkedIn, o.LinkedInURL)
	setIf(&l.SocialMedia.Facebook, o.FacebookURL)
	setIf(&l.SocialMedia.Twitter, o.TwitterURL)
	if o.ID != "" && l.OrganizationID == "" {
		l.OrganizationID = o.ID
	}
	l.ApolloEnriched = true
}

func locations(l model.Lead) []string {
	var loc []string
	for _, v := range []string{l.City, l.State, l.Country} {
		if model.HasValue(v) {
			loc = append(loc, v)
		}
	}
	if len(loc) == 0 {
		return nil
	}
	return []string{joinComma(loc)}
}

// setIf assigns v to *dst when v carries a value.
func setIf(dst *string, v string) {
	if model.HasValue(v) {
		*dst = v
	}
}
