package enrich

import (
	"context"
	"strings"

	"github.com/sells-group/lead-cli/internal/model"
	"github.com/sells-group/lead-cli/internal/resilience"
	"github.com/sells-group/lead-cli/pkg/hunter"
)

// ownerPositionKeywords mark a mailbox as belonging to a decision-maker.
var ownerPositionKeywords = []string{"owner", "ceo", "founder", "president", "partner"}

// EmailResult is the chosen mailbox for a domain.
type EmailResult struct {
	Domain     string   `json:"domain"`
	Email      string   `json:"email"`
	Name       string   `json:"name,omitempty"`
	Position   string   `json:"position,omitempty"`
	Confidence int      `json:"confidence"`
	All        []string `json:"all,omitempty"`
}

// Email searches the lead's website domain for mailboxes. It returns nil
// when unconfigured, when no domain is derivable, on no match, or on error.
func (s *Service) Email(ctx context.Context, lead model.Lead) *EmailResult {
	return runStep(ctx, StepEmail, func(ctx context.Context) (*EmailResult, error) {
		return s.email(ctx, lead.Website)
	})
}

func (s *Service) email(ctx context.Context, website string) (*EmailResult, error) {
	if s.hunter == nil {
		skipUnconfigured(StepEmail)
		return nil, nil
	}
	domain := Domain(website)
	if domain == "" {
		return nil, nil
	}

	res, err := resilience.DoVal(ctx, s.retryFor("hunter", "domain_search"), func(ctx context.Context) (*hunter.DomainSearchResult, error) {
		return s.hunter.DomainSearch(ctx, domain)
	})
	if err != nil {
		return nil, err
	}
	if len(res.Emails) == 0 {
		return nil, nil
	}

	pick := &res.Emails[0]
	for i := range res.Emails {
		if isOwnerPosition(res.Emails[i].Position) {
			pick = &res.Emails[i]
			break
		}
	}

	out := &EmailResult{
		Domain:     domain,
		Email:      pick.Value,
		Name:       pick.FullName(),
		Position:   pick.Position,
		Confidence: pick.Confidence,
	}
	for _, m := range res.Emails {
		out.All = append(out.All, m.Value)
	}
	return out, nil
}

func isOwnerPosition(position string) bool {
	p := strings.ToLower(position)
	for _, k := range ownerPositionKeywords {
		if strings.Contains(p, k) {
			return true
		}
	}
	return false
}

// mergeEmail sets the email and, when the owner is still unknown, the
// mailbox owner's name.
func mergeEmail(l *model.Lead, e *EmailResult) {
	setIf(&l.Email, e.Email)
	if !model.HasValue(l.OwnerName) && isOwnerPosition(e.Position) {
		setIf(&l.OwnerName, e.Name)
		setIf(&l.OwnerTitle, e.Position)
	}
	l.HunterEnriched = true
}
