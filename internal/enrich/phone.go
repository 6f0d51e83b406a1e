package enrich

import (
	"context"
	"strings"

	"github.com/sells-group/lead-cli/internal/model"
	"github.com/sells-group/lead-cli/internal/normalize"
	"github.com/sells-group/lead-cli/internal/resilience"
	"github.com/sells-group/lead-cli/pkg/numverify"
)

// Phone validates the lead's phone number. A number the provider reports as
// invalid still yields a record. It returns nil when unconfigured, when the
// lead has no phone, or on error.
func (s *Service) Phone(ctx context.Context, lead model.Lead) *model.PhoneValidation {
	return runStep(ctx, StepPhone, func(ctx context.Context) (*model.PhoneValidation, error) {
		if s.numverify == nil {
			skipUnconfigured(StepPhone)
			return nil, nil
		}
		number := BarePhone(lead.Phone)
		if number == "" {
			return nil, nil
		}

		v, err := resilience.DoVal(ctx, s.retryFor("numverify", "validate"), func(ctx context.Context) (*numverify.Validation, error) {
			return s.numverify.Validate(ctx, number)
		})
		if err != nil {
			return nil, err
		}
		return &model.PhoneValidation{
			Valid:               v.Valid,
			Number:              firstValue(v.Number, number),
			InternationalFormat: v.InternationalFormat,
			LocalFormat:         v.LocalFormat,
			CountryCode:         v.CountryCode,
			Carrier:             v.Carrier,
			LineType:            v.LineType,
		}, nil
	})
}

// BarePhone strips formatting and a leading "+" or "00" from a phone value.
// It returns "" for a missing phone.
func BarePhone(phone string) string {
	if !model.HasValue(phone) {
		return ""
	}
	digits := normalize.Digits(phone)
	return strings.TrimPrefix(digits, "00")
}

// mergePhone attaches the validation record. The raw phone is never
// replaced; a valid international format becomes the display phone.
func mergePhone(l *model.Lead, v *model.PhoneValidation) {
	l.PhoneValidation = v
	if v.Valid && v.InternationalFormat != "" {
		l.PhoneFormatted = v.InternationalFormat
	}
}

func firstValue(vals ...string) string {
	for _, v := range vals {
		if model.HasValue(v) {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
