package model

// Field names a mergeable lead attribute.
type Field string

const (
	FieldCompanyName     Field = "companyName"
	FieldPhone           Field = "phone"
	FieldAddress         Field = "address"
	FieldZipcode         Field = "zipcode"
	FieldCity            Field = "city"
	FieldState           Field = "state"
	FieldCountry         Field = "country"
	FieldIndustry        Field = "industry"
	FieldWebsite         Field = "website"
	FieldOwnerName       Field = "ownerName"
	FieldEmail           Field = "email"
	FieldEmployeeCount   Field = "employeeCount"
	FieldRevenue         Field = "revenue"
	FieldBusinessDetails Field = "businessDetails"
)

// FieldSource identifies which input won the merge for a field.
type FieldSource string

const (
	FromHuman      FieldSource = "human"
	FromPrimaryAI  FieldSource = "primary_ai"
	FromSecondary  FieldSource = "secondary_ai"
	FromBothAI     FieldSource = "both_ai"
	FromEnrichment FieldSource = "enrichment"
	FromNA         FieldSource = "n/a"
)

// HumanFields carries values a person typed in. Non-empty entries always win
// the final merge.
type HumanFields map[Field]string

// Get returns the trimmed human value for f, or "" when none was given.
func (h HumanFields) Get(f Field) string {
	if h == nil {
		return ""
	}
	v := h[f]
	if !HasValue(v) {
		return ""
	}
	return trim(v)
}

// Empty reports whether no field carries a value.
func (h HumanFields) Empty() bool {
	for _, v := range h {
		if HasValue(v) {
			return false
		}
	}
	return true
}

// Get returns the current value of f on the lead.
func (l *Lead) Get(f Field) string {
	if p := l.fieldPtr(f); p != nil {
		return *p
	}
	return ""
}

// Set assigns v to f on the lead. Unknown fields are ignored.
func (l *Lead) Set(f Field, v string) {
	if p := l.fieldPtr(f); p != nil {
		*p = v
	}
}

func (l *Lead) fieldPtr(f Field) *string {
	switch f {
	case FieldCompanyName:
		return &l.CompanyName
	case FieldPhone:
		return &l.Phone
	case FieldAddress:
		return &l.Address
	case FieldZipcode:
		return &l.Zipcode
	case FieldCity:
		return &l.City
	case FieldState:
		return &l.State
	case FieldCountry:
		return &l.Country
	case FieldIndustry:
		return &l.Industry
	case FieldWebsite:
		return &l.Website
	case FieldOwnerName:
		return &l.OwnerName
	case FieldEmail:
		return &l.Email
	case FieldEmployeeCount:
		return &l.EmployeeCount
	case FieldRevenue:
		return &l.Revenue
	case FieldBusinessDetails:
		return &l.BusinessDetails
	default:
		return nil
	}
}

// Fields lists every mergeable field in merge order.
var Fields = []Field{
	FieldCompanyName, FieldPhone, FieldAddress, FieldZipcode, FieldCity,
	FieldState, FieldCountry, FieldIndustry, FieldWebsite, FieldOwnerName,
	FieldEmail, FieldEmployeeCount, FieldRevenue, FieldBusinessDetails,
}
