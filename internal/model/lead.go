// Package model defines the lead record and search-area types shared by the
// discovery and enrichment packages.
package model

import (
	"strings"

	"github.com/google/uuid"
)

// NA is the literal stored in a field whose value could not be determined.
const NA = "N/A"

// Discovery source labels.
const (
	SourcePlaceSearch        = "Place Search API"
	SourceOrganizationSearch = "Organization Search"
	SourcePeopleSearch       = "People Search"
	SourceManual             = "Manual Entry"
)

// AIMode selects which AI verification adapters run during enrichment.
type AIMode string

const (
	AIModeBoth          AIMode = "both"
	AIModePrimaryOnly   AIMode = "primaryOnly"
	AIModeSecondaryOnly AIMode = "secondaryOnly"
)

// ParseAIMode converts a caller-supplied string into an AIMode, defaulting to
// AIModeBoth for empty or unknown values.
func ParseAIMode(s string) AIMode {
	switch AIMode(strings.TrimSpace(s)) {
	case AIModePrimaryOnly:
		return AIModePrimaryOnly
	case AIModeSecondaryOnly:
		return AIModeSecondaryOnly
	default:
		return AIModeBoth
	}
}

// RunsPrimary reports whether the primary analyzer runs in this mode.
func (m AIMode) RunsPrimary() bool { return m != AIModeSecondaryOnly }

// RunsSecondary reports whether the secondary analyzer runs in this mode.
func (m AIMode) RunsSecondary() bool { return m != AIModePrimaryOnly }

// ConfidenceSource records how AIConfidence was derived. ConfidenceMock marks
// the zero-credential demo fallback and is never a genuine score.
type ConfidenceSource string

const (
	ConfidenceNone      ConfidenceSource = ""
	ConfidenceBoth      ConfidenceSource = "both"
	ConfidencePrimary   ConfidenceSource = "primary"
	ConfidenceSecondary ConfidenceSource = "secondary"
	ConfidenceMock      ConfidenceSource = "mock"
)

// AI source labels written to Lead.AISource.
const (
	AISourceBoth      = "Primary + Secondary"
	AISourcePrimary   = "Primary"
	AISourceSecondary = "Secondary"
	AISourceMock      = "Mock Data"
)

// PhoneValidation is the phone-validator sub-record.
type PhoneValidation struct {
	Valid               bool   `json:"valid"`
	Number              string `json:"number,omitempty"`
	InternationalFormat string `json:"internationalFormat,omitempty"`
	LocalFormat         string `json:"localFormat,omitempty"`
	CountryCode         string `json:"countryCode,omitempty"`
	Carrier             string `json:"carrier,omitempty"`
	LineType            string `json:"lineType,omitempty"`
}

// SocialMedia holds company profile URLs.
type SocialMedia struct {
	LinkedIn  string `json:"linkedin,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	// Derived is true when at least one URL was synthesized from the company
	// name rather than returned by a provider.
	Derived bool `json:"derived,omitempty"`
}

// Lead is a normalized business record produced by discovery and
// progressively enriched.
type Lead struct {
	ID string `json:"id"`

	CompanyName string `json:"companyName"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Zipcode     string `json:"zipcode"`
	City        string `json:"city"`
	State       string `json:"state"`
	Country     string `json:"country"`
	Industry    string `json:"industry"`
	Website     string `json:"website"`

	Source         string  `json:"source,omitempty"`
	PlaceID        string  `json:"placeId,omitempty"`
	OrganizationID string  `json:"organizationId,omitempty"`
	PersonID       string  `json:"personId,omitempty"`
	Rating         float64 `json:"rating,omitempty"`
	ReviewCount    int     `json:"reviewCount,omitempty"`
	Latitude       float64 `json:"latitude,omitempty"`
	Longitude      float64 `json:"longitude,omitempty"`

	OwnerName       string           `json:"ownerName,omitempty"`
	OwnerTitle      string           `json:"ownerTitle,omitempty"`
	Email           string           `json:"email,omitempty"`
	PhoneFormatted  string           `json:"phoneFormatted,omitempty"`
	PhoneValidation *PhoneValidation `json:"phoneValidation,omitempty"`
	EmployeeCount   string           `json:"employeeCount,omitempty"`
	Revenue         string           `json:"revenue,omitempty"`
	BusinessDetails string           `json:"businessDetails,omitempty"`
	SocialMedia     SocialMedia      `json:"socialMedia"`

	Categories   []string `json:"categories,omitempty"`
	Photos       []string `json:"photos,omitempty"`
	Hours        []string `json:"hours,omitempty"`
	ReviewURL    string   `json:"reviewUrl,omitempty"`
	YelpID       string   `json:"yelpId,omitempty"`
	YelpVerified bool     `json:"yelpVerified,omitempty"`

	ApolloEnriched bool `json:"apolloEnriched"`
	PDLEnriched    bool `json:"pdlEnriched"`
	HunterEnriched bool `json:"hunterEnriched"`
	YelpEnriched   bool `json:"yelpEnriched"`

	AIConfidence     int              `json:"aiConfidence"`
	AISource         string           `json:"aiSource,omitempty"`
	ConfidenceSource ConfidenceSource `json:"confidenceSource,omitempty"`
	Verified         bool             `json:"verified"`

	// FieldSources names the winning source for every field resolved by the
	// final merge.
	FieldSources map[Field]FieldSource `json:"fieldSources,omitempty"`
}

// NewID returns a fresh lead identifier.
func NewID() string {
	return uuid.NewString()
}

// EnsureID assigns an identifier if the lead has none. An existing ID is
// never replaced.
func (l *Lead) EnsureID() {
	if l.ID == "" {
		l.ID = NewID()
	}
}

// Clone returns a deep copy of the lead so callers never share slices, maps
// or the validation sub-record.
func (l Lead) Clone() Lead {
	out := l
	if l.PhoneValidation != nil {
		pv := *l.PhoneValidation
		out.PhoneValidation = &pv
	}
	out.Categories = append([]string(nil), l.Categories...)
	out.Photos = append([]string(nil), l.Photos...)
	out.Hours = append([]string(nil), l.Hours...)
	if l.FieldSources != nil {
		out.FieldSources = make(map[Field]FieldSource, len(l.FieldSources))
		for k, v := range l.FieldSources {
			out.FieldSources[k] = v
		}
	}
	return out
}

// HasValue reports whether s carries real content, i.e. is neither blank nor
// the N/A literal.
func HasValue(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && !strings.EqualFold(s, NA)
}

// OrNA returns s trimmed, or NA when it has no value.
func OrNA(s string) string {
	if !HasValue(s) {
		return NA
	}
	return strings.TrimSpace(s)
}

func trim(s string) string { return strings.TrimSpace(s) }
