// Package normalize cleans raw provider values (phone numbers, postal codes,
// street addresses) into validated strings or the N/A literal.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/sells-group/lead-cli/internal/model"
)

// minPhoneDigits is the fewest digits a phone number may carry.
const minPhoneDigits = 7

// maxPostalLen is the longest postal code accepted after cleaning.
const maxPostalLen = 15

var (
	phoneStrip  = regexp.MustCompile(`[^0-9\s\-().+]`)
	postalStrip = regexp.MustCompile(`[^A-Za-z0-9\s\-]`)
	spaceRun    = regexp.MustCompile(`\s+`)
)

// Phone keeps digits, spaces, dashes, parentheses, dots and plus signs.
// Fewer than seven remaining digits yields N/A.
func Phone(raw string) string {
	if !model.HasValue(raw) {
		return model.NA
	}
	cleaned := phoneStrip.ReplaceAllString(raw, "")
	cleaned = strings.TrimSpace(spaceRun.ReplaceAllString(cleaned, " "))
	if CountDigits(cleaned) < minPhoneDigits {
		return model.NA
	}
	return cleaned
}

// postalDenylist holds words that show up when a provider put descriptive
// text in the postal-code slot.
var postalDenylist = []string{
	"united states", "united kingdom", "usa", "america", "canada",
	"county", "street", "avenue", "road", "province", "district",
	"state", "city", "township", "parish",
}

// PostalCode keeps alphanumerics, spaces and dashes. Values longer than 15
// characters or containing administrative words yield N/A.
func PostalCode(raw string) string {
	if !model.HasValue(raw) {
		return model.NA
	}
	cleaned := postalStrip.ReplaceAllString(raw, "")
	cleaned = strings.TrimSpace(spaceRun.ReplaceAllString(cleaned, " "))
	if cleaned == "" || len(cleaned) > maxPostalLen {
		return model.NA
	}
	lower := strings.ToLower(cleaned)
	for _, word := range postalDenylist {
		if containsWord(lower, word) {
			return model.NA
		}
	}
	return cleaned
}

// minAddressLen is the shortest plausible street address.
const minAddressLen = 10

// Address passes a street address through trimmed, or returns N/A when the
// value looks like a phone number, a person's name, or is too short.
func Address(raw string) string {
	if !model.HasValue(raw) {
		return model.NA
	}
	s := strings.TrimSpace(spaceRun.ReplaceAllString(raw, " "))
	if len(s) < minAddressLen {
		return model.NA
	}
	if IsDigitDense(s) || LooksLikePhone(s) || LooksLikePersonName(s) {
		return model.NA
	}
	return s
}

// CountDigits returns the number of ASCII digits in s.
func CountDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// Digits returns only the ASCII digits of s.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsDigitDense reports a short value (under 30 characters) where more than
// 40% of the characters are digits.
func IsDigitDense(s string) bool {
	if s == "" || len(s) >= 30 {
		return false
	}
	return float64(CountDigits(s))/float64(len(s)) > 0.4
}

var phoneShapes = []*regexp.Regexp{
	regexp.MustCompile(`^\+?[\d\s\-().]{7,}$`),
	regexp.MustCompile(`^\(?\d{3}\)?[\s.\-]?\d{3}[\s.\-]?\d{4}$`),
	regexp.MustCompile(`^\+\d{1,3}[\s.\-]?\(?\d{1,4}\)?[\s.\-]?\d{3,4}[\s.\-]?\d{3,4}$`),
}

// LooksLikePhone reports whether s matches a common phone-number shape.
func LooksLikePhone(s string) bool {
	s = strings.TrimSpace(s)
	for _, re := range phoneShapes {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

var capitalizedWords = regexp.MustCompile(`^[A-Z][a-z'.\-]*(\s+[A-Z][a-z'.\-]*){1,3}$`)

var streetIndicators = map[string]bool{
	"street": true, "st": true, "avenue": true, "ave": true, "road": true,
	"rd": true, "boulevard": true, "blvd": true, "lane": true, "ln": true,
	"drive": true, "dr": true, "court": true, "ct": true, "way": true,
	"place": true, "pl": true, "suite": true, "ste": true, "highway": true,
	"hwy": true, "parkway": true, "pkwy": true, "plaza": true, "square": true,
	"sq": true, "circle": true, "cir": true, "terrace": true, "trail": true,
	"floor": true, "building": true, "box": true, "route": true, "rte": true,
}

// LooksLikePersonName reports a sequence of two to four capitalized words
// with no digit and no street indicator, e.g. "Jane Marie Doe".
func LooksLikePersonName(s string) bool {
	s = strings.TrimSpace(s)
	if !capitalizedWords.MatchString(s) {
		return false
	}
	for _, r := range s {
		if unicode.IsDigit(r) {
			return false
		}
	}
	for _, w := range strings.Fields(s) {
		if streetIndicators[strings.Trim(strings.ToLower(w), ".,")] {
			return false
		}
	}
	return true
}

// containsWord reports whether needle occurs in text bounded by
// non-alphanumeric characters. Both must already be lowercased.
func containsWord(text, needle string) bool {
	start := 0
	for {
		idx := strings.Index(text[start:], needle)
		if idx < 0 {
			return false
		}
		abs := start + idx
		end := abs + len(needle)
		leftOK := abs == 0 || !isAlnum(text[abs-1])
		rightOK := end == len(text) || !isAlnum(text[end])
		if leftOK && rightOK {
			return true
		}
		start = abs + 1
	}
}

func isAlnum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
