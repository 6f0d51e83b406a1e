package enrich

import (
	"strings"

	"github.com/sells-group/lead-cli/internal/model"
)

var entitySuffixes = []string{"-llc", "-inc", "-corp", "-ltd", "-co"}

// LinkedInURL guesses a LinkedIn company page from a business name.
func LinkedInURL(name string) string {
	slug := companySlug(name, "-")
	for _, suffix := range entitySuffixes {
		slug = strings.TrimSuffix(slug, suffix)
	}
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return ""
	}
	return "https://www.linkedin.com/company/" + slug
}

// FacebookURL guesses a Facebook page from a business name.
func FacebookURL(name string) string {
	slug := companySlug(name, "")
	if slug == "" {
		return ""
	}
	return "https://www.facebook.com/" + slug
}

var slugReplacer = strings.NewReplacer("&", " and ", "'", "", "\u2019", "")

// companySlug lowercases name, spells out "&", drops apostrophes and joins
// the remaining alphanumeric runs with sep.
func companySlug(name, sep string) string {
	name = slugReplacer.Replace(strings.ToLower(strings.TrimSpace(name)))
	words := strings.FieldsFunc(name, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	return strings.Join(words, sep)
}

// attachSocials fills empty LinkedIn and Facebook slots with guessed URLs.
func attachSocials(l *model.Lead) {
	if !model.HasValue(l.CompanyName) {
		return
	}
	if l.SocialMedia.LinkedIn == "" {
		if u := LinkedInURL(l.CompanyName); u != "" {
			l.SocialMedia.LinkedIn = u
			l.SocialMedia.Derived = true
		}
	}
	if l.SocialMedia.Facebook == "" {
		if u := FacebookURL(l.CompanyName); u != "" {
			l.SocialMedia.Facebook = u
			l.SocialMedia.Derived = true
		}
	}
}
