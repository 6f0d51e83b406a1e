package discovery

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// industryRules map place category tags to industry labels. Order is
// preference: the first rule with any matching tag wins.
var industryRules = []struct {
	label string
	tags  []string
}{
	{"Restaurant", []string{"restaurant", "meal_takeaway", "meal_delivery"}},
	{"Retail", []string{
		"store", "clothing_store", "shoe_store", "electronics_store", "furniture_store",
		"hardware_store", "home_goods_store", "jewelry_store", "department_store",
		"book_store", "shopping_mall", "pet_store", "bicycle_store", "florist",
	}},
	{"Healthcare", []string{"hospital", "doctor", "dentist", "health", "pharmacy", "physiotherapist", "veterinary_care"}},
	{"Legal", []string{"lawyer"}},
	{"Real Estate", []string{"real_estate_agency"}},
	{"Food & Beverage", []string{"food", "cafe", "bakery", "bar", "liquor_store", "supermarket", "grocery_or_supermarket"}},
	{"Fitness", []string{"gym"}},
	{"Beauty & Wellness", []string{"beauty_salon", "hair_care", "spa"}},
}

// genericTags carry no industry signal.
var genericTags = map[string]bool{
	"point_of_interest": true,
	"establishment":     true,
}

// Industry maps category tags to an industry label: the first matching rule,
// else the first specific tag title-cased, else "Business".
func Industry(tags []string) string {
	set := make(map[string]bool, len(tags))
	for _, t := range tags {
		set[strings.ToLower(t)] = true
	}
	for _, r := range industryRules {
		for _, t := range r.tags {
			if set[t] {
				return r.label
			}
		}
	}
	for _, t := range tags {
		if t == "" || genericTags[strings.ToLower(t)] {
			continue
		}
		return cases.Title(language.English).String(strings.ReplaceAll(t, "_", " "))
	}
	return "Business"
}
