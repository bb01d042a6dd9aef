package categorize

import (
	"context"
	"strings"
)

// hints maps common category names to vendor name fragments that suggest them
var hints = map[string][]string{
	"grocery":        {"market", "grocer", "foods", "supermarket", "kroger", "safeway", "aldi", "trader joe", "costco", "whole foods"},
	"food":           {"cafe", "coffee", "restaurant", "pizza", "grill", "bakery", "burger", "kitchen", "starbucks", "mcdonald", "chipotle", "subway"},
	"dining":         {"cafe", "coffee", "restaurant", "pizza", "grill", "bistro", "diner", "bar", "starbucks", "mcdonald"},
	"entertainment":  {"cinema", "theater", "theatre", "netflix", "spotify", "amc", "ticket", "games", "bowling"},
	"utilities":      {"electric", "energy", "water", "power", "comcast", "verizon", "at&t", "t-mobile", "internet"},
	"travel":         {"airline", "airways", "hotel", "inn", "resort", "airbnb", "expedia", "marriott", "hilton"},
	"transportation": {"uber", "lyft", "taxi", "transit", "shell", "chevron", "exxon", "parking", "fuel"},
	"health":         {"pharmacy", "cvs", "walgreens", "clinic", "medical", "dental", "hospital"},
	"shopping":       {"amazon", "target", "walmart", "mall", "outlet", "ikea", "best buy"},
	"office":         {"staples", "office depot", "officemax", "print", "fedex", "ups store"},
}

// Keyword is a deterministic categorizer that matches the vendor name
// against the candidate labels and a small table of vendor hints
type Keyword struct{}

// NewKeyword creates a new Keyword categorizer
func NewKeyword() *Keyword {
	return &Keyword{}
}

// Categorize returns the first candidate that fits the vendor, or Uncategorized
func (k *Keyword) Categorize(_ context.Context, vendor string, categories string) (string, error) {
	candidates := Split(categories)
	if len(candidates) == 0 {
		return Uncategorized, nil
	}
	name := strings.ToLower(vendor)

	// The vendor name mentions a candidate directly, e.g. "Joe's Grocery"
	for _, c := range candidates {
		if strings.Contains(name, strings.ToLower(c)) {
			return c, nil
		}
	}

	for _, c := range candidates {
		for key, fragments := range hints {
			if !strings.Contains(strings.ToLower(c), key) {
				continue
			}
			for _, f := range fragments {
				if strings.Contains(name, f) {
					return c, nil
				}
			}
		}
	}

	return Uncategorized, nil
}
