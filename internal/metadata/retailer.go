package metadata

import "strings"

// Known storefront domains mapped to display labels. Matching is
// case-insensitive suffix matching with any leading "www." stripped.
var retailerDomains = []struct {
	domain string
	label  string
}{
	{"amazon.com", "Amazon"},
	{"target.com", "Target"},
	{"walmart.com", "Walmart"},
	{"bestbuy.com", "Best Buy"},
	{"ikea.com", "IKEA"},
	{"wayfair.com", "Wayfair"},
	{"etsy.com", "Etsy"},
	{"chewy.com", "Chewy"},
}

// DetectRetailer maps a hostname to a known storefront label, falling back to
// the bare hostname for anything unrecognized.
func DetectRetailer(host string) string {
	cleaned := strings.ToLower(strings.TrimSpace(host))
	cleaned = strings.TrimPrefix(cleaned, "www.")
	if cleaned == "" {
		return ""
	}

	for _, entry := range retailerDomains {
		if cleaned == entry.domain || strings.HasSuffix(cleaned, "."+entry.domain) {
			return entry.label
		}
	}
	return cleaned
}
