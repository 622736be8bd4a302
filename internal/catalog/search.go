package catalog

import "strings"

// FilterCategories returns the categories whose name or text contains the
// query, case-insensitively. An empty query returns the input unchanged.
// Order is preserved; matching is binary membership, not ranked.
func FilterCategories(query string, items []Category) []Category {
	if query == "" {
		return items
	}
	needle := strings.ToLower(query)
	out := make([]Category, 0, len(items))
	for _, item := range items {
		if containsFold(item.Name, needle) || containsFold(item.Text, needle) {
			out = append(out, item)
		}
	}
	return out
}

// FilterStreets returns the streets whose name or house number contains the
// query, case-insensitively. An empty query returns the input unchanged.
func FilterStreets(query string, items []StreetNumber) []StreetNumber {
	if query == "" {
		return items
	}
	needle := strings.ToLower(query)
	out := make([]StreetNumber, 0, len(items))
	for _, item := range items {
		if containsFold(item.Name, needle) || containsFold(item.HouseNumber, needle) {
			out = append(out, item)
		}
	}
	return out
}

func containsFold(haystack, loweredNeedle string) bool {
	return strings.Contains(strings.ToLower(haystack), loweredNeedle)
}
