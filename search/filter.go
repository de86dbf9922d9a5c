package search

import (
	"slices"
	"strings"

	"github.com/montrey/shelf/catalog"
)

// ApplyFilters returns the products matching every active predicate of f,
// in their original relative order. Neither argument is modified.
func ApplyFilters(products []catalog.Product, f FilterState) []catalog.Product {
	search := normalizeQuery(f.Search)
	quick := normalizeQuery(f.QuickFilter)

	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if !inFacet(f.Categories, p.Category.Slug, p.Category.ID) {
			continue
		}
		if !inFacet(f.Origins, string(p.Origin)) {
			continue
		}
		if !inFacet(f.Statuses, string(p.Status)) {
			continue
		}
		if !inFacet(f.Types, string(p.Type)) {
			continue
		}
		if len(f.Brands) > 0 && !slices.ContainsFunc(f.Brands, func(b string) bool {
			return strings.EqualFold(b, p.Brand)
		}) {
			continue
		}
		if !f.PriceRange.contains(p.SellingPrice) {
			continue
		}
		if search != "" && !matchesText(p, search) {
			continue
		}
		if quick != "" && !matchesText(p, quick) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// inFacet reports whether any of values is a member of set. An empty set matches everything.
func inFacet(set []string, values ...string) bool {
	if len(set) == 0 {
		return true
	}
	for _, v := range values {
		if v != "" && slices.Contains(set, v) {
			return true
		}
	}
	return false
}

// matchesText reports whether q (already lowercased) occurs in the name,
// description or any tag of p.
func matchesText(p catalog.Product, q string) bool {
	return containsFold(p.Name, q) || containsFold(p.Description, q) || anyContainsFold(p.Tags, q)
}

func normalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

func containsFold(s, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(s), lowerQuery)
}

func anyContainsFold(values []string, lowerQuery string) bool {
	for _, v := range values {
		if containsFold(v, lowerQuery) {
			return true
		}
	}
	return false
}
