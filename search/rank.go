package search

import (
	"cmp"
	"slices"

	"github.com/montrey/shelf/catalog"
)

// Weights are the relevance points a product earns when the query occurs in
// each field. They are tuning knobs rather than business rules.
type Weights struct {
	Name        int `json:"name" yaml:"name"`
	Tag         int `json:"tag" yaml:"tag"`
	Description int `json:"description" yaml:"description"`
}

// DefaultWeights favour name matches over tag matches over description matches.
var DefaultWeights = Weights{Name: 3, Tag: 2, Description: 1}

// Score returns the relevance of p for query. Each field contributes its
// weight at most once.
func (w Weights) Score(p catalog.Product, query string) int {
	q := normalizeQuery(query)
	if q == "" {
		return 0
	}
	score := 0
	if containsFold(p.Name, q) {
		score += w.Name
	}
	if anyContainsFold(p.Tags, q) {
		score += w.Tag
	}
	if containsFold(p.Description, q) {
		score += w.Description
	}
	return score
}

// SortProducts returns a copy of products ordered by mode. The sort is stable
// in every mode, so ties keep catalog order. Unknown modes rank by relevance.
func SortProducts(products []catalog.Product, mode SortMode, query string, w Weights) []catalog.Product {
	out := slices.Clone(products)

	switch mode {
	case SortPriceAsc:
		slices.SortStableFunc(out, func(a, b catalog.Product) int {
			return cmp.Compare(a.SellingPrice, b.SellingPrice)
		})
	case SortPriceDesc:
		slices.SortStableFunc(out, func(a, b catalog.Product) int {
			return cmp.Compare(b.SellingPrice, a.SellingPrice)
		})
	case SortRating:
		slices.SortStableFunc(out, func(a, b catalog.Product) int {
			return cmp.Compare(b.Rating.Average, a.Rating.Average)
		})
	case SortPopularity:
		slices.SortStableFunc(out, func(a, b catalog.Product) int {
			return cmp.Compare(b.Rating.Count, a.Rating.Count)
		})
	case SortNewest:
		slices.SortStableFunc(out, func(a, b catalog.Product) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	default:
		if normalizeQuery(query) == "" {
			return out
		}
		// Score once per product rather than once per comparison
		type scored struct {
			p     catalog.Product
			score int
		}
		ranked := make([]scored, len(out))
		for i, p := range out {
			ranked[i] = scored{p: p, score: w.Score(p, query)}
		}
		slices.SortStableFunc(ranked, func(a, b scored) int {
			return cmp.Compare(b.score, a.score)
		})
		for i, r := range ranked {
			out[i] = r.p
		}
	}
	return out
}
