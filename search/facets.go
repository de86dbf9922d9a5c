package search

import (
	"github.com/montrey/shelf/catalog"
)

// FacetValue is one selectable value of a facet and how many products carry it.
type FacetValue struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Facets summarizes the filterable values present in a product list.
type Facets struct {
	Categories []FacetValue `json:"categories"`
	Origins    []FacetValue `json:"origins"`
	Statuses   []FacetValue `json:"status"`
	Types      []FacetValue `json:"types"`
	Brands     []FacetValue `json:"brands"`
	PriceRange PriceRange   `json:"priceRange"`
}

type facetCounter struct {
	index  map[string]int
	values []FacetValue
}

func (c *facetCounter) add(value, label string) {
	if value == "" {
		return
	}
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if i, ok := c.index[value]; ok {
		c.values[i].Count++
		return
	}
	c.index[value] = len(c.values)
	c.values = append(c.values, FacetValue{Value: value, Label: label, Count: 1})
}

// CollectFacets counts facet values in first-seen order. The price range
// spans the lowest and highest selling price.
func CollectFacets(products []catalog.Product) Facets {
	var categories, origins, statuses, types, brands facetCounter
	var f Facets

	for i, p := range products {
		categories.add(p.Category.Slug, p.Category.Name)
		origins.add(string(p.Origin), string(p.Origin))
		statuses.add(string(p.Status), string(p.Status))
		types.add(string(p.Type), string(p.Type))
		brands.add(p.Brand, p.Brand)

		if i == 0 || p.SellingPrice < f.PriceRange.Min {
			f.PriceRange.Min = p.SellingPrice
		}
		if p.SellingPrice > f.PriceRange.Max {
			f.PriceRange.Max = p.SellingPrice
		}
	}

	f.Categories = categories.values
	f.Origins = origins.values
	f.Statuses = statuses.values
	f.Types = types.values
	f.Brands = brands.values
	return f
}
