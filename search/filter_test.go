package search

import (
	"testing"

	"github.com/montrey/shelf/catalog"
	"github.com/stretchr/testify/assert"
)

func TestApplyFilters(t *testing.T) {
	products := testProducts()

	tests := []struct {
		name    string
		filters FilterState
		want    []string
	}{
		{name: "no filters", filters: FilterState{}, want: []string{"p1", "p2", "p3", "p4", "p5"}},
		{name: "category by slug", filters: FilterState{Categories: []string{"beauty"}}, want: []string{"p2", "p4"}},
		{name: "category by id", filters: FilterState{Categories: []string{"c3"}}, want: []string{"p3"}},
		{name: "origins", filters: FilterState{Origins: []string{"japan", "europe"}}, want: []string{"p1", "p3", "p5"}},
		{name: "status", filters: FilterState{Statuses: []string{"preorder", "out_of_stock"}}, want: []string{"p3", "p4"}},
		{name: "types", filters: FilterState{Types: []string{"ready_stock"}}, want: []string{"p1", "p5"}},
		{name: "brands ignore case", filters: FilterState{Brands: []string{"cosrx"}}, want: []string{"p2"}},
		{name: "price range inclusive", filters: FilterState{PriceRange: PriceRange{Min: 15, Max: 120}}, want: []string{"p1", "p2", "p4"}},
		{name: "price floor only", filters: FilterState{PriceRange: PriceRange{Min: 100}}, want: []string{"p1", "p5"}},
		{name: "search in name", filters: FilterState{Search: "  SNEAKERS "}, want: []string{"p1"}},
		{name: "search in tags and description", filters: FilterState{Search: "korean"}, want: []string{"p2", "p4"}},
		{name: "quick filter", filters: FilterState{QuickFilter: "shoes"}, want: []string{"p1", "p5"}},
		{name: "search and quick filter are anded", filters: FilterState{Search: "japan", QuickFilter: "shoes"}, want: []string{"p1"}},
		{name: "unknown facet value", filters: FilterState{Origins: []string{"mars"}}, want: []string{}},
		{
			name: "all predicates anded",
			filters: FilterState{
				Categories: []string{"shoes", "beauty"},
				Origins:    []string{"korea", "japan"},
				Statuses:   []string{"available"},
			},
			want: []string{"p1", "p2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyFilters(products, tt.filters)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestApplyFilters_TwoItemCatalog(t *testing.T) {
	products := []catalog.Product{
		{ID: "beauty-1", Name: "Lip Tint", Category: catalog.Category{Slug: "beauty"}, SellingPrice: 10},
		{ID: "shoes-1", Name: "Loafer", Category: catalog.Category{Slug: "shoes"}, SellingPrice: 80},
	}

	got := ApplyFilters(products, FilterState{Categories: []string{"beauty"}, Origins: []string{}})
	assert.Equal(t, []string{"beauty-1"}, ids(got))
}

func TestApplyFilters_EmptyFacetsPassThrough(t *testing.T) {
	products := testProducts()

	withSearch := ApplyFilters(products, FilterState{Search: "shoes"})
	withEmptyFacets := ApplyFilters(products, FilterState{
		Search:     "shoes",
		Categories: []string{},
		Origins:    []string{},
		Statuses:   []string{},
		Types:      []string{},
		Brands:     []string{},
	})
	assert.Equal(t, ids(withSearch), ids(withEmptyFacets))
}

func TestApplyFilters_Monotonic(t *testing.T) {
	products := testProducts()
	base := FilterState{Search: "a"}
	baseCount := len(ApplyFilters(products, base))

	restrictions := []func(*FilterState){
		func(f *FilterState) { f.Categories = []string{"beauty"} },
		func(f *FilterState) { f.Origins = []string{"japan"} },
		func(f *FilterState) { f.Statuses = []string{"available"} },
		func(f *FilterState) { f.Types = []string{"flash_deal", "group_buy"} },
		func(f *FilterState) { f.Brands = []string{"Nestle"} },
		func(f *FilterState) { f.PriceRange = PriceRange{Min: 10, Max: 50} },
		func(f *FilterState) { f.QuickFilter = "skincare" },
	}

	for i, restrict := range restrictions {
		f := base.Clone()
		restrict(&f)
		count := len(ApplyFilters(products, f))
		assert.LessOrEqual(t, count, baseCount, "restriction %d increased the result count", i)

		// Stacking a second restriction never grows the set either
		for _, second := range restrictions {
			g := f.Clone()
			second(&g)
			assert.LessOrEqual(t, len(ApplyFilters(products, g)), count)
		}
	}
}

func TestApplyFilters_DoesNotMutate(t *testing.T) {
	products := testProducts()
	f := FilterState{Categories: []string{"shoes"}, Search: "run"}

	_ = ApplyFilters(products, f)

	assert.Equal(t, testProducts(), products)
	assert.Equal(t, []string{"shoes"}, f.Categories)
}

func TestToggle(t *testing.T) {
	set := []string{"a", "b"}
	assert.Equal(t, []string{"a", "b", "c"}, Toggle(set, "c"))
	assert.Equal(t, []string{"b"}, Toggle(set, "a"))
	assert.Equal(t, []string{"a", "b"}, set)
}
