package search

import (
	"testing"

	"github.com/montrey/shelf/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Search(t *testing.T) {
	e := newTestEngine(t, testProducts())

	t.Run("filters ranks and paginates", func(t *testing.T) {
		s := e.Codec().Decode("q=japan&perPage=1&page=2")
		res := e.Search(s)
		assert.Equal(t, 2, res.Total)
		assert.Equal(t, 2, res.Pages)
		assert.Equal(t, 2, res.Page)
		assert.Equal(t, []string{"p3"}, ids(res.Items))
	})

	t.Run("sort mode", func(t *testing.T) {
		res := e.Search(e.Codec().Decode("category=beauty&category=shoes&sort=price-desc"))
		assert.Equal(t, []string{"p5", "p1", "p2", "p4"}, ids(res.Items))
	})

	t.Run("zero matches", func(t *testing.T) {
		res := e.Search(e.Codec().Decode("q=nothing-like-this&page=4"))
		assert.Equal(t, 0, res.Total)
		assert.Equal(t, 1, res.Pages)
		assert.Equal(t, 1, res.Page)
		assert.Empty(t, res.Items)
	})

	t.Run("non-positive page size uses default", func(t *testing.T) {
		res := e.Search(State{})
		assert.Equal(t, DefaultPerPage, res.PerPage)
		assert.Equal(t, 5, res.Total)
	})
}

func TestEngine_EmptyCatalog(t *testing.T) {
	e := newTestEngine(t, nil)
	res := e.Search(e.Codec().Default())
	assert.Equal(t, 0, res.Total)
	assert.Equal(t, 1, res.Pages)
	assert.Empty(t, e.Suggest("shoes"))
}

func TestEngine_Dropdown(t *testing.T) {
	e := newTestEngine(t, testProducts())
	history := []HistoryItem{{Query: "skincare", ResultCount: 2}, {Query: "trail", ResultCount: 1}}

	t.Run("empty query shows history", func(t *testing.T) {
		entries := e.Dropdown("", history, 0)
		require.Len(t, entries, 2)
		for _, entry := range entries {
			assert.IsType(t, HistoryEntry{}, entry)
		}
	})

	t.Run("short query filters history only", func(t *testing.T) {
		entries := e.Dropdown("t", history, 0)
		require.Len(t, entries, 1)
		assert.Equal(t, "trail", entries[0].Text())
	})

	t.Run("longer query adds suggestions", func(t *testing.T) {
		entries := e.Dropdown("sk", history, 0)
		var kinds []EntryKind
		var texts []string
		for _, entry := range entries {
			kinds = append(kinds, entry.Kind())
			texts = append(texts, entry.Text())
		}
		assert.Equal(t, []EntryKind{KindHistory, KindSuggestion}, kinds)
		assert.Equal(t, []string{"skincare", "Sheet Mask Set"}, texts)
	})
}

func TestEngine_FacetsAndLookup(t *testing.T) {
	e := newTestEngine(t, testProducts())

	f := e.Facets()
	require.Len(t, f.Categories, 3)
	assert.Equal(t, FacetValue{Value: "shoes", Label: "Shoes", Count: 2}, f.Categories[0])
	assert.Equal(t, PriceRange{Min: 8, Max: 140}, f.PriceRange)
	assert.Len(t, f.Brands, 5)

	p, ok := e.Product("p2")
	require.True(t, ok)
	assert.Equal(t, "Korean Snail Essence", p.Name)

	_, ok = e.Product("nope")
	assert.False(t, ok)
	assert.Equal(t, 5, e.Len())
}

func TestEngine_FacetValuesSurviveRoundTrip(t *testing.T) {
	e := newTestEngine(t, []catalog.Product{
		{ID: "p1", Name: "Milo", Brand: "Nestle ", Category: catalog.Category{ID: "c1", Name: "Drinks", Slug: " drinks"}, Origin: " europe", Status: "available", Type: "ready_stock ", SellingPrice: 4},
		{ID: "p2", Name: "Pocky", Brand: "Glico", Category: catalog.Category{ID: "c2", Name: "Snacks", Slug: "snacks"}, Origin: "japan", Status: " preorder", Type: "pre_order", SellingPrice: 3},
	})
	f := e.Facets()

	tests := []struct {
		name   string
		values []FacetValue
		set    func(*FilterState, string)
	}{
		{"categories", f.Categories, func(fs *FilterState, v string) { fs.Categories = []string{v} }},
		{"origins", f.Origins, func(fs *FilterState, v string) { fs.Origins = []string{v} }},
		{"statuses", f.Statuses, func(fs *FilterState, v string) { fs.Statuses = []string{v} }},
		{"types", f.Types, func(fs *FilterState, v string) { fs.Types = []string{v} }},
		{"brands", f.Brands, func(fs *FilterState, v string) { fs.Brands = []string{v} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotEmpty(t, tt.values)
			for _, fv := range tt.values {
				s := e.Codec().Default()
				tt.set(&s.Filters, fv.Value)

				before := e.Search(s)
				after := e.Search(e.Codec().Decode(e.Codec().Encode(s)))
				assert.Equal(t, fv.Count, before.Total, fv.Value)
				assert.Equal(t, ids(before.Items), ids(after.Items), fv.Value)
			}
		})
	}
}
