// Package search implements product search over an immutable catalog:
// suggestions, facet filtering, ranking, pagination, URL state and history.
package search

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/montrey/shelf/catalog"
)

// Result is one page of ranked products.
type Result = Page[catalog.Product]

type Options struct {
	Suggest        SuggestOptions
	Weights        Weights
	CacheSize      int
	DefaultPerPage int
	MaxPerPage     int
}

func DefaultOptions() Options {
	return Options{
		Suggest:        DefaultSuggestOptions,
		Weights:        DefaultWeights,
		CacheSize:      256,
		DefaultPerPage: DefaultPerPage,
		MaxPerPage:     MaxPerPage,
	}
}

// Engine answers searches against one catalog snapshot. It is safe for
// concurrent use; a new catalog means a new Engine.
type Engine struct {
	catalog   *catalog.Catalog
	products  []catalog.Product
	suggester *Suggester
	weights   Weights
	codec     Codec
	facets    Facets
	minQuery  int
}

func NewEngine(c *catalog.Catalog, opts Options) (*Engine, error) {
	products := c.Products()

	suggester, err := NewSuggester(products, opts.Suggest, opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create suggester: %w", err)
	}

	return &Engine{
		catalog:   c,
		products:  products,
		suggester: suggester,
		weights:   opts.Weights,
		codec:     NewCodec(opts.DefaultPerPage, opts.MaxPerPage),
		facets:    CollectFacets(products),
		minQuery:  opts.Suggest.MinQueryLength,
	}, nil
}

// Codec returns the URL state codec configured for this engine.
func (e *Engine) Codec() Codec {
	return e.codec
}

// Len returns the number of products in the snapshot.
func (e *Engine) Len() int {
	return len(e.products)
}

func (e *Engine) Product(id string) (catalog.Product, bool) {
	return e.catalog.Get(id)
}

func (e *Engine) Facets() Facets {
	return e.facets
}

func (e *Engine) Suggest(query string) []Suggestion {
	return e.suggester.Suggest(query)
}

// Search filters, ranks and paginates the catalog for s.
func (e *Engine) Search(s State) Result {
	perPage := s.PerPage
	if perPage <= 0 {
		perPage = e.codec.DefaultPerPage
	}
	filtered := ApplyFilters(e.products, s.Filters)
	ranked := SortProducts(filtered, s.Sort, s.Query(), e.weights)
	return Paginate(ranked, s.Page, perPage)
}

// Dropdown builds the rows shown under the search box. Below the minimum
// query length only history is offered; past it, matching history entries
// come first, then suggestions.
func (e *Engine) Dropdown(query string, history []HistoryItem, limit int) []Entry {
	q := normalizeQuery(query)

	var matched []HistoryItem
	for _, h := range history {
		if q == "" || strings.Contains(strings.ToLower(h.Query), q) {
			matched = append(matched, h)
		}
	}

	if utf8.RuneCountInString(q) < e.minQuery {
		return Dropdown(matched, nil, limit)
	}
	return Dropdown(matched, e.Suggest(q), limit)
}
