package search

import (
	"testing"
	"time"

	"github.com/montrey/shelf/catalog"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time {
	return time.Date(2024, 1, n, 0, 0, 0, 0, time.UTC)
}

// testProducts is a small storefront catalog. Order matters to stability tests.
func testProducts() []catalog.Product {
	beauty := catalog.Category{ID: "c1", Name: "Beauty", Slug: "beauty"}
	shoes := catalog.Category{ID: "c2", Name: "Shoes", Slug: "shoes"}
	snacks := catalog.Category{ID: "c3", Name: "Snacks", Slug: "snacks"}

	return []catalog.Product{
		{
			ID: "p1", Name: "Premium Japanese Sneakers", Description: "Handmade canvas shoes",
			Category: shoes, Brand: "Onitsuka", Tags: []string{"shoes", "japanese"},
			Origin: catalog.OriginJapan, Status: catalog.StatusAvailable, Type: catalog.TypeReadyStock,
			SellingPrice: 120, OriginalPrice: 150, Rating: catalog.Rating{Average: 4.5, Count: 30}, CreatedAt: day(3),
		},
		{
			ID: "p2", Name: "Korean Snail Essence", Description: "Hydrating serum, a korean favourite",
			Category: beauty, Brand: "Cosrx", Tags: []string{"skincare", "korean"},
			Origin: catalog.OriginKorea, Status: catalog.StatusAvailable, Type: catalog.TypeFlashDeal,
			SellingPrice: 25, Rating: catalog.Rating{Average: 4.8, Count: 120}, CreatedAt: day(5),
		},
		{
			ID: "p3", Name: "Matcha KitKat", Description: "Green tea wafers from japan",
			Category: snacks, Brand: "Nestle", Tags: []string{"japanese", "sweets"},
			Origin: catalog.OriginJapan, Status: catalog.StatusPreorder, Type: catalog.TypePreOrder,
			SellingPrice: 8, Rating: catalog.Rating{Average: 4.1, Count: 75}, CreatedAt: day(1),
		},
		{
			ID: "p4", Name: "Sheet Mask Set", Description: "Ten korean sheet masks",
			Category: beauty, Brand: "Mediheal", Tags: []string{"skincare"},
			Origin: catalog.OriginKorea, Status: catalog.StatusOutOfStock, Type: catalog.TypeGroupBuy,
			SellingPrice: 15, Rating: catalog.Rating{Average: 4.1}, CreatedAt: day(4),
		},
		{
			ID: "p5", Name: "Trail Runner", Description: "Lightweight running shoes",
			Category: shoes, Brand: "Salomon", Tags: []string{"shoes", "outdoor"},
			Origin: catalog.OriginEurope, Status: catalog.StatusAvailable, Type: catalog.TypeReadyStock,
			SellingPrice: 140, Rating: catalog.Rating{Average: 3.9, Count: 12}, CreatedAt: day(2),
		},
	}
}

func ids(products []catalog.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func newTestEngine(t *testing.T, products []catalog.Product) *Engine {
	t.Helper()
	c, err := catalog.New(products)
	require.NoError(t, err)
	e, err := NewEngine(c, DefaultOptions())
	require.NoError(t, err)
	return e
}
