package main

import (
	"fmt"
	"os"
	"time"

	"github.com/montrey/shelf/catalog"
	"github.com/montrey/shelf/search"
	"github.com/montrey/shelf/ui"
)

func main() {
	day := func(n int) time.Time { return time.Date(2024, 3, n, 0, 0, 0, 0, time.UTC) }
	beauty := catalog.Category{Name: "Beauty", Slug: "beauty"}
	snacks := catalog.Category{Name: "Snacks", Slug: "snacks"}

	c, err := catalog.New([]catalog.Product{
		{Name: "Korean Snail Essence", Category: beauty, Brand: "Cosrx", Tags: []string{"skincare"},
			Origin: catalog.OriginKorea, Status: catalog.StatusAvailable, Type: catalog.TypeFlashDeal,
			SellingPrice: 21, OriginalPrice: 28, Rating: catalog.Rating{Average: 4.8, Count: 120}, CreatedAt: day(5)},
		{Name: "Matcha KitKat", Category: snacks, Brand: "Nestle", Tags: []string{"japanese", "sweets"},
			Origin: catalog.OriginJapan, Status: catalog.StatusPreorder, Type: catalog.TypePreOrder,
			SellingPrice: 8, Rating: catalog.Rating{Average: 4.1, Count: 75}, CreatedAt: day(1)},
		{Name: "Sheet Mask Set", Category: beauty, Brand: "Mediheal", Tags: []string{"skincare"},
			Origin: catalog.OriginKorea, Status: catalog.StatusOutOfStock, Type: catalog.TypeGroupBuy,
			SellingPrice: 15, Rating: catalog.Rating{Average: 4.1}, CreatedAt: day(4)},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build catalog: %v\n", err)
		os.Exit(1)
	}

	engine, err := search.NewEngine(c, search.DefaultOptions())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build engine: %v\n", err)
		os.Exit(1)
	}

	for _, s := range []string{"", "q=skincare&sort=price-asc", "origin=korea&sort=rating"} {
		state := engine.Codec().Decode(s)
		result := engine.Search(state)

		fmt.Printf("=== ?%s (%d results) ===\n", s, result.Total)
		fmt.Println(ui.NewResultsModel(result.Items, 80, 10).View())
		fmt.Println()
	}

	fmt.Println("=== Dropdown for \"ma\" ===")
	for _, e := range engine.Dropdown("ma", nil, 0) {
		fmt.Println(search.Describe(e))
	}
}
