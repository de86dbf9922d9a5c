package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("normalizes products", func(t *testing.T) {
		c, err := New([]Product{{
			Name:         "  Cushion Foundation ",
			Category:     Category{Name: "Beauty & Care"},
			SellingPrice: 20,
			Rating:       Rating{Average: 7, Count: -3},
		}})
		require.NoError(t, err)
		require.Equal(t, 1, c.Len())

		p := c.Products()[0]
		assert.Equal(t, "Cushion Foundation", p.Name)
		assert.Equal(t, "beauty-care", p.Category.Slug)
		assert.Equal(t, 5.0, p.Rating.Average)
		assert.Equal(t, 0, p.Rating.Count)
		assert.NotEmpty(t, p.ID)
	})

	t.Run("trims facet values", func(t *testing.T) {
		c, err := New([]Product{{
			ID:           " p1 ",
			Name:         "Milo",
			Brand:        "Nestle ",
			Category:     Category{ID: " c1", Name: " Drinks ", Slug: "drinks "},
			Tags:         []string{" cocoa", "  ", "malt"},
			Origin:       " europe",
			Status:       "available ",
			Type:         " ready_stock ",
			SellingPrice: 4,
		}})
		require.NoError(t, err)

		p, ok := c.Get("p1")
		require.True(t, ok)
		assert.Equal(t, "Nestle", p.Brand)
		assert.Equal(t, Category{ID: "c1", Name: "Drinks", Slug: "drinks"}, p.Category)
		assert.Equal(t, []string{"cocoa", "malt"}, p.Tags)
		assert.Equal(t, OriginEurope, p.Origin)
		assert.Equal(t, StatusAvailable, p.Status)
		assert.Equal(t, TypeReadyStock, p.Type)
	})

	t.Run("derived ids are stable", func(t *testing.T) {
		p := Product{Name: "Matcha Kit", Category: Category{Slug: "food"}, SellingPrice: 9}
		a, err := New([]Product{p})
		require.NoError(t, err)
		b, err := New([]Product{p})
		require.NoError(t, err)
		assert.Equal(t, a.Products()[0].ID, b.Products()[0].ID)
	})

	t.Run("rejects duplicate ids", func(t *testing.T) {
		_, err := New([]Product{
			{ID: "p1", Name: "A", SellingPrice: 1},
			{ID: "p1", Name: "B", SellingPrice: 2},
		})
		assert.ErrorIs(t, err, ErrDuplicateID)
	})

	t.Run("rejects invalid prices", func(t *testing.T) {
		_, err := New([]Product{{ID: "p1", Name: "A", SellingPrice: 0}})
		assert.ErrorIs(t, err, ErrInvalidPrice)

		_, err = New([]Product{{ID: "p1", Name: "A", SellingPrice: 10, OriginalPrice: 5}})
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})

	t.Run("rejects missing names", func(t *testing.T) {
		_, err := New([]Product{{ID: "p1", Name: "  ", SellingPrice: 1}})
		assert.ErrorIs(t, err, ErrMissingName)
	})

	t.Run("does not share the input slice", func(t *testing.T) {
		in := []Product{{ID: "p1", Name: "A", SellingPrice: 1, Tags: []string{"x"}}}
		c, err := New(in)
		require.NoError(t, err)
		in[0].Name = "changed"
		in[0].Tags[0] = "changed"

		p, ok := c.Get("p1")
		require.True(t, ok)
		assert.Equal(t, "A", p.Name)
		assert.Equal(t, []string{"x"}, p.Tags)
	})
}

func TestDiscount(t *testing.T) {
	assert.InDelta(t, 0.25, Product{SellingPrice: 75, OriginalPrice: 100}.Discount(), 1e-9)
	assert.Zero(t, Product{SellingPrice: 75}.Discount())
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		data string
		ext  string
		want int
	}{
		{name: "json list", ext: ".json", want: 2, data: `[
			{"id": "a", "name": "A", "sellingPrice": 1, "createdAt": "2024-03-01T00:00:00Z"},
			{"id": "b", "name": "B", "sellingPrice": 2}
		]`},
		{name: "json document", ext: ".json", want: 1, data: `{"products": [{"id": "a", "name": "A", "sellingPrice": 1}]}`},
		{name: "yaml list", ext: ".yaml", want: 1, data: "- id: a\n  name: A\n  sellingPrice: 1\n  createdAt: 2024-03-01T00:00:00Z\n"},
		{name: "yaml document", ext: ".yml", want: 2, data: "products:\n  - id: a\n    name: A\n    sellingPrice: 1\n  - id: b\n    name: B\n    sellingPrice: 2\n"},
		{name: "empty", ext: ".json", want: 0, data: "  \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := Decode([]byte(tt.data), tt.ext)
			require.NoError(t, err)
			assert.Len(t, products, tt.want)
		})
	}

	t.Run("timestamps", func(t *testing.T) {
		products, err := Decode([]byte(tests[0].data), ".json")
		require.NoError(t, err)
		assert.True(t, products[0].CreatedAt.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, err := Decode([]byte("a,b"), ".csv")
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.json"), `[{"id": "a", "name": "A", "sellingPrice": 1}]`)
	writeFile(t, filepath.Join(root, "more", "b.yaml"), "- id: b\n  name: B\n  sellingPrice: 2\n")
	writeFile(t, filepath.Join(root, "drafts", "c.json"), `[{"id": "c", "name": "C", "sellingPrice": 3}]`)
	writeFile(t, filepath.Join(root, ".cache", "d.json"), `[{"id": "d", "name": "D", "sellingPrice": 4}]`)
	writeFile(t, filepath.Join(root, "notes.txt"), "not a catalog")
	writeFile(t, filepath.Join(root, IgnoreFile), "drafts/\n")

	files, err := Walk(root)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.json"),
		filepath.Join(root, "more", "b.yaml"),
	}, files)

	c, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	_, ok := c.Get("c")
	assert.False(t, ok, "ignored file should not be loaded")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	writeFile(t, path, `[{"id": "a", "name": "A", "sellingPrice": 1}, {"id": "a", "name": "B", "sellingPrice": 1}]`)

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrDuplicateID)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
