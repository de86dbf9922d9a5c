// Package catalog holds the immutable product snapshot that searches run against.
package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrDuplicateID  = errors.New("duplicate product id")
	ErrInvalidPrice = errors.New("invalid product price")
	ErrMissingName  = errors.New("product has no name")
)

// idNamespace seeds name-derived product IDs so they stay stable across loads.
var idNamespace = uuid.MustParse("6f1c6f52-3b7e-4f0e-9a53-2d6a0c1e8b47")

// Catalog is a read-only snapshot of products.
type Catalog struct {
	products []Product
	byID     map[string]int
}

// New validates products and builds a snapshot. The input slice is copied.
func New(products []Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	for i, p := range products {
		p, err := normalize(p)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", i, err)
		}
		if _, exists := c.byID[p.ID]; exists {
			return nil, fmt.Errorf("product %d: %w: %s", i, ErrDuplicateID, p.ID)
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c, nil
}

func normalize(p Product) (Product, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return p, ErrMissingName
	}
	if p.SellingPrice <= 0 {
		return p, fmt.Errorf("%w: selling price %v", ErrInvalidPrice, p.SellingPrice)
	}
	if p.OriginalPrice != 0 && p.OriginalPrice < p.SellingPrice {
		return p, fmt.Errorf("%w: original price %v below selling price %v", ErrInvalidPrice, p.OriginalPrice, p.SellingPrice)
	}
	// Facet values are matched and encoded trimmed
	p.Brand = strings.TrimSpace(p.Brand)
	p.Category.ID = strings.TrimSpace(p.Category.ID)
	p.Category.Name = strings.TrimSpace(p.Category.Name)
	p.Category.Slug = strings.TrimSpace(p.Category.Slug)
	p.Origin = Origin(strings.TrimSpace(string(p.Origin)))
	p.Status = Status(strings.TrimSpace(string(p.Status)))
	p.Type = ProductType(strings.TrimSpace(string(p.Type)))
	if p.Category.Slug == "" && p.Category.Name != "" {
		p.Category.Slug = slugify(p.Category.Name)
	}
	if p.ID = strings.TrimSpace(p.ID); p.ID == "" {
		p.ID = StableID(p)
	}

	// Clamp rating into [0, 5]
	p.Rating.Average = min(max(p.Rating.Average, 0), 5)
	if p.Rating.Count < 0 {
		p.Rating.Count = 0
	}
	if p.Tags != nil {
		tags := make([]string, 0, len(p.Tags))
		for _, tag := range p.Tags {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
		p.Tags = tags
	}
	return p, nil
}

// StableID derives an ID from the product's name and category so that
// entries without an explicit ID keep the same one between reloads.
func StableID(p Product) string {
	key := strings.ToLower(p.Category.Slug + "/" + p.Name)
	return uuid.NewSHA1(idNamespace, []byte(key)).String()
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Products returns a copy of the snapshot in catalog order.
func (c *Catalog) Products() []Product {
	return slices.Clone(c.products)
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// Get looks up a product by ID.
func (c *Catalog) Get(id string) (Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}
