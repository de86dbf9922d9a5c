package catalog

import "time"

type Origin string

const (
	OriginJapan  Origin = "japan"
	OriginKorea  Origin = "korea"
	OriginUSA    Origin = "usa"
	OriginEurope Origin = "europe"
)

type Status string

const (
	StatusAvailable  Status = "available"
	StatusPreorder   Status = "preorder"
	StatusOutOfStock Status = "out_of_stock"
)

type ProductType string

const (
	TypeReadyStock ProductType = "ready_stock"
	TypePreOrder   ProductType = "pre_order"
	TypeFlashDeal  ProductType = "flash_deal"
	TypeGroupBuy   ProductType = "group_buy"
)

// Origins, Statuses and Types list the known enum values in display order.
var (
	Origins  = []Origin{OriginJapan, OriginKorea, OriginUSA, OriginEurope}
	Statuses = []Status{StatusAvailable, StatusPreorder, StatusOutOfStock}
	Types    = []ProductType{TypeReadyStock, TypePreOrder, TypeFlashDeal, TypeGroupBuy}
)

type Category struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Slug string `json:"slug" yaml:"slug"`
}

type Rating struct {
	Average float64 `json:"average" yaml:"average"`
	Count   int     `json:"count" yaml:"count"`
}

// Product is a single catalog entry. Products are shared read-only between
// searches; nothing in this module modifies one after loading.
type Product struct {
	ID            string      `json:"id" yaml:"id"`
	Name          string      `json:"name" yaml:"name"`
	Description   string      `json:"description" yaml:"description"`
	Category      Category    `json:"category" yaml:"category"`
	Brand         string      `json:"brand,omitempty" yaml:"brand,omitempty"`
	Tags          []string    `json:"tags" yaml:"tags"`
	Origin        Origin      `json:"origin" yaml:"origin"`
	Status        Status      `json:"status" yaml:"status"`
	Type          ProductType `json:"type" yaml:"type"`
	SellingPrice  float64     `json:"sellingPrice" yaml:"sellingPrice"`
	OriginalPrice float64     `json:"originalPrice,omitempty" yaml:"originalPrice,omitempty"`
	Rating        Rating      `json:"rating" yaml:"rating"`
	CreatedAt     time.Time   `json:"createdAt" yaml:"createdAt"`
}

// Discount returns the markdown as a fraction of the original price, or 0
// when the product has no original price.
func (p Product) Discount() float64 {
	if p.OriginalPrice <= p.SellingPrice || p.OriginalPrice == 0 {
		return 0
	}
	return (p.OriginalPrice - p.SellingPrice) / p.OriginalPrice
}
