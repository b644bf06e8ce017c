package models

import (
	"time"

	"github.com/google/uuid"
)

type ProductStatus string

const (
	ProductStatusDraft    ProductStatus = "DRAFT"
	ProductStatusActive   ProductStatus = "ACTIVE"
	ProductStatusArchived ProductStatus = "ARCHIVED"
	ProductStatusDeleted  ProductStatus = "DELETED"
)

const (
	DefaultCurrency      = "INR"
	DefaultLowStockLevel = 2
)

type Category struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

type Inventory struct {
	Quantity int `json:"quantity"`
	LowStock int `json:"lowStock"`
}

type ProductImage struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"url"`
	Alt       string    `json:"alt"`
	SortOrder int       `json:"sortOrder"`
}

type Product struct {
	ID          uuid.UUID      `json:"id"`
	CategoryID  *uuid.UUID     `json:"categoryId,omitempty"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Description string         `json:"description"`
	PriceCents  int64          `json:"priceCents"`
	Currency    string         `json:"currency"`
	SKU         string         `json:"sku"`
	Status      ProductStatus  `json:"status"`
	Inventory   *Inventory     `json:"inventory,omitempty"`
	Images      []ProductImage `json:"images"`
	Category    *Category      `json:"category,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// AvailableQuantity treats a missing inventory record as zero stock.
func (p *Product) AvailableQuantity() int {
	if p.Inventory == nil {
		return 0
	}

	return p.Inventory.Quantity
}

// Summary returns a copy carrying only the first image, used when a product
// is embedded in a cart line.
func (p *Product) Summary() *Product {
	summary := *p
	summary.Category = nil

	if len(p.Images) > 1 {
		summary.Images = p.Images[:1]
	}
	if summary.Images == nil {
		summary.Images = []ProductImage{}
	}

	return &summary
}

type InventoryInput struct {
	Quantity int  `json:"quantity" validate:"gte=0"`
	LowStock *int `json:"lowStock,omitempty" validate:"omitempty,gte=0"`
}

type ProductImageInput struct {
	URL       string `json:"url" validate:"required,url,max=2048"`
	Alt       string `json:"alt" validate:"max=255"`
	SortOrder int    `json:"sortOrder" validate:"gte=0"`
}

type CreateProductRequest struct {
	Name        string              `json:"name" validate:"required,min=3,max=255"`
	Slug        string              `json:"slug" validate:"required,max=255,slug"`
	Description string              `json:"description,omitempty" validate:"max=5000"`
	PriceCents  int64               `json:"priceCents" validate:"required,gt=0"`
	Currency    string              `json:"currency,omitempty" validate:"omitempty,len=3,alpha"`
	SKU         string              `json:"sku" validate:"required,min=1,max=64"`
	Status      ProductStatus       `json:"status,omitempty" validate:"omitempty,oneof=DRAFT ACTIVE ARCHIVED"`
	CategoryID  *uuid.UUID          `json:"categoryId,omitempty"`
	Inventory   *InventoryInput     `json:"inventory,omitempty"`
	Images      []ProductImageInput `json:"images,omitempty" validate:"omitempty,max=20,dive"`
}

type UpdateProductRequest struct {
	Name        *string         `json:"name,omitempty" validate:"omitempty,min=3,max=255"`
	Description *string         `json:"description,omitempty" validate:"omitempty,max=5000"`
	PriceCents  *int64          `json:"priceCents,omitempty" validate:"omitempty,gt=0"`
	Status      *ProductStatus  `json:"status,omitempty" validate:"omitempty,oneof=DRAFT ACTIVE ARCHIVED"`
	CategoryID  *uuid.UUID      `json:"categoryId,omitempty"`
	Inventory   *InventoryInput `json:"inventory,omitempty"`
}

type ProductSort string

const (
	SortNewest    ProductSort = "newest"
	SortPriceAsc  ProductSort = "price_asc"
	SortPriceDesc ProductSort = "price_desc"
	SortPopular   ProductSort = "popular"
)

// ProductFilter drives the public catalog listing.
type ProductFilter struct {
	Query    string
	Category string // id or slug
	Sort     ProductSort
	Page     int
	PerPage  int
}
