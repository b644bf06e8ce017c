package models

import (
	"time"

	"github.com/google/uuid"
)

type CartStatus string

const (
	CartStatusActive    CartStatus = "ACTIVE"
	CartStatusAbandoned CartStatus = "ABANDONED"
	CartStatusConverted CartStatus = "CONVERTED"
)

// CartItem is one product line in a cart. PriceSnapshotCents is captured when
// the line is first created and is never touched by later quantity changes.
type CartItem struct {
	ID                 uuid.UUID `json:"id"`
	CartID             uuid.UUID `json:"cartId"`
	ProductID          uuid.UUID `json:"productId"`
	Quantity           int       `json:"quantity"`
	PriceSnapshotCents int64     `json:"priceSnapshotCents"`
	Product            *Product  `json:"product,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// LineTotalCents is the snapshot price times the quantity.
func (i CartItem) LineTotalCents() int64 {
	return i.PriceSnapshotCents * int64(i.Quantity)
}

type Cart struct {
	ID            uuid.UUID  `json:"id"`
	UserID        string     `json:"userId"`
	Status        CartStatus `json:"status"`
	Items         []CartItem `json:"items"`
	SubtotalCents int64      `json:"subtotalCents"`
	ItemCount     int        `json:"itemCount"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Recalculate derives SubtotalCents and ItemCount from the current items.
func (c *Cart) Recalculate() {
	var subtotal int64
	var count int

	for _, item := range c.Items {
		subtotal += item.LineTotalCents()
		count += item.Quantity
	}

	c.SubtotalCents = subtotal
	c.ItemCount = count
}

// Quantity is optional and defaults to 1. Lower bounds are checked by the
// cart engine; the upper bound caps a single request.
type AddCartItemRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  *int   `json:"quantity,omitempty" validate:"omitempty,max=10000"`
}

type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" validate:"required,max=10000"`
}
