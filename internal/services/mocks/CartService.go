package mocks

import (
	context "context"

	models "github.com/aaravmahajanofficial/storefront-cart/internal/models"
	uuid "github.com/google/uuid"
	mock "github.com/stretchr/testify/mock"
)

// CartService is a mock type for the CartService type
type CartService struct {
	mock.Mock
}

func (_m *CartService) cart(ret mock.Arguments) (*models.Cart, error) {
	var r0 *models.Cart
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Cart)
	}

	return r0, ret.Error(1)
}

func (_m *CartService) GetOrCreateActiveCart(ctx context.Context, userID string) (*models.Cart, error) {
	return _m.cart(_m.Called(ctx, userID))
}

func (_m *CartService) AddItem(ctx context.Context, userID string, productID uuid.UUID, quantity int) (*models.Cart, error) {
	return _m.cart(_m.Called(ctx, userID, productID, quantity))
}

func (_m *CartService) UpdateItem(ctx context.Context, userID string, itemID uuid.UUID, quantity int) (*models.Cart, error) {
	return _m.cart(_m.Called(ctx, userID, itemID, quantity))
}

func (_m *CartService) RemoveItem(ctx context.Context, userID string, itemID uuid.UUID) (*models.Cart, error) {
	return _m.cart(_m.Called(ctx, userID, itemID))
}
