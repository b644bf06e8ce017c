package mocks

import (
	context "context"

	models "github.com/aaravmahajanofficial/storefront-cart/internal/models"
	repository "github.com/aaravmahajanofficial/storefront-cart/internal/repositories"
	uuid "github.com/google/uuid"
	mock "github.com/stretchr/testify/mock"
)

// CartRepository is a mock type for the CartRepository type.
// WithTx runs fn against Tx so tests can script the statements.
type CartRepository struct {
	mock.Mock
	Tx *CartTx
}

// WithTx provides a mock function with given fields: ctx, fn
func (_m *CartRepository) WithTx(ctx context.Context, fn func(repository.CartTx) error) error {
	ret := _m.Called(ctx, fn)

	if err := ret.Error(0); err != nil {
		return err
	}

	if _m.Tx == nil {
		return nil
	}

	return fn(_m.Tx)
}

// CartTx is a mock type for the CartTx type
type CartTx struct {
	mock.Mock
}

func (_m *CartTx) GetActiveCart(ctx context.Context, userID string) (*models.Cart, error) {
	ret := _m.Called(ctx, userID)

	var r0 *models.Cart
	if rf, ok := ret.Get(0).(func(context.Context, string) *models.Cart); ok {
		r0 = rf(ctx, userID)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Cart)
	}

	return r0, ret.Error(1)
}

func (_m *CartTx) CreateActiveCart(ctx context.Context, userID string) (*models.Cart, error) {
	ret := _m.Called(ctx, userID)

	var r0 *models.Cart
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Cart)
	}

	return r0, ret.Error(1)
}

func (_m *CartTx) GetItem(ctx context.Context, cartID uuid.UUID, itemID uuid.UUID) (*models.CartItem, error) {
	ret := _m.Called(ctx, cartID, itemID)

	var r0 *models.CartItem
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.CartItem)
	}

	return r0, ret.Error(1)
}

func (_m *CartTx) GetItemByProduct(ctx context.Context, cartID uuid.UUID, productID uuid.UUID) (*models.CartItem, error) {
	ret := _m.Called(ctx, cartID, productID)

	var r0 *models.CartItem
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.CartItem)
	}

	return r0, ret.Error(1)
}

func (_m *CartTx) UpsertItem(ctx context.Context, item *models.CartItem) error {
	ret := _m.Called(ctx, item)

	return ret.Error(0)
}

func (_m *CartTx) SetItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	ret := _m.Called(ctx, itemID, quantity)

	return ret.Error(0)
}

func (_m *CartTx) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	ret := _m.Called(ctx, itemID)

	return ret.Error(0)
}

func (_m *CartTx) TouchCart(ctx context.Context, cartID uuid.UUID) error {
	ret := _m.Called(ctx, cartID)

	return ret.Error(0)
}

func (_m *CartTx) LoadCart(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {
	ret := _m.Called(ctx, cartID)

	var r0 *models.Cart
	if rf, ok := ret.Get(0).(func(context.Context, uuid.UUID) *models.Cart); ok {
		r0 = rf(ctx, cartID)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Cart)
	}

	return r0, ret.Error(1)
}
