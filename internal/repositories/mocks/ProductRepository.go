package mocks

import (
	context "context"

	models "github.com/aaravmahajanofficial/storefront-cart/internal/models"
	uuid "github.com/google/uuid"
	mock "github.com/stretchr/testify/mock"
)

// ProductRepository is a mock type for the ProductRepository type
type ProductRepository struct {
	mock.Mock
}

func (_m *ProductRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	ret := _m.Called(ctx, product)

	return ret.Error(0)
}

func (_m *ProductRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	ret := _m.Called(ctx, id)

	var r0 *models.Product
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Product)
	}

	return r0, ret.Error(1)
}

func (_m *ProductRepository) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	ret := _m.Called(ctx, slug)

	var r0 *models.Product
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Product)
	}

	return r0, ret.Error(1)
}

func (_m *ProductRepository) GetProductsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error) {
	ret := _m.Called(ctx, ids)

	var r0 map[uuid.UUID]*models.Product
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(map[uuid.UUID]*models.Product)
	}

	return r0, ret.Error(1)
}

func (_m *ProductRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	ret := _m.Called(ctx, product)

	return ret.Error(0)
}

func (_m *ProductRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	ret := _m.Called(ctx, id)

	return ret.Error(0)
}

func (_m *ProductRepository) ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int, error) {
	ret := _m.Called(ctx, filter)

	var r0 []*models.Product
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*models.Product)
	}

	return r0, ret.Int(1), ret.Error(2)
}
