package mocks

import (
	context "context"

	models "github.com/aaravmahajanofficial/storefront-cart/internal/models"
	uuid "github.com/google/uuid"
	mock "github.com/stretchr/testify/mock"
)

// ProductService is a mock type for the ProductService type
type ProductService struct {
	mock.Mock
}

func (_m *ProductService) product(ret mock.Arguments) (*models.Product, error) {
	var r0 *models.Product
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.Product)
	}

	return r0, ret.Error(1)
}

func (_m *ProductService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	return _m.product(_m.Called(ctx, req))
}

func (_m *ProductService) GetProduct(ctx context.Context, idOrSlug string) (*models.Product, error) {
	return _m.product(_m.Called(ctx, idOrSlug))
}

func (_m *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error) {
	return _m.product(_m.Called(ctx, id, req))
}

func (_m *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	ret := _m.Called(ctx, id)

	return ret.Error(0)
}

func (_m *ProductService) ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int, error) {
	ret := _m.Called(ctx, filter)

	var r0 []*models.Product
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*models.Product)
	}

	return r0, ret.Int(1), ret.Error(2)
}
