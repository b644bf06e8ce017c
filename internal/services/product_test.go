package service_test

import (
	"errors"
	"testing"
	"time"

	cacheMocks "github.com/aaravmahajanofficial/storefront-cart/internal/cache/mocks"
	appErrors "github.com/aaravmahajanofficial/storefront-cart/internal/errors"
	"github.com/aaravmahajanofficial/storefront-cart/internal/models"
	repository "github.com/aaravmahajanofficial/storefront-cart/internal/repositories"
	"github.com/aaravmahajanofficial/storefront-cart/internal/repositories/mocks"
	service "github.com/aaravmahajanofficial/storefront-cart/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const productTTL = time.Minute

func newProductFixture(t *testing.T) (service.ProductService, *mocks.ProductRepository, *cacheMocks.Cache) {
	t.Helper()

	repo := new(mocks.ProductRepository)
	productCache := new(cacheMocks.Cache)
	t.Cleanup(func() {
		repo.AssertExpectations(t)
		productCache.AssertExpectations(t)
	})

	return service.NewProductService(repo, productCache, productTTL), repo, productCache
}

func TestCreateProduct(t *testing.T) {
	ctx := t.Context()

	t.Run("Success - Defaults and sanitizing", func(t *testing.T) {
		// Arrange
		svc, repo, _ := newProductFixture(t)
		req := &models.CreateProductRequest{
			Name:        "<b>Desk Lamp</b>",
			Slug:        "desk-lamp",
			Description: `Warm light<script>alert("x")</script>`,
			PriceCents:  2499,
			SKU:         "LAMP-1",
			Inventory:   &models.InventoryInput{Quantity: 7},
			Images:      []models.ProductImageInput{{URL: "https://cdn.example.com/a.jpg", Alt: "<i>front</i>"}},
		}

		repo.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p *models.Product) bool {
			return p.Name == "Desk Lamp" &&
				p.Description == "Warm light" &&
				p.Currency == models.DefaultCurrency &&
				p.Status == models.ProductStatusDraft &&
				p.Inventory.Quantity == 7 &&
				p.Inventory.LowStock == models.DefaultLowStockLevel &&
				p.Images[0].Alt == "front"
		})).Return(nil).Once()

		// Act
		product, err := svc.CreateProduct(ctx, req)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "desk-lamp", product.Slug)
	})

	t.Run("Success - No inventory means zero stock", func(t *testing.T) {
		svc, repo, _ := newProductFixture(t)
		req := &models.CreateProductRequest{Name: "Desk Lamp", Slug: "desk-lamp", PriceCents: 2499, SKU: "LAMP-1", Currency: "usd", Status: models.ProductStatusActive}

		repo.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p *models.Product) bool {
			return p.Inventory.Quantity == 0 && p.Currency == "USD" && p.Status == models.ProductStatusActive
		})).Return(nil).Once()

		_, err := svc.CreateProduct(ctx, req)

		require.NoError(t, err)
	})

	t.Run("Failure - Duplicate slug", func(t *testing.T) {
		svc, repo, _ := newProductFixture(t)
		repo.On("CreateProduct", mock.Anything, mock.Anything).Return(repository.ErrConflict).Once()

		product, err := svc.CreateProduct(ctx, &models.CreateProductRequest{Name: "Desk Lamp", Slug: "desk-lamp", PriceCents: 1, SKU: "X"})

		assert.Nil(t, product)
		requireAppCode(t, err, appErrors.ErrCodeConflict)
	})

	t.Run("Failure - Database error", func(t *testing.T) {
		svc, repo, _ := newProductFixture(t)
		repo.On("CreateProduct", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

		_, err := svc.CreateProduct(ctx, &models.CreateProductRequest{Name: "Desk Lamp", Slug: "desk-lamp", PriceCents: 1, SKU: "X"})

		appErr := requireAppCode(t, err, appErrors.ErrCodeDatabaseError)
		assert.Contains(t, appErr.Error(), "Failed to create product")
	})
}

func TestGetProduct(t *testing.T) {
	ctx := t.Context()
	productID := uuid.New()
	product := &models.Product{ID: productID, Slug: "desk-lamp", Name: "Desk Lamp", Status: models.ProductStatusActive}

	t.Run("Success - Cache hit skips the store", func(t *testing.T) {
		svc, _, productCache := newProductFixture(t)
		productCache.On("Get", mock.Anything, "product:desk-lamp", mock.Anything).
			Run(func(args mock.Arguments) {
				*args.Get(2).(*models.Product) = *product
			}).
			Return(true, nil).Once()

		got, err := svc.GetProduct(ctx, "desk-lamp")

		require.NoError(t, err)
		assert.Equal(t, productID, got.ID)
	})

	t.Run("Success - Miss by id loads and caches", func(t *testing.T) {
		// Arrange
		svc, repo, productCache := newProductFixture(t)
		key := "product:" + productID.String()
		productCache.On("Get", mock.Anything, key, mock.Anything).Return(false, nil).Once()
		repo.On("GetProductByID", mock.Anything, productID).Return(product, nil).Once()
		productCache.On("Set", mock.Anything, key, product, productTTL).Return(nil).Once()

		// Act
		got, err := svc.GetProduct(ctx, productID.String())

		// Assert
		require.NoError(t, err)
		assert.Equal(t, product, got)
	})

	t.Run("Success - Cache failures fall through to the store", func(t *testing.T) {
		svc, repo, productCache := newProductFixture(t)
		productCache.On("Get", mock.Anything, "product:desk-lamp", mock.Anything).Return(false, errors.New("redis down")).Once()
		repo.On("GetProductBySlug", mock.Anything, "desk-lamp").Return(product, nil).Once()
		productCache.On("Set", mock.Anything, "product:desk-lamp", product, productTTL).Return(errors.New("redis down")).Once()

		got, err := svc.GetProduct(ctx, "desk-lamp")

		require.NoError(t, err)
		assert.Equal(t, product, got)
	})

	t.Run("Failure - Not found", func(t *testing.T) {
		svc, repo, productCache := newProductFixture(t)
		productCache.On("Get", mock.Anything, "product:missing", mock.Anything).Return(false, nil).Once()
		repo.On("GetProductBySlug", mock.Anything, "missing").Return(nil, repository.ErrNotFound).Once()

		_, err := svc.GetProduct(ctx, "missing")

		requireAppCode(t, err, appErrors.ErrCodeNotFound)
	})

	t.Run("Failure - Deleted product is hidden", func(t *testing.T) {
		svc, repo, productCache := newProductFixture(t)
		deleted := &models.Product{ID: uuid.New(), Slug: "old", Status: models.ProductStatusDeleted}
		productCache.On("Get", mock.Anything, "product:old", mock.Anything).Return(false, nil).Once()
		repo.On("GetProductBySlug", mock.Anything, "old").Return(deleted, nil).Once()

		_, err := svc.GetProduct(ctx, "old")

		requireAppCode(t, err, appErrors.ErrCodeNotFound)
	})
}

func TestUpdateProduct(t *testing.T) {
	ctx := t.Context()
	productID := uuid.New()

	existing := func() *models.Product {
		return &models.Product{ID: productID, Name: "Desk Lamp", Slug: "desk-lamp", PriceCents: 2499, Status: models.ProductStatusActive, Inventory: &models.Inventory{Quantity: 3, LowStock: 2}}
	}

	t.Run("Success - Price change invalidates both keys", func(t *testing.T) {
		// Arrange
		svc, repo, productCache := newProductFixture(t)
		price := int64(1999)
		updated := existing()
		updated.PriceCents = price

		repo.On("GetProductByID", mock.Anything, productID).Return(existing(), nil).Once()
		repo.On("UpdateProduct", mock.Anything, mock.MatchedBy(func(p *models.Product) bool {
			return p.PriceCents == price && p.Inventory == nil
		})).Return(nil).Once()
		productCache.On("Delete", mock.Anything, []string{"product:" + productID.String(), "product:desk-lamp"}).Return(nil).Once()
		repo.On("GetProductByID", mock.Anything, productID).Return(updated, nil).Once()

		// Act
		got, err := svc.UpdateProduct(ctx, productID, &models.UpdateProductRequest{PriceCents: &price})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, price, got.PriceCents)
	})

	t.Run("Success - Inventory replaces stock", func(t *testing.T) {
		svc, repo, productCache := newProductFixture(t)
		low := 1

		repo.On("GetProductByID", mock.Anything, productID).Return(existing(), nil).Twice()
		repo.On("UpdateProduct", mock.Anything, mock.MatchedBy(func(p *models.Product) bool {
			return p.Inventory != nil && p.Inventory.Quantity == 40 && p.Inventory.LowStock == 1
		})).Return(nil).Once()
		productCache.On("Delete", mock.Anything, mock.Anything).Return(nil).Once()

		_, err := svc.UpdateProduct(ctx, productID, &models.UpdateProductRequest{Inventory: &models.InventoryInput{Quantity: 40, LowStock: &low}})

		require.NoError(t, err)
	})

	t.Run("Failure - Missing product", func(t *testing.T) {
		svc, repo, _ := newProductFixture(t)
		repo.On("GetProductByID", mock.Anything, productID).Return(nil, repository.ErrNotFound).Once()

		_, err := svc.UpdateProduct(ctx, productID, &models.UpdateProductRequest{})

		requireAppCode(t, err, appErrors.ErrCodeNotFound)
	})

	t.Run("Failure - Store error", func(t *testing.T) {
		svc, repo, _ := newProductFixture(t)
		repo.On("GetProductByID", mock.Anything, productID).Return(existing(), nil).Once()
		repo.On("UpdateProduct", mock.Anything, mock.Anything).Return(errors.New("lock timeout")).Once()

		_, err := svc.UpdateProduct(ctx, productID, &models.UpdateProductRequest{})

		requireAppCode(t, err, appErrors.ErrCodeDatabaseError)
	})
}

func TestDeleteProduct(t *testing.T) {
	ctx := t.Context()
	productID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		svc, repo, productCache := newProductFixture(t)
		repo.On("GetProductByID", mock.Anything, productID).Return(&models.Product{ID: productID, Slug: "desk-lamp"}, nil).Once()
		repo.On("DeleteProduct", mock.Anything, productID).Return(nil).Once()
		productCache.On("Delete", mock.Anything, []string{"product:" + productID.String(), "product:desk-lamp"}).Return(nil).Once()

		require.NoError(t, svc.DeleteProduct(ctx, productID))
	})

	t.Run("Failure - Already deleted", func(t *testing.T) {
		svc, repo, _ := newProductFixture(t)
		repo.On("GetProductByID", mock.Anything, productID).Return(&models.Product{ID: productID, Slug: "desk-lamp"}, nil).Once()
		repo.On("DeleteProduct", mock.Anything, productID).Return(repository.ErrNotFound).Once()

		requireAppCode(t, svc.DeleteProduct(ctx, productID), appErrors.ErrCodeNotFound)
	})
}

func TestListProducts(t *testing.T) {
	ctx := t.Context()

	t.Run("Success - Filter is normalized", func(t *testing.T) {
		svc, repo, _ := newProductFixture(t)
		products := []*models.Product{{ID: uuid.New()}}
		repo.On("ListProducts", mock.Anything, models.ProductFilter{Query: "lamp", Page: 1, PerPage: 100}).Return(products, 1, nil).Once()

		got, total, err := svc.ListProducts(ctx, models.ProductFilter{Query: "lamp", Page: 0, PerPage: 500})

		require.NoError(t, err)
		assert.Equal(t, 1, total)
		assert.Len(t, got, 1)
	})

	t.Run("Failure - Database error", func(t *testing.T) {
		svc, repo, _ := newProductFixture(t)
		repo.On("ListProducts", mock.Anything, mock.Anything).Return(nil, 0, errors.New("boom")).Once()

		_, _, err := svc.ListProducts(ctx, models.ProductFilter{})

		requireAppCode(t, err, appErrors.ErrCodeDatabaseError)
	})
}
