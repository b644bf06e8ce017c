package service

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/storefront-cart/internal/cache"
	"github.com/aaravmahajanofficial/storefront-cart/internal/errors"
	"github.com/aaravmahajanofficial/storefront-cart/internal/models"
	repository "github.com/aaravmahajanofficial/storefront-cart/internal/repositories"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

type ProductService interface {
	CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error)
	// GetProduct accepts either a product id or its slug.
	GetProduct(ctx context.Context, idOrSlug string) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int, error)
}

type productService struct {
	repo     repository.ProductRepository
	cache    cache.Cache
	cacheTTL time.Duration
	policy   *bluemonday.Policy
}

func NewProductService(repo repository.ProductRepository, productCache cache.Cache, cacheTTL time.Duration) ProductService {
	return &productService{
		repo:     repo,
		cache:    productCache,
		cacheTTL: cacheTTL,
		policy:   bluemonday.StrictPolicy(),
	}
}

func (s *productService) sanitize(value string) string {
	return strings.TrimSpace(s.policy.Sanitize(value))
}

func (s *productService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	product := &models.Product{
		CategoryID:  req.CategoryID,
		Name:        s.sanitize(req.Name),
		Slug:        req.Slug,
		Description: s.sanitize(req.Description),
		PriceCents:  req.PriceCents,
		Currency:    strings.ToUpper(req.Currency),
		SKU:         s.sanitize(req.SKU),
		Status:      req.Status,
		Inventory:   &models.Inventory{LowStock: models.DefaultLowStockLevel},
		Images:      make([]models.ProductImage, 0, len(req.Images)),
	}

	if product.Currency == "" {
		product.Currency = models.DefaultCurrency
	}
	if product.Status == "" {
		product.Status = models.ProductStatusDraft
	}

	if req.Inventory != nil {
		product.Inventory.Quantity = req.Inventory.Quantity
		if req.Inventory.LowStock != nil {
			product.Inventory.LowStock = *req.Inventory.LowStock
		}
	}

	for _, img := range req.Images {
		product.Images = append(product.Images, models.ProductImage{
			URL:       img.URL,
			Alt:       s.sanitize(img.Alt),
			SortOrder: img.SortOrder,
		})
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		if stdErrors.Is(err, repository.ErrConflict) {
			return nil, errors.ConflictError("A product with this slug or SKU already exists").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to create product").WithError(err)
	}

	return product, nil
}

func (s *productService) GetProduct(ctx context.Context, idOrSlug string) (*models.Product, error) {
	key := cache.Key(cache.ProductKeyPrefix, idOrSlug)

	var cached models.Product
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		slog.WarnContext(ctx, "Product cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	if found {
		return &cached, nil
	}

	product, err := s.lookup(ctx, idOrSlug)
	if err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundError("Product not found")
		}
		return nil, errors.DatabaseError("Failed to get product").WithError(err)
	}

	// deleted products stay in the table for cart history only
	if product.Status == models.ProductStatusDeleted {
		return nil, errors.NotFoundError("Product not found")
	}

	if err := s.cache.Set(ctx, key, product, s.cacheTTL); err != nil {
		slog.WarnContext(ctx, "Product cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	return product, nil
}

func (s *productService) lookup(ctx context.Context, idOrSlug string) (*models.Product, error) {
	if id, err := uuid.Parse(idOrSlug); err == nil {
		return s.repo.GetProductByID(ctx, id)
	}
	return s.repo.GetProductBySlug(ctx, idOrSlug)
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error) {
	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundError("Product not found")
		}
		return nil, errors.DatabaseError("Failed to get product").WithError(err)
	}

	if product.Status == models.ProductStatusDeleted {
		return nil, errors.NotFoundError("Product not found")
	}

	if req.CategoryID != nil {
		product.CategoryID = req.CategoryID
	}
	if req.Name != nil {
		product.Name = s.sanitize(*req.Name)
	}
	if req.Description != nil {
		product.Description = s.sanitize(*req.Description)
	}
	if req.PriceCents != nil {
		product.PriceCents = *req.PriceCents
	}
	if req.Status != nil {
		product.Status = *req.Status
	}

	// inventory is only written when the request carries it
	product.Inventory = nil
	if req.Inventory != nil {
		product.Inventory = &models.Inventory{Quantity: req.Inventory.Quantity, LowStock: models.DefaultLowStockLevel}
		if req.Inventory.LowStock != nil {
			product.Inventory.LowStock = *req.Inventory.LowStock
		}
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundError("Product not found")
		}
		return nil, errors.DatabaseError("Failed to update product").WithError(err)
	}

	s.invalidate(ctx, product)

	updated, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, errors.DatabaseError("Failed to get product").WithError(err)
	}

	return updated, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return errors.NotFoundError("Product not found")
		}
		return errors.DatabaseError("Failed to get product").WithError(err)
	}

	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return errors.NotFoundError("Product not found")
		}
		return errors.DatabaseError("Failed to delete product").WithError(err)
	}

	s.invalidate(ctx, product)

	return nil
}

func (s *productService) ListProducts(ctx context.Context, filter models.ProductFilter) ([]*models.Product, int, error) {
	filter.Normalize()

	products, total, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list products").WithError(err)
	}

	return products, total, nil
}

// invalidate drops both cache entries; a stale entry only costs one TTL.
func (s *productService) invalidate(ctx context.Context, product *models.Product) {
	keys := cache.ProductKeys(product.ID.String(), product.Slug)
	if err := s.cache.Delete(ctx, keys...); err != nil {
		slog.WarnContext(ctx, "Product cache invalidation failed", slog.Any("keys", keys), slog.String("error", err.Error()))
	}
}
