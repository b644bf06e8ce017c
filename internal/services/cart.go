package service

import (
	"context"
	stdErrors "errors"

	"github.com/aaravmahajanofficial/storefront-cart/internal/errors"
	"github.com/aaravmahajanofficial/storefront-cart/internal/metrics"
	"github.com/aaravmahajanofficial/storefront-cart/internal/models"
	repository "github.com/aaravmahajanofficial/storefront-cart/internal/repositories"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/aaravmahajanofficial/storefront-cart/internal/services"

// CatalogReader is the read-only view of the catalog the cart engine prices
// and stock-checks against. Lookups return repository.ErrNotFound on a miss.
type CatalogReader interface {
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetProductsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error)
}

// CartService owns the caller's ACTIVE cart. Items are only ever resolved
// through that cart, so an item in someone else's cart reads as not found.
type CartService interface {
	GetOrCreateActiveCart(ctx context.Context, userID string) (*models.Cart, error)
	AddItem(ctx context.Context, userID string, productID uuid.UUID, quantity int) (*models.Cart, error)
	UpdateItem(ctx context.Context, userID string, itemID uuid.UUID, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, userID string, itemID uuid.UUID) (*models.Cart, error)
}

type cartService struct {
	carts   repository.CartRepository
	catalog CatalogReader
	tracer  trace.Tracer
}

func NewCartService(carts repository.CartRepository, catalog CatalogReader) CartService {
	return &cartService{
		carts:   carts,
		catalog: catalog,
		tracer:  otel.Tracer(tracerName),
	}
}

func itemNotFound() error {
	return errors.NotFoundError("Cart item not found")
}

func (s *cartService) GetOrCreateActiveCart(ctx context.Context, userID string) (*models.Cart, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.GetOrCreateActiveCart")
	defer span.End()

	var cart *models.Cart

	err := s.carts.WithTx(ctx, func(tx repository.CartTx) error {
		active, err := resolveActiveCart(ctx, tx, userID)
		if err != nil {
			return err
		}

		cart, err = tx.LoadCart(ctx, active.ID)
		return err
	})
	if err != nil {
		return nil, s.finish(span, "get", storeError(err, "Failed to get cart"))
	}

	return s.hydrateAndFinish(ctx, span, "get", cart)
}

func (s *cartService) AddItem(ctx context.Context, userID string, productID uuid.UUID, quantity int) (*models.Cart, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.AddItem", trace.WithAttributes(
		attribute.String("product.id", productID.String()),
		attribute.Int("cart.quantity", quantity),
	))
	defer span.End()

	if quantity < 1 {
		return nil, s.finish(span, "add", errors.ValidationError("Quantity must be at least 1").WithDetail("quantity", quantity))
	}

	product, err := s.catalog.GetProductByID(ctx, productID)
	if err != nil {
		return nil, s.finish(span, "add", catalogError(err, productID))
	}

	// soft-deleted products are treated as absent
	if product.Status == models.ProductStatusDeleted {
		return nil, s.finish(span, "add", productNotFound(productID))
	}

	// the increment alone is checked; lines already in the cart are not reserved stock
	if available := product.AvailableQuantity(); available < quantity {
		return nil, s.finish(span, "add", insufficientInventory(productID, quantity, available))
	}

	var cart *models.Cart

	err = s.carts.WithTx(ctx, func(tx repository.CartTx) error {
		active, err := resolveActiveCart(ctx, tx, userID)
		if err != nil {
			return err
		}

		item := &models.CartItem{
			CartID:             active.ID,
			ProductID:          productID,
			Quantity:           quantity,
			PriceSnapshotCents: product.PriceCents,
		}
		if err := tx.UpsertItem(ctx, item); err != nil {
			return err
		}

		if err := tx.TouchCart(ctx, active.ID); err != nil {
			return err
		}

		cart, err = tx.LoadCart(ctx, active.ID)
		return err
	})
	if err != nil {
		return nil, s.finish(span, "add", storeError(err, "Failed to add item to cart"))
	}

	return s.hydrateAndFinish(ctx, span, "add", cart)
}

func (s *cartService) UpdateItem(ctx context.Context, userID string, itemID uuid.UUID, quantity int) (*models.Cart, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.UpdateItem", trace.WithAttributes(
		attribute.String("cart.item_id", itemID.String()),
		attribute.Int("cart.quantity", quantity),
	))
	defer span.End()

	if quantity < 0 {
		return nil, s.finish(span, "update", errors.ValidationError("Quantity cannot be negative").WithDetail("quantity", quantity))
	}

	if quantity > 0 {
		if err := s.checkItemStock(ctx, userID, itemID, quantity); err != nil {
			return nil, s.finish(span, "update", storeError(err, "Failed to update cart item"))
		}
	}

	var cart *models.Cart

	err := s.carts.WithTx(ctx, func(tx repository.CartTx) error {
		active, item, err := ownedItem(ctx, tx, userID, itemID)
		if err != nil {
			return err
		}

		if quantity == 0 {
			err = tx.DeleteItem(ctx, item.ID)
		} else {
			err = tx.SetItemQuantity(ctx, item.ID, quantity)
		}
		if err != nil {
			return err
		}

		if err := tx.TouchCart(ctx, active.ID); err != nil {
			return err
		}

		cart, err = tx.LoadCart(ctx, active.ID)
		return err
	})
	if err != nil {
		return nil, s.finish(span, "update", storeError(err, "Failed to update cart item"))
	}

	return s.hydrateAndFinish(ctx, span, "update", cart)
}

func (s *cartService) RemoveItem(ctx context.Context, userID string, itemID uuid.UUID) (*models.Cart, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.RemoveItem", trace.WithAttributes(
		attribute.String("cart.item_id", itemID.String()),
	))
	defer span.End()

	var cart *models.Cart

	err := s.carts.WithTx(ctx, func(tx repository.CartTx) error {
		active, item, err := ownedItem(ctx, tx, userID, itemID)
		if err != nil {
			return err
		}

		if err := tx.DeleteItem(ctx, item.ID); err != nil {
			return err
		}

		if err := tx.TouchCart(ctx, active.ID); err != nil {
			return err
		}

		cart, err = tx.LoadCart(ctx, active.ID)
		return err
	})
	if err != nil {
		return nil, s.finish(span, "remove", storeError(err, "Failed to remove cart item"))
	}

	return s.hydrateAndFinish(ctx, span, "remove", cart)
}

// checkItemStock compares an absolute line quantity with current stock. The
// catalog is read outside any cart transaction, so a store connection is never
// held while waiting on another; stock is not reserved, so nothing is lost.
// The caller looks the item up again inside its write transaction, so a line
// removed between the two transactions still reports NOT_FOUND.
func (s *cartService) checkItemStock(ctx context.Context, userID string, itemID uuid.UUID, quantity int) error {
	var productID uuid.UUID

	err := s.carts.WithTx(ctx, func(tx repository.CartTx) error {
		_, item, err := ownedItem(ctx, tx, userID, itemID)
		if err != nil {
			return err
		}
		productID = item.ProductID
		return nil
	})
	if err != nil {
		return err
	}

	product, err := s.catalog.GetProductByID(ctx, productID)
	if err != nil {
		return catalogError(err, productID)
	}

	if available := product.AvailableQuantity(); available < quantity {
		return insufficientInventory(productID, quantity, available)
	}

	return nil
}

// resolveActiveCart returns the user's locked ACTIVE cart, creating it on first use.
func resolveActiveCart(ctx context.Context, tx repository.CartTx, userID string) (*models.Cart, error) {
	cart, err := tx.GetActiveCart(ctx, userID)
	if err == nil {
		return cart, nil
	}

	if !stdErrors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	return tx.CreateActiveCart(ctx, userID)
}

// ownedItem finds itemID inside the user's ACTIVE cart. A missing cart, a
// missing item and someone else's item all produce the same error.
func ownedItem(ctx context.Context, tx repository.CartTx, userID string, itemID uuid.UUID) (*models.Cart, *models.CartItem, error) {
	cart, err := tx.GetActiveCart(ctx, userID)
	if err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, nil, itemNotFound()
		}
		return nil, nil, err
	}

	item, err := tx.GetItem(ctx, cart.ID, itemID)
	if err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, nil, itemNotFound()
		}
		return nil, nil, err
	}

	return cart, item, nil
}

// hydrate attaches current product display data to each line and derives
// the totals. Snapshot prices are left as stored.
func (s *cartService) hydrate(ctx context.Context, cart *models.Cart) error {
	ids := make([]uuid.UUID, 0, len(cart.Items))
	seen := make(map[uuid.UUID]struct{}, len(cart.Items))

	for _, item := range cart.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}

	products, err := s.catalog.GetProductsByIDs(ctx, ids)
	if err != nil {
		return err
	}

	for i := range cart.Items {
		if product, ok := products[cart.Items[i].ProductID]; ok {
			cart.Items[i].Product = product.Summary()
		}
	}

	cart.Recalculate()

	return nil
}

func (s *cartService) hydrateAndFinish(ctx context.Context, span trace.Span, op string, cart *models.Cart) (*models.Cart, error) {
	if err := s.hydrate(ctx, cart); err != nil {
		return nil, s.finish(span, op, errors.DatabaseError("Failed to load cart products").WithError(err))
	}

	span.SetAttributes(
		attribute.String("cart.id", cart.ID.String()),
		attribute.Int("cart.item_count", cart.ItemCount),
	)
	s.finish(span, op, nil)

	return cart, nil
}

// finish records the outcome on the span and the operation counter.
func (s *cartService) finish(span trace.Span, op string, err error) error {
	if err == nil {
		metrics.RecordCartOperation(op, metrics.OutcomeOK)
		return nil
	}

	code := errors.ErrCodeInternal
	if appErr, ok := errors.IsAppError(err); ok {
		code = appErr.Code
	}

	metrics.RecordCartOperation(op, string(code))

	if !code.IsClientError() {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return err
}

// storeError passes engine errors through and wraps anything else as a database failure.
func storeError(err error, message string) error {
	if _, ok := errors.IsAppError(err); ok {
		return err
	}
	return errors.DatabaseError(message).WithError(err)
}

func productNotFound(productID uuid.UUID) error {
	return errors.NotFoundError("Product not found").WithDetail("productId", productID.String())
}

func catalogError(err error, productID uuid.UUID) error {
	if stdErrors.Is(err, repository.ErrNotFound) {
		return productNotFound(productID)
	}
	return errors.DatabaseError("Failed to get product").WithError(err)
}

func insufficientInventory(productID uuid.UUID, requested, available int) error {
	return errors.ValidationError("Insufficient inventory").
		WithDetail("productId", productID.String()).
		WithDetail("requested", requested).
		WithDetail("available", available)
}
