package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront-cart/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront-cart/internal/errors"
	"github.com/aaravmahajanofficial/storefront-cart/internal/models"
	service "github.com/aaravmahajanofficial/storefront-cart/internal/services"
	"github.com/aaravmahajanofficial/storefront-cart/internal/utils"
	"github.com/aaravmahajanofficial/storefront-cart/internal/utils/response"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type CartHandler struct {
	cartService service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService, validator: utils.NewValidator()}
}

// GetCart godoc
//	@Summary		Get the active cart
//	@Description	Returns the caller's active cart, creating an empty one on first access. Items carry a product summary and the cart carries its subtotal and item count.
//	@Tags			Cart
//	@Produce		json
//	@Success		200	{object}	models.Cart				"Active cart"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/me/cart [get]
func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r, logger)
		if !ok {
			return
		}

		cart, err := h.cartService.GetOrCreateActiveCart(r.Context(), claims.UserID())
		if err != nil {
			writeServiceError(w, logger, "Failed to load cart", err)
			return
		}

		logger.Debug("Cart retrieved", slog.String("cartId", cart.ID.String()), slog.Int("itemCount", cart.ItemCount))
		response.Success(w, http.StatusOK, cart)
	}
}

// AddItem godoc
//	@Summary		Add a product to the cart
//	@Description	Adds quantity units of a product. An existing line for the same product is incremented and keeps its original price snapshot.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			item	body		models.AddCartItemRequest	true	"Product and quantity (defaults to 1)"
//	@Success		200		{object}	models.Cart					"Updated cart"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error or insufficient inventory"
//	@Failure		401		{object}	response.ErrorResponse		"Authentication required"
//	@Failure		404		{object}	response.ErrorResponse		"Product not found"
//	@Failure		500		{object}	response.ErrorResponse		"Internal server error"
//	@Security		BearerAuth
//	@Router			/me/cart/items [post]
func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r, logger)
		if !ok {
			return
		}

		var req models.AddCartItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid add cart item input")
			return
		}

		productID, err := uuid.Parse(req.ProductID)
		if err != nil {
			response.Error(w, errors.AddValidationError("productId", "must be a valid UUID"))
			return
		}

		quantity := 1
		if req.Quantity != nil {
			quantity = *req.Quantity
		}

		logger = logger.With(slog.String("productId", productID.String()), slog.Int("quantity", quantity))

		cart, err := h.cartService.AddItem(r.Context(), claims.UserID(), productID, quantity)
		if err != nil {
			writeServiceError(w, logger, "Failed to add cart item", err)
			return
		}

		logger.Info("Cart item added", slog.String("cartId", cart.ID.String()))
		response.Success(w, http.StatusOK, cart)
	}
}

// UpdateItem godoc
//	@Summary		Set a cart line quantity
//	@Description	Sets the quantity of a line in the caller's active cart. A quantity of 0 removes the line.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			itemId	path		string							true	"Cart item ID (UUID)"	Format(uuid)
//	@Param			item	body		models.UpdateCartItemRequest	true	"New quantity"
//	@Success		200		{object}	models.Cart						"Updated cart"
//	@Failure		400		{object}	response.ErrorResponse			"Validation error or insufficient inventory"
//	@Failure		401		{object}	response.ErrorResponse			"Authentication required"
//	@Failure		404		{object}	response.ErrorResponse			"Cart item not found"
//	@Failure		500		{object}	response.ErrorResponse			"Internal server error"
//	@Security		BearerAuth
//	@Router			/me/cart/items/{itemId} [patch]
func (h *CartHandler) UpdateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r, logger)
		if !ok {
			return
		}

		itemID, err := utils.ParseID(r, "itemId")
		if err != nil {
			logger.Warn("Invalid cart item id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		var req models.UpdateCartItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update cart item input")
			return
		}

		logger = logger.With(slog.String("itemId", itemID.String()), slog.Int("quantity", *req.Quantity))

		cart, err := h.cartService.UpdateItem(r.Context(), claims.UserID(), itemID, *req.Quantity)
		if err != nil {
			writeServiceError(w, logger, "Failed to update cart item", err)
			return
		}

		logger.Info("Cart item updated", slog.String("cartId", cart.ID.String()))
		response.Success(w, http.StatusOK, cart)
	}
}

// RemoveItem godoc
//	@Summary		Remove a line from the cart
//	@Tags			Cart
//	@Produce		json
//	@Param			itemId	path		string					true	"Cart item ID (UUID)"	Format(uuid)
//	@Success		200		{object}	models.Cart				"Updated cart"
//	@Failure		400		{object}	response.ErrorResponse	"Invalid cart item ID"
//	@Failure		401		{object}	response.ErrorResponse	"Authentication required"
//	@Failure		404		{object}	response.ErrorResponse	"Cart item not found"
//	@Failure		500		{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/me/cart/items/{itemId} [delete]
func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := requireClaims(w, r, logger)
		if !ok {
			return
		}

		itemID, err := utils.ParseID(r, "itemId")
		if err != nil {
			logger.Warn("Invalid cart item id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger = logger.With(slog.String("itemId", itemID.String()))

		cart, err := h.cartService.RemoveItem(r.Context(), claims.UserID(), itemID)
		if err != nil {
			writeServiceError(w, logger, "Failed to remove cart item", err)
			return
		}

		logger.Info("Cart item removed", slog.String("cartId", cart.ID.String()))
		response.Success(w, http.StatusOK, cart)
	}
}
