package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/aaravmahajanofficial/storefront-cart/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront-cart/internal/errors"
	"github.com/aaravmahajanofficial/storefront-cart/internal/models"
	service "github.com/aaravmahajanofficial/storefront-cart/internal/services"
	"github.com/aaravmahajanofficial/storefront-cart/internal/utils"
	"github.com/aaravmahajanofficial/storefront-cart/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type ProductHandler struct {
	productService service.ProductService
	validator      *validator.Validate
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService, validator: utils.NewValidator()}
}

// ListProducts godoc
//	@Summary		List active products
//	@Description	Paginated catalog listing with optional search, category filter and sort.
//	@Tags			Products
//	@Produce		json
//	@Param			query		query		string	false	"Case-insensitive search on name and description"
//	@Param			category	query		string	false	"Category id or slug"
//	@Param			sort		query		string	false	"Sort order"	Enums(newest, price_asc, price_desc, popular)
//	@Param			page		query		int		false	"Page number"	default(1)
//	@Param			perPage		query		int		false	"Page size"		default(20)	maximum(100)
//	@Success		200			{object}	models.PaginatedResponse	"Products page"
//	@Failure		500			{object}	response.ErrorResponse		"Internal server error"
//	@Router			/products [get]
func (h *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		q := r.URL.Query()
		filter := models.ProductFilter{
			Query:    strings.TrimSpace(q.Get("query")),
			Category: strings.TrimSpace(q.Get("category")),
			Sort:     models.ProductSort(q.Get("sort")),
			Page:     utils.QueryInt(r, "page", models.DefaultPage),
			PerPage:  utils.QueryInt(r, "perPage", models.DefaultPerPage),
		}
		filter.Normalize()

		products, total, err := h.productService.ListProducts(r.Context(), filter)
		if err != nil {
			writeServiceError(w, logger, "Failed to list products", err)
			return
		}

		logger.Debug("Products listed", slog.Int("total", total), slog.Int("page", filter.Page))
		response.Success(w, http.StatusOK, models.NewPaginatedResponse(products, total, filter.Page, filter.PerPage))
	}
}

// GetProduct godoc
//	@Summary		Get a product
//	@Description	Fetches a product by id or slug, including all images, inventory and category.
//	@Tags			Products
//	@Produce		json
//	@Param			id	path		string					true	"Product ID (UUID) or slug"
//	@Success		200	{object}	models.Product			"Product"
//	@Failure		404	{object}	response.ErrorResponse	"Product not found"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/products/{id} [get]
func (h *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		idOrSlug := strings.TrimSpace(r.PathValue("id"))
		if idOrSlug == "" {
			response.Error(w, errors.AddValidationError("id", "is required"))
			return
		}

		logger = logger.With(slog.String("product", idOrSlug))

		product, err := h.productService.GetProduct(r.Context(), idOrSlug)
		if err != nil {
			writeServiceError(w, logger, "Failed to get product", err)
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

// CreateProduct godoc
//	@Summary		Create a product
//	@Description	Creates a product with its inventory record and images. Requires the ADMIN role.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			product	body		models.CreateProductRequest	true	"Product details"
//	@Success		201		{object}	models.Product				"Created product"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error"
//	@Failure		401		{object}	response.ErrorResponse		"Authentication required"
//	@Failure		403		{object}	response.ErrorResponse		"Insufficient permissions"
//	@Failure		409		{object}	response.ErrorResponse		"Slug or SKU already in use"
//	@Failure		500		{object}	response.ErrorResponse		"Internal server error"
//	@Security		BearerAuth
//	@Router			/admin/products [post]
func (h *ProductHandler) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid create product input")
			return
		}

		product, err := h.productService.CreateProduct(r.Context(), &req)
		if err != nil {
			writeServiceError(w, logger, "Failed to create product", err)
			return
		}

		logger.Info("Product created successfully", slog.String("productId", product.ID.String()))
		response.Success(w, http.StatusCreated, product)
	}
}

// UpdateProduct godoc
//	@Summary		Update a product
//	@Description	Partially updates a product. Existing cart lines keep their price snapshot. Requires the ADMIN role.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Product ID (UUID)"	Format(uuid)
//	@Param			product	body		models.UpdateProductRequest	true	"Fields to change"
//	@Success		200		{object}	models.Product				"Updated product"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error"
//	@Failure		401		{object}	response.ErrorResponse		"Authentication required"
//	@Failure		403		{object}	response.ErrorResponse		"Insufficient permissions"
//	@Failure		404		{object}	response.ErrorResponse		"Product not found"
//	@Failure		500		{object}	response.ErrorResponse		"Internal server error"
//	@Security		BearerAuth
//	@Router			/admin/products/{id} [patch]
func (h *ProductHandler) UpdateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		var req models.UpdateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update product input")
			return
		}

		logger = logger.With(slog.String("productId", id.String()))

		product, err := h.productService.UpdateProduct(r.Context(), id, &req)
		if err != nil {
			writeServiceError(w, logger, "Failed to update product", err)
			return
		}

		logger.Info("Product updated successfully")
		response.Success(w, http.StatusOK, product)
	}
}

// DeleteProduct godoc
//	@Summary		Delete a product
//	@Description	Soft deletes a product. Requires the ADMIN role.
//	@Tags			Admin
//	@Param			id	path	string	true	"Product ID (UUID)"	Format(uuid)
//	@Success		204	"Deleted"
//	@Failure		400	{object}	response.ErrorResponse	"Invalid product ID"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		403	{object}	response.ErrorResponse	"Insufficient permissions"
//	@Failure		404	{object}	response.ErrorResponse	"Product not found"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/admin/products/{id} [delete]
func (h *ProductHandler) DeleteProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		if err := h.productService.DeleteProduct(r.Context(), id); err != nil {
			writeServiceError(w, logger.With(slog.String("productId", id.String())), "Failed to delete product", err)
			return
		}

		logger.Info("Product deleted", slog.String("productId", id.String()))
		w.WriteHeader(http.StatusNoContent)
	}
}
