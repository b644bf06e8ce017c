package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/storefront-cart/internal/api/handlers"
	appErrors "github.com/aaravmahajanofficial/storefront-cart/internal/errors"
	"github.com/aaravmahajanofficial/storefront-cart/internal/models"
	"github.com/aaravmahajanofficial/storefront-cart/internal/services/mocks"
	"github.com/aaravmahajanofficial/storefront-cart/internal/testutils"
	"github.com/aaravmahajanofficial/storefront-cart/internal/utils/response"
	"github.com/google/uuid"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testUserID = "user-123"

var (
	fixtureCartID    = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	fixtureItemID    = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	fixtureProductID = uuid.MustParse("33333333-3333-3333-3333-333333333333")
	fixtureImageID   = uuid.MustParse("44444444-4444-4444-4444-444444444444")
)

// fixtureCart has fixed ids and timestamps so its encoding is stable.
func fixtureCart() *models.Cart {
	cartCreated := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	cartUpdated := time.Date(2026, 1, 2, 3, 10, 0, 0, time.UTC)
	productTime := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	cart := &models.Cart{
		ID:     fixtureCartID,
		UserID: testUserID,
		Status: models.CartStatusActive,
		Items: []models.CartItem{{
			ID:                 fixtureItemID,
			CartID:             fixtureCartID,
			ProductID:          fixtureProductID,
			Quantity:           2,
			PriceSnapshotCents: 49900,
			Product: &models.Product{
				ID:          fixtureProductID,
				Name:        "Wireless Mouse",
				Slug:        "wireless-mouse",
				Description: "Ergonomic",
				PriceCents:  54900,
				Currency:    "INR",
				SKU:         "WM-1",
				Status:      models.ProductStatusActive,
				Inventory:   &models.Inventory{Quantity: 10, LowStock: 2},
				Images: []models.ProductImage{{
					ID:  fixtureImageID,
					URL: "https://cdn.example.com/mouse.png",
					Alt: "Mouse",
				}},
				CreatedAt: productTime,
				UpdatedAt: productTime,
			},
			CreatedAt: cartCreated,
			UpdatedAt: cartUpdated,
		}},
		CreatedAt: cartCreated,
		UpdatedAt: cartUpdated,
	}
	cart.Recalculate()

	return cart
}

func decodeCart(t *testing.T, rr *httptest.ResponseRecorder) *models.Cart {
	t.Helper()

	var resp struct {
		Success bool         `json:"success"`
		Data    *models.Cart `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotNil(t, resp.Data)

	return resp.Data
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) *response.ErrorResponse {
	t.Helper()

	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)

	return resp.Error
}

func TestGetCart(t *testing.T) {
	t.Run("Success - Matches Golden Wire Shape", func(t *testing.T) {
		// Arrange
		mockCartService := new(mocks.CartService)
		cartHandler := handlers.NewCartHandler(mockCartService)
		mockCartService.On("GetOrCreateActiveCart", mock.Anything, testUserID).Return(fixtureCart(), nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/me/cart", nil, testUserID, models.RoleCustomer, nil)
		rr := httptest.NewRecorder()

		// Act
		cartHandler.GetCart().ServeHTTP(rr, req)

		// Assert
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

		var pretty bytes.Buffer
		require.NoError(t, json.Indent(&pretty, bytes.TrimSpace(rr.Body.Bytes()), "", "  "))
		pretty.WriteByte('\n')

		g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
		g.Assert(t, "cart_response", pretty.Bytes())

		mockCartService.AssertExpectations(t)
	})

	t.Run("Success - Empty Cart Encodes Empty Items", func(t *testing.T) {
		mockCartService := new(mocks.CartService)
		cartHandler := handlers.NewCartHandler(mockCartService)
		empty := &models.Cart{ID: fixtureCartID, UserID: testUserID, Status: models.CartStatusActive, Items: []models.CartItem{}}
		mockCartService.On("GetOrCreateActiveCart", mock.Anything, testUserID).Return(empty, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/me/cart", nil, testUserID, models.RoleCustomer, nil)
		rr := httptest.NewRecorder()

		cartHandler.GetCart().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"items":[]`)
		assert.Contains(t, rr.Body.String(), `"subtotalCents":0`)
		mockCartService.AssertExpectations(t)
	})

	t.Run("Failure - Unauthorized", func(t *testing.T) {
		mockCartService := new(mocks.CartService)
		cartHandler := handlers.NewCartHandler(mockCartService)

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/me/cart", nil, nil)
		rr := httptest.NewRecorder()

		cartHandler.GetCart().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, appErrors.ErrCodeUnauthorized, decodeError(t, rr).Code)
		mockCartService.AssertNotCalled(t, "GetOrCreateActiveCart", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Store Error", func(t *testing.T) {
		mockCartService := new(mocks.CartService)
		cartHandler := handlers.NewCartHandler(mockCartService)
		mockCartService.On("GetOrCreateActiveCart", mock.Anything, testUserID).
			Return(nil, appErrors.DatabaseError("Failed to load cart")).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/me/cart", nil, testUserID, models.RoleCustomer, nil)
		rr := httptest.NewRecorder()

		cartHandler.GetCart().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, appErrors.ErrCodeDatabaseError, decodeError(t, rr).Code)
		mockCartService.AssertExpectations(t)
	})
}

func TestAddItem(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(m *mocks.CartService)
		expectedStatus int
		expectedCode   appErrors.Code
	}{
		{
			name: "Success - Explicit Quantity",
			body: `{"productId":"` + fixtureProductID.String() + `","quantity":2}`,
			setupMock: func(m *mocks.CartService) {
				m.On("AddItem", mock.Anything, testUserID, fixtureProductID, 2).Return(fixtureCart(), nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Success - Quantity Defaults To One",
			body: `{"productId":"` + fixtureProductID.String() + `"}`,
			setupMock: func(m *mocks.CartService) {
				m.On("AddItem", mock.Anything, testUserID, fixtureProductID, 1).Return(fixtureCart(), nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Failure - Zero Quantity Rejected By Service",
			body: `{"productId":"` + fixtureProductID.String() + `","quantity":0}`,
			setupMock: func(m *mocks.CartService) {
				m.On("AddItem", mock.Anything, testUserID, fixtureProductID, 0).
					Return(nil, appErrors.ValidationError("Quantity must be at least 1")).Once()
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   appErrors.ErrCodeValidation,
		},
		{
			name: "Failure - Unknown Product",
			body: `{"productId":"` + fixtureProductID.String() + `","quantity":1}`,
			setupMock: func(m *mocks.CartService) {
				m.On("AddItem", mock.Anything, testUserID, fixtureProductID, 1).
					Return(nil, appErrors.NotFoundError("Product not found")).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   appErrors.ErrCodeNotFound,
		},
		{
			name:           "Failure - Quantity Above Request Cap",
			body:           `{"productId":"` + fixtureProductID.String() + `","quantity":10001}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   appErrors.ErrCodeValidation,
		},
		{
			name:           "Failure - Invalid Product ID",
			body:           `{"productId":"not-a-uuid","quantity":1}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   appErrors.ErrCodeValidation,
		},
		{
			name:           "Failure - Missing Product ID",
			body:           `{"quantity":1}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   appErrors.ErrCodeValidation,
		},
		{
			name:           "Failure - Malformed JSON",
			body:           `{"productId":`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   appErrors.ErrCodeBadRequest,
		},
		{
			name:           "Failure - Empty Body",
			body:           ``,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   appErrors.ErrCodeBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			mockCartService := new(mocks.CartService)
			cartHandler := handlers.NewCartHandler(mockCartService)
			if tc.setupMock != nil {
				tc.setupMock(mockCartService)
			}

			req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/me/cart/items", strings.NewReader(tc.body), testUserID, models.RoleCustomer, nil)
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			// Act
			cartHandler.AddItem().ServeHTTP(rr, req)

			// Assert
			assert.Equal(t, tc.expectedStatus, rr.Code)
			if tc.expectedCode == "" {
				cart := decodeCart(t, rr)
				assert.Equal(t, fixtureCartID, cart.ID)
				assert.Equal(t, int64(99800), cart.SubtotalCents)
			} else {
				assert.Equal(t, tc.expectedCode, decodeError(t, rr).Code)
			}

			mockCartService.AssertExpectations(t)
		})
	}

	t.Run("Failure - Insufficient Inventory Details", func(t *testing.T) {
		mockCartService := new(mocks.CartService)
		cartHandler := handlers.NewCartHandler(mockCartService)
		mockCartService.On("AddItem", mock.Anything, testUserID, fixtureProductID, 5).
			Return(nil, appErrors.ValidationError("Insufficient inventory").WithDetail("available", 3)).Once()

		body := `{"productId":"` + fixtureProductID.String() + `","quantity":5}`
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/me/cart/items", strings.NewReader(body), testUserID, models.RoleCustomer, nil)
		rr := httptest.NewRecorder()

		cartHandler.AddItem().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.JSONEq(t, `{"success":false,"error":{"code":"VALIDATION_ERROR","message":"Insufficient inventory","details":{"available":3}}}`, rr.Body.String())
	})

	t.Run("Failure - Unauthorized", func(t *testing.T) {
		mockCartService := new(mocks.CartService)
		cartHandler := handlers.NewCartHandler(mockCartService)

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/me/cart/items", strings.NewReader(`{}`), nil)
		rr := httptest.NewRecorder()

		cartHandler.AddItem().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		mockCartService.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUpdateItem(t *testing.T) {
	pathParams := map[string]string{"itemId": fixtureItemID.String()}

	tests := []struct {
		name           string
		pathParams     map[string]string
		body           string
		setupMock      func(m *mocks.CartService)
		expectedStatus int
		expectedCode   appErrors.Code
	}{
		{
			name:       "Success - Set Quantity",
			pathParams: pathParams,
			body:       `{"quantity":3}`,
			setupMock: func(m *mocks.CartService) {
				m.On("UpdateItem", mock.Anything, testUserID, fixtureItemID, 3).Return(fixtureCart(), nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:       "Success - Zero Removes Line",
			pathParams: pathParams,
			body:       `{"quantity":0}`,
			setupMock: func(m *mocks.CartService) {
				empty := &models.Cart{ID: fixtureCartID, UserID: testUserID, Status: models.CartStatusActive, Items: []models.CartItem{}}
				m.On("UpdateItem", mock.Anything, testUserID, fixtureItemID, 0).Return(empty, nil).Once()
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:       "Failure - Negative Quantity",
			pathParams: pathParams,
			body:       `{"quantity":-1}`,
			setupMock: func(m *mocks.CartService) {
				m.On("UpdateItem", mock.Anything, testUserID, fixtureItemID, -1).
					Return(nil, appErrors.ValidationError("Quantity cannot be negative")).Once()
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   appErrors.ErrCodeValidation,
		},
		{
			name:       "Failure - Foreign Or Missing Item",
			pathParams: pathParams,
			body:       `{"quantity":1}`,
			setupMock: func(m *mocks.CartService) {
				m.On("UpdateItem", mock.Anything, testUserID, fixtureItemID, 1).
					Return(nil, appErrors.NotFoundError("Cart item not found")).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   appErrors.ErrCodeNotFound,
		},
		{
			name:           "Failure - Quantity Above Request Cap",
			pathParams:     pathParams,
			body:           `{"quantity":2147483648}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   appErrors.ErrCodeValidation,
		},
		{
			name:           "Failure - Missing Quantity",
			pathParams:     pathParams,
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   appErrors.ErrCodeValidation,
		},
		{
			name:           "Failure - Invalid Item ID",
			pathParams:     map[string]string{"itemId": "abc"},
			body:           `{"quantity":1}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   appErrors.ErrCodeValidation,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			mockCartService := new(mocks.CartService)
			cartHandler := handlers.NewCartHandler(mockCartService)
			if tc.setupMock != nil {
				tc.setupMock(mockCartService)
			}

			req := testutils.CreateTestRequestWithContext(http.MethodPatch, "/api/v1/me/cart/items/"+tc.pathParams["itemId"], strings.NewReader(tc.body), testUserID, models.RoleCustomer, tc.pathParams)
			rr := httptest.NewRecorder()

			// Act
			cartHandler.UpdateItem().ServeHTTP(rr, req)

			// Assert
			assert.Equal(t, tc.expectedStatus, rr.Code)
			if tc.expectedCode != "" {
				assert.Equal(t, tc.expectedCode, decodeError(t, rr).Code)
			} else {
				assert.Equal(t, fixtureCartID, decodeCart(t, rr).ID)
			}

			mockCartService.AssertExpectations(t)
		})
	}
}

func TestRemoveItem(t *testing.T) {
	t.Run("Success - Line Removed", func(t *testing.T) {
		// Arrange
		mockCartService := new(mocks.CartService)
		cartHandler := handlers.NewCartHandler(mockCartService)
		empty := &models.Cart{ID: fixtureCartID, UserID: testUserID, Status: models.CartStatusActive, Items: []models.CartItem{}}
		mockCartService.On("RemoveItem", mock.Anything, testUserID, fixtureItemID).Return(empty, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodDelete, "/api/v1/me/cart/items/"+fixtureItemID.String(), nil, testUserID, models.RoleCustomer,
			map[string]string{"itemId": fixtureItemID.String()})
		rr := httptest.NewRecorder()

		// Act
		cartHandler.RemoveItem().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		cart := decodeCart(t, rr)
		assert.Empty(t, cart.Items)
		assert.Zero(t, cart.ItemCount)
		mockCartService.AssertExpectations(t)
	})

	t.Run("Failure - Item Not Found", func(t *testing.T) {
		mockCartService := new(mocks.CartService)
		cartHandler := handlers.NewCartHandler(mockCartService)
		mockCartService.On("RemoveItem", mock.Anything, testUserID, fixtureItemID).
			Return(nil, appErrors.NotFoundError("Cart item not found")).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodDelete, "/api/v1/me/cart/items/"+fixtureItemID.String(), nil, testUserID, models.RoleCustomer,
			map[string]string{"itemId": fixtureItemID.String()})
		rr := httptest.NewRecorder()

		cartHandler.RemoveItem().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "Cart item not found", decodeError(t, rr).Message)
		mockCartService.AssertExpectations(t)
	})

	t.Run("Failure - Invalid Item ID", func(t *testing.T) {
		mockCartService := new(mocks.CartService)
		cartHandler := handlers.NewCartHandler(mockCartService)

		req := testutils.CreateTestRequestWithContext(http.MethodDelete, "/api/v1/me/cart/items/xyz", nil, testUserID, models.RoleCustomer,
			map[string]string{"itemId": "xyz"})
		rr := httptest.NewRecorder()

		cartHandler.RemoveItem().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockCartService.AssertNotCalled(t, "RemoveItem", mock.Anything, mock.Anything, mock.Anything)
	})
}
