package api

import (
	"net/http"
	"strings"

	"github.com/aaravmahajanofficial/storefront-cart/internal/api/handlers"
	"github.com/aaravmahajanofficial/storefront-cart/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront-cart/internal/config"
	"github.com/aaravmahajanofficial/storefront-cart/internal/metrics"
	"github.com/aaravmahajanofficial/storefront-cart/internal/models"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	_ "github.com/aaravmahajanofficial/storefront-cart/docs"
)

type RouterDeps struct {
	Cart        *handlers.CartHandler
	Product     *handlers.ProductHandler
	Auth        *middleware.AuthMiddleware
	RateLimiter *middleware.RateLimiter
	Health      http.Handler
	CORS        config.CORS
	// TracerProvider defaults to the global provider when nil.
	TracerProvider trace.TracerProvider
}

// NewRouter registers every route and wraps the mux in the middleware chain.
// The metrics middleware sits directly on the mux so it can read r.Pattern.
func NewRouter(d RouterDeps) http.Handler {
	mux := http.NewServeMux()

	authed := d.Auth.Authenticate
	admin := func(h http.Handler) http.HandlerFunc {
		return d.Auth.Authenticate(middleware.RequireRole(models.RoleAdmin)(h))
	}

	// Catalog
	mux.HandleFunc("GET /api/v1/products", d.Product.ListProducts())
	mux.HandleFunc("GET /api/v1/products/{id}", d.Product.GetProduct())

	// Cart
	mux.HandleFunc("GET /api/v1/me/cart", authed(d.Cart.GetCart()))
	mux.HandleFunc("POST /api/v1/me/cart/items", authed(d.Cart.AddItem()))
	mux.HandleFunc("PATCH /api/v1/me/cart/items/{itemId}", authed(d.Cart.UpdateItem()))
	mux.HandleFunc("DELETE /api/v1/me/cart/items/{itemId}", authed(d.Cart.RemoveItem()))

	// Admin
	mux.HandleFunc("POST /api/v1/admin/products", admin(d.Product.CreateProduct()))
	mux.HandleFunc("PATCH /api/v1/admin/products/{id}", admin(d.Product.UpdateProduct()))
	mux.HandleFunc("DELETE /api/v1/admin/products/{id}", admin(d.Product.DeleteProduct()))

	// Operational
	if d.Health != nil {
		mux.Handle("GET /api/v1/health", d.Health)
	}
	mux.Handle("GET /metrics", metrics.Handler())
	mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	var handler http.Handler = routeSpan(mux)
	handler = metrics.Middleware(handler)
	if d.RateLimiter != nil {
		handler = d.RateLimiter.Limit(handler)
	}
	handler = middleware.Logging(handler)
	handler = middleware.CORS(d.CORS)(handler)

	// the span starts before routing, so it is named by method only and
	// renamed by routeSpan once the mux has matched a pattern
	opts := []otelhttp.Option{
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return "HTTP " + r.Method
		}),
	}
	if d.TracerProvider != nil {
		opts = append(opts, otelhttp.WithTracerProvider(d.TracerProvider))
	}
	handler = otelhttp.NewHandler(handler, "storefront", opts...)

	return handler
}

// routeSpan names the request span after the matched route pattern,
// e.g. "GET /api/v1/products/{id}". The mux sets r.Pattern while serving.
func routeSpan(mux http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mux.ServeHTTP(w, r)

		if r.Pattern == "" {
			return
		}

		span := trace.SpanFromContext(r.Context())
		span.SetName(r.Pattern)
		if _, route, ok := strings.Cut(r.Pattern, " "); ok {
			span.SetAttributes(attribute.String("http.route", route))
		}
	})
}
