package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aaravmahajanofficial/storefront-cart/internal/config"
	"github.com/aaravmahajanofficial/storefront-cart/internal/errors"
	"github.com/aaravmahajanofficial/storefront-cart/internal/models"
	"github.com/aaravmahajanofficial/storefront-cart/internal/utils/response"
	"github.com/golang-jwt/jwt/v5"
)

type userContextKey struct{}

// UserContextKey holds the verified *models.Claims.
var UserContextKey = userContextKey{}

// AuthMiddleware verifies identity provider tokens signed with a shared HS256 secret.
type AuthMiddleware struct {
	secret []byte
	parser *jwt.Parser
}

func NewAuthMiddleware(cfg config.Security) *AuthMiddleware {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(cfg.JWTLeeway),
		jwt.WithExpirationRequired(),
	}
	if cfg.JWTIssuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.JWTIssuer))
	}
	if cfg.JWTAudience != "" {
		opts = append(opts, jwt.WithAudience(cfg.JWTAudience))
	}

	return &AuthMiddleware{secret: []byte(cfg.JWTSecret), parser: jwt.NewParser(opts...)}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := LoggerFromContext(r.Context())

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			logger.Warn("Missing authorization header")
			response.Error(w, errors.UnauthorizedError("Authorization header is required"))
			return
		}

		// Token is of format : "Bearer <token>"
		scheme, tokenString, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
			logger.Warn("Invalid authorization header format")
			response.Error(w, errors.UnauthorizedError("Invalid authorization format"))
			return
		}

		claims := &models.Claims{}

		_, err := m.parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
			return m.secret, nil
		})
		if err != nil {
			logger.Warn("JWT verification failed", slog.String("error", err.Error()))
			response.Error(w, errors.UnauthorizedError("Invalid or expired token"))
			return
		}

		if claims.UserID() == "" {
			logger.Warn("JWT without subject")
			response.Error(w, errors.UnauthorizedError("Invalid token"))
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims)

		requestScopedLogger := logger.With(slog.String("userId", claims.UserID()))
		ctx = context.WithValue(ctx, LoggerKey, requestScopedLogger)

		requestScopedLogger.Debug("User authenticated", slog.String("role", claims.Role()))

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// ClaimsFromContext returns the claims stored by Authenticate.
func ClaimsFromContext(ctx context.Context) (*models.Claims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*models.Claims)
	return claims, ok && claims != nil
}

// RequireRole must run after Authenticate. SUPER_ADMIN passes every check.
func RequireRole(roles ...string) func(http.Handler) http.HandlerFunc {
	return func(next http.Handler) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			logger := LoggerFromContext(r.Context())

			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				response.Error(w, errors.UnauthorizedError("Authentication required"))
				return
			}

			if !claims.HasRole(roles...) {
				logger.Warn("Role check failed", slog.String("role", claims.Role()), slog.Any("required", roles))
				response.Error(w, errors.ForbiddenError("Insufficient permissions"))
				return
			}

			next.ServeHTTP(w, r)
		}
	}
}
