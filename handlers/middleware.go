package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/TheYassAnz/coabi-backend/authorization"
	"github.com/TheYassAnz/coabi-backend/domain"
	"github.com/TheYassAnz/coabi-backend/errors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// RequestTimeout bounds every handler, store round trips included.
const RequestTimeout = 15 * time.Second

func ExtractTraceInfoMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(req.Context(), propagation.HeaderCarrier(req.Header))
		next.ServeHTTP(writer, req.WithContext(ctx))
	})
}

func MiddlewareContentTypeSet(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
			logger.WithFields(logrus.Fields{
				"method": req.Method,
				"path":   req.URL.Path,
			}).Info("request")

			writer.Header().Set("X-Content-Type-Options", "nosniff")
			writer.Header().Set("X-Frame-Options", "DENY")

			next.ServeHTTP(writer, req)
		})
	}
}

func TimeoutMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), RequestTimeout)
		defer cancel()
		next.ServeHTTP(writer, req.WithContext(ctx))
	})
}

func CORSMiddleware(allowedOrigin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
			writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			writer.Header().Set("Access-Control-Allow-Credentials", "true")
			writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
			writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-CSRF-Token")

			if req.Method == http.MethodOptions {
				writer.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(writer, req)
		})
	}
}

// AuthMiddleware turns a bearer access token into a Principal in the
// request context. Role and accommodation come from the live user
// record, not from the token, so a role change takes effect within the
// access token's lifetime.
type AuthMiddleware struct {
	users domain.UserStore
}

func NewAuthMiddleware(users domain.UserStore) *AuthMiddleware {
	return &AuthMiddleware{users: users}
}

func (middleware *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
		// The auth endpoints authenticate by credential or cookie.
		if strings.HasPrefix(req.URL.Path, "/api/auth") {
			next.ServeHTTP(writer, req)
			return
		}

		bearer := req.Header.Get("Authorization")
		if bearer == "" {
			writeError(writer, errors.Unauthorized(errors.CodeUnauthorized, "Missing access token"))
			return
		}

		parts := strings.Split(bearer, "Bearer ")
		if len(parts) != 2 {
			writeError(writer, errors.Unauthorized(errors.CodeUnauthorized, "Invalid authorization header"))
			return
		}

		claims, err := authorization.VerifyAccessToken(parts[1])
		if err != nil {
			writeError(writer, errors.Unauthorized(errors.CodeUnauthorized, "Invalid access token"))
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.ID)
		if err != nil {
			writeError(writer, errors.Unauthorized(errors.CodeUnauthorized, "Invalid access token"))
			return
		}

		user, err := middleware.users.Get(req.Context(), userID)
		if err == domain.ErrNotFound {
			writeError(writer, errors.Unauthorized(errors.CodeUnauthorized, "Unknown user"))
			return
		}
		if err != nil {
			writeError(writer, errors.Internal())
			return
		}

		principal := authorization.Principal{
			UserID:          user.ID.Hex(),
			Role:            user.Role,
			AccommodationID: user.AccommodationHex(),
		}
		ctx := authorization.ContextWithPrincipal(req.Context(), principal)
		next.ServeHTTP(writer, req.WithContext(ctx))
	})
}

// requirePrincipal is the per-handler guard behind the middleware.
func requirePrincipal(req *http.Request) (authorization.Principal, error) {
	principal, ok := authorization.PrincipalFromContext(req.Context())
	if !ok {
		return authorization.Principal{}, errors.Unauthorized(errors.CodeUnauthorized, "Missing access token")
	}
	return principal, nil
}
