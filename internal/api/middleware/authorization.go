package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"chat-dashboard-backend/internal/apikey"
	iternal_jwt "chat-dashboard-backend/internal/jwt"

	"github.com/golang-jwt/jwt"
)

type contextKey string

const claimsContextKey contextKey = "jwt_claims"

// ClaimsFromContext returns the claims stored by ValidateJWTMiddleware.
func ClaimsFromContext(ctx context.Context) (jwt.MapClaims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(jwt.MapClaims)
	return claims, ok
}

// ValidateJWTMiddleware accepts the token as a Bearer header or, for
// websocket upgrades where browsers cannot set headers, as a `token`
// query parameter. Valid claims are stored on the request context.
func ValidateJWTMiddleware(role iternal_jwt.Role) Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			tokenString := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if tokenString == "" {
				tokenString = r.URL.Query().Get("token")
			}

			if tokenString == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := iternal_jwt.ParseToken(tokenString, role)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			expires := int64(claims["exp"].(float64))
			if time.Now().Unix() > expires {
				http.Error(w, "Token expired", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next(w, r.WithContext(ctx))
		}
	}
}

// ValidateAPIKeyMiddleware guards admin endpoints with a pre-shared API key.
// Only the bcrypt hash of the key is configured on the server.
func ValidateAPIKeyMiddleware(keyHash string) Middleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-Api-Key")
			if !apikey.Verify(keyHash, key) {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next(w, r)
		}
	}
}

var ValidateUserJWT = ValidateJWTMiddleware(iternal_jwt.RoleUser)
