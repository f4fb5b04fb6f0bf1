package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/goldenaqar/marketplace/backend/controllers"
	"github.com/goldenaqar/marketplace/backend/utils"
	log "github.com/sirupsen/logrus"
)

func bearerToken(r *http.Request) (string, bool) {
	tokenHeader := r.Header.Get("Authorization")
	if tokenHeader == "" {
		return "", false
	}
	tokenParts := strings.Split(tokenHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		return "", false
	}
	return tokenParts[1], true
}

func withClaims(r *http.Request, claims *utils.Claims) *http.Request {
	ctx := context.WithValue(r.Context(), controllers.UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, controllers.UserEmailKey, claims.Email)
	ctx = context.WithValue(ctx, controllers.UserRoleKey, claims.Role)
	return r.WithContext(ctx)
}

// AuthMiddleware requires a valid bearer token and injects the caller's
// identity into the request context.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			log.Warnf("Missing or malformed Authorization header on %s %s", r.Method, r.URL)
			http.Error(w, "Missing or invalid Authorization header", http.StatusUnauthorized)
			return
		}

		claims, err := utils.ValidateJWT(token)
		if err != nil {
			log.Warnf("Invalid or expired token: %v", err)
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, withClaims(r, claims))
	})
}

// AdminMiddleware requires a valid bearer token carrying the admin role.
func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			http.Error(w, "Missing or invalid Authorization header", http.StatusUnauthorized)
			return
		}

		claims, err := utils.ValidateJWT(token)
		if err != nil {
			log.Warnf("Invalid or expired token: %v", err)
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}
		if claims.Role != utils.RoleAdmin {
			log.Warnf("Non-admin token used on %s %s", r.Method, r.URL)
			http.Error(w, "Admin access required", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, withClaims(r, claims))
	})
}

// OptionalAuth injects the caller's identity when a valid token is
// present and passes the request through untouched otherwise. Used by
// public endpoints that personalize their response for signed-in users.
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token, ok := bearerToken(r); ok {
			if claims, err := utils.ValidateJWT(token); err == nil {
				r = withClaims(r, claims)
			}
		}
		next.ServeHTTP(w, r)
	})
}
