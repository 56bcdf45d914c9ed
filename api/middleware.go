package api

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/raushankrgupta/chicforgeeks-api/config"
	"github.com/raushankrgupta/chicforgeeks-api/models"
	"github.com/raushankrgupta/chicforgeeks-api/utils"
)

type contextKey string

const userContextKey contextKey = "user"

// GetUserFromContext returns the caller loaded by RequireAuth.
func GetUserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userContextKey).(*models.User)
	return u, ok && u != nil
}

// GetUserIDFromContext returns the caller's id in hex form.
func GetUserIDFromContext(ctx context.Context) (string, error) {
	u, ok := GetUserFromContext(ctx)
	if !ok {
		return "", fmt.Errorf("user not found in context")
	}
	return u.ID.Hex(), nil
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request, message string, status int) {
	h.Log.Info("[Auth] request rejected", "method", r.Method, "path", r.URL.Path, "reason", message)
	utils.RespondJSON(w, status, map[string]string{"error": message})
}

// RequireAuth accepts a bearer token, loads its user and stores it on the
// request context.
func (h *Handler) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			h.reject(w, r, "missing or invalid authorization header", http.StatusUnauthorized)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			h.reject(w, r, "missing token", http.StatusUnauthorized)
			return
		}

		claims, err := utils.ValidateToken(token)
		if errors.Is(err, jwt.ErrTokenExpired) {
			h.reject(w, r, "token expired", http.StatusUnauthorized)
			return
		}
		if err != nil {
			h.reject(w, r, "invalid token", http.StatusUnauthorized)
			return
		}

		user, err := h.Users.GetByID(r.Context(), claims.Subject)
		if err != nil {
			h.Log.Warn("token user lookup failed", "sub", claims.Subject, "error", err)
			h.reject(w, r, "user not found", http.StatusUnauthorized)
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), userContextKey, user)))
	}
}

// RequireAPIKey guards internal routes with the X-API-Key header.
func (h *Handler) RequireAPIKey(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		expected := config.InternalAPIKey
		got := r.Header.Get("X-API-Key")
		if expected == "" || subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
			h.reject(w, r, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
