package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"vgfoods-order-service/internal/auth"
)

type contextKey string

const authContextKey contextKey = "authContext"

// AuthContext carries the verified caller identity. Role comes from the
// profiles table at request time, never from the token: a role revoked in
// the back office takes effect on the next request, not at token expiry.
type AuthContext struct {
	UserID string
	Email  string
	Role   string
}

func WithAuthContext(ctx context.Context, authCtx *AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey, authCtx)
}

func GetAuthContext(ctx context.Context) (*AuthContext, bool) {
	value := ctx.Value(authContextKey)
	if value == nil {
		return nil, false
	}
	ac, ok := value.(*AuthContext)
	return ac, ok
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   "UNAUTHORIZED",
		"message": message,
	})
}

type roleLookup interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func lookupRole(ctx context.Context, db roleLookup, userID string) (string, error) {
	var role string
	err := db.QueryRow(ctx, `
		select coalesce(role, 'user') from profiles where id = $1::uuid
	`, userID).Scan(&role)
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(role)), nil
}

// UserAuth verifies the bearer token and loads the caller's current role
// from the database.
func UserAuth(db roleLookup, jwtSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.ParseBearerToken(r.Header.Get("Authorization"))
			claims, err := auth.VerifyAccessToken(token, jwtSecret)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "Authorization token required")
				return
			}

			role, err := lookupRole(r.Context(), db, claims.UserID)
			if err != nil {
				if err == pgx.ErrNoRows {
					writeAuthError(w, http.StatusUnauthorized, "Account not found")
					return
				}
				if logger != nil {
					logger.Error("role lookup failed", zap.String("userId", claims.UserID), zap.Error(err))
				}
				writeAuthError(w, http.StatusInternalServerError, "Could not verify account")
				return
			}

			authCtx := &AuthContext{UserID: claims.UserID, Email: claims.Email, Role: role}
			next.ServeHTTP(w, r.WithContext(WithAuthContext(r.Context(), authCtx)))
		})
	}
}

// AdminAuth is UserAuth plus an admin-role gate. The role check happens on
// every request against current data, so it cannot be bypassed by holding
// an old token.
func AdminAuth(db roleLookup, jwtSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	userAuth := UserAuth(db, jwtSecret, logger)
	return func(next http.Handler) http.Handler {
		return userAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authCtx, ok := GetAuthContext(r.Context())
			if !ok || !auth.CanMutateOrders(authCtx.Role) {
				writeAuthError(w, http.StatusForbidden, "Admin access required")
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}
