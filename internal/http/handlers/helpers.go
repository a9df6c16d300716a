package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"vgfoods-order-service/internal/auth"
	"vgfoods-order-service/internal/middleware"
	"vgfoods-order-service/internal/utils"
	"vgfoods-order-service/pkg/response"
)

// swapped out in tests
var timeNow = time.Now

func readPathString(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

// decodeJSON reads a request body into out, rejecting bodies over 1 MiB.
func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	return dec.Decode(out)
}

func badRequest(w http.ResponseWriter, message string) {
	response.Error(w, http.StatusBadRequest, "BAD_REQUEST", message)
}

// cartIDFromRequest verifies the signed X-Cart-Id header and returns the
// embedded cart id. Unsigned or tampered headers read as "no cart".
func (h *Handler) cartIDFromRequest(r *http.Request) string {
	token := strings.TrimSpace(r.Header.Get("X-Cart-Id"))
	if token == "" {
		return ""
	}
	cartID, ok := utils.VerifyCartToken(h.Config.JWTSecret, token)
	if !ok {
		return ""
	}
	return cartID
}

// optionalUserID attaches the caller's identity to guest-reachable routes
// when a valid bearer token happens to be present.
func (h *Handler) optionalUserID(r *http.Request) *string {
	if authCtx, ok := middleware.GetAuthContext(r.Context()); ok {
		return &authCtx.UserID
	}
	token := auth.ParseBearerToken(r.Header.Get("Authorization"))
	claims, err := auth.VerifyAccessToken(token, h.Config.JWTSecret)
	if err != nil {
		return nil
	}
	return &claims.UserID
}

func requireAuthContext(w http.ResponseWriter, r *http.Request) (*middleware.AuthContext, bool) {
	authCtx, ok := middleware.GetAuthContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization required")
		return nil, false
	}
	return authCtx, true
}
