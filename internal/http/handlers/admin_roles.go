package handlers

import (
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"vgfoods-order-service/internal/auth"
	"vgfoods-order-service/pkg/response"
)

var assignableRoles = map[string]bool{
	"user":  true,
	"staff": true,
	"admin": true,
}

type roleUpdateInput struct {
	Role string `json:"role"`
}

// AdminUsersList returns every account with its role, for the role
// management screen.
func (h *Handler) AdminUsersList(w http.ResponseWriter, r *http.Request) {
	rows, err := h.DB.Query(r.Context(), `
		select id::text, full_name, email, coalesce(role, 'user'), admin_pin is not null
		from profiles
		order by email nulls last, id
	`)
	if err != nil {
		h.Logger.Error("user list failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "USER_LIST_FAILED", "Could not load users")
		return
	}
	defer rows.Close()

	users := make([]map[string]any, 0)
	for rows.Next() {
		var (
			id       string
			fullName *string
			email    *string
			role     string
			hasPin   bool
		)
		if err := rows.Scan(&id, &fullName, &email, &role, &hasPin); err != nil {
			h.Logger.Error("user scan failed", zap.Error(err))
			response.Error(w, http.StatusInternalServerError, "USER_LIST_FAILED", "Could not load users")
			return
		}
		users = append(users, map[string]any{
			"id":       id,
			"fullName": fullName,
			"email":    email,
			"role":     role,
			"hasPin":   hasPin,
		})
	}

	response.Success(w, map[string]any{"users": users, "total": len(users)})
}

// AdminRoleUpdate changes a user's role. Only the configured owner account
// may call it, an admin token alone is not enough.
func (h *Handler) AdminRoleUpdate(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := requireAuthContext(w, r)
	if !ok {
		return
	}
	if !auth.CanManageRoles(authCtx.Email, h.Config.OwnerEmail) {
		response.Error(w, http.StatusForbidden, "NOT_OWNER", "Only the owner can change roles")
		return
	}

	userID := readPathString(r, "userId")
	if userID == "" {
		badRequest(w, "userId is required")
		return
	}
	var in roleUpdateInput
	if err := decodeJSON(r, &in); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	role := strings.ToLower(strings.TrimSpace(in.Role))
	if !assignableRoles[role] {
		badRequest(w, "role must be one of user, staff, admin")
		return
	}

	tag, err := h.DB.Exec(r.Context(), `update profiles set role = $1 where id = $2::uuid`, role, userID)
	if err != nil {
		h.Logger.Error("role update failed", zap.String("userId", userID), zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "ROLE_UPDATE_FAILED", "Could not update role")
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
		return
	}

	response.Success(w, map[string]any{"userId": userID, "role": role})
}

type pinInput struct {
	Pin string `json:"pin"`
}

// AdminPinSet stores a bcrypt hash of a back-office PIN. Staff can set
// their own PIN; only the owner can set someone else's.
func (h *Handler) AdminPinSet(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := requireAuthContext(w, r)
	if !ok {
		return
	}
	userID := readPathString(r, "userId")
	if userID == "" {
		badRequest(w, "userId is required")
		return
	}
	if userID != authCtx.UserID && !auth.CanManageRoles(authCtx.Email, h.Config.OwnerEmail) {
		response.Error(w, http.StatusForbidden, "NOT_OWNER", "Only the owner can set another user's PIN")
		return
	}

	var in pinInput
	if err := decodeJSON(r, &in); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	hash, err := auth.HashPin(in.Pin)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	tag, err := h.DB.Exec(r.Context(), `update profiles set admin_pin = $1 where id = $2::uuid`, hash, userID)
	if err != nil {
		h.Logger.Error("pin set failed", zap.String("userId", userID), zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "PIN_SET_FAILED", "Could not store PIN")
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
		return
	}

	response.Success(w, map[string]any{"updated": true})
}

// AdminPinVerify checks a submitted PIN against the caller's stored hash.
// Used to re-confirm identity before sensitive back-office actions.
func (h *Handler) AdminPinVerify(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := requireAuthContext(w, r)
	if !ok {
		return
	}
	var in pinInput
	if err := decodeJSON(r, &in); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	var hash *string
	err := h.DB.QueryRow(r.Context(), `select admin_pin from profiles where id = $1::uuid`, authCtx.UserID).Scan(&hash)
	if err == pgx.ErrNoRows {
		response.Error(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
		return
	}
	if err != nil {
		h.Logger.Error("pin lookup failed", zap.String("userId", authCtx.UserID), zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "PIN_VERIFY_FAILED", "Could not verify PIN")
		return
	}
	if hash == nil || *hash == "" {
		response.Error(w, http.StatusConflict, "PIN_NOT_SET", "No PIN has been set for this account")
		return
	}

	response.Success(w, map[string]any{"valid": auth.VerifyPin(*hash, in.Pin)})
}
