package handlers

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"

	"vgfoods-order-service/internal/discount"
	"vgfoods-order-service/internal/utils"
	"vgfoods-order-service/pkg/response"
)

// AdminDiscountsList returns every discount code, live and retired.
func (h *Handler) AdminDiscountsList(w http.ResponseWriter, r *http.Request) {
	rows, err := h.DB.Query(r.Context(), `
		select id::text, code, discount_percentage, fixed_discount,
		       coalesce(expiry_date::text, ''), coalesce(status, 'active')
		from discounts
		order by code
	`)
	if err != nil {
		h.Logger.Error("discount list failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "DISCOUNT_LIST_FAILED", "Could not load discounts")
		return
	}
	defer rows.Close()

	list := make([]discount.Discount, 0)
	for rows.Next() {
		var (
			d          discount.Discount
			percentage pgtype.Numeric
			fixed      pgtype.Numeric
		)
		if err := rows.Scan(&d.ID, &d.Code, &percentage, &fixed, &d.ExpiryDate, &d.Status); err != nil {
			h.Logger.Error("discount scan failed", zap.Error(err))
			response.Error(w, http.StatusInternalServerError, "DISCOUNT_LIST_FAILED", "Could not load discounts")
			return
		}
		if percentage.Valid {
			v := utils.NumericToFloat64(percentage)
			d.DiscountPercentage = &v
		}
		if fixed.Valid {
			v := utils.NumericToFloat64(fixed)
			d.FixedDiscount = &v
		}
		list = append(list, d)
	}

	response.Success(w, map[string]any{"discounts": list})
}

// AdminDiscountCreate adds a code. Malformed input never reaches the
// database.
func (h *Handler) AdminDiscountCreate(w http.ResponseWriter, r *http.Request) {
	var input discount.Input
	if err := decodeJSON(r, &input); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	if derr := input.Validate(); derr != nil {
		response.Error(w, derr.StatusCode, string(derr.Code), derr.Message)
		return
	}

	var id string
	err := h.DB.QueryRow(r.Context(), `
		insert into discounts (code, discount_percentage, fixed_discount, expiry_date, status)
		values ($1, $2, $3, nullif($4, '')::date, $5)
		returning id::text
	`, input.Code, input.DiscountPercentage, input.FixedDiscount, input.ExpiryDate, input.Status).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			response.Error(w, http.StatusConflict, string(discount.ErrDiscountCodeTaken), "A discount with this code already exists")
			return
		}
		h.Logger.Error("discount create failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "DISCOUNT_CREATE_FAILED", "Could not create the discount")
		return
	}

	response.Created(w, map[string]any{"id": id, "code": input.Code})
}

// AdminDiscountUpdate rewrites a code's terms or toggles its status.
func (h *Handler) AdminDiscountUpdate(w http.ResponseWriter, r *http.Request) {
	id := readPathString(r, "id")

	var input discount.Input
	if err := decodeJSON(r, &input); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	if derr := input.Validate(); derr != nil {
		response.Error(w, derr.StatusCode, string(derr.Code), derr.Message)
		return
	}

	tag, err := h.DB.Exec(r.Context(), `
		update discounts
		set code = $1, discount_percentage = $2, fixed_discount = $3,
		    expiry_date = nullif($4, '')::date, status = $5
		where id = $6::uuid
	`, input.Code, input.DiscountPercentage, input.FixedDiscount, input.ExpiryDate, input.Status, id)
	if err != nil {
		if isUniqueViolation(err) {
			response.Error(w, http.StatusConflict, string(discount.ErrDiscountCodeTaken), "A discount with this code already exists")
			return
		}
		h.Logger.Error("discount update failed", zap.String("id", id), zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "DISCOUNT_UPDATE_FAILED", "Could not update the discount")
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, string(discount.ErrDiscountNotFound), "Discount not found")
		return
	}

	response.Success(w, map[string]any{"id": id, "code": input.Code})
}

type discountStatusInput struct {
	Status string `json:"status"`
}

// AdminDiscountStatusUpdate flips a code between active and expired
// without touching its terms.
func (h *Handler) AdminDiscountStatusUpdate(w http.ResponseWriter, r *http.Request) {
	id := readPathString(r, "id")

	var input discountStatusInput
	if err := decodeJSON(r, &input); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	if input.Status != discount.StatusActive && input.Status != discount.StatusExpired {
		badRequest(w, "status must be active or expired")
		return
	}

	tag, err := h.DB.Exec(r.Context(), `update discounts set status = $1 where id = $2::uuid`, input.Status, id)
	if err != nil {
		h.Logger.Error("discount status update failed", zap.String("id", id), zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "DISCOUNT_UPDATE_FAILED", "Could not update the discount")
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, string(discount.ErrDiscountNotFound), "Discount not found")
		return
	}

	response.Success(w, map[string]any{"id": id, "status": input.Status})
}

// AdminDiscountDelete removes a code outright. Orders that already used it
// keep their recorded totals.
func (h *Handler) AdminDiscountDelete(w http.ResponseWriter, r *http.Request) {
	id := readPathString(r, "id")

	tag, err := h.DB.Exec(r.Context(), `delete from discounts where id = $1::uuid`, id)
	if err != nil {
		h.Logger.Error("discount delete failed", zap.String("id", id), zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "DISCOUNT_DELETE_FAILED", "Could not delete the discount")
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, string(discount.ErrDiscountNotFound), "Discount not found")
		return
	}
	response.Success(w, map[string]any{"id": id, "deleted": true})
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
