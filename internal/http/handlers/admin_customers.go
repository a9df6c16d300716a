package handlers

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"

	"vgfoods-order-service/pkg/response"
)

type customerRow struct {
	ID         string  `json:"id"`
	FullName   *string `json:"fullName"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	Role       string  `json:"role"`
	OrderCount int     `json:"orderCount"`
	LastOrder  *string `json:"lastOrderAt,omitempty"`
}

// AdminCustomersList returns every profile with its order count in one
// grouped query.
func (h *Handler) AdminCustomersList(w http.ResponseWriter, r *http.Request) {
	rows, err := h.DB.Query(r.Context(), `
		select p.id::text, p.full_name, p.email, p.phone, p.address, coalesce(p.role, 'user'),
		       count(o.id), max(o.created_at)
		from profiles p
		left join orders o on o.user_id = p.id
		group by p.id, p.full_name, p.email, p.phone, p.address, p.role
		order by count(o.id) desc, p.id
	`)
	if err != nil {
		h.Logger.Error("customer list failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "CUSTOMER_LIST_FAILED", "Could not load customers")
		return
	}
	defer rows.Close()

	customers := make([]customerRow, 0)
	for rows.Next() {
		var (
			c         customerRow
			name      pgtype.Text
			email     pgtype.Text
			phone     pgtype.Text
			address   pgtype.Text
			lastOrder pgtype.Timestamptz
		)
		if err := rows.Scan(&c.ID, &name, &email, &phone, &address, &c.Role, &c.OrderCount, &lastOrder); err != nil {
			h.Logger.Error("customer scan failed", zap.Error(err))
			response.Error(w, http.StatusInternalServerError, "CUSTOMER_LIST_FAILED", "Could not load customers")
			return
		}
		if name.Valid {
			c.FullName = &name.String
		}
		if email.Valid {
			c.Email = &email.String
		}
		if phone.Valid {
			c.Phone = &phone.String
		}
		if address.Valid {
			c.Address = &address.String
		}
		if lastOrder.Valid {
			formatted := lastOrder.Time.UTC().Format("2006-01-02T15:04:05Z07:00")
			c.LastOrder = &formatted
		}
		customers = append(customers, c)
	}

	response.Success(w, map[string]any{"customers": customers, "total": len(customers)})
}
