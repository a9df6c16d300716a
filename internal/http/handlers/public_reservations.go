package handlers

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"vgfoods-order-service/internal/orders"
	"vgfoods-order-service/internal/queue"
	"vgfoods-order-service/internal/utils"
	"vgfoods-order-service/pkg/response"
)

type reservationInput struct {
	Name            string `json:"name"`
	Contact         string `json:"contact"`
	Email           string `json:"email"`
	Date            string `json:"date"` // YYYY-MM-DD
	Time            string `json:"time"` // HH:MM
	Guests          int    `json:"guests"`
	SpecialRequests string `json:"specialRequests"`
}

// PublicReservationCreate books a dine-in table.
func (h *Handler) PublicReservationCreate(w http.ResponseWriter, r *http.Request) {
	var input reservationInput
	if err := decodeJSON(r, &input); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Contact = strings.TrimSpace(input.Contact)
	if input.Name == "" || input.Contact == "" {
		badRequest(w, "name and contact are required")
		return
	}
	if input.Guests <= 0 {
		badRequest(w, "guests must be positive")
		return
	}
	if _, err := time.Parse("2006-01-02", input.Date); err != nil {
		badRequest(w, "date must be YYYY-MM-DD")
		return
	}
	if _, err := time.Parse("15:04", input.Time); err != nil {
		badRequest(w, "time must be HH:MM")
		return
	}
	if input.Date < utils.CurrentDateInTimezone(h.Config.RestaurantTimezone) {
		badRequest(w, "date must not be in the past")
		return
	}

	ctx := r.Context()
	tx, err := h.DB.Begin(ctx)
	if err != nil {
		h.Logger.Error("reservation begin tx failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "RESERVATION_FAILED", "Could not create the reservation")
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var reservationID string
	err = tx.QueryRow(ctx, `
		insert into reservations (name, contact, email, date, "time", guests, special_requests, status)
		values ($1, $2, $3, $4::date, $5::time, $6, $7, 'pending')
		returning id::text
	`, input.Name, input.Contact, input.Email, input.Date, input.Time, input.Guests, input.SpecialRequests).Scan(&reservationID)
	if err != nil {
		h.Logger.Error("reservation insert failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "RESERVATION_FAILED", "Could not create the reservation")
		return
	}

	var orderID string
	err = tx.QueryRow(ctx, `
		insert into orders (user_id, typeoforder, reservation_id, created_at)
		values ($1::uuid, 'reservation', $2::uuid, now())
		returning id::text
	`, h.optionalUserID(r), reservationID).Scan(&orderID)
	if err != nil {
		h.Logger.Error("reservation stub insert failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "RESERVATION_FAILED", "Could not create the reservation")
		return
	}

	if err := tx.Commit(ctx); err != nil {
		h.Logger.Error("reservation commit failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "RESERVATION_FAILED", "Could not create the reservation")
		return
	}

	invalidateDashboardCache()
	if err := queue.PublishOrderPlaced(ctx, h.Queue, orderID, orders.TypeReservation, input.Name, 0); err != nil {
		h.Logger.Warn("order placed event publish failed", zap.String("orderId", orderID), zap.Error(err))
	}

	response.Created(w, map[string]any{
		"orderId":       orderID,
		"reservationId": reservationID,
		"date":          input.Date,
		"time":          input.Time,
		"guests":        input.Guests,
	})
}
