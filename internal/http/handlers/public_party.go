package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"vgfoods-order-service/internal/orders"
	"vgfoods-order-service/internal/queue"
	"vgfoods-order-service/internal/utils"
	"vgfoods-order-service/pkg/response"
)

type partyOrderInput struct {
	Name            string           `json:"name"`
	Contact         string           `json:"contact"`
	Email           string           `json:"email"`
	Address         string           `json:"address"`
	EventDate       string           `json:"eventDate"` // YYYY-MM-DD
	GuestCount      int              `json:"guestCount"`
	DeliveryMethod  string           `json:"deliveryMethod"` // pickup | delivery
	SpecialRequests string           `json:"specialRequests"`
	Dishes          []selectionInput `json:"dishes"`
}

// PublicPartyOrderCreate places a catering order for an event.
func (h *Handler) PublicPartyOrderCreate(w http.ResponseWriter, r *http.Request) {
	var input partyOrderInput
	if err := decodeJSON(r, &input); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Contact = strings.TrimSpace(input.Contact)
	input.DeliveryMethod = strings.ToLower(strings.TrimSpace(input.DeliveryMethod))
	if input.Name == "" || input.Contact == "" {
		badRequest(w, "name and contact are required")
		return
	}
	if input.GuestCount <= 0 {
		badRequest(w, "guestCount must be positive")
		return
	}
	if _, err := time.Parse("2006-01-02", input.EventDate); err != nil {
		badRequest(w, "eventDate must be YYYY-MM-DD")
		return
	}
	if input.EventDate < utils.CurrentDateInTimezone(h.Config.RestaurantTimezone) {
		badRequest(w, "eventDate must not be in the past")
		return
	}
	if input.DeliveryMethod != "pickup" && input.DeliveryMethod != "delivery" {
		badRequest(w, "deliveryMethod must be pickup or delivery")
		return
	}
	if input.DeliveryMethod == "delivery" && strings.TrimSpace(input.Address) == "" {
		badRequest(w, "address is required for delivery")
		return
	}

	ctx := r.Context()
	lines, total, err := h.resolveSelections(ctx, input.Dishes)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	dishesJSON, err := json.Marshal(lines)
	if err != nil {
		badRequest(w, "Invalid dish selection")
		return
	}

	tx, err := h.DB.Begin(ctx)
	if err != nil {
		h.Logger.Error("party order begin tx failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "PARTY_ORDER_FAILED", "Could not place the order")
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var partyOrderID string
	err = tx.QueryRow(ctx, `
		insert into party_orders (name, contact, email, address, guest_count, event_date,
			dish_selections, delivery_method, special_requests, status, total_amount)
		values ($1, $2, $3, $4, $5, $6::date, $7, $8, $9, 'pending', $10)
		returning id::text
	`, input.Name, input.Contact, input.Email, input.Address, input.GuestCount, input.EventDate,
		dishesJSON, input.DeliveryMethod, input.SpecialRequests, utils.Float64ToNumeric(total)).Scan(&partyOrderID)
	if err != nil {
		h.Logger.Error("party order insert failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "PARTY_ORDER_FAILED", "Could not place the order")
		return
	}

	var orderID string
	err = tx.QueryRow(ctx, `
		insert into orders (user_id, typeoforder, party_order_id, created_at)
		values ($1::uuid, 'party_order', $2::uuid, now())
		returning id::text
	`, h.optionalUserID(r), partyOrderID).Scan(&orderID)
	if err != nil {
		h.Logger.Error("party order stub insert failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "PARTY_ORDER_FAILED", "Could not place the order")
		return
	}

	if err := tx.Commit(ctx); err != nil {
		h.Logger.Error("party order commit failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "PARTY_ORDER_FAILED", "Could not place the order")
		return
	}

	invalidateDashboardCache()
	if err := queue.PublishOrderPlaced(ctx, h.Queue, orderID, orders.TypePartyOrder, input.Name, total); err != nil {
		h.Logger.Warn("order placed event publish failed", zap.String("orderId", orderID), zap.Error(err))
	}

	response.Created(w, map[string]any{
		"orderId":      orderID,
		"partyOrderId": partyOrderID,
		"eventDate":    input.EventDate,
		"guestCount":   input.GuestCount,
		"total":        total,
	})
}
