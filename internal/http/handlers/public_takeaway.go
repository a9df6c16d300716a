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

type takeawayInput struct {
	Name         string           `json:"name"`
	Contact      string           `json:"contact"`
	Address      string           `json:"address"`
	PickupTime   string           `json:"pickupTime"` // HH:MM
	Instructions string           `json:"instructions"`
	Items        []selectionInput `json:"items"`
}

// PublicTakeawayCreate places a collection order.
func (h *Handler) PublicTakeawayCreate(w http.ResponseWriter, r *http.Request) {
	var input takeawayInput
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
	if _, err := time.Parse("15:04", input.PickupTime); err != nil {
		badRequest(w, "pickupTime must be HH:MM")
		return
	}

	ctx := r.Context()
	lines, total, err := h.resolveSelections(ctx, input.Items)
	if err != nil {
		badRequest(w, err.Error())
		return
	}
	selectionsJSON, err := json.Marshal(lines)
	if err != nil {
		badRequest(w, "Invalid item selection")
		return
	}

	tx, err := h.DB.Begin(ctx)
	if err != nil {
		h.Logger.Error("takeaway begin tx failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "TAKEAWAY_FAILED", "Could not place the order")
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var takeawayID string
	err = tx.QueryRow(ctx, `
		insert into takeaway_orders (name, contact, address, pickup_time, instructions, menu_selections, order_status, total_amount)
		values ($1, $2, $3, $4, $5, $6, 'pending', $7)
		returning id::text
	`, input.Name, input.Contact, input.Address, input.PickupTime, input.Instructions,
		selectionsJSON, utils.Float64ToNumeric(total)).Scan(&takeawayID)
	if err != nil {
		h.Logger.Error("takeaway insert failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "TAKEAWAY_FAILED", "Could not place the order")
		return
	}

	var orderID string
	err = tx.QueryRow(ctx, `
		insert into orders (user_id, typeoforder, takeaway_order_id, created_at)
		values ($1::uuid, 'takeaway_order', $2::uuid, now())
		returning id::text
	`, h.optionalUserID(r), takeawayID).Scan(&orderID)
	if err != nil {
		h.Logger.Error("takeaway stub insert failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "TAKEAWAY_FAILED", "Could not place the order")
		return
	}

	if err := tx.Commit(ctx); err != nil {
		h.Logger.Error("takeaway commit failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "TAKEAWAY_FAILED", "Could not place the order")
		return
	}

	invalidateDashboardCache()
	if err := queue.PublishOrderPlaced(ctx, h.Queue, orderID, orders.TypeTakeaway, input.Name, total); err != nil {
		h.Logger.Warn("order placed event publish failed", zap.String("orderId", orderID), zap.Error(err))
	}

	response.Created(w, map[string]any{
		"orderId":         orderID,
		"takeawayOrderId": takeawayID,
		"pickupTime":      input.PickupTime,
		"total":           total,
	})
}
