package handlers

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"vgfoods-order-service/internal/orders"
	"vgfoods-order-service/internal/queue"
	"vgfoods-order-service/pkg/response"
)

// AdminOrdersList returns every order, normalized across the four detail
// tables, newest first.
func (h *Handler) AdminOrdersList(w http.ResponseWriter, r *http.Request) {
	list, err := h.Orders.ListOrders(r.Context())
	if err != nil {
		h.Logger.Error("order list failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "ORDER_LIST_FAILED", "Could not load orders")
		return
	}

	// optional filters applied after normalization, the list is one batch
	typeFilter := r.URL.Query().Get("type")
	statusFilter := r.URL.Query().Get("status")
	if typeFilter != "" || statusFilter != "" {
		filtered := make([]orders.Order, 0, len(list))
		for _, o := range list {
			if typeFilter != "" && string(o.Type) != typeFilter {
				continue
			}
			if statusFilter != "" && string(o.Status) != statusFilter {
				continue
			}
			filtered = append(filtered, o)
		}
		list = filtered
	}

	response.Success(w, map[string]any{"orders": list, "total": len(list)})
}

// AdminOrderDetail returns one order with its resolved details.
func (h *Handler) AdminOrderDetail(w http.ResponseWriter, r *http.Request) {
	orderID := readPathString(r, "orderId")
	order, err := h.Orders.ResolveOne(r.Context(), orderID)
	if err != nil {
		if err == pgx.ErrNoRows {
			response.Error(w, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found")
			return
		}
		h.Logger.Error("order detail failed", zap.String("orderId", orderID), zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "ORDER_DETAIL_FAILED", "Could not load the order")
		return
	}
	response.Success(w, order)
}

// AdminOrderStatusUpdate routes a status write to the order's detail table.
func (h *Handler) AdminOrderStatusUpdate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &input); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	status, ok := orders.ParseStatus(input.Status)
	if !ok {
		badRequest(w, "status must be one of pending, confirmed, completed, cancelled")
		return
	}
	h.updateOrderStatus(w, r, status)
}

// AdminOrderCancel marks an order cancelled. The rows stay in place so the
// order keeps showing in history and reports.
func (h *Handler) AdminOrderCancel(w http.ResponseWriter, r *http.Request) {
	h.updateOrderStatus(w, r, orders.StatusCancelled)
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request, status orders.Status) {
	authCtx, ok := requireAuthContext(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	orderID := readPathString(r, "orderId")
	order, err := h.Orders.ResolveOne(ctx, orderID)
	if err != nil {
		if err == pgx.ErrNoRows {
			response.Error(w, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found")
			return
		}
		h.Logger.Error("order load for status update failed", zap.String("orderId", orderID), zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "ORDER_STATUS_FAILED", "Could not update the order")
		return
	}

	err = h.Dispatcher.UpdateStatus(ctx, authCtx.Role, order.Type, order.DetailKey(), status)
	switch {
	case err == nil:
	case errors.Is(err, orders.ErrNotPermitted):
		response.Error(w, http.StatusForbidden, "FORBIDDEN", "Admin access required")
		return
	case errors.Is(err, orders.ErrUnknownType):
		response.Error(w, http.StatusConflict, "ORDER_TYPE_UNKNOWN", "This order's type cannot be updated")
		return
	case errors.Is(err, orders.ErrOrderNotFound):
		response.Error(w, http.StatusNotFound, "ORDER_NOT_FOUND", "Order details not found")
		return
	default:
		h.Logger.Error("order status update failed", zap.String("orderId", orderID), zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "ORDER_STATUS_FAILED", "Could not update the order")
		return
	}

	invalidateDashboardCache()
	if err := queue.PublishOrderStatusUpdated(ctx, h.Queue, orderID, order.Type, status); err != nil {
		h.Logger.Warn("status event publish failed", zap.String("orderId", orderID), zap.Error(err))
	}

	order.Status = status
	response.Success(w, order)
}
