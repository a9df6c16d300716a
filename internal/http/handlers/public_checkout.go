package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"vgfoods-order-service/internal/discount"
	"vgfoods-order-service/internal/orders"
	"vgfoods-order-service/internal/queue"
	"vgfoods-order-service/internal/utils"
	"vgfoods-order-service/pkg/response"
)

type checkoutInput struct {
	Name            string `json:"name"`
	Contact         string `json:"contact"`
	Email           string `json:"email"`
	ShippingAddress string `json:"shippingAddress"`
	PaymentMethod   string `json:"paymentMethod"`
	DiscountCode    string `json:"discountCode"`
}

// PublicCheckout converts the cart into a menu order. The order is written
// as a detail row plus an umbrella stub in one transaction, so the back
// office never sees a half-created order.
func (h *Handler) PublicCheckout(w http.ResponseWriter, r *http.Request) {
	cartID := h.cartIDFromRequest(r)
	if cartID == "" {
		response.Error(w, http.StatusBadRequest, "CART_ID_REQUIRED", "A valid X-Cart-Id header is required")
		return
	}

	var input checkoutInput
	if err := decodeJSON(r, &input); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	input.Name = strings.TrimSpace(input.Name)
	input.ShippingAddress = strings.TrimSpace(input.ShippingAddress)
	input.PaymentMethod = strings.TrimSpace(input.PaymentMethod)
	if input.Name == "" || input.ShippingAddress == "" {
		badRequest(w, "name and shippingAddress are required")
		return
	}
	if input.PaymentMethod == "" {
		input.PaymentMethod = "Cash on Delivery"
	}

	items := h.Carts.Items(cartID)
	if len(items) == 0 {
		response.Error(w, http.StatusBadRequest, "CART_EMPTY", "The cart is empty")
		return
	}
	subtotal := h.Carts.Subtotal(cartID)

	loc := utils.LocationOrUTC(h.Config.RestaurantTimezone)
	discounted := subtotal
	var appliedCode string
	if code := strings.TrimSpace(input.DiscountCode); code != "" {
		d, derr := discount.Redeem(r.Context(), h.DB, code, timeNow(), loc)
		if derr != nil {
			response.Error(w, derr.StatusCode, string(derr.Code), derr.Message)
			return
		}
		discounted = d.Apply(subtotal)
		appliedCode = d.Code
	}

	vat := utils.Round2(discounted * h.Config.VATRate)
	total := utils.Round2(discounted + vat)

	itemsJSON, err := json.Marshal(items)
	if err != nil {
		badRequest(w, "Invalid cart contents")
		return
	}
	shippingJSON, err := json.Marshal(map[string]any{
		"address": input.ShippingAddress,
		"name":    input.Name,
		"contact": input.Contact,
		"email":   input.Email,
	})
	if err != nil {
		badRequest(w, "Invalid shipping details")
		return
	}

	ctx := r.Context()
	tx, err := h.DB.Begin(ctx)
	if err != nil {
		h.Logger.Error("checkout begin tx failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "CHECKOUT_FAILED", "Could not place the order")
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var menuOrderID string
	err = tx.QueryRow(ctx, `
		insert into menuorder (items, total_amount, shipping_info, payment_method, status, created_at)
		values ($1, $2, $3, $4, 'pending', now())
		returning id::text
	`, itemsJSON, utils.Float64ToNumeric(total), shippingJSON, input.PaymentMethod).Scan(&menuOrderID)
	if err != nil {
		h.Logger.Error("checkout menuorder insert failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "CHECKOUT_FAILED", "Could not place the order")
		return
	}

	var orderID string
	err = tx.QueryRow(ctx, `
		insert into orders (user_id, typeoforder, menuorder_id, created_at)
		values ($1::uuid, 'menuorder', $2::uuid, now())
		returning id::text
	`, h.optionalUserID(r), menuOrderID).Scan(&orderID)
	if err != nil {
		h.Logger.Error("checkout stub insert failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "CHECKOUT_FAILED", "Could not place the order")
		return
	}

	if err := tx.Commit(ctx); err != nil {
		h.Logger.Error("checkout commit failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "CHECKOUT_FAILED", "Could not place the order")
		return
	}

	h.Carts.Clear(cartID)
	invalidateDashboardCache()

	if err := queue.PublishOrderPlaced(ctx, h.Queue, orderID, orders.TypeMenuOrder, input.Name, total); err != nil {
		h.Logger.Warn("order placed event publish failed", zap.String("orderId", orderID), zap.Error(err))
	}

	response.Created(w, map[string]any{
		"orderId":       orderID,
		"menuorderId":   menuOrderID,
		"subtotal":      subtotal,
		"discountCode":  appliedCode,
		"discountTotal": utils.Round2(subtotal - discounted),
		"vat":           vat,
		"total":         total,
		"paymentMethod": input.PaymentMethod,
	})
}
