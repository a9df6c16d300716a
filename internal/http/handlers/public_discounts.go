package handlers

import (
	"net/http"
	"strings"

	"vgfoods-order-service/internal/discount"
	"vgfoods-order-service/internal/utils"
	"vgfoods-order-service/pkg/response"
)

// PublicDiscountValidate checks a code at the cart stage and previews the
// discounted subtotal without placing anything.
func (h *Handler) PublicDiscountValidate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Code     string  `json:"code"`
		Subtotal float64 `json:"subtotal"`
	}
	if err := decodeJSON(r, &input); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	if strings.TrimSpace(input.Code) == "" {
		badRequest(w, "code is required")
		return
	}

	loc := utils.LocationOrUTC(h.Config.RestaurantTimezone)
	d, derr := discount.Redeem(r.Context(), h.DB, input.Code, timeNow(), loc)
	if derr != nil {
		response.Error(w, derr.StatusCode, string(derr.Code), derr.Message)
		return
	}

	payload := map[string]any{
		"code":  d.Code,
		"valid": true,
	}
	if d.DiscountPercentage != nil {
		payload["discountPercentage"] = *d.DiscountPercentage
	}
	if d.FixedDiscount != nil {
		payload["fixedDiscount"] = *d.FixedDiscount
	}
	if input.Subtotal > 0 {
		payload["subtotal"] = input.Subtotal
		payload["discountedSubtotal"] = d.Apply(input.Subtotal)
	}
	response.Success(w, payload)
}
