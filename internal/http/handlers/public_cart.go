package handlers

import (
	"net/http"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"vgfoods-order-service/internal/cart"
	"vgfoods-order-service/internal/utils"
	"vgfoods-order-service/pkg/response"
)

// PublicCartCreate mints a new cart and returns the signed id the client
// must echo back in X-Cart-Id.
func (h *Handler) PublicCartCreate(w http.ResponseWriter, r *http.Request) {
	cartID := utils.NewCartID()
	if cartID == "" {
		response.Error(w, http.StatusInternalServerError, "CART_CREATE_FAILED", "Could not create a cart")
		return
	}
	response.Created(w, map[string]any{
		"cartId": utils.CreateCartToken(h.Config.JWTSecret, cartID),
	})
}

// PublicCartGet returns the current cart contents and subtotal.
func (h *Handler) PublicCartGet(w http.ResponseWriter, r *http.Request) {
	cartID := h.cartIDFromRequest(r)
	if cartID == "" {
		response.Error(w, http.StatusBadRequest, "CART_ID_REQUIRED", "A valid X-Cart-Id header is required")
		return
	}
	h.writeCart(w, cartID)
}

type cartItemInput struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

// PublicCartAddItem adds a menu item to the cart. Name, price and image are
// copied from the catalog server-side so the client cannot set its own
// prices.
func (h *Handler) PublicCartAddItem(w http.ResponseWriter, r *http.Request) {
	cartID := h.cartIDFromRequest(r)
	if cartID == "" {
		response.Error(w, http.StatusBadRequest, "CART_ID_REQUIRED", "A valid X-Cart-Id header is required")
		return
	}

	var input cartItemInput
	if err := decodeJSON(r, &input); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	if input.ItemID == "" || input.Quantity <= 0 {
		badRequest(w, "itemId and a positive quantity are required")
		return
	}

	item, err := h.loadMenuItem(r, input.ItemID)
	if err != nil {
		if err == pgx.ErrNoRows {
			response.Error(w, http.StatusNotFound, "MENU_ITEM_NOT_FOUND", "Menu item not found")
			return
		}
		h.Logger.Error("cart add lookup failed", zap.String("itemId", input.ItemID), zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "CART_ADD_FAILED", "Could not add the item")
		return
	}

	h.Carts.Add(cartID, cart.Item{
		ItemID:   item.ID,
		Name:     item.Name,
		Price:    item.Price,
		Quantity: input.Quantity,
		ImageURL: item.ImageURL,
	})
	h.writeCart(w, cartID)
}

// PublicCartUpdateItem pins a line's quantity; zero removes it.
func (h *Handler) PublicCartUpdateItem(w http.ResponseWriter, r *http.Request) {
	cartID := h.cartIDFromRequest(r)
	if cartID == "" {
		response.Error(w, http.StatusBadRequest, "CART_ID_REQUIRED", "A valid X-Cart-Id header is required")
		return
	}

	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := decodeJSON(r, &input); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	h.Carts.SetQuantity(cartID, readPathString(r, "itemId"), input.Quantity)
	h.writeCart(w, cartID)
}

func (h *Handler) PublicCartRemoveItem(w http.ResponseWriter, r *http.Request) {
	cartID := h.cartIDFromRequest(r)
	if cartID == "" {
		response.Error(w, http.StatusBadRequest, "CART_ID_REQUIRED", "A valid X-Cart-Id header is required")
		return
	}
	h.Carts.Remove(cartID, readPathString(r, "itemId"))
	h.writeCart(w, cartID)
}

func (h *Handler) PublicCartClear(w http.ResponseWriter, r *http.Request) {
	cartID := h.cartIDFromRequest(r)
	if cartID == "" {
		response.Error(w, http.StatusBadRequest, "CART_ID_REQUIRED", "A valid X-Cart-Id header is required")
		return
	}
	h.Carts.Clear(cartID)
	response.Success(w, map[string]any{"items": []cart.Item{}, "subtotal": 0})
}

func (h *Handler) writeCart(w http.ResponseWriter, cartID string) {
	response.Success(w, map[string]any{
		"items":    h.Carts.Items(cartID),
		"subtotal": h.Carts.Subtotal(cartID),
	})
}
