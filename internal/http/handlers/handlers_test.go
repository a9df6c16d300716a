package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"vgfoods-order-service/internal/config"
	"vgfoods-order-service/internal/utils"
)

func TestCartIDFromRequestRoundTrip(t *testing.T) {
	h := &Handler{Config: config.Config{JWTSecret: "test-secret"}}

	cartID := utils.NewCartID()
	token := utils.CreateCartToken(h.Config.JWTSecret, cartID)

	r := httptest.NewRequest("GET", "/api/public/cart", nil)
	r.Header.Set("X-Cart-Id", token)

	if got := h.cartIDFromRequest(r); got != cartID {
		t.Fatalf("expected cart id %q, got %q", cartID, got)
	}
}

func TestCartIDFromRequestRejectsTampered(t *testing.T) {
	h := &Handler{Config: config.Config{JWTSecret: "test-secret"}}

	cases := map[string]string{
		"empty":        "",
		"unsigned":     "justacartid",
		"wrong secret": utils.CreateCartToken("other-secret", utils.NewCartID()),
	}
	for name, token := range cases {
		r := httptest.NewRequest("GET", "/api/public/cart", nil)
		if token != "" {
			r.Header.Set("X-Cart-Id", token)
		}
		if got := h.cartIDFromRequest(r); got != "" {
			t.Fatalf("%s: expected no cart id, got %q", name, got)
		}
	}
}

func TestMenuItemInputValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   menuItemInput
		wantErr string
	}{
		{
			name:  "valid veg",
			input: menuItemInput{Name: "Paneer Tikka", Price: 12.50, Category: "veg"},
		},
		{
			name:  "valid non-veg, case-folded",
			input: menuItemInput{Name: "Chicken Curry", Price: 14.00, Category: " Non-Veg "},
		},
		{
			name:    "missing name",
			input:   menuItemInput{Name: "   ", Price: 12.50, Category: "veg"},
			wantErr: "name is required",
		},
		{
			name:    "zero price",
			input:   menuItemInput{Name: "Paneer Tikka", Price: 0, Category: "veg"},
			wantErr: "price must be positive",
		},
		{
			name:    "missing category",
			input:   menuItemInput{Name: "Paneer Tikka", Price: 12.50},
			wantErr: "category must be veg or non-veg",
		},
		{
			name:    "unknown category",
			input:   menuItemInput{Name: "Paneer Tikka", Price: 12.50, Category: "mains"},
			wantErr: "category must be veg or non-veg",
		},
	}
	for _, tt := range tests {
		in := tt.input
		if got := in.validate(); got != tt.wantErr {
			t.Fatalf("%s: expected %q, got %q", tt.name, tt.wantErr, got)
		}
	}
}

func TestDecodeJSONRejectsOversizedBody(t *testing.T) {
	body := `{"name":"` + strings.Repeat("x", 2<<20) + `"}`
	r := httptest.NewRequest("POST", "/api/admin/menu", strings.NewReader(body))

	var input menuItemInput
	if err := decodeJSON(r, &input); err == nil {
		t.Fatal("expected oversized body to be rejected")
	}
}
