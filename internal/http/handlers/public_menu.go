package handlers

import (
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"

	"vgfoods-order-service/internal/utils"
	"vgfoods-order-service/pkg/response"
)

type MenuItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

// PublicMenuList returns the menu, optionally filtered by ?category=.
func (h *Handler) PublicMenuList(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(r.URL.Query().Get("category"))

	query := `
		select id::text, name, coalesce(description, ''), price, coalesce(category, ''), coalesce(image_url, '')
		from menu_items
	`
	args := []any{}
	if category != "" {
		query += ` where lower(category) = lower($1)`
		args = append(args, category)
	}
	query += ` order by category, name`

	rows, err := h.DB.Query(r.Context(), query, args...)
	if err != nil {
		h.Logger.Error("menu list query failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "MENU_LIST_FAILED", "Could not load the menu")
		return
	}
	defer rows.Close()

	items := make([]MenuItem, 0)
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			h.Logger.Error("menu row scan failed", zap.Error(err))
			response.Error(w, http.StatusInternalServerError, "MENU_LIST_FAILED", "Could not load the menu")
			return
		}
		items = append(items, item)
	}

	response.Success(w, map[string]any{"items": items})
}

// PublicMenuDetail returns one menu item.
func (h *Handler) PublicMenuDetail(w http.ResponseWriter, r *http.Request) {
	id := readPathString(r, "id")
	item, err := h.loadMenuItem(r, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			response.Error(w, http.StatusNotFound, "MENU_ITEM_NOT_FOUND", "Menu item not found")
			return
		}
		h.Logger.Error("menu detail query failed", zap.String("id", id), zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "MENU_DETAIL_FAILED", "Could not load the menu item")
		return
	}
	response.Success(w, item)
}

func (h *Handler) loadMenuItem(r *http.Request, id string) (MenuItem, error) {
	row := h.DB.QueryRow(r.Context(), `
		select id::text, name, coalesce(description, ''), price, coalesce(category, ''), coalesce(image_url, '')
		from menu_items
		where id = $1::uuid
	`, id)
	return scanMenuItem(row)
}

func scanMenuItem(row pgx.Row) (MenuItem, error) {
	var (
		item  MenuItem
		price pgtype.Numeric
	)
	if err := row.Scan(&item.ID, &item.Name, &item.Description, &price, &item.Category, &item.ImageURL); err != nil {
		return MenuItem{}, err
	}
	item.Price = utils.NumericToFloat64(price)
	return item, nil
}
