package handlers

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"vgfoods-order-service/internal/orders"
	"vgfoods-order-service/internal/utils"
)

type selectionInput struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

// resolveSelections turns client item references into priced order lines.
// Prices always come from the catalog, never from the request body.
func (h *Handler) resolveSelections(ctx context.Context, selections []selectionInput) ([]orders.LineItem, float64, error) {
	if len(selections) == 0 {
		return nil, 0, fmt.Errorf("at least one item is required")
	}

	ids := make([]string, 0, len(selections))
	for _, sel := range selections {
		if sel.ItemID == "" || sel.Quantity <= 0 {
			return nil, 0, fmt.Errorf("every item needs an itemId and a positive quantity")
		}
		ids = append(ids, sel.ItemID)
	}

	rows, err := h.DB.Query(ctx, `
		select id::text, name, price, coalesce(image_url, '')
		from menu_items
		where id = any($1::uuid[])
	`, ids)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	catalog := make(map[string]orders.LineItem)
	for rows.Next() {
		var (
			item  orders.LineItem
			price pgtype.Numeric
		)
		if err := rows.Scan(&item.ItemID, &item.Name, &price, &item.ImageURL); err != nil {
			return nil, 0, err
		}
		item.Price = utils.NumericToFloat64(price)
		catalog[item.ItemID] = item
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	lines := make([]orders.LineItem, 0, len(selections))
	total := 0.0
	for _, sel := range selections {
		item, ok := catalog[sel.ItemID]
		if !ok {
			return nil, 0, fmt.Errorf("unknown menu item %s", sel.ItemID)
		}
		item.Quantity = sel.Quantity
		lines = append(lines, item)
		total += item.Price * float64(sel.Quantity)
	}
	return lines, utils.Round2(total), nil
}
