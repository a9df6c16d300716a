package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"vgfoods-order-service/internal/storage"
	"vgfoods-order-service/internal/utils"
	"vgfoods-order-service/pkg/response"
)

type menuItemInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"imageUrl"`
}

func (in *menuItemInput) validate() string {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.ToLower(strings.TrimSpace(in.Category))
	if in.Name == "" {
		return "name is required"
	}
	if in.Price <= 0 {
		return "price must be positive"
	}
	if in.Category != "veg" && in.Category != "non-veg" {
		return "category must be veg or non-veg"
	}
	return ""
}

// AdminMenuCreate adds a dish to the catalog.
func (h *Handler) AdminMenuCreate(w http.ResponseWriter, r *http.Request) {
	var input menuItemInput
	if err := decodeJSON(r, &input); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	if msg := input.validate(); msg != "" {
		badRequest(w, msg)
		return
	}

	var id string
	err := h.DB.QueryRow(r.Context(), `
		insert into menu_items (name, description, price, category, image_url)
		values ($1, $2, $3, $4, nullif($5, ''))
		returning id::text
	`, input.Name, input.Description, utils.Float64ToNumeric(input.Price), input.Category, input.ImageURL).Scan(&id)
	if err != nil {
		h.Logger.Error("menu create failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "MENU_CREATE_FAILED", "Could not create the menu item")
		return
	}

	item, err := h.loadMenuItem(r, id)
	if err != nil {
		response.Created(w, map[string]any{"id": id})
		return
	}
	response.Created(w, item)
}

// AdminMenuUpdate rewrites one dish. Orders placed earlier keep their old
// copied prices.
func (h *Handler) AdminMenuUpdate(w http.ResponseWriter, r *http.Request) {
	id := readPathString(r, "id")

	var input menuItemInput
	if err := decodeJSON(r, &input); err != nil {
		badRequest(w, "Invalid request body")
		return
	}
	if msg := input.validate(); msg != "" {
		badRequest(w, msg)
		return
	}

	tag, err := h.DB.Exec(r.Context(), `
		update menu_items
		set name = $1, description = $2, price = $3, category = $4, image_url = nullif($5, '')
		where id = $6::uuid
	`, input.Name, input.Description, utils.Float64ToNumeric(input.Price), input.Category, input.ImageURL, id)
	if err != nil {
		h.Logger.Error("menu update failed", zap.String("id", id), zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "MENU_UPDATE_FAILED", "Could not update the menu item")
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "MENU_ITEM_NOT_FOUND", "Menu item not found")
		return
	}

	item, err := h.loadMenuItem(r, id)
	if err != nil {
		response.Success(w, map[string]any{"id": id})
		return
	}
	response.Success(w, item)
}

// AdminMenuDelete removes a dish from the catalog. Historical orders are
// untouched, they carry copies of the lines they were placed with.
func (h *Handler) AdminMenuDelete(w http.ResponseWriter, r *http.Request) {
	id := readPathString(r, "id")
	ctx := r.Context()

	var imageURL string
	_ = h.DB.QueryRow(ctx, `select coalesce(image_url, '') from menu_items where id = $1::uuid`, id).Scan(&imageURL)

	tag, err := h.DB.Exec(ctx, `delete from menu_items where id = $1::uuid`, id)
	if err != nil {
		h.Logger.Error("menu delete failed", zap.String("id", id), zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "MENU_DELETE_FAILED", "Could not delete the menu item")
		return
	}
	if tag.RowsAffected() == 0 {
		response.Error(w, http.StatusNotFound, "MENU_ITEM_NOT_FOUND", "Menu item not found")
		return
	}

	if h.Store != nil && imageURL != "" {
		if err := h.Store.DeleteURL(ctx, imageURL); err != nil {
			h.Logger.Warn("menu image cleanup failed", zap.String("id", id), zap.Error(err))
		}
	}

	response.Success(w, map[string]any{"id": id, "deleted": true})
}

// AdminMenuUploadImage accepts a multipart photo, re-encodes it to JPEG at
// card and thumbnail sizes and stores both, pointing the item at the card
// variant.
func (h *Handler) AdminMenuUploadImage(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		response.Error(w, http.StatusServiceUnavailable, "UPLOADS_DISABLED", "Image storage is not configured")
		return
	}

	id := readPathString(r, "id")
	ctx := r.Context()

	var existingURL string
	if err := h.DB.QueryRow(ctx, `select coalesce(image_url, '') from menu_items where id = $1::uuid`, id).Scan(&existingURL); err != nil {
		if err == pgx.ErrNoRows {
			response.Error(w, http.StatusNotFound, "MENU_ITEM_NOT_FOUND", "Menu item not found")
			return
		}
		h.Logger.Error("menu lookup for upload failed", zap.String("id", id), zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "MENU_IMAGE_FAILED", "Could not store the image")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.Config.MaxFileSizeBytes)
	if err := r.ParseMultipartForm(h.Config.MaxFileSizeBytes); err != nil {
		badRequest(w, "image file too large or malformed")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		badRequest(w, "an image file field named 'image' is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		badRequest(w, "could not read the uploaded file")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = utils.DetectContentType(data)
	}
	if !utils.ValidateImageContentType(contentType) {
		badRequest(w, "unsupported image type")
		return
	}

	card, srcMeta, err := utils.EncodeJpegFitInside(data, 1200, 85)
	if err != nil {
		badRequest(w, "could not decode the image")
		return
	}
	thumb, err := utils.EncodeJpegCoverSquare(data, 320, 80)
	if err != nil {
		badRequest(w, "could not decode the image")
		return
	}

	cardURL, err := h.Store.PutObject(ctx, storage.MenuImageKey(id, "card"), card, "image/jpeg")
	if err != nil {
		h.Logger.Error("menu image upload failed", zap.String("id", id), zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "MENU_IMAGE_FAILED", "Could not store the image")
		return
	}
	thumbURL, err := h.Store.PutObject(ctx, storage.MenuImageKey(id, "thumb"), thumb, "image/jpeg")
	if err != nil {
		h.Logger.Error("menu thumbnail upload failed", zap.String("id", id), zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "MENU_IMAGE_FAILED", "Could not store the image")
		return
	}

	if _, err := h.DB.Exec(ctx, `update menu_items set image_url = $1 where id = $2::uuid`, cardURL, id); err != nil {
		h.Logger.Error("menu image url update failed", zap.String("id", id), zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "MENU_IMAGE_FAILED", "Could not store the image")
		return
	}

	if existingURL != "" {
		if err := h.Store.DeleteURL(ctx, existingURL); err != nil {
			h.Logger.Warn("stale menu image cleanup failed", zap.String("id", id), zap.Error(err))
		}
	}

	h.Logger.Info("menu image replaced",
		zap.String("id", id),
		zap.Any("source", srcMeta))

	response.Success(w, map[string]any{
		"id":           id,
		"imageUrl":     cardURL,
		"thumbnailUrl": thumbURL,
		"source":       srcMeta,
	})
}
