package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/qmenus/api/internal/database"
	"github.com/qmenus/api/internal/middleware"
	"github.com/shopspring/decimal"
)

// MenuStore defines the database methods needed by menu item handlers.
// Satisfied by *database.Queries.
type MenuStore interface {
	ListMenuItemsByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]database.MenuItem, error)
	CreateMenuItem(ctx context.Context, arg database.CreateMenuItemParams) (database.MenuItem, error)
	UpdateMenuItem(ctx context.Context, arg database.UpdateMenuItemParams) (database.MenuItem, error)
}

// MenuHandler handles menu item endpoints.
type MenuHandler struct {
	store MenuStore
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(store MenuStore) *MenuHandler {
	return &MenuHandler{store: store}
}

// RegisterRoutes registers menu item endpoints on the given Chi router.
// Expected to be mounted behind Authenticate + RequireRestaurant.
func (h *MenuHandler) RegisterRoutes(r chi.Router) {
	r.Get("/menu-items", h.List)
	r.Post("/menu-items", h.Create)
	r.Put("/menu-items/{id}", h.Update)
}

type menuItemRequest struct {
	CategoryID       string          `json:"categoryId"`
	KitchenSectionID string          `json:"kitchenSectionId"`
	Name             string          `json:"name"`
	NameAr           string          `json:"nameAr"`
	Description      string          `json:"description"`
	Price            string          `json:"price"`
	Discount         string          `json:"discount"`
	Extras           json.RawMessage `json:"extras"`
	IsAvailable      *bool           `json:"isAvailable"`
}

type menuItemResponse struct {
	ID               uuid.UUID       `json:"id"`
	CategoryID       *uuid.UUID      `json:"categoryId"`
	KitchenSectionID *uuid.UUID      `json:"kitchenSectionId"`
	Name             string          `json:"name"`
	NameAr           *string         `json:"nameAr,omitempty"`
	Description      *string         `json:"description,omitempty"`
	Price            string          `json:"price"`
	Discount         string          `json:"discount"`
	Extras           json.RawMessage `json:"extras,omitempty"`
	IsAvailable      bool            `json:"isAvailable"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// List handles GET /api/menu-items.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	items, err := h.store.ListMenuItemsByRestaurant(r.Context(), claims.RestaurantID)
	if err != nil {
		log.Printf("ERROR: list menu items: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]menuItemResponse, len(items))
	for i, item := range items {
		resp[i] = toMenuItemResponse(item)
	}
	writeSuccess(w, http.StatusOK, "", resp)
}

// Create handles POST /api/menu-items.
func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	params, errMsg := buildMenuItemParams(req)
	if errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}

	item, err := h.store.CreateMenuItem(r.Context(), database.CreateMenuItemParams{
		RestaurantID:     claims.RestaurantID,
		CategoryID:       params.categoryID,
		KitchenSectionID: params.kitchenSectionID,
		Name:             req.Name,
		NameAr:           textOrNull(req.NameAr),
		Description:      textOrNull(req.Description),
		Price:            params.price,
		Discount:         params.discount,
		Extras:           req.Extras,
	})
	if err != nil {
		log.Printf("ERROR: create menu item: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeSuccess(w, http.StatusCreated, "menu item created", toMenuItemResponse(item))
}

// Update handles PUT /api/menu-items/{id}.
func (h *MenuHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid menu item id")
		return
	}

	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	params, errMsg := buildMenuItemParams(req)
	if errMsg != "" {
		writeError(w, http.StatusBadRequest, errMsg)
		return
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	item, err := h.store.UpdateMenuItem(r.Context(), database.UpdateMenuItemParams{
		ID:               id,
		RestaurantID:     claims.RestaurantID,
		CategoryID:       params.categoryID,
		KitchenSectionID: params.kitchenSectionID,
		Name:             req.Name,
		NameAr:           textOrNull(req.NameAr),
		Description:      textOrNull(req.Description),
		Price:            params.price,
		Discount:         params.discount,
		Extras:           req.Extras,
		IsAvailable:      available,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "menu item not found")
			return
		}
		log.Printf("ERROR: update menu item: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeSuccess(w, http.StatusOK, "menu item updated", toMenuItemResponse(item))
}

type menuItemParams struct {
	categoryID       pgtype.UUID
	kitchenSectionID pgtype.UUID
	price            pgtype.Numeric
	discount         pgtype.Numeric
}

// buildMenuItemParams validates the shared create/update fields. Returns a
// non-empty message on validation failure.
func buildMenuItemParams(req menuItemRequest) (menuItemParams, string) {
	var out menuItemParams

	if req.Name == "" {
		return out, "name is required"
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		return out, "price must be a non-negative number"
	}
	out.price = numericFromDecimal(price)

	discount := decimal.Zero
	if req.Discount != "" {
		discount, err = decimal.NewFromString(req.Discount)
		if err != nil || discount.IsNegative() || discount.GreaterThan(decimal.NewFromInt(100)) {
			return out, "discount must be a percentage between 0 and 100"
		}
	}
	out.discount = numericFromDecimal(discount)

	if req.CategoryID != "" {
		id, err := uuid.Parse(req.CategoryID)
		if err != nil {
			return out, "invalid category id"
		}
		out.categoryID = pgtype.UUID{Bytes: id, Valid: true}
	}
	if req.KitchenSectionID != "" {
		id, err := uuid.Parse(req.KitchenSectionID)
		if err != nil {
			return out, "invalid kitchen section id"
		}
		out.kitchenSectionID = pgtype.UUID{Bytes: id, Valid: true}
	}

	if len(req.Extras) > 0 && !json.Valid(req.Extras) {
		return out, "extras must be valid JSON"
	}

	return out, ""
}

func toMenuItemResponse(item database.MenuItem) menuItemResponse {
	resp := menuItemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Price:       numericToString(item.Price),
		Discount:    numericToString(item.Discount),
		Extras:      item.Extras,
		IsAvailable: item.IsAvailable,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
	if item.CategoryID.Valid {
		id := uuid.UUID(item.CategoryID.Bytes)
		resp.CategoryID = &id
	}
	if item.KitchenSectionID.Valid {
		id := uuid.UUID(item.KitchenSectionID.Bytes)
		resp.KitchenSectionID = &id
	}
	if item.NameAr.Valid {
		resp.NameAr = &item.NameAr.String
	}
	if item.Description.Valid {
		resp.Description = &item.Description.String
	}
	return resp
}

func numericFromDecimal(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}

func numericToString(n pgtype.Numeric) string {
	if !n.Valid {
		return "0.00"
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return "0.00"
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return "0.00"
	}
	return d.StringFixed(2)
}
