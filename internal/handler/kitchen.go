package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/qmenus/api/internal/middleware"
	"github.com/qmenus/api/internal/realtime"
	"github.com/qmenus/api/internal/service"
)

// KitchenServicer defines the service methods needed by kitchen handlers.
// Satisfied by *service.KitchenService.
type KitchenServicer interface {
	CheckAccess(ctx context.Context, store service.KitchenStore, restaurantID uuid.UUID) error
	SetItemStatus(ctx context.Context, req service.SetItemStatusRequest) (*service.SetItemStatusResult, error)
	Board(ctx context.Context, store service.KitchenStore, restaurantID uuid.UUID) ([]service.BoardSection, error)
}

// KitchenHandler handles the kitchen display endpoints. Every route is
// plan-gated: the restaurant's active plan must carry the kitchen display
// feature.
type KitchenHandler struct {
	svc   KitchenServicer
	store service.KitchenStore
}

// NewKitchenHandler creates a new KitchenHandler.
func NewKitchenHandler(svc KitchenServicer, store service.KitchenStore) *KitchenHandler {
	return &KitchenHandler{svc: svc, store: store}
}

// RegisterRoutes registers kitchen endpoints on the given Chi router.
// Expected to be mounted behind Authenticate + RequireRestaurant.
func (h *KitchenHandler) RegisterRoutes(r chi.Router) {
	r.Get("/kitchen/kds/items", h.Board)
	r.Put("/kitchen/kds/items/{itemId}/status", h.SetItemStatus)
}

type setItemStatusRequest struct {
	Status string `json:"status"`
}

type setItemStatusResponse struct {
	Item     realtime.OrderItem `json:"item"`
	Promoted bool               `json:"promoted"`
	Order    *realtime.Order    `json:"order,omitempty"`
}

// Board handles GET /api/kitchen/kds/items.
func (h *KitchenHandler) Board(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	if err := h.svc.CheckAccess(r.Context(), h.store, claims.RestaurantID); err != nil {
		if errors.Is(err, service.ErrFeatureNotAvailable) {
			writeError(w, http.StatusForbidden, err.Error())
			return
		}
		log.Printf("ERROR: check kds access: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	board, err := h.svc.Board(r.Context(), h.store, claims.RestaurantID)
	if err != nil {
		log.Printf("ERROR: load kds board: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeSuccess(w, http.StatusOK, "", board)
}

// SetItemStatus handles PUT /api/kitchen/kds/items/{itemId}/status.
func (h *KitchenHandler) SetItemStatus(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	itemID, err := uuid.Parse(chi.URLParam(r, "itemId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req setItemStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.CheckAccess(r.Context(), h.store, claims.RestaurantID); err != nil {
		if errors.Is(err, service.ErrFeatureNotAvailable) {
			writeError(w, http.StatusForbidden, err.Error())
			return
		}
		log.Printf("ERROR: check kds access: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	result, err := h.svc.SetItemStatus(r.Context(), service.SetItemStatusRequest{
		RestaurantID: claims.RestaurantID,
		ItemID:       itemID,
		Status:       req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidItemStatus):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrItemNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			log.Printf("ERROR: set kitchen item status: %v", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	resp := setItemStatusResponse{
		Item:     realtime.OrderItemFromDB(result.Item),
		Promoted: result.Promoted,
	}
	if result.Promoted {
		order := realtime.OrderFromDB(result.Order, nil)
		resp.Order = &order
	}

	writeSuccess(w, http.StatusOK, "item status updated", resp)
}
