package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/qmenus/api/internal/database"
	"github.com/qmenus/api/internal/middleware"
	"github.com/qmenus/api/internal/realtime"
	"github.com/qmenus/api/internal/service"
)

// OrderServicer defines the service methods needed by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderServicer interface {
	Create(ctx context.Context, req service.CreateOrderRequest) (*service.OrderResult, error)
	AppendItems(ctx context.Context, req service.AppendItemsRequest) (*service.OrderResult, error)
	AddCustomItem(ctx context.Context, req service.AddCustomItemRequest) (*service.OrderResult, error)
	UpdateStatus(ctx context.Context, req service.UpdateStatusRequest) (*service.OrderResult, error)
}

// OrderStore defines the database methods needed by order read handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type OrderStore interface {
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	ListOrders(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error)
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error)
}

// OrderHandler handles order endpoints.
type OrderHandler struct {
	svc   OrderServicer
	store OrderStore
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc OrderServicer, store OrderStore) *OrderHandler {
	return &OrderHandler{svc: svc, store: store}
}

// RegisterPublicRoutes registers the customer-facing endpoints. No auth;
// ingestion is guarded by restaurant/subscription/QR checks in the service.
func (h *OrderHandler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/order/create", h.Create)
	r.Get("/order/track/{orderId}", h.Track)
	r.Put("/order/{id}/add-items", h.AddItems)
}

// RegisterCashierRoutes registers the staff endpoints. Expected to be
// mounted behind Authenticate + RequireRestaurant.
func (h *OrderHandler) RegisterCashierRoutes(r chi.Router) {
	r.Get("/order", h.List)
	r.Post("/order/{id}/add-item", h.AddCustomItem)
	r.Put("/order/{id}/status", h.UpdateStatus)
}

// --- Request types ---

type createOrderRequest struct {
	RestaurantID    string                   `json:"restaurantId"`
	OrderType       string                   `json:"orderType"`
	TableNumber     string                   `json:"tableNumber"`
	CustomerName    string                   `json:"customerName"`
	CustomerPhone   string                   `json:"customerPhone"`
	CustomerAddress string                   `json:"customerAddress"`
	Notes           string                   `json:"notes"`
	Items           []createOrderItemRequest `json:"items"`
}

type createOrderItemRequest struct {
	MenuItemID string              `json:"menuItemId"`
	Quantity   int32               `json:"quantity"`
	Notes      string              `json:"notes"`
	Extras     map[string][]string `json:"extras"`
}

type addItemsRequest struct {
	Items []createOrderItemRequest `json:"items"`
}

type addCustomItemRequest struct {
	Name     string `json:"name"`
	NameAr   string `json:"nameAr"`
	Price    string `json:"price"`
	Quantity int32  `json:"quantity"`
	Notes    string `json:"notes"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// --- Handlers ---

// Create handles POST /api/order/create.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	restaurantID, err := uuid.Parse(req.RestaurantID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid restaurant id")
		return
	}

	result, err := h.svc.Create(r.Context(), service.CreateOrderRequest{
		RestaurantID:    restaurantID,
		OrderType:       req.OrderType,
		TableNumber:     req.TableNumber,
		Origin:          service.OriginCustomer,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		Notes:           req.Notes,
		Items:           toServiceItems(req.Items),
	})
	if err != nil {
		if status, ok := orderErrorStatus(err); ok {
			writeError(w, status, err.Error())
			return
		}
		log.Printf("ERROR: create order: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeSuccess(w, http.StatusCreated, "order created", realtime.OrderFromDB(result.Order, result.Items))
}

// Track handles GET /api/order/track/{orderId}. Public: the order id is the
// customer's capability.
func (h *OrderHandler) Track(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := h.store.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		log.Printf("ERROR: track order: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	items, err := h.store.ListOrderItemsByOrder(r.Context(), orderID)
	if err != nil {
		log.Printf("ERROR: list order items: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeSuccess(w, http.StatusOK, "", realtime.OrderFromDB(order, items))
}

// AddItems handles PUT /api/order/{id}/add-items.
func (h *OrderHandler) AddItems(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req addItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.AppendItems(r.Context(), service.AppendItemsRequest{
		OrderID: orderID,
		Origin:  service.OriginCustomer,
		Items:   toServiceItems(req.Items),
	})
	if err != nil {
		if status, ok := orderErrorStatus(err); ok {
			writeError(w, status, err.Error())
			return
		}
		log.Printf("ERROR: add order items: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeSuccess(w, http.StatusOK, "items added", realtime.OrderFromDB(result.Order, result.Items))
}

// AddCustomItem handles POST /api/order/{id}/add-item.
func (h *OrderHandler) AddCustomItem(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req addCustomItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.AddCustomItem(r.Context(), service.AddCustomItemRequest{
		OrderID:      orderID,
		RestaurantID: claims.RestaurantID,
		CashierID:    claims.UserID,
		Name:         req.Name,
		NameAr:       req.NameAr,
		Price:        req.Price,
		Quantity:     req.Quantity,
		Notes:        req.Notes,
	})
	if err != nil {
		if status, ok := orderErrorStatus(err); ok {
			writeError(w, status, err.Error())
			return
		}
		log.Printf("ERROR: add custom item: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeSuccess(w, http.StatusOK, "item added", realtime.OrderFromDB(result.Order, result.Items))
}

// UpdateStatus handles PUT /api/order/{id}/status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status == "" {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	result, err := h.svc.UpdateStatus(r.Context(), service.UpdateStatusRequest{
		OrderID:      orderID,
		RestaurantID: claims.RestaurantID,
		CashierID:    claims.UserID,
		Status:       req.Status,
	})
	if err != nil {
		if status, ok := orderErrorStatus(err); ok {
			writeError(w, status, err.Error())
			return
		}
		log.Printf("ERROR: update order status: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeSuccess(w, http.StatusOK, "status updated", realtime.OrderFromDB(result.Order, result.Items))
}

// List handles GET /api/order.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > 100 {
		limit = 100
	}

	offset := 0
	if s := r.URL.Query().Get("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			offset = v
		}
	}

	params := database.ListOrdersParams{
		RestaurantID: claims.RestaurantID,
		Limit:        int32(limit),
		Offset:       int32(offset),
	}
	if s := r.URL.Query().Get("status"); s != "" {
		params.Status = pgtype.Text{String: s, Valid: true}
	}

	orders, err := h.store.ListOrders(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: list orders: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]realtime.Order, len(orders))
	for i, o := range orders {
		resp[i] = realtime.OrderFromDB(o, nil)
	}

	writeSuccess(w, http.StatusOK, "", resp)
}

// --- Helpers ---

func toServiceItems(items []createOrderItemRequest) []service.CreateOrderItemRequest {
	out := make([]service.CreateOrderItemRequest, len(items))
	for i, item := range items {
		out[i] = service.CreateOrderItemRequest{
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
			Notes:      item.Notes,
			Extras:     item.Extras,
		}
	}
	return out
}

// orderErrorStatus maps known service errors to HTTP status codes.
func orderErrorStatus(err error) (int, bool) {
	switch {
	case errors.Is(err, service.ErrEmptyItems),
		errors.Is(err, service.ErrInvalidOrderType),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidMenuItemID),
		errors.Is(err, service.ErrTableRequired),
		errors.Is(err, service.ErrCustomerRequired),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrCustomNameRequired):
		return http.StatusBadRequest, true
	case errors.Is(err, service.ErrRestaurantInactive),
		errors.Is(err, service.ErrSubscriptionInactive),
		errors.Is(err, service.ErrTableNotOccupied):
		return http.StatusForbidden, true
	case errors.Is(err, service.ErrRestaurantNotFound),
		errors.Is(err, service.ErrTableNotFound),
		errors.Is(err, service.ErrMenuItemNotFound),
		errors.Is(err, service.ErrOrderNotFound):
		return http.StatusNotFound, true
	}
	return 0, false
}
