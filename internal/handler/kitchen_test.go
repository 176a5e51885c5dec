package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/qmenus/api/internal/database"
	"github.com/qmenus/api/internal/enum"
	"github.com/qmenus/api/internal/handler"
	"github.com/qmenus/api/internal/middleware"
	"github.com/qmenus/api/internal/service"
)

// --- Mock KitchenServicer ---

type mockKitchenService struct {
	checkAccessFn   func(ctx context.Context, store service.KitchenStore, restaurantID uuid.UUID) error
	setItemStatusFn func(ctx context.Context, req service.SetItemStatusRequest) (*service.SetItemStatusResult, error)
	boardFn         func(ctx context.Context, store service.KitchenStore, restaurantID uuid.UUID) ([]service.BoardSection, error)
}

func (m *mockKitchenService) CheckAccess(ctx context.Context, store service.KitchenStore, restaurantID uuid.UUID) error {
	if m.checkAccessFn != nil {
		return m.checkAccessFn(ctx, store, restaurantID)
	}
	return nil
}

func (m *mockKitchenService) SetItemStatus(ctx context.Context, req service.SetItemStatusRequest) (*service.SetItemStatusResult, error) {
	return m.setItemStatusFn(ctx, req)
}

func (m *mockKitchenService) Board(ctx context.Context, store service.KitchenStore, restaurantID uuid.UUID) ([]service.BoardSection, error) {
	return m.boardFn(ctx, store, restaurantID)
}

// --- Mock KitchenStore ---

// The handler only passes the store through to the service, so the methods
// never run in these tests.
type mockKitchenStore struct{}

func (m *mockKitchenStore) GetOrderItemForRestaurant(ctx context.Context, arg database.GetOrderItemForRestaurantParams) (database.GetOrderItemForRestaurantRow, error) {
	return database.GetOrderItemForRestaurantRow{}, pgx.ErrNoRows
}

func (m *mockKitchenStore) UpdateKitchenItemStatus(ctx context.Context, arg database.UpdateKitchenItemStatusParams) (database.OrderItem, error) {
	return database.OrderItem{}, pgx.ErrNoRows
}

func (m *mockKitchenStore) GetOrderKitchenProgress(ctx context.Context, orderID uuid.UUID) (database.GetOrderKitchenProgressRow, error) {
	return database.GetOrderKitchenProgressRow{}, nil
}

func (m *mockKitchenStore) UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error) {
	return database.Order{}, pgx.ErrNoRows
}

func (m *mockKitchenStore) ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error) {
	return nil, nil
}

func (m *mockKitchenStore) ListKDSItems(ctx context.Context, restaurantID uuid.UUID) ([]database.ListKDSItemsRow, error) {
	return nil, nil
}

func (m *mockKitchenStore) ListActiveKitchenSections(ctx context.Context, restaurantID uuid.UUID) ([]database.KitchenSection, error) {
	return nil, nil
}

func (m *mockKitchenStore) GetActivePlanFeatures(ctx context.Context, restaurantID uuid.UUID) ([]string, error) {
	return nil, pgx.ErrNoRows
}

// --- Test helpers ---

func setupKitchenRouter(svc *mockKitchenService) *chi.Mux {
	h := handler.NewKitchenHandler(svc, &mockKitchenStore{})
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Authenticate(testJWTSecret))
		r.Use(middleware.RequireRestaurant)
		h.RegisterRoutes(r)
	})
	return r
}

// --- Tests ---

func TestKDSBoardPlanGate(t *testing.T) {
	claims := testClaims(uuid.New())

	svc := &mockKitchenService{
		checkAccessFn: func(ctx context.Context, store service.KitchenStore, restaurantID uuid.UUID) error {
			return service.ErrFeatureNotAvailable
		},
	}
	router := setupKitchenRouter(svc)

	rr := doAuthRequest(t, router, http.MethodGet, "/api/kitchen/kds/items", nil, claims)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for plan without kitchen display, got %d", rr.Code)
	}
	resp := decodeResponse(t, rr)
	if resp["success"] != false {
		t.Errorf("expected error envelope, got %v", resp)
	}
}

func TestKDSBoard(t *testing.T) {
	restaurantID := uuid.New()
	claims := testClaims(restaurantID)

	svc := &mockKitchenService{
		boardFn: func(ctx context.Context, store service.KitchenStore, id uuid.UUID) ([]service.BoardSection, error) {
			if id != restaurantID {
				t.Errorf("restaurant id: got %v, want %v", id, restaurantID)
			}
			return []service.BoardSection{
				{ID: uuid.New().String(), Name: "Grill", SortOrder: 1, Items: []service.BoardItem{}},
				{ID: enum.GeneralSectionID, Name: "General", SortOrder: 9999, Items: []service.BoardItem{}},
			}, nil
		},
	}
	router := setupKitchenRouter(svc)

	rr := doAuthRequest(t, router, http.MethodGet, "/api/kitchen/kds/items", nil, claims)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestSetKitchenItemStatus(t *testing.T) {
	restaurantID := uuid.New()
	claims := testClaims(restaurantID)
	itemID := uuid.New()

	svc := &mockKitchenService{
		setItemStatusFn: func(ctx context.Context, req service.SetItemStatusRequest) (*service.SetItemStatusResult, error) {
			if req.RestaurantID != restaurantID {
				t.Errorf("restaurant id: got %v, want %v", req.RestaurantID, restaurantID)
			}
			if req.ItemID != itemID {
				t.Errorf("item id: got %v, want %v", req.ItemID, itemID)
			}
			if req.Status != enum.KitchenItemStatusCompleted {
				t.Errorf("status: got %v, want COMPLETED", req.Status)
			}
			return &service.SetItemStatusResult{
				Item:     database.OrderItem{ID: itemID, KitchenItemStatus: req.Status},
				Promoted: true,
				Order:    testOrder(restaurantID),
			}, nil
		},
	}
	router := setupKitchenRouter(svc)

	rr := doAuthRequest(t, router, http.MethodPut, "/api/kitchen/kds/items/"+itemID.String()+"/status",
		map[string]string{"status": "COMPLETED"}, claims)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestSetKitchenItemStatusNotFound(t *testing.T) {
	claims := testClaims(uuid.New())

	svc := &mockKitchenService{
		setItemStatusFn: func(ctx context.Context, req service.SetItemStatusRequest) (*service.SetItemStatusResult, error) {
			return nil, service.ErrItemNotFound
		},
	}
	router := setupKitchenRouter(svc)

	rr := doAuthRequest(t, router, http.MethodPut, "/api/kitchen/kds/items/"+uuid.New().String()+"/status",
		map[string]string{"status": "COMPLETED"}, claims)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}
