package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/qmenus/api/internal/database"
	"github.com/qmenus/api/internal/enum"
	"github.com/qmenus/api/internal/realtime"
)

// Errors returned by the kitchen service.
var (
	ErrItemNotFound        = errors.New("order item not found")
	ErrInvalidItemStatus   = errors.New("invalid kitchen item status")
	ErrFeatureNotAvailable = errors.New("kitchen display is not included in the restaurant's plan")
)

// generalSortOrder pins the synthetic General column after every real
// section.
const generalSortOrder = 9999

// KitchenStore defines the DB methods needed by the kitchen service.
// Satisfied by *database.Queries (and its WithTx variant).
type KitchenStore interface {
	GetOrderItemForRestaurant(ctx context.Context, arg database.GetOrderItemForRestaurantParams) (database.GetOrderItemForRestaurantRow, error)
	UpdateKitchenItemStatus(ctx context.Context, arg database.UpdateKitchenItemStatusParams) (database.OrderItem, error)
	GetOrderKitchenProgress(ctx context.Context, orderID uuid.UUID) (database.GetOrderKitchenProgressRow, error)
	UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error)
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error)
	ListKDSItems(ctx context.Context, restaurantID uuid.UUID) ([]database.ListKDSItemsRow, error)
	ListActiveKitchenSections(ctx context.Context, restaurantID uuid.UUID) ([]database.KitchenSection, error)
	GetActivePlanFeatures(ctx context.Context, restaurantID uuid.UUID) ([]string, error)
}

// NewKitchenStore creates a KitchenStore from a DBTX (pool or tx).
type NewKitchenStore func(db database.DBTX) KitchenStore

// SetItemStatusRequest updates one item's preparation status.
type SetItemStatusRequest struct {
	RestaurantID uuid.UUID
	ItemID       uuid.UUID
	Status       string
}

// SetItemStatusResult reports the updated item and whether the parent order
// was auto-promoted to READY.
type SetItemStatusResult struct {
	Item     database.OrderItem
	Promoted bool
	Order    database.Order // valid only when Promoted
}

// BoardSection is one kitchen display column. ID is either a kitchen
// section uuid or the literal "GENERAL" for the synthetic fallback bucket;
// the union is resolved at this layer, never persisted.
type BoardSection struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	NameAr    *string     `json:"nameAr,omitempty"`
	SortOrder int32       `json:"sortOrder"`
	Items     []BoardItem `json:"items"`
}

// BoardItem is one pending or preparing line on the board.
type BoardItem struct {
	ID                uuid.UUID `json:"id"`
	OrderID           uuid.UUID `json:"orderId"`
	Name              string    `json:"name"`
	Quantity          int32     `json:"quantity"`
	Notes             *string   `json:"notes,omitempty"`
	KitchenItemStatus string    `json:"kitchenItemStatus"`
	OrderStatus       string    `json:"orderStatus"`
	OrderType         string    `json:"orderType"`
	TableNumber       *string   `json:"tableNumber,omitempty"`
	OrderCreatedAt    time.Time `json:"orderCreatedAt"`
}

// KitchenService owns per-item kitchen status and the display board.
type KitchenService struct {
	pool     TxBeginner
	newStore NewKitchenStore
	emitter  Emitter
}

// NewKitchenService creates a new KitchenService.
func NewKitchenService(pool TxBeginner, newStore NewKitchenStore, emitter Emitter) *KitchenService {
	return &KitchenService{pool: pool, newStore: newStore, emitter: emitter}
}

// CheckAccess verifies the restaurant's active plan carries the kitchen
// display feature. Matching is case-insensitive against both stored
// spellings of the flag.
func (s *KitchenService) CheckAccess(ctx context.Context, store KitchenStore, restaurantID uuid.UUID) error {
	features, err := store.GetActivePlanFeatures(ctx, restaurantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrFeatureNotAvailable
		}
		return fmt.Errorf("get plan features: %w", err)
	}
	for _, f := range features {
		if strings.EqualFold(f, enum.FeatureKitchenDisplaySystem) || strings.EqualFold(f, enum.FeatureKitchenDisplay) {
			return nil
		}
	}
	return ErrFeatureNotAvailable
}

// SetItemStatus updates a single item's preparation status and runs the
// promotion rule: when every menu-item-backed line of the order is COMPLETED
// (custom items excluded) and at least one such line exists, the order is
// forced to READY.
//
// Two realtime signals follow: a KDS refresh with source "kitchen" (so
// dashboards suppress their new-order cue), and, on promotion, an order
// update delivered to the table room only — the restaurant room is skipped
// because the cashier's own display triggered the change.
func (s *KitchenService) SetItemStatus(ctx context.Context, req SetItemStatusRequest) (*SetItemStatusResult, error) {
	switch req.Status {
	case enum.KitchenItemStatusPending, enum.KitchenItemStatusPreparing, enum.KitchenItemStatusCompleted:
	default:
		return nil, ErrInvalidItemStatus
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	row, err := store.GetOrderItemForRestaurant(ctx, database.GetOrderItemForRestaurantParams{
		ID:           req.ItemID,
		RestaurantID: req.RestaurantID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("get order item: %w", err)
	}

	item, err := store.UpdateKitchenItemStatus(ctx, database.UpdateKitchenItemStatusParams{
		ID:                req.ItemID,
		KitchenItemStatus: req.Status,
	})
	if err != nil {
		return nil, fmt.Errorf("update kitchen item status: %w", err)
	}

	result := &SetItemStatusResult{Item: item}
	var promotedItems []database.OrderItem

	if req.Status == enum.KitchenItemStatusCompleted && row.OrderStatus != enum.OrderStatusReady {
		progress, err := store.GetOrderKitchenProgress(ctx, row.OrderID)
		if err != nil {
			return nil, fmt.Errorf("get kitchen progress: %w", err)
		}
		if progress.Total > 0 && progress.Unfinished == 0 {
			order, err := store.UpdateOrderStatus(ctx, database.UpdateOrderStatusParams{
				ID:     row.OrderID,
				Status: enum.OrderStatusReady,
			})
			if err != nil {
				return nil, fmt.Errorf("promote order: %w", err)
			}
			promotedItems, err = store.ListOrderItemsByOrder(ctx, row.OrderID)
			if err != nil {
				return nil, fmt.Errorf("list order items: %w", err)
			}
			result.Promoted = true
			result.Order = order
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	s.emitter.EmitKDSUpdate(ctx, realtime.KDSUpdate{
		OrderItem:    realtime.OrderItemFromDB(item),
		RestaurantID: req.RestaurantID,
		Timestamp:    time.Now().UTC(),
		Source:       "kitchen",
		OrderID:      row.OrderID,
	})

	if result.Promoted {
		upd := realtime.OrderUpdate{
			Order:              realtime.OrderFromDB(result.Order, promotedItems),
			UpdatedBy:          "kitchen",
			Timestamp:          time.Now().UTC(),
			RestaurantID:       req.RestaurantID,
			SkipRestaurantRoom: true,
		}
		if result.Order.QrCodeID.Valid {
			id := uuid.UUID(result.Order.QrCodeID.Bytes)
			upd.QrCodeID = &id
		}
		s.emitter.EmitOrderUpdate(ctx, upd)
	}

	return result, nil
}

// Board returns the kitchen display: every item of a PENDING or PREPARING
// order, grouped by kitchen section. All active sections appear even when
// empty so the display can render their columns; items without a section
// (custom items included) land in the synthetic General bucket, pinned last.
func (s *KitchenService) Board(ctx context.Context, store KitchenStore, restaurantID uuid.UUID) ([]BoardSection, error) {
	sections, err := store.ListActiveKitchenSections(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list kitchen sections: %w", err)
	}
	rows, err := store.ListKDSItems(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("list kds items: %w", err)
	}

	board := make([]BoardSection, 0, len(sections)+1)
	index := make(map[uuid.UUID]int, len(sections))
	for _, sec := range sections {
		col := BoardSection{
			ID:        sec.ID.String(),
			Name:      sec.Name,
			SortOrder: sec.SortOrder,
			Items:     []BoardItem{},
		}
		if sec.NameAr.Valid {
			col.NameAr = &sec.NameAr.String
		}
		index[sec.ID] = len(board)
		board = append(board, col)
	}

	general := BoardSection{
		ID:        enum.GeneralSectionID,
		Name:      "General",
		SortOrder: generalSortOrder,
		Items:     []BoardItem{},
	}

	for _, row := range rows {
		item := boardItemFromRow(row)
		if row.KitchenSectionID.Valid {
			if i, ok := index[uuid.UUID(row.KitchenSectionID.Bytes)]; ok {
				board[i].Items = append(board[i].Items, item)
				continue
			}
		}
		general.Items = append(general.Items, item)
	}

	return append(board, general), nil
}

func boardItemFromRow(row database.ListKDSItemsRow) BoardItem {
	item := BoardItem{
		ID:                row.ID,
		OrderID:           row.OrderID,
		Quantity:          row.Quantity,
		KitchenItemStatus: row.KitchenItemStatus,
		OrderStatus:       row.OrderStatus,
		OrderType:         row.OrderType,
	}
	switch {
	case row.IsCustomItem && row.CustomItemName.Valid:
		item.Name = row.CustomItemName.String
	case row.MenuItemName.Valid:
		item.Name = row.MenuItemName.String
	}
	if row.Notes.Valid {
		item.Notes = &row.Notes.String
	}
	if row.TableNumber.Valid {
		item.TableNumber = &row.TableNumber.String
	}
	if row.OrderCreatedAt.Valid {
		item.OrderCreatedAt = row.OrderCreatedAt.Time
	}
	return item
}
