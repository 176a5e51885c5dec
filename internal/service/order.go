package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/qmenus/api/internal/database"
	"github.com/qmenus/api/internal/enum"
	"github.com/qmenus/api/internal/realtime"
	"github.com/shopspring/decimal"
)

// Errors returned by the order service.
var (
	ErrEmptyItems           = errors.New("items are required")
	ErrInvalidOrderType     = errors.New("invalid order_type")
	ErrInvalidQuantity      = errors.New("quantity must be > 0")
	ErrInvalidMenuItemID    = errors.New("invalid menu_item_id")
	ErrRestaurantNotFound   = errors.New("restaurant not found")
	ErrRestaurantInactive   = errors.New("restaurant is not active")
	ErrSubscriptionInactive = errors.New("restaurant has no active subscription")
	ErrTableRequired        = errors.New("table_number is required for DINE_IN orders")
	ErrTableNotFound        = errors.New("table not found or inactive")
	ErrTableNotOccupied     = errors.New("table is not occupied")
	ErrCustomerRequired     = errors.New("customer name, phone and address are required for DELIVERY orders")
	ErrMenuItemNotFound     = errors.New("menu item not found or unavailable")
	ErrOrderNotFound        = errors.New("order not found")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrInvalidPrice         = errors.New("invalid price")
	ErrCustomNameRequired   = errors.New("custom item name is required")
)

// Origin identifies the transport an ingestion request arrived on. The HTTP
// endpoint and the relay's create_order socket event share one ingestion
// routine; only the occupancy precondition differs.
type Origin string

const (
	OriginCustomer Origin = "customer"
	OriginSocket   Origin = "socket"
	OriginCashier  Origin = "cashier"
)

// UpdatedBy is the label carried on relay emits for this origin.
func (o Origin) UpdatedBy() string {
	if o == OriginCashier {
		return "cashier"
	}
	return "customer"
}

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderStore defines the DB methods needed by the order service.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	GetRestaurant(ctx context.Context, id uuid.UUID) (database.Restaurant, error)
	CountActiveSubscriptions(ctx context.Context, restaurantID uuid.UUID) (int64, error)
	GetActiveQRCodeByTable(ctx context.Context, arg database.GetActiveQRCodeByTableParams) (database.QRCode, error)
	GetMenuItemForOrder(ctx context.Context, arg database.GetMenuItemForOrderParams) (database.MenuItem, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error)
	SumOrderItems(ctx context.Context, orderID uuid.UUID) (pgtype.Numeric, error)
	SetOrderTotal(ctx context.Context, arg database.SetOrderTotalParams) (database.Order, error)
	CreateNotification(ctx context.Context, arg database.CreateNotificationParams) (database.Notification, error)
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	GetOrderForRestaurant(ctx context.Context, arg database.GetOrderForRestaurantParams) (database.Order, error)
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error)
	UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
type NewOrderStore func(db database.DBTX) OrderStore

// Emitter pushes realtime events to the relay. Satisfied by
// *realtime.Client; calls are fire-and-forget.
type Emitter interface {
	EmitOrderUpdate(ctx context.Context, upd realtime.OrderUpdate)
	EmitKDSUpdate(ctx context.Context, upd realtime.KDSUpdate)
	EmitNotification(ctx context.Context, n realtime.Notification)
}

// ExtrasGroup is one option group in a menu item's extras schema (JSONB).
type ExtrasGroup struct {
	ID      string         `json:"id"`
	Name    string         `json:"name"`
	Options []ExtrasOption `json:"options"`
}

// ExtrasOption is a single paid add-on with a fixed price.
type ExtrasOption struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// CreateOrderRequest is the validated input for creating an order.
type CreateOrderRequest struct {
	RestaurantID    uuid.UUID
	OrderType       string
	TableNumber     string
	Origin          Origin
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	Notes           string
	Items           []CreateOrderItemRequest
}

// CreateOrderItemRequest is a single cart line. Extras maps an option group
// id to the selected option ids within that group.
type CreateOrderItemRequest struct {
	MenuItemID string
	Quantity   int32
	Notes      string
	Extras     map[string][]string
}

// AppendItemsRequest adds lines to an existing order (public add-items).
type AppendItemsRequest struct {
	OrderID uuid.UUID
	Origin  Origin
	Items   []CreateOrderItemRequest
}

// AddCustomItemRequest adds an ad-hoc cashier line with a free-form price.
type AddCustomItemRequest struct {
	OrderID      uuid.UUID
	RestaurantID uuid.UUID
	CashierID    uuid.UUID
	Name         string
	NameAr       string
	Price        string
	Quantity     int32
	Notes        string
}

// UpdateStatusRequest is a manual cashier status change.
type UpdateStatusRequest struct {
	OrderID      uuid.UUID
	RestaurantID uuid.UUID
	CashierID    uuid.UUID
	Status       string
}

// OrderResult is a created or mutated order with its current items.
type OrderResult struct {
	Order database.Order
	Items []database.OrderItem
}

// OrderService owns the order lifecycle: ingestion with pricing, item
// appends with in-transaction total recompute, and manual status changes.
type OrderService struct {
	pool     TxBeginner
	newStore NewOrderStore
	emitter  Emitter
}

// NewOrderService creates a new OrderService.
func NewOrderService(pool TxBeginner, newStore NewOrderStore, emitter Emitter) *OrderService {
	return &OrderService{pool: pool, newStore: newStore, emitter: emitter}
}

// Create validates and prices a cart against the live menu, persists the
// order atomically, records a NEW_ORDER notification, and pushes a
// best-effort realtime update. Both the public HTTP endpoint and the relay's
// create_order socket event land here; a socket-origin DINE_IN order
// additionally requires the table's QR session to be occupied.
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResult, error) {
	if req.OrderType != enum.OrderTypeDineIn && req.OrderType != enum.OrderTypeDelivery {
		return nil, ErrInvalidOrderType
	}
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("items[%d]: %w", i, ErrInvalidQuantity)
		}
	}
	if req.OrderType == enum.OrderTypeDineIn && req.TableNumber == "" {
		return nil, ErrTableRequired
	}
	if req.OrderType == enum.OrderTypeDelivery {
		if req.CustomerName == "" || req.CustomerPhone == "" || req.CustomerAddress == "" {
			return nil, ErrCustomerRequired
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	restaurant, err := store.GetRestaurant(ctx, req.RestaurantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("get restaurant: %w", err)
	}
	if !restaurant.IsActive {
		return nil, ErrRestaurantInactive
	}

	// Any active subscription row suffices; no feature inspection here.
	active, err := store.CountActiveSubscriptions(ctx, req.RestaurantID)
	if err != nil {
		return nil, fmt.Errorf("count subscriptions: %w", err)
	}
	if active == 0 {
		return nil, ErrSubscriptionInactive
	}

	tableNumber := pgtype.Text{}
	qrCodeID := pgtype.UUID{}
	switch req.OrderType {
	case enum.OrderTypeDineIn:
		qr, err := store.GetActiveQRCodeByTable(ctx, database.GetActiveQRCodeByTableParams{
			RestaurantID: req.RestaurantID,
			TableNumber:  req.TableNumber,
		})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrTableNotFound
			}
			return nil, fmt.Errorf("get qr code: %w", err)
		}
		if req.Origin == OriginSocket && !qr.IsOccupied {
			return nil, ErrTableNotOccupied
		}
		tableNumber = pgtype.Text{String: req.TableNumber, Valid: true}
		qrCodeID = pgtype.UUID{Bytes: qr.ID, Valid: true}
	case enum.OrderTypeDelivery:
		// Delivery orders bind to the restaurant-level ROOT QR when one
		// exists so the customer session can receive realtime updates.
		qr, err := store.GetActiveQRCodeByTable(ctx, database.GetActiveQRCodeByTableParams{
			RestaurantID: req.RestaurantID,
			TableNumber:  enum.QRTableRoot,
		})
		if err == nil {
			qrCodeID = pgtype.UUID{Bytes: qr.ID, Valid: true}
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get root qr code: %w", err)
		}
	}

	// Price every line before any insert so an unresolvable item aborts the
	// whole order.
	total := decimal.Zero
	type pricedItem struct {
		menuItemID uuid.UUID
		unitPrice  decimal.Decimal
		notes      string
		extras     []byte
		quantity   int32
	}
	var priced []pricedItem

	for i, item := range req.Items {
		menuItemID, err := uuid.Parse(item.MenuItemID)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, ErrInvalidMenuItemID)
		}
		menuItem, err := store.GetMenuItemForOrder(ctx, database.GetMenuItemForOrderParams{
			ID:           menuItemID,
			RestaurantID: req.RestaurantID,
		})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("items[%d]: %w", i, ErrMenuItemNotFound)
			}
			return nil, fmt.Errorf("items[%d]: get menu item: %w", i, err)
		}

		unitPrice, notes := priceMenuItem(menuItem, item.Extras, item.Notes)
		total = total.Add(unitPrice.Mul(decimal.NewFromInt32(item.Quantity)))

		var extrasJSON []byte
		if len(item.Extras) > 0 {
			extrasJSON, err = json.Marshal(item.Extras)
			if err != nil {
				return nil, fmt.Errorf("items[%d]: marshal extras: %w", i, err)
			}
		}
		priced = append(priced, pricedItem{
			menuItemID: menuItemID,
			unitPrice:  unitPrice,
			notes:      notes,
			extras:     extrasJSON,
			quantity:   item.Quantity,
		})
	}

	order, err := store.CreateOrder(ctx, database.CreateOrderParams{
		RestaurantID:    req.RestaurantID,
		OrderType:       req.OrderType,
		Status:          enum.OrderStatusPending,
		TableNumber:     tableNumber,
		QrCodeID:        qrCodeID,
		TotalPrice:      decimalToNumeric(total),
		Currency:        restaurant.Currency,
		CustomerName:    textOrNull(req.CustomerName),
		CustomerPhone:   textOrNull(req.CustomerPhone),
		CustomerAddress: textOrNull(req.CustomerAddress),
		Notes:           textOrNull(req.Notes),
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	items := make([]database.OrderItem, 0, len(priced))
	for _, p := range priced {
		item, err := store.CreateOrderItem(ctx, database.CreateOrderItemParams{
			OrderID:           order.ID,
			MenuItemID:        pgtype.UUID{Bytes: p.menuItemID, Valid: true},
			Quantity:          p.quantity,
			Price:             decimalToNumeric(p.unitPrice),
			Notes:             textOrNull(p.notes),
			Extras:            p.extras,
			KitchenItemStatus: enum.KitchenItemStatusPending,
		})
		if err != nil {
			return nil, fmt.Errorf("create order item: %w", err)
		}
		items = append(items, item)
	}

	notification, err := store.CreateNotification(ctx, database.CreateNotificationParams{
		RestaurantID: req.RestaurantID,
		Type:         enum.NotificationNewOrder,
		Title:        "New order",
		Message:      textOrNull(newOrderMessage(order)),
	})
	if err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	s.emitOrder(ctx, order, items, req.Origin.UpdatedBy(), false)
	s.emitter.EmitNotification(ctx, realtime.Notification{
		Notification:  realtime.NotificationFromDB(notification),
		RestaurantIDs: []uuid.UUID{req.RestaurantID},
	})

	return &OrderResult{Order: order, Items: items}, nil
}

// AppendItems adds cart lines to an existing order. The stored total is
// recomputed from the items aggregate inside the same transaction as the
// inserts, so concurrent appends cannot lose each other's updates.
func (s *OrderService) AppendItems(ctx context.Context, req AppendItemsRequest) (*OrderResult, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("items[%d]: %w", i, ErrInvalidQuantity)
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.GetOrder(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	var added []database.OrderItem
	for i, item := range req.Items {
		menuItemID, err := uuid.Parse(item.MenuItemID)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, ErrInvalidMenuItemID)
		}
		menuItem, err := store.GetMenuItemForOrder(ctx, database.GetMenuItemForOrderParams{
			ID:           menuItemID,
			RestaurantID: order.RestaurantID,
		})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("items[%d]: %w", i, ErrMenuItemNotFound)
			}
			return nil, fmt.Errorf("items[%d]: get menu item: %w", i, err)
		}

		unitPrice, notes := priceMenuItem(menuItem, item.Extras, item.Notes)

		var extrasJSON []byte
		if len(item.Extras) > 0 {
			extrasJSON, err = json.Marshal(item.Extras)
			if err != nil {
				return nil, fmt.Errorf("items[%d]: marshal extras: %w", i, err)
			}
		}

		created, err := store.CreateOrderItem(ctx, database.CreateOrderItemParams{
			OrderID:           order.ID,
			MenuItemID:        pgtype.UUID{Bytes: menuItemID, Valid: true},
			Quantity:          item.Quantity,
			Price:             decimalToNumeric(unitPrice),
			Notes:             textOrNull(notes),
			Extras:            extrasJSON,
			KitchenItemStatus: enum.KitchenItemStatusPending,
		})
		if err != nil {
			return nil, fmt.Errorf("create order item: %w", err)
		}
		added = append(added, created)
	}

	order, err = s.recomputeTotal(ctx, store, order.ID)
	if err != nil {
		return nil, err
	}

	items, err := store.ListOrderItemsByOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	// New customer items must refresh the cashier's order view; the relay
	// re-emits order_update for customer-sourced KDS updates.
	for _, it := range added {
		s.emitter.EmitKDSUpdate(ctx, realtime.KDSUpdate{
			OrderItem:    realtime.OrderItemFromDB(it),
			RestaurantID: order.RestaurantID,
			Timestamp:    time.Now().UTC(),
			Source:       req.Origin.UpdatedBy(),
			OrderID:      order.ID,
		})
	}

	return &OrderResult{Order: order, Items: items}, nil
}

// AddCustomItem appends an ad-hoc line priced by the cashier. Custom items
// carry no menu item reference and never block the READY promotion.
func (s *OrderService) AddCustomItem(ctx context.Context, req AddCustomItemRequest) (*OrderResult, error) {
	if req.Name == "" {
		return nil, ErrCustomNameRequired
	}
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		return nil, ErrInvalidPrice
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.GetOrderForRestaurant(ctx, database.GetOrderForRestaurantParams{
		ID:           req.OrderID,
		RestaurantID: req.RestaurantID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	created, err := store.CreateOrderItem(ctx, database.CreateOrderItemParams{
		OrderID:           order.ID,
		Quantity:          req.Quantity,
		Price:             decimalToNumeric(price),
		Notes:             textOrNull(req.Notes),
		IsCustomItem:      true,
		CustomItemName:    textOrNull(req.Name),
		CustomItemNameAr:  textOrNull(req.NameAr),
		KitchenItemStatus: enum.KitchenItemStatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("create order item: %w", err)
	}

	order, err = s.recomputeTotal(ctx, store, order.ID)
	if err != nil {
		return nil, err
	}

	items, err := store.ListOrderItemsByOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	s.emitter.EmitKDSUpdate(ctx, realtime.KDSUpdate{
		OrderItem:    realtime.OrderItemFromDB(created),
		RestaurantID: order.RestaurantID,
		Timestamp:    time.Now().UTC(),
		Source:       OriginCashier.UpdatedBy(),
		OrderID:      order.ID,
	})

	return &OrderResult{Order: order, Items: items}, nil
}

// UpdateStatus applies a manual cashier status change. Any of the six
// statuses is accepted unconditionally; the cashier keeps manual override
// flexibility, so there is no transition table here. The only enforced
// transition is the kitchen-completion promotion in KitchenService.
func (s *OrderService) UpdateStatus(ctx context.Context, req UpdateStatusRequest) (*OrderResult, error) {
	if !isValidOrderStatus(req.Status) {
		return nil, ErrInvalidStatus
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.GetOrderForRestaurant(ctx, database.GetOrderForRestaurantParams{
		ID:           req.OrderID,
		RestaurantID: req.RestaurantID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	cashierID := pgtype.UUID{}
	if req.CashierID != uuid.Nil {
		cashierID = pgtype.UUID{Bytes: req.CashierID, Valid: true}
	}
	order, err = store.UpdateOrderStatus(ctx, database.UpdateOrderStatusParams{
		ID:        order.ID,
		Status:    req.Status,
		CashierID: cashierID,
	})
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	items, err := store.ListOrderItemsByOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	s.emitOrder(ctx, order, items, OriginCashier.UpdatedBy(), false)

	return &OrderResult{Order: order, Items: items}, nil
}

func (s *OrderService) recomputeTotal(ctx context.Context, store OrderStore, orderID uuid.UUID) (database.Order, error) {
	total, err := store.SumOrderItems(ctx, orderID)
	if err != nil {
		return database.Order{}, fmt.Errorf("sum order items: %w", err)
	}
	order, err := store.SetOrderTotal(ctx, database.SetOrderTotalParams{
		ID:         orderID,
		TotalPrice: total,
	})
	if err != nil {
		return database.Order{}, fmt.Errorf("set order total: %w", err)
	}
	return order, nil
}

func (s *OrderService) emitOrder(ctx context.Context, order database.Order, items []database.OrderItem, updatedBy string, skipRestaurantRoom bool) {
	upd := realtime.OrderUpdate{
		Order:              realtime.OrderFromDB(order, items),
		UpdatedBy:          updatedBy,
		Timestamp:          time.Now().UTC(),
		RestaurantID:       order.RestaurantID,
		SkipRestaurantRoom: skipRestaurantRoom,
	}
	if order.QrCodeID.Valid {
		id := uuid.UUID(order.QrCodeID.Bytes)
		upd.QrCodeID = &id
	}
	s.emitter.EmitOrderUpdate(ctx, upd)
}

// priceMenuItem computes the extras-inclusive unit price for a cart line and
// renders selected extras names into the stored notes.
//
// unit = price * (1 - discount/100) + sum of selected extras option prices.
// Selections that do not resolve against the menu item's own extras schema
// are silently ignored. Resolution walks the schema in its stored order, so
// the result does not depend on payload ordering.
func priceMenuItem(mi database.MenuItem, selections map[string][]string, notes string) (decimal.Decimal, string) {
	unit := numericToDecimal(mi.Price)

	discount := numericToDecimal(mi.Discount)
	if discount.IsPositive() {
		unit = unit.Mul(decimal.NewFromInt(100).Sub(discount)).Div(decimal.NewFromInt(100))
	}

	if len(selections) == 0 || len(mi.Extras) == 0 {
		return unit, notes
	}

	var schema []ExtrasGroup
	if err := json.Unmarshal(mi.Extras, &schema); err != nil {
		return unit, notes
	}

	var extrasNames []string
	for _, group := range schema {
		selected := selections[group.ID]
		if len(selected) == 0 {
			continue
		}
		chosen := make(map[string]bool, len(selected))
		for _, id := range selected {
			chosen[id] = true
		}
		for _, opt := range group.Options {
			if !chosen[opt.ID] {
				continue
			}
			unit = unit.Add(opt.Price)
			extrasNames = append(extrasNames, opt.Name)
		}
	}

	// Denormalized rendering for the kitchen display; never reparsed.
	if len(extrasNames) > 0 {
		rendered := "Extras: " + strings.Join(extrasNames, ", ")
		if notes != "" {
			notes = notes + " | " + rendered
		} else {
			notes = rendered
		}
	}

	return unit, notes
}

func newOrderMessage(o database.Order) string {
	if o.OrderType == enum.OrderTypeDineIn && o.TableNumber.Valid {
		return fmt.Sprintf("New dine-in order for table %s", o.TableNumber.String)
	}
	return "New delivery order"
}

// --- Helpers ---

func isValidOrderStatus(s string) bool {
	switch s {
	case enum.OrderStatusPending, enum.OrderStatusPreparing,
		enum.OrderStatusReady, enum.OrderStatusDelivered,
		enum.OrderStatusCompleted, enum.OrderStatusCancelled:
		return true
	}
	return false
}

func textOrNull(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}
