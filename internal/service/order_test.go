package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/qmenus/api/internal/database"
	"github.com/qmenus/api/internal/enum"
	"github.com/qmenus/api/internal/realtime"
	"github.com/shopspring/decimal"
)

// --- Mock pgx.Tx ---

type mockTx struct {
	commitErr   error
	rollbackErr error
}

func (m *mockTx) Begin(ctx context.Context) (pgx.Tx, error) { panic("not implemented") }
func (m *mockTx) Commit(ctx context.Context) error          { return m.commitErr }
func (m *mockTx) Rollback(ctx context.Context) error        { return m.rollbackErr }
func (m *mockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	panic("not implemented")
}
func (m *mockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	panic("not implemented")
}
func (m *mockTx) LargeObjects() pgx.LargeObjects { panic("not implemented") }
func (m *mockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	panic("not implemented")
}
func (m *mockTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	panic("not implemented")
}
func (m *mockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	panic("not implemented")
}
func (m *mockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("not implemented")
}
func (m *mockTx) Conn() *pgx.Conn { panic("not implemented") }

// mockTxBeginner implements TxBeginner.
type mockTxBeginner struct {
	tx  pgx.Tx
	err error
}

func (m *mockTxBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	return m.tx, m.err
}

// --- Mock Emitter ---

type mockEmitter struct {
	orderUpdates  []realtime.OrderUpdate
	kdsUpdates    []realtime.KDSUpdate
	notifications []realtime.Notification
}

func (m *mockEmitter) EmitOrderUpdate(_ context.Context, upd realtime.OrderUpdate) {
	m.orderUpdates = append(m.orderUpdates, upd)
}

func (m *mockEmitter) EmitKDSUpdate(_ context.Context, upd realtime.KDSUpdate) {
	m.kdsUpdates = append(m.kdsUpdates, upd)
}

func (m *mockEmitter) EmitNotification(_ context.Context, n realtime.Notification) {
	m.notifications = append(m.notifications, n)
}

// --- Mock OrderStore ---

type mockOrderStore struct {
	getRestaurantFn            func(ctx context.Context, id uuid.UUID) (database.Restaurant, error)
	countActiveSubscriptionsFn func(ctx context.Context, restaurantID uuid.UUID) (int64, error)
	getActiveQRCodeByTableFn   func(ctx context.Context, arg database.GetActiveQRCodeByTableParams) (database.QRCode, error)
	getMenuItemForOrderFn      func(ctx context.Context, arg database.GetMenuItemForOrderParams) (database.MenuItem, error)
	createOrderFn              func(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	createOrderItemFn          func(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error)
	sumOrderItemsFn            func(ctx context.Context, orderID uuid.UUID) (pgtype.Numeric, error)
	setOrderTotalFn            func(ctx context.Context, arg database.SetOrderTotalParams) (database.Order, error)
	createNotificationFn       func(ctx context.Context, arg database.CreateNotificationParams) (database.Notification, error)
	getOrderFn                 func(ctx context.Context, id uuid.UUID) (database.Order, error)
	getOrderForRestaurantFn    func(ctx context.Context, arg database.GetOrderForRestaurantParams) (database.Order, error)
	listOrderItemsByOrderFn    func(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error)
	updateOrderStatusFn        func(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error)
}

func (m *mockOrderStore) GetRestaurant(ctx context.Context, id uuid.UUID) (database.Restaurant, error) {
	return m.getRestaurantFn(ctx, id)
}
func (m *mockOrderStore) CountActiveSubscriptions(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	return m.countActiveSubscriptionsFn(ctx, restaurantID)
}
func (m *mockOrderStore) GetActiveQRCodeByTable(ctx context.Context, arg database.GetActiveQRCodeByTableParams) (database.QRCode, error) {
	return m.getActiveQRCodeByTableFn(ctx, arg)
}
func (m *mockOrderStore) GetMenuItemForOrder(ctx context.Context, arg database.GetMenuItemForOrderParams) (database.MenuItem, error) {
	return m.getMenuItemForOrderFn(ctx, arg)
}
func (m *mockOrderStore) CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error) {
	return m.createOrderFn(ctx, arg)
}
func (m *mockOrderStore) CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error) {
	return m.createOrderItemFn(ctx, arg)
}
func (m *mockOrderStore) SumOrderItems(ctx context.Context, orderID uuid.UUID) (pgtype.Numeric, error) {
	return m.sumOrderItemsFn(ctx, orderID)
}
func (m *mockOrderStore) SetOrderTotal(ctx context.Context, arg database.SetOrderTotalParams) (database.Order, error) {
	return m.setOrderTotalFn(ctx, arg)
}
func (m *mockOrderStore) CreateNotification(ctx context.Context, arg database.CreateNotificationParams) (database.Notification, error) {
	return m.createNotificationFn(ctx, arg)
}
func (m *mockOrderStore) GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error) {
	return m.getOrderFn(ctx, id)
}
func (m *mockOrderStore) GetOrderForRestaurant(ctx context.Context, arg database.GetOrderForRestaurantParams) (database.Order, error) {
	return m.getOrderForRestaurantFn(ctx, arg)
}
func (m *mockOrderStore) ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error) {
	return m.listOrderItemsByOrderFn(ctx, orderID)
}
func (m *mockOrderStore) UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error) {
	return m.updateOrderStatusFn(ctx, arg)
}

// --- Test helpers ---

func makeNumeric(val string) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(val)
	return n
}

func numericEquals(n pgtype.Numeric, expected string) bool {
	d := numericToDecimal(n)
	exp, _ := decimal.NewFromString(expected)
	return d.Equal(exp)
}

func newTestOrderService(store *mockOrderStore) (*OrderService, *mockEmitter) {
	pool := &mockTxBeginner{tx: &mockTx{}}
	newStore := func(db database.DBTX) OrderStore { return store }
	emitter := &mockEmitter{}
	return NewOrderService(pool, newStore, emitter), emitter
}

// defaultOrderStore covers a plain dine-in order against one menu item
// priced 50000.00. Individual tests override the functions they care about.
func defaultOrderStore(restaurantID, menuItemID uuid.UUID) *mockOrderStore {
	qrID := uuid.New()
	return &mockOrderStore{
		getRestaurantFn: func(ctx context.Context, id uuid.UUID) (database.Restaurant, error) {
			if id != restaurantID {
				return database.Restaurant{}, pgx.ErrNoRows
			}
			return database.Restaurant{ID: restaurantID, Name: "Test Kitchen", Currency: "SAR", IsActive: true}, nil
		},
		countActiveSubscriptionsFn: func(ctx context.Context, id uuid.UUID) (int64, error) {
			return 1, nil
		},
		getActiveQRCodeByTableFn: func(ctx context.Context, arg database.GetActiveQRCodeByTableParams) (database.QRCode, error) {
			if arg.TableNumber == "12" {
				return database.QRCode{ID: qrID, RestaurantID: restaurantID, TableNumber: "12", IsActive: true, IsOccupied: true}, nil
			}
			return database.QRCode{}, pgx.ErrNoRows
		},
		getMenuItemForOrderFn: func(ctx context.Context, arg database.GetMenuItemForOrderParams) (database.MenuItem, error) {
			if arg.ID == menuItemID && arg.RestaurantID == restaurantID {
				return database.MenuItem{
					ID:           menuItemID,
					RestaurantID: restaurantID,
					Name:         "Mixed Grill",
					Price:        makeNumeric("50000.00"),
					IsAvailable:  true,
				}, nil
			}
			return database.MenuItem{}, pgx.ErrNoRows
		},
		createOrderFn: func(ctx context.Context, arg database.CreateOrderParams) (database.Order, error) {
			return database.Order{
				ID:           uuid.New(),
				RestaurantID: arg.RestaurantID,
				OrderType:    arg.OrderType,
				Status:       arg.Status,
				TableNumber:  arg.TableNumber,
				QrCodeID:     arg.QrCodeID,
				TotalPrice:   arg.TotalPrice,
				Currency:     arg.Currency,
			}, nil
		},
		createOrderItemFn: func(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error) {
			return database.OrderItem{
				ID:                uuid.New(),
				OrderID:           arg.OrderID,
				MenuItemID:        arg.MenuItemID,
				Quantity:          arg.Quantity,
				Price:             arg.Price,
				Notes:             arg.Notes,
				Extras:            arg.Extras,
				IsCustomItem:      arg.IsCustomItem,
				CustomItemName:    arg.CustomItemName,
				KitchenItemStatus: arg.KitchenItemStatus,
			}, nil
		},
		sumOrderItemsFn: func(ctx context.Context, orderID uuid.UUID) (pgtype.Numeric, error) {
			return makeNumeric("0.00"), nil
		},
		setOrderTotalFn: func(ctx context.Context, arg database.SetOrderTotalParams) (database.Order, error) {
			return database.Order{ID: arg.ID, RestaurantID: restaurantID, TotalPrice: arg.TotalPrice}, nil
		},
		createNotificationFn: func(ctx context.Context, arg database.CreateNotificationParams) (database.Notification, error) {
			return database.Notification{ID: uuid.New(), RestaurantID: arg.RestaurantID, Type: arg.Type, Title: arg.Title, Message: arg.Message}, nil
		},
		getOrderFn: func(ctx context.Context, id uuid.UUID) (database.Order, error) {
			return database.Order{}, pgx.ErrNoRows
		},
		getOrderForRestaurantFn: func(ctx context.Context, arg database.GetOrderForRestaurantParams) (database.Order, error) {
			return database.Order{}, pgx.ErrNoRows
		},
		listOrderItemsByOrderFn: func(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error) {
			return []database.OrderItem{}, nil
		},
		updateOrderStatusFn: func(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error) {
			return database.Order{ID: arg.ID, RestaurantID: restaurantID, Status: arg.Status, CashierID: arg.CashierID}, nil
		},
	}
}

// --- Tests ---

func TestCreateOrderTotalIsSumOfLines(t *testing.T) {
	restaurantID := uuid.New()
	menuItemID := uuid.New()
	store := defaultOrderStore(restaurantID, menuItemID)

	var createdTotal pgtype.Numeric
	base := store.createOrderFn
	store.createOrderFn = func(ctx context.Context, arg database.CreateOrderParams) (database.Order, error) {
		createdTotal = arg.TotalPrice
		return base(ctx, arg)
	}

	svc, emitter := newTestOrderService(store)

	result, err := svc.Create(context.Background(), CreateOrderRequest{
		RestaurantID: restaurantID,
		OrderType:    enum.OrderTypeDineIn,
		TableNumber:  "12",
		Origin:       OriginCustomer,
		Items: []CreateOrderItemRequest{
			{MenuItemID: menuItemID.String(), Quantity: 2},
		},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	// 50000.00 * 2
	if !numericEquals(createdTotal, "100000.00") {
		t.Errorf("total: got %v, want 100000.00", numericToDecimal(createdTotal))
	}
	if result.Order.Status != enum.OrderStatusPending {
		t.Errorf("status: got %s, want PENDING", result.Order.Status)
	}
	if len(result.Items) != 1 || !numericEquals(result.Items[0].Price, "50000.00") {
		t.Errorf("item price snapshot wrong: %+v", result.Items)
	}

	if len(emitter.orderUpdates) != 1 {
		t.Fatalf("expected 1 order update emit, got %d", len(emitter.orderUpdates))
	}
	if emitter.orderUpdates[0].UpdatedBy != "customer" {
		t.Errorf("updatedBy: got %s, want customer", emitter.orderUpdates[0].UpdatedBy)
	}
	if len(emitter.notifications) != 1 {
		t.Fatalf("expected 1 notification emit, got %d", len(emitter.notifications))
	}
	if emitter.notifications[0].Notification.Type != enum.NotificationNewOrder {
		t.Errorf("notification type: got %s", emitter.notifications[0].Notification.Type)
	}
}

func TestCreateOrderAppliesDiscountPercentage(t *testing.T) {
	restaurantID := uuid.New()
	menuItemID := uuid.New()
	store := defaultOrderStore(restaurantID, menuItemID)
	store.getMenuItemForOrderFn = func(ctx context.Context, arg database.GetMenuItemForOrderParams) (database.MenuItem, error) {
		return database.MenuItem{
			ID:           menuItemID,
			RestaurantID: restaurantID,
			Name:         "Shawarma",
			Price:        makeNumeric("100.00"),
			Discount:     makeNumeric("20.00"),
			IsAvailable:  true,
		}, nil
	}

	var itemPrice pgtype.Numeric
	store.createOrderItemFn = func(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error) {
		itemPrice = arg.Price
		return database.OrderItem{ID: uuid.New(), OrderID: arg.OrderID, Price: arg.Price, Quantity: arg.Quantity}, nil
	}

	svc, _ := newTestOrderService(store)

	_, err := svc.Create(context.Background(), CreateOrderRequest{
		RestaurantID: restaurantID,
		OrderType:    enum.OrderTypeDineIn,
		TableNumber:  "12",
		Origin:       OriginCustomer,
		Items: []CreateOrderItemRequest{
			{MenuItemID: menuItemID.String(), Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	// 100 * (1 - 20/100) = 80
	if !numericEquals(itemPrice, "80.00") {
		t.Errorf("unit price: got %v, want 80.00", numericToDecimal(itemPrice))
	}
}

func TestCreateOrderUnknownTable(t *testing.T) {
	restaurantID := uuid.New()
	menuItemID := uuid.New()
	store := defaultOrderStore(restaurantID, menuItemID)
	svc, _ := newTestOrderService(store)

	_, err := svc.Create(context.Background(), CreateOrderRequest{
		RestaurantID: restaurantID,
		OrderType:    enum.OrderTypeDineIn,
		TableNumber:  "99",
		Origin:       OriginCustomer,
		Items:        []CreateOrderItemRequest{{MenuItemID: menuItemID.String(), Quantity: 1}},
	})
	if err != ErrTableNotFound {
		t.Fatalf("expected ErrTableNotFound, got %v", err)
	}
}

func TestCreateOrderSocketRequiresOccupiedTable(t *testing.T) {
	restaurantID := uuid.New()
	menuItemID := uuid.New()
	store := defaultOrderStore(restaurantID, menuItemID)
	store.getActiveQRCodeByTableFn = func(ctx context.Context, arg database.GetActiveQRCodeByTableParams) (database.QRCode, error) {
		return database.QRCode{ID: uuid.New(), RestaurantID: restaurantID, TableNumber: "12", IsActive: true, IsOccupied: false}, nil
	}
	svc, _ := newTestOrderService(store)

	req := CreateOrderRequest{
		RestaurantID: restaurantID,
		OrderType:    enum.OrderTypeDineIn,
		TableNumber:  "12",
		Origin:       OriginSocket,
		Items:        []CreateOrderItemRequest{{MenuItemID: menuItemID.String(), Quantity: 1}},
	}
	if _, err := svc.Create(context.Background(), req); err != ErrTableNotOccupied {
		t.Fatalf("expected ErrTableNotOccupied for socket origin, got %v", err)
	}

	// The HTTP origin skips the occupancy precondition.
	req.Origin = OriginCustomer
	if _, err := svc.Create(context.Background(), req); err != nil {
		t.Fatalf("customer origin should not require occupancy: %v", err)
	}
}

func TestCreateOrderInactiveSubscription(t *testing.T) {
	restaurantID := uuid.New()
	menuItemID := uuid.New()
	store := defaultOrderStore(restaurantID, menuItemID)
	store.countActiveSubscriptionsFn = func(ctx context.Context, id uuid.UUID) (int64, error) {
		return 0, nil
	}
	svc, _ := newTestOrderService(store)

	_, err := svc.Create(context.Background(), CreateOrderRequest{
		RestaurantID: restaurantID,
		OrderType:    enum.OrderTypeDineIn,
		TableNumber:  "12",
		Origin:       OriginCustomer,
		Items:        []CreateOrderItemRequest{{MenuItemID: menuItemID.String(), Quantity: 1}},
	})
	if err != ErrSubscriptionInactive {
		t.Fatalf("expected ErrSubscriptionInactive, got %v", err)
	}
}

func TestCreateOrderDeliveryRequiresCustomer(t *testing.T) {
	restaurantID := uuid.New()
	menuItemID := uuid.New()
	svc, _ := newTestOrderService(defaultOrderStore(restaurantID, menuItemID))

	_, err := svc.Create(context.Background(), CreateOrderRequest{
		RestaurantID: restaurantID,
		OrderType:    enum.OrderTypeDelivery,
		Origin:       OriginCustomer,
		CustomerName: "Sara",
		Items:        []CreateOrderItemRequest{{MenuItemID: menuItemID.String(), Quantity: 1}},
	})
	if err != ErrCustomerRequired {
		t.Fatalf("expected ErrCustomerRequired, got %v", err)
	}
}

func TestAppendItemsRecomputesTotalInTx(t *testing.T) {
	restaurantID := uuid.New()
	menuItemID := uuid.New()
	orderID := uuid.New()
	store := defaultOrderStore(restaurantID, menuItemID)

	store.getOrderFn = func(ctx context.Context, id uuid.UUID) (database.Order, error) {
		if id != orderID {
			return database.Order{}, pgx.ErrNoRows
		}
		return database.Order{ID: orderID, RestaurantID: restaurantID, Status: enum.OrderStatusPending, TotalPrice: makeNumeric("50000.00")}, nil
	}
	store.sumOrderItemsFn = func(ctx context.Context, id uuid.UUID) (pgtype.Numeric, error) {
		return makeNumeric("150000.00"), nil
	}

	var storedTotal pgtype.Numeric
	store.setOrderTotalFn = func(ctx context.Context, arg database.SetOrderTotalParams) (database.Order, error) {
		storedTotal = arg.TotalPrice
		return database.Order{ID: arg.ID, RestaurantID: restaurantID, TotalPrice: arg.TotalPrice}, nil
	}

	svc, emitter := newTestOrderService(store)

	result, err := svc.AppendItems(context.Background(), AppendItemsRequest{
		OrderID: orderID,
		Origin:  OriginCustomer,
		Items:   []CreateOrderItemRequest{{MenuItemID: menuItemID.String(), Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("append items: %v", err)
	}

	// Stored total comes from the items aggregate, not an in-memory add.
	if !numericEquals(storedTotal, "150000.00") {
		t.Errorf("stored total: got %v, want 150000.00", numericToDecimal(storedTotal))
	}
	if !numericEquals(result.Order.TotalPrice, "150000.00") {
		t.Errorf("returned total: got %v", numericToDecimal(result.Order.TotalPrice))
	}

	if len(emitter.kdsUpdates) != 1 {
		t.Fatalf("expected 1 kds emit, got %d", len(emitter.kdsUpdates))
	}
	if emitter.kdsUpdates[0].Source != "customer" {
		t.Errorf("kds source: got %s, want customer", emitter.kdsUpdates[0].Source)
	}
}

func TestAddCustomItem(t *testing.T) {
	restaurantID := uuid.New()
	orderID := uuid.New()
	store := defaultOrderStore(restaurantID, uuid.New())

	store.getOrderForRestaurantFn = func(ctx context.Context, arg database.GetOrderForRestaurantParams) (database.Order, error) {
		if arg.ID != orderID || arg.RestaurantID != restaurantID {
			return database.Order{}, pgx.ErrNoRows
		}
		return database.Order{ID: orderID, RestaurantID: restaurantID, Status: enum.OrderStatusPending}, nil
	}

	var created database.CreateOrderItemParams
	store.createOrderItemFn = func(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error) {
		created = arg
		return database.OrderItem{ID: uuid.New(), OrderID: arg.OrderID, IsCustomItem: arg.IsCustomItem, Price: arg.Price}, nil
	}

	svc, emitter := newTestOrderService(store)

	_, err := svc.AddCustomItem(context.Background(), AddCustomItemRequest{
		OrderID:      orderID,
		RestaurantID: restaurantID,
		CashierID:    uuid.New(),
		Name:         "Birthday cake",
		Price:        "75.50",
		Quantity:     1,
	})
	if err != nil {
		t.Fatalf("add custom item: %v", err)
	}

	if !created.IsCustomItem {
		t.Error("expected is_custom_item to be set")
	}
	if created.MenuItemID.Valid {
		t.Error("custom items must not reference a menu item")
	}
	if !numericEquals(created.Price, "75.50") {
		t.Errorf("price: got %v, want 75.50", numericToDecimal(created.Price))
	}

	if len(emitter.kdsUpdates) != 1 || emitter.kdsUpdates[0].Source != "cashier" {
		t.Errorf("expected one cashier-sourced kds emit, got %+v", emitter.kdsUpdates)
	}
}

func TestAddCustomItemRejectsBadPrice(t *testing.T) {
	svc, _ := newTestOrderService(defaultOrderStore(uuid.New(), uuid.New()))

	for _, price := range []string{"", "abc", "-5.00"} {
		_, err := svc.AddCustomItem(context.Background(), AddCustomItemRequest{
			OrderID:      uuid.New(),
			RestaurantID: uuid.New(),
			Name:         "Thing",
			Price:        price,
			Quantity:     1,
		})
		if err != ErrInvalidPrice {
			t.Errorf("price %q: expected ErrInvalidPrice, got %v", price, err)
		}
	}
}

func TestUpdateStatusPermissive(t *testing.T) {
	restaurantID := uuid.New()
	orderID := uuid.New()
	cashierID := uuid.New()
	store := defaultOrderStore(restaurantID, uuid.New())

	store.getOrderForRestaurantFn = func(ctx context.Context, arg database.GetOrderForRestaurantParams) (database.Order, error) {
		return database.Order{ID: orderID, RestaurantID: restaurantID, Status: enum.OrderStatusCompleted}, nil
	}

	var updated database.UpdateOrderStatusParams
	store.updateOrderStatusFn = func(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error) {
		updated = arg
		return database.Order{ID: arg.ID, RestaurantID: restaurantID, Status: arg.Status, CashierID: arg.CashierID}, nil
	}

	svc, emitter := newTestOrderService(store)

	// COMPLETED back to PENDING is allowed; the cashier keeps manual
	// override flexibility.
	_, err := svc.UpdateStatus(context.Background(), UpdateStatusRequest{
		OrderID:      orderID,
		RestaurantID: restaurantID,
		CashierID:    cashierID,
		Status:       enum.OrderStatusPending,
	})
	if err != nil {
		t.Fatalf("update status: %v", err)
	}

	if updated.Status != enum.OrderStatusPending {
		t.Errorf("status: got %s, want PENDING", updated.Status)
	}
	if !updated.CashierID.Valid || uuid.UUID(updated.CashierID.Bytes) != cashierID {
		t.Errorf("cashier id not recorded: %+v", updated.CashierID)
	}

	if len(emitter.orderUpdates) != 1 || emitter.orderUpdates[0].UpdatedBy != "cashier" {
		t.Errorf("expected one cashier order update emit, got %+v", emitter.orderUpdates)
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc, _ := newTestOrderService(defaultOrderStore(uuid.New(), uuid.New()))

	_, err := svc.UpdateStatus(context.Background(), UpdateStatusRequest{
		OrderID:      uuid.New(),
		RestaurantID: uuid.New(),
		Status:       "SHIPPED",
	})
	if err != ErrInvalidStatus {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

// --- priceMenuItem ---

func extrasMenuItem() database.MenuItem {
	return database.MenuItem{
		ID:          uuid.New(),
		Name:        "Burger",
		Price:       makeNumeric("10.00"),
		IsAvailable: true,
		Extras: []byte(`[
			{"id":"g1","name":"Cheese","options":[
				{"id":"o1","name":"Cheddar","price":"2.00"},
				{"id":"o2","name":"Halloumi","price":"3.00"}
			]},
			{"id":"g2","name":"Sides","options":[
				{"id":"o3","name":"Fries","price":"5.00"}
			]}
		]`),
	}
}

func TestPriceMenuItemExtras(t *testing.T) {
	mi := extrasMenuItem()

	unit, notes := priceMenuItem(mi, map[string][]string{
		"g1": {"o1", "o2"},
		"g2": {"o3"},
	}, "no onions")

	// 10 + 2 + 3 + 5
	if !unit.Equal(decimal.RequireFromString("20.00")) {
		t.Errorf("unit: got %v, want 20.00", unit)
	}
	if notes != "no onions | Extras: Cheddar, Halloumi, Fries" {
		t.Errorf("notes: got %q", notes)
	}
}

func TestPriceMenuItemExtrasOrderIndependent(t *testing.T) {
	mi := extrasMenuItem()

	// Same selections in the reverse payload order resolve identically:
	// resolution walks the stored schema, not the payload.
	first, firstNotes := priceMenuItem(mi, map[string][]string{"g1": {"o2", "o1"}}, "")
	second, secondNotes := priceMenuItem(mi, map[string][]string{"g1": {"o1", "o2"}}, "")

	if !first.Equal(second) {
		t.Errorf("price depends on payload order: %v vs %v", first, second)
	}
	if firstNotes != secondNotes {
		t.Errorf("notes depend on payload order: %q vs %q", firstNotes, secondNotes)
	}
}

func TestPriceMenuItemIgnoresUnknownExtras(t *testing.T) {
	mi := extrasMenuItem()

	unit, notes := priceMenuItem(mi, map[string][]string{
		"g1":      {"o1", "ghost"},
		"no-such": {"o3"},
	}, "")

	// Only the resolvable Cheddar counts.
	if !unit.Equal(decimal.RequireFromString("12.00")) {
		t.Errorf("unit: got %v, want 12.00", unit)
	}
	if notes != "Extras: Cheddar" {
		t.Errorf("notes: got %q", notes)
	}
}
