package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const orderColumns = `id, restaurant_id, order_type, status, table_number, qr_code_id,
	total_price, currency, customer_name, customer_phone, customer_address,
	notes, cashier_id, created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.RestaurantID, &o.OrderType, &o.Status, &o.TableNumber,
		&o.QrCodeID, &o.TotalPrice, &o.Currency, &o.CustomerName,
		&o.CustomerPhone, &o.CustomerAddress, &o.Notes, &o.CashierID,
		&o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

type CreateOrderParams struct {
	RestaurantID    uuid.UUID
	OrderType       string
	Status          string
	TableNumber     pgtype.Text
	QrCodeID        pgtype.UUID
	TotalPrice      pgtype.Numeric
	Currency        string
	CustomerName    pgtype.Text
	CustomerPhone   pgtype.Text
	CustomerAddress pgtype.Text
	Notes           pgtype.Text
	CashierID       pgtype.UUID
}

const createOrder = `
INSERT INTO orders (restaurant_id, order_type, status, table_number, qr_code_id,
	total_price, currency, customer_name, customer_phone, customer_address,
	notes, cashier_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING ` + orderColumns

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, createOrder,
		arg.RestaurantID, arg.OrderType, arg.Status, arg.TableNumber,
		arg.QrCodeID, arg.TotalPrice, arg.Currency, arg.CustomerName,
		arg.CustomerPhone, arg.CustomerAddress, arg.Notes, arg.CashierID,
	)
	return scanOrder(row)
}

const getOrder = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

func (q *Queries) GetOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrder, id))
}

type GetOrderForRestaurantParams struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
}

const getOrderForRestaurant = `
SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND restaurant_id = $2`

func (q *Queries) GetOrderForRestaurant(ctx context.Context, arg GetOrderForRestaurantParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrderForRestaurant, arg.ID, arg.RestaurantID))
}

type ListOrdersParams struct {
	RestaurantID uuid.UUID
	Status       pgtype.Text
	Limit        int32
	Offset       int32
}

const listOrders = `
SELECT ` + orderColumns + `
FROM orders
WHERE restaurant_id = $1
  AND ($2::text IS NULL OR status = $2)
ORDER BY created_at DESC
LIMIT $3 OFFSET $4`

func (q *Queries) ListOrders(ctx context.Context, arg ListOrdersParams) ([]Order, error) {
	rows, err := q.db.Query(ctx, listOrders, arg.RestaurantID, arg.Status, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

type UpdateOrderStatusParams struct {
	ID        uuid.UUID
	Status    string
	CashierID pgtype.UUID
}

const updateOrderStatus = `
UPDATE orders
SET status = $2,
    cashier_id = COALESCE($3, cashier_id),
    updated_at = now()
WHERE id = $1
RETURNING ` + orderColumns

func (q *Queries) UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, updateOrderStatus, arg.ID, arg.Status, arg.CashierID))
}

type SetOrderTotalParams struct {
	ID         uuid.UUID
	TotalPrice pgtype.Numeric
}

const setOrderTotal = `
UPDATE orders SET total_price = $2, updated_at = now()
WHERE id = $1
RETURNING ` + orderColumns

func (q *Queries) SetOrderTotal(ctx context.Context, arg SetOrderTotalParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, setOrderTotal, arg.ID, arg.TotalPrice))
}

// SumOrderItems aggregates the stored per-line totals. Used inside the same
// transaction as item inserts, so the stored order total is never the
// result of a read-then-write increment across requests.
const sumOrderItems = `
SELECT COALESCE(SUM(price * quantity), 0)::numeric FROM order_items WHERE order_id = $1`

func (q *Queries) SumOrderItems(ctx context.Context, orderID uuid.UUID) (pgtype.Numeric, error) {
	var n pgtype.Numeric
	err := q.db.QueryRow(ctx, sumOrderItems, orderID).Scan(&n)
	return n, err
}

const orderItemColumns = `id, order_id, menu_item_id, quantity, price, notes, extras,
	is_custom_item, custom_item_name, custom_item_name_ar, kitchen_item_status,
	created_at, updated_at`

func scanOrderItem(row interface{ Scan(...any) error }) (OrderItem, error) {
	var it OrderItem
	err := row.Scan(
		&it.ID, &it.OrderID, &it.MenuItemID, &it.Quantity, &it.Price,
		&it.Notes, &it.Extras, &it.IsCustomItem, &it.CustomItemName,
		&it.CustomItemNameAr, &it.KitchenItemStatus, &it.CreatedAt, &it.UpdatedAt,
	)
	return it, err
}

type CreateOrderItemParams struct {
	OrderID           uuid.UUID
	MenuItemID        pgtype.UUID
	Quantity          int32
	Price             pgtype.Numeric
	Notes             pgtype.Text
	Extras            []byte
	IsCustomItem      bool
	CustomItemName    pgtype.Text
	CustomItemNameAr  pgtype.Text
	KitchenItemStatus string
}

const createOrderItem = `
INSERT INTO order_items (order_id, menu_item_id, quantity, price, notes, extras,
	is_custom_item, custom_item_name, custom_item_name_ar, kitchen_item_status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + orderItemColumns

func (q *Queries) CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (OrderItem, error) {
	row := q.db.QueryRow(ctx, createOrderItem,
		arg.OrderID, arg.MenuItemID, arg.Quantity, arg.Price, arg.Notes,
		arg.Extras, arg.IsCustomItem, arg.CustomItemName, arg.CustomItemNameAr,
		arg.KitchenItemStatus,
	)
	return scanOrderItem(row)
}

const listOrderItemsByOrder = `
SELECT ` + orderItemColumns + ` FROM order_items WHERE order_id = $1 ORDER BY created_at`

func (q *Queries) ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error) {
	rows, err := q.db.Query(ctx, listOrderItemsByOrder, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		it, err := scanOrderItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
