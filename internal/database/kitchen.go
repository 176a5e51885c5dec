package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type GetOrderItemForRestaurantParams struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
}

// GetOrderItemForRestaurantRow is an order item joined with enough of its
// order for the kitchen tracker to run the promotion check and route the
// realtime events.
type GetOrderItemForRestaurantRow struct {
	OrderItem
	RestaurantID uuid.UUID
	OrderStatus  string
	QrCodeID     pgtype.UUID
}

const getOrderItemForRestaurant = `
SELECT oi.id, oi.order_id, oi.menu_item_id, oi.quantity, oi.price, oi.notes,
	oi.extras, oi.is_custom_item, oi.custom_item_name, oi.custom_item_name_ar,
	oi.kitchen_item_status, oi.created_at, oi.updated_at,
	o.restaurant_id, o.status, o.qr_code_id
FROM order_items oi
JOIN orders o ON o.id = oi.order_id
WHERE oi.id = $1 AND o.restaurant_id = $2`

func (q *Queries) GetOrderItemForRestaurant(ctx context.Context, arg GetOrderItemForRestaurantParams) (GetOrderItemForRestaurantRow, error) {
	var r GetOrderItemForRestaurantRow
	err := q.db.QueryRow(ctx, getOrderItemForRestaurant, arg.ID, arg.RestaurantID).Scan(
		&r.ID, &r.OrderID, &r.MenuItemID, &r.Quantity, &r.Price, &r.Notes,
		&r.Extras, &r.IsCustomItem, &r.CustomItemName, &r.CustomItemNameAr,
		&r.KitchenItemStatus, &r.CreatedAt, &r.UpdatedAt,
		&r.RestaurantID, &r.OrderStatus, &r.QrCodeID,
	)
	return r, err
}

type UpdateKitchenItemStatusParams struct {
	ID                uuid.UUID
	KitchenItemStatus string
}

const updateKitchenItemStatus = `
UPDATE order_items SET kitchen_item_status = $2, updated_at = now()
WHERE id = $1
RETURNING ` + orderItemColumns

func (q *Queries) UpdateKitchenItemStatus(ctx context.Context, arg UpdateKitchenItemStatusParams) (OrderItem, error) {
	return scanOrderItem(q.db.QueryRow(ctx, updateKitchenItemStatus, arg.ID, arg.KitchenItemStatus))
}

// GetOrderKitchenProgressRow counts menu-item-backed items only; custom
// items never hold back the READY promotion.
type GetOrderKitchenProgressRow struct {
	Total      int64
	Unfinished int64
}

const getOrderKitchenProgress = `
SELECT COUNT(*) AS total,
	COUNT(*) FILTER (WHERE kitchen_item_status <> 'COMPLETED') AS unfinished
FROM order_items
WHERE order_id = $1 AND is_custom_item = false`

func (q *Queries) GetOrderKitchenProgress(ctx context.Context, orderID uuid.UUID) (GetOrderKitchenProgressRow, error) {
	var r GetOrderKitchenProgressRow
	err := q.db.QueryRow(ctx, getOrderKitchenProgress, orderID).Scan(&r.Total, &r.Unfinished)
	return r, err
}

// ListKDSItemsRow is one board entry: the order item plus display context
// from its order and menu item. KitchenSectionID is null for custom items
// and menu items without a section; the service buckets those under the
// synthetic General column.
type ListKDSItemsRow struct {
	OrderItem
	OrderStatus      string
	TableNumber      pgtype.Text
	OrderType        string
	OrderCreatedAt   pgtype.Timestamptz
	MenuItemName     pgtype.Text
	KitchenSectionID pgtype.UUID
}

const listKDSItems = `
SELECT oi.id, oi.order_id, oi.menu_item_id, oi.quantity, oi.price, oi.notes,
	oi.extras, oi.is_custom_item, oi.custom_item_name, oi.custom_item_name_ar,
	oi.kitchen_item_status, oi.created_at, oi.updated_at,
	o.status, o.table_number, o.order_type, o.created_at,
	mi.name, mi.kitchen_section_id
FROM order_items oi
JOIN orders o ON o.id = oi.order_id
LEFT JOIN menu_items mi ON mi.id = oi.menu_item_id
WHERE o.restaurant_id = $1 AND o.status IN ('PENDING', 'PREPARING')
ORDER BY o.created_at, oi.created_at`

func (q *Queries) ListKDSItems(ctx context.Context, restaurantID uuid.UUID) ([]ListKDSItemsRow, error) {
	rows, err := q.db.Query(ctx, listKDSItems, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ListKDSItemsRow
	for rows.Next() {
		var r ListKDSItemsRow
		if err := rows.Scan(
			&r.ID, &r.OrderID, &r.MenuItemID, &r.Quantity, &r.Price, &r.Notes,
			&r.Extras, &r.IsCustomItem, &r.CustomItemName, &r.CustomItemNameAr,
			&r.KitchenItemStatus, &r.CreatedAt, &r.UpdatedAt,
			&r.OrderStatus, &r.TableNumber, &r.OrderType, &r.OrderCreatedAt,
			&r.MenuItemName, &r.KitchenSectionID,
		); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

const kitchenSectionColumns = `id, restaurant_id, name, name_ar, sort_order, is_active`

func scanKitchenSection(row interface{ Scan(...any) error }) (KitchenSection, error) {
	var s KitchenSection
	err := row.Scan(&s.ID, &s.RestaurantID, &s.Name, &s.NameAr, &s.SortOrder, &s.IsActive)
	return s, err
}

const listActiveKitchenSections = `
SELECT ` + kitchenSectionColumns + `
FROM kitchen_sections
WHERE restaurant_id = $1 AND is_active = true
ORDER BY sort_order`

func (q *Queries) ListActiveKitchenSections(ctx context.Context, restaurantID uuid.UUID) ([]KitchenSection, error) {
	rows, err := q.db.Query(ctx, listActiveKitchenSections, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []KitchenSection
	for rows.Next() {
		s, err := scanKitchenSection(rows)
		if err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

type CreateKitchenSectionParams struct {
	RestaurantID uuid.UUID
	Name         string
	NameAr       pgtype.Text
	SortOrder    int32
}

const createKitchenSection = `
INSERT INTO kitchen_sections (restaurant_id, name, name_ar, sort_order)
VALUES ($1, $2, $3, $4)
RETURNING ` + kitchenSectionColumns

func (q *Queries) CreateKitchenSection(ctx context.Context, arg CreateKitchenSectionParams) (KitchenSection, error) {
	return scanKitchenSection(q.db.QueryRow(ctx, createKitchenSection,
		arg.RestaurantID, arg.Name, arg.NameAr, arg.SortOrder))
}

type UpdateKitchenSectionParams struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	Name         string
	NameAr       pgtype.Text
	SortOrder    int32
	IsActive     bool
}

const updateKitchenSection = `
UPDATE kitchen_sections
SET name = $3, name_ar = $4, sort_order = $5, is_active = $6
WHERE id = $1 AND restaurant_id = $2
RETURNING ` + kitchenSectionColumns

func (q *Queries) UpdateKitchenSection(ctx context.Context, arg UpdateKitchenSectionParams) (KitchenSection, error) {
	return scanKitchenSection(q.db.QueryRow(ctx, updateKitchenSection,
		arg.ID, arg.RestaurantID, arg.Name, arg.NameAr, arg.SortOrder, arg.IsActive))
}
