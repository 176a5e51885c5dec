package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const menuItemColumns = `id, restaurant_id, category_id, kitchen_section_id, name, name_ar,
	description, price, discount, extras, is_available, created_at, updated_at`

func scanMenuItem(row interface{ Scan(...any) error }) (MenuItem, error) {
	var m MenuItem
	err := row.Scan(
		&m.ID, &m.RestaurantID, &m.CategoryID, &m.KitchenSectionID, &m.Name,
		&m.NameAr, &m.Description, &m.Price, &m.Discount, &m.Extras,
		&m.IsAvailable, &m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

type GetMenuItemForOrderParams struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
}

// GetMenuItemForOrder resolves a cart line against the live menu: the item
// must belong to the restaurant, be available, and not sit in a soft-deleted
// category. Uncategorized items stay orderable.
const getMenuItemForOrder = `
SELECT mi.id, mi.restaurant_id, mi.category_id, mi.kitchen_section_id, mi.name, mi.name_ar,
	mi.description, mi.price, mi.discount, mi.extras, mi.is_available, mi.created_at, mi.updated_at
FROM menu_items mi
LEFT JOIN categories c ON c.id = mi.category_id
WHERE mi.id = $1 AND mi.restaurant_id = $2 AND mi.is_available = true
	AND (mi.category_id IS NULL OR c.is_active = true)`

func (q *Queries) GetMenuItemForOrder(ctx context.Context, arg GetMenuItemForOrderParams) (MenuItem, error) {
	return scanMenuItem(q.db.QueryRow(ctx, getMenuItemForOrder, arg.ID, arg.RestaurantID))
}

const listMenuItemsByRestaurant = `
SELECT ` + menuItemColumns + `
FROM menu_items
WHERE restaurant_id = $1
ORDER BY name`

func (q *Queries) ListMenuItemsByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]MenuItem, error) {
	rows, err := q.db.Query(ctx, listMenuItemsByRestaurant, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []MenuItem
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

type CreateMenuItemParams struct {
	RestaurantID     uuid.UUID
	CategoryID       pgtype.UUID
	KitchenSectionID pgtype.UUID
	Name             string
	NameAr           pgtype.Text
	Description      pgtype.Text
	Price            pgtype.Numeric
	Discount         pgtype.Numeric
	Extras           []byte
}

const createMenuItem = `
INSERT INTO menu_items (restaurant_id, category_id, kitchen_section_id, name,
	name_ar, description, price, discount, extras)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + menuItemColumns

func (q *Queries) CreateMenuItem(ctx context.Context, arg CreateMenuItemParams) (MenuItem, error) {
	row := q.db.QueryRow(ctx, createMenuItem,
		arg.RestaurantID, arg.CategoryID, arg.KitchenSectionID, arg.Name,
		arg.NameAr, arg.Description, arg.Price, arg.Discount, arg.Extras,
	)
	return scanMenuItem(row)
}

type UpdateMenuItemParams struct {
	ID               uuid.UUID
	RestaurantID     uuid.UUID
	CategoryID       pgtype.UUID
	KitchenSectionID pgtype.UUID
	Name             string
	NameAr           pgtype.Text
	Description      pgtype.Text
	Price            pgtype.Numeric
	Discount         pgtype.Numeric
	Extras           []byte
	IsAvailable      bool
}

const updateMenuItem = `
UPDATE menu_items
SET category_id = $3, kitchen_section_id = $4, name = $5, name_ar = $6,
	description = $7, price = $8, discount = $9, extras = $10,
	is_available = $11, updated_at = now()
WHERE id = $1 AND restaurant_id = $2
RETURNING ` + menuItemColumns

func (q *Queries) UpdateMenuItem(ctx context.Context, arg UpdateMenuItemParams) (MenuItem, error) {
	row := q.db.QueryRow(ctx, updateMenuItem,
		arg.ID, arg.RestaurantID, arg.CategoryID, arg.KitchenSectionID,
		arg.Name, arg.NameAr, arg.Description, arg.Price, arg.Discount,
		arg.Extras, arg.IsAvailable,
	)
	return scanMenuItem(row)
}

const categoryColumns = `id, restaurant_id, name, name_ar, sort_order, is_active, created_at`

func scanCategory(row interface{ Scan(...any) error }) (Category, error) {
	var c Category
	err := row.Scan(&c.ID, &c.RestaurantID, &c.Name, &c.NameAr, &c.SortOrder, &c.IsActive, &c.CreatedAt)
	return c, err
}

const listCategoriesByRestaurant = `
SELECT ` + categoryColumns + `
FROM categories
WHERE restaurant_id = $1 AND is_active = true
ORDER BY sort_order`

func (q *Queries) ListCategoriesByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]Category, error) {
	rows, err := q.db.Query(ctx, listCategoriesByRestaurant, restaurantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

type CreateCategoryParams struct {
	RestaurantID uuid.UUID
	Name         string
	NameAr       pgtype.Text
	SortOrder    int32
}

const createCategory = `
INSERT INTO categories (restaurant_id, name, name_ar, sort_order)
VALUES ($1, $2, $3, $4)
RETURNING ` + categoryColumns

func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (Category, error) {
	return scanCategory(q.db.QueryRow(ctx, createCategory,
		arg.RestaurantID, arg.Name, arg.NameAr, arg.SortOrder))
}

type UpdateCategoryParams struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	Name         string
	NameAr       pgtype.Text
	SortOrder    int32
}

const updateCategory = `
UPDATE categories SET name = $3, name_ar = $4, sort_order = $5
WHERE id = $1 AND restaurant_id = $2
RETURNING ` + categoryColumns

func (q *Queries) UpdateCategory(ctx context.Context, arg UpdateCategoryParams) (Category, error) {
	return scanCategory(q.db.QueryRow(ctx, updateCategory,
		arg.ID, arg.RestaurantID, arg.Name, arg.NameAr, arg.SortOrder))
}

type SoftDeleteCategoryParams struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
}

const softDeleteCategory = `
UPDATE categories SET is_active = false
WHERE id = $1 AND restaurant_id = $2
RETURNING id`

func (q *Queries) SoftDeleteCategory(ctx context.Context, arg SoftDeleteCategoryParams) (uuid.UUID, error) {
	var id uuid.UUID
	err := q.db.QueryRow(ctx, softDeleteCategory, arg.ID, arg.RestaurantID).Scan(&id)
	return id, err
}
