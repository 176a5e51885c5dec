package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type Restaurant struct {
	ID        uuid.UUID
	Name      string
	NameAr    pgtype.Text
	Currency  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Plan struct {
	ID       uuid.UUID
	Name     string
	Price    pgtype.Numeric
	Features []string
}

type Subscription struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	PlanID       uuid.UUID
	Status       string
	StartDate    time.Time
	EndDate      time.Time
}

type User struct {
	ID           uuid.UUID
	RestaurantID pgtype.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

type Category struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	Name         string
	NameAr       pgtype.Text
	SortOrder    int32
	IsActive     bool
	CreatedAt    time.Time
}

// MenuItem carries the live price, discount percentage, and the extras
// schema (JSONB: option groups with per-option fixed prices). Order items
// snapshot the computed price at order time and never reference these
// fields again.
type MenuItem struct {
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
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type QRCode struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	TableNumber  string
	QrCode       string
	IsActive     bool
	IsOccupied   bool
	CreatedAt    time.Time
}

type KitchenSection struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	Name         string
	NameAr       pgtype.Text
	SortOrder    int32
	IsActive     bool
}

type Order struct {
	ID              uuid.UUID
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
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type OrderItem struct {
	ID                uuid.UUID
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
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type Notification struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
	Type         string
	Title        string
	Message      pgtype.Text
	IsRead       bool
	CreatedAt    time.Time
}
