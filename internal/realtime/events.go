// Package realtime defines the wire contract between the API tier and the
// relay process, plus the fire-and-forget HTTP client the API tier uses to
// push events into it. Delivery is best-effort: HTTP reads stay the source
// of truth, sockets only accelerate them.
package realtime

import (
	"time"

	"github.com/google/uuid"
	"github.com/qmenus/api/internal/database"
)

// Socket event names emitted by the relay.
const (
	EventOrderUpdate       = "order_update"
	EventOrderStatusUpdate = "order_status_update"
	EventKDSUpdate         = "kds_update"
	EventNotification      = "notification"
	EventWaiterRequest     = "waiter_request"
)

// Order is the realtime projection of an order and its items.
type Order struct {
	ID           uuid.UUID   `json:"id"`
	RestaurantID uuid.UUID   `json:"restaurantId"`
	OrderType    string      `json:"orderType"`
	Status       string      `json:"status"`
	TableNumber  *string     `json:"tableNumber"`
	QrCodeID     *uuid.UUID  `json:"qrCodeId"`
	TotalPrice   string      `json:"totalPrice"`
	Currency     string      `json:"currency"`
	Notes        *string     `json:"notes"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
	Items        []OrderItem `json:"items,omitempty"`
}

// OrderItem is the realtime projection of an order line.
type OrderItem struct {
	ID                uuid.UUID  `json:"id"`
	OrderID           uuid.UUID  `json:"orderId"`
	MenuItemID        *uuid.UUID `json:"menuItemId"`
	Quantity          int32      `json:"quantity"`
	Price             string     `json:"price"`
	Notes             *string    `json:"notes"`
	IsCustomItem      bool       `json:"isCustomItem"`
	CustomItemName    *string    `json:"customItemName"`
	KitchenItemStatus string     `json:"kitchenItemStatus"`
}

// OrderUpdate is the body of POST /api/emit-order-update. The relay emits
// order_update and order_status_update to restaurant_{restaurantId} unless
// SkipRestaurantRoom is set; table_{qrCodeId} delivery is unconditional.
type OrderUpdate struct {
	Order              Order      `json:"order"`
	UpdatedBy          string     `json:"updatedBy"`
	Timestamp          time.Time  `json:"timestamp"`
	RestaurantID       uuid.UUID  `json:"restaurantId"`
	QrCodeID           *uuid.UUID `json:"qrCodeId,omitempty"`
	SkipRestaurantRoom bool       `json:"skipRestaurantRoom,omitempty"`
}

// KDSUpdate is the body of POST /api/emit-kds-update. Source "kitchen"
// suppresses the order_update re-emit that would re-alert the cashier.
type KDSUpdate struct {
	OrderItem    OrderItem `json:"orderItem"`
	RestaurantID uuid.UUID `json:"restaurantId"`
	Timestamp    time.Time `json:"timestamp"`
	Source       string    `json:"source"`
	OrderID      uuid.UUID `json:"orderId"`
}

// Notification is the body of POST /api/emit-notification.
type Notification struct {
	Notification  NotificationPayload `json:"notification"`
	RestaurantIDs []uuid.UUID         `json:"restaurantIds"`
}

type NotificationPayload struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   *string   `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// OrderFromDB projects a stored order and its items onto the wire shape.
func OrderFromDB(o database.Order, items []database.OrderItem) Order {
	out := Order{
		ID:           o.ID,
		RestaurantID: o.RestaurantID,
		OrderType:    o.OrderType,
		Status:       o.Status,
		TotalPrice:   numericString(o.TotalPrice),
		Currency:     o.Currency,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
	if o.TableNumber.Valid {
		out.TableNumber = &o.TableNumber.String
	}
	if o.QrCodeID.Valid {
		id := uuid.UUID(o.QrCodeID.Bytes)
		out.QrCodeID = &id
	}
	if o.Notes.Valid {
		out.Notes = &o.Notes.String
	}
	for _, it := range items {
		out.Items = append(out.Items, OrderItemFromDB(it))
	}
	return out
}

// OrderItemFromDB projects a stored order item onto the wire shape.
func OrderItemFromDB(it database.OrderItem) OrderItem {
	out := OrderItem{
		ID:                it.ID,
		OrderID:           it.OrderID,
		Quantity:          it.Quantity,
		Price:             numericString(it.Price),
		IsCustomItem:      it.IsCustomItem,
		KitchenItemStatus: it.KitchenItemStatus,
	}
	if it.MenuItemID.Valid {
		id := uuid.UUID(it.MenuItemID.Bytes)
		out.MenuItemID = &id
	}
	if it.Notes.Valid {
		out.Notes = &it.Notes.String
	}
	if it.CustomItemName.Valid {
		out.CustomItemName = &it.CustomItemName.String
	}
	return out
}

// NotificationFromDB projects a stored notification onto the wire shape.
func NotificationFromDB(n database.Notification) NotificationPayload {
	out := NotificationPayload{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		CreatedAt: n.CreatedAt,
	}
	if n.Message.Valid {
		out.Message = &n.Message.String
	}
	return out
}
