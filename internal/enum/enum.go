package enum

// ── Group A: State machines (CHECK constrained in DB) ──

const (
	OrderStatusPending   = "PENDING"
	OrderStatusPreparing = "PREPARING"
	OrderStatusReady     = "READY"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusCancelled = "CANCELLED"
)

const (
	KitchenItemStatusPending   = "PENDING"
	KitchenItemStatusPreparing = "PREPARING"
	KitchenItemStatusCompleted = "COMPLETED"
)

const (
	SubscriptionStatusActive  = "ACTIVE"
	SubscriptionStatusExpired = "EXPIRED"
)

// ── Group C: Borderline (CHECK constrained in DB) ──

const (
	UserRoleAdmin   = "ADMIN"
	UserRoleOwner   = "OWNER"
	UserRoleCashier = "CASHIER"
)

const (
	OrderTypeDineIn   = "DINE_IN"
	OrderTypeDelivery = "DELIVERY"
)

const (
	NotificationNewOrder            = "NEW_ORDER"
	NotificationSubscriptionExpiry  = "SUBSCRIPTION_EXPIRY"
	NotificationSubscriptionWarning = "SUBSCRIPTION_WARNING"
	NotificationWaiterRequest       = "WAITER_REQUEST"
)

// ── Group B: Configurable labels (no DB constraint) ──

// Plan feature flag unlocking the kitchen display. Two spellings exist in
// stored plan data; both are matched case-insensitively.
const (
	FeatureKitchenDisplaySystem = "KITCHEN_DISPLAY_SYSTEM"
	FeatureKitchenDisplay       = "KITCHEN_DISPLAY"
)

// QRTableRoot is the reserved tableNumber of a restaurant-level (non-table)
// QR code used for delivery-origin orders.
const QRTableRoot = "ROOT"

// GeneralSectionID is the id of the synthetic kitchen display bucket that
// collects items whose menu item has no kitchen section. It is never
// persisted.
const GeneralSectionID = "GENERAL"
