package database

import (
	"context"

	"github.com/google/uuid"
)

const restaurantColumns = `id, name, name_ar, currency, is_active, created_at, updated_at`

func scanRestaurant(row interface{ Scan(...any) error }) (Restaurant, error) {
	var r Restaurant
	err := row.Scan(&r.ID, &r.Name, &r.NameAr, &r.Currency, &r.IsActive, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

const getRestaurant = `SELECT ` + restaurantColumns + ` FROM restaurants WHERE id = $1`

func (q *Queries) GetRestaurant(ctx context.Context, id uuid.UUID) (Restaurant, error) {
	return scanRestaurant(q.db.QueryRow(ctx, getRestaurant, id))
}

const restaurantExists = `SELECT EXISTS(SELECT 1 FROM restaurants WHERE id = $1)`

func (q *Queries) RestaurantExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, restaurantExists, id).Scan(&exists)
	return exists, err
}

const countActiveSubscriptions = `
SELECT COUNT(*) FROM subscriptions
WHERE restaurant_id = $1 AND status = 'ACTIVE'`

func (q *Queries) CountActiveSubscriptions(ctx context.Context, restaurantID uuid.UUID) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countActiveSubscriptions, restaurantID).Scan(&count)
	return count, err
}

// GetActivePlanFeatures returns the feature list of the plan backing the
// restaurant's most recent active subscription. No rows means no active
// subscription.
const getActivePlanFeatures = `
SELECT p.features
FROM subscriptions s
JOIN plans p ON p.id = s.plan_id
WHERE s.restaurant_id = $1 AND s.status = 'ACTIVE'
ORDER BY s.end_date DESC
LIMIT 1`

func (q *Queries) GetActivePlanFeatures(ctx context.Context, restaurantID uuid.UUID) ([]string, error) {
	var features []string
	err := q.db.QueryRow(ctx, getActivePlanFeatures, restaurantID).Scan(&features)
	return features, err
}

const adminExists = `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1 AND role = 'ADMIN')`

func (q *Queries) AdminExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, adminExists, id).Scan(&exists)
	return exists, err
}
