package database

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const subscriptionColumns = `id, restaurant_id, plan_id, status, start_date, end_date`

func scanSubscription(row interface{ Scan(...any) error }) (Subscription, error) {
	var s Subscription
	err := row.Scan(&s.ID, &s.RestaurantID, &s.PlanID, &s.Status, &s.StartDate, &s.EndDate)
	return s, err
}

// ExpireOverdueSubscriptions flips ACTIVE subscriptions whose end date has
// passed and returns them so the caller can notify the affected restaurants.
const expireOverdueSubscriptions = `
UPDATE subscriptions SET status = 'EXPIRED'
WHERE status = 'ACTIVE' AND end_date < $1
RETURNING ` + subscriptionColumns

func (q *Queries) ExpireOverdueSubscriptions(ctx context.Context, now time.Time) ([]Subscription, error) {
	rows, err := q.db.Query(ctx, expireOverdueSubscriptions, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

// DeactivateOrphanedRestaurants disables restaurants that no longer hold any
// active subscription. Returns the affected restaurant ids.
const deactivateOrphanedRestaurants = `
UPDATE restaurants r SET is_active = false, updated_at = now()
WHERE r.is_active = true
  AND NOT EXISTS (
	SELECT 1 FROM subscriptions s
	WHERE s.restaurant_id = r.id AND s.status = 'ACTIVE'
  )
RETURNING r.id`

func (q *Queries) DeactivateOrphanedRestaurants(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := q.db.Query(ctx, deactivateOrphanedRestaurants)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type ListExpiringSubscriptionsParams struct {
	From time.Time
	To   time.Time
}

const listExpiringSubscriptions = `
SELECT ` + subscriptionColumns + `
FROM subscriptions
WHERE status = 'ACTIVE' AND end_date >= $1 AND end_date < $2
ORDER BY end_date`

func (q *Queries) ListExpiringSubscriptions(ctx context.Context, arg ListExpiringSubscriptionsParams) ([]Subscription, error) {
	rows, err := q.db.Query(ctx, listExpiringSubscriptions, arg.From, arg.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}
