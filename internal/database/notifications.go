package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const notificationColumns = `id, restaurant_id, type, title, message, is_read, created_at`

func scanNotification(row interface{ Scan(...any) error }) (Notification, error) {
	var n Notification
	err := row.Scan(&n.ID, &n.RestaurantID, &n.Type, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt)
	return n, err
}

type CreateNotificationParams struct {
	RestaurantID uuid.UUID
	Type         string
	Title        string
	Message      pgtype.Text
}

const createNotification = `
INSERT INTO notifications (restaurant_id, type, title, message)
VALUES ($1, $2, $3, $4)
RETURNING ` + notificationColumns

func (q *Queries) CreateNotification(ctx context.Context, arg CreateNotificationParams) (Notification, error) {
	return scanNotification(q.db.QueryRow(ctx, createNotification,
		arg.RestaurantID, arg.Type, arg.Title, arg.Message))
}

type ListNotificationsParams struct {
	RestaurantID uuid.UUID
	Limit        int32
	Offset       int32
}

const listNotifications = `
SELECT ` + notificationColumns + `
FROM notifications
WHERE restaurant_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

func (q *Queries) ListNotifications(ctx context.Context, arg ListNotificationsParams) ([]Notification, error) {
	rows, err := q.db.Query(ctx, listNotifications, arg.RestaurantID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

const markNotificationRead = `
UPDATE notifications SET is_read = true
WHERE id = $1 AND restaurant_id = $2
RETURNING id`

type MarkNotificationReadParams struct {
	ID           uuid.UUID
	RestaurantID uuid.UUID
}

func (q *Queries) MarkNotificationRead(ctx context.Context, arg MarkNotificationReadParams) (uuid.UUID, error) {
	var id uuid.UUID
	err := q.db.QueryRow(ctx, markNotificationRead, arg.ID, arg.RestaurantID).Scan(&id)
	return id, err
}
