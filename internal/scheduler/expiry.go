package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/qmenus/api/internal/database"
	"github.com/qmenus/api/internal/enum"
	"github.com/qmenus/api/internal/realtime"
	"github.com/qmenus/api/internal/service"
)

// reminderWindow is how far ahead of the end date expiry warnings go out.
const reminderWindow = 3 * 24 * time.Hour

// Store defines the DB methods needed by the expiry sweep.
// Satisfied by *database.Queries.
type Store interface {
	ExpireOverdueSubscriptions(ctx context.Context, now time.Time) ([]database.Subscription, error)
	DeactivateOrphanedRestaurants(ctx context.Context) ([]uuid.UUID, error)
	ListExpiringSubscriptions(ctx context.Context, arg database.ListExpiringSubscriptionsParams) ([]database.Subscription, error)
	CreateNotification(ctx context.Context, arg database.CreateNotificationParams) (database.Notification, error)
}

// ExpiryJob is the daily subscription sweep. Expired subscriptions are
// flipped first so the orphan check sees them; restaurants with nothing
// active left are disabled, which blocks ingestion until renewal.
type ExpiryJob struct {
	store   Store
	emitter service.Emitter
	now     func() time.Time
}

// NewExpiryJob creates the sweep. emitter may be nil when no relay is
// configured.
func NewExpiryJob(store Store, emitter service.Emitter) *ExpiryJob {
	return &ExpiryJob{store: store, emitter: emitter, now: time.Now}
}

// Run executes one sweep. Notification inserts and relay emits are
// best-effort per subscription; a failure on one restaurant does not stop
// the rest of the batch.
func (j *ExpiryJob) Run(ctx context.Context) error {
	now := j.now().UTC()

	expired, err := j.store.ExpireOverdueSubscriptions(ctx, now)
	if err != nil {
		return fmt.Errorf("expire subscriptions: %w", err)
	}
	for _, sub := range expired {
		j.notify(ctx, sub.RestaurantID, enum.NotificationSubscriptionExpiry,
			"Subscription expired",
			fmt.Sprintf("Your subscription expired on %s. Renew to keep receiving orders.", sub.EndDate.Format("2 Jan 2006")))
	}

	deactivated, err := j.store.DeactivateOrphanedRestaurants(ctx)
	if err != nil {
		return fmt.Errorf("deactivate restaurants: %w", err)
	}

	expiring, err := j.store.ListExpiringSubscriptions(ctx, database.ListExpiringSubscriptionsParams{
		From: now,
		To:   now.Add(reminderWindow),
	})
	if err != nil {
		return fmt.Errorf("list expiring subscriptions: %w", err)
	}
	for _, sub := range expiring {
		days := int(sub.EndDate.Sub(now).Hours() / 24)
		j.notify(ctx, sub.RestaurantID, enum.NotificationSubscriptionWarning,
			"Subscription expiring soon",
			warningMessage(days))
	}

	log.Printf("expiry sweep: %d expired, %d restaurants deactivated, %d reminders", len(expired), len(deactivated), len(expiring))
	return nil
}

func (j *ExpiryJob) notify(ctx context.Context, restaurantID uuid.UUID, typ, title, message string) {
	n, err := j.store.CreateNotification(ctx, database.CreateNotificationParams{
		RestaurantID: restaurantID,
		Type:         typ,
		Title:        title,
		Message:      textOrNull(message),
	})
	if err != nil {
		log.Printf("ERROR: create %s notification for %s: %v", typ, restaurantID, err)
		return
	}
	if j.emitter != nil {
		j.emitter.EmitNotification(ctx, realtime.Notification{
			Notification:  realtime.NotificationFromDB(n),
			RestaurantIDs: []uuid.UUID{restaurantID},
		})
	}
}

func warningMessage(days int) string {
	switch {
	case days <= 0:
		return "Your subscription expires today. Renew now to avoid interruption."
	case days == 1:
		return "Your subscription expires in 1 day. Renew now to avoid interruption."
	default:
		return fmt.Sprintf("Your subscription expires in %d days. Renew now to avoid interruption.", days)
	}
}

func textOrNull(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}
