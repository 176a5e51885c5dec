package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/qmenus/api/internal/database"
	"github.com/qmenus/api/internal/middleware"
	"github.com/qmenus/api/internal/realtime"
)

// NotificationStore defines the database methods needed by notification
// handlers. Satisfied by *database.Queries.
type NotificationStore interface {
	ListNotifications(ctx context.Context, arg database.ListNotificationsParams) ([]database.Notification, error)
	MarkNotificationRead(ctx context.Context, arg database.MarkNotificationReadParams) (uuid.UUID, error)
}

// NotificationHandler handles dashboard notification endpoints.
type NotificationHandler struct {
	store NotificationStore
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(store NotificationStore) *NotificationHandler {
	return &NotificationHandler{store: store}
}

// RegisterRoutes registers notification endpoints on the given Chi router.
// Expected to be mounted behind Authenticate + RequireRestaurant.
func (h *NotificationHandler) RegisterRoutes(r chi.Router) {
	r.Get("/notifications", h.List)
	r.Put("/notifications/{id}/read", h.MarkRead)
}

// List handles GET /api/notifications.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > 200 {
		limit = 200
	}

	offset := 0
	if s := r.URL.Query().Get("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			offset = v
		}
	}

	notifications, err := h.store.ListNotifications(r.Context(), database.ListNotificationsParams{
		RestaurantID: claims.RestaurantID,
		Limit:        int32(limit),
		Offset:       int32(offset),
	})
	if err != nil {
		log.Printf("ERROR: list notifications: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]realtime.NotificationPayload, len(notifications))
	for i, n := range notifications {
		resp[i] = realtime.NotificationFromDB(n)
	}
	writeSuccess(w, http.StatusOK, "", resp)
}

// MarkRead handles PUT /api/notifications/{id}/read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid notification id")
		return
	}

	if _, err := h.store.MarkNotificationRead(r.Context(), database.MarkNotificationReadParams{
		ID:           id,
		RestaurantID: claims.RestaurantID,
	}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "notification not found")
			return
		}
		log.Printf("ERROR: mark notification read: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeSuccess(w, http.StatusOK, "notification marked read", nil)
}
