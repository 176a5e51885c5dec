package relay

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/qmenus/api/internal/realtime"
)

// Ingress is the server-to-server HTTP surface the API tier pushes events
// through. Calls must carry the shared relay token; the original deployment
// relied on network isolation alone, which is not enough of a boundary.
type Ingress struct {
	hub   *Hub
	token string
}

// NewIngress creates the ingress bound to a hub.
func NewIngress(hub *Hub, token string) *Ingress {
	return &Ingress{hub: hub, token: token}
}

// RegisterRoutes registers the emit endpoints on the given Chi router.
func (i *Ingress) RegisterRoutes(r chi.Router) {
	r.Post("/api/emit-order-update", i.EmitOrderUpdate)
	r.Post("/api/emit-kds-update", i.EmitKDSUpdate)
	r.Post("/api/emit-notification", i.EmitNotification)
}

// EmitOrderUpdate handles POST /api/emit-order-update.
func (i *Ingress) EmitOrderUpdate(w http.ResponseWriter, r *http.Request) {
	if !i.authorized(r) {
		writeIngressJSON(w, http.StatusUnauthorized, false, "invalid relay token")
		return
	}

	var upd realtime.OrderUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeIngressJSON(w, http.StatusBadRequest, false, "invalid request body")
		return
	}

	dispatchOrderUpdate(i.hub, upd)
	writeIngressJSON(w, http.StatusOK, true, "order update delivered")
}

// EmitKDSUpdate handles POST /api/emit-kds-update.
func (i *Ingress) EmitKDSUpdate(w http.ResponseWriter, r *http.Request) {
	if !i.authorized(r) {
		writeIngressJSON(w, http.StatusUnauthorized, false, "invalid relay token")
		return
	}

	var upd realtime.KDSUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeIngressJSON(w, http.StatusBadRequest, false, "invalid request body")
		return
	}

	dispatchKDSUpdate(i.hub, upd)
	writeIngressJSON(w, http.StatusOK, true, "kds update delivered")
}

// EmitNotification handles POST /api/emit-notification.
func (i *Ingress) EmitNotification(w http.ResponseWriter, r *http.Request) {
	if !i.authorized(r) {
		writeIngressJSON(w, http.StatusUnauthorized, false, "invalid relay token")
		return
	}

	var n realtime.Notification
	if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
		writeIngressJSON(w, http.StatusBadRequest, false, "invalid request body")
		return
	}

	dispatchNotification(i.hub, n)
	writeIngressJSON(w, http.StatusOK, true, "notification delivered")
}

func (i *Ingress) authorized(r *http.Request) bool {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	return len(parts) == 2 && strings.EqualFold(parts[0], "bearer") && parts[1] == i.token
}

func writeIngressJSON(w http.ResponseWriter, status int, success bool, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": success, "message": message})
}
