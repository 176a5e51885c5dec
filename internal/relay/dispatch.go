package relay

import (
	"encoding/json"
	"log"

	"github.com/qmenus/api/internal/realtime"
)

// dispatchOrderUpdate routes an order change to its rooms. The restaurant
// room is the only delivery that can be suppressed; when a QR code id is
// present the table room always gets the event, skip flag or not.
func dispatchOrderUpdate(h *Hub, upd realtime.OrderUpdate) {
	payload, err := json.Marshal(upd)
	if err != nil {
		log.Printf("ERROR: marshal order update: %v", err)
		return
	}

	if !upd.SkipRestaurantRoom {
		room := RestaurantRoom(upd.RestaurantID)
		h.BroadcastToRoom(room, Event{Type: realtime.EventOrderUpdate, Payload: payload})
		h.BroadcastToRoom(room, Event{Type: realtime.EventOrderStatusUpdate, Payload: payload})
	}

	if upd.QrCodeID != nil {
		room := TableRoom(*upd.QrCodeID)
		h.BroadcastToRoom(room, Event{Type: realtime.EventOrderUpdate, Payload: payload})
		h.BroadcastToRoom(room, Event{Type: realtime.EventOrderStatusUpdate, Payload: payload})
	}
}

// dispatchKDSUpdate routes a kitchen item change. Customer-sourced updates
// (new items on an open order) additionally refresh the cashier's order
// view; kitchen-sourced ones must not, or every status flip would re-alert
// the cashier that triggered it.
func dispatchKDSUpdate(h *Hub, upd realtime.KDSUpdate) {
	payload, err := json.Marshal(upd)
	if err != nil {
		log.Printf("ERROR: marshal kds update: %v", err)
		return
	}

	room := RestaurantRoom(upd.RestaurantID)
	h.BroadcastToRoom(room, Event{Type: realtime.EventKDSUpdate, Payload: payload})

	if upd.Source == "customer" {
		h.BroadcastToRoom(room, Event{Type: realtime.EventOrderUpdate, Payload: payload})
	}
}

func dispatchNotification(h *Hub, n realtime.Notification) {
	payload, err := json.Marshal(n.Notification)
	if err != nil {
		log.Printf("ERROR: marshal notification: %v", err)
		return
	}

	for _, id := range n.RestaurantIDs {
		h.BroadcastToRoom(RestaurantRoom(id), Event{Type: realtime.EventNotification, Payload: payload})
	}
}
