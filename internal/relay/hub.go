// Package relay is the stateful realtime process. It holds every live
// websocket connection and the in-memory room membership; the stateless API
// tier pushes events into it over HTTP. Membership is not persisted — on a
// relay restart clients must rejoin their rooms, and a missed push is
// recovered only by the client's own refetch.
package relay

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Event represents a websocket message to be broadcast.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Room name constructors. Dashboards sit in restaurant rooms, customer
// sessions in table rooms keyed by QR code id.
func RestaurantRoom(id uuid.UUID) string { return fmt.Sprintf("restaurant_%s", id) }
func TableRoom(id uuid.UUID) string      { return fmt.Sprintf("table_%s", id) }
func AdminRoom(id uuid.UUID) string      { return fmt.Sprintf("admin_%s", id) }

// subscription joins a client to a named room.
type subscription struct {
	client *Client
	room   string
}

// roomEvent is an internal struct for routing events to a single room.
type roomEvent struct {
	Room  string
	Event Event
}

// Hub maintains the set of active clients and broadcasts messages to them.
// A client may sit in several rooms at once.
type Hub struct {
	// Registered clients by room name
	rooms map[string]map[*Client]bool

	// Inbound membership changes from clients
	join  chan subscription
	leave chan *Client

	// Outbound messages to broadcast
	broadcast chan *roomEvent

	// Mutex for thread-safe room access
	mu sync.RWMutex
}

// NewHub creates a new Hub instance.
func NewHub() *Hub {
	return &Hub{
		rooms:     make(map[string]map[*Client]bool),
		join:      make(chan subscription),
		leave:     make(chan *Client),
		broadcast: make(chan *roomEvent, 256),
	}
}

// Run starts the hub's main loop.
// This should be called as a goroutine: go hub.Run()
func (h *Hub) Run() {
	for {
		select {
		case sub := <-h.join:
			h.mu.Lock()
			if h.rooms[sub.room] == nil {
				h.rooms[sub.room] = make(map[*Client]bool)
			}
			h.rooms[sub.room][sub.client] = true
			sub.client.rooms[sub.room] = true
			h.mu.Unlock()

		case client := <-h.leave:
			h.mu.Lock()
			for room := range client.rooms {
				if clients, ok := h.rooms[room]; ok {
					if _, exists := clients[client]; exists {
						delete(clients, client)
						// Clean up empty rooms
						if len(clients) == 0 {
							delete(h.rooms, room)
						}
					}
				}
			}
			client.closeSend()
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.mu.Lock()
			clients := h.rooms[event.Room]

			// Marshal event to JSON once
			message, err := json.Marshal(event.Event)
			if err != nil {
				h.mu.Unlock()
				continue
			}

			for client := range clients {
				select {
				case client.send <- message:
				default:
					// Client's send buffer is full, close and evict from
					// every room. The read pump will still report the
					// disconnect on h.leave later; closeSend tolerates that.
					client.closeSend()
					for room := range client.rooms {
						delete(h.rooms[room], client)
						if len(h.rooms[room]) == 0 {
							delete(h.rooms, room)
						}
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToRoom sends an event to all clients in a named room.
// This is the public API for the ingress and socket handlers.
func (h *Hub) BroadcastToRoom(room string, event Event) {
	h.broadcast <- &roomEvent{
		Room:  room,
		Event: event,
	}
}
