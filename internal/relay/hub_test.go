package relay

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/qmenus/api/internal/realtime"
)

// mockClient creates a client for testing without a real WebSocket connection
func mockClient(hub *Hub) *Client {
	return &Client{
		hub:   hub,
		send:  make(chan []byte, 256),
		rooms: make(map[string]bool),
	}
}

func recvEvent(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case msg := <-c.send:
		var ev Event
		if err := json.Unmarshal(msg, &ev); err != nil {
			t.Fatalf("failed to unmarshal message: %v", err)
		}
		return ev
	case <-time.After(100 * time.Millisecond):
		t.Fatal("client did not receive message")
		return Event{}
	}
}

func assertSilent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case msg := <-c.send:
		t.Fatalf("client should not have received message: %s", msg)
	case <-time.After(50 * time.Millisecond):
		// Expected - no message received
	}
}

func TestHubJoin(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	restaurantID := uuid.New()
	room := RestaurantRoom(restaurantID)
	client := mockClient(hub)

	hub.join <- subscription{client: client, room: room}

	// Give hub time to process
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	if hub.rooms[room] == nil {
		t.Fatal("room not created")
	}
	if !hub.rooms[room][client] {
		t.Fatal("client not joined to room")
	}
	if !client.rooms[room] {
		t.Fatal("room not recorded on client")
	}
}

func TestHubLeaveCleansUpEveryRoom(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	restaurantRoom := RestaurantRoom(uuid.New())
	tableRoom := TableRoom(uuid.New())
	client := mockClient(hub)

	hub.join <- subscription{client: client, room: restaurantRoom}
	hub.join <- subscription{client: client, room: tableRoom}
	time.Sleep(10 * time.Millisecond)

	hub.leave <- client
	time.Sleep(10 * time.Millisecond)

	hub.mu.RLock()
	defer hub.mu.RUnlock()

	// Empty rooms are removed entirely
	if hub.rooms[restaurantRoom] != nil {
		t.Fatal("restaurant room not cleaned up after last client left")
	}
	if hub.rooms[tableRoom] != nil {
		t.Fatal("table room not cleaned up after last client left")
	}
}

func TestBroadcastToSingleRoom(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	room1 := RestaurantRoom(uuid.New())
	room2 := RestaurantRoom(uuid.New())

	client1 := mockClient(hub)
	client2 := mockClient(hub)

	hub.join <- subscription{client: client1, room: room1}
	hub.join <- subscription{client: client2, room: room2}
	time.Sleep(10 * time.Millisecond)

	testPayload := json.RawMessage(`{"orderId":"test-123"}`)
	hub.BroadcastToRoom(room1, Event{Type: realtime.EventOrderUpdate, Payload: testPayload})

	received := recvEvent(t, client1)
	if received.Type != realtime.EventOrderUpdate {
		t.Errorf("expected type %q, got %q", realtime.EventOrderUpdate, received.Type)
	}
	if string(received.Payload) != string(testPayload) {
		t.Errorf("expected payload %s, got %s", testPayload, received.Payload)
	}

	assertSilent(t, client2)
}

func TestBroadcastToMultipleClientsInSameRoom(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	room := TableRoom(uuid.New())
	client1 := mockClient(hub)
	client2 := mockClient(hub)
	client3 := mockClient(hub)

	hub.join <- subscription{client: client1, room: room}
	hub.join <- subscription{client: client2, room: room}
	hub.join <- subscription{client: client3, room: room}
	time.Sleep(10 * time.Millisecond)

	hub.BroadcastToRoom(room, Event{
		Type:    realtime.EventKDSUpdate,
		Payload: json.RawMessage(`{"status":"COMPLETED"}`),
	})

	for i, client := range []*Client{client1, client2, client3} {
		received := recvEvent(t, client)
		if received.Type != realtime.EventKDSUpdate {
			t.Errorf("client%d: expected type %q, got %q", i+1, realtime.EventKDSUpdate, received.Type)
		}
	}
}

func TestBroadcastToNonExistentRoom(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := mockClient(hub)
	hub.join <- subscription{client: client, room: RestaurantRoom(uuid.New())}
	time.Sleep(10 * time.Millisecond)

	hub.BroadcastToRoom(AdminRoom(uuid.New()), Event{
		Type:    realtime.EventNotification,
		Payload: json.RawMessage(`{"test":"data"}`),
	})

	assertSilent(t, client)
}

func TestDispatchOrderUpdateRouting(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	restaurantID := uuid.New()
	qrCodeID := uuid.New()

	restaurantClient := mockClient(hub)
	tableClient := mockClient(hub)
	otherTableClient := mockClient(hub)

	hub.join <- subscription{client: restaurantClient, room: RestaurantRoom(restaurantID)}
	hub.join <- subscription{client: tableClient, room: TableRoom(qrCodeID)}
	hub.join <- subscription{client: otherTableClient, room: TableRoom(uuid.New())}
	time.Sleep(10 * time.Millisecond)

	dispatchOrderUpdate(hub, realtime.OrderUpdate{
		Order:        realtime.Order{ID: uuid.New(), RestaurantID: restaurantID, Status: "PREPARING"},
		UpdatedBy:    "cashier",
		RestaurantID: restaurantID,
		QrCodeID:     &qrCodeID,
	})

	// The restaurant room gets the update under both event names
	first := recvEvent(t, restaurantClient)
	second := recvEvent(t, restaurantClient)
	got := map[string]bool{first.Type: true, second.Type: true}
	if !got[realtime.EventOrderUpdate] || !got[realtime.EventOrderStatusUpdate] {
		t.Fatalf("restaurant room expected order_update and order_status_update, got %q and %q", first.Type, second.Type)
	}

	// So does the table room
	first = recvEvent(t, tableClient)
	second = recvEvent(t, tableClient)
	got = map[string]bool{first.Type: true, second.Type: true}
	if !got[realtime.EventOrderUpdate] || !got[realtime.EventOrderStatusUpdate] {
		t.Fatalf("table room expected order_update and order_status_update, got %q and %q", first.Type, second.Type)
	}

	assertSilent(t, otherTableClient)
}

func TestDispatchOrderUpdateSkipRestaurantRoom(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	restaurantID := uuid.New()
	qrCodeID := uuid.New()

	restaurantClient := mockClient(hub)
	tableClient := mockClient(hub)

	hub.join <- subscription{client: restaurantClient, room: RestaurantRoom(restaurantID)}
	hub.join <- subscription{client: tableClient, room: TableRoom(qrCodeID)}
	time.Sleep(10 * time.Millisecond)

	dispatchOrderUpdate(hub, realtime.OrderUpdate{
		Order:              realtime.Order{ID: uuid.New(), RestaurantID: restaurantID, Status: "READY"},
		UpdatedBy:          "kitchen",
		RestaurantID:       restaurantID,
		QrCodeID:           &qrCodeID,
		SkipRestaurantRoom: true,
	})

	// The table room still hears about its own order
	received := recvEvent(t, tableClient)
	if received.Type != realtime.EventOrderUpdate && received.Type != realtime.EventOrderStatusUpdate {
		t.Fatalf("unexpected event type %q", received.Type)
	}

	// The restaurant room is suppressed
	assertSilent(t, restaurantClient)
}

func TestDispatchKDSUpdateSource(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	restaurantID := uuid.New()
	client := mockClient(hub)
	hub.join <- subscription{client: client, room: RestaurantRoom(restaurantID)}
	time.Sleep(10 * time.Millisecond)

	// Kitchen-sourced updates emit kds_update only
	dispatchKDSUpdate(hub, realtime.KDSUpdate{
		RestaurantID: restaurantID,
		Source:       "kitchen",
		OrderID:      uuid.New(),
	})
	received := recvEvent(t, client)
	if received.Type != realtime.EventKDSUpdate {
		t.Fatalf("expected kds_update, got %q", received.Type)
	}
	assertSilent(t, client)

	// Customer-sourced updates re-emit order_update for staff dashboards
	dispatchKDSUpdate(hub, realtime.KDSUpdate{
		RestaurantID: restaurantID,
		Source:       "customer",
		OrderID:      uuid.New(),
	})
	first := recvEvent(t, client)
	second := recvEvent(t, client)
	got := map[string]bool{first.Type: true, second.Type: true}
	if !got[realtime.EventKDSUpdate] || !got[realtime.EventOrderUpdate] {
		t.Fatalf("expected kds_update and order_update, got %q and %q", first.Type, second.Type)
	}
}

func TestDispatchNotificationFanOut(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	restaurant1 := uuid.New()
	restaurant2 := uuid.New()
	restaurant3 := uuid.New()

	client1 := mockClient(hub)
	client2 := mockClient(hub)
	client3 := mockClient(hub)

	hub.join <- subscription{client: client1, room: RestaurantRoom(restaurant1)}
	hub.join <- subscription{client: client2, room: RestaurantRoom(restaurant2)}
	hub.join <- subscription{client: client3, room: RestaurantRoom(restaurant3)}
	time.Sleep(10 * time.Millisecond)

	dispatchNotification(hub, realtime.Notification{
		Notification:  realtime.NotificationPayload{ID: uuid.New(), Type: "SUBSCRIPTION_EXPIRING", Title: "Subscription expiring"},
		RestaurantIDs: []uuid.UUID{restaurant1, restaurant2},
	})

	for i, client := range []*Client{client1, client2} {
		received := recvEvent(t, client)
		if received.Type != realtime.EventNotification {
			t.Errorf("client%d: expected notification, got %q", i+1, received.Type)
		}
	}
	assertSilent(t, client3)
}

func TestHubSurvivesEvictThenLeave(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	room := RestaurantRoom(uuid.New())

	// Unbuffered send channel with no reader: the first broadcast fills the
	// buffer immediately and the hub evicts the client.
	slow := &Client{hub: hub, send: make(chan []byte), rooms: make(map[string]bool)}
	hub.join <- subscription{client: slow, room: room}
	time.Sleep(10 * time.Millisecond)

	hub.BroadcastToRoom(room, Event{Type: realtime.EventOrderUpdate})
	time.Sleep(10 * time.Millisecond)

	// The evicted client's read pump still reports the disconnect.
	hub.leave <- slow
	time.Sleep(10 * time.Millisecond)

	// The hub goroutine must still be serving other clients.
	healthy := mockClient(hub)
	hub.join <- subscription{client: healthy, room: room}
	time.Sleep(10 * time.Millisecond)

	hub.BroadcastToRoom(room, Event{Type: realtime.EventOrderUpdate})
	received := recvEvent(t, healthy)
	if received.Type != realtime.EventOrderUpdate {
		t.Errorf("expected %q, got %q", realtime.EventOrderUpdate, received.Type)
	}
}

func TestClientSendAfterCloseIsDropped(t *testing.T) {
	c := &Client{send: make(chan []byte, 1), rooms: make(map[string]bool)}

	c.closeSend()
	c.closeSend()

	// A message racing the eviction is dropped, not a send on a closed
	// channel.
	c.sendEvent("error", map[string]string{"message": "late"})

	if _, ok := <-c.send; ok {
		t.Fatal("expected send channel to be closed and empty")
	}
}
