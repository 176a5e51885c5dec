package relay

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/qmenus/api/internal/database"
	"github.com/qmenus/api/internal/enum"
	"github.com/qmenus/api/internal/realtime"
	"github.com/qmenus/api/internal/service"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer; create_order carts are the
	// largest inbound payload
	maxMessageSize = 8192
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Public endpoint; each join is validated against the store
	},
}

// JoinStore validates room join requests against the database and records
// waiter requests. Satisfied by *database.Queries.
type JoinStore interface {
	RestaurantExists(ctx context.Context, id uuid.UUID) (bool, error)
	QRCodeExists(ctx context.Context, id uuid.UUID) (bool, error)
	AdminExists(ctx context.Context, id uuid.UUID) (bool, error)
	CreateNotification(ctx context.Context, arg database.CreateNotificationParams) (database.Notification, error)
}

// Orders is the slice of the order service the socket transport uses.
// The create_order socket event and the HTTP create endpoint share one
// ingestion routine; only the Origin differs.
type Orders interface {
	Create(ctx context.Context, req service.CreateOrderRequest) (*service.OrderResult, error)
	UpdateStatus(ctx context.Context, req service.UpdateStatusRequest) (*service.OrderResult, error)
}

// Client represents a single websocket connection. A client enters rooms
// only through the join protocol and may sit in several at once.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	store  JoinStore
	orders Orders
	send   chan []byte

	// rooms this client joined; mutated only by the hub goroutine
	rooms map[string]bool

	// mu guards closed. A client can reach the hub twice: evicted for a
	// full send buffer during a broadcast, then again when its read pump
	// exits. send must close exactly once.
	mu     sync.Mutex
	closed bool
}

// closeSend closes the send channel once. Safe to call repeatedly.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// --- Inbound payloads ---

type joinRestaurantPayload struct {
	RestaurantID string `json:"restaurantId"`
}

type joinTablePayload struct {
	QrCodeID string `json:"qrCodeId"`
}

type joinAdminPayload struct {
	AdminID string `json:"adminId"`
}

type createOrderPayload struct {
	RestaurantID    string                   `json:"restaurantId"`
	OrderType       string                   `json:"orderType"`
	TableNumber     string                   `json:"tableNumber"`
	CustomerName    string                   `json:"customerName"`
	CustomerPhone   string                   `json:"customerPhone"`
	CustomerAddress string                   `json:"customerAddress"`
	Notes           string                   `json:"notes"`
	Items           []createOrderItemPayload `json:"items"`
}

type createOrderItemPayload struct {
	MenuItemID string              `json:"menuItemId"`
	Quantity   int32               `json:"quantity"`
	Notes      string              `json:"notes"`
	Extras     map[string][]string `json:"extras"`
}

type updateOrderStatusPayload struct {
	OrderID      string `json:"orderId"`
	RestaurantID string `json:"restaurantId"`
	Status       string `json:"status"`
}

type requestWaiterPayload struct {
	RestaurantID string `json:"restaurantId"`
	TableNumber  string `json:"tableNumber"`
}

// ReadPump pumps messages from the websocket connection to the hub and
// handles the inbound event protocol.
// The application runs ReadPump in a per-connection goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.leave <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket error: %v", err)
			}
			break
		}
		c.handleMessage(raw)
	}
}

// WritePump pumps messages from the hub to the websocket connection.
// The application runs WritePump in a per-connection goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(raw []byte) {
	var msg Event
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.sendError("invalid message")
		return
	}

	ctx := context.Background()

	switch msg.Type {
	case "join_restaurant":
		c.handleJoinRestaurant(ctx, msg.Payload)
	case "join_table":
		c.handleJoinTable(ctx, msg.Payload)
	case "join_admin":
		c.handleJoinAdmin(ctx, msg.Payload)
	case "create_order":
		c.handleCreateOrder(ctx, msg.Payload)
	case "update_order_status":
		c.handleUpdateOrderStatus(ctx, msg.Payload)
	case "request_waiter":
		c.handleRequestWaiter(ctx, msg.Payload)
	default:
		c.sendError("unknown event: " + msg.Type)
	}
}

// Unknown ids yield an error event, never a disconnect: the client may
// retry with a corrected id on the same connection.
func (c *Client) handleJoinRestaurant(ctx context.Context, raw json.RawMessage) {
	var p joinRestaurantPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		c.sendError("invalid join_restaurant payload")
		return
	}
	id, err := uuid.Parse(p.RestaurantID)
	if err != nil {
		c.sendError("invalid restaurant id")
		return
	}
	exists, err := c.store.RestaurantExists(ctx, id)
	if err != nil {
		log.Printf("ERROR: validate restaurant join: %v", err)
		c.sendError("internal error")
		return
	}
	if !exists {
		c.sendError("restaurant not found")
		return
	}
	c.hub.join <- subscription{client: c, room: RestaurantRoom(id)}
	c.sendEvent("joined_restaurant", p)
}

func (c *Client) handleJoinTable(ctx context.Context, raw json.RawMessage) {
	var p joinTablePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		c.sendError("invalid join_table payload")
		return
	}
	id, err := uuid.Parse(p.QrCodeID)
	if err != nil {
		c.sendError("invalid qr code id")
		return
	}
	exists, err := c.store.QRCodeExists(ctx, id)
	if err != nil {
		log.Printf("ERROR: validate table join: %v", err)
		c.sendError("internal error")
		return
	}
	if !exists {
		c.sendError("table not found")
		return
	}
	c.hub.join <- subscription{client: c, room: TableRoom(id)}
	c.sendEvent("joined_table", p)
}

func (c *Client) handleJoinAdmin(ctx context.Context, raw json.RawMessage) {
	var p joinAdminPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		c.sendError("invalid join_admin payload")
		return
	}
	id, err := uuid.Parse(p.AdminID)
	if err != nil {
		c.sendError("invalid admin id")
		return
	}
	exists, err := c.store.AdminExists(ctx, id)
	if err != nil {
		log.Printf("ERROR: validate admin join: %v", err)
		c.sendError("internal error")
		return
	}
	if !exists {
		c.sendError("admin not found")
		return
	}
	c.hub.join <- subscription{client: c, room: AdminRoom(id)}
	c.sendEvent("joined_admin", p)
}

func (c *Client) handleCreateOrder(ctx context.Context, raw json.RawMessage) {
	var p createOrderPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		c.sendEvent("order_error", map[string]string{"message": "invalid create_order payload"})
		return
	}
	restaurantID, err := uuid.Parse(p.RestaurantID)
	if err != nil {
		c.sendEvent("order_error", map[string]string{"message": "invalid restaurant id"})
		return
	}

	items := make([]service.CreateOrderItemRequest, len(p.Items))
	for i, it := range p.Items {
		items[i] = service.CreateOrderItemRequest{
			MenuItemID: it.MenuItemID,
			Quantity:   it.Quantity,
			Notes:      it.Notes,
			Extras:     it.Extras,
		}
	}

	result, err := c.orders.Create(ctx, service.CreateOrderRequest{
		RestaurantID:    restaurantID,
		OrderType:       p.OrderType,
		TableNumber:     p.TableNumber,
		Origin:          service.OriginSocket,
		CustomerName:    p.CustomerName,
		CustomerPhone:   p.CustomerPhone,
		CustomerAddress: p.CustomerAddress,
		Notes:           p.Notes,
		Items:           items,
	})
	if err != nil {
		c.sendEvent("order_error", map[string]string{"message": err.Error()})
		return
	}

	c.sendEvent("order_created", realtime.OrderFromDB(result.Order, result.Items))
}

func (c *Client) handleUpdateOrderStatus(ctx context.Context, raw json.RawMessage) {
	var p updateOrderStatusPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		c.sendEvent("order_error", map[string]string{"message": "invalid update_order_status payload"})
		return
	}
	orderID, err := uuid.Parse(p.OrderID)
	if err != nil {
		c.sendEvent("order_error", map[string]string{"message": "invalid order id"})
		return
	}
	restaurantID, err := uuid.Parse(p.RestaurantID)
	if err != nil {
		c.sendEvent("order_error", map[string]string{"message": "invalid restaurant id"})
		return
	}

	result, err := c.orders.UpdateStatus(ctx, service.UpdateStatusRequest{
		OrderID:      orderID,
		RestaurantID: restaurantID,
		Status:       p.Status,
	})
	if err != nil {
		c.sendEvent("order_error", map[string]string{"message": err.Error()})
		return
	}

	c.sendEvent("order_status_updated", realtime.OrderFromDB(result.Order, result.Items))
}

func (c *Client) handleRequestWaiter(ctx context.Context, raw json.RawMessage) {
	var p requestWaiterPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		c.sendError("invalid request_waiter payload")
		return
	}
	restaurantID, err := uuid.Parse(p.RestaurantID)
	if err != nil {
		c.sendError("invalid restaurant id")
		return
	}
	exists, err := c.store.RestaurantExists(ctx, restaurantID)
	if err != nil {
		log.Printf("ERROR: validate waiter request: %v", err)
		c.sendError("internal error")
		return
	}
	if !exists {
		c.sendError("restaurant not found")
		return
	}

	notification, err := c.store.CreateNotification(ctx, database.CreateNotificationParams{
		RestaurantID: restaurantID,
		Type:         enum.NotificationWaiterRequest,
		Title:        "Waiter requested",
		Message:      pgtype.Text{String: waiterMessage(p.TableNumber), Valid: true},
	})
	if err != nil {
		log.Printf("ERROR: record waiter request: %v", err)
		c.sendError("internal error")
		return
	}

	payload, err := json.Marshal(map[string]any{
		"tableNumber":  p.TableNumber,
		"notification": realtime.NotificationFromDB(notification),
	})
	if err != nil {
		log.Printf("ERROR: marshal waiter request: %v", err)
		return
	}
	c.hub.BroadcastToRoom(RestaurantRoom(restaurantID), Event{Type: realtime.EventWaiterRequest, Payload: payload})
	c.sendEvent("waiter_requested", p)
}

func (c *Client) sendEvent(eventType string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ERROR: marshal %s payload: %v", eventType, err)
		return
	}
	msg, err := json.Marshal(Event{Type: eventType, Payload: raw})
	if err != nil {
		log.Printf("ERROR: marshal %s event: %v", eventType, err)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- msg:
	default:
		// Slow client; the hub will evict it on the next broadcast
	}
}

func (c *Client) sendError(message string) {
	c.sendEvent("error", map[string]string{"message": message})
}

// ServeWS handles websocket requests from clients.
// Endpoint: WS /ws
func ServeWS(hub *Hub, store JoinStore, orders Orders, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	client := &Client{
		hub:    hub,
		conn:   conn,
		store:  store,
		orders: orders,
		send:   make(chan []byte, 256),
		rooms:  make(map[string]bool),
	}

	go client.WritePump()
	go client.ReadPump()
}

func waiterMessage(tableNumber string) string {
	if tableNumber == "" {
		return "A customer requested a waiter"
	}
	return "Table " + tableNumber + " requested a waiter"
}
