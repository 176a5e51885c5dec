package realtime

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const emitTimeout = 3 * time.Second

// Client pushes events from the stateless API tier into the relay process.
// Every call is fire-and-forget: a failed push is logged and dropped, never
// surfaced to the HTTP caller, because the database write already committed.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a relay client. token is the shared bearer token the
// relay ingress requires.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: emitTimeout},
	}
}

// EmitOrderUpdate pushes an order change to the relay.
func (c *Client) EmitOrderUpdate(ctx context.Context, upd OrderUpdate) {
	c.post(ctx, "/api/emit-order-update", upd)
}

// EmitKDSUpdate pushes a kitchen item change to the relay.
func (c *Client) EmitKDSUpdate(ctx context.Context, upd KDSUpdate) {
	c.post(ctx, "/api/emit-kds-update", upd)
}

// EmitNotification pushes a notification to one or more restaurant rooms.
func (c *Client) EmitNotification(ctx context.Context, n Notification) {
	c.post(ctx, "/api/emit-notification", n)
}

func (c *Client) post(ctx context.Context, path string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("WARN: relay emit %s: marshal: %v", path, err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		log.Printf("WARN: relay emit %s: %v", path, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("WARN: relay emit %s: %v", path, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Printf("WARN: relay emit %s: status %d", path, resp.StatusCode)
	}
}

func numericString(n pgtype.Numeric) string {
	if !n.Valid {
		return "0.00"
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return "0.00"
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return "0.00"
	}
	return d.StringFixed(2)
}
