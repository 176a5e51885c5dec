package relay

import (
	"context"

	"github.com/qmenus/api/internal/realtime"
)

// LocalEmitter satisfies service.Emitter for code running inside the relay
// process itself (the create_order socket path): events go straight to the
// hub instead of looping back over HTTP.
type LocalEmitter struct {
	hub *Hub
}

func NewLocalEmitter(hub *Hub) *LocalEmitter {
	return &LocalEmitter{hub: hub}
}

func (l *LocalEmitter) EmitOrderUpdate(_ context.Context, upd realtime.OrderUpdate) {
	dispatchOrderUpdate(l.hub, upd)
}

func (l *LocalEmitter) EmitKDSUpdate(_ context.Context, upd realtime.KDSUpdate) {
	dispatchKDSUpdate(l.hub, upd)
}

func (l *LocalEmitter) EmitNotification(_ context.Context, n realtime.Notification) {
	dispatchNotification(l.hub, n)
}
