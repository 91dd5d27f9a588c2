package ports

import "context"

// Eventos de cambio del catálogo.
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// Notifier difunde cambios a los clientes conectados. Es fire-and-forget:
// la operación que notifica no espera ni falla por su resultado.
type Notifier interface {
	Broadcast(ctx context.Context, event string, payload any)
}

// NopNotifier descarta las notificaciones.
type NopNotifier struct{}

func (NopNotifier) Broadcast(context.Context, string, any) {}
