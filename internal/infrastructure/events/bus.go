// Package events difunde los cambios del catálogo a través de un bus pub/sub en proceso (Watermill gochannel).
// El publicador nunca espera a los suscriptores: la entrega es best-effort.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/jhoicas/funko-api/internal/application/ports"
)

// TopicCatalog topic con los cambios de Funkos.
const TopicCatalog = "catalog.items"

const outputBuffer = 256

var _ ports.Notifier = (*Bus)(nil)

// Envelope mensaje que reciben los clientes.
type Envelope struct {
	Event     string          `json:"event"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// Bus implementa ports.Notifier publicando en un GoChannel de Watermill.
type Bus struct {
	pubsub    *gochannel.GoChannel
	log       zerolog.Logger
	published *prometheus.CounterVec
}

// NewBus crea el bus. Las métricas se registran en reg.
func NewBus(log zerolog.Logger, reg prometheus.Registerer) *Bus {
	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer:            outputBuffer,
		Persistent:                     false,
		BlockPublishUntilSubscriberAck: false,
	}, NewLoggerAdapter(log))

	return &Bus{
		pubsub: pubsub,
		log:    log,
		published: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "funko_notifications_published_total",
			Help: "Notificaciones de cambios del catálogo publicadas",
		}, []string{"event", "result"}),
	}
}

// Broadcast serializa el payload y lo publica. Los errores sólo se registran.
func (b *Bus) Broadcast(_ context.Context, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		b.fail(event, fmt.Errorf("encode payload: %w", err))
		return
	}
	body, err := json.Marshal(Envelope{Event: event, Data: data, Timestamp: time.Now().UTC()})
	if err != nil {
		b.fail(event, fmt.Errorf("encode envelope: %w", err))
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.Metadata.Set("event", event)
	if err := b.pubsub.Publish(TopicCatalog, msg); err != nil {
		b.fail(event, fmt.Errorf("publish: %w", err))
		return
	}
	b.published.WithLabelValues(event, "ok").Inc()
}

func (b *Bus) fail(event string, err error) {
	b.published.WithLabelValues(event, "error").Inc()
	b.log.Warn().Err(err).Str("event", event).Msg("no se pudo publicar la notificación")
}

// Subscribe devuelve el canal de mensajes del topic. Cada mensaje debe confirmarse con Ack.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	ch, err := b.pubsub.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("events: subscribe to %s: %w", topic, err)
	}
	return ch, nil
}

// Close detiene el bus y cierra los canales de los suscriptores.
func (b *Bus) Close() error {
	if err := b.pubsub.Close(); err != nil {
		return fmt.Errorf("events: close: %w", err)
	}
	return nil
}
