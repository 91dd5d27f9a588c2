// Package ws difunde los eventos del catálogo a los clientes WebSocket conectados.
package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Parámetros de la conexión WebSocket.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 32
)

type client struct {
	conn   *websocket.Conn
	send   chan []byte
	cancel context.CancelFunc
}

// Hub mantiene los clientes conectados y les reenvía cada evento publicado.
// Un cliente que no consume a tiempo se desconecta; nunca bloquea a los demás.
type Hub struct {
	upgrader websocket.Upgrader
	log      zerolog.Logger

	mu      sync.RWMutex
	clients map[*client]struct{}

	connected prometheus.Gauge
}

// NewHub construye el hub. reg puede ser nil (sin métricas registradas).
func NewHub(log zerolog.Logger, reg prometheus.Registerer) *Hub {
	connected := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "funko_ws_clients",
		Help: "Clientes WebSocket conectados.",
	})
	if reg != nil {
		reg.MustRegister(connected)
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		log:       log,
		clients:   make(map[*client]struct{}),
		connected: connected,
	}
}

// ServeHTTP atiende la actualización a WebSocket (GET /ws).
//
// La conexión sobrevive a la petición HTTP, por eso usa su propio contexto.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("ws: no se pudo actualizar la conexión")
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &client{conn: conn, send: make(chan []byte, sendBuffer), cancel: cancel}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.connected.Inc()
	h.log.Info().Str("remote_addr", conn.RemoteAddr().String()).Msg("ws: cliente conectado")

	go h.writePump(ctx, c)
	go h.readPump(c)
}

// Broadcast encola payload para todos los clientes.
func (h *Hub) Broadcast(payload []byte) {
	h.mu.RLock()
	var slow []*client
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.log.Warn().Str("remote_addr", c.conn.RemoteAddr().String()).Msg("ws: cliente lento, desconectando")
		h.remove(c)
	}
}

// Consume reenvía a los clientes cada mensaje del bus hasta que ctx termine o el canal se cierre.
func (h *Hub) Consume(ctx context.Context, messages <-chan *message.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			h.Broadcast(msg.Payload)
			msg.Ack()
		}
	}
}

// Len número de clientes conectados.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// CloseAll desconecta a todos los clientes (apagado).
func (h *Hub) CloseAll() {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		h.remove(c)
	}
	h.log.Info().Int("clients", len(clients)).Msg("ws: conexiones cerradas")
}

// readPump descarta lo que envíe el cliente; sólo mantiene vivo el deadline con los pong.
func (h *Hub) readPump(c *client) {
	defer h.remove(c)

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Debug().Err(err).Msg("ws: error de lectura")
			}
			return
		}
	}
}

func (h *Hub) writePump(ctx context.Context, c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "server shutting down"))
			return
		case payload := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				h.remove(c)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				h.log.Debug().Err(err).Msg("ws: error de escritura")
				h.remove(c)
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				h.remove(c)
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(c)
				return
			}
		}
	}
}

// remove es idempotente: sólo el primero que lo llame cancela y descuenta.
func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if !ok {
		return
	}
	c.cancel()
	h.connected.Dec()
	h.log.Info().Str("remote_addr", c.conn.RemoteAddr().String()).Msg("ws: cliente desconectado")
}
