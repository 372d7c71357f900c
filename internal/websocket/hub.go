// internal/websocket/hub.go
package websocket

import (
	"context"
	"sync"

	"go.uber.org/zap"

	domain "labportal-service/internal/domain/results"
	"labportal-service/internal/pkg/session"
)

// TokenValidator authenticates a session token for a websocket upgrade.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*session.Data, error)
}

// Hub fans result-ready events out to connected portal clients. Clients
// are keyed by the identity subject so every open tab of one client gets
// the push.
type Hub struct {
	clients map[string]map[*Client]bool
	mu      sync.RWMutex

	Register   chan *Client
	unregister chan *Client

	broadcast chan *BroadcastMessage

	validator TokenValidator
	logger    *zap.Logger
}

type BroadcastMessage struct {
	Subjects []string
	Message  *Event
}

func NewHub(validator TokenValidator, logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		Register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *BroadcastMessage, 256),
		validator:  validator,
		logger:     logger,
	}
}

// AuthenticateClient validates the session token and returns the session
// this connection will be bound to.
func (h *Hub) AuthenticateClient(ctx context.Context, token string) (*session.Data, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	data, err := h.validator.ValidateToken(ctx, token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	return data, nil
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

// NotifyResultReady pushes a result-ready event to every connection the
// subject has open. Satisfies the result service's notifier without
// blocking publish on slow sockets.
func (h *Hub) NotifyResultReady(subject string, view *domain.ResultView) {
	msg := NewEvent(EventResultReady, view)
	select {
	case h.broadcast <- &BroadcastMessage{Subjects: []string{subject}, Message: msg}:
	default:
		h.logger.Warn("websocket broadcast queue full, dropping result-ready event",
			zap.String("subject", subject))
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.subject] == nil {
		h.clients[client.subject] = make(map[*Client]bool)
	}
	h.clients[client.subject][client] = true

	h.logger.Info("websocket client connected",
		zap.String("subject", client.subject),
		zap.Int("total", h.totalClients()),
	)

	client.SendMessage(NewEvent(EventConnected, map[string]interface{}{
		"subject": client.subject,
	}))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.subject]; ok {
		if _, exists := clients[client]; exists {
			delete(clients, client)
			client.Close()

			if len(clients) == 0 {
				delete(h.clients, client.subject)
			}

			h.logger.Info("websocket client disconnected",
				zap.String("subject", client.subject),
				zap.Int("total", h.totalClients()),
			)
		}
	}
}

func (h *Hub) deliver(msg *BroadcastMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if msg.Subjects == nil {
		for _, clients := range h.clients {
			for client := range clients {
				client.SendMessage(msg.Message)
			}
		}
		return
	}
	for _, subject := range msg.Subjects {
		for client := range h.clients[subject] {
			client.SendMessage(msg.Message)
		}
	}
}

// IsConnected reports whether the subject has at least one open socket.
func (h *Hub) IsConnected(subject string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[subject]) > 0
}

func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.totalClients()
}

func (h *Hub) totalClients() int {
	total := 0
	for _, clients := range h.clients {
		total += len(clients)
	}
	return total
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.clients {
		for client := range clients {
			client.Close()
		}
	}
	h.clients = make(map[string]map[*Client]bool)
}
