package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Hub maintains the active WebSocket connections and fans canvas updates out
// to every connected client
type Hub struct {
	clients map[*Client]bool
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	broadcast  chan *BroadcastMessage

	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger
}

// BroadcastMessage is a message sent to every connected client
type BroadcastMessage struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// NewHub creates a new WebSocket hub
func NewHub(logger *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 100),
		unregister: make(chan *Client, 100),
		broadcast:  make(chan *BroadcastMessage, 1000),
		ctx:        ctx,
		cancel:     cancel,
		logger:     logger,
	}
}

// Run starts the hub's main event loop
func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			h.logger.Info("hub shutting down")
			h.closeAllConnections()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastToAll(message)
		}
	}
}

// Stop gracefully shuts down the hub
func (h *Hub) Stop() {
	h.cancel()
}

// Broadcast sends a message to every connected client
func (h *Hub) Broadcast(messageType string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	message := &BroadcastMessage{
		Type:      messageType,
		Data:      jsonData,
		Timestamp: time.Now().Unix(),
	}

	select {
	case h.broadcast <- message:
		return nil
	case <-time.After(5 * time.Second):
		return fmt.Errorf("broadcast channel full, message dropped")
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("client connected",
		zap.String("session_id", client.session.ID()),
		zap.Int("clients", count),
	)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	count := len(h.clients)
	h.mu.Unlock()

	client.sessions.Remove(client.session.ID())
	h.logger.Info("client disconnected",
		zap.String("session_id", client.session.ID()),
		zap.Int("clients", count),
	)
}

func (h *Hub) broadcastToAll(message *BroadcastMessage) {
	payload, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("failed to marshal broadcast", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
			h.logger.Warn("client send buffer full, dropping message",
				zap.String("session_id", client.session.ID()),
			)
		}
	}
}

func (h *Hub) closeAllConnections() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
}
