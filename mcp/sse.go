package mcp

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SSEEvent represents an SSE event structure
type SSEEvent struct {
	ID        string    `json:"id"`
	Event     string    `json:"event"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// SSEClient represents a connected event stream subscriber
type SSEClient struct {
	ID        string
	Connected time.Time
	LastSeen  time.Time
	writer    http.ResponseWriter
	flusher   http.Flusher
	mu        sync.Mutex
	done      chan struct{}
}

// EventHubConfig holds configuration for the event hub
type EventHubConfig struct {
	KeepaliveInterval time.Duration
	BufferSize        int
}

func DefaultEventHubConfig() *EventHubConfig {
	return &EventHubConfig{
		KeepaliveInterval: 30 * time.Second,
		BufferSize:        100,
	}
}

// EventHub streams publishing events to dashboards over SSE. It implements
// service.Notifier.
type EventHub struct {
	logger       *zap.Logger
	config       *EventHubConfig
	clients      map[string]*SSEClient
	clientsMutex sync.RWMutex
	broadcast    chan SSEEvent
	closed       chan struct{}
	closeOnce    sync.Once
	sent         uint64
	dropped      uint64
	statsMutex   sync.Mutex
}

func NewEventHub(logger *zap.Logger, config *EventHubConfig) *EventHub {
	if config == nil {
		config = DefaultEventHubConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	hub := &EventHub{
		logger:    logger,
		config:    config,
		clients:   make(map[string]*SSEClient),
		broadcast: make(chan SSEEvent, config.BufferSize),
		closed:    make(chan struct{}),
	}
	go hub.broadcastLoop()
	return hub
}

// Notify queues an event for every connected client. Events are dropped when
// the buffer is full or the hub is closed.
func (h *EventHub) Notify(event string, data any) {
	e := SSEEvent{
		ID:        uuid.NewString(),
		Event:     event,
		Data:      data,
		Timestamp: time.Now(),
	}
	select {
	case <-h.closed:
		return
	default:
	}
	select {
	case h.broadcast <- e:
	default:
		h.statsMutex.Lock()
		h.dropped++
		h.statsMutex.Unlock()
		h.logger.Warn("broadcast channel full, dropping event", zap.String("event", event), zap.String("eventID", e.ID))
	}
}

// Close stops broadcasting and disconnects all clients.
func (h *EventHub) Close() {
	h.closeOnce.Do(func() {
		close(h.closed)
		h.clientsMutex.RLock()
		ids := make([]string, 0, len(h.clients))
		for id := range h.clients {
			ids = append(ids, id)
		}
		h.clientsMutex.RUnlock()
		for _, id := range ids {
			h.removeClient(id)
		}
	})
}

func (h *EventHub) broadcastLoop() {
	for {
		select {
		case <-h.closed:
			return
		case event := <-h.broadcast:
			for _, client := range h.snapshot() {
				if err := h.sendEventToClient(client, event); err != nil {
					h.logger.Error("failed to send event to client", zap.String("clientID", client.ID), zap.Error(err))
					h.removeClient(client.ID)
					continue
				}
				h.statsMutex.Lock()
				h.sent++
				h.statsMutex.Unlock()
			}
		}
	}
}

func (h *EventHub) snapshot() []*SSEClient {
	h.clientsMutex.RLock()
	defer h.clientsMutex.RUnlock()
	clients := make([]*SSEClient, 0, len(h.clients))
	for _, client := range h.clients {
		clients = append(clients, client)
	}
	return clients
}

// sendEventToClient writes one SSE frame. Writes to a client are serialised
// and stop once the client is gone.
func (h *EventHub) sendEventToClient(client *SSEClient, event SSEEvent) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	client.mu.Lock()
	defer client.mu.Unlock()
	select {
	case <-client.done:
		return nil
	default:
	}

	if _, err := fmt.Fprintf(client.writer, "id: %s\nevent: %s\ndata: %s\n\n", event.ID, event.Event, eventJSON); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	client.flusher.Flush()
	client.LastSeen = time.Now()
	return nil
}

func (h *EventHub) addClient(w http.ResponseWriter) *SSEClient {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return nil
	}

	now := time.Now()
	client := &SSEClient{
		ID:        "client_" + uuid.NewString(),
		Connected: now,
		LastSeen:  now,
		writer:    w,
		flusher:   flusher,
		done:      make(chan struct{}),
	}

	h.clientsMutex.Lock()
	h.clients[client.ID] = client
	h.clientsMutex.Unlock()

	connectEvent := SSEEvent{
		ID:        uuid.NewString(),
		Event:     "connected",
		Data:      map[string]string{"clientID": client.ID, "message": "Connected to publish event stream"},
		Timestamp: now,
	}
	if err := h.sendEventToClient(client, connectEvent); err != nil {
		h.logger.Error("failed to send connection event", zap.String("clientID", client.ID), zap.Error(err))
		h.removeClient(client.ID)
		return nil
	}

	h.logger.Info("SSE client connected", zap.String("clientID", client.ID))
	return client
}

func (h *EventHub) removeClient(clientID string) {
	h.clientsMutex.Lock()
	client, exists := h.clients[clientID]
	delete(h.clients, clientID)
	h.clientsMutex.Unlock()
	if !exists {
		return
	}

	client.mu.Lock()
	close(client.done)
	client.mu.Unlock()
	h.logger.Info("SSE client disconnected", zap.String("clientID", clientID))
}

// HandleEvents streams events to the caller until it disconnects
func (h *EventHub) HandleEvents(c *gin.Context) {
	w := c.Writer
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Cache-Control")

	client := h.addClient(w)
	if client == nil {
		return
	}

	ticker := time.NewTicker(h.config.KeepaliveInterval)
	defer ticker.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			h.removeClient(client.ID)
			return
		case <-client.done:
			return
		case <-ticker.C:
			keepalive := SSEEvent{
				ID:        uuid.NewString(),
				Event:     "keepalive",
				Data:      map[string]any{"timestamp": time.Now()},
				Timestamp: time.Now(),
			}
			if err := h.sendEventToClient(client, keepalive); err != nil {
				h.removeClient(client.ID)
				return
			}
		}
	}
}

// GetConnectedClients returns information about connected clients
func (h *EventHub) GetConnectedClients() []map[string]any {
	h.clientsMutex.RLock()
	defer h.clientsMutex.RUnlock()

	clients := make([]map[string]any, 0, len(h.clients))
	for _, client := range h.clients {
		client.mu.Lock()
		clients = append(clients, map[string]any{
			"id":        client.ID,
			"connected": client.Connected,
			"lastSeen":  client.LastSeen,
		})
		client.mu.Unlock()
	}
	return clients
}

// GetStats returns hub statistics
func (h *EventHub) GetStats() map[string]any {
	h.clientsMutex.RLock()
	connected := len(h.clients)
	h.clientsMutex.RUnlock()

	h.statsMutex.Lock()
	defer h.statsMutex.Unlock()
	return map[string]any{
		"connectedClients": connected,
		"bufferSize":       len(h.broadcast),
		"eventsSent":       h.sent,
		"eventsDropped":    h.dropped,
		"serverVersion":    Version,
	}
}

// HandleStats serves GetStats together with the connected clients
func (h *EventHub) HandleStats(c *gin.Context) {
	stats := h.GetStats()
	stats["clients"] = h.GetConnectedClients()
	c.JSON(http.StatusOK, stats)
}
