package handlers

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/mytracker/trackers-api/internal/models"
)

// Event types sent over WebSocket
const (
	EventTrackersChanged   = "trackers_changed"
	EventCategoriesChanged = "categories_changed"
	EventRecordsChanged    = "records_changed"
)

// WSEvent is the JSON message sent to connected clients
type WSEvent struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Hub manages the connected clients. Every client receives every
// change event; there is nothing to scope them by.
type Hub struct {
	mu    sync.RWMutex
	conns map[*websocket.Conn]bool
}

// Global hub instance
var WS = &Hub{
	conns: make(map[*websocket.Conn]bool),
}

func (h *Hub) register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = true
	log.Printf("WS register: client connected (total: %d)", len(h.conns))
}

func (h *Hub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
	log.Printf("WS unregister: client disconnected (remaining: %d)", len(h.conns))
}

// Broadcast sends an event to every connected client
func (h *Hub) Broadcast(event WSEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.conns) == 0 {
		return
	}

	msg, err := json.Marshal(event)
	if err != nil {
		log.Printf("WS broadcast marshal error: %v", err)
		return
	}

	for c := range h.conns {
		if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Printf("WS write error: %v", err)
		}
	}
}

// StartBroadcasting subscribes the hub to all three stores so clients
// hear about every successful mutation. Returns an unsubscribe func.
func StartBroadcasting() func() {
	unsubTrackers := stores.Trackers.Subscribe(func(sections []models.TrackerSection) {
		WS.Broadcast(WSEvent{Type: EventTrackersChanged, Data: sections})
	})
	unsubCategories := stores.Categories.Subscribe(func(categories []models.Category) {
		WS.Broadcast(WSEvent{Type: EventCategoriesChanged, Data: categories})
	})
	unsubRecords := stores.Records.Subscribe(func() {
		WS.Broadcast(WSEvent{Type: EventRecordsChanged})
	})
	return func() {
		unsubTrackers()
		unsubCategories()
		unsubRecords()
	}
}

// WebSocketUpgrade is the middleware that checks the upgrade request
func WebSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	}
}

// HandleWebSocket keeps a client registered for change events until it
// disconnects
func HandleWebSocket(c *websocket.Conn) {
	WS.register(c)
	defer WS.unregister(c)

	// Keep connection alive — read messages (client sends pings/keepalives)
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}
