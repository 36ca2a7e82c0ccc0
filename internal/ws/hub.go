package ws

import (
	"encoding/json"
	"sync"
	"time"
)

// FrameSink receives raw frames pushed by connected clients.
type FrameSink interface {
	Put(frame []byte)
}

// Hub distribui eventos de reconhecimento para todos os clientes
// conectados e encaminha frames recebidos para o buffer da sessão.
type Hub struct {
	clients    map[*Client]bool
	frames     FrameSink
	broadcast  chan Event
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a hub. frames may be nil when frame intake over the
// socket is disabled.
func NewHub(frames FrameSink) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		frames:     frames,
		broadcast:  make(chan Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = true
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
}

func (h *Hub) broadcastEvent(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	message, err := json.Marshal(event)
	if err != nil {
		return
	}

	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			close(client.send)
			delete(h.clients, client)
		}
	}
}

// Broadcast enqueues an event for all connected clients. Drops the event
// when the queue is full rather than blocking the recognition loop.
func (h *Hub) Broadcast(eventType EventType, data interface{}) {
	event := Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
	}

	select {
	case h.broadcast <- event:
	default:
	}
}

// BroadcastJSON adapts Broadcast to the recognition loop's publisher
// interface.
func (h *Hub) BroadcastJSON(event string, payload any) {
	h.Broadcast(EventType(event), payload)
}

// ConnectedClients returns the number of live connections.
func (h *Hub) ConnectedClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
