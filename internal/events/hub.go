// Package events relays "actions" frames between connected websocket clients.
package events

import (
	"context"
	"sort"
	"sync"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// EventActions is the only event clients may publish; it is rebroadcast to everyone.
const EventActions = "actions"

// Message is a websocket frame: {"event": "...", "data": ...}.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Hub owns the client set. Run must be running for Register, Unregister
// and Broadcast to make progress.
type Hub struct {
	clients    map[*Client]struct{}
	broadcast  chan []byte
	Register   chan *Client
	Unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	log        *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan []byte, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        log.Named("events"),
	}
}

// Run serves the hub until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			n := h.closeAll()
			h.log.Info("hub stopped", zap.Int("clients_closed", n))
			return ctx.Err()
		case c := <-h.Register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			n := len(h.clients)
			h.mu.Unlock()
			h.log.Debug("client connected", zap.Uint64("client", c.id), zap.Int("total", n))
		case c := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			n := len(h.clients)
			h.mu.Unlock()
			h.log.Debug("client disconnected", zap.Uint64("client", c.id), zap.Int("total", n))
		case frame := <-h.broadcast:
			h.fanOut(frame)
		}
	}
}

// Publish encodes msg and queues it for every client. It returns false when
// the hub is stopped or its queue is full.
func (h *Hub) Publish(msg Message) bool {
	frame, err := json.Marshal(msg)
	if err != nil {
		h.log.Warn("encode frame", zap.Error(err))
		return false
	}
	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.broadcast <- frame:
		return true
	default:
		h.log.Warn("broadcast queue full, frame dropped", zap.String("event", msg.Event))
		return false
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) sorted() []*Client {
	out := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// fanOut delivers frame to each client; clients whose buffer is full are dropped.
func (h *Hub) fanOut(frame []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.sorted() {
		select {
		case c.send <- frame:
		default:
			close(c.send)
			delete(h.clients, c)
			h.log.Warn("slow client dropped", zap.Uint64("client", c.id))
		}
	}
}

func (h *Hub) closeAll() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients := h.sorted()
	for _, c := range clients {
		close(c.send)
		delete(h.clients, c)
	}
	return len(clients)
}

func (h *Hub) register(c *Client) bool {
	select {
	case h.Register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) unregister(c *Client) {
	select {
	case h.Unregister <- c:
	case <-h.done:
	}
}
