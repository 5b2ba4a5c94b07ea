package realtime

// Central hub managing all change-feed connections.
// Each WebSocket connection runs in its own goroutine
// but they all communicate through channels to avoid race conditions.

import (
	"context"
	"log/slog"
	"sync"
)

type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan *ChangeEvent

	mu        sync.RWMutex
	listeners []func(*ChangeEvent)

	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *ChangeEvent, 64),
		logger:     logger,
	}
}

// OnChange registers an in-process listener invoked for every published
// event, in addition to the WebSocket fan-out. Register before Run.
func (h *Hub) OnChange(fn func(*ChangeEvent)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, fn)
}

// Publish queues a change event for fan-out. Best-effort: if the hub is
// saturated the event is dropped, since a missed refresh only extends
// staleness by one round trip.
func (h *Hub) Publish(table string, action Action, recordID string) {
	select {
	case h.broadcast <- NewChangeEvent(table, action, recordID):
	default:
		h.logger.Warn("change feed saturated, dropping event", "table", table, "action", action)
	}
}

// Run processes registrations and broadcasts until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			h.logger.Debug("change feed client connected", "tables", client.tableNames())

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}

		case event := <-h.broadcast:
			h.mu.RLock()
			listeners := h.listeners
			h.mu.RUnlock()
			for _, fn := range listeners {
				go fn(event)
			}

			data, err := event.ToJSON()
			if err != nil {
				continue
			}
			for client := range h.clients {
				if !client.subscribed(event.Table) {
					continue
				}
				select {
				case client.send <- data:
				default:
					// slow consumer, drop it
					delete(h.clients, client)
					close(client.send)
				}
			}
		}
	}
}
