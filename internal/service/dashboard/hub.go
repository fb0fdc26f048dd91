package dashboard

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/logger"
	"github.com/dukcapil-tegal/ajuan-monitor/internal/pkg/metrics"
)

type Event string

const (
	EventDashboard Event = "dashboard"
	EventTick      Event = "tick"
)

type Message struct {
	Event Event `json:"event"`
	Data  any   `json:"data,omitempty"`
}

const clientBuffer = 8

type Client struct {
	ID       uuid.UUID
	View     View
	Outbound chan Message

	// logCtx carries the request fields of the stream that owns the client.
	logCtx context.Context
}

// Hub keeps the stream clients grouped by the view they watch.
type Hub struct {
	mu      sync.RWMutex
	clients map[View]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[View]map[*Client]struct{})}
}

func (h *Hub) Register(ctx context.Context, view View) *Client {
	c := &Client{
		ID:       uuid.New(),
		View:     view,
		Outbound: make(chan Message, clientBuffer),
		logCtx:   context.WithoutCancel(ctx),
	}

	h.mu.Lock()
	set, ok := h.clients[view]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[view] = set
	}
	set[c] = struct{}{}
	h.mu.Unlock()

	metrics.SSEClients.Inc()
	return c
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[c.View]
	if !ok {
		return
	}
	if _, ok = set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.View)
	}
	metrics.SSEClients.Dec()
}

// Views lists the views that currently have at least one client.
func (h *Hub) Views() []View {
	h.mu.RLock()
	defer h.mu.RUnlock()

	views := make([]View, 0, len(h.clients))
	for v := range h.clients {
		views = append(views, v)
	}
	return views
}

func (h *Hub) Broadcast(view View, msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients[view] {
		h.send(c, msg)
	}
}

func (h *Hub) BroadcastAll(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, set := range h.clients {
		for c := range set {
			h.send(c, msg)
		}
	}
}

// send never blocks; a client that cannot keep up misses the message.
func (h *Hub) send(c *Client, msg Message) {
	select {
	case c.Outbound <- msg:
	default:
		logger.Warn(c.logCtx, "dropping stream message; outbound buffer full", "client_id", c.ID.String(), "event", string(msg.Event))
	}
}
