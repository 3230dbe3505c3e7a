package window

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/jarvisdesk/jarvis/internal/bus"
)

// Hub owns the open connections and routes agent replies to them.
type Hub struct {
	bus bus.Bus

	mu      sync.RWMutex
	clients map[string]*client
}

// NewHub creates a Hub reading replies from b.
func NewHub(b bus.Bus) *Hub {
	return &Hub{bus: b, clients: make(map[string]*client)}
}

// Len returns the number of open connections.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	zap.L().Info("window: connected", zap.String("thread", c.id))
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if cur, ok := h.clients[c.id]; ok && cur == c {
		delete(h.clients, c.id)
		close(c.send)
	}
	h.mu.Unlock()
	zap.L().Info("window: disconnected", zap.String("thread", c.id))
}

// deliverTo queues f for c if c is still registered.
func (h *Hub) deliverTo(c *client, f Frame) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if cur, ok := h.clients[c.id]; ok && cur == c {
		c.deliver(f)
	}
}

// Run dispatches outbound messages until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case msg := <-h.bus.OutboundChan():
			h.dispatch(msg)
		case <-ctx.Done():
			h.closeAll()
			return ctx.Err()
		}
	}
}

func (h *Hub) dispatch(msg bus.OutboundMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	frames := framesFor(msg)
	switch msg.Channel {
	case bus.ChannelWindow:
		c, ok := h.clients[msg.ChatID]
		if !ok {
			zap.L().Debug("window: reply for closed thread", zap.String("thread", msg.ChatID))
			return
		}
		for _, f := range frames {
			c.deliver(f)
		}
	case bus.ChannelCron:
		for _, c := range h.clients {
			for _, f := range frames {
				c.deliver(f)
			}
		}
	default:
		zap.L().Debug("window: ignoring outbound", zap.String("channel", string(msg.Channel)))
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		close(c.send)
		delete(h.clients, id)
	}
}
