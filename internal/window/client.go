package window

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/jarvisdesk/jarvis/internal/bus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBuffer     = 64
)

// client is one browser tab. Its thread id doubles as the bus chat id.
type client struct {
	id   string
	conn *websocket.Conn
	send chan Frame
	hub  *Hub
}

// readPump forwards user messages to the agent until the socket closes.
func (c *client) readPump(ctx context.Context) {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Warn("window: read failed", zap.String("thread", c.id), zap.Error(err))
			}
			return
		}

		var in Frame
		if err := json.Unmarshal(data, &in); err != nil {
			zap.L().Debug("window: bad frame", zap.String("thread", c.id), zap.Error(err))
			continue
		}
		content := strings.TrimSpace(in.Content)
		if in.Type != FrameMessage || content == "" {
			continue
		}

		c.hub.deliverTo(c, busyFrame(true))
		msg := bus.NewInboundMessage(bus.ChannelWindow, "user", c.id, content)
		if err := c.hub.bus.PublishInbound(ctx, msg); err != nil {
			c.hub.deliverTo(c, Frame{Type: FrameMessage, Sender: SenderError, Content: "An error occurred: " + err.Error()})
			c.hub.deliverTo(c, busyFrame(false))
			return
		}
	}
}

// writePump drains the send queue and keeps the connection alive.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// deliver queues a frame without blocking the hub. A client that cannot
// keep up loses frames. Callers hold the hub lock.
func (c *client) deliver(f Frame) bool {
	select {
	case c.send <- f:
		return true
	default:
		zap.L().Warn("window: client queue full", zap.String("thread", c.id))
		return false
	}
}
