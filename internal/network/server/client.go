package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/podkidnoy/durak-server/internal/logger"
	"github.com/podkidnoy/durak-server/internal/network/protocol"
)

const (
	writeWait = 10 * time.Second

	// pong wait; ping period must stay below it
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 4096
)

// Client is one connected player.
type Client struct {
	ID     string
	Name   string
	RoomID string
	IP     string

	server *Server
	conn   *websocket.Conn
	send   chan []byte

	mu     sync.RWMutex
	closed bool
}

func NewClient(s *Server, conn *websocket.Conn) *Client {
	return &Client{
		ID:     uuid.New().String(),
		Name:   GenerateNickname(),
		server: s,
		conn:   conn,
		send:   make(chan []byte, 256),
	}
}

// ReadPump reads frames off the socket until it drops.
func (c *Client) ReadPump() {
	defer func() {
		c.handleDisconnect()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Warnf("read error: %v", err)
			}
			break
		}

		allowed, warning := c.server.messageLimiter.AllowMessage(c.ID)
		if !allowed {
			logger.Log.Warnf("⚠️ client %s (IP: %s) is sending too fast", c.Name, c.IP)
			c.SendMessage(protocol.NewErrorMessage(protocol.CodeRateLimit))
			if c.server.messageLimiter.GetWarningCount(c.ID) > 5 {
				logger.Log.Warnf("🚫 client %s disconnected for repeated flooding", c.Name)
				break
			}
			continue
		}
		if warning {
			c.SendMessage(protocol.NewErrorMessageWithText(protocol.CodeRateLimit, "slow down"))
		}

		msg, err := protocol.Decode(message)
		if err != nil {
			logger.Log.Warnf("message decode error: %v", err)
			c.SendMessage(protocol.NewErrorMessage(protocol.CodeInvalidMsg))
			continue
		}

		c.server.monitor.IncMessagesReceived()
		start := time.Now()
		c.server.handler.Handle(c, msg)
		c.server.monitor.ObserveMessageLatency(time.Since(start))
	}
}

// WritePump writes queued frames and keeps the connection pinged.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendMessage queues a message for delivery. Drops the connection when
// the buffer is full rather than blocking the caller.
func (c *Client) SendMessage(msg *protocol.Message) {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return
	}
	c.mu.RUnlock()

	data, err := msg.Encode()
	if err != nil {
		logger.Log.Errorf("message encode error: %v", err)
		return
	}

	select {
	case c.send <- data:
	default:
		logger.Log.Warnf("client %s send buffer full", c.ID)
		c.Close()
	}
}

func (c *Client) handleDisconnect() {
	c.server.sessionManager.SetOffline(c.ID)

	// the room decides: lobby players are unseated, playing players keep
	// their seat for the grace period
	c.server.roomManager.HandleDisconnect(c)

	c.server.messageLimiter.RemoveClient(c.ID)
	c.server.unregisterClient(c)
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *Client) SetRoom(roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.RoomID = roomID
}

func (c *Client) GetRoom() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.RoomID
}
