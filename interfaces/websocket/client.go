package websocket

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4 * 1024

	// Send buffer size
	sendBufferSize = 64
)

// MessageHandler consumes client-originated messages beyond keepalives.
// A nil handler turns the connection into a pure viewer feed.
type MessageHandler interface {
	HandleClientMessage(c *Client, msg Message)
	ClientClosed(c *Client)
}

// Client represents one viewer connection.
type Client struct {
	id      string
	userID  string
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	handler MessageHandler
	logger  *zap.Logger
}

// NewClient creates a new WebSocket client
func NewClient(userID string, hub *Hub, conn *websocket.Conn, handler MessageHandler, logger *zap.Logger) *Client {
	id := uuid.New().String()
	return &Client{
		id:      id,
		userID:  userID,
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, sendBufferSize),
		handler: handler,
		logger: logger.With(
			zap.String("userID", userID),
			zap.String("connectionID", id),
		),
	}
}

// UserID returns the authenticated user behind this connection.
func (c *Client) UserID() string {
	return c.userID
}

// Send marshals an event and queues it for this client only. A full queue
// drops the event rather than blocking the caller.
func (c *Client) Send(eventType string, data interface{}) error {
	var raw json.RawMessage
	if data != nil {
		encoded, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to marshal event data: %w", err)
		}
		raw = encoded
	}
	message, err := json.Marshal(Message{
		Type:      eventType,
		Data:      raw,
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	select {
	case c.send <- message:
		return nil
	default:
		return fmt.Errorf("send queue full")
	}
}

// Start begins the client's read and write pumps
func (c *Client) Start() {
	c.hub.register <- c

	go c.writePump()
	go c.readPump()

	c.sendConnectionEstablished()
}

// readPump pumps messages from the WebSocket connection. Pongs refresh the
// read deadline; anything else goes to the message handler.
func (c *Client) readPump() {
	defer func() {
		if c.handler != nil {
			c.handler.ClientClosed(c)
		}
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket read error", zap.Error(err))
			}
			break
		}
		if messageType == websocket.TextMessage {
			c.handleTextMessage(message)
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
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
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Error("Failed to write message", zap.Error(err))
				return
			}

			// Drain whatever queued up behind this message.
			n := len(c.send)
			for i := 0; i < n; i++ {
				if err := c.conn.WriteMessage(websocket.TextMessage, <-c.send); err != nil {
					c.logger.Error("Failed to write batched message", zap.Error(err))
					return
				}
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleTextMessage(message []byte) {
	message = bytes.TrimSpace(message)
	if string(message) == `{"type":"pong"}` {
		return
	}

	var msg Message
	if err := json.Unmarshal(message, &msg); err != nil || msg.Type == "" {
		c.logger.Debug("Dropping unparseable client message", zap.String("message", string(message)))
		return
	}
	if c.handler == nil {
		c.logger.Debug("No handler for client message", zap.String("type", msg.Type))
		return
	}
	c.handler.HandleClientMessage(c, msg)
}

func (c *Client) sendConnectionEstablished() {
	message := fmt.Sprintf(
		`{"type":%q,"timestamp":%d,"data":{"connectionId":%q}}`,
		EventConnectionEstablished, time.Now().Unix(), c.id,
	)
	select {
	case c.send <- []byte(message):
	default:
		c.logger.Error("Failed to send connection established message")
	}
}
