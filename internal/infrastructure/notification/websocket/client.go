package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/naresh-2026/warehouseProducts/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10

	// Браузер шлет только control frames
	maxMessageSize = 512

	sendBuffer = 16
)

// Client это одна вкладка браузера, подписанная на live-reload
type Client struct {
	conn   *websocket.Conn
	hub    *Hub
	send   chan Message
	logger *logger.Logger

	closeOnce sync.Once
}

// NewClient создает клиента для уже установленного соединения
func NewClient(hub *Hub, conn *websocket.Conn, logger *logger.Logger) *Client {
	return &Client{
		conn:   conn,
		hub:    hub,
		send:   make(chan Message, sendBuffer),
		logger: logger,
	}
}

// Start регистрирует клиента в hub и запускает read/write циклы.
// Если hub уже остановлен, соединение закрывается и возвращается false.
func (c *Client) Start() bool {
	if !c.hub.Register(c) {
		c.close()
		return false
	}

	go c.writeLoop()
	go c.readLoop()
	return true
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		if err := c.conn.Close(); err != nil {
			c.logger.Debug("Reload connection close", "error", err.Error())
		}
	})
}

// readLoop держит read deadline и обрабатывает pong/close от браузера.
func (c *Client) readLoop() {
	defer func() {
		c.hub.Unregister(c)
		c.close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		// Содержимое сообщений не нужно, NextReader сам отбрасывает непрочитанное
		if _, _, err := c.conn.NextReader(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				c.logger.Warn("Reload client read failed", "error", err.Error())
			}
			return
		}
	}
}

// writeLoop шлет hello, затем сообщения hub и ping до закрытия канала send.
func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	if err := c.writeJSON(Message{Type: MessageTypeHello}); err != nil {
		c.logger.Debug("Reload hello write failed", "error", err.Error())
		return
	}

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				// hub отключил клиента
				_ = c.writeControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.writeJSON(message); err != nil {
				c.logger.Debug("Reload message write failed", "type", message.Type, "error", err.Error())
				return
			}

		case <-ticker.C:
			if err := c.writeControl(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) writeJSON(message Message) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(message)
}

func (c *Client) writeControl(messageType int, data []byte) error {
	return c.conn.WriteControl(messageType, data, time.Now().Add(writeWait))
}
