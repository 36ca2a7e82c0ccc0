package ws

import (
	"github.com/gofiber/websocket/v2"
)

type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// ReadPump consumes inbound messages until the connection drops. Binary
// messages are camera frames and go to the hub's frame sink; everything
// else is ignored.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()
	}()

	for {
		msgType, payload, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		if msgType == websocket.BinaryMessage && c.hub.frames != nil {
			c.hub.frames.Put(payload)
		}
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}
