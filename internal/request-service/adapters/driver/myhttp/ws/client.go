package ws

import (
	"context"
	"encoding/json"

	websocketdto "fixmate/internal/request-service/core/domain/websocket_dto"

	"github.com/gorilla/websocket"
)

type Client struct {
	ctx    context.Context
	conn   *websocket.Conn
	dis    *Dispatcher
	egress chan websocketdto.Event
	userID string
}

func NewClient(ctx context.Context, conn *websocket.Conn, dis *Dispatcher, userID string) *Client {
	return &Client{
		ctx:    ctx,
		conn:   conn,
		dis:    dis,
		egress: make(chan websocketdto.Event, 8),
		userID: userID,
	}
}

// ReadMessage drains the connection until the peer goes away; inbound
// frames carry nothing the server acts on.
func (c *Client) ReadMessage() {
	defer c.dis.RemoveClient(c)

	c.conn.SetReadLimit(1024)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) WriteMessage() {
	for {
		select {
		case <-c.ctx.Done():
			c.conn.Close()
			return
		case event, ok := <-c.egress:
			if !ok {
				c.conn.Close()
				return
			}

			payload, err := json.Marshal(event)
			if err != nil {
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.dis.RemoveClient(c)
				return
			}
		}
	}
}
