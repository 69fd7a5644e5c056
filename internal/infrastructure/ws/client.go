package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

// Client is one browser following the feed of a room. The feed is one-way;
// anything the browser sends is discarded.
//
// WriteMessage is the only writer of conn; ReadMessage the only reader.
type Client struct {
	conn      *websocket.Conn
	closeOnce sync.Once
	Message   chan *WSMessage
	ID        string `json:"id"`
	Room      string `json:"room"`
}

func NewClient(conn *websocket.Conn, id, room string) *Client {
	return &Client{
		conn:    conn,
		Message: make(chan *WSMessage, 64), // buffered to avoid dead-locks on slow clients
		ID:      id,
		Room:    room,
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() { _ = c.conn.Close() })
}

// ReadMessage drains the connection so control frames are handled, and
// unregisters the client once it goes away.
func (c *Client) ReadMessage(core *Core) {
	defer func() {
		core.Unregister(c)
		c.close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				core.logger.Debug("feed read error", zap.String("client", c.ID), zap.Error(err))
			}
			return
		}
	}
}

// WriteMessage sends queued messages until the core closes Message, then
// says goodbye with a close frame.
func (c *Client) WriteMessage(logger *zap.Logger) {
	defer c.close()

	for msg := range c.Message {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(msg); err != nil {
			logger.Debug("feed write error", zap.String("client", c.ID), zap.Error(err))
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
}
