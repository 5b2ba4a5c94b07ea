package realtime

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const ( // ping pong (2-way heartbeat) to keep connection alive
	WriteWait      = 10 * time.Second    // max time to write a message to the peer
	PongWait       = 60 * time.Second    // max time to wait for pong from peer
	PingPeriod     = (PongWait * 9) / 10 // send ping before pong wait expires
	MaxMessageSize = 512                 // maximum message size allowed from peer
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The change feed carries no sensitive data; origin policy is handled
	// by the CORS layer in front.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one WebSocket subscriber with its table filter.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	tables map[string]bool
}

func (c *Client) subscribed(table string) bool {
	return c.tables[table]
}

func (c *Client) tableNames() []string {
	names := make([]string, 0, len(c.tables))
	for t := range c.tables {
		names = append(names, t)
	}
	return names
}

// ServeWS upgrades the request and registers the client with the hub.
// GET /ws?tables=materials,categories (defaults to both).
func ServeWS(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		tables := map[string]bool{}
		raw := c.DefaultQuery("tables", TableMaterials+","+TableCategories)
		for _, t := range strings.Split(raw, ",") {
			t = strings.TrimSpace(t)
			if t == TableMaterials || t == TableCategories {
				tables[t] = true
			}
		}
		if len(tables) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no valid tables requested"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			hub.logger.Warn("websocket upgrade failed", "error", err)
			return
		}

		client := &Client{
			hub:    hub,
			conn:   conn,
			send:   make(chan []byte, 16),
			tables: tables,
		}
		hub.register <- client

		go client.writePump()
		go client.readPump()
	}
}

// readPump discards inbound frames; the feed is one-way. It exists to
// process pongs and detect closed connections.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(PongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
