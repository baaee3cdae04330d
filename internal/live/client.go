package live

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
	sendBufferSize = 32
)

// Client is one websocket subscriber. The read pump handles join/leave
// requests; the write pump drains the send buffer so Publish never writes
// to the socket directly. send is never closed; shutdown is signalled on
// done, so the hub and the read pump can race close against enqueue safely.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan Event
	done chan struct{}
	log  *logrus.Logger

	closeOnce sync.Once
}

func NewClient(hub *Hub, conn *websocket.Conn, log *logrus.Logger) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan Event, sendBufferSize),
		done: make(chan struct{}),
		log:  log,
	}
}

// Run starts both pumps and blocks until the connection is gone.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Remove(c)
		c.close()
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
				c.log.WithError(err).Debug("websocket read failed")
			}
			return
		}

		var req clientRequest
		if err := json.Unmarshal(data, &req); err != nil {
			c.sendError("malformed request")
			continue
		}
		c.handle(req)
	}
}

func (c *Client) handle(req clientRequest) {
	switch req.Action {
	case "join_session":
		if req.Session == "" {
			c.sendError("session is required")
			return
		}
		c.hub.Subscribe(req.Session, c)
		c.ack("joined", req.Session)
	case "leave_session":
		if req.Session == "" {
			c.sendError("session is required")
			return
		}
		c.hub.Unsubscribe(req.Session, c)
		c.ack("left", req.Session)
	default:
		c.sendError("unknown action")
	}
}

func (c *Client) ack(status, room string) {
	ev, err := NewEvent(EventMessage, room, map[string]string{"status": status, "session": room})
	if err != nil {
		return
	}
	c.enqueue(ev)
}

func (c *Client) sendError(msg string) {
	ev, err := NewEvent(EventError, "", map[string]string{"error": msg})
	if err != nil {
		return
	}
	c.enqueue(ev)
}

// enqueue drops the event when the client is shutting down or its buffer
// is full; it never blocks and never panics.
func (c *Client) enqueue(ev Event) {
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.send <- ev:
	default:
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case ev := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// close signals shutdown exactly once. Only done is closed, never send:
// the write pump sees done, sends the close frame, and drops the socket.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}
