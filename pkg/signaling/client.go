package signaling

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"roomrelay/pkg/util"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 10000

	// Outbound buffer per connection. Sends are fire-and-forget: a
	// full buffer drops the message rather than blocking the hub.
	sendBufferSize = 100
)

// Client is one websocket connection. Its read pump feeds decoded
// frames into the hub loop; the hub pushes outbound messages into the
// buffered send channel drained by the write pump.
type Client struct {
	ID string

	hub  *Hub
	conn *websocket.Conn
	send chan *Message
	log  *logrus.Entry
}

// NewClient registers a fresh connection with the hub and starts its
// pumps. The id is the connection identifier the server assigned
// during the upgrade; it is never reused after disconnect.
func NewClient(id string, conn *websocket.Conn, hub *Hub) *Client {
	c := &Client{
		ID:   id,
		hub:  hub,
		conn: conn,
		send: make(chan *Message, sendBufferSize),
		log:  util.Component("client").WithField("conn_id", id),
	}

	hub.register <- c
	go c.writePump()
	go c.readPump()
	return c
}

// enqueue hands a message to the write pump without blocking. Called
// only from the hub loop, which guarantees the channel is still open.
func (c *Client) enqueue(msg *Message) {
	select {
	case c.send <- msg:
	default:
		c.log.WithField("event", msg.Event).Warn("send buffer full, dropping message")
	}
}

// readPump pumps frames from the websocket into the hub. It exits on
// any read error and unregisters the connection, which is how the hub
// learns about disconnects.
func (c *Client) readPump() {
	defer func() {
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
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.WithError(err).Error("websocket read error")
			} else {
				c.log.WithError(err).Debug("websocket closed")
			}
			break
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.log.WithError(err).Warn("ignoring unparseable frame")
			continue
		}

		c.hub.events <- event{client: c, name: env.Event, data: env.Data}
	}
}

// writePump pumps messages from the send channel to the websocket and
// keeps the connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel on unregister.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(msg)
			if err != nil {
				c.log.WithError(err).Error("error marshaling message")
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.log.WithError(err).Debug("websocket write error")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.WithError(err).Debug("error sending ping")
				return
			}
		}
	}
}
