// Package websocket pushes notifications to connected clients. Delivery is
// best-effort: a slow or disconnected client is dropped, and the
// notification row in the database remains the source of truth.
package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// notice is a message addressed to a single profile's connections.
type notice struct {
	recipientID string
	payload     []byte
}

// Hub maintains the set of active clients and routes notices to the
// connections belonging to their recipient.
type Hub struct {
	clients    map[*Client]bool
	direct     chan notice
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
}

// NewHub creates a hub ready to Run.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		direct:     make(chan notice, 64),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run processes registration and message routing. Call in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
		case n := <-h.direct:
			for client := range h.clients {
				if client.profileID != n.recipientID {
					continue
				}
				select {
				case client.send <- n.payload:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// NotifyUser sends v (JSON-encoded) to every connection of the profile.
// Failures are logged, never returned; realtime delivery is best-effort.
func (h *Hub) NotifyUser(profileID string, v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		log.Printf("Failed to encode notification payload: %v", err)
		return
	}
	h.direct <- notice{recipientID: profileID, payload: payload}
}

// Broadcast sends a message to every connected client.
func (h *Hub) Broadcast(message []byte) {
	h.broadcast <- message
}

// Client is a middleman between a websocket connection and the hub.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	profileID string
}

// ServeWs upgrades the request and registers the connection for the
// authenticated profile.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request, profileID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Websocket upgrade failed: %v", err)
		return
	}
	client := &Client{hub: h, conn: conn, send: make(chan []byte, 16), profileID: profileID}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump drains inbound frames (the client never sends anything we act
// on) and detects disconnects.
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
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump forwards hub messages to the connection and keeps it alive
// with pings.
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
