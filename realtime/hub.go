package realtime

import (
	"log"
	"sync"
	"time"
)

// NotificationEvent is the event identifier attached to every pushed payload.
const NotificationEvent = "new_notification"

// Per-client outbound buffer. When a client falls this far behind, further
// pushes to it are dropped; the notification is already persisted and will
// be picked up on the next pull.
const sendBufferSize = 16

// writeWait bounds how long a single frame write may take before the
// connection is considered dead.
const writeWait = 10 * time.Second

// Envelope is the wire format of a push.
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Conn is what the hub needs from a transport connection.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// deadlineConn is satisfied by transports that support write deadlines
// (the gorilla connection does; test fakes need not).
type deadlineConn interface {
	SetWriteDeadline(t time.Time) error
}

// Client is one registered connection of an authenticated user. A user with
// several open connections (two browser tabs) has several clients in the
// same room. Each client owns a writer goroutine; dispatch only enqueues,
// so a stalled connection can never block the caller.
type Client struct {
	userID string
	conn   Conn
	send   chan Envelope
	done   chan struct{}
	once   sync.Once
}

func (c *Client) close() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// writePump drains the send buffer onto the connection until the client is
// closed. Write failures are logged; the read pump notices the broken
// connection and unregisters it.
func (c *Client) writePump() {
	for {
		select {
		case <-c.done:
			return
		case envelope := <-c.send:
			if dc, ok := c.conn.(deadlineConn); ok {
				dc.SetWriteDeadline(time.Now().Add(writeWait))
			}
			if err := c.conn.WriteJSON(envelope); err != nil {
				log.Printf("Failed to push notification to user %s: %v", c.userID, err)
			}
		}
	}
}

// Hub is the in-memory routing table from user id to live connections.
// It is never persisted; its lifetime is the process lifetime.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Client]struct{})}
}

// Register joins a connection to its user's room, creating the room on
// first use, and starts the client's writer.
func (h *Hub) Register(userID string, conn Conn) *Client {
	client := &Client{
		userID: userID,
		conn:   conn,
		send:   make(chan Envelope, sendBufferSize),
		done:   make(chan struct{}),
	}

	h.mu.Lock()
	room, ok := h.rooms[userID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[userID] = room
	}
	room[client] = struct{}{}
	h.mu.Unlock()

	go client.writePump()
	return client
}

// Unregister removes a connection from its room and stops its writer;
// empty rooms are discarded.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.userID]
	if ok {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, client.userID)
		}
	}
	h.mu.Unlock()

	client.close()
}

// Dispatch enqueues the payload for every live connection of the user and
// returns immediately. An unknown user is a no-op, not an error. A client
// whose buffer is full has the push dropped: delivery is at-most-once and
// must never stall the report mutation that triggered it.
func (h *Hub) Dispatch(userID string, payload interface{}) {
	h.mu.RLock()
	room := h.rooms[userID]
	clients := make([]*Client, 0, len(room))
	for client := range room {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	if len(clients) == 0 {
		return
	}

	envelope := Envelope{Event: NotificationEvent, Data: payload}
	for _, client := range clients {
		select {
		case client.send <- envelope:
		default:
			log.Printf("Dropping notification push for user %s: connection too slow", userID)
		}
	}
}

// RoomSize returns the number of live connections for a user.
func (h *Hub) RoomSize(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[userID])
}
