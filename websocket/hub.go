package websocket

import (
	"context"
	"log"

	"github.com/google/uuid"
)

const sendBuffer = 32

// Client is one authenticated chat connection.
type Client struct {
	// ConnID tells connections apart, including several from the same user.
	ConnID uuid.UUID
	UserID uuid.UUID
	Role   string

	send   chan []byte
	closed bool
	rooms  map[string]struct{}
	done   chan struct{}
}

func NewClient(userID uuid.UUID, role string) *Client {
	return &Client{
		ConnID: uuid.New(),
		UserID: userID,
		Role:   role,
		send:   make(chan []byte, sendBuffer),
		rooms:  make(map[string]struct{}),
		done:   make(chan struct{}),
	}
}

// Send yields frames queued for this client. It is closed when the hub drops the client.
func (c *Client) Send() <-chan []byte {
	return c.send
}

// Done is closed once WritePump has returned.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

type membership struct {
	client *Client
	room   string
}

type directFrame struct {
	client *Client
	frame  []byte
}

// Hub owns room membership. All state is touched only by the Run goroutine.
type Hub struct {
	broker Broker

	register   chan *Client
	unregister chan *Client
	join       chan membership
	direct     chan directFrame
	deliver    chan Envelope
	done       chan struct{}

	clients map[*Client]struct{}
	rooms   map[string]map[*Client]struct{}
}

func NewHub(broker Broker) *Hub {
	return &Hub{
		broker:     broker,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		join:       make(chan membership),
		direct:     make(chan directFrame),
		deliver:    make(chan Envelope),
		done:       make(chan struct{}),
		clients:    make(map[*Client]struct{}),
		rooms:      make(map[string]map[*Client]struct{}),
	}
}

// Run serves the hub until ctx is done, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	if err := h.broker.Subscribe(ctx, h.enqueue); err != nil {
		log.Printf("🔥 Chat hub could not subscribe to broker: %v", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
		case c := <-h.unregister:
			h.drop(c)
		case m := <-h.join:
			if _, ok := h.clients[m.client]; !ok {
				continue
			}
			members, ok := h.rooms[m.room]
			if !ok {
				members = make(map[*Client]struct{})
				h.rooms[m.room] = members
			}
			members[m.client] = struct{}{}
			m.client.rooms[m.room] = struct{}{}
		case d := <-h.direct:
			if _, ok := h.clients[d.client]; ok {
				h.push(d.client, d.frame)
			}
		case env := <-h.deliver:
			h.fanout(env)
		}
	}
}

func (h *Hub) enqueue(env Envelope) {
	select {
	case h.deliver <- env:
	case <-h.done:
	}
}

func (h *Hub) fanout(env Envelope) {
	for c := range h.rooms[env.Room] {
		if c.ConnID.String() == env.Origin {
			continue
		}
		h.push(c, env.Frame)
	}
}

// push never blocks the hub; a client whose queue is full is disconnected.
func (h *Hub) push(c *Client, frame []byte) {
	select {
	case c.send <- frame:
	default:
		log.Printf("⚠️ Chat client %s is not keeping up, disconnecting", c.UserID)
		h.drop(c)
	}
}

func (h *Hub) drop(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	for room := range c.rooms {
		members := h.rooms[room]
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	c.closed = true
	close(c.send)
}

func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
	}
}

// Unregister drops c and closes its queue, which stops its WritePump.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
		// Run dropped every client it knew before exiting.
		if !c.closed {
			c.closed = true
			close(c.send)
		}
	}
}

func (h *Hub) Join(c *Client, room string) {
	select {
	case h.join <- membership{client: c, room: room}:
	case <-h.done:
	}
}

// Reply queues a frame for c alone.
func (h *Hub) Reply(c *Client, frame []byte) {
	select {
	case h.direct <- directFrame{client: c, frame: frame}:
	case <-h.done:
	}
}

// Publish sends an event to everyone in room. A non-nil origin is skipped.
func (h *Hub) Publish(ctx context.Context, room string, origin *Client, event string, data interface{}) error {
	frame, err := Encode(event, data)
	if err != nil {
		return err
	}
	env := Envelope{Room: room, Frame: frame}
	if origin != nil {
		env.Origin = origin.ConnID.String()
	}
	return h.broker.Publish(ctx, env)
}
