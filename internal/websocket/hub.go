package chatws

import (
	"context"
	"encoding/json"
	"log"
	"time"

	websocket "github.com/gofiber/contrib/websocket"

	"github.com/codecraftwt/yau-coach-panel/internal/chat"
	"github.com/codecraftwt/yau-coach-panel/internal/models"
)

// Hub fans room snapshots out to connected websocket clients. Each room with
// at least one client holds a single live chat channel subscription; the
// subscription is torn down when the last client leaves.
type Hub struct {
	channel    *chat.Channel
	rooms      map[string]*room
	register   chan *Client
	unregister chan *Client
	broadcast  chan *roomSnapshot
}

type room struct {
	clients map[*Client]struct{}
	cancel  func()
}

type roomSnapshot struct {
	roomID   string
	messages []models.GroupMessage
}

type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	roomID  string
	profile *models.Profile
	send    chan []byte
}

type Frame struct {
	Type     string                `json:"type"`
	Messages []models.GroupMessage `json:"messages,omitempty"`
	Error    string                `json:"error,omitempty"`
}

func NewHub(channel *chat.Channel) *Hub {
	return &Hub{
		channel:    channel,
		rooms:      make(map[string]*room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *roomSnapshot, 64),
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, roomID string, profile *models.Profile) *Client {
	return &Client{
		hub:     hub,
		conn:    conn,
		roomID:  roomID,
		profile: profile,
		send:    make(chan []byte, 32),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.join(client)
		case client := <-h.unregister:
			h.leave(client)
		case snapshot := <-h.broadcast:
			h.deliver(snapshot)
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) join(client *Client) {
	r, ok := h.rooms[client.roomID]
	if !ok {
		roomID := client.roomID
		cancel, err := h.channel.Subscribe(roomID, func(messages []models.GroupMessage) {
			h.broadcast <- &roomSnapshot{roomID: roomID, messages: messages}
		})
		if err != nil {
			log.Printf("ws: room %s subscription failed: %v", roomID, err)
			close(client.send)
			return
		}
		r = &room{clients: make(map[*Client]struct{}), cancel: cancel}
		h.rooms[roomID] = r
	}
	r.clients[client] = struct{}{}
}

func (h *Hub) leave(client *Client) {
	r, ok := h.rooms[client.roomID]
	if !ok {
		return
	}
	if _, exists := r.clients[client]; exists {
		delete(r.clients, client)
		close(client.send)
	}
	if len(r.clients) == 0 {
		r.cancel()
		delete(h.rooms, client.roomID)
	}
}

func (h *Hub) deliver(snapshot *roomSnapshot) {
	r, ok := h.rooms[snapshot.roomID]
	if !ok {
		return
	}

	payload, err := json.Marshal(Frame{Type: "snapshot", Messages: snapshot.messages})
	if err != nil {
		log.Printf("ws: encode snapshot: %v", err)
		return
	}

	for client := range r.clients {
		select {
		case client.send <- payload:
		default:
			// Slow consumer; drop it rather than stall the room.
			delete(r.clients, client)
			close(client.send)
		}
	}
	if len(r.clients) == 0 {
		r.cancel()
		delete(h.rooms, snapshot.roomID)
	}
}

func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var incoming struct {
			Type string `json:"type"`
			Text string `json:"text"`
		}
		if err := json.Unmarshal(payload, &incoming); err != nil {
			writeError(c, "invalid message payload")
			continue
		}
		if incoming.Type != "message" {
			writeError(c, "unsupported message type")
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		_, err = c.hub.channel.Send(ctx, c.roomID, c.profile, incoming.Text)
		cancel()
		if err != nil {
			writeError(c, "failed to send message")
			continue
		}
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

func writeError(client *Client, message string) {
	payload, err := json.Marshal(Frame{Type: "error", Error: message})
	if err != nil {
		return
	}
	select {
	case client.send <- payload:
	default:
		client.hub.Unregister(client)
	}
}
