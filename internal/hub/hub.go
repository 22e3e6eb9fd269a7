package hub

import (
	"encoding/json"
	"sync"

	"github.com/BlackEmpir7199/StudySphere/internal/config"
	"github.com/BlackEmpir7199/StudySphere/pkg/log"
)

// Hub owns the channel membership registry: channel id -> set of connected
// clients. Join, leave and disconnect cleanup are synchronous and mutually
// exclusive; broadcast fan-out runs on a single loop so delivery order to a
// room matches enqueue order.
type Hub struct {
	clients   map[string]*Client            // sessionID -> client
	rooms     map[string]map[string]*Client // channelID -> sessionID -> client
	broadcast chan *roomEvent
	mu        sync.RWMutex
	config    config.WebSocketConfig
}

type roomEvent struct {
	ChannelID string
	Data      []byte
	Exclude   string // session ID to exclude, empty for none
}

// NewHub creates an empty hub.
func NewHub(cfg config.WebSocketConfig) *Hub {
	return &Hub{
		clients:   make(map[string]*Client),
		rooms:     make(map[string]map[string]*Client),
		broadcast: make(chan *roomEvent, 256),
		config:    cfg,
	}
}

// Run consumes the broadcast queue. Must run in its own goroutine.
func (h *Hub) Run() {
	for msg := range h.broadcast {
		h.mu.RLock()
		if members, ok := h.rooms[msg.ChannelID]; ok {
			for sessionID, client := range members {
				if sessionID == msg.Exclude {
					continue
				}
				select {
				case client.Send <- msg.Data:
				default:
					// Slow consumer, drop the connection.
					go h.Unregister(client)
				}
			}
		}
		h.mu.RUnlock()
	}
}

// Register adds a connected client to the hub.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client.ID] = client
	h.mu.Unlock()

	l := log.L()
	l.Debug().Str(log.FieldSessionID, client.ID).Msg("client registered")
}

// Unregister removes the client from every room it joined and closes its
// send queue, atomically with respect to join/leave/broadcast enumeration.
// Returns the channels the client was removed from. Safe to call twice.
func (h *Hub) Unregister(client *Client) []string {
	var left []string

	h.mu.Lock()
	if _, ok := h.clients[client.ID]; ok {
		for channelID, members := range h.rooms {
			if _, in := members[client.ID]; in {
				delete(members, client.ID)
				left = append(left, channelID)
				if len(members) == 0 {
					delete(h.rooms, channelID)
				}
			}
		}
		delete(h.clients, client.ID)
		client.close()
	}
	h.mu.Unlock()

	l := log.L()
	l.Debug().Str(log.FieldSessionID, client.ID).Msg("client unregistered")
	return left
}

// JoinChannel adds the client to a channel room, creating the room if
// absent. Joining an already-joined channel is a no-op.
func (h *Hub) JoinChannel(client *Client, channelID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return // already unregistered
	}
	if _, ok := h.rooms[channelID]; !ok {
		h.rooms[channelID] = make(map[string]*Client)
	}
	h.rooms[channelID][client.ID] = client
}

// LeaveChannel removes the client from a channel room. Leaving a channel
// never joined is a no-op. Empty rooms are dropped.
func (h *Hub) LeaveChannel(client *Client, channelID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.rooms[channelID]; ok {
		delete(members, client.ID)
		if len(members) == 0 {
			delete(h.rooms, channelID)
		}
	}
}

// Members returns a snapshot of the session ids in a channel room.
func (h *Hub) Members(channelID string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	members, ok := h.rooms[channelID]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(members))
	for id := range members {
		out = append(out, id)
	}
	return out
}

// MemberCount returns the number of sessions in a channel room.
func (h *Hub) MemberCount(channelID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[channelID])
}

// Broadcast marshals the event and queues it for every member of the
// channel room. Pass an empty exclude to include all members.
func (h *Hub) Broadcast(channelID string, event interface{}, exclude string) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	h.broadcast <- &roomEvent{
		ChannelID: channelID,
		Data:      data,
		Exclude:   exclude,
	}
	return nil
}
