package relay

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/playcrest/playcrest-backend/internal/bots/safety"
	"github.com/playcrest/playcrest-backend/internal/platform/logger"
	"github.com/playcrest/playcrest-backend/internal/relay/bus"
)

// Hub tracks room membership for live connections and fans events out to
// members. With a bus configured, every publish goes through the bus and
// comes back via the forwarder, so all instances (including the origin)
// deliver it; without one the hub is the degenerate single-node case.
type Hub struct {
	mu            sync.RWMutex
	log           *logger.Logger
	moderator     *safety.Moderator
	bus           bus.Bus
	subscriptions map[string]map[*Client]bool
}

func NewHub(baseLog *logger.Logger, moderator *safety.Moderator, eventBus bus.Bus) *Hub {
	return &Hub{
		log:           baseLog.With("component", "RelayHub"),
		moderator:     moderator,
		bus:           eventBus,
		subscriptions: make(map[string]map[*Client]bool),
	}
}

// StartForwarder begins delivering bus traffic locally. No-op without a bus.
func (h *Hub) StartForwarder(ctx context.Context) error {
	if h.bus == nil {
		return nil
	}
	return h.bus.StartForwarder(ctx, h.Broadcast)
}

// Register joins a freshly authenticated connection to its personal room
// and, when the claims carry a school, that school's room.
func (h *Hub) Register(client *Client) {
	h.JoinRoom(client, UserRoom(client.UserID))
	if client.SchoolID != "" {
		h.JoinRoom(client, OrgRoom(client.SchoolID))
	}
	h.log.Debug("relay client connected", "client_id", client.ID, "user_id", client.UserID)
}

func (h *Hub) JoinRoom(client *Client, room string) {
	room = strings.TrimSpace(room)
	if room == "" {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	client.Rooms[room] = true
	members, exists := h.subscriptions[room]
	if !exists {
		members = make(map[*Client]bool)
		h.subscriptions[room] = members
	}
	members[client] = true
	h.log.Debug("relay client joined room", "client_id", client.ID, "room", room)
}

func (h *Hub) LeaveRoom(client *Client, room string) {
	room = strings.TrimSpace(room)
	if room == "" {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	delete(client.Rooms, room)
	if members, ok := h.subscriptions[room]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(h.subscriptions, room)
		}
	}
	h.log.Debug("relay client left room", "client_id", client.ID, "room", room)
}

// RemoveClient drops a connection from every room it joined. Membership
// is connection-scoped; nothing survives a disconnect.
func (h *Hub) RemoveClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room := range client.Rooms {
		if members, ok := h.subscriptions[room]; ok {
			delete(members, client)
			if len(members) == 0 {
				delete(h.subscriptions, room)
			}
		}
	}
	client.Rooms = make(map[string]bool)
	h.log.Debug("relay client removed", "client_id", client.ID)
}

// Publish sends an event through the bus when one is configured,
// otherwise delivers locally.
func (h *Hub) Publish(ctx context.Context, event Event) {
	if event.SentAt.IsZero() {
		event.SentAt = time.Now()
	}
	if h.bus != nil {
		if err := h.bus.Publish(ctx, bus.Envelope{
			Room: event.Room,
			Type: string(event.Type),
			Data: event.Data,
		}); err != nil {
			h.log.Warn("bus publish failed, delivering locally", "room", event.Room, "error", err)
			h.Broadcast(bus.Envelope{Room: event.Room, Type: string(event.Type), Data: event.Data})
		}
		return
	}
	h.Broadcast(bus.Envelope{Room: event.Room, Type: string(event.Type), Data: event.Data})
}

// Broadcast fans an envelope out to the room's local members. Slow
// consumers get messages dropped rather than stalling the room.
func (h *Hub) Broadcast(envelope bus.Envelope) {
	if envelope.Room == "" {
		return
	}
	event := Event{
		Room:   envelope.Room,
		Type:   EventType(envelope.Type),
		Data:   envelope.Data,
		SentAt: time.Now(),
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	members, ok := h.subscriptions[envelope.Room]
	if !ok {
		return
	}
	for client := range members {
		select {
		case client.Outbound <- event:
		default:
			h.log.Warn("dropping relay event; outbound buffer full", "client_id", client.ID, "room", envelope.Room)
		}
	}
}

// RoomSize reports current local membership, mainly for tests and health.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscriptions[room])
}

// NewClient builds a connection record from verified handshake claims.
func (h *Hub) NewClient(userID, userName, role, schoolID string) *Client {
	id := uuid.New()
	return &Client{
		ID:       id,
		UserID:   userID,
		UserName: userName,
		Role:     role,
		SchoolID: schoolID,
		Rooms:    make(map[string]bool),
		Outbound: make(chan Event, 16),
		done:     make(chan struct{}),
		hub:      h,
		log:      h.log.With("client_id", id.String()),
	}
}

// CloseClient tears the connection down and forgets its memberships.
func (h *Hub) CloseClient(client *Client) {
	client.closeOnce.Do(func() {
		close(client.done)
		h.RemoveClient(client)
		close(client.Outbound)
	})
}
