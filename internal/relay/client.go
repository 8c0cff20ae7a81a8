package relay

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/playcrest/playcrest-backend/internal/platform/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 4096
)

// Client is one authenticated websocket connection. Identity fields come
// from the verified handshake token, never from the socket itself.
type Client struct {
	ID       uuid.UUID
	UserID   string
	UserName string
	Role     string
	SchoolID string

	Rooms    map[string]bool
	Outbound chan Event

	conn      *websocket.Conn
	done      chan struct{}
	closeOnce sync.Once
	hub       *Hub
	log       *logger.Logger
}

// Attach binds the upgraded connection and starts both pumps. It returns
// when the read pump exits, i.e. when the connection is gone.
func (c *Client) Attach(ctx context.Context, conn *websocket.Conn) {
	c.conn = conn
	go c.writePump()
	c.readPump(ctx)
}

func (c *Client) readPump(ctx context.Context) {
	defer c.hub.CloseClient(c)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug("relay connection closed unexpectedly", "error", err)
			}
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.log.Warn("dropping malformed relay frame", "error", err)
			continue
		}
		c.handle(ctx, msg)
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
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case event, ok := <-c.Outbound:
			if !ok {
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(event); err != nil {
				c.log.Debug("relay write failed", "error", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handle(ctx context.Context, msg ClientMessage) {
	switch msg.Action {
	case ActionJoinRoom:
		if !c.mayJoin(msg.Room) {
			c.log.Warn("relay join refused", "room", msg.Room)
			return
		}
		c.hub.JoinRoom(c, msg.Room)
	case ActionLeaveRoom:
		c.hub.LeaveRoom(c, msg.Room)
	case ActionChatMessage:
		c.handleChat(ctx, msg)
	case ActionSendHype:
		c.handleHype(ctx, msg)
	case ActionSendReaction:
		c.handleReaction(ctx, msg)
	case ActionUpdateStatus:
		c.handleStatus(ctx, msg)
	default:
		c.log.Warn("dropping relay frame with unknown action", "action", msg.Action)
	}
}

// mayJoin lets a connection join any org or event room, but only its own
// personal room.
func (c *Client) mayJoin(room string) bool {
	room = strings.TrimSpace(room)
	switch {
	case room == "":
		return false
	case strings.HasPrefix(room, "user_"):
		return room == UserRoom(c.UserID)
	case strings.HasPrefix(room, "org_"), strings.HasPrefix(room, "event_"):
		return true
	default:
		return false
	}
}

func (c *Client) handleChat(ctx context.Context, msg ClientMessage) {
	if msg.Room == "" || strings.TrimSpace(msg.Message) == "" {
		c.log.Warn("dropping chat frame with missing room or message")
		return
	}
	if !c.Rooms[msg.Room] {
		c.log.Warn("dropping chat for room the sender has not joined", "room", msg.Room)
		return
	}

	text := msg.Message
	if c.hub.moderator != nil {
		check, err := c.hub.moderator.ModerateContent(ctx, text, c.UserID)
		if err != nil {
			c.log.Warn("chat moderation failed, dropping message", "error", err)
			return
		}
		text = check.Moderated
	}

	c.hub.Publish(ctx, Event{
		Room: msg.Room,
		Type: EventChatMessage,
		Data: map[string]any{
			"user_id":   c.UserID,
			"user_name": c.UserName,
			"message":   text,
		},
	})
}

func (c *Client) handleHype(ctx context.Context, msg ClientMessage) {
	if msg.TargetUserID == "" || msg.Amount <= 0 {
		c.log.Warn("dropping hype frame with missing target or non-positive amount")
		return
	}

	c.hub.Publish(ctx, Event{
		Room: UserRoom(msg.TargetUserID),
		Type: EventHypeUpdate,
		Data: map[string]any{
			"from_user_id": c.UserID,
			"from_name":    c.UserName,
			"amount":       msg.Amount,
		},
	})
	if c.SchoolID != "" {
		c.hub.Publish(ctx, Event{
			Room: OrgRoom(c.SchoolID),
			Type: EventLiveActivity,
			Data: map[string]any{
				"activity": "hype",
				"from":     c.UserName,
				"amount":   msg.Amount,
			},
		})
	}
}

func (c *Client) handleReaction(ctx context.Context, msg ClientMessage) {
	if msg.EventID == "" || msg.Reaction == "" {
		c.log.Warn("dropping reaction frame with missing event or reaction")
		return
	}
	c.hub.Publish(ctx, Event{
		Room: EventRoom(msg.EventID),
		Type: EventLiveActivity,
		Data: map[string]any{
			"activity": "reaction",
			"from":     c.UserName,
			"reaction": msg.Reaction,
			"event_id": msg.EventID,
		},
	})
}

func (c *Client) handleStatus(ctx context.Context, msg ClientMessage) {
	if msg.Status == "" || c.SchoolID == "" {
		return
	}
	c.hub.Publish(ctx, Event{
		Room: OrgRoom(c.SchoolID),
		Type: EventLiveActivity,
		Data: map[string]any{
			"activity": "status",
			"user_id":  c.UserID,
			"status":   msg.Status,
		},
	})
}
