package relay

import (
	"fmt"
	"time"
)

type EventType string

const (
	EventHypeUpdate   EventType = "hype_update"
	EventLiveActivity EventType = "live_activity"
	EventChatMessage  EventType = "chat_message"
	EventGameUpdate   EventType = "game_update"
	EventNotification EventType = "notification"
)

// Event is a server→client message fanned out to every connection in a
// room. Delivery is best effort: no acks, no replay for late joiners,
// ordering only within one room on one process.
type Event struct {
	Room   string         `json:"room"`
	Type   EventType      `json:"type"`
	Data   map[string]any `json:"data,omitempty"`
	SentAt time.Time      `json:"sent_at"`
}

const (
	ActionJoinRoom     = "join_room"
	ActionLeaveRoom    = "leave_room"
	ActionChatMessage  = "chat_message"
	ActionSendHype     = "send_hype"
	ActionSendReaction = "send_reaction"
	ActionUpdateStatus = "update_status"
)

// ClientMessage is the inbound client→server frame. Unknown or malformed
// frames are logged and dropped without closing the connection.
type ClientMessage struct {
	Action       string `json:"action"`
	Room         string `json:"room,omitempty"`
	Message      string `json:"message,omitempty"`
	TargetUserID string `json:"target_user_id,omitempty"`
	Amount       int    `json:"amount,omitempty"`
	EventID      string `json:"event_id,omitempty"`
	Reaction     string `json:"reaction,omitempty"`
	Status       string `json:"status,omitempty"`
}

func UserRoom(userID string) string { return fmt.Sprintf("user_%s", userID) }

func OrgRoom(orgID string) string { return fmt.Sprintf("org_%s", orgID) }

func EventRoom(eventID string) string { return fmt.Sprintf("event_%s", eventID) }
