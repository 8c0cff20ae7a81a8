package relay

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/playcrest/playcrest-backend/internal/bots/safety"
	"github.com/playcrest/playcrest-backend/internal/platform/logger"
	"github.com/playcrest/playcrest-backend/internal/relay/bus"
	"github.com/playcrest/playcrest-backend/internal/stores"
)

func newTestHub(t *testing.T, moderator *safety.Moderator) *Hub {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger init: %v", err)
	}
	return NewHub(log, moderator, nil)
}

func receiveEvent(t *testing.T, client *Client) Event {
	t.Helper()
	select {
	case event := <-client.Outbound:
		return event
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for event on client %s", client.ID)
		return Event{}
	}
}

func TestRegister_JoinsPersonalAndSchoolRooms(t *testing.T) {
	hub := newTestHub(t, nil)

	client := hub.NewClient("u1", "Jordan", "athlete", "s1")
	hub.Register(client)

	if hub.RoomSize(UserRoom("u1")) != 1 {
		t.Fatalf("expected membership in personal room")
	}
	if hub.RoomSize(OrgRoom("s1")) != 1 {
		t.Fatalf("expected membership in school room")
	}
}

func TestBroadcast_DeliversToRoomMembersOnly(t *testing.T) {
	hub := newTestHub(t, nil)

	member := hub.NewClient("u1", "Jordan", "athlete", "s1")
	outsider := hub.NewClient("u2", "Sam", "athlete", "s2")
	hub.Register(member)
	hub.Register(outsider)

	hub.Broadcast(bus.Envelope{
		Room: OrgRoom("s1"),
		Type: string(EventGameUpdate),
		Data: map[string]any{"score": "21-14"},
	})

	event := receiveEvent(t, member)
	if event.Type != EventGameUpdate || event.Room != OrgRoom("s1") {
		t.Fatalf("unexpected event %+v", event)
	}
	select {
	case stray := <-outsider.Outbound:
		t.Fatalf("outsider received event %+v", stray)
	default:
	}
}

func TestBroadcast_DropsWhenOutboundBufferFull(t *testing.T) {
	hub := newTestHub(t, nil)

	client := hub.NewClient("u1", "Jordan", "athlete", "")
	hub.Register(client)

	for i := 0; i < cap(client.Outbound)+5; i++ {
		hub.Broadcast(bus.Envelope{Room: UserRoom("u1"), Type: string(EventNotification)})
	}
	if len(client.Outbound) != cap(client.Outbound) {
		t.Fatalf("expected full buffer, got %d", len(client.Outbound))
	}
}

func TestCloseClient_RemovesMembershipsAndIsIdempotent(t *testing.T) {
	hub := newTestHub(t, nil)

	client := hub.NewClient("u1", "Jordan", "athlete", "s1")
	hub.Register(client)
	hub.JoinRoom(client, EventRoom("game42"))

	hub.CloseClient(client)
	hub.CloseClient(client)

	if hub.RoomSize(UserRoom("u1")) != 0 || hub.RoomSize(OrgRoom("s1")) != 0 || hub.RoomSize(EventRoom("game42")) != 0 {
		t.Fatalf("close should clear every membership")
	}
	select {
	case _, ok := <-client.Outbound:
		if ok {
			t.Fatalf("outbound should be closed")
		}
	default:
		t.Fatalf("outbound should be closed, not empty-open")
	}
}

func TestMayJoin_RestrictsPersonalRooms(t *testing.T) {
	hub := newTestHub(t, nil)
	client := hub.NewClient("u1", "Jordan", "athlete", "s1")

	cases := []struct {
		room string
		want bool
	}{
		{UserRoom("u1"), true},
		{UserRoom("u2"), false},
		{OrgRoom("s9"), true},
		{EventRoom("game42"), true},
		{"lobby", false},
		{"", false},
	}
	for _, c := range cases {
		if got := client.mayJoin(c.room); got != c.want {
			t.Fatalf("mayJoin(%q) = %v, want %v", c.room, got, c.want)
		}
	}
}

func TestHandleChat_RequiresJoinedRoom(t *testing.T) {
	hub := newTestHub(t, nil)
	ctx := context.Background()

	sender := hub.NewClient("u1", "Jordan", "athlete", "s1")
	hub.Register(sender)

	sender.handle(ctx, ClientMessage{
		Action:  ActionChatMessage,
		Room:    EventRoom("game42"),
		Message: "hello",
	})
	select {
	case stray := <-sender.Outbound:
		t.Fatalf("chat to an unjoined room must be dropped, got %+v", stray)
	default:
	}
}

func TestHandleChat_ModeratesBeforeFanout(t *testing.T) {
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger init: %v", err)
	}
	moderator := safety.NewModerator(log, stores.NewMemorySafetyStore())
	hub := newTestHub(t, moderator)
	ctx := context.Background()

	sender := hub.NewClient("u1", "Jordan", "athlete", "s1")
	listener := hub.NewClient("u2", "Sam", "athlete", "s1")
	hub.Register(sender)
	hub.Register(listener)

	sender.handle(ctx, ClientMessage{
		Action:  ActionChatMessage,
		Room:    OrgRoom("s1"),
		Message: "you played like a loser today",
	})

	event := receiveEvent(t, listener)
	if event.Type != EventChatMessage {
		t.Fatalf("expected chat_message, got %q", event.Type)
	}
	text, _ := event.Data["message"].(string)
	if strings.Contains(strings.ToLower(text), "loser") {
		t.Fatalf("banned term reached the room: %q", text)
	}
}

func TestHandleHype_NotifiesTargetAndSchool(t *testing.T) {
	hub := newTestHub(t, nil)
	ctx := context.Background()

	sender := hub.NewClient("u1", "Jordan", "athlete", "s1")
	target := hub.NewClient("u2", "Sam", "athlete", "s2")
	hub.Register(sender)
	hub.Register(target)

	sender.handle(ctx, ClientMessage{
		Action:       ActionSendHype,
		TargetUserID: "u2",
		Amount:       5,
	})

	hype := receiveEvent(t, target)
	if hype.Type != EventHypeUpdate || hype.Room != UserRoom("u2") {
		t.Fatalf("unexpected hype event %+v", hype)
	}
	if hype.Data["amount"] != 5 {
		t.Fatalf("expected amount 5, got %v", hype.Data["amount"])
	}

	activity := receiveEvent(t, sender)
	if activity.Type != EventLiveActivity || activity.Room != OrgRoom("s1") {
		t.Fatalf("expected live_activity in sender school room, got %+v", activity)
	}
}

func TestHandleHype_RejectsNonPositiveAmount(t *testing.T) {
	hub := newTestHub(t, nil)
	ctx := context.Background()

	sender := hub.NewClient("u1", "Jordan", "athlete", "")
	target := hub.NewClient("u2", "Sam", "athlete", "")
	hub.Register(sender)
	hub.Register(target)

	sender.handle(ctx, ClientMessage{Action: ActionSendHype, TargetUserID: "u2", Amount: 0})
	select {
	case stray := <-target.Outbound:
		t.Fatalf("zero-amount hype must be dropped, got %+v", stray)
	default:
	}
}

func TestHandleReaction_FansOutToEventRoom(t *testing.T) {
	hub := newTestHub(t, nil)
	ctx := context.Background()

	sender := hub.NewClient("u1", "Jordan", "athlete", "")
	watcher := hub.NewClient("u2", "Sam", "athlete", "")
	hub.Register(sender)
	hub.Register(watcher)
	hub.JoinRoom(watcher, EventRoom("game42"))

	sender.handle(ctx, ClientMessage{
		Action:   ActionSendReaction,
		EventID:  "game42",
		Reaction: "🔥",
	})

	event := receiveEvent(t, watcher)
	if event.Type != EventLiveActivity || event.Room != EventRoom("game42") {
		t.Fatalf("unexpected reaction event %+v", event)
	}
	if event.Data["reaction"] != "🔥" {
		t.Fatalf("expected reaction payload, got %v", event.Data)
	}
}
