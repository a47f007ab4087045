package vent_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	vent "github.com/melo-wellness/melo/backend/internal/service/vent"
)

func newTestCoordinator() *vent.Coordinator {
	var seq int
	base := time.Date(2024, 10, 24, 12, 0, 0, 0, time.UTC)
	return vent.NewCoordinator(vent.Limits{},
		vent.WithClock(func() time.Time {
			seq++
			return base.Add(time.Duration(seq) * time.Second)
		}),
		vent.WithMessageIDs(func() string {
			seq++
			return fmt.Sprintf("msg_%04d", seq)
		}),
	)
}

func TestJoinRoomCapacity(t *testing.T) {
	c := newTestCoordinator()

	users := []string{"A", "B", "C", "D", "E"}
	for i, u := range users {
		res, err := c.JoinRoom(u, "User "+u, "r1", false)
		if err != nil {
			t.Fatalf("JoinRoom(%s) err: %v", u, err)
		}
		if res.ActiveUsers != i+1 {
			t.Fatalf("JoinRoom(%s) active users: got %d want %d", u, res.ActiveUsers, i+1)
		}
	}

	_, err := c.JoinRoom("F", "User F", "r1", false)
	if !vent.IsRoomFull(err) {
		t.Fatalf("expected RoomFullError, got %v", err)
	}
	if err.Error() != "room is full (max 5 users)" {
		t.Fatalf("unexpected error text: %q", err.Error())
	}

	stats, err := c.RoomStats("r1")
	if err != nil {
		t.Fatalf("RoomStats err: %v", err)
	}
	if stats.ActiveUserCount != 5 {
		t.Fatalf("participants after rejected join: got %d want 5", stats.ActiveUserCount)
	}
}

func TestJoinRoomIdempotent(t *testing.T) {
	c := newTestCoordinator()

	first, err := c.JoinRoom("A", "Ada", "r1", false)
	if err != nil {
		t.Fatalf("first join err: %v", err)
	}
	if _, err := c.SendMessage("A", "r1", "hello", ""); err != nil {
		t.Fatalf("SendMessage err: %v", err)
	}

	again, err := c.JoinRoom("A", "Ada", "r1", false)
	if err != nil {
		t.Fatalf("second join err: %v", err)
	}
	if again.ActiveUsers != first.ActiveUsers {
		t.Fatalf("re-join changed participant count: got %d want %d", again.ActiveUsers, first.ActiveUsers)
	}

	users := c.ActiveUsers("r1")
	if len(users) != 1 {
		t.Fatalf("expected 1 active user, got %d", len(users))
	}
	if users[0].MessageCount != 1 {
		t.Fatalf("re-join reset session message count: got %d want 1", users[0].MessageCount)
	}
}

func TestJoinRoomMovesUserBetweenRooms(t *testing.T) {
	c := newTestCoordinator()

	if _, err := c.JoinRoom("A", "Ada", "r1", false); err != nil {
		t.Fatalf("join r1 err: %v", err)
	}
	if _, err := c.JoinRoom("A", "Ada", "r2", false); err != nil {
		t.Fatalf("join r2 err: %v", err)
	}

	if users := c.ActiveUsers("r1"); len(users) != 0 {
		t.Fatalf("r1 should have no participants after move, got %d", len(users))
	}
	if users := c.ActiveUsers("r2"); len(users) != 1 {
		t.Fatalf("r2 should have 1 participant, got %d", len(users))
	}
	if _, err := c.SendMessage("A", "r1", "stale", ""); err != vent.ErrInvalidRoomOrUser {
		t.Fatalf("send to left room: got %v want ErrInvalidRoomOrUser", err)
	}
}

func TestJoinRoomRejectedKeepsPriorMembership(t *testing.T) {
	c := newTestCoordinator()

	if _, err := c.JoinRoom("A", "Ada", "r1", false); err != nil {
		t.Fatalf("join r1 err: %v", err)
	}
	for _, u := range []string{"B", "C", "D", "E", "F"} {
		if _, err := c.JoinRoom(u, "User "+u, "r2", false); err != nil {
			t.Fatalf("fill r2 with %s err: %v", u, err)
		}
	}

	_, err := c.JoinRoom("A", "Ada", "r2", false)
	if !vent.IsRoomFull(err) {
		t.Fatalf("expected RoomFullError, got %v", err)
	}

	users := c.ActiveUsers("r1")
	if len(users) != 1 || users[0].UserID != "A" {
		t.Fatalf("rejected join must not evict from prior room, r1 users: %+v", users)
	}
	if _, err := c.SendMessage("A", "r1", "still here", ""); err != nil {
		t.Fatalf("session should survive a rejected join, send err: %v", err)
	}
	if users := c.ActiveUsers("r2"); len(users) != 5 {
		t.Fatalf("r2 should still have 5 participants, got %d", len(users))
	}
}

func TestSendMessageValidation(t *testing.T) {
	c := newTestCoordinator()
	if _, err := c.JoinRoom("A", "Ada", "r1", false); err != nil {
		t.Fatalf("join err: %v", err)
	}

	if _, err := c.SendMessage("F", "r1", "hi", ""); err != vent.ErrInvalidRoomOrUser {
		t.Fatalf("non-member send: got %v want ErrInvalidRoomOrUser", err)
	}
	if _, err := c.SendMessage("A", "nope", "hi", ""); err != vent.ErrInvalidRoomOrUser {
		t.Fatalf("unknown room send: got %v want ErrInvalidRoomOrUser", err)
	}
	if _, err := c.SendMessage("A", "r1", "   \n\t ", ""); err != vent.ErrEmptyMessage {
		t.Fatalf("blank send: got %v want ErrEmptyMessage", err)
	}
	if _, err := c.SendMessage("A", "r1", strings.Repeat("x", 501), ""); err != vent.ErrMessageTooLong {
		t.Fatalf("long send: got %v want ErrMessageTooLong", err)
	}

	if msgs := c.Messages("r1", 0); len(msgs) != 0 {
		t.Fatalf("rejected sends must not append, ledger has %d entries", len(msgs))
	}
	stats, _ := c.RoomStats("r1")
	if stats.TotalMessages != 0 {
		t.Fatalf("rejected sends must not count, got %d", stats.TotalMessages)
	}

	res, err := c.SendMessage("A", "r1", strings.Repeat("y", 500), "")
	if err != nil {
		t.Fatalf("500-char send err: %v", err)
	}
	if res.Message.Type != "text" {
		t.Fatalf("default type: got %q want %q", res.Message.Type, "text")
	}
	if res.ActiveUsers != 1 {
		t.Fatalf("send active users: got %d want 1", res.ActiveUsers)
	}
}

func TestLedgerRetention(t *testing.T) {
	c := newTestCoordinator()
	if _, err := c.JoinRoom("A", "Ada", "r1", false); err != nil {
		t.Fatalf("join err: %v", err)
	}

	for i := 1; i <= 101; i++ {
		if _, err := c.SendMessage("A", "r1", fmt.Sprintf("m%d", i), ""); err != nil {
			t.Fatalf("send %d err: %v", i, err)
		}
	}

	msgs := c.Messages("r1", 101)
	if len(msgs) != 100 {
		t.Fatalf("retained messages: got %d want 100", len(msgs))
	}
	if msgs[0].Text != "m2" || msgs[99].Text != "m101" {
		t.Fatalf("retention order broken: first=%q last=%q", msgs[0].Text, msgs[99].Text)
	}

	stats, err := c.RoomStats("r1")
	if err != nil {
		t.Fatalf("RoomStats err: %v", err)
	}
	if stats.TotalMessages != 101 {
		t.Fatalf("lifetime counter: got %d want 101", stats.TotalMessages)
	}
	if stats.MessageHistoryLength != 100 {
		t.Fatalf("history length: got %d want 100", stats.MessageHistoryLength)
	}

	if got := len(c.Messages("r1", 0)); got != 50 {
		t.Fatalf("default recent limit: got %d want 50", got)
	}
}

func TestAnonymousDisplayName(t *testing.T) {
	c := newTestCoordinator()
	if _, err := c.JoinRoom("user_abcdef123", "Real Name", "r1", true); err != nil {
		t.Fatalf("join err: %v", err)
	}

	users := c.ActiveUsers("r1")
	if len(users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users))
	}
	if users[0].DisplayName != "Anonymous User #user_a" {
		t.Fatalf("pseudonym: got %q want %q", users[0].DisplayName, "Anonymous User #user_a")
	}

	res, err := c.SendMessage("user_abcdef123", "r1", "hello", "")
	if err != nil {
		t.Fatalf("send err: %v", err)
	}
	if res.Message.DisplayName != "Anonymous User #user_a" {
		t.Fatalf("message pseudonym: got %q", res.Message.DisplayName)
	}
	if !res.Message.IsAnonymous {
		t.Fatal("message should carry the anonymity flag")
	}
}

func TestClearMessages(t *testing.T) {
	c := newTestCoordinator()
	if _, err := c.JoinRoom("A", "Ada", "r1", false); err != nil {
		t.Fatalf("join err: %v", err)
	}
	if _, err := c.SendMessage("A", "r1", "hello", ""); err != nil {
		t.Fatalf("send err: %v", err)
	}

	if err := c.ClearMessages("r1"); err != nil {
		t.Fatalf("ClearMessages err: %v", err)
	}
	if err := c.ClearMessages("nope"); err != vent.ErrRoomNotFound {
		t.Fatalf("clear unknown room: got %v want ErrRoomNotFound", err)
	}

	stats, err := c.RoomStats("r1")
	if err != nil {
		t.Fatalf("room must survive clear: %v", err)
	}
	if stats.TotalMessages != 0 || stats.MessageHistoryLength != 0 {
		t.Fatalf("counters after clear: total=%d history=%d", stats.TotalMessages, stats.MessageHistoryLength)
	}
	if stats.ActiveUserCount != 1 {
		t.Fatalf("participants must survive clear, got %d", stats.ActiveUserCount)
	}
}

func TestCloseRoom(t *testing.T) {
	c := newTestCoordinator()
	for _, u := range []string{"A", "B"} {
		if _, err := c.JoinRoom(u, "User "+u, "r1", false); err != nil {
			t.Fatalf("join %s err: %v", u, err)
		}
	}
	if _, err := c.SendMessage("A", "r1", "bye", ""); err != nil {
		t.Fatalf("send err: %v", err)
	}

	if err := c.CloseRoom("r1"); err != nil {
		t.Fatalf("CloseRoom err: %v", err)
	}
	if err := c.CloseRoom("r1"); err != vent.ErrRoomNotFound {
		t.Fatalf("second close: got %v want ErrRoomNotFound", err)
	}

	if _, err := c.RoomStats("r1"); err != vent.ErrRoomNotFound {
		t.Fatalf("stats after close: got %v want ErrRoomNotFound", err)
	}
	if users := c.ActiveUsers("r1"); users != nil {
		t.Fatalf("active users after close: got %v want nil", users)
	}
	if msgs := c.Messages("r1", 0); len(msgs) != 0 {
		t.Fatalf("history after close: got %d entries", len(msgs))
	}

	// Former participants can join fresh rooms with clean sessions.
	if _, err := c.JoinRoom("A", "Ada", "r2", false); err != nil {
		t.Fatalf("rejoin after close err: %v", err)
	}
}

func TestLeaveRoomIdempotent(t *testing.T) {
	c := newTestCoordinator()
	if _, err := c.JoinRoom("A", "Ada", "r1", false); err != nil {
		t.Fatalf("join err: %v", err)
	}

	c.LeaveRoom("A", "r1")
	c.LeaveRoom("A", "r1")
	c.LeaveRoom("ghost", "r1")

	if users := c.ActiveUsers("r1"); len(users) != 0 {
		t.Fatalf("expected empty room, got %d users", len(users))
	}
	if _, err := c.SendMessage("A", "r1", "hi", ""); err != vent.ErrInvalidRoomOrUser {
		t.Fatalf("send after leave: got %v want ErrInvalidRoomOrUser", err)
	}
}

func TestAddReaction(t *testing.T) {
	c := newTestCoordinator()
	if _, err := c.JoinRoom("A", "Ada", "r1", false); err != nil {
		t.Fatalf("join err: %v", err)
	}
	res, err := c.SendMessage("A", "r1", "hello", "")
	if err != nil {
		t.Fatalf("send err: %v", err)
	}

	if err := c.AddReaction(res.Message.ID, "r1", "💜"); err != nil {
		t.Fatalf("AddReaction err: %v", err)
	}
	if err := c.AddReaction("msg_missing", "r1", "💜"); err != vent.ErrMessageNotFound {
		t.Fatalf("unknown message: got %v want ErrMessageNotFound", err)
	}
	if err := c.AddReaction(res.Message.ID, "nope", "💜"); err != vent.ErrMessageNotFound {
		t.Fatalf("unknown room: got %v want ErrMessageNotFound", err)
	}

	msgs := c.Messages("r1", 0)
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if len(msgs[0].Reactions) != 1 || msgs[0].Reactions[0].Emoji != "💜" {
		t.Fatalf("unexpected reactions: %+v", msgs[0].Reactions)
	}
}

func TestMessagesCopyIsolation(t *testing.T) {
	c := newTestCoordinator()
	if _, err := c.JoinRoom("A", "Ada", "r1", false); err != nil {
		t.Fatalf("join err: %v", err)
	}
	res, err := c.SendMessage("A", "r1", "hello", "")
	if err != nil {
		t.Fatalf("send err: %v", err)
	}

	snapshot := c.Messages("r1", 0)
	snapshot[0].Text = "tampered"

	if err := c.AddReaction(res.Message.ID, "r1", "🔥"); err != nil {
		t.Fatalf("AddReaction err: %v", err)
	}
	fresh := c.Messages("r1", 0)
	if fresh[0].Text != "hello" {
		t.Fatalf("stored text mutated through snapshot: %q", fresh[0].Text)
	}
	if len(fresh[0].Reactions) != 1 {
		t.Fatalf("expected 1 stored reaction, got %d", len(fresh[0].Reactions))
	}
}
