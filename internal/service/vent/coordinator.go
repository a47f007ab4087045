package vent

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"

	"github.com/melo-wellness/melo/backend/internal/model/vent"
)

// Limits bounds a coordinator's rooms and messages. Zero fields fall back
// to the product defaults.
type Limits struct {
	MaxUsersPerRoom int
	HistoryLimit    int
	RecentDefault   int
	MaxMessageChars int
}

// DefaultLimits returns the product defaults for room capacity and history.
func DefaultLimits() Limits {
	return Limits{
		MaxUsersPerRoom: 5,
		HistoryLimit:    100,
		RecentDefault:   50,
		MaxMessageChars: 500,
	}
}

func (l Limits) withDefaults() Limits {
	def := DefaultLimits()
	if l.MaxUsersPerRoom <= 0 {
		l.MaxUsersPerRoom = def.MaxUsersPerRoom
	}
	if l.HistoryLimit <= 0 {
		l.HistoryLimit = def.HistoryLimit
	}
	if l.RecentDefault <= 0 {
		l.RecentDefault = def.RecentDefault
	}
	if l.MaxMessageChars <= 0 {
		l.MaxMessageChars = def.MaxMessageChars
	}
	return l
}

// Coordinator composes the registry, directory and ledger behind a single
// lock so every operation observes a consistent triple. It owns no state of
// its own beyond that lock and the injected clock and id generator.
type Coordinator struct {
	mu       sync.RWMutex
	limits   Limits
	rooms    *Registry
	sessions *Directory
	ledger   *Ledger

	now          func() time.Time
	newMessageID func() string
}

// Option customizes a Coordinator, mainly for deterministic tests.
type Option func(*Coordinator)

// WithClock substitutes the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithMessageIDs substitutes the message id generator.
func WithMessageIDs(gen func() string) Option {
	return func(c *Coordinator) { c.newMessageID = gen }
}

// NewCoordinator bootstraps the in-memory room coordinator.
func NewCoordinator(limits Limits, opts ...Option) *Coordinator {
	limits = limits.withDefaults()
	c := &Coordinator{
		limits:       limits,
		rooms:        NewRegistry(limits.MaxUsersPerRoom),
		sessions:     NewDirectory(),
		ledger:       NewLedger(limits.HistoryLimit),
		now:          func() time.Time { return time.Now().UTC() },
		newMessageID: defaultMessageID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// defaultMessageID produces a time-ordered opaque token.
func defaultMessageID() string {
	return "msg_" + ulid.Make().String()
}

// Limits returns the effective configuration.
func (c *Coordinator) Limits() Limits {
	return c.limits
}

// JoinResult reports the room occupancy after a successful join.
type JoinResult struct {
	ActiveUsers int `json:"activeUsers"`
}

// JoinRoom admits the user to the room, creating both lazily. Joining a
// second room leaves the previous one, so a user is never a stale
// participant of two rooms at once. Re-joining the same room is idempotent.
// Admission is checked before the prior room is touched, so a rejected
// join leaves the user's existing membership and session intact.
func (c *Coordinator) JoinRoom(userID, displayName, roomID string, anonymous bool) (JoinResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.rooms.EnsureRoom(roomID, "", now)
	count, err := c.rooms.AddParticipant(roomID, userID)
	if err != nil {
		return JoinResult{}, err
	}

	if session, ok := c.sessions.Get(userID); ok && session.RoomID != roomID {
		c.rooms.RemoveParticipant(session.RoomID, userID)
		c.sessions.Remove(userID)
	}
	c.sessions.GetOrCreate(userID, displayName, roomID, anonymous, now)
	return JoinResult{ActiveUsers: count}, nil
}

// LeaveRoom removes the user from the room and destroys their session.
// It is idempotent and never fails.
func (c *Coordinator) LeaveRoom(userID, roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rooms.RemoveParticipant(roomID, userID)
	c.sessions.Remove(userID)
}

// SendResult carries the stored message and the room occupancy at send time.
type SendResult struct {
	Message     vent.Message `json:"message"`
	ActiveUsers int          `json:"activeUsers"`
}

// SendMessage validates and records a message. Validation order is fixed:
// membership, then emptiness, then length. A rejected send mutates nothing.
func (c *Coordinator) SendMessage(userID, roomID, text, msgType string) (SendResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.rooms.Room(roomID)
	if !ok {
		return SendResult{}, ErrInvalidRoomOrUser
	}
	session, ok := c.sessions.Get(userID)
	if !ok || session.RoomID != roomID {
		return SendResult{}, ErrInvalidRoomOrUser
	}
	if strings.TrimSpace(text) == "" {
		return SendResult{}, ErrEmptyMessage
	}
	if utf8.RuneCountInString(text) > c.limits.MaxMessageChars {
		return SendResult{}, ErrMessageTooLong
	}

	if msgType == "" {
		msgType = "text"
	}
	now := c.now()
	msg := vent.Message{
		ID:          c.newMessageID(),
		UserID:      userID,
		DisplayName: session.ResolvedName(),
		RoomID:      roomID,
		Text:        text,
		Type:        msgType,
		Timestamp:   now,
		IsAnonymous: session.IsAnonymous,
		Reactions:   []vent.Reaction{},
	}

	c.ledger.Append(roomID, msg)
	c.rooms.IncrementMessageCount(roomID)
	c.sessions.Touch(userID, now)

	return SendResult{Message: msg, ActiveUsers: room.ParticipantCount()}, nil
}

// Messages returns up to limit recent messages for the room, newest last.
// A non-positive limit applies the configured default.
func (c *Coordinator) Messages(roomID string, limit int) []vent.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if limit <= 0 {
		limit = c.limits.RecentDefault
	}
	return c.ledger.Recent(roomID, limit)
}

// ActiveUsers lists the room's current participants with resolved display
// names. Sessions not backed by a participant entry are excluded.
func (c *Coordinator) ActiveUsers(roomID string) []vent.Participant {
	c.mu.RLock()
	defer c.mu.RUnlock()

	room, ok := c.rooms.Room(roomID)
	if !ok {
		return nil
	}
	sessions := c.sessions.ListForRoom(roomID)
	out := make([]vent.Participant, 0, len(sessions))
	for _, session := range sessions {
		if !room.HasParticipant(session.UserID) {
			continue
		}
		out = append(out, vent.Participant{
			UserID:       session.UserID,
			DisplayName:  session.ResolvedName(),
			IsAnonymous:  session.IsAnonymous,
			LastActiveAt: session.LastActiveAt,
			MessageCount: session.MessageCount,
		})
	}
	return out
}

// RoomStats aggregates a room's counters.
func (c *Coordinator) RoomStats(roomID string) (vent.Stats, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	room, ok := c.rooms.Room(roomID)
	if !ok {
		return vent.Stats{}, ErrRoomNotFound
	}
	return vent.Stats{
		RoomID:               room.ID,
		RoomName:             room.Name,
		ActiveUserCount:      room.ParticipantCount(),
		TotalMessages:        room.MessageCount,
		CreatedAt:            room.CreatedAt,
		MessageHistoryLength: c.ledger.Len(roomID),
	}, nil
}

// AllRoomStats aggregates every room, for the admin surface.
func (c *Coordinator) AllRoomStats() []vent.Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rooms := c.rooms.Rooms()
	out := make([]vent.Stats, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, vent.Stats{
			RoomID:               room.ID,
			RoomName:             room.Name,
			ActiveUserCount:      room.ParticipantCount(),
			TotalMessages:        room.MessageCount,
			CreatedAt:            room.CreatedAt,
			MessageHistoryLength: c.ledger.Len(room.ID),
		})
	}
	return out
}

// ClearMessages empties the room's history and resets its lifetime counter.
// Participants and the room itself survive.
func (c *Coordinator) ClearMessages(roomID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.rooms.Room(roomID); !ok {
		return ErrRoomNotFound
	}
	c.ledger.Clear(roomID)
	c.rooms.ResetMessageCount(roomID)
	return nil
}

// CloseRoom destroys the room, its history and every participant's session.
func (c *Coordinator) CloseRoom(roomID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	participants, ok := c.rooms.Close(roomID)
	if !ok {
		return ErrRoomNotFound
	}
	for _, userID := range participants {
		c.sessions.Remove(userID)
	}
	c.ledger.Drop(roomID)
	return nil
}

// AddReaction appends an emoji reaction to a message in the room's history.
func (c *Coordinator) AddReaction(messageID, roomID, emoji string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.AddReaction(roomID, messageID, emoji, c.now())
}
