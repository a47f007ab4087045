package vent

import (
	"time"

	"github.com/melo-wellness/melo/backend/internal/model/vent"
)

// DefaultRoomName labels rooms created without an explicit name.
const DefaultRoomName = "Vent Room"

// Registry owns room metadata and participant sets. It is not safe for
// concurrent use on its own; the Coordinator serializes all access.
type Registry struct {
	maxUsersPerRoom int
	rooms           map[string]*vent.Room
}

// NewRegistry returns an empty registry enforcing the given per-room cap.
func NewRegistry(maxUsersPerRoom int) *Registry {
	return &Registry{
		maxUsersPerRoom: maxUsersPerRoom,
		rooms:           make(map[string]*vent.Room),
	}
}

// MaxUsersPerRoom returns the configured per-room capacity.
func (r *Registry) MaxUsersPerRoom() int {
	return r.maxUsersPerRoom
}

// EnsureRoom returns the room, creating it lazily on first reference.
// Existing room metadata is never reset.
func (r *Registry) EnsureRoom(roomID, name string, now time.Time) *vent.Room {
	if room, ok := r.rooms[roomID]; ok {
		return room
	}
	if name == "" {
		name = DefaultRoomName
	}
	room := &vent.Room{
		ID:           roomID,
		Name:         name,
		CreatedAt:    now,
		Participants: make(map[string]struct{}),
		IsPublic:     true,
	}
	r.rooms[roomID] = room
	return room
}

// Room looks up a room by identifier.
func (r *Registry) Room(roomID string) (*vent.Room, bool) {
	room, ok := r.rooms[roomID]
	return room, ok
}

// Rooms returns every known room.
func (r *Registry) Rooms() []*vent.Room {
	out := make([]*vent.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		out = append(out, room)
	}
	return out
}

// AddParticipant admits the user, returning the new participant count.
// Admission of a user already present is a no-op and never rejected.
func (r *Registry) AddParticipant(roomID, userID string) (int, error) {
	room, ok := r.rooms[roomID]
	if !ok {
		return 0, ErrRoomNotFound
	}
	if !room.HasParticipant(userID) && room.ParticipantCount() >= r.maxUsersPerRoom {
		return 0, &RoomFullError{Max: r.maxUsersPerRoom}
	}
	room.Participants[userID] = struct{}{}
	return room.ParticipantCount(), nil
}

// RemoveParticipant drops the user from the room if present.
func (r *Registry) RemoveParticipant(roomID, userID string) {
	if room, ok := r.rooms[roomID]; ok {
		delete(room.Participants, userID)
	}
}

// Close removes the room and returns the ids of its former participants so
// the caller can destroy their sessions.
func (r *Registry) Close(roomID string) ([]string, bool) {
	room, ok := r.rooms[roomID]
	if !ok {
		return nil, false
	}
	participants := make([]string, 0, room.ParticipantCount())
	for userID := range room.Participants {
		participants = append(participants, userID)
	}
	delete(r.rooms, roomID)
	return participants, true
}

// IncrementMessageCount bumps the room's lifetime message counter.
func (r *Registry) IncrementMessageCount(roomID string) {
	if room, ok := r.rooms[roomID]; ok {
		room.MessageCount++
	}
}

// ResetMessageCount zeroes the lifetime counter, used when history is cleared.
func (r *Registry) ResetMessageCount(roomID string) {
	if room, ok := r.rooms[roomID]; ok {
		room.MessageCount = 0
	}
}
