package vent

import (
	"sort"
	"time"

	"github.com/melo-wellness/melo/backend/internal/model/vent"
)

// Directory owns the active session record of each user, independent of
// which room they joined. Like Registry, it relies on the Coordinator for
// serialization.
type Directory struct {
	sessions map[string]*vent.Session
}

// NewDirectory returns an empty session directory.
func NewDirectory() *Directory {
	return &Directory{sessions: make(map[string]*vent.Session)}
}

// GetOrCreate returns the user's session, creating one bound to the room if
// absent. Re-joining never resets joinedAt or counters.
func (d *Directory) GetOrCreate(userID, displayName, roomID string, anonymous bool, now time.Time) *vent.Session {
	if session, ok := d.sessions[userID]; ok {
		return session
	}
	session := &vent.Session{
		UserID:       userID,
		DisplayName:  displayName,
		RoomID:       roomID,
		JoinedAt:     now,
		LastActiveAt: now,
		IsAnonymous:  anonymous,
	}
	d.sessions[userID] = session
	return session
}

// Get looks up a session by user id.
func (d *Directory) Get(userID string) (*vent.Session, bool) {
	session, ok := d.sessions[userID]
	return session, ok
}

// Touch records activity: lastActiveAt moves to now, messageCount increments.
func (d *Directory) Touch(userID string, now time.Time) {
	if session, ok := d.sessions[userID]; ok {
		session.LastActiveAt = now
		session.MessageCount++
	}
}

// Remove destroys the user's session if present.
func (d *Directory) Remove(userID string) {
	delete(d.sessions, userID)
}

// ListForRoom returns the sessions bound to the room, oldest join first.
func (d *Directory) ListForRoom(roomID string) []*vent.Session {
	var out []*vent.Session
	for _, session := range d.sessions {
		if session.RoomID == roomID {
			out = append(out, session)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].JoinedAt.Equal(out[j].JoinedAt) {
			return out[i].UserID < out[j].UserID
		}
		return out[i].JoinedAt.Before(out[j].JoinedAt)
	})
	return out
}
