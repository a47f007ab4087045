package vent

import "time"

// Session captures one user's live participation in a vent room. A user
// holds at most one session at a time, regardless of room.
type Session struct {
	UserID       string    `json:"userId"`
	DisplayName  string    `json:"displayName"`
	RoomID       string    `json:"roomId"`
	JoinedAt     time.Time `json:"joinedAt"`
	LastActiveAt time.Time `json:"lastActiveAt"`
	IsAnonymous  bool      `json:"isAnonymous"`
	MessageCount int       `json:"messageCount"`
}

// anonymousPrefixLen is how much of the user id leaks into a pseudonym.
const anonymousPrefixLen = 6

// ResolvedName returns the outward-facing display name, substituting a
// pseudonym derived from the user id when the session is anonymous.
func (s *Session) ResolvedName() string {
	if !s.IsAnonymous {
		return s.DisplayName
	}
	prefix := s.UserID
	if len(prefix) > anonymousPrefixLen {
		prefix = prefix[:anonymousPrefixLen]
	}
	return "Anonymous User #" + prefix
}

// Participant is the per-user view returned when listing a room's active users.
type Participant struct {
	UserID       string    `json:"userId"`
	DisplayName  string    `json:"displayName"`
	IsAnonymous  bool      `json:"isAnonymous"`
	LastActiveAt time.Time `json:"lastActiveAt"`
	MessageCount int       `json:"messageCount"`
}
