package vent

import "time"

// Room is a capacity-bounded space where participants vent anonymously.
type Room struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	CreatedAt    time.Time           `json:"createdAt"`
	Participants map[string]struct{} `json:"-"`
	MessageCount int                 `json:"messageCount"`
	IsPublic     bool                `json:"isPublic"`
}

// ParticipantCount reports how many users are currently joined.
func (r *Room) ParticipantCount() int {
	return len(r.Participants)
}

// HasParticipant reports whether the user is currently joined.
func (r *Room) HasParticipant(userID string) bool {
	_, ok := r.Participants[userID]
	return ok
}

// Stats is the aggregate view of a room exposed to callers.
type Stats struct {
	RoomID               string    `json:"roomId"`
	RoomName             string    `json:"roomName"`
	ActiveUserCount      int       `json:"activeUserCount"`
	TotalMessages        int       `json:"totalMessages"`
	CreatedAt            time.Time `json:"createdAt"`
	MessageHistoryLength int       `json:"messageHistoryLength"`
}
