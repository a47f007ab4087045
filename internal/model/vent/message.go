package vent

import "time"

// Message is a single accepted vent-room message.
type Message struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	DisplayName string     `json:"displayName"`
	RoomID      string     `json:"roomId"`
	Text        string     `json:"text"`
	Type        string     `json:"type"`
	Timestamp   time.Time  `json:"timestamp"`
	IsAnonymous bool       `json:"isAnonymous"`
	Reactions   []Reaction `json:"reactions"`
}

// Reaction records a single emoji response to a message.
type Reaction struct {
	Emoji     string    `json:"emoji"`
	Timestamp time.Time `json:"timestamp"`
}
