package vent

import (
	"time"

	"github.com/melo-wellness/melo/backend/internal/model/vent"
)

// Ledger owns the bounded, insertion-ordered message history of each room.
// Retention is a hard cap: once full, the oldest entries are dropped.
type Ledger struct {
	cap     int
	history map[string][]vent.Message
}

// NewLedger returns an empty ledger retaining at most cap messages per room.
func NewLedger(cap int) *Ledger {
	return &Ledger{
		cap:     cap,
		history: make(map[string][]vent.Message),
	}
}

// Append pushes the message onto the room's history, trimming from the
// front when the cap is exceeded. Trimming copies so the dropped prefix
// does not pin the old backing array.
func (l *Ledger) Append(roomID string, msg vent.Message) {
	entries := append(l.history[roomID], msg)
	if len(entries) > l.cap {
		trimmed := make([]vent.Message, l.cap)
		copy(trimmed, entries[len(entries)-l.cap:])
		entries = trimmed
	}
	l.history[roomID] = entries
}

// Recent returns copies of the last limit messages without mutating the
// stored history. Unknown rooms yield an empty slice.
func (l *Ledger) Recent(roomID string, limit int) []vent.Message {
	entries := l.history[roomID]
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	out := make([]vent.Message, len(entries))
	for i, msg := range entries {
		out[i] = msg
		out[i].Reactions = append([]vent.Reaction(nil), msg.Reactions...)
	}
	return out
}

// Len reports how many messages the room currently retains.
func (l *Ledger) Len(roomID string) int {
	return len(l.history[roomID])
}

// Clear replaces the room's history with an empty sequence.
func (l *Ledger) Clear(roomID string) {
	l.history[roomID] = nil
}

// Drop forgets the room entirely, used when the room is closed.
func (l *Ledger) Drop(roomID string) {
	delete(l.history, roomID)
}

// AddReaction appends an emoji reaction to the identified message.
func (l *Ledger) AddReaction(roomID, messageID, emoji string, now time.Time) error {
	entries := l.history[roomID]
	for i := range entries {
		if entries[i].ID == messageID {
			entries[i].Reactions = append(entries[i].Reactions, vent.Reaction{
				Emoji:     emoji,
				Timestamp: now,
			})
			return nil
		}
	}
	return ErrMessageNotFound
}
