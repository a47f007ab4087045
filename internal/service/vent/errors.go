package vent

import (
	"errors"
	"fmt"
)

var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrInvalidRoomOrUser = errors.New("invalid room or user")
	ErrEmptyMessage      = errors.New("message cannot be empty")
	ErrMessageTooLong    = errors.New("message too long")
	ErrMessageNotFound   = errors.New("message not found")
)

// RoomFullError reports a join rejected by the room capacity limit.
type RoomFullError struct {
	Max int
}

func (e *RoomFullError) Error() string {
	return fmt.Sprintf("room is full (max %d users)", e.Max)
}

// IsRoomFull reports whether err is a capacity rejection.
func IsRoomFull(err error) bool {
	var full *RoomFullError
	return errors.As(err, &full)
}
