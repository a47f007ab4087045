package room

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Feed fans accepted room messages out to live websocket subscribers.
// Slow subscribers are dropped rather than allowed to stall a room.
type Feed struct {
	mu          sync.RWMutex
	subscribers map[string]map[*subscriber]struct{}
	upgrader    websocket.Upgrader
}

type subscriber struct {
	send chan []byte
}

const subscriberBuffer = 16

// NewFeed returns an empty live feed.
func NewFeed() *Feed {
	return &Feed{
		subscribers: make(map[string]map[*subscriber]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Publish broadcasts payload to every subscriber of the room.
func (f *Feed) Publish(roomID string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[live] failed to marshal payload: %v", err)
		return
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	for sub := range f.subscribers[roomID] {
		select {
		case sub.send <- data:
		default:
			// Subscriber is not keeping up; drop the message.
		}
	}
}

// Serve upgrades the request and streams the room's accepted messages
// until the client disconnects.
func (f *Feed) Serve(w http.ResponseWriter, r *http.Request, roomID string) {
	conn, err := f.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[live] upgrade failed: %v", err)
		return
	}

	sub := &subscriber{send: make(chan []byte, subscriberBuffer)}
	f.subscribe(roomID, sub)
	metricLiveConnections.Inc()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for data := range sub.send {
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}()

	// Reader loop exists only to observe the close handshake.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	f.unsubscribe(roomID, sub)
	close(sub.send)
	<-done
	conn.Close()
	metricLiveConnections.Dec()
}

func (f *Feed) subscribe(roomID string, sub *subscriber) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subscribers[roomID] == nil {
		f.subscribers[roomID] = make(map[*subscriber]struct{})
	}
	f.subscribers[roomID][sub] = struct{}{}
}

func (f *Feed) unsubscribe(roomID string, sub *subscriber) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.subscribers[roomID], sub)
	if len(f.subscribers[roomID]) == 0 {
		delete(f.subscribers, roomID)
	}
}
