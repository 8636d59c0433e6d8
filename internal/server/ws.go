// Package server provides the HTTP API and WebSocket event stream for the
// HandTrace gesture recognition system.
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // local connections only; no browser cross-origin concern
	},
}

// EventKind labels the payload carried by an Event, so a single WebSocket
// connection can multiplex fingertip and gesture updates without the client
// needing a handler per endpoint.
type EventKind string

const (
	EventFingertips       EventKind = "fingertips"
	EventGestureRecorded  EventKind = "gesture_recorded"
	EventGestureRecognize EventKind = "gesture_recognized"
)

// Event is the envelope broadcast to every connected client.
type Event struct {
	Kind      EventKind   `json:"kind"`
	Timestamp int64       `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// GestureRecognizedData is the payload for EventGestureRecognize.
type GestureRecognizedData struct {
	Name         string  `json:"name"`
	MeanPathCost float64 `json:"mean_path_cost"`
}

// EventsHandler is a WebSocket hub that re-publishes pipeline events
// (fingertip locations, recorded and recognized gestures) pushed in by
// Broadcast to every subscriber. Unlike the old landmarks handler it does
// not poll a camera itself; cmd/handtrace calls Broadcast directly from the
// App's event callbacks.
type EventsHandler struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewEventsHandler creates an empty EventsHandler.
func NewEventsHandler() *EventsHandler {
	return &EventsHandler{clients: make(map[*websocket.Conn]bool)}
}

// ServeHTTP upgrades the request to a WebSocket connection and registers
// it as a broadcast subscriber until the client disconnects.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// The handler only pushes; reading here just detects disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Broadcast marshals ev and sends it to every connected client. A client
// whose write fails is dropped. No write deadline is set, so a slow reader
// holds up Broadcast until its write completes or fails.
func (h *EventsHandler) Broadcast(ev Event) {
	msg, err := json.Marshal(ev)
	if err != nil {
		log.Printf("server: failed to marshal event %s: %v", ev.Kind, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			go func(c *websocket.Conn) {
				h.mu.Lock()
				delete(h.clients, c)
				h.mu.Unlock()
				c.Close()
			}(conn)
		}
	}
}

// ClientCount reports how many WebSocket clients are currently connected.
func (h *EventsHandler) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
