package sse

import (
	"net/http"
	"time"
)

const (
	// Time between keepalive comments
	pingPeriod = 30 * time.Second

	sendBufferSize = 64
)

// Client is one connected event stream
type Client struct {
	remote      string
	connectedAt time.Time
	send        chan []byte
}

// NewClient creates a client identified by its remote address
func NewClient(remote string) *Client {
	return &Client{
		remote:      remote,
		connectedAt: time.Now(),
		send:        make(chan []byte, sendBufferSize),
	}
}

// ServeSSE streams hub events to w until the request ends or the hub closes.
// The initial events are written right after the connected event so a new
// client starts from the current state.
func ServeSSE(w http.ResponseWriter, r *http.Request, hub *Hub, initial ...Event) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	client := NewClient(r.RemoteAddr)
	if !hub.Register(client) {
		http.Error(w, "Event stream closed", http.StatusServiceUnavailable)
		return
	}
	defer hub.Unregister(client)

	_, _ = w.Write(formatSSEMessage("connected", `{"status":"connected"}`))
	for _, event := range initial {
		_, _ = w.Write(formatSSEMessage(event.Name, event.Data))
	}
	flusher.Flush()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.send:
			if !ok {
				return
			}
			if _, err := w.Write(message); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
