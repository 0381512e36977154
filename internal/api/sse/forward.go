package sse

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Event names for controller state snapshots
const (
	EventSetup   = "setup"
	EventGame    = "game"
	EventHistory = "history"
)

// Snapshot encodes v as an event
func Snapshot(name string, v any) (Event, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Event{}, err
	}
	return Event{Name: name, Data: string(data)}, nil
}

// Forward broadcasts every value received on updates as a named event until
// ctx is done or updates is closed.
func Forward[T any](ctx context.Context, hub *Hub, name string, updates <-chan T, logger *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case v, ok := <-updates:
			if !ok {
				return
			}
			event, err := Snapshot(name, v)
			if err != nil {
				logger.Error("sse failed to encode state",
					slog.String("event", name),
					slog.String("error", err.Error()))
				continue
			}
			hub.Broadcast(event)
		}
	}
}
