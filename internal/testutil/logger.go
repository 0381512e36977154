package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// NopLogger returns a logger that discards all output.
// Use this in tests to avoid log noise.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// LogRecorder captures JSON log records so tests can assert on them
type LogRecorder struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// NewLogRecorder returns a recorder and a logger writing into it at debug level
func NewLogRecorder() (*LogRecorder, *slog.Logger) {
	rec := &LogRecorder{}
	return rec, slog.New(slog.NewJSONHandler(rec, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// Write implements io.Writer
func (r *LogRecorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Write(p)
}

// Records returns every captured record decoded into a map
func (r *LogRecorder) Records() []map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	var records []map[string]any
	for _, line := range strings.Split(r.buf.String(), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var rec map[string]any
		if err := json.Unmarshal([]byte(line), &rec); err == nil {
			records = append(records, rec)
		}
	}
	return records
}

// Count returns how many records were logged at level with the given msg
func (r *LogRecorder) Count(level slog.Level, msg string) int {
	n := 0
	for _, rec := range r.Records() {
		if rec[slog.LevelKey] == level.String() && rec[slog.MessageKey] == msg {
			n++
		}
	}
	return n
}
